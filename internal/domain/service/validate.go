package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"smartMatchApp/internal/domain/model"
)

const (
	maxBioLen     = 500
	maxFieldLen   = 120
	maxMessageLen = 2000
)

// Substrings rejected in any user-supplied text.
var disallowed = []string{"<script", "javascript:", "onerror="}

func checkText(field, value string, maxLen int, required bool) error {
	trimmed := strings.TrimSpace(value)
	if required && trimmed == "" {
		return fmt.Errorf("%w: %s must not be empty", model.ErrValidation, field)
	}
	// limits are in characters, not bytes
	if utf8.RuneCountInString(trimmed) > maxLen {
		return fmt.Errorf("%w: %s exceeds %d characters", model.ErrValidation, field, maxLen)
	}
	lower := strings.ToLower(trimmed)
	for _, bad := range disallowed {
		if strings.Contains(lower, bad) {
			return fmt.Errorf("%w: %s contains disallowed content", model.ErrValidation, field)
		}
	}
	return nil
}

// ValidateMessageText checks a chat message body before persisting.
func ValidateMessageText(text string) error {
	return checkText("message", text, maxMessageLen, true)
}

// ValidateProfile checks submitted profile fields. Bio, country, favourite
// CT account, trading venue and asset choice are required on completion;
// the rest are optional.
func ValidateProfile(p model.ProfileUpdate) error {
	checks := []struct {
		name     string
		value    *string
		maxLen   int
		required bool
	}{
		{"bio", p.Bio, maxBioLen, true},
		{"country", p.Country, maxFieldLen, true},
		{"favourite_ct_account", p.FavouriteCT, maxFieldLen, true},
		{"worst_ct_account", p.WorstCT, maxFieldLen, false},
		{"favourite_trading_venue", p.TradingVenue, maxFieldLen, true},
		{"asset_choice_6m", p.AssetChoice6M, maxFieldLen, true},
		{"twitter_account", p.Twitter, maxFieldLen, false},
	}
	for _, c := range checks {
		if c.value == nil {
			if c.required {
				return fmt.Errorf("%w: %s is required", model.ErrValidation, c.name)
			}
			continue
		}
		if err := checkText(c.name, *c.value, c.maxLen, c.required); err != nil {
			return err
		}
	}
	return nil
}
