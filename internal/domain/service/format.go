package service

import (
	"fmt"
	"strings"
)

// FormatMoney renders a USD amount with k/M abbreviation: values >= 1,000,000
// as "X.YM", values >= 1,000 as "X.Yk", a trailing ".0" stripped and the
// sign preserved for negative amounts.
func FormatMoney(v float64) string {
	neg := v < 0
	abs := v
	if neg {
		abs = -abs
	}

	var s string
	switch {
	case abs >= 1_000_000:
		s = trimPointZero(fmt.Sprintf("%.1f", abs/1_000_000)) + "M"
	case abs >= 1_000:
		s = trimPointZero(fmt.Sprintf("%.1f", abs/1_000)) + "k"
	default:
		s = trimPointZero(fmt.Sprintf("%.1f", abs))
	}

	if neg {
		return "-" + s
	}
	return s
}

func trimPointZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
