package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"smartMatchApp/internal/auth"
	"smartMatchApp/internal/domain/model"
	"smartMatchApp/internal/domain/service"
)

type createUserRequest struct {
	WalletAddress string `json:"wallet_address"`
}

type createUserResponse struct {
	UserID        string `json:"user_id"`
	WalletAddress string `json:"wallet_address"`
	Exists        bool   `json:"exists"`
}

type profileUpdateRequest struct {
	Bio           *string `json:"bio"`
	Country       *string `json:"country"`
	FavouriteCT   *string `json:"favourite_ct_account"`
	WorstCT       *string `json:"worst_ct_account"`
	TradingVenue  *string `json:"favourite_trading_venue"`
	AssetChoice6M *string `json:"asset_choice_6m"`
	Twitter       *string `json:"twitter_account"`
}

type swipeRequest struct {
	UserWallet   string `json:"user_wallet"`
	TargetWallet string `json:"target_wallet"`
	Direction    string `json:"direction"`
}

type swipeResponse struct {
	Status       string `json:"status"`
	MatchCreated bool   `json:"match_created"`
	ChatRoomID   string `json:"chat_room_id,omitempty"`
}

type matchEntry struct {
	WalletAddress string    `json:"wallet_address"`
	ChatRoomID    string    `json:"chat_room_id"`
	CreatedAt     time.Time `json:"created_at"`
}

type messageEntry struct {
	SenderWallet string    `json:"sender_wallet"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}

type sendMessageRequest struct {
	ChatRoomID   string `json:"chat_room_id"`
	SenderWallet string `json:"sender_wallet"`
	Message      string `json:"message"`
}

type providerConfigRequest struct {
	APIKey string `json:"api_key"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("failed to encode response", slog.Any("error", err))
	}
}

// writeError translates domain sentinels into HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", slog.Any("error", err))
	}
	s.writeJSON(w, status, map[string]string{"detail": err.Error()})
}

// authorize proves the caller owns resourceWallet via the signature headers.
// When auth is not enforced, failures are logged and the request proceeds.
func (s *Server) authorize(r *http.Request, resourceWallet string) error {
	wallet := r.Header.Get(auth.HeaderWalletAddress)
	signature := r.Header.Get(auth.HeaderSignature)
	message := r.Header.Get(auth.HeaderMessage)

	authenticated, err := auth.Authenticate(wallet, signature, message)
	if err == nil {
		err = auth.RequireOwner(resourceWallet, authenticated)
	}
	if err != nil && !s.authRequired {
		s.log.Warn("auth check failed, enforcement disabled",
			slog.String("wallet", resourceWallet), slog.Any("error", err))
		return nil
	}
	return err
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.WalletAddress == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "wallet_address is required"})
		return
	}

	identity, created, err := s.store.UpsertIdentity(r.Context(), req.WalletAddress)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, createUserResponse{
		UserID:        identity.ID,
		WalletAddress: identity.WalletAddress,
		Exists:        !created,
	})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	wallet := mux.Vars(r)["wallet"]
	if err := s.authorize(r, wallet); err != nil {
		s.writeError(w, err)
		return
	}

	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body"})
		return
	}

	fields := model.ProfileUpdate{
		Bio:           req.Bio,
		Country:       req.Country,
		FavouriteCT:   req.FavouriteCT,
		WorstCT:       req.WorstCT,
		TradingVenue:  req.TradingVenue,
		AssetChoice6M: req.AssetChoice6M,
		Twitter:       req.Twitter,
	}
	if err := service.ValidateProfile(fields); err != nil {
		s.writeError(w, err)
		return
	}

	identity, err := s.store.UpdateProfile(r.Context(), wallet, fields)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "success",
		"trader_number": identity.TraderNumber,
	})
}

func (s *Server) handleGetFeed(w http.ResponseWriter, r *http.Request) {
	wallet := mux.Vars(r)["wallet"]
	if err := s.authorize(r, wallet); err != nil {
		s.writeError(w, err)
		return
	}

	profiles, err := s.feed.BuildFeed(r.Context(), wallet)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"profiles": profiles})
}

func (s *Server) handleSwipe(w http.ResponseWriter, r *http.Request) {
	var req swipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body"})
		return
	}
	if err := s.authorize(r, req.UserWallet); err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.matches.RecordSwipe(r.Context(), req.UserWallet, req.TargetWallet, model.SwipeDirection(req.Direction))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, swipeResponse{
		Status:       "success",
		MatchCreated: result.MatchCreated,
		ChatRoomID:   result.ChatRoomID,
	})
}

func (s *Server) handleGetMatches(w http.ResponseWriter, r *http.Request) {
	wallet := mux.Vars(r)["wallet"]
	if err := s.authorize(r, wallet); err != nil {
		s.writeError(w, err)
		return
	}

	matches, err := s.matches.ListMatches(r.Context(), wallet)
	if err != nil {
		s.writeError(w, err)
		return
	}

	entries := make([]matchEntry, 0, len(matches))
	for _, m := range matches {
		entries = append(entries, matchEntry{
			WalletAddress: m.Counterparty(wallet),
			ChatRoomID:    m.ChatRoomID,
			CreatedAt:     m.CreatedAt,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"matches": entries})
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["room"]

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	messages, err := s.chat.History(r.Context(), roomID, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	entries := make([]messageEntry, 0, len(messages))
	for _, m := range messages {
		entries = append(entries, messageEntry{
			SenderWallet: m.SenderWallet,
			Message:      m.Text,
			CreatedAt:    m.CreatedAt,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"messages": entries})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body"})
		return
	}
	if err := s.authorize(r, req.SenderWallet); err != nil {
		s.writeError(w, err)
		return
	}

	msg, err := s.chat.SendMessage(r.Context(), req.ChatRoomID, req.SenderWallet, req.Message)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":     "success",
		"message_id": msg.ID,
	})
}

// handleConfigureProvider swaps the upstream API key and drops every cached
// enrichment entry so the next feed reflects real data immediately.
func (s *Server) handleConfigureProvider(w http.ResponseWriter, r *http.Request) {
	var req providerConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.APIKey == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "api_key is required"})
		return
	}

	s.provider.SetAPIKey(req.APIKey)
	dropped := s.enrichment.InvalidateAll()
	s.log.Info("provider API key reconfigured", slog.Int("entries_dropped", dropped))

	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Nansen API key configured",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Smart Money Tinder API",
		"status":  "running",
	})
}
