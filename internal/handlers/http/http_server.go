// Package http exposes the REST and websocket surface of the application on
// a gorilla/mux router.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"smartMatchApp/internal/domain/repository"
	"smartMatchApp/internal/domain/useCases"
)

// ProviderConfigurer lets the key of the upstream data provider be swapped
// at runtime.
type ProviderConfigurer interface {
	SetAPIKey(key string)
}

// Server represents the HTTP server with all routes configured
type Server struct {
	store      repository.Store
	matches    useCases.MatchService
	feed       useCases.FeedService
	chat       useCases.ChatService
	enrichment useCases.EnrichmentService
	provider   ProviderConfigurer
	wsHandler  http.HandlerFunc

	authRequired bool
	log          *slog.Logger

	router *mux.Router
	server *http.Server
}

type ServerDeps struct {
	Store      repository.Store
	Matches    useCases.MatchService
	Feed       useCases.FeedService
	Chat       useCases.ChatService
	Enrichment useCases.EnrichmentService
	Provider   ProviderConfigurer
	WSHandler  http.HandlerFunc
}

// NewServer creates a new HTTP server with configured routes
func NewServer(addr string, deps ServerDeps, authRequired bool, log *slog.Logger) *Server {
	router := mux.NewRouter()

	s := &Server{
		store:        deps.Store,
		matches:      deps.Matches,
		feed:         deps.Feed,
		chat:         deps.Chat,
		enrichment:   deps.Enrichment,
		provider:     deps.Provider,
		wsHandler:    deps.WSHandler,
		authRequired: authRequired,
		log:          log,
		router:       router,
		server: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	s.registerRoutes()
	return s
}

// registerRoutes configures all HTTP routes
func (s *Server) registerRoutes() {
	s.router.Use(s.corsMiddleware)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/users", s.handleCreateUser).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/users/{wallet}/profile", s.handleUpdateProfile).Methods(http.MethodPut, http.MethodOptions)
	api.HandleFunc("/profiles/{wallet}", s.handleGetFeed).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/swipe", s.handleSwipe).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/matches/{wallet}", s.handleGetMatches).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/chat/{room}/messages", s.handleGetMessages).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/chat/message", s.handleSendMessage).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/config/nansen", s.handleConfigureProvider).Methods(http.MethodPost, http.MethodOptions)

	s.router.HandleFunc("/ws/chat/{room}", s.wsHandler)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Wallet-Address, X-Wallet-Signature, X-Message")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
