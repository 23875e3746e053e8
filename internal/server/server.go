// Package server exposes the ingestion endpoint, the read/management API
// and the mini-app static assets. Handlers are stateless: each request
// runs a small number of storage statements and returns; dedup correctness
// under concurrent gatherers is delegated to the storage unique index.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sloghttp "github.com/samber/slog-http"

	"telegram-job-parser/internal/config"
	"telegram-job-parser/internal/notify"
	"telegram-job-parser/internal/storage"
)

type Server struct {
	cfg      *config.Server
	storage  *storage.Storage
	notifier notify.Notifier
	logger   *slog.Logger
}

func New(cfg *config.Server, store *storage.Storage, notifier notify.Notifier) *Server {
	return &Server{
		cfg:      cfg,
		storage:  store,
		notifier: notifier,
		logger:   slog.Default(),
	}
}

func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Routes builds the route table. Exposed separately from Start so tests can
// drive it through httptest.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /post", s.handleIngest)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /feed.xml", s.handleFeed)
	mux.HandleFunc("GET /api/jobs", s.handleListJobs)
	mux.HandleFunc("GET /api/channels", s.handleListChannels)
	mux.HandleFunc("POST /api/channels", s.handleAddChannel)
	mux.HandleFunc("DELETE /api/channels/{id}", s.handleDeleteChannel)

	// Mini-app front-end: GET / serves index.html, everything else is
	// looked up in the static directory.
	mux.Handle("GET /", http.FileServer(http.Dir(s.cfg.StaticDir)))

	return mux
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	s.logger.Info("HTTP server starting", "addr", addr)

	handler := sloghttp.Recovery(s.Routes())
	handler = sloghttp.New(s.logger)(handler)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
