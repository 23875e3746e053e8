package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"telegram-job-parser/internal/domain"
)

type ingestRequest struct {
	ChatTitle  string  `json:"chat_title"`
	Text       string  `json:"text"`
	Link       *string `json:"link"`
	SourceType string  `json:"source_type"`
}

type jobView struct {
	ID        uint      `json:"id"`
	ChatTitle string    `json:"chat_title"`
	Text      string    `json:"text"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-SECRET") != s.cfg.SharedSecret {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return
	}

	if req.ChatTitle == "" {
		req.ChatTitle = "Неизвестный канал"
	}

	posting := &domain.Posting{
		ChatTitle:  req.ChatTitle,
		Text:       req.Text,
		SourceType: parseSourceType(req.SourceType),
	}
	if req.Link != nil {
		posting.Link = *req.Link
	}

	// The content hash is recomputed inside InsertPosting from the title as
	// received; a client-side hash over a different source label never
	// weakens the durable guarantee.
	err := s.storage.InsertPosting(posting)
	if errors.Is(err, domain.ErrDuplicatePosting) {
		s.logger.Info("Duplicate posting skipped", "chat_title", req.ChatTitle)
		writeJSON(w, http.StatusOK, map[string]string{"status": "duplicate", "message": "Job already exists"})
		return
	}
	if err != nil {
		s.logger.Error("Failed to store posting", "error", err, "chat_title", req.ChatTitle)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(r.Context(), posting); err != nil {
			// The posting stays persisted; only the response degrades.
			s.logger.Error("Notification failed", "error", err, "posting_id", posting.ID)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to send message"})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "telegram-job-parser"})
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	postings, total, err := s.storage.ListPostings(limit, offset)
	if err != nil {
		s.logger.Error("Failed to list postings", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	jobs := lo.Map(postings, func(p domain.Posting, _ int) jobView {
		return jobView{
			ID:        p.ID,
			ChatTitle: p.ChatTitle,
			Text:      p.Text,
			Link:      p.Link,
			CreatedAt: p.CreatedAt,
		}
	})

	writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs, "total": total})
}

func (s *Server) handleListChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := s.storage.ListChannels()
	if err != nil {
		s.logger.Error("Failed to list channels", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"channels": channels})
}

func (s *Server) handleAddChannel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL        string `json:"url"`
		SourceType string `json:"source_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return
	}

	url := strings.TrimSpace(req.URL)
	if url == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "URL is required"})
		return
	}

	sourceType := parseSourceType(req.SourceType)
	channel := &domain.TrackedChannel{
		URL:        domain.NormalizeChannelURL(url, sourceType),
		SourceType: sourceType,
		Enabled:    true,
	}

	err := s.storage.AddChannel(channel)
	if errors.Is(err, domain.ErrDuplicateChannel) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "Channel already exists"})
		return
	}
	if err != nil {
		s.logger.Error("Failed to add channel", "error", err, "url", url)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "channel": channel})
}

func (s *Server) handleDeleteChannel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid channel id"})
		return
	}

	if err := s.storage.DeleteChannel(uint(id)); err != nil {
		s.logger.Error("Failed to delete channel", "error", err, "channel_id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func parseSourceType(raw string) domain.SourceType {
	if raw == "" {
		return domain.SourceTypeTelegram
	}
	st, err := domain.ParseSourceType(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return domain.SourceTypeOther
	}
	return st
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
