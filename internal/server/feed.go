package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/feeds"
	"github.com/samber/lo"

	"telegram-job-parser/internal/domain"
)

const feedItemLimit = 50

// handleFeed serves the stored postings as an RSS feed, newest first, so
// operators can follow new vacancies from a regular feed reader as well.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	postings, _, err := s.storage.ListPostings(feedItemLimit, 0)
	if err != nil {
		s.logger.Error("Error generating feed", "error", err)
		http.Error(w, "Failed to generate feed", http.StatusInternalServerError)
		return
	}

	baseURL := fmt.Sprintf("%s://%s", getScheme(r), r.Host)
	feed := buildFeed(postings, baseURL)

	rss, err := feed.ToRss()
	if err != nil {
		s.logger.Error("Error converting feed to RSS", "error", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300") // Cache for 5 minutes
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rss))
}

func buildFeed(postings []domain.Posting, baseURL string) *feeds.Feed {
	feed := &feeds.Feed{
		Title:       "Вакансии - RSS Feed",
		Link:        &feeds.Link{Href: baseURL + "/feed.xml"},
		Description: "Job postings aggregated from Telegram, Facebook and Google Sheets",
		Updated:     time.Now(),
	}

	feed.Items = lo.Map(postings, func(p domain.Posting, _ int) *feeds.Item {
		link := p.Link
		if link == "" {
			link = baseURL
		}
		return &feeds.Item{
			Title:       feedTitle(p.Text),
			Link:        &feeds.Link{Href: link},
			Description: p.Text,
			Author:      &feeds.Author{Name: p.ChatTitle},
			Created:     p.CreatedAt,
			Id:          fmt.Sprintf("%s-%d", p.SourceType, p.ID),
		}
	})

	return feed
}

func feedTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= 100 {
		return text
	}
	return string(runes[:100]) + "..."
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
