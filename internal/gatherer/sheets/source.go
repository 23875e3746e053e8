// Package sheets reads the operator's channel list from a Google Sheets
// spreadsheet. Expected layout: a header row naming type, url and enabled
// columns, one channel per following row.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"telegram-job-parser/internal/domain"
	"telegram-job-parser/internal/gatherer"
)

var enabledValues = map[string]bool{
	"yes":  true,
	"true": true,
	"1":    true,
	"да":   true,
}

type Source struct {
	service *sheetsapi.Service
	sheetID string
	logger  *slog.Logger
}

// New builds a Sheets-backed channel source from service-account
// credentials JSON (passed as a blob, not a file path, so it can live in
// an environment variable).
func New(ctx context.Context, sheetID, credsJSON string) (*Source, error) {
	service, err := sheetsapi.NewService(ctx,
		option.WithCredentialsJSON([]byte(credsJSON)),
		option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Source{service: service, sheetID: sheetID, logger: slog.Default()}, nil
}

func (s *Source) Channels(ctx context.Context) ([]gatherer.Channel, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.sheetID, "A1:C").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", s.sheetID, err)
	}

	channels := ParseRows(resp.Values)
	s.logger.Info("Channels loaded from Google Sheets", "count", len(channels))
	return channels, nil
}

// ParseRows converts raw sheet values into channels. The first row is the
// header; rows with an empty url or a falsy enabled value are dropped.
func ParseRows(rows [][]interface{}) []gatherer.Channel {
	if len(rows) < 2 {
		return nil
	}

	typeCol, urlCol, enabledCol := -1, -1, -1
	for i, cell := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(fmt.Sprint(cell))) {
		case "type":
			typeCol = i
		case "url":
			urlCol = i
		case "enabled":
			enabledCol = i
		}
	}
	if urlCol < 0 {
		return nil
	}

	var channels []gatherer.Channel
	for _, row := range rows[1:] {
		url := strings.TrimSpace(cellAt(row, urlCol))
		if url == "" {
			continue
		}

		sourceType := domain.SourceTypeTelegram
		if typeCol >= 0 {
			if parsed, err := domain.ParseSourceType(strings.ToLower(strings.TrimSpace(cellAt(row, typeCol)))); err == nil {
				sourceType = parsed
			}
		}

		// Missing enabled column means enabled.
		if enabledCol >= 0 && enabledCol < len(row) {
			if !enabledValues[strings.ToLower(strings.TrimSpace(cellAt(row, enabledCol)))] {
				continue
			}
		}

		channels = append(channels, gatherer.Channel{
			URL:        domain.NormalizeChannelURL(url, sourceType),
			SourceType: sourceType,
		})
	}
	return channels
}

func cellAt(row []interface{}, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return fmt.Sprint(row[i])
}
