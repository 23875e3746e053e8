package domain

import (
	"time"
)

// Posting is a deduplicated job-related message. Rows are append-only:
// the ingestion endpoint creates them once and nothing mutates or deletes
// them afterwards.
type Posting struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ChatTitle   string     `json:"chat_title"`
	Text        string     `json:"text"`
	Link        string     `json:"link"`
	ContentHash string     `gorm:"uniqueIndex:idx_content_hash" json:"-"`
	SourceType  SourceType `gorm:"default:telegram" json:"source_type"`
	CreatedAt   time.Time  `gorm:"index:idx_created_at,sort:desc" json:"created_at"`
}

func (Posting) TableName() string { return "jobs" }

// TrackedChannel is an operator-registered source to watch. URL uniqueness
// is global, not per source type.
type TrackedChannel struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	URL        string     `gorm:"uniqueIndex:idx_channel_url" json:"url"`
	SourceType SourceType `gorm:"default:telegram" json:"source_type"`
	Enabled    bool       `gorm:"default:true" json:"enabled"`
	AddedAt    time.Time  `gorm:"autoCreateTime" json:"added_at"`
}

func (TrackedChannel) TableName() string { return "channels" }
