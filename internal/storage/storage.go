// Package storage persists postings and tracked channels in a single SQLite
// file. Deduplication of postings is enforced here by a unique index on the
// content hash; concurrent gatherers racing on the same content are safe
// without application-level locks because the constraint rejects the loser.
package storage

import (
	"errors"

	"github.com/samber/oops"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"telegram-job-parser/internal/domain"
	"telegram-job-parser/internal/pipeline"
)

type Storage struct {
	db *gorm.DB
}

// Open opens (creating if needed) the SQLite database at path and migrates
// the jobs and channels tables.
func Open(path string) (*Storage, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, oops.With("db_path", path).Wrap(err)
	}

	if err := db.AutoMigrate(&domain.Posting{}, &domain.TrackedChannel{}); err != nil {
		return nil, oops.With("db_path", path, "context", "migrating schema").Wrap(err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InsertPosting persists a posting. The durable content hash is always
// recomputed here from the stored chat title and text, independent of any
// client-side hashing. A unique-index hit surfaces as
// domain.ErrDuplicatePosting and leaves the table unchanged.
func (s *Storage) InsertPosting(p *domain.Posting) error {
	p.ContentHash = pipeline.ContentHash(p.ChatTitle, p.Text)

	err := s.db.Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicatePosting
	}
	if err != nil {
		return oops.With("chat_title", p.ChatTitle).Wrap(err)
	}
	return nil
}

// ListPostings returns postings most recent first plus the total row count.
func (s *Storage) ListPostings(limit, offset int) ([]domain.Posting, int64, error) {
	var total int64
	if err := s.db.Model(&domain.Posting{}).Count(&total).Error; err != nil {
		return nil, 0, oops.With("context", "counting postings").Wrap(err)
	}

	var postings []domain.Posting
	err := s.db.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&postings).Error
	if err != nil {
		return nil, 0, oops.With("limit", limit, "offset", offset).Wrap(err)
	}
	return postings, total, nil
}

// AddChannel registers a tracked channel. The caller is expected to have
// normalized the URL already. Duplicate URLs (regardless of source type)
// surface as domain.ErrDuplicateChannel.
func (s *Storage) AddChannel(ch *domain.TrackedChannel) error {
	err := s.db.Create(ch).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateChannel
	}
	if err != nil {
		return oops.With("url", ch.URL).Wrap(err)
	}
	return nil
}

// ListChannels returns all tracked channels, newest first.
func (s *Storage) ListChannels() ([]domain.TrackedChannel, error) {
	var channels []domain.TrackedChannel
	if err := s.db.Order("added_at DESC, id DESC").Find(&channels).Error; err != nil {
		return nil, oops.With("context", "listing channels").Wrap(err)
	}
	return channels, nil
}

// DeleteChannel removes a tracked channel by id. Deleting an unknown id is
// a no-op, matching the management API contract.
func (s *Storage) DeleteChannel(id uint) error {
	if err := s.db.Delete(&domain.TrackedChannel{}, id).Error; err != nil {
		return oops.With("channel_id", id).Wrap(err)
	}
	return nil
}
