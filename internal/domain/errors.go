package domain

import "errors"

var (
	ErrMissingBotToken     = errors.New("BOT_TOKEN environment variable is required")
	ErrMissingManagerChat  = errors.New("MANAGER_CHAT_ID environment variable is required")
	ErrMissingSharedSecret = errors.New("SHARED_SECRET environment variable is required")
	ErrDuplicatePosting    = errors.New("posting already exists")
	ErrDuplicateChannel    = errors.New("channel already exists")
	ErrChannelNotFound     = errors.New("channel not found")
)
