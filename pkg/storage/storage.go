package storage

import (
	"context"
	"time"

	"github.com/ogulcanaydogan/powerpulse/pkg/model"
)

// Storage is the append-only battery history.
type Storage interface {
	// Save persists a single reading. The record's ID is set on success.
	Save(ctx context.Context, record *model.HistoryRecord) error

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]model.HistoryRecord, error)

	// Since returns all records at or after from, oldest first.
	Since(ctx context.Context, from time.Time) ([]model.HistoryRecord, error)

	// Close releases resources.
	Close() error
}
