// Package store provides persistence for generated levels.
//
// This package defines an interface for level storage with implementations
// for different backends:
//   - memory: In-memory storage for development/testing
//   - file: File-based storage for CLI applications
//   - mongo: MongoDB-backed storage for serve mode
//
// Levels are stored as records with a UUID, an optional human-readable name,
// and a creation timestamp. Records are immutable once written: regenerate
// and store again to change one.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/levelforge/levelforge/pkg/gen"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("level not found")
)

// LevelRecord wraps a generated level with storage metadata.
type LevelRecord struct {
	ID        string     `json:"id" bson:"_id"`
	Name      string     `json:"name,omitempty" bson:"name,omitempty"`
	Mode      string     `json:"mode" bson:"mode"`
	Level     *gen.Level `json:"level" bson:"level"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
}

// NewRecord creates a record for a generated level with a fresh UUID.
func NewRecord(name, mode string, level *gen.Level) *LevelRecord {
	return &LevelRecord{
		ID:        uuid.NewString(),
		Name:      name,
		Mode:      mode,
		Level:     level,
		CreatedAt: time.Now().UTC(),
	}
}

// Store is the interface for level storage backends.
type Store interface {
	// Get retrieves a record by ID. Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*LevelRecord, error)

	// Put stores a record, overwriting any existing record with the same ID.
	Put(ctx context.Context, rec *LevelRecord) error

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// List returns up to limit records, newest first. A limit of 0 means no
	// limit.
	List(ctx context.Context, limit int) ([]*LevelRecord, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
