// Package storage keeps uploaded statement files on disk until they are purged.
package storage

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("file not found")

// FileInfo contains metadata about a stored file
type FileInfo struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Path        string    `json:"path"` // Internal storage path
	CreatedAt   time.Time `json:"created_at"`
}

// Storage defines the file operations the statement service needs
type Storage interface {
	// Save stores a file and returns its metadata
	Save(ctx context.Context, filename string, contentType string, r io.Reader) (*FileInfo, error)

	// Delete removes a stored file
	Delete(ctx context.Context, fileID uuid.UUID) error

	// PurgeOlderThan deletes files stored before now minus age and returns how many were removed
	PurgeOlderThan(ctx context.Context, age time.Duration) (int, error)
}
