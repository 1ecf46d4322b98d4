package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const metaDirName = ".meta"

// LocalStorage implements Storage using the local filesystem
type LocalStorage struct {
	basePath string
	now      func() time.Time
}

// NewLocalStorage creates a new local filesystem storage
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(filepath.Join(basePath, metaDirName), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{basePath: basePath, now: time.Now}, nil
}

// StoredName returns "<base>-<unix millis><ext>" for an uploaded file name
func StoredName(filename string, at time.Time) string {
	safe := sanitizeFilename(filepath.Base(filename))
	ext := filepath.Ext(safe)
	base := strings.TrimSuffix(safe, ext)
	if base == "" {
		base = "statement"
	}
	return fmt.Sprintf("%s-%d%s", base, at.UnixMilli(), strings.ToLower(ext))
}

// Save stores a file and returns its metadata
func (s *LocalStorage) Save(ctx context.Context, filename string, contentType string, r io.Reader) (*FileInfo, error) {
	fileID := uuid.New()
	createdAt := s.now()
	storedFilename := StoredName(filename, createdAt)

	// Two uploads of the same name in the same millisecond
	if _, err := os.Stat(filepath.Join(s.basePath, storedFilename)); err == nil {
		storedFilename = fileID.String()[:8] + "_" + storedFilename
	}
	filePath := filepath.Join(s.basePath, storedFilename)

	f, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	info := &FileInfo{
		ID:          fileID,
		Name:        filename,
		Size:        size,
		ContentType: contentType,
		Path:        storedFilename,
		CreatedAt:   createdAt,
	}

	if err := s.saveMetadata(info); err != nil {
		os.Remove(filePath)
		return nil, err
	}

	return info, nil
}

// Delete removes a stored file and its metadata
func (s *LocalStorage) Delete(ctx context.Context, fileID uuid.UUID) error {
	info, err := s.getInfo(fileID)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.basePath, info.Path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if err := os.Remove(s.metaPath(fileID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete metadata: %w", err)
	}

	return nil
}

// PurgeOlderThan deletes files stored more than age ago
func (s *LocalStorage) PurgeOlderThan(ctx context.Context, age time.Duration) (int, error) {
	entries, err := os.ReadDir(filepath.Join(s.basePath, metaDirName))
	if err != nil {
		return 0, fmt.Errorf("failed to list metadata: %w", err)
	}

	cutoff := s.now().Add(-age)
	purged := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return purged, err
		}

		id, err := uuid.Parse(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		info, err := s.getInfo(id)
		if err != nil || !info.CreatedAt.Before(cutoff) {
			continue
		}
		if err := s.Delete(ctx, id); err != nil {
			return purged, err
		}
		purged++
	}

	return purged, nil
}

func (s *LocalStorage) metaPath(fileID uuid.UUID) string {
	return filepath.Join(s.basePath, metaDirName, fileID.String()+".json")
}

func (s *LocalStorage) getInfo(fileID uuid.UUID) (*FileInfo, error) {
	data, err := os.ReadFile(s.metaPath(fileID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, fileID)
		}
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var info FileInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}

	return &info, nil
}

// saveMetadata saves file metadata to a JSON file
func (s *LocalStorage) saveMetadata(info *FileInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := os.WriteFile(s.metaPath(info.ID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	return nil
}

// sanitizeFilename removes unsafe characters from filenames
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		"..", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "_",
	)
	return replacer.Replace(name)
}
