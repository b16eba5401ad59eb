package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ondrasimku/file-service-go/internal/domain"
	"github.com/ondrasimku/file-service-go/internal/storage"
)

// metadata is the on-disk form of everything but the payload.
type metadata struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Description *string   `json:"description,omitempty"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LocalStorage keeps each record as <id>.bin (payload) and <id>.json
// (metadata) under baseDir. A record exists once its metadata file exists.
type LocalStorage struct {
	baseDir string
}

func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &LocalStorage{baseDir: baseDir}, nil
}

func (s *LocalStorage) dataPath(id string) string {
	return filepath.Join(s.baseDir, id+".bin")
}

func (s *LocalStorage) metaPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *LocalStorage) Save(ctx context.Context, f *domain.File) (*domain.File, error) {
	saved := *f
	saved.ID = uuid.New().String()

	meta, err := json.Marshal(metadata{
		ID:          saved.ID,
		Username:    saved.Username,
		Description: saved.Description,
		Name:        saved.Name,
		Type:        saved.Type,
		CreatedAt:   saved.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}

	if err := writeAtomic(s.baseDir, s.dataPath(saved.ID), saved.Data); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if err := writeAtomic(s.baseDir, s.metaPath(saved.ID), meta); err != nil {
		os.Remove(s.dataPath(saved.ID))
		return nil, fmt.Errorf("failed to write metadata: %w", err)
	}

	return &saved, nil
}

func (s *LocalStorage) FindByID(ctx context.Context, id string) (*domain.File, error) {
	// Only uuids map to files; this also keeps ids from escaping baseDir.
	if _, err := uuid.Parse(id); err != nil {
		return nil, storage.ErrNotFound
	}

	raw, err := os.ReadFile(s.metaPath(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var meta metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}

	data, err := os.ReadFile(s.dataPath(id))
	if err != nil {
		// Deleted between the two reads.
		if errors.Is(err, fs.ErrNotExist) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return &domain.File{
		ID:          meta.ID,
		Username:    meta.Username,
		Description: meta.Description,
		Name:        meta.Name,
		Type:        meta.Type,
		Data:        data,
		CreatedAt:   meta.CreatedAt,
	}, nil
}

func (s *LocalStorage) DeleteByID(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}

	for _, path := range []string{s.metaPath(id), s.dataPath(id)} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to delete file: %w", err)
		}
	}
	return nil
}

// Transact runs fn directly; each Save and DeleteByID is already atomic on its own.
func (s *LocalStorage) Transact(ctx context.Context, fn func(storage.Repository) error) error {
	return fn(s)
}

func (s *LocalStorage) Ping(ctx context.Context) error {
	info, err := os.Stat(s.baseDir)
	if err != nil {
		return fmt.Errorf("storage directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage path %s is not a directory", s.baseDir)
	}
	return nil
}

func (s *LocalStorage) Close() error {
	return nil
}

// writeAtomic writes data to a temp file in dir and renames it over path.
func writeAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
