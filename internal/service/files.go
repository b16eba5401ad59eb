package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ondrasimku/file-service-go/internal/domain"
	"github.com/ondrasimku/file-service-go/internal/storage"
	"github.com/ondrasimku/file-service-go/internal/validation"
)

type FileService struct {
	repo storage.Repository
	now  func() time.Time
}

type Option func(*FileService)

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *FileService) {
		s.now = now
	}
}

func NewFileService(repo storage.Repository, opts ...Option) *FileService {
	s := &FileService{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates req, derives name and type from req.Name or, when that is
// blank, from fallbackFilename, and stores the new record.
func (s *FileService) Create(ctx context.Context, req domain.CreateFileRequest, fallbackFilename string) (*domain.File, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	actualName := req.Name
	if strings.TrimSpace(actualName) == "" {
		actualName = fallbackFilename
	}

	name, ext, err := splitFilename(actualName)
	if err != nil {
		return nil, err
	}

	toCreate := &domain.File{
		Username:    req.Username,
		Description: trimToNil(req.Description),
		Name:        name,
		Type:        ext,
		Data:        req.Data,
		CreatedAt:   s.now(),
	}

	var created *domain.File
	err = s.repo.Transact(ctx, func(repo storage.Repository) error {
		var err error
		created, err = repo.Save(ctx, toCreate)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return created, nil
}

// FindByID returns the record and true, or false when it does not exist.
func (s *FileService) FindByID(ctx context.Context, id string) (*domain.File, bool, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return f, true, nil
}

// Delete removes the record. Deleting a missing id succeeds.
func (s *FileService) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteByID(ctx, id)
}

// splitFilename splits on the last dot. Both halves must be non-empty.
func splitFilename(filename string) (string, string, error) {
	i := strings.LastIndex(filename, ".")
	if i <= 0 || i == len(filename)-1 {
		return "", "", fmt.Errorf("%w: %q", domain.ErrInvalidFilename, filename)
	}
	return filename[:i], filename[i+1:], nil
}

func trimToNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
