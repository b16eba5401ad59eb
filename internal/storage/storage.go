package storage

import (
	"context"
	"errors"

	"github.com/ondrasimku/file-service-go/internal/domain"
)

// ErrNotFound is returned by FindByID when no record has the given id.
var ErrNotFound = errors.New("file not found")

// Repository persists File records keyed by id.
type Repository interface {
	// Save assigns a new id to f, stores it and returns the stored record.
	Save(ctx context.Context, f *domain.File) (*domain.File, error)
	FindByID(ctx context.Context, id string) (*domain.File, error)
	// DeleteByID removes the record. A missing id is not an error.
	DeleteByID(ctx context.Context, id string) error
	// Transact runs fn against a repository bound to a single transaction.
	Transact(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
	Close() error
}
