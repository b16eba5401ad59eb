// Package postgres stores File records in PostgreSQL through a pgx pool.
// Queries are plain SQL; the schema comes from the embedded migrations.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ondrasimku/file-service-go/internal/domain"
	"github.com/ondrasimku/file-service-go/internal/storage"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

const fileColumns = `id, username, description, name, type, data, created_at`

type PostgresStorage struct {
	pool *pgxpool.Pool
	db   DBTX
}

// Connect opens a pool for dsn and pings it.
func Connect(ctx context.Context, dsn string) (*PostgresStorage, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return &PostgresStorage{pool: pool, db: pool}, nil
}

func (s *PostgresStorage) Save(ctx context.Context, f *domain.File) (*domain.File, error) {
	saved := *f
	saved.ID = uuid.New().String()

	_, err := s.db.Exec(ctx,
		`INSERT INTO files (`+fileColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		saved.ID, saved.Username, saved.Description, saved.Name, saved.Type, saved.Data, saved.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return &saved, nil
}

func (s *PostgresStorage) FindByID(ctx context.Context, id string) (*domain.File, error) {
	// Ids are UUIDs; anything else cannot exist and would fail the cast.
	if _, err := uuid.Parse(id); err != nil {
		return nil, storage.ErrNotFound
	}

	var f domain.File
	err := s.db.QueryRow(ctx,
		`SELECT id::text, username, description, name, type, data, created_at FROM files WHERE id = $1`, id,
	).Scan(&f.ID, &f.Username, &f.Description, &f.Name, &f.Type, &f.Data, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find file: %w", err)
	}
	return &f, nil
}

func (s *PostgresStorage) DeleteByID(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM files WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *PostgresStorage) Transact(ctx context.Context, fn func(storage.Repository) error) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		return fn(&PostgresStorage{pool: s.pool, db: tx})
	})
}

func (s *PostgresStorage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStorage) Close() error {
	s.pool.Close()
	return nil
}
