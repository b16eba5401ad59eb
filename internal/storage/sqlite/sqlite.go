package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ondrasimku/file-service-go/internal/domain"
	"github.com/ondrasimku/file-service-go/internal/storage"
)

// fileRow is the gorm model of the files table.
type fileRow struct {
	ID          string    `gorm:"primarykey;size:36"`
	Username    string    `gorm:"not null"`
	Description *string
	Name        string    `gorm:"not null"`
	Type        string    `gorm:"not null"`
	Data        []byte    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (fileRow) TableName() string {
	return "files"
}

func toRow(f *domain.File) *fileRow {
	return &fileRow{
		ID:          f.ID,
		Username:    f.Username,
		Description: f.Description,
		Name:        f.Name,
		Type:        f.Type,
		Data:        f.Data,
		CreatedAt:   f.CreatedAt,
	}
}

func (r *fileRow) toDomain() *domain.File {
	return &domain.File{
		ID:          r.ID,
		Username:    r.Username,
		Description: r.Description,
		Name:        r.Name,
		Type:        r.Type,
		Data:        r.Data,
		CreatedAt:   r.CreatedAt,
	}
}

// Options configures Open.
type Options struct {
	Path  string
	Debug bool
}

type SQLiteStorage struct {
	db *gorm.DB
}

// Open connects to the SQLite database at opts.Path and migrates the files table.
// Use ":memory:" for a throwaway database.
func Open(opts Options) (*SQLiteStorage, error) {
	logLevel := logger.Silent
	if opts.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(opts.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// :memory: databases are per connection.
	if opts.Path == ":memory:" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&fileRow{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Save(ctx context.Context, f *domain.File) (*domain.File, error) {
	row := toRow(f)
	row.ID = uuid.New().String()

	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return row.toDomain(), nil
}

func (s *SQLiteStorage) FindByID(ctx context.Context, id string) (*domain.File, error) {
	var row fileRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find file: %w", err)
	}
	return row.toDomain(), nil
}

func (s *SQLiteStorage) DeleteByID(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&fileRow{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Transact(ctx context.Context, fn func(storage.Repository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SQLiteStorage{db: tx})
	})
}

func (s *SQLiteStorage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLiteStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Count returns the number of stored records.
func (s *SQLiteStorage) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&fileRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count files: %w", err)
	}
	return n, nil
}
