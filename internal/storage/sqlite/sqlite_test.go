package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ondrasimku/file-service-go/internal/domain"
	"github.com/ondrasimku/file-service-go/internal/storage"
)

// setupTestDB creates an in-memory SQLite store for testing.
func setupTestDB(t *testing.T) *SQLiteStorage {
	t.Helper()

	s, err := Open(Options{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func newFile() *domain.File {
	desc := "quarterly numbers"
	return &domain.File{
		Username:    "user@email.com",
		Description: &desc,
		Name:        "report",
		Type:        "pdf",
		Data:        []byte("%PDF-1.4"),
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestSQLiteStorage_Save(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	in := newFile()
	in.ID = "client-supplied"

	saved, err := s.Save(ctx, in)
	require.NoError(t, err)

	assert.NotEmpty(t, saved.ID)
	assert.NotEqual(t, "client-supplied", saved.ID)
	assert.Equal(t, in.Name, saved.Name)

	found, err := s.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, in.Username, found.Username)
	assert.Equal(t, *in.Description, *found.Description)
	assert.Equal(t, in.Type, found.Type)
	assert.Equal(t, in.Data, found.Data)
	assert.True(t, in.CreatedAt.Equal(found.CreatedAt))
}

func TestSQLiteStorage_SaveNilDescription(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	in := newFile()
	in.Description = nil

	saved, err := s.Save(ctx, in)
	require.NoError(t, err)

	found, err := s.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Nil(t, found.Description)
}

func TestSQLiteStorage_FindByID(t *testing.T) {
	s := setupTestDB(t)

	_, err := s.FindByID(context.Background(), "NoSuchId")
	assert.True(t, errors.Is(err, storage.ErrNotFound), "expected ErrNotFound, got %v", err)
}

func TestSQLiteStorage_DeleteByID(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, newFile())
	require.NoError(t, err)

	t.Run("delete existing file", func(t *testing.T) {
		require.NoError(t, s.DeleteByID(ctx, saved.ID))

		_, err := s.FindByID(ctx, saved.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		n, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("delete non-existent file", func(t *testing.T) {
		assert.NoError(t, s.DeleteByID(ctx, saved.ID))
	})
}

func TestSQLiteStorage_Transact(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		var id string
		err := s.Transact(ctx, func(repo storage.Repository) error {
			saved, err := repo.Save(ctx, newFile())
			if err != nil {
				return err
			}
			id = saved.ID
			return nil
		})
		require.NoError(t, err)

		_, err = s.FindByID(ctx, id)
		assert.NoError(t, err)
	})

	t.Run("rollback", func(t *testing.T) {
		before, err := s.Count(ctx)
		require.NoError(t, err)

		boom := errors.New("boom")
		err = s.Transact(ctx, func(repo storage.Repository) error {
			if _, err := repo.Save(ctx, newFile()); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		after, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestSQLiteStorage_Ping(t *testing.T) {
	s := setupTestDB(t)
	assert.NoError(t, s.Ping(context.Background()))
}
