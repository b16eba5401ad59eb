package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ondrasimku/file-service-go/internal/domain"
	"github.com/ondrasimku/file-service-go/internal/service"
	"github.com/ondrasimku/file-service-go/internal/storage"
)

// brokenRepo fails every call as an unreachable database would.
type brokenRepo struct{}

var errUnavailable = errors.New("database unavailable")

func (brokenRepo) Save(context.Context, *domain.File) (*domain.File, error) {
	return nil, errUnavailable
}

func (brokenRepo) FindByID(context.Context, string) (*domain.File, error) {
	return nil, errUnavailable
}

func (brokenRepo) DeleteByID(context.Context, string) error {
	return errUnavailable
}

func (r brokenRepo) Transact(_ context.Context, fn func(storage.Repository) error) error {
	return fn(r)
}

func (brokenRepo) Ping(context.Context) error {
	return errUnavailable
}

func (brokenRepo) Close() error {
	return nil
}

func newBrokenEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewFileHandler(service.NewFileService(brokenRepo{}), 1<<20, logger)
	health := NewHealthHandler(brokenRepo{})

	engine := gin.New()
	engine.GET("/healthz", health.Health)
	engine.GET("/api/files/:id", h.Read)
	engine.GET("/api/files/:id/download", h.Download)
	engine.DELETE("/api/files/:id", h.Delete)
	return engine
}

func TestStoreFailures(t *testing.T) {
	engine := newBrokenEngine()

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/api/files/abc", http.StatusInternalServerError},
		{http.MethodGet, "/api/files/abc/download", http.StatusInternalServerError},
		{http.MethodDelete, "/api/files/abc", http.StatusInternalServerError},
		{http.MethodGet, "/healthz", http.StatusServiceUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))

			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestStoreFailureHidesCause(t *testing.T) {
	engine := newBrokenEngine()

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/files/abc", nil))

	assert.JSONEq(t, `{"error":"Failed to read file"}`, rec.Body.String())
}

func TestSafeFilename(t *testing.T) {
	assert.Equal(t, "report.pdf", safeFilename("report.pdf"))
	assert.Equal(t, "evilname.txt", safeFilename("evil\"\r\nname.txt"))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", contentType("png"))
	assert.Equal(t, "image/png", contentType("PNG"))
	assert.Equal(t, "application/octet-stream", contentType("nosuchext123"))
}
