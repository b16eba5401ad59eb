package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ondrasimku/file-service-go/internal/domain"
	"github.com/ondrasimku/file-service-go/internal/service"
	"github.com/ondrasimku/file-service-go/internal/validation"
)

// multipartOverhead leaves room for the model part and multipart framing
// on top of the file size limit.
const multipartOverhead = 1 << 20

type ErrorResponse struct {
	Error      string                 `json:"error"`
	Details    string                 `json:"details,omitempty"`
	Violations []validation.Violation `json:"violations,omitempty"`
}

type FileHandler struct {
	service *service.FileService
	maxSize int64
	logger  *slog.Logger
}

func NewFileHandler(service *service.FileService, maxSize int64, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		service: service,
		maxSize: maxSize,
		logger:  logger,
	}
}

// Create handles POST /api/files. The request is multipart with a JSON
// "model" part and a binary "file" part.
func (h *FileHandler) Create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxSize+multipartOverhead)

	if err := c.Request.ParseMultipartForm(h.maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn("Request too large", "max", h.maxSize)
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "File too large"})
			return
		}
		h.logger.Warn("Failed to parse multipart form", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid multipart request",
			Details: err.Error(),
		})
		return
	}
	form := c.Request.MultipartForm
	defer form.RemoveAll()

	model, err := modelPart(form)
	if err != nil {
		h.logger.Warn("Failed to get model from form", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "No model provided",
			Details: err.Error(),
		})
		return
	}

	var req domain.CreateFileRequest
	if err := json.Unmarshal(model, &req); err != nil {
		h.logger.Warn("Malformed model part", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Malformed model",
			Details: err.Error(),
		})
		return
	}

	files := form.File["file"]
	if len(files) == 0 {
		h.logger.Warn("Failed to get file from form")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No file provided"})
		return
	}
	file := files[0]

	if file.Size > h.maxSize {
		h.logger.Warn("File too large", "size", file.Size, "max", h.maxSize)
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "File too large"})
		return
	}

	data, err := readPart(file)
	if err != nil {
		h.logger.Warn("Failed to read uploaded file", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Failed to read file",
			Details: err.Error(),
		})
		return
	}
	req.Data = data

	created, err := h.service.Create(c.Request.Context(), req, file.Filename)
	if err != nil {
		h.handleServiceError(c, err, "create file")
		return
	}

	h.logger.Info("File uploaded successfully", "fileId", created.ID, "size", len(created.Data))
	c.JSON(http.StatusCreated, created)
}

// Read handles GET /api/files/:id and returns metadata only.
func (h *FileHandler) Read(c *gin.Context) {
	id := c.Param("id")

	f, ok, err := h.service.FindByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "read file")
		return
	}
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	c.JSON(http.StatusOK, f)
}

// Download handles GET /api/files/:id/download and returns the raw payload.
func (h *FileHandler) Download(c *gin.Context) {
	id := c.Param("id")

	f, ok, err := h.service.FindByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "download file")
		return
	}
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", safeFilename(f.Filename())))
	c.Data(http.StatusOK, contentType(f.Type), f.Data)
}

// Delete handles DELETE /api/files/:id. It answers 204 whether or not the
// record existed.
func (h *FileHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err, "delete file")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *FileHandler) handleServiceError(c *gin.Context, err error, operation string) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		h.logger.Warn("Validation failed", "operation", operation, "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:      "Validation failed",
			Violations: verr.Violations,
		})
	case errors.Is(err, domain.ErrInvalidFilename):
		h.logger.Warn("Invalid filename", "operation", operation, "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid filename",
			Details: err.Error(),
		})
	default:
		h.logger.Error("File operation failed", "operation", operation, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: fmt.Sprintf("Failed to %s", operation),
		})
	}
}

// modelPart accepts the model either as a plain form field or as a file part.
func modelPart(form *multipart.Form) ([]byte, error) {
	if values := form.Value["model"]; len(values) > 0 {
		return []byte(values[0]), nil
	}
	if files := form.File["model"]; len(files) > 0 {
		return readPart(files[0])
	}
	return nil, errors.New("missing multipart part \"model\"")
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return io.ReadAll(src)
}

func safeFilename(name string) string {
	return strings.NewReplacer("\"", "", "\r", "", "\n", "").Replace(name)
}

func contentType(ext string) string {
	if ct := mime.TypeByExtension("." + strings.ToLower(ext)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
