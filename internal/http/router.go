package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ondrasimku/file-service-go/internal/http/handler"
	"github.com/ondrasimku/file-service-go/internal/http/middleware"
	"github.com/ondrasimku/file-service-go/internal/service"
	"github.com/ondrasimku/file-service-go/internal/storage"
)

func NewRouter(store storage.Repository, maxFileSize int64, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logging(logger))
	router.Use(middleware.Metrics())
	router.MaxMultipartMemory = maxFileSize

	healthHandler := handler.NewHealthHandler(store)
	fileHandler := handler.NewFileHandler(service.NewFileService(store), maxFileSize, logger)

	router.GET("/healthz", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	fileRoutes := router.Group("/api/files")
	{
		fileRoutes.POST("", fileHandler.Create)
		fileRoutes.GET("/:id", fileHandler.Read)
		fileRoutes.GET("/:id/download", fileHandler.Download)
		fileRoutes.DELETE("/:id", fileHandler.Delete)
	}

	return router
}
