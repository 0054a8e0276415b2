package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bankcompare/comparison"
	"bankcompare/internal/config"
	"bankcompare/normalization"
	"bankcompare/quality"
	"bankcompare/reporting"
	"bankcompare/server/middleware"
	"bankcompare/source"
	"bankcompare/store"
)

// Server HTTP-сервер сервиса сравнения банковских продуктов
type Server struct {
	cfg        *config.Config
	loader     *source.Loader
	normalizer *normalization.Normalizer
	comparator *comparison.Comparator
	validator  *quality.Validator
	exporter   *reporting.Exporter
	store      *store.Store
	logger     *slog.Logger

	httpServer *http.Server
}

// New создает сервер со всеми зависимостями.
// Хранилище может быть nil: эндпоинты сохранения тогда недоступны.
func New(cfg *config.Config, st *store.Store) *Server {
	return &Server{
		cfg:        cfg,
		loader:     source.NewLoader(cfg.DataDir),
		normalizer: normalization.New(),
		comparator: comparison.New(cfg.Comparison),
		validator:  quality.New(cfg.Validation),
		exporter:   reporting.NewExporter(),
		store:      st,
		logger:     slog.Default().With("component", "server"),
	}
}

// Router собирает маршруты и middleware
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.RateLimit(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst))

	router.GET("/health", s.handleHealth)

	api := router.Group("/api")
	{
		api.GET("/schemas", s.handleListSchemas)
		api.GET("/schemas/:type", s.handleGetSchema)
		api.GET("/banks/:type", s.handleListBanks)

		api.POST("/normalize", s.handleNormalize)
		api.POST("/validate", s.handleValidate)
		api.POST("/compare", s.handleCompare)
		api.POST("/compare/multi", s.handleCompareMulti)
		api.POST("/export", s.handleExport)

		api.GET("/quality/report/:type", s.handleQualityReport)

		if s.store != nil {
			api.POST("/products", s.handleSaveProduct)
			api.GET("/products/:type/:bank", s.handleGetProduct)
			api.GET("/comparisons", s.handleRecentComparisons)
			api.GET("/comparisons/:id", s.handleGetComparison)
		}
	}

	return router
}

// Run запускает сервер и блокируется до отмены контекста,
// после чего выполняет корректное завершение
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "port", s.cfg.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
