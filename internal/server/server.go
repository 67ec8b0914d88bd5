package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kaplanhukuk/uyap-importer/internal/api"
	"github.com/kaplanhukuk/uyap-importer/internal/cache"
	"github.com/kaplanhukuk/uyap-importer/internal/client"
	"github.com/kaplanhukuk/uyap-importer/internal/config"
	"github.com/kaplanhukuk/uyap-importer/internal/extract"
	"github.com/kaplanhukuk/uyap-importer/internal/importer"
	"github.com/kaplanhukuk/uyap-importer/internal/mapper"
	"github.com/kaplanhukuk/uyap-importer/internal/parties"
	"github.com/kaplanhukuk/uyap-importer/internal/portal"
	"github.com/kaplanhukuk/uyap-importer/internal/settings"
	"github.com/kaplanhukuk/uyap-importer/pkg/logger"
	"gorm.io/gorm"
)

type Server struct {
	cfg     *config.Config
	db      *gorm.DB
	cache   cache.Cache
	logger  *logger.Logger
	router  *gin.Engine
	session *portal.Session
}

func New(cfg *config.Config, db *gorm.DB, detailCache cache.Cache, logger *logger.Logger) *Server {
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))
	router.Use(corsMiddleware())

	session, err := portal.NewSession(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to start portal session", "error", err)
	}

	store := settings.NewStore(db)
	backend := client.New(cfg.OfficeAPIURL, cfg.ImportTimeout, logger)
	if saved, err := store.Load(); err == nil && saved.APIURL != "" {
		backend.SetAPIURL(saved.APIURL)
	}

	tables := extract.DefaultTables()
	extractor := extract.NewWithTables(tables, logger)
	classifier := parties.New(cfg.OurLawyers, tables.ClientRoleKeywords, tables.OpponentRoleKeywords, logger)
	caseMapper := mapper.New(tables, nil, logger)

	imp := importer.New(session, backend, extractor, classifier, caseMapper, detailCache, db, cfg.InterCaseDelay, logger)

	server := &Server{
		cfg:     cfg,
		db:      db,
		cache:   detailCache,
		logger:  logger,
		router:  router,
		session: session,
	}

	api.SetupRoutes(router, db, detailCache, imp, session, backend, store, logger, cfg)

	return server
}

func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("Failed to start server", "error", err)
		}
	}()

	s.logger.Info("Server started", "address", srv.Addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.session.Close(); err != nil {
		s.logger.Error("Failed to close portal session", "error", err)
	}

	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
		return err
	}

	s.logger.Info("Server exited gracefully")
	return nil
}

func loggingMiddleware(logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		clientIP := c.ClientIP()
		method := c.Request.Method
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		logger.Info("HTTP Request",
			"client_ip", clientIP,
			"method", method,
			"path", path,
			"status", statusCode,
			"latency", latency.String(),
			"user_agent", c.Request.UserAgent(),
		)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
