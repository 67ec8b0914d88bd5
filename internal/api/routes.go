package api

import (
	"github.com/gin-gonic/gin"
	"github.com/kaplanhukuk/uyap-importer/internal/cache"
	"github.com/kaplanhukuk/uyap-importer/internal/client"
	"github.com/kaplanhukuk/uyap-importer/internal/config"
	"github.com/kaplanhukuk/uyap-importer/internal/importer"
	"github.com/kaplanhukuk/uyap-importer/internal/portal"
	"github.com/kaplanhukuk/uyap-importer/internal/settings"
	"github.com/kaplanhukuk/uyap-importer/pkg/logger"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, cache cache.Cache, imp *importer.Importer, session *portal.Session, backend *client.Client, store *settings.Store, logger *logger.Logger, cfg *config.Config) {
	h := NewHandlers(db, cache, imp, session, backend, store, logger, cfg)

	api := router.Group("/api")
	{
		api.GET("/ping", h.Ping)
		api.GET("/check_auth", h.CheckAuth)

		// Portal tab state
		api.POST("/open_portal", h.OpenPortal)
		api.GET("/page_type", h.PageType)
		api.POST("/open_case_list", h.OpenCaseList)
		api.POST("/search_form", h.SearchForm)

		// Case scanning and extraction
		api.POST("/scan", h.ScanCases)
		api.GET("/cases", h.ListCases)
		api.POST("/case_details", h.CaseDetails)

		// Import pipeline
		api.POST("/import", h.ImportCase)
		api.POST("/import_batch", h.ImportBatch)
		api.GET("/import_batch/progress", h.BatchProgress)
		api.GET("/history", h.ImportHistory)

		// Settings
		api.GET("/settings", h.GetSettings)
		api.PUT("/settings", h.UpdateSettings)

		// Office backend pass-through
		api.GET("/tarifeler", h.GetTariffs)
		api.POST("/tarifeler", h.SaveTariffs)
	}
}
