package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kaplanhukuk/uyap-importer/internal/cache"
	"github.com/kaplanhukuk/uyap-importer/internal/client"
	"github.com/kaplanhukuk/uyap-importer/internal/config"
	"github.com/kaplanhukuk/uyap-importer/internal/database"
	"github.com/kaplanhukuk/uyap-importer/internal/importer"
	"github.com/kaplanhukuk/uyap-importer/internal/model"
	"github.com/kaplanhukuk/uyap-importer/internal/portal"
	"github.com/kaplanhukuk/uyap-importer/internal/settings"
	"github.com/kaplanhukuk/uyap-importer/pkg/logger"
	"gorm.io/gorm"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	db       *gorm.DB
	cache    cache.Cache
	importer *importer.Importer
	portal   *portal.Session
	backend  *client.Client
	settings *settings.Store
	logger   *logger.Logger
	cfg      *config.Config

	batchMu   sync.Mutex
	batchBusy bool
	lastBatch *importer.BatchSummary
}

// NewHandlers creates a new handlers instance
func NewHandlers(db *gorm.DB, cache cache.Cache, imp *importer.Importer, session *portal.Session, backend *client.Client, store *settings.Store, logger *logger.Logger, cfg *config.Config) *Handlers {
	return &Handlers{
		db:       db,
		cache:    cache,
		importer: imp,
		portal:   session,
		backend:  backend,
		settings: store,
		logger:   logger,
		cfg:      cfg,
	}
}

// Ping returns the health status
func (h *Handlers) Ping(c *gin.Context) {
	var count int64
	dbHealthy := h.db.Model(&database.ImportLog{}).Count(&count).Error == nil

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": dbHealthy,
		"cache":    h.cache.Stats(),
		"time":     time.Now().Unix(),
	})
}

// CheckAuth asks the office backend whether a user session exists
func (h *Handlers) CheckAuth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	status, err := h.backend.CheckAuth(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"authenticated": status.Authenticated,
		"user":          status.User,
	})
}

// PageType classifies the portal tab's current view
func (h *Handlers) PageType(c *gin.Context) {
	pt, err := h.importer.PageType(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"isListPage":   pt.IsListPage,
		"isDetailPage": pt.IsDetailPage,
	})
}

// ScanCases extracts the case list from the portal tab
func (h *Handlers) ScanCases(c *gin.Context) {
	cases, err := h.importer.Scan(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(cases),
		"cases":   cases,
	})
}

// ListCases returns the scanned case list, optionally filtered by ?q=
func (h *Handlers) ListCases(c *gin.Context) {
	cases, err := h.importer.Scan(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		cases = filterCases(cases, q)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(cases),
		"cases":   cases,
	})
}

// CaseDetails extracts a single case's detail view
func (h *Handlers) CaseDetails(c *gin.Context) {
	var req model.CaseSummary
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	detail, err := h.importer.CaseDetails(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"detail":  detail,
	})
}

// ImportCase runs the full pipeline for one case
func (h *Handlers) ImportCase(c *gin.Context) {
	var req model.CaseSummary
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.ImportTimeout)
	defer cancel()

	result, err := h.importer.ImportOne(ctx, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"caseNo":  req.FileNo,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

// ImportBatch starts a background batch import; progress is polled separately
func (h *Handlers) ImportBatch(c *gin.Context) {
	var req struct {
		Cases []model.CaseSummary `json:"cases" binding:"required,min=1"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	h.batchMu.Lock()
	if h.batchBusy {
		h.batchMu.Unlock()
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "a batch import is already running",
		})
		return
	}
	h.batchBusy = true
	h.batchMu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.cfg.ImportTimeout*time.Duration(len(req.Cases)))
		defer cancel()

		summary := h.importer.ImportBatch(ctx, req.Cases)

		h.batchMu.Lock()
		h.batchBusy = false
		h.lastBatch = &summary
		h.batchMu.Unlock()
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"total":   len(req.Cases),
	})
}

// BatchProgress returns the running batch's progress and, once it finishes,
// the final tally
func (h *Handlers) BatchProgress(c *gin.Context) {
	h.batchMu.Lock()
	busy := h.batchBusy
	last := h.lastBatch
	h.batchMu.Unlock()

	resp := gin.H{
		"success":  true,
		"running":  busy,
		"progress": h.importer.Progress(),
	}
	if !busy && last != nil {
		resp["result"] = last
	}

	c.JSON(http.StatusOK, resp)
}

// GetSettings returns the persisted settings
func (h *Handlers) GetSettings(c *gin.Context) {
	s, err := h.settings.Load()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"settings": s,
	})
}

// UpdateSettings persists settings and repoints the backend client
func (h *Handlers) UpdateSettings(c *gin.Context) {
	var req settings.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	if err := h.settings.Save(req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	if req.APIURL != "" {
		h.backend.SetAPIURL(req.APIURL)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"settings": req,
	})
}

// ImportHistory returns past import attempts, newest first
func (h *Handlers) ImportHistory(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var total int64
	h.db.Model(&database.ImportLog{}).Count(&total)

	var logs []database.ImportLog
	h.db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&logs)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    logs,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetTariffs proxies the office backend's tariff list
func (h *Handlers) GetTariffs(c *gin.Context) {
	raw, err := h.backend.GetTariffs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.Data(http.StatusOK, "application/json", raw)
}

// SaveTariffs proxies a tariff replacement to the office backend
func (h *Handlers) SaveTariffs(c *gin.Context) {
	var body json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	if err := h.backend.SaveTariffs(c.Request.Context(), body); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SearchForm types a query into the portal's search box
func (h *Handlers) SearchForm(c *gin.Context) {
	var req struct {
		Query string `json:"query" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	if err := h.portal.FillSearchForm(c.Request.Context(), req.Query); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// OpenPortal navigates the tab to the portal landing page so the user can
// complete the e-imza login
func (h *Handlers) OpenPortal(c *gin.Context) {
	if err := h.portal.Open(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"url":     h.portal.CurrentURL(),
	})
}

// OpenCaseList drives the portal tab to the file query screen
func (h *Handlers) OpenCaseList(c *gin.Context) {
	if err := h.portal.OpenCaseList(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"url":     h.portal.CurrentURL(),
	})
}

// filterCases keeps summaries whose unit, file number, type or status
// contains the query, case-insensitively.
func filterCases(cases []model.CaseSummary, q string) []model.CaseSummary {
	q = strings.ToLower(q)
	filtered := make([]model.CaseSummary, 0, len(cases))
	for _, cs := range cases {
		haystack := strings.ToLower(cs.Unit + " " + cs.FileNo + " " + cs.FileType + " " + cs.Status)
		if strings.Contains(haystack, q) {
			filtered = append(filtered, cs)
		}
	}
	return filtered
}
