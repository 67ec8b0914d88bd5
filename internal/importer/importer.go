package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/kaplanhukuk/uyap-importer/internal/cache"
	"github.com/kaplanhukuk/uyap-importer/internal/client"
	"github.com/kaplanhukuk/uyap-importer/internal/database"
	"github.com/kaplanhukuk/uyap-importer/internal/extract"
	"github.com/kaplanhukuk/uyap-importer/internal/mapper"
	"github.com/kaplanhukuk/uyap-importer/internal/model"
	"github.com/kaplanhukuk/uyap-importer/internal/parties"
	"github.com/kaplanhukuk/uyap-importer/pkg/logger"
	"gorm.io/gorm"
)

// Portal is the browser-session surface the importer drives.
type Portal interface {
	OpenDetail(ctx context.Context, handle string) error
	GoBack(ctx context.Context) error
	Snapshot(ctx context.Context) (*goquery.Document, error)
	ActivateSection(ctx context.Context, titles []string) (*goquery.Document, error)
	DownloadDocument(ctx context.Context, url string) ([]byte, error)
	CurrentURL() string
}

// Backend is the office-API surface the importer pushes records to.
type Backend interface {
	ImportCase(ctx context.Context, record model.SystemRecord) (client.ImportResult, error)
	UploadDocument(ctx context.Context, caseID string, doc model.MappedDocument, data []byte) error
}

// Progress is a point-in-time view of a running batch.
type Progress struct {
	Running     bool    `json:"running"`
	Total       int     `json:"total"`
	Current     int     `json:"current"`
	Success     int     `json:"success"`
	Failed      int     `json:"failed"`
	Percent     float64 `json:"percent"`
	CurrentCase string  `json:"currentCase"`
}

// CaseResult is the per-case outcome within a batch.
type CaseResult struct {
	FileNo  string `json:"caseNo"`
	Success bool   `json:"success"`
	CaseID  string `json:"case_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BatchSummary tallies a finished batch.
type BatchSummary struct {
	Total   int          `json:"total"`
	Success int          `json:"success"`
	Failed  int          `json:"failed"`
	Results []CaseResult `json:"results"`
}

// Importer orchestrates scan, detail extraction, mapping and transport.
// Cases are processed strictly one at a time: the portal tab is a single
// mutable resource that cannot serve two navigations at once.
type Importer struct {
	portal     Portal
	backend    Backend
	extractor  *extract.Extractor
	classifier *parties.Classifier
	mapper     *mapper.Mapper
	cache      cache.Cache
	db         *gorm.DB
	logger     *logger.Logger

	interCaseDelay time.Duration

	mu       sync.Mutex
	progress Progress
}

func New(
	portal Portal,
	backend Backend,
	extractor *extract.Extractor,
	classifier *parties.Classifier,
	mapper *mapper.Mapper,
	detailCache cache.Cache,
	db *gorm.DB,
	interCaseDelay time.Duration,
	log *logger.Logger,
) *Importer {
	return &Importer{
		portal:         portal,
		backend:        backend,
		extractor:      extractor,
		classifier:     classifier,
		mapper:         mapper,
		cache:          detailCache,
		db:             db,
		interCaseDelay: interCaseDelay,
		logger:         log,
	}
}

// Scan extracts the case list from the portal's current view.
func (im *Importer) Scan(ctx context.Context) ([]model.CaseSummary, error) {
	doc, err := im.portal.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read current page: %w", err)
	}
	return im.extractor.ExtractCaseList(doc), nil
}

// PageType classifies the portal's current view.
func (im *Importer) PageType(ctx context.Context) (extract.PageType, error) {
	doc, err := im.portal.Snapshot(ctx)
	if err != nil {
		return extract.PageType{}, fmt.Errorf("failed to read current page: %w", err)
	}
	return im.extractor.Classify(im.portal.CurrentURL(), doc), nil
}

// CaseDetails navigates into a summary's detail view, extracts it, and
// returns to the list. A navigation failure is logged and extraction reads
// whatever view the tab ended up on; the result is cached by file number.
func (im *Importer) CaseDetails(ctx context.Context, summary model.CaseSummary) (*model.CaseDetail, error) {
	if cached, found := im.cache.Get(summary.FileNo); found {
		im.logger.Debug("Detail cache hit", "fileNo", summary.FileNo)
		return cached, nil
	}

	if summary.DetailURL != "" {
		if err := im.portal.OpenDetail(ctx, summary.DetailURL); err != nil {
			im.logger.Warn("Detail navigation failed, extracting current view", "fileNo", summary.FileNo, "error", err)
		}
	}

	doc, err := im.portal.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read detail page: %w", err)
	}

	detail := im.extractor.ExtractCaseDetail(ctx, doc, im.portal.ActivateSection)
	im.mergeSummary(&detail, summary)

	if err := im.portal.GoBack(ctx); err != nil {
		im.logger.Warn("Failed to navigate back to list", "fileNo", summary.FileNo, "error", err)
	}

	im.cache.Set(summary.FileNo, &detail)
	return &detail, nil
}

// mergeSummary fills detail fields the detail view did not yield from the
// list row. List data is merged, never overwritten.
func (im *Importer) mergeSummary(detail *model.CaseDetail, summary model.CaseSummary) {
	info := &detail.CaseInfo

	if (info.Year == "" || info.CaseNumber == "") && extract.CaseNumberPattern.MatchString(summary.FileNo) {
		parts := [2]string{summary.FileNo[:4], summary.FileNo[5:]}
		if info.Year == "" {
			info.Year = parts[0]
		}
		if info.CaseNumber == "" {
			info.CaseNumber = parts[1]
		}
	}
	if info.Courthouse == "" && summary.Unit != "" {
		info.Courthouse = summary.Unit
		city, adliye := im.extractor.DeriveCityAndCourthouse(summary.Unit)
		info.City, info.Adliye = city, adliye
	}
	if info.FileType == "" {
		info.FileType = summary.FileType
	}
	if info.Status == "" {
		info.Status = summary.Status
	}
	if info.OpenDate == "" {
		info.OpenDate = extract.NormalizeDate(summary.OpenDate)
	}
}

// ImportOne runs the full pipeline for a single case and records the
// attempt. Document uploads happen after a successful import; a failed
// upload does not fail the case.
func (im *Importer) ImportOne(ctx context.Context, summary model.CaseSummary) (CaseResult, error) {
	started := time.Now()
	result := CaseResult{FileNo: summary.FileNo}

	detail, err := im.CaseDetails(ctx, summary)
	if err != nil {
		result.Error = err.Error()
		im.recordAttempt(summary, result, nil, started)
		return result, err
	}

	record := im.mapDetail(*detail)

	importResult, err := im.backend.ImportCase(ctx, record)
	if err != nil {
		result.Error = err.Error()
		im.recordAttempt(summary, result, &record, started)
		return result, err
	}

	result.Success = true
	result.CaseID = importResult.CaseID
	im.recordAttempt(summary, result, &record, started)

	im.uploadDocuments(ctx, importResult.CaseID, record.Documents)

	return result, nil
}

func (im *Importer) mapDetail(detail model.CaseDetail) model.SystemRecord {
	all := append(append([]model.Party{}, detail.Parties.Clients...), detail.Parties.Opponents...)
	cls := im.classifier.Classify(all)
	return im.mapper.Map(detail, cls)
}

// ImportBatch processes the summaries strictly in order. A failing case is
// tallied and the loop moves on; nothing aborts the batch.
func (im *Importer) ImportBatch(ctx context.Context, summaries []model.CaseSummary) BatchSummary {
	summary := BatchSummary{Total: len(summaries), Results: make([]CaseResult, 0, len(summaries))}

	im.setProgress(Progress{Running: true, Total: len(summaries)})
	defer func() {
		final := im.Progress()
		final.Running = false
		final.Percent = 100
		im.setProgress(final)
	}()

	for i, caseSummary := range summaries {
		im.setProgress(Progress{
			Running:     true,
			Total:       len(summaries),
			Current:     i + 1,
			Success:     summary.Success,
			Failed:      summary.Failed,
			Percent:     float64(i) / float64(len(summaries)) * 100,
			CurrentCase: caseSummary.FileNo,
		})

		result, err := im.ImportOne(ctx, caseSummary)
		if err != nil {
			im.logger.Error("Case import failed", "fileNo", caseSummary.FileNo, "error", err)
			summary.Failed++
		} else {
			summary.Success++
		}
		summary.Results = append(summary.Results, result)

		im.setProgress(Progress{
			Running:     true,
			Total:       len(summaries),
			Current:     i + 1,
			Success:     summary.Success,
			Failed:      summary.Failed,
			Percent:     float64(i+1) / float64(len(summaries)) * 100,
			CurrentCase: caseSummary.FileNo,
		})

		// Pace requests so the office backend is not flooded.
		if i < len(summaries)-1 {
			select {
			case <-ctx.Done():
			case <-time.After(im.interCaseDelay):
			}
		}
	}

	im.logger.Info("Batch import finished",
		"total", summary.Total,
		"success", summary.Success,
		"failed", summary.Failed,
	)
	return summary
}

// Progress returns the current batch progress snapshot.
func (im *Importer) Progress() Progress {
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.progress
}

func (im *Importer) setProgress(p Progress) {
	im.mu.Lock()
	im.progress = p
	im.mu.Unlock()
}

// uploadDocuments downloads each extracted document through the portal
// session and forwards it to the backend. Failures are per-document.
func (im *Importer) uploadDocuments(ctx context.Context, caseID string, docs []model.MappedDocument) {
	if caseID == "" {
		return
	}

	for _, doc := range docs {
		if doc.DownloadURL == "" {
			continue
		}

		data, err := im.portal.DownloadDocument(ctx, doc.DownloadURL)
		if err != nil {
			im.logger.Warn("Document download failed", "file", doc.FileName, "error", err)
			continue
		}

		if err := im.backend.UploadDocument(ctx, caseID, doc, data); err != nil {
			im.logger.Warn("Document upload failed", "file", doc.FileName, "error", err)
		}
	}
}

// recordAttempt persists the import attempt and, on success, the flattened
// case record.
func (im *Importer) recordAttempt(summary model.CaseSummary, result CaseResult, record *model.SystemRecord, started time.Time) {
	if im.db == nil {
		return
	}

	log := database.ImportLog{
		FileNo:       summary.FileNo,
		Unit:         summary.Unit,
		Success:      result.Success,
		CaseID:       result.CaseID,
		ErrorMessage: result.Error,
		ImportTime:   started,
		Duration:     time.Since(started).Milliseconds(),
	}
	if err := im.db.Create(&log).Error; err != nil {
		im.logger.Error("Failed to persist import log", "fileNo", summary.FileNo, "error", err)
		return
	}

	if !result.Success || record == nil {
		return
	}

	raw, _ := json.Marshal(record)
	imported := database.ImportedCase{
		ImportLogID: log.ID,
		FileNo:      summary.FileNo,
		Year:        record.Year,
		CaseNumber:  record.CaseNumber,
		FileType:    record.FileType,
		City:        record.City,
		Courthouse:  record.Courthouse,
		Department:  record.Department,
		Status:      record.Status,
		OpenDate:    record.OpenDate,
		ClientName:  record.ClientName,
		RemoteID:    result.CaseID,
		RawRecord:   string(raw),
	}
	if err := im.db.Create(&imported).Error; err != nil {
		im.logger.Error("Failed to persist imported case", "fileNo", summary.FileNo, "error", err)
	}
}
