package importer

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/kaplanhukuk/uyap-importer/internal/cache"
	"github.com/kaplanhukuk/uyap-importer/internal/client"
	"github.com/kaplanhukuk/uyap-importer/internal/extract"
	"github.com/kaplanhukuk/uyap-importer/internal/mapper"
	"github.com/kaplanhukuk/uyap-importer/internal/model"
	"github.com/kaplanhukuk/uyap-importer/internal/parties"
	"github.com/kaplanhukuk/uyap-importer/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeDetailHTML = `
<html><body>
<div class="case-detail">
  <h2>2025/88 Bakırköy 8. İş Mahkemesi–Hukuk Dava Dosyası</h2>
  <table>
    <tr><td>Açılış Tarihi</td><td>15.03.2025</td></tr>
    <tr><td>Dosya Durumu</td><td>Açık</td></tr>
  </table>
  <table><tr><th>Sıfatı</th><th>Tipi</th><th>Adı</th><th>Vekili</th></tr></table>
  <table>
    <tr><td>Davacı</td><td>Gerçek Kişi</td><td>YENER SEVEN</td><td>BATUHAN KAPLAN</td></tr>
    <tr><td>Davalı</td><td>Gerçek Kişi</td><td>HASAN KARA</td><td>AHMET DEMİR</td></tr>
  </table>
</div>
</body></html>`

type fakePortal struct {
	html          string
	openCalls     []string
	snapshotCalls int
	backCalls     int
	downloads     []string
	openErr       error
}

func (f *fakePortal) OpenDetail(ctx context.Context, handle string) error {
	f.openCalls = append(f.openCalls, handle)
	return f.openErr
}

func (f *fakePortal) GoBack(ctx context.Context) error {
	f.backCalls++
	return nil
}

func (f *fakePortal) Snapshot(ctx context.Context) (*goquery.Document, error) {
	f.snapshotCalls++
	return goquery.NewDocumentFromReader(strings.NewReader(f.html))
}

func (f *fakePortal) ActivateSection(ctx context.Context, titles []string) (*goquery.Document, error) {
	return nil, nil
}

func (f *fakePortal) DownloadDocument(ctx context.Context, url string) ([]byte, error) {
	f.downloads = append(f.downloads, url)
	return []byte("pdf"), nil
}

func (f *fakePortal) CurrentURL() string {
	return "https://avukatbeta.uyap.gov.tr/dosya-sorgula"
}

type fakeBackend struct {
	calls   []model.SystemRecord
	uploads []model.MappedDocument
	failOn  map[string]bool
}

func (f *fakeBackend) ImportCase(ctx context.Context, record model.SystemRecord) (client.ImportResult, error) {
	f.calls = append(f.calls, record)
	key := record.Year + "/" + record.CaseNumber
	if f.failOn[key] {
		return client.ImportResult{}, fmt.Errorf("backend rejected %s", key)
	}
	return client.ImportResult{Success: true, CaseID: "case-" + record.CaseNumber}, nil
}

func (f *fakeBackend) UploadDocument(ctx context.Context, caseID string, doc model.MappedDocument, data []byte) error {
	f.uploads = append(f.uploads, doc)
	return nil
}

func newTestImporter(t *testing.T, portal *fakePortal, backend *fakeBackend) *Importer {
	t.Helper()
	log, err := logger.NewLogger("error", "text")
	require.NoError(t, err)

	tables := extract.DefaultTables()
	extractor := extract.NewWithTables(tables, log)
	classifier := parties.New(
		[]string{"BATUHAN KAPLAN", "MUSTAFA KAPLAN"},
		tables.ClientRoleKeywords, tables.OpponentRoleKeywords, log,
	)
	fixedNow := func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	caseMapper := mapper.New(tables, fixedNow, log)
	detailCache := cache.NewCache(50, time.Minute)

	return New(portal, backend, extractor, classifier, caseMapper, detailCache, nil, time.Millisecond, log)
}

func summaryFor(fileNo string) model.CaseSummary {
	return model.CaseSummary{
		Unit:      "Bakırköy 8. İş Mahkemesi",
		FileNo:    fileNo,
		FileType:  "Hukuk Dava Dosyası",
		Status:    "Açık",
		OpenDate:  "15.03.2025",
		DetailURL: "/dosya/detay?no=" + fileNo,
	}
}

func TestScan(t *testing.T) {
	portal := &fakePortal{html: `
<html><body><table>
<tr><th>Birim</th><th>Dosya No</th><th>Dosya Türü</th><th>Dosya Durumu</th><th>Açılış Tarihi</th></tr>
<tr><td>Bakırköy 8. İş Mahkemesi</td><td>2025/88</td><td>Hukuk</td><td>Açık</td><td>15.03.2025</td></tr>
</table></body></html>`}

	im := newTestImporter(t, portal, &fakeBackend{})

	cases, err := im.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "2025/88", cases[0].FileNo)
}

func TestCaseDetailsNavigatesAndCaches(t *testing.T) {
	portal := &fakePortal{html: fakeDetailHTML}
	im := newTestImporter(t, portal, &fakeBackend{})

	summary := summaryFor("2025/88")

	detail, err := im.CaseDetails(context.Background(), summary)
	require.NoError(t, err)
	assert.Equal(t, "2025", detail.CaseInfo.Year)
	assert.Equal(t, "88", detail.CaseInfo.CaseNumber)
	assert.Equal(t, []string{"/dosya/detay?no=2025/88"}, portal.openCalls)
	assert.Equal(t, 1, portal.backCalls)

	// The second lookup is served from the cache without touching the tab.
	snapshots := portal.snapshotCalls
	_, err = im.CaseDetails(context.Background(), summary)
	require.NoError(t, err)
	assert.Equal(t, snapshots, portal.snapshotCalls)
}

func TestCaseDetailsSurvivesNavigationFailure(t *testing.T) {
	portal := &fakePortal{html: fakeDetailHTML, openErr: fmt.Errorf("tab gone")}
	im := newTestImporter(t, portal, &fakeBackend{})

	detail, err := im.CaseDetails(context.Background(), summaryFor("2025/88"))
	require.NoError(t, err)
	assert.Equal(t, "88", detail.CaseInfo.CaseNumber)
}

func TestCaseDetailsMergesSummary(t *testing.T) {
	// The detail view yields nothing; every field falls back to the list row.
	portal := &fakePortal{html: "<html><body><p>boş</p></body></html>"}
	im := newTestImporter(t, portal, &fakeBackend{})

	detail, err := im.CaseDetails(context.Background(), summaryFor("2024/512"))
	require.NoError(t, err)

	info := detail.CaseInfo
	assert.Equal(t, "2024", info.Year)
	assert.Equal(t, "512", info.CaseNumber)
	assert.Equal(t, "Bakırköy 8. İş Mahkemesi", info.Courthouse)
	assert.Equal(t, "İstanbul", info.City)
	assert.Equal(t, "Bakırköy Adliyesi", info.Adliye)
	assert.Equal(t, "Hukuk Dava Dosyası", info.FileType)
	assert.Equal(t, "Açık", info.Status)
	assert.Equal(t, "2025-03-15", info.OpenDate)
}

func TestImportOne(t *testing.T) {
	portal := &fakePortal{html: fakeDetailHTML}
	backend := &fakeBackend{}
	im := newTestImporter(t, portal, backend)

	result, err := im.ImportOne(context.Background(), summaryFor("2025/88"))
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "case-88", result.CaseID)

	require.Len(t, backend.calls, 1)
	record := backend.calls[0]
	assert.Equal(t, "Yener Seven", record.ClientName)
	assert.Equal(t, "Hasan Kara", record.OpponentName)
	assert.Equal(t, "hukuk", record.FileType)
}

func TestImportOneUploadsDocuments(t *testing.T) {
	withDocs := strings.Replace(fakeDetailHTML, "</div>", `
  <h3>Evrak Listesi</h3>
  <div><table>
    <tr><td>Karar</td><td>karar.pdf</td><td>20.03.2025</td><td><a href="/download?id=9">indir</a></td></tr>
  </table></div>
</div>`, 1)

	portal := &fakePortal{html: withDocs}
	backend := &fakeBackend{}
	im := newTestImporter(t, portal, backend)

	result, err := im.ImportOne(context.Background(), summaryFor("2025/88"))
	require.NoError(t, err)
	require.True(t, result.Success)

	assert.Equal(t, []string{"/download?id=9"}, portal.downloads)
	require.Len(t, backend.uploads, 1)
	assert.Equal(t, "karar.pdf", backend.uploads[0].FileName)
	assert.Equal(t, "Karar", backend.uploads[0].DocumentType)
}

func TestImportBatchTally(t *testing.T) {
	// A bare detail view: the record is built from each list row, so the
	// backend sees five distinct case numbers.
	portal := &fakePortal{html: "<html><body><p>boş</p></body></html>"}
	backend := &fakeBackend{failOn: map[string]bool{
		"2025/2": true,
		"2025/4": true,
	}}
	im := newTestImporter(t, portal, backend)

	summaries := []model.CaseSummary{
		summaryFor("2025/1"),
		summaryFor("2025/2"),
		summaryFor("2025/3"),
		summaryFor("2025/4"),
		summaryFor("2025/5"),
	}

	batch := im.ImportBatch(context.Background(), summaries)

	assert.Equal(t, 5, batch.Total)
	assert.Equal(t, 3, batch.Success)
	assert.Equal(t, 2, batch.Failed)
	require.Len(t, batch.Results, 5)

	// Every case was attempted despite the failures in between.
	assert.Len(t, backend.calls, 5)
	assert.False(t, batch.Results[1].Success)
	assert.NotEmpty(t, batch.Results[1].Error)
	assert.True(t, batch.Results[4].Success)
}

func TestImportBatchProgress(t *testing.T) {
	portal := &fakePortal{html: fakeDetailHTML}
	im := newTestImporter(t, portal, &fakeBackend{})

	im.ImportBatch(context.Background(), []model.CaseSummary{
		summaryFor("2025/1"),
		summaryFor("2025/2"),
	})

	p := im.Progress()
	assert.False(t, p.Running)
	assert.Equal(t, 2, p.Total)
	assert.Equal(t, 2, p.Success)
	assert.Equal(t, 0, p.Failed)
	assert.Equal(t, float64(100), p.Percent)
}
