package mapper

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/kaplanhukuk/uyap-importer/internal/extract"
	"github.com/kaplanhukuk/uyap-importer/internal/model"
	"github.com/kaplanhukuk/uyap-importer/internal/parties"
	"github.com/kaplanhukuk/uyap-importer/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMapper(t *testing.T) *Mapper {
	t.Helper()
	log, err := logger.NewLogger("error", "text")
	require.NoError(t, err)

	fixedNow := func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return New(extract.DefaultTables(), fixedNow, log)
}

func sampleDetail() model.CaseDetail {
	return model.CaseDetail{
		CaseInfo: model.CaseInfo{
			Year:        "2025",
			CaseNumber:  "88",
			Courthouse:  "Bakırköy 8. İş Mahkemesi",
			Adliye:      "Bakırköy Adliyesi",
			City:        "İstanbul",
			FileType:    "Hukuk",
			OpenDate:    "15.03.2025",
			Status:      "Açık",
			NextHearing: "2025-09-10",
		},
		Documents: []model.Document{
			{DocumentType: "Tutanak", FileName: "tutanak.pdf", UploadDate: "20.03.2025"},
			{DocumentType: "", FileName: ""},
		},
		Hearings: []model.Hearing{
			{Date: "2025-04-01", Time: "10:30", Type: ""},
		},
	}
}

func sampleClassification() parties.Result {
	return parties.Result{
		ClientSide: []model.Party{
			{
				Name:       "YENER SEVEN",
				EntityType: model.EntityPerson,
				Capacity:   "Davacı",
				Counsel:    "BATUHAN KAPLAN",
				Phone:      "0532 123 45 67",
			},
			{
				Name:       "İREM ŞAHİN",
				EntityType: model.EntityPerson,
				Capacity:   "Davacı",
				Counsel:    "BATUHAN KAPLAN",
			},
		},
		OpponentSide: []model.Party{
			{
				Name:       "MEGA İNŞAAT LTD. ŞTİ.",
				EntityType: model.EntityCompany,
				Capacity:   "Davalı",
				Counsel:    "AHMET DEMİR, [MEHMET YILMAZ]",
			},
			{
				Name:     "HASAN KARA",
				Capacity: "Davalı",
				Counsel:  "AYŞE ÖZTÜRK",
			},
		},
		ClientLawyers:   []string{"BATUHAN KAPLAN"},
		OpponentLawyers: []string{"AHMET DEMİR", "MEHMET YILMAZ"},
	}
}

func TestMapBasicFields(t *testing.T) {
	m := newTestMapper(t)

	record := m.Map(sampleDetail(), sampleClassification())

	assert.Equal(t, "hukuk", record.FileType)
	assert.Equal(t, "İstanbul", record.City)
	assert.Equal(t, "Bakırköy Adliyesi", record.Courthouse)
	assert.Equal(t, "8. İş Mahkemesi", record.Department)
	assert.Equal(t, "2025", record.Year)
	assert.Equal(t, "88", record.CaseNumber)
	assert.Equal(t, "2025-03-15", record.OpenDate)
	assert.Equal(t, "Aktif", record.Status)
}

func TestMapPrimaryParties(t *testing.T) {
	m := newTestMapper(t)

	record := m.Map(sampleDetail(), sampleClassification())

	assert.Equal(t, "person", record.ClientEntityType)
	assert.Equal(t, "Yener Seven", record.ClientName)
	assert.Equal(t, "Davacı", record.ClientCapacity)
	assert.Equal(t, "5321234567", record.ClientPhone)

	assert.Equal(t, "company", record.OpponentEntityType)
	assert.Equal(t, "Mega İnşaat Ltd. Şti.", record.OpponentName)
	assert.Equal(t, "Davalı", record.OpponentCapacity)
}

func TestMapAdditionalParties(t *testing.T) {
	m := newTestMapper(t)

	record := m.Map(sampleDetail(), sampleClassification())

	var clients []model.AdditionalParty
	require.NoError(t, json.Unmarshal([]byte(record.AdditionalClientsJSON), &clients))
	require.Len(t, clients, 1)
	assert.Equal(t, "İrem Şahin", clients[0].Name)
	assert.NotEmpty(t, clients[0].ID)

	var opponents []model.AdditionalParty
	require.NoError(t, json.Unmarshal([]byte(record.AdditionalOpponentsJSON), &opponents))
	require.Len(t, opponents, 1)
	assert.Equal(t, "Hasan Kara", opponents[0].Name)
	assert.Equal(t, "person", opponents[0].EntityType)
}

func TestMapLawyerFanOut(t *testing.T) {
	m := newTestMapper(t)

	record := m.Map(sampleDetail(), sampleClassification())

	require.Len(t, record.Lawyers, 4)
	assert.Equal(t, "Batuhan Kaplan", record.Lawyers[0].Name)
	assert.Equal(t, "client", record.Lawyers[0].PartyType)
	assert.Equal(t, 0, record.Lawyers[0].PartyIndex)

	assert.Equal(t, "Ahmet Demir", record.Lawyers[1].Name)
	assert.Equal(t, "opponent", record.Lawyers[1].PartyType)
	assert.Equal(t, 0, record.Lawyers[1].PartyIndex)

	// Additional opponents carry their own counsel under a 1-based index.
	assert.Equal(t, "Ayşe Öztürk", record.Lawyers[3].Name)
	assert.Equal(t, "opponent", record.Lawyers[3].PartyType)
	assert.Equal(t, 1, record.Lawyers[3].PartyIndex)
}

func TestMapDocuments(t *testing.T) {
	m := newTestMapper(t)

	record := m.Map(sampleDetail(), sampleClassification())

	require.Len(t, record.Documents, 2)
	assert.Equal(t, "Duruşma Tutanağı", record.Documents[0].DocumentType)
	assert.Equal(t, "tutanak.pdf", record.Documents[0].FileName)
	assert.Equal(t, "2025-03-20", record.Documents[0].UploadDate)

	// Empty rows get defaults rather than being dropped.
	assert.Equal(t, "Diğer Belgeler", record.Documents[1].DocumentType)
	assert.Equal(t, "belge.pdf", record.Documents[1].FileName)
	assert.Equal(t, "2025-06-01", record.Documents[1].UploadDate)
}

func TestMapHearingsPromotesNextHearing(t *testing.T) {
	m := newTestMapper(t)

	record := m.Map(sampleDetail(), sampleClassification())

	require.Len(t, record.Hearings, 2)
	assert.Equal(t, "durusma", record.Hearings[0].Type)

	promoted := record.Hearings[1]
	assert.Equal(t, "2025-09-10", promoted.Date)
	assert.Equal(t, "09:00", promoted.Time)
	assert.Equal(t, "durusma", promoted.Type)
}

func TestMapDeterministic(t *testing.T) {
	m := newTestMapper(t)

	first := m.Map(sampleDetail(), sampleClassification())
	second := m.Map(sampleDetail(), sampleClassification())

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)

	assert.Equal(t, string(firstJSON), string(secondJSON))
}

func TestMapFallbacks(t *testing.T) {
	m := newTestMapper(t)

	record := m.Map(model.CaseDetail{}, parties.Result{})

	assert.Equal(t, "hukuk", record.FileType)
	assert.Equal(t, "Aktif", record.Status)
	assert.Equal(t, "2025", record.Year)
	assert.Equal(t, "2025-06-01", record.OpenDate)
	assert.Empty(t, record.ClientName)
	assert.Empty(t, record.AdditionalClientsJSON)
	assert.Empty(t, record.Lawyers)
}

func TestMapStatusMapping(t *testing.T) {
	tests := []struct {
		portal string
		want   string
	}{
		{"Açık", "Aktif"},
		{"Kapalı", "Kapalı"},
		{"Sonuçlandı", "Kapalı"},
		{"İnfaz", "Kapalı"},
		{"Beklemede", "Beklemede"},
		{"Bilinmeyen Durum", "Aktif"},
	}

	m := newTestMapper(t)
	for _, tt := range tests {
		t.Run(tt.portal, func(t *testing.T) {
			detail := sampleDetail()
			detail.CaseInfo.Status = tt.portal
			record := m.Map(detail, parties.Result{})
			assert.Equal(t, tt.want, record.Status)
		})
	}
}
