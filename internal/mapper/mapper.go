package mapper

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kaplanhukuk/uyap-importer/internal/extract"
	"github.com/kaplanhukuk/uyap-importer/internal/model"
	"github.com/kaplanhukuk/uyap-importer/internal/parties"
	"github.com/kaplanhukuk/uyap-importer/pkg/logger"
)

// Mapper transforms an extracted case into the office backend's record
// shape. It performs no I/O; the clock is injected so the open-date fallback
// stays testable, and everything else is a pure function of the input.
type Mapper struct {
	tables extract.Tables
	now    func() time.Time
	logger *logger.Logger
}

func New(tables extract.Tables, now func() time.Time, log *logger.Logger) *Mapper {
	if now == nil {
		now = time.Now
	}
	return &Mapper{tables: tables, now: now, logger: log}
}

// fileTypeMapping translates portal judicial-type labels to the backend's
// category codes.
var fileTypeMapping = map[string]string{
	"Hukuk":                          "hukuk",
	"Ceza":                           "ceza",
	"İcra":                           "icra",
	"Savcılık":                       "savcilik",
	"Arabuluculuk":                   "ARABULUCULUK",
	"AİHM":                           "AİHM",
	"AYM":                            "AYM",
	"İdari Yargı":                    "hukuk",
	"Satış Memurluğu":                "icra",
	"Tazminat Komisyonu Başkanlığı":  "hukuk",
	"Cbs":                            "hukuk",
}

var statusMapping = map[string]string{
	"Açık":       "Aktif",
	"Kapalı":     "Kapalı",
	"Beklemede":  "Beklemede",
	"Sonuçlandı": "Kapalı",
	"İnfaz":      "Kapalı",
}

var documentTypeMapping = map[string]string{
	"Dilekçe":           "Dilekçe",
	"Dava Dilekçesi":    "Dava Dilekçesi",
	"Cevap Dilekçesi":   "Cevap Dilekçesi",
	"Karar":             "Karar",
	"Ara Karar":         "Ara Karar",
	"Nihai Karar":       "Nihai Karar",
	"Gerekçeli Karar":   "Gerekçeli Karar",
	"Tutanak":           "Duruşma Tutanağı",
	"Duruşma Tutanağı":  "Duruşma Tutanağı",
	"Tebligat":          "Tebligat",
	"İhbarname":         "İhbarname",
	"Ödeme Emri":        "Ödeme Emri",
	"İcra Emri":         "İcra Emri",
	"Bilirkişi Raporu":  "Bilirkişi Raporu",
	"Ek Belge":          "Ek Belge",
	"Diğer":             "Diğer Belgeler",
}

// Map builds the import record for a classified case. It never fails:
// missing optional fields become empty strings or lists.
func (m *Mapper) Map(detail model.CaseDetail, cls parties.Result) model.SystemRecord {
	info := detail.CaseInfo

	record := model.SystemRecord{
		FileType:   mapFileType(info.FileType),
		City:       info.City,
		Courthouse: info.Adliye,
		Department: m.stripDistrict(info.Courthouse),
		Year:       info.Year,
		CaseNumber: info.CaseNumber,
		OpenDate:   m.mapOpenDate(info),
		Status:     mapStatus(info.Status),
		Lawyers:    []model.MappedLawyer{},
		Documents:  m.mapDocuments(detail.Documents),
		Hearings:   mapHearings(detail.Hearings, info),
	}

	if record.Year == "" {
		record.Year = fmt.Sprintf("%d", m.now().Year())
	}

	if len(cls.ClientSide) > 0 {
		client := cls.ClientSide[0]
		record.ClientEntityType = entityOrPerson(client.EntityType)
		record.ClientName = CapitalizeName(client.Name)
		record.ClientCapacity = client.Capacity
		record.ClientID = client.IdentityNumber
		record.ClientPhone = CleanPhoneNumber(client.Phone)
		record.ClientAddress = client.Address
	}
	if len(cls.OpponentSide) > 0 {
		opponent := cls.OpponentSide[0]
		record.OpponentEntityType = entityOrPerson(opponent.EntityType)
		record.OpponentName = CapitalizeName(opponent.Name)
		record.OpponentCapacity = opponent.Capacity
		record.OpponentID = opponent.IdentityNumber
		record.OpponentPhone = CleanPhoneNumber(opponent.Phone)
		record.OpponentAddress = opponent.Address
	}

	record.AdditionalClientsJSON = encodeAdditional("client", rest(cls.ClientSide))
	record.AdditionalOpponentsJSON = encodeAdditional("opponent", rest(cls.OpponentSide))

	record.Lawyers = mapLawyers(cls)

	return record
}

func mapFileType(portalType string) string {
	if code, ok := fileTypeMapping[portalType]; ok {
		return code
	}
	return "hukuk"
}

func mapStatus(portalStatus string) string {
	if status, ok := statusMapping[portalStatus]; ok {
		return status
	}
	return "Aktif"
}

// mapOpenDate prefers the extracted open date; the current date is a last
// resort and never applied silently.
func (m *Mapper) mapOpenDate(info model.CaseInfo) string {
	if iso := FormatDateToISO(info.OpenDate); iso != "" {
		return iso
	}
	m.logger.Warn("Open date missing, falling back to today", "case", info.Year+"/"+info.CaseNumber)
	return m.now().Format("2006-01-02")
}

// stripDistrict removes the leading district token from a full court label,
// leaving the department name. "Bakırköy 8. İş Mahkemesi" becomes
// "8. İş Mahkemesi".
func (m *Mapper) stripDistrict(court string) string {
	if court == "" {
		return ""
	}
	for _, metro := range m.tables.Metros {
		for _, district := range metro.Districts {
			if strings.Contains(court, district) {
				return strings.TrimSpace(strings.Replace(court, district, "", 1))
			}
		}
	}
	for _, city := range m.tables.OtherCities {
		if strings.Contains(court, city) {
			return strings.TrimSpace(strings.Replace(court, city, "", 1))
		}
	}
	return court
}

// mapLawyers flattens every side's counsel into backend lawyer entries.
// Index 0 entries carry the primary parties' representative lists; each
// additional opponent contributes its own counsel under a 1-based index.
func mapLawyers(cls parties.Result) []model.MappedLawyer {
	lawyers := []model.MappedLawyer{}

	appendNames := func(names []string, partyType string, partyIndex int) {
		for _, name := range names {
			if name == "" || name == "-" {
				continue
			}
			lawyers = append(lawyers, model.MappedLawyer{
				Name:       CapitalizeName(name),
				PartyType:  partyType,
				PartyIndex: partyIndex,
			})
		}
	}

	appendNames(cls.ClientLawyers, "client", 0)
	appendNames(cls.OpponentLawyers, "opponent", 0)

	for idx, opponent := range rest(cls.OpponentSide) {
		appendNames(parties.SplitCounsel(opponent.Counsel), "opponent", idx+1)
	}

	return lawyers
}

func (m *Mapper) mapDocuments(docs []model.Document) []model.MappedDocument {
	mapped := []model.MappedDocument{}
	for _, doc := range docs {
		docType := documentTypeMapping[doc.DocumentType]
		if docType == "" {
			docType = doc.DocumentType
		}
		if docType == "" {
			docType = "Diğer Belgeler"
		}

		fileName := doc.FileName
		if fileName == "" {
			fileName = "belge.pdf"
		}

		uploadDate := FormatDateToISO(doc.UploadDate)
		if uploadDate == "" {
			uploadDate = m.now().Format("2006-01-02")
		}

		mapped = append(mapped, model.MappedDocument{
			DocumentType: docType,
			FileName:     fileName,
			UploadDate:   uploadDate,
			DownloadURL:  doc.DownloadURL,
			DocumentID:   doc.DocumentID,
		})
	}
	return mapped
}

// mapHearings carries the extracted hearings through and promotes a
// next-hearing date on the case info into the list.
func mapHearings(hearings []model.Hearing, info model.CaseInfo) []model.Hearing {
	mapped := make([]model.Hearing, 0, len(hearings)+1)
	for _, h := range hearings {
		if h.Type == "" {
			h.Type = "durusma"
		}
		mapped = append(mapped, h)
	}

	if info.NextHearing != "" {
		clock := info.HearingTime
		if clock == "" {
			clock = "09:00"
		}
		mapped = append(mapped, model.Hearing{
			Date: info.NextHearing,
			Time: clock,
			Type: "durusma",
		})
	}

	return mapped
}

// encodeAdditional serializes non-primary parties the way the backend's
// form handler expects: a JSON array string, or empty when there are none.
// The ids are synthetic, derived from the party's position and name so the
// same input always encodes to the same bytes.
func encodeAdditional(side string, extras []model.Party) string {
	if len(extras) == 0 {
		return ""
	}

	out := make([]model.AdditionalParty, 0, len(extras))
	for i, party := range extras {
		out = append(out, model.AdditionalParty{
			ID:             syntheticID(side, i, party.Name),
			EntityType:     entityOrPerson(party.EntityType),
			Name:           CapitalizeName(party.Name),
			Capacity:       party.Capacity,
			IdentityNumber: party.IdentityNumber,
			Phone:          CleanPhoneNumber(party.Phone),
			Address:        party.Address,
		})
	}

	encoded, err := json.Marshal(out)
	if err != nil {
		return ""
	}
	return string(encoded)
}

func syntheticID(side string, index int, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s/%d/%s", side, index, name))).String()
}

func entityOrPerson(entityType string) string {
	if entityType == model.EntityCompany {
		return model.EntityCompany
	}
	return model.EntityPerson
}

func rest(parties []model.Party) []model.Party {
	if len(parties) <= 1 {
		return nil
	}
	return parties[1:]
}
