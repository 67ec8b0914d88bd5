package extract

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kaplanhukuk/uyap-importer/internal/model"
)

// SectionActivator brings a named tab or section of the detail view into the
// DOM and returns a fresh snapshot of the document once it has settled. The
// portal renders party grids lazily, so extraction has to ask for them.
type SectionActivator func(ctx context.Context, titles []string) (*goquery.Document, error)

// ExtractCaseDetail recovers everything a detail view offers. Every sub-step
// degrades on its own: a missing section yields an empty list and the rest
// of the extraction carries on, so partial results are the norm, not an
// error.
func (e *Extractor) ExtractCaseDetail(ctx context.Context, doc *goquery.Document, activate SectionActivator) (detail model.CaseDetail) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Detail extraction aborted mid-way, keeping partial result", "panic", r)
		}
	}()

	detail.CaseInfo = e.extractCaseInfo(doc)

	partyDoc := doc
	if activate != nil {
		refreshed, err := activate(ctx, e.tables.PartySectionTitles)
		if err != nil {
			e.logger.Warn("Party section activation failed, reading current view", "error", err)
		} else if refreshed != nil {
			partyDoc = refreshed
		}
	}
	detail.Parties = e.extractParties(partyDoc)

	detail.Lawyers = e.extractLawyers(partyDoc)
	detail.Documents = e.extractDocuments(partyDoc)
	detail.Hearings = e.extractHearings(partyDoc)

	return detail
}

// extractCaseInfo reads the case metadata. The heading pattern is the
// primary source for year, case number and court; label lookup fills only
// what the heading did not yield.
func (e *Extractor) extractCaseInfo(doc *goquery.Document) model.CaseInfo {
	var info model.CaseInfo

	title := e.findCaseTitle(doc)
	if m := e.tables.TitlePattern.FindStringSubmatch(title); m != nil {
		info.Year = m[1]
		info.CaseNumber = m[2]
		info.Courthouse = cleanText(m[3])
	}

	if info.Year == "" || info.CaseNumber == "" {
		if esasNo, ok := e.findLabelValue(doc, e.tables.CaseNoLabels...); ok {
			if m := CaseNumberPattern.FindString(strings.TrimSpace(esasNo)); m != "" {
				parts := strings.SplitN(m, "/", 2)
				info.Year, info.CaseNumber = parts[0], parts[1]
			}
		}
	}
	if info.Courthouse == "" {
		if court, ok := e.findLabelValue(doc, e.tables.CourtLabels...); ok {
			info.Courthouse = court
		}
	}

	info.City, info.Adliye = e.DeriveCityAndCourthouse(info.Courthouse)

	info.FileType = e.deriveFileType(title)
	if info.FileType == "" {
		if fileType, ok := e.findLabelValue(doc, e.tables.FileTypeLabels...); ok {
			info.FileType = fileType
		}
	}

	if openDate, ok := e.findLabelValue(doc, e.tables.OpenDateLabels...); ok {
		info.OpenDate = NormalizeDate(openDate)
	}
	if status, ok := e.findLabelValue(doc, e.tables.StatusLabels...); ok {
		info.Status = status
	}

	// Hearing dates are only meaningful on civil files; criminal and
	// enforcement views reuse the same labels for unrelated dates.
	if info.FileType == "Hukuk" {
		if hearing, ok := e.findLabelValue(doc, e.tables.NextHearingLabels...); ok {
			info.NextHearing, info.HearingTime = SplitDateTime(hearing)
		}
		if info.HearingTime == "" {
			if clock, ok := e.findLabelValue(doc, e.tables.HearingTimeLabels...); ok {
				if m := clockPattern.FindStringSubmatch(clock); m != nil {
					info.HearingTime = m[1]
				}
			}
		}
	}

	return info
}

// findCaseTitle probes the title-like selectors for the first heading that
// looks like it carries a file number, falling back to the document title.
func (e *Extractor) findCaseTitle(doc *goquery.Document) string {
	for _, selector := range e.tables.TitleSelectors {
		var found string
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			text := cleanText(sel.Text())
			if strings.Contains(text, "/") {
				found = text
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return cleanText(doc.Find("title").Text())
}

// DeriveCityAndCourthouse resolves the city and courthouse label from a
// court string. Metro district rosters are checked in order, then plain
// city prefixes; an unknown prefix falls back to the court's first word.
func (e *Extractor) DeriveCityAndCourthouse(court string) (city, adliye string) {
	if court == "" {
		return "", ""
	}

	for _, metro := range e.tables.Metros {
		for _, district := range metro.Districts {
			if strings.Contains(court, district) {
				return metro.City, district + e.tables.CourthouseSuffix
			}
		}
	}

	for _, other := range e.tables.OtherCities {
		if strings.Contains(court, other) {
			return other, other + e.tables.CourthouseSuffix
		}
	}

	first := strings.Fields(court)
	if len(first) == 0 {
		return "", ""
	}
	return first[0], first[0] + e.tables.CourthouseSuffix
}

func (e *Extractor) deriveFileType(title string) string {
	if containsAny(title, e.tables.CriminalTokens) {
		return "Ceza"
	}
	if containsAny(title, e.tables.CivilTokens) {
		return "Hukuk"
	}
	return ""
}

// partyColumns maps the party grid's cells, resolved from its header table.
type partyColumns struct {
	role    int
	typ     int
	name    int
	counsel int
}

// extractParties reads the party grid. The grid is rendered as a header
// table followed by a separate data table; when that adjacency does not
// hold the lookup reports nothing rather than mis-reading another table.
func (e *Extractor) extractParties(doc *goquery.Document) model.Parties {
	var parties model.Parties

	cols := partyColumns{role: 0, typ: 1, name: 2, counsel: 3}
	headerMatch := func(headerRow *goquery.Selection) bool {
		text := headerRow.Text()
		if !containsAny(text, e.tables.RoleHeaders) {
			return false
		}
		if !containsAny(text, e.tables.TypeHeaders) && !containsAny(text, e.tables.NameHeaders) {
			return false
		}
		headerRow.Find("th, td").Each(func(i int, cell *goquery.Selection) {
			cellText := cleanText(cell.Text())
			switch {
			case containsAny(cellText, e.tables.RoleHeaders):
				cols.role = i
			case containsAny(cellText, e.tables.TypeHeaders):
				cols.typ = i
			case containsAny(cellText, e.tables.NameHeaders):
				cols.name = i
			case containsAny(cellText, e.tables.CounselHeaders):
				cols.counsel = i
			}
		})
		return true
	}

	dataTable, ok := adjacentTable(doc, headerMatch)
	if !ok {
		e.logger.Warn("Party grid not found on detail view")
		return parties
	}

	dataTable.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		role := cleanText(cellText(cells, cols.role))
		typ := cleanText(cellText(cells, cols.typ))
		name := cleanText(cellText(cells, cols.name))
		counsel := stripBrackets(cleanText(cellText(cells, cols.counsel)))

		if nonEmpty(role, typ, name, counsel) < 3 {
			return
		}

		party := model.Party{
			Name:       name,
			EntityType: e.detectEntityType(typ, name),
			Capacity:   role,
			Counsel:    counsel,
		}

		lowered := strings.ToLower(role)
		switch {
		case containsAny(lowered, e.tables.ClientRoleKeywords):
			parties.Clients = append(parties.Clients, party)
		case containsAny(lowered, e.tables.OpponentRoleKeywords):
			parties.Opponents = append(parties.Opponents, party)
		default:
			e.logger.Warn("Party role matched no side, dropping", "role", role, "name", name)
		}
	})

	return parties
}

// detectEntityType decides person vs company from the grid's type cell,
// falling back to organization tokens in the name.
func (e *Extractor) detectEntityType(typeCell, name string) string {
	haystack := typeCell
	if haystack == "" {
		haystack = name
	}
	upper := strings.ToUpper(haystack)
	for _, keyword := range e.tables.CompanyKeywords {
		if strings.Contains(upper, strings.ToUpper(keyword)) {
			return model.EntityCompany
		}
	}
	return model.EntityPerson
}

// extractLawyers reads the counsel section's table, if the view has one.
func (e *Extractor) extractLawyers(doc *goquery.Document) []model.Lawyer {
	var lawyers []model.Lawyer

	section := e.findSection(doc, e.tables.LawyerSectionTitles)
	if section == nil {
		return lawyers
	}

	section.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		lawyer := model.Lawyer{
			Name:       cleanText(cellText(cells, 0)),
			Bar:        cleanText(cellText(cells, 1)),
			BarNumber:  cleanText(cellText(cells, 2)),
			Phone:      cleanText(cellText(cells, 3)),
			IsOpponent: strings.Contains(cellText(cells, 4), "Karşı"),
		}
		if lawyer.Name != "" {
			lawyers = append(lawyers, lawyer)
		}
	})

	return lawyers
}

// extractDocuments reads the document section's table, if the view has one.
func (e *Extractor) extractDocuments(doc *goquery.Document) []model.Document {
	var documents []model.Document

	section := e.findSection(doc, e.tables.DocumentSectionTitles)
	if section == nil {
		return documents
	}

	section.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		document := model.Document{
			DocumentType: cleanText(cellText(cells, 0)),
			FileName:     cleanText(cellText(cells, 1)),
			UploadDate:   cleanText(cellText(cells, 2)),
		}

		if href, ok := row.Find("a[href*='download']").First().Attr("href"); ok {
			document.DownloadURL = href
		} else if onclick, ok := row.Find("[onclick*='download']").First().Attr("onclick"); ok {
			if m := onclickURLPattern.FindStringSubmatch(onclick); m != nil {
				document.DownloadURL = m[1]
			}
		}
		if id, ok := row.Attr("data-document-id"); ok {
			document.DocumentID = id
		}

		if document.FileName != "" {
			documents = append(documents, document)
		}
	})

	return documents
}

// extractHearings reads the hearing section's table, if the view has one.
func (e *Extractor) extractHearings(doc *goquery.Document) []model.Hearing {
	var hearings []model.Hearing

	section := e.findSection(doc, e.tables.HearingSectionTitles)
	if section == nil {
		return hearings
	}

	section.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		hearing := model.Hearing{
			Date:   NormalizeDate(cleanText(cellText(cells, 0))),
			Time:   cleanText(cellText(cells, 1)),
			Type:   cleanText(cellText(cells, 2)),
			Status: cleanText(cellText(cells, 3)),
		}
		if hearing.Type == "" {
			hearing.Type = "durusma"
		}
		if hearing.Date != "" {
			hearings = append(hearings, hearing)
		}
	})

	return hearings
}

var bracketReplacer = strings.NewReplacer("[", "", "]", "")

func stripBrackets(s string) string {
	return bracketReplacer.Replace(s)
}

func cellText(cells *goquery.Selection, idx int) string {
	if idx < 0 || idx >= cells.Length() {
		return ""
	}
	return cells.Eq(idx).Text()
}

func nonEmpty(values ...string) int {
	count := 0
	for _, v := range values {
		if v != "" {
			count++
		}
	}
	return count
}
