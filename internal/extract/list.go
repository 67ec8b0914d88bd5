package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/kaplanhukuk/uyap-importer/internal/model"
)

// onclickURLPattern pulls a quoted URL out of an inline click handler.
var onclickURLPattern = regexp.MustCompile(`['"]((?:https?://|/)[^'"]+)['"]`)

// resolvedColumns maps each target field to a cell index for one table.
type resolvedColumns struct {
	unit     int
	fileNo   int
	fileType int
	status   int
	openDate int
	matched  int
}

// ExtractCaseList scans every table on a list page and returns the rows that
// survive the validation gate, in document order. A table whose header row
// matches none of the known column labels is skipped; a row that fails
// validation is dropped. Neither stops the scan.
func (e *Extractor) ExtractCaseList(doc *goquery.Document) []model.CaseSummary {
	var cases []model.CaseSummary

	doc.Find("table").Each(func(tableIdx int, table *goquery.Selection) {
		rows := table.Find("tr")
		if rows.Length() == 0 {
			return
		}

		headerRow := rows.First()
		cols, hasHeader := e.resolveColumns(headerRow)
		if hasHeader && cols.matched == 0 {
			e.logger.Debug("Skipping table, no known column headers", "table", tableIdx)
			return
		}

		rows.Each(func(rowIdx int, row *goquery.Selection) {
			if hasHeader && rowIdx == 0 {
				return
			}

			cells := row.Find("td")
			if cells.Length() < 3 {
				return
			}

			cellTexts := make([]string, cells.Length())
			cells.Each(func(i int, cell *goquery.Selection) {
				cellTexts[i] = cleanText(cell.Text())
			})

			summary := model.CaseSummary{
				Unit:      cellAt(cellTexts, cols.unit),
				FileNo:    cellAt(cellTexts, cols.fileNo),
				FileType:  cellAt(cellTexts, cols.fileType),
				Status:    cellAt(cellTexts, cols.status),
				OpenDate:  cellAt(cellTexts, cols.openDate),
				DetailURL: e.detailHandle(row),
				RawCells:  cellTexts,
			}

			if !e.validSummary(summary) {
				e.logger.Debug("Dropping invalid list row", "fileNo", summary.FileNo, "unit", summary.Unit)
				return
			}

			cases = append(cases, summary)
		})
	})

	return cases
}

// resolveColumns matches the first row's cells against the known column
// labels. hasHeader reports whether the row carries explicit header cells;
// header-less tables fall back to the fixed positional layout.
func (e *Extractor) resolveColumns(headerRow *goquery.Selection) (resolvedColumns, bool) {
	t := e.tables.ListHeaders
	cols := resolvedColumns{
		unit:     t.Unit.Fallback,
		fileNo:   t.FileNo.Fallback,
		fileType: t.FileType.Fallback,
		status:   t.Status.Fallback,
		openDate: t.OpenDate.Fallback,
	}

	headerCells := headerRow.Find("th")
	hasHeader := headerCells.Length() > 0
	if !hasHeader {
		headerCells = headerRow.Find("td")
	}

	headerCells.Each(func(i int, cell *goquery.Selection) {
		text := cleanText(cell.Text())
		switch {
		case strings.Contains(text, t.Unit.Label):
			cols.unit = i
			cols.matched++
		case strings.Contains(text, t.FileNo.Label):
			cols.fileNo = i
			cols.matched++
		case strings.Contains(text, t.FileType.Label):
			cols.fileType = i
			cols.matched++
		case strings.Contains(text, t.Status.Label):
			cols.status = i
			cols.matched++
		case strings.Contains(text, t.OpenDate.Label):
			cols.openDate = i
			cols.matched++
		}
	})

	return cols, hasHeader
}

// detailHandle resolves a navigation handle for the row: a detail link
// first, then any link, then a URL embedded in an inline click handler.
func (e *Extractor) detailHandle(row *goquery.Selection) string {
	for _, token := range e.tables.DetailURLTokens {
		if href, ok := row.Find("a[href*='" + token + "']").First().Attr("href"); ok {
			return href
		}
	}

	if href, ok := row.Find("a[href]").First().Attr("href"); ok {
		return href
	}

	var handle string
	row.Find("[onclick]").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		onclick, _ := el.Attr("onclick")
		if m := onclickURLPattern.FindStringSubmatch(onclick); m != nil {
			handle = m[1]
			return false
		}
		return true
	})
	return handle
}

// validSummary is the gate keeping header rows and decorative rows out of
// the output: the file number must be a strict YYYY/NNN and the unit must be
// real text, not a column label.
func (e *Extractor) validSummary(s model.CaseSummary) bool {
	t := e.tables.ListHeaders
	if !CaseNumberPattern.MatchString(s.FileNo) || s.FileNo == t.FileNo.Label {
		return false
	}
	if s.Unit == "" || s.Unit == t.Unit.Label || utf8.RuneCountInString(s.Unit) <= 2 {
		return false
	}
	return true
}

func cellAt(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}
