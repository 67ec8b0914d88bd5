package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxLabelValueLen guards against a structural mismatch capturing whole-page
// text as a field value.
const maxLabelValueLen = 200

// findLabelValue resolves the first value paired with any of the candidate
// labels. Label-like elements are scanned first, then every table row is
// tried with a first-cell/second-cell reading. Returns ok=false when none of
// the candidates resolve.
func (e *Extractor) findLabelValue(doc *goquery.Document, labels ...string) (string, bool) {
	for _, label := range labels {
		if value, ok := e.labelElementValue(doc, label); ok {
			return value, true
		}
		if value, ok := e.tableRowValue(doc, label); ok {
			return value, true
		}
	}
	return "", false
}

func (e *Extractor) labelElementValue(doc *goquery.Document, label string) (string, bool) {
	var value string
	doc.Find("label, .label, dt, th").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !strings.Contains(sel.Text(), label) {
			return true
		}

		candidate := cleanText(sel.Next().Text())
		if candidate == "" {
			candidate = cleanText(sel.Parent().Find(".value, dd, td").First().Text())
		}
		if candidate != "" && len(candidate) <= maxLabelValueLen {
			value = candidate
			return false
		}
		return true
	})
	return value, value != ""
}

func (e *Extractor) tableRowValue(doc *goquery.Document, label string) (string, bool) {
	var value string
	doc.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return true
		}
		if !strings.Contains(cleanText(cells.Eq(0).Text()), label) {
			return true
		}

		candidate := cleanText(cells.Eq(1).Text())
		if candidate != "" && len(candidate) <= maxLabelValueLen {
			value = candidate
			return false
		}
		return true
	})
	return value, value != ""
}

// findSection locates the content block under a heading whose text contains
// any of the given titles. The portal renders section bodies either as the
// heading's next sibling or inside the heading's parent.
func (e *Extractor) findSection(doc *goquery.Document, titles []string) *goquery.Selection {
	var section *goquery.Selection
	doc.Find("h1, h2, h3, h4, h5, .section-title, .panel-heading").EachWithBreak(func(_ int, header *goquery.Selection) bool {
		if !containsAny(header.Text(), titles) {
			return true
		}
		if next := header.Next(); next.Length() > 0 {
			section = next
		} else {
			section = header.Parent()
		}
		return false
	})
	return section
}

// adjacentTable returns the table immediately following the first table
// whose header row satisfies the predicate. The portal renders some grids
// as a header table followed by a separate data table; when the layout does
// not match, the lookup reports not-found rather than guessing.
func adjacentTable(doc *goquery.Document, headerMatch func(*goquery.Selection) bool) (*goquery.Selection, bool) {
	tables := doc.Find("table")
	headerIdx := -1
	tables.EachWithBreak(func(i int, table *goquery.Selection) bool {
		if headerMatch(table.Find("tr").First()) {
			headerIdx = i
			return false
		}
		return true
	})

	if headerIdx < 0 || headerIdx+1 >= tables.Length() {
		return nil, false
	}
	return tables.Eq(headerIdx + 1), true
}
