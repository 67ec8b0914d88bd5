package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageType reports what kind of portal view a document looks like. The two
// flags are independent signals, not mutually exclusive.
type PageType struct {
	IsListPage   bool `json:"isListPage"`
	IsDetailPage bool `json:"isDetailPage"`
}

// Classify decides whether a page is a case list and/or a case detail view
// from its URL and the presence of characteristic elements.
func (e *Extractor) Classify(pageURL string, doc *goquery.Document) PageType {
	var pt PageType

	lowered := strings.ToLower(pageURL)
	for _, token := range e.tables.ListURLTokens {
		if strings.Contains(lowered, token) {
			pt.IsListPage = true
			break
		}
	}
	if !pt.IsListPage && doc != nil && doc.Find("table").Length() > 0 {
		pt.IsListPage = true
	}

	for _, token := range e.tables.DetailURLTokens {
		if strings.Contains(lowered, token) {
			pt.IsDetailPage = true
			break
		}
	}
	if !pt.IsDetailPage && doc != nil {
		for _, selector := range e.tables.DetailSelectors {
			if doc.Find(selector).Length() > 0 {
				pt.IsDetailPage = true
				break
			}
		}
	}

	return pt
}
