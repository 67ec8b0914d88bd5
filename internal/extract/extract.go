package extract

import (
	"regexp"
	"strings"

	"github.com/kaplanhukuk/uyap-importer/pkg/logger"
)

// Extractor turns UYAP portal markup into structured case records. All of
// its heuristics come from the Tables it was built with.
type Extractor struct {
	tables Tables
	logger *logger.Logger
}

// New creates an extractor with the default heuristic tables.
func New(log *logger.Logger) *Extractor {
	return NewWithTables(DefaultTables(), log)
}

// NewWithTables creates an extractor with custom heuristic tables.
func NewWithTables(tables Tables, log *logger.Logger) *Extractor {
	return &Extractor{tables: tables, logger: log}
}

var innerWhitespace = regexp.MustCompile(`\s+`)

// cleanText trims and collapses whitespace runs to single spaces.
func cleanText(s string) string {
	return innerWhitespace.ReplaceAllString(strings.TrimSpace(s), " ")
}

func containsAny(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}

var (
	dottedDatePattern  = regexp.MustCompile(`(\d{2})\.(\d{2})\.(\d{4})`)
	slashedDatePattern = regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4})`)
	isoDatePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockPattern       = regexp.MustCompile(`(\d{2}:\d{2})`)
)

// NormalizeDate converts a portal date (DD.MM.YYYY or DD/MM/YYYY, with or
// without a trailing clock) to YYYY-MM-DD. Already-ISO input passes through
// and anything unrecognized is returned as-is.
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if isoDatePattern.MatchString(raw) {
		return raw
	}
	if m := dottedDatePattern.FindStringSubmatch(raw); m != nil {
		return m[3] + "-" + m[2] + "-" + m[1]
	}
	if m := slashedDatePattern.FindStringSubmatch(raw); m != nil {
		return m[3] + "-" + m[2] + "-" + m[1]
	}
	return raw
}

// SplitDateTime pulls a normalized date and an optional HH:MM clock out of a
// combined portal value like "15.03.2025 09:30".
func SplitDateTime(raw string) (date, clock string) {
	date = NormalizeDate(raw)
	if m := clockPattern.FindStringSubmatch(raw); m != nil {
		clock = m[1]
		// The clock never belongs in the date field.
		date = NormalizeDate(strings.TrimSpace(strings.Replace(raw, m[1], "", 1)))
	}
	return date, clock
}
