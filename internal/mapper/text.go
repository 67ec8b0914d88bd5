package mapper

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	isoPattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dottedPattern = regexp.MustCompile(`(\d{2})\.(\d{2})\.(\d{4})`)
	nonDigit      = regexp.MustCompile(`\D`)
)

// FormatDateToISO converts a portal date to YYYY-MM-DD. Already-ISO input
// passes through unchanged; anything unrecognized yields "".
func FormatDateToISO(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return ""
	}
	if isoPattern.MatchString(date) {
		return date
	}
	if m := dottedPattern.FindStringSubmatch(date); m != nil {
		return m[3] + "-" + m[2] + "-" + m[1]
	}
	return ""
}

// CleanPhoneNumber strips everything but digits and removes at most one
// leading trunk zero.
func CleanPhoneNumber(phone string) string {
	cleaned := nonDigit.ReplaceAllString(phone, "")
	if strings.HasPrefix(cleaned, "0") {
		return cleaned[1:]
	}
	return cleaned
}

// CapitalizeName title-cases an all-caps name. Turkish dotted and dotless
// i come in casing pairs (İ/i, I/ı) that ASCII-minded folding corrupts, so
// those runes are mapped explicitly.
func CapitalizeName(name string) string {
	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = turkishUpper(runes[0])
		for j := 1; j < len(runes); j++ {
			runes[j] = turkishLower(runes[j])
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func turkishUpper(r rune) rune {
	switch r {
	case 'i':
		return 'İ'
	case 'ı':
		return 'I'
	default:
		return unicode.ToUpper(r)
	}
}

func turkishLower(r rune) rune {
	switch r {
	case 'İ':
		return 'i'
	case 'I':
		return 'ı'
	default:
		return unicode.ToLower(r)
	}
}
