// Package fields holds the shared field normalization helpers used by
// both the single-member CRUD path and the bulk upload path, so a value
// round-tripped through an exported sheet normalizes to the same form.
package fields

import (
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sanitize trims surrounding whitespace. Whitespace-only input becomes
// the empty string, which the validators treat as absent.
func Sanitize(v string) string {
	return strings.TrimSpace(v)
}

// NormalizeEmail lowercases after trimming. Emails are stored and
// compared in lowercase; usernames stay case-sensitive.
func NormalizeEmail(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// DigitsOnly strips every non-digit rune (mobile and card numbers
// arrive with spaces, dashes, or a leading apostrophe from Excel).
func DigitsOnly(v string) string {
	var b strings.Builder
	for _, r := range v {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CardLast4 reduces a card number to its last four digits. The full
// number never crosses this boundary. Fewer than four digits returns
// the digits as-is so the validator can reject them.
func CardLast4(v string) string {
	digits := DigitsOnly(v)
	if len(digits) > 4 {
		return digits[len(digits)-4:]
	}
	return digits
}

// SplitList splits a comma-joined cell into trimmed items, dropping
// empties. Order is kept and duplicates are not collapsed.
func SplitList(v string) []string {
	parts := strings.Split(v, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}

// JoinList is the inverse of SplitList for rendering sheets.
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}

// NormalizeDate accepts YYYY-MM-DD text or an Excel serial number (a
// native date cell read back as its raw value) and returns YYYY-MM-DD.
// Anything else normalizes to "" and reads as absent.
func NormalizeDate(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if isISODate(v) {
		return v
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

func isISODate(v string) bool {
	if len(v) != 10 || v[4] != '-' || v[7] != '-' {
		return false
	}
	for i, r := range v {
		if i == 4 || i == 7 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	month := (v[5]-'0')*10 + (v[6] - '0')
	day := (v[8]-'0')*10 + (v[9] - '0')
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}
