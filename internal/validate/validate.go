package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// qMarks are the punctuation characters product names use: "Skol 600ml (Retornável)", "Carvão 3+1", "Gelo & Carvão".
const qMarks = "_'-./%()+&,"

var (
	reID  = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reDay = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}$`)
)

// ID validates a product or sale identifier (numeric seeds and UUIDs both fit).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Q validates a search query: trims, caps at 50 runes, letters/digits/spaces and a few marks only.
// Accented product names (Água, Guaraná) must stay searchable.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if utf8.RuneCountInString(s) > 50 {
		s = string([]rune(s)[:50])
	}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || unicode.Is(unicode.Mn, r) {
			continue
		}
		if !strings.ContainsRune(qMarks, r) {
			return "", false
		}
	}
	return s, true
}

// Name validates a product name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > 120 {
		return "", false
	}
	return s, true
}

// Day validates a YYYY-MM-DD calendar day key.
func Day(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !reDay.MatchString(s) {
		return "", false
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", false
	}
	return s, true
}

// Qty reports whether n is an acceptable cart line quantity.
func Qty(n int) bool { return n >= 1 && n <= 9999 }

// Limit parses a list size, clamping to [1, max] and falling back to def.
func Limit(s string, def, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	} // clamp to avoid abuse
	return n
}
