// Package dateutils normalizes the date expressions users type in chat into
// canonical ISO (YYYY-MM-DD) strings.
package dateutils

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// DateLayoutISO is the canonical layout for every date that crosses a
// package boundary.
const DateLayoutISO = "2006-01-02"

// ErrNotRecognized is returned when a string matches no supported date
// expression or fails calendar validation.
var ErrNotRecognized = errors.New("date expression not recognized")

// relativeKeywords maps relative-date words to day offsets from the
// reference date. Longer keywords come first so "anteontem" is not
// shadowed by its "ontem" suffix.
var relativeKeywords = []struct {
	word   string
	offset int
}{
	{"anteontem", -2},
	{"ontem", -1},
	{"hoje", 0},
	{"day before yesterday", -2},
	{"yesterday", -1},
	{"today", 0},
}

var (
	fillerRe    = regexp.MustCompile(`(em|no dia|dia)\s+`)
	dayFirst2Re = regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{2}$`)
	dayFirst4Re = regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}$`)
	isoLikeRe   = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`)
)

// Normalize converts a free-form date expression into an ISO date string.
//
// Resolution order, first match wins:
//  1. relative keywords (hoje/ontem/anteontem and English equivalents),
//     matched as case-insensitive substrings so surrounding text is ignored
//  2. explicit day-first dates with 2-digit years (10-05-25, 10/05/25, ...)
//  3. explicit day-first dates with 4-digit years (10-05-2025, ...)
//  4. ISO-like dates (2025-05-10), re-validated
//
// Ambiguous day/month order is always resolved day-first. Impossible
// calendar dates (Feb 30) fail with ErrNotRecognized rather than clamping.
func Normalize(raw string, ref time.Time) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" {
		return "", ErrNotRecognized
	}

	for _, kw := range relativeKeywords {
		if strings.Contains(lower, kw.word) {
			return ToISO(ref.AddDate(0, 0, kw.offset)), nil
		}
	}

	cleaned := fillerRe.ReplaceAllString(lower, "")
	cleaned = strings.NewReplacer("/", "-", ".", "-").Replace(cleaned)
	cleaned = strings.TrimSpace(cleaned)

	switch {
	case dayFirst2Re.MatchString(cleaned):
		// Go's 2-digit-year convention: 00-68 -> 20xx, 69-99 -> 19xx.
		if t, err := time.Parse("2-1-06", cleaned); err == nil {
			return ToISO(t), nil
		}
	case dayFirst4Re.MatchString(cleaned):
		if t, err := time.Parse("2-1-2006", cleaned); err == nil {
			return ToISO(t), nil
		}
	case isoLikeRe.MatchString(cleaned):
		if t, err := time.Parse("2006-1-2", cleaned); err == nil {
			return ToISO(t), nil
		}
	}

	return "", ErrNotRecognized
}

// ParseISO parses a strict ISO date string (YYYY-MM-DD, zero-padded).
// Used by stores to validate dates before persisting.
func ParseISO(s string) (time.Time, error) {
	return time.Parse(DateLayoutISO, s)
}

// ToISO formats a time as an ISO date string, dropping any time component.
func ToISO(t time.Time) string {
	return t.Format(DateLayoutISO)
}
