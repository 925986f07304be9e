package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Fixed reference date for relative expressions: Thursday 2025-05-15.
var ref = time.Date(2025, time.May, 15, 10, 30, 0, 0, time.UTC)

func TestNormalizeRelativeKeywords(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"hoje", "hoje", "2025-05-15"},
		{"ontem", "ontem", "2025-05-14"},
		{"anteontem", "anteontem", "2025-05-13"},
		{"today", "today", "2025-05-15"},
		{"yesterday", "yesterday", "2025-05-14"},
		{"day before yesterday", "day before yesterday", "2025-05-13"},
		{"uppercase", "ONTEM", "2025-05-14"},
		{"embedded in sentence", "emprestei 200 reais ontem para o lanche", "2025-05-14"},
		{"anteontem not shadowed by ontem", "paguei anteontem", "2025-05-13"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.raw, ref)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestNormalizeExplicitDates(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"slash DD/MM/YYYY", "10/05/2025", "2025-05-10"},
		{"dash DD-MM-YYYY", "10-05-2025", "2025-05-10"},
		{"dot DD.MM.YYYY", "10.05.2025", "2025-05-10"},
		{"two digit year", "10/05/25", "2025-05-10"},
		{"two digit year dashes", "1-3-25", "2025-03-01"},
		{"single digit day and month", "5/4/2025", "2025-04-05"},
		{"already ISO", "2025-05-10", "2025-05-10"},
		{"ISO single digit parts", "2025-5-1", "2025-05-01"},
		{"filler em", "em 01-04-2025", "2025-04-01"},
		{"filler dia", "dia 10/05/2025", "2025-05-10"},
		{"filler no dia", "no dia 10/05/2025", "2025-05-10"},
		{"day-first wins over month-first", "02/03/2025", "2025-03-02"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.raw, ref)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestNormalizeSeparatorRoundTrip(t *testing.T) {
	// The same calendar date must normalize identically across separators.
	for _, raw := range []string{"10/05/2025", "10-05-2025", "10.05.2025"} {
		got, err := Normalize(raw, ref)
		assert.NoError(t, err)
		assert.Equal(t, "2025-05-10", got)
	}
}

func TestNormalizeRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"plain text", "sem data nenhuma"},
		{"month thirteen", "10-13-2025"},
		{"feb 30", "30/02/2025"},
		{"april 31", "31/04/2025"},
		{"iso month thirteen", "2025-13-01"},
		{"iso feb 30", "2025-02-30"},
		{"too many digits", "100-05-2025"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(tc.raw, ref)
			assert.ErrorIs(t, err, ErrNotRecognized)
		})
	}
}

func TestParseISO(t *testing.T) {
	d, err := ParseISO("2025-05-10")
	assert.NoError(t, err)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.May, d.Month())
	assert.Equal(t, 10, d.Day())

	_, err = ParseISO("10/05/2025")
	assert.Error(t, err)

	_, err = ParseISO("2025-02-30")
	assert.Error(t, err)
}

func TestToISO(t *testing.T) {
	assert.Equal(t, "2025-05-15", ToISO(ref))
}
