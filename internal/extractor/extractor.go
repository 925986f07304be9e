// Package extractor turns free-text chat messages into structured
// transaction candidates using a generative AI backend.
//
// The backend is treated as untrusted: its output is defensively parsed,
// the amount is validated, and the date goes through a three-tier fallback
// (model value, then the original user text, then today) because a
// partially-correct response is the common case, not an exception.
package extractor

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"fiado/internal/dateutils"
	"fiado/internal/extracterror"
	"fiado/internal/models"

	"github.com/shopspring/decimal"
)

// Extractor converts free text describing a transaction into a validated
// candidate. Implementations must return *extracterror.ExtractionError for
// every failure mode so callers can re-prompt the user.
type Extractor interface {
	Extract(ctx context.Context, text string, kind models.Kind, today time.Time) (models.Candidate, error)
}

// payload mirrors the JSON object the backend is instructed to return.
// Valor stays raw so a string or missing value maps to an invalid-amount
// error instead of a generic decode failure.
type payload struct {
	Valor     json.RawMessage `json:"valor"`
	Data      string          `json:"data"`
	Descricao string          `json:"descricao"`
}

// CandidateFromResponse parses and validates a raw backend response.
// originalText is the user's message, used as the second tier of the date
// fallback chain. Exposed so the pipeline is testable without a live model.
func CandidateFromResponse(raw, originalText string, kind models.Kind, today time.Time) (models.Candidate, error) {
	cleaned := stripCodeFence(raw)

	var p payload
	if err := json.Unmarshal([]byte(cleaned), &p); err != nil {
		return models.Candidate{}, extracterror.Malformed(err)
	}

	amount, err := decodeAmount(p.Valor)
	if err != nil {
		return models.Candidate{}, err
	}

	date := resolveDate(p.Data, originalText, today)

	description := strings.TrimSpace(p.Descricao)
	if description == "" {
		description = kind.Label()
	}

	return models.Candidate{
		Kind:        kind,
		Amount:      amount,
		Date:        date,
		Description: description,
	}, nil
}

// decodeAmount accepts only a JSON number that is strictly positive.
func decodeAmount(raw json.RawMessage) (decimal.Decimal, error) {
	if len(raw) == 0 {
		return decimal.Decimal{}, extracterror.InvalidAmount()
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return decimal.Decimal{}, extracterror.InvalidAmount()
	}
	amount, err := decimal.NewFromString(num.String())
	if err != nil || !amount.IsPositive() {
		return decimal.Decimal{}, extracterror.InvalidAmount()
	}
	return amount, nil
}

// resolveDate applies the three-tier fallback: the backend's date string,
// then the original input text, then today. Never fails.
func resolveDate(fromModel, originalText string, today time.Time) string {
	if fromModel != "" {
		if iso, err := dateutils.Normalize(fromModel, today); err == nil {
			return iso
		}
	}
	if iso, err := dateutils.Normalize(originalText, today); err == nil {
		return iso
	}
	return dateutils.ToISO(today)
}

// stripCodeFence removes an optional Markdown code fence around the
// response body.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
