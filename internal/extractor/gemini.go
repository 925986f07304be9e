package extractor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fiado/internal/extracterror"
	"fiado/internal/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// GeminiExtractor implements Extractor against the Google Gemini API.
type GeminiExtractor struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
	log     *logrus.Logger
}

// NewGemini creates a Gemini-backed extractor. The model is configured for
// deterministic, small-output responses; content safety is delegated to the
// backend with a medium-and-above blocking threshold on all categories.
func NewGemini(ctx context.Context, apiKey, modelName string, timeout time.Duration, logger *logrus.Logger) (*GeminiExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	if logger == nil {
		logger = logrus.New()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.6)
	model.SetTopP(0.9)
	model.SetTopK(40)
	model.SetMaxOutputTokens(2048)
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockMediumAndAbove},
	}

	return &GeminiExtractor{
		client:  client,
		model:   model,
		timeout: timeout,
		log:     logger,
	}, nil
}

// Extract sends the instructional prompt to Gemini and runs the response
// through the validation pipeline. Every failure surfaces as an
// *extracterror.ExtractionError; nothing from the backend leaks through.
func (e *GeminiExtractor) Extract(ctx context.Context, text string, kind models.Kind, today time.Time) (models.Candidate, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	prompt := buildPrompt(text, kind, today)

	resp, err := e.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		e.log.WithError(err).WithFields(logrus.Fields{
			"operation": "gemini_extract",
			"kind":      kind,
		}).Warn("Gemini request failed")
		return models.Candidate{}, extracterror.Backend(err)
	}

	raw, err := responseText(resp)
	if err != nil {
		e.log.WithError(err).WithField("operation", "gemini_extract").Warn("Gemini returned no usable content")
		return models.Candidate{}, extracterror.Malformed(err)
	}

	candidate, err := CandidateFromResponse(raw, text, kind, today)
	if err != nil {
		e.log.WithError(err).WithFields(logrus.Fields{
			"operation": "gemini_extract",
			"kind":      kind,
			"response":  raw,
		}).Warn("Gemini response failed validation")
		return models.Candidate{}, err
	}

	e.log.WithFields(logrus.Fields{
		"operation": "gemini_extract",
		"kind":      kind,
		"amount":    candidate.Amount.String(),
		"date":      candidate.Date,
	}).Debug("Extracted transaction candidate")

	return candidate, nil
}

// Close releases the underlying API client.
func (e *GeminiExtractor) Close() error {
	return e.client.Close()
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from model")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("response contains no text parts")
	}
	return b.String(), nil
}

var _ Extractor = (*GeminiExtractor)(nil)
