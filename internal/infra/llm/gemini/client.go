package gemini

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	apperrors "github.com/gotouchgrass/api/pkg/errors"
	"github.com/gotouchgrass/api/pkg/metrics"
)

const defaultModel = "gemini-2.5-flash"

// GenerateRequest is a single text (optionally text+image) generation call.
type GenerateRequest struct {
	Prompt      string
	Image       []byte
	ImageMIME   string
	MaxTokens   int32
	Temperature float32
}

// Client performs requests against the Gemini API. It makes exactly one
// attempt per call; failure handling belongs to the caller.
type Client struct {
	apiKey string
	model  string
	logger *slog.Logger
}

// NewClient constructs a Gemini client. An empty API key is tolerated here
// so the process can boot without credentials; calls then fail with
// llm_unavailable and the orchestrator substitutes fallbacks.
func NewClient(apiKey, model string, logger *slog.Logger) *Client {
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &Client{
		apiKey: strings.TrimSpace(apiKey),
		model:  strings.TrimSpace(model),
		logger: logger.With("component", "llm.gemini"),
	}
}

// Generate issues the upstream call and returns the raw completion text.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, metrics.TokenUsage, error) {
	if c.apiKey == "" {
		return "", metrics.TokenUsage{}, apperrors.Wrap("llm_unavailable", "gemini api key not configured", nil)
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return "", metrics.TokenUsage{}, apperrors.Wrap("llm_error", "init gemini client", err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(c.model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:     ptrFloat32(req.Temperature),
		MaxOutputTokens: ptrInt32(req.MaxTokens),
	}

	parts := []genai.Part{genai.Text(req.Prompt)}
	if len(req.Image) > 0 {
		mime := req.ImageMIME
		if mime == "" {
			mime = "image/jpeg"
		}
		parts = append(parts, &genai.Blob{MIMEType: mime, Data: req.Image})
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return "", metrics.TokenUsage{}, apperrors.Wrap("llm_error", "gemini request failed", err)
	}

	text := firstText(resp)
	if strings.TrimSpace(text) == "" {
		return "", metrics.TokenUsage{}, apperrors.Wrap("llm_error", "gemini returned no text", nil)
	}

	usage := usageFrom(resp)
	c.logger.Debug("gemini response received", "model", c.model, "total_tokens", usage.TotalTokens)
	return text, usage, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func usageFrom(resp *genai.GenerateContentResponse) metrics.TokenUsage {
	if resp == nil || resp.UsageMetadata == nil {
		return metrics.TokenUsage{}
	}
	return metrics.TokenUsage{
		PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
		CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
	}
}

func ptrFloat32(v float32) *float32 { return &v }
func ptrInt32(v int32) *int32       { return &v }
