package verification

import (
	"context"
	"time"

	"github.com/gotouchgrass/api/internal/infra/llm/gemini"
	"github.com/gotouchgrass/api/pkg/metrics"
)

// RoastRequest asks for a sarcastic nudge about time spent indoors.
type RoastRequest struct {
	UserName    string `json:"userName"`
	HoursIndoor int    `json:"hoursIndoor"`
}

// RoastResult carries either a model roast or a canned fallback line.
type RoastResult struct {
	Roast    string
	Fallback bool
}

// SuggestRequest asks for outdoor activity ideas near a city.
type SuggestRequest struct {
	City     string `json:"city"`
	UserName string `json:"userName"`
	Count    int    `json:"count"`
}

// SuggestionResult is an ordered list of short activity strings.
type SuggestionResult struct {
	Activities []string
	Fallback   bool
	Cached     bool
}

// ImageRequest carries a captured photo as base64 or a data URL.
type ImageRequest struct {
	ImageData string `json:"imageData"`
	UserName  string `json:"userName"`
	TodayDate string `json:"todayDate"`
}

// MetadataRequest carries the numeric photo signals for the heuristic path.
// Pointer fields so that absent and zero values are distinguishable.
type MetadataRequest struct {
	Brightness             *int   `json:"brightness"`
	ColorTemperatureKelvin *int   `json:"colorTemperatureKelvin"`
	CapturedAt             string `json:"capturedAt"`
}

// PhotoMetadata is the validated form consumed by the scorer.
type PhotoMetadata struct {
	Brightness             int
	ColorTemperatureKelvin int
	CapturedAt             time.Time
}

// Verdict is the structured outdoor-verification result for the image path.
type Verdict struct {
	Verified   bool     `json:"verified"`
	Confidence string   `json:"confidence"`
	Message    string   `json:"message"`
	Reasons    []string `json:"reasons"`
	AIAnalysis string   `json:"aiAnalysis"`
}

// MetadataVerdict is the metadata path result, carrying the numeric score.
type MetadataVerdict struct {
	Verified   bool     `json:"verified"`
	Score      int      `json:"score"`
	Confidence string   `json:"confidence"`
	Reasons    []string `json:"reasons"`
	AIAnalysis string   `json:"aiAnalysis"`
	Message    string   `json:"message"`
}

// Config wires runtime knobs for the verification domain. Scoring weights
// and the pass threshold are deliberately constants, not configuration.
type Config struct {
	Temperature     float32
	RoastMaxTokens  int32
	VerifyMaxTokens int32
	SuggestCount    int
	CacheTTL        time.Duration
}

// ModelClient issues a single generation call against the upstream model.
type ModelClient interface {
	Generate(ctx context.Context, req gemini.GenerateRequest) (string, metrics.TokenUsage, error)
}

// SuggestionStore caches activity lists per city.
type SuggestionStore interface {
	Get(ctx context.Context, city string) ([]string, bool, error)
	Save(ctx context.Context, city string, activities []string, ttl time.Duration) error
}

// EvidenceArchive persists verified photo bytes, returning the object key.
type EvidenceArchive interface {
	Store(ctx context.Context, data []byte, mimeType string) (string, error)
}
