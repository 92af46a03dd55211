package verification

import (
	"context"
	"encoding/base64"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gotouchgrass/api/internal/infra/llm/gemini"
	apperrors "github.com/gotouchgrass/api/pkg/errors"
)

// Service exposes the verification orchestration operations. Every call is
// independent; nothing is retained between requests.
type Service interface {
	Roast(ctx context.Context, req RoastRequest) (RoastResult, error)
	SuggestActivities(ctx context.Context, req SuggestRequest) (SuggestionResult, error)
	VerifyImage(ctx context.Context, req ImageRequest) (Verdict, error)
	VerifyMetadata(ctx context.Context, req MetadataRequest) (MetadataVerdict, error)
}

type service struct {
	cfg      Config
	model    ModelClient
	store    SuggestionStore
	archive  EvidenceArchive
	logger   *slog.Logger
	randIntn func(n int) int
	now      func() time.Time
}

// NewService wires up the verification domain. Fallback selection uses the
// shared package-level random source, which is safe for concurrent
// requests; the func field is injectable in tests.
func NewService(cfg Config, model ModelClient, store SuggestionStore, archive EvidenceArchive, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg,
		model:    model,
		store:    store,
		archive:  archive,
		logger:   logger.With("component", "verification.service"),
		randIntn: rand.Intn,
		now:      time.Now,
	}
}

// Roast generates a sarcastic one-liner. Upstream failure is absorbed into
// a canned fallback; the result is never empty.
func (s *service) Roast(ctx context.Context, req RoastRequest) (RoastResult, error) {
	if req.HoursIndoor < 0 {
		return RoastResult{}, apperrors.Wrap("invalid_input", "hoursIndoor cannot be negative", nil)
	}

	text, usage, err := s.model.Generate(ctx, gemini.GenerateRequest{
		Prompt:      roastPrompt(req.UserName, req.HoursIndoor),
		MaxTokens:   s.cfg.RoastMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		s.logger.Warn("roast generation failed, using fallback", "error", err)
		return RoastResult{Roast: s.pickRoastFallback(), Fallback: true}, nil
	}
	s.logger.Info("roast generated", "user", req.UserName, "hours", req.HoursIndoor, "total_tokens", usage.TotalTokens)

	roast := interpretRoast(text)
	if roast == "" {
		return RoastResult{Roast: s.pickRoastFallback(), Fallback: true}, nil
	}
	return RoastResult{Roast: roast}, nil
}

// SuggestActivities returns 3-5 outdoor activity ideas, served from the
// city cache when possible. Fallback lists are never cached.
func (s *service) SuggestActivities(ctx context.Context, req SuggestRequest) (SuggestionResult, error) {
	count := s.resolveCount(req.Count)
	city := strings.ToLower(strings.TrimSpace(req.City))

	if city != "" && s.store != nil {
		cached, ok, err := s.store.Get(ctx, city)
		if err != nil {
			s.logger.Warn("suggestion cache read failed", "city", city, "error", err)
		} else if ok && len(cached) > 0 {
			if len(cached) > count {
				cached = cached[:count]
			}
			return SuggestionResult{Activities: cached, Cached: true}, nil
		}
	}

	text, _, err := s.model.Generate(ctx, gemini.GenerateRequest{
		Prompt:      activitiesPrompt(req.City, count),
		MaxTokens:   s.cfg.RoastMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		s.logger.Warn("activity suggestion failed, using fallback", "city", city, "error", err)
		return SuggestionResult{Activities: activityFallbacks, Fallback: true}, nil
	}

	activities := interpretActivities(text, count)
	if len(activities) == 0 {
		return SuggestionResult{Activities: activityFallbacks, Fallback: true}, nil
	}

	if city != "" && s.store != nil {
		if err := s.store.Save(ctx, city, activities, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("suggestion cache write failed", "city", city, "error", err)
		}
	}
	return SuggestionResult{Activities: activities}, nil
}

// VerifyImage forwards the photo to the model and interprets the reply.
// Only malformed caller input is an error; upstream failures turn into the
// fixed failure verdict.
func (s *service) VerifyImage(ctx context.Context, req ImageRequest) (Verdict, error) {
	imageBytes, mimeType, err := decodeImageData(req.ImageData)
	if err != nil {
		return Verdict{}, apperrors.Wrap("invalid_input", "imageData is not valid base64 image data", err)
	}

	todayDate := strings.TrimSpace(req.TodayDate)
	if todayDate == "" {
		todayDate = s.now().Format("2006-01-02")
	}

	text, usage, err := s.model.Generate(ctx, gemini.GenerateRequest{
		Prompt:      imageVerifyPrompt(todayDate),
		Image:       imageBytes,
		ImageMIME:   mimeType,
		MaxTokens:   s.cfg.VerifyMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		s.logger.Warn("image verification failed, using fallback verdict", "error", err)
		return fallbackVerdict(), nil
	}
	s.logger.Info("image verification response received", "user", req.UserName, "total_tokens", usage.TotalTokens)

	verdict := interpretVerdict(text)
	if verdict.Verified && s.archive != nil {
		key, archiveErr := s.archive.Store(ctx, imageBytes, mimeType)
		if archiveErr != nil {
			s.logger.Warn("photo archive write failed", "error", archiveErr)
		} else if key != "" {
			s.logger.Info("verified photo archived", "key", key)
		}
	}
	return verdict, nil
}

// VerifyMetadata runs the deterministic scorer and blends in the model's
// opinion when available. verified == (total >= passThreshold) exactly.
func (s *service) VerifyMetadata(ctx context.Context, req MetadataRequest) (MetadataVerdict, error) {
	meta, err := validateMetadata(req)
	if err != nil {
		return MetadataVerdict{}, err
	}

	score := scoreMetadata(meta)

	aiAnalysis := "AI analysis unavailable"
	text, _, err := s.model.Generate(ctx, gemini.GenerateRequest{
		Prompt:      metadataVerifyPrompt(meta),
		MaxTokens:   s.cfg.RoastMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		s.logger.Warn("metadata model check unavailable, scoring heuristically", "error", err)
	} else {
		aiAnalysis = strings.TrimSpace(text)
		if containsOutdoorToken(text) {
			score.Points += modelBonusPoints
		}
	}

	verified := score.Points >= passThreshold
	message := "This looks indoor. Try again!"
	if verified {
		message = "Looks legit! You touched grass!"
	}
	return MetadataVerdict{
		Verified:   verified,
		Score:      score.Points,
		Confidence: confidencePercent(score.Points),
		Reasons:    score.Reasons,
		AIAnalysis: aiAnalysis,
		Message:    message,
	}, nil
}

func validateMetadata(req MetadataRequest) (PhotoMetadata, error) {
	if req.Brightness == nil {
		return PhotoMetadata{}, apperrors.Wrap("invalid_input", "brightness is required", nil)
	}
	if *req.Brightness < 0 || *req.Brightness > 255 {
		return PhotoMetadata{}, apperrors.Wrap("invalid_input", "brightness must be between 0 and 255", nil)
	}
	if req.ColorTemperatureKelvin == nil {
		return PhotoMetadata{}, apperrors.Wrap("invalid_input", "colorTemperatureKelvin is required", nil)
	}
	if *req.ColorTemperatureKelvin <= 0 {
		return PhotoMetadata{}, apperrors.Wrap("invalid_input", "colorTemperatureKelvin must be positive", nil)
	}
	capturedAt, err := time.Parse(time.RFC3339, strings.TrimSpace(req.CapturedAt))
	if err != nil {
		return PhotoMetadata{}, apperrors.Wrap("invalid_input", "capturedAt must be an RFC 3339 timestamp", err)
	}
	return PhotoMetadata{
		Brightness:             *req.Brightness,
		ColorTemperatureKelvin: *req.ColorTemperatureKelvin,
		CapturedAt:             capturedAt,
	}, nil
}

func (s *service) resolveCount(requested int) int {
	count := requested
	if count <= 0 {
		count = s.cfg.SuggestCount
	}
	if count < 3 {
		count = 3
	}
	if count > 5 {
		count = 5
	}
	return count
}

func (s *service) pickRoastFallback() string {
	return roastFallbacks[s.randIntn(len(roastFallbacks))]
}

func confidencePercent(points int) string {
	return strconv.Itoa(points) + "%"
}

// decodeImageData accepts bare base64 or a data URL and returns the raw
// bytes plus a MIME type (from the data URL prefix, else sniffed).
func decodeImageData(data string) ([]byte, string, error) {
	trimmed := strings.TrimSpace(data)
	if trimmed == "" {
		return nil, "", apperrors.Wrap("invalid_input", "imageData cannot be empty", nil)
	}

	mimeType := ""
	if strings.HasPrefix(trimmed, "data:") {
		comma := strings.IndexByte(trimmed, ',')
		if comma == -1 {
			return nil, "", apperrors.Wrap("invalid_input", "malformed data URL", nil)
		}
		meta := strings.TrimPrefix(trimmed[:comma], "data:")
		if semi := strings.IndexByte(meta, ';'); semi != -1 {
			meta = meta[:semi]
		}
		mimeType = meta
		trimmed = trimmed[comma+1:]
	}

	trimmed = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, trimmed)

	raw, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		return nil, "", err
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(raw)
	}
	return raw, mimeType, nil
}
