package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gotouchgrass/api/internal/domain/notify"
	"github.com/gotouchgrass/api/internal/domain/verification"
	"github.com/gotouchgrass/api/internal/infra/config"
	apperrors "github.com/gotouchgrass/api/pkg/errors"
)

func TestRouter_Health(t *testing.T) {
	recorder := performGet("/health", newRouterUnderTest(t, &stubVerifier{}, &stubNotifier{}))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Equal(t, "alive", body["status"])
	require.Equal(t, "not configured", body["gemini"])
	require.Equal(t, "not configured", body["sendgrid"])
}

func TestRouter_RoastSuccess(t *testing.T) {
	verifier := &stubVerifier{
		roastFn: func(ctx context.Context, req verification.RoastRequest) (verification.RoastResult, error) {
			require.Equal(t, "Dana", req.UserName)
			require.Equal(t, 12, req.HoursIndoor)
			return verification.RoastResult{Roast: "Go outside."}, nil
		},
	}

	recorder := performRequest("/verify/roast", `{"userName":"Dana","hoursIndoor":12}`, newRouterUnderTest(t, verifier, &stubNotifier{}))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Equal(t, "Go outside.", body["roast"])
	require.NotContains(t, body, "fallback")
}

func TestRouter_RoastFallbackKey(t *testing.T) {
	verifier := &stubVerifier{
		roastFn: func(context.Context, verification.RoastRequest) (verification.RoastResult, error) {
			return verification.RoastResult{Roast: "canned line", Fallback: true}, nil
		},
	}

	recorder := performRequest("/verify/roast", `{}`, newRouterUnderTest(t, verifier, &stubNotifier{}))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Equal(t, "canned line", body["fallback"])
	require.NotContains(t, body, "roast")
}

func TestRouter_RoastInvalidJSON(t *testing.T) {
	recorder := performRequest("/verify/roast", `{"hoursIndoor":"twelve"}`, newRouterUnderTest(t, &stubVerifier{}, &stubNotifier{}))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	body := decodeErrorBody(t, recorder.Body.Bytes())
	require.NotEmpty(t, body["error"])
}

func TestRouter_SuggestActivitiesJoinsLines(t *testing.T) {
	verifier := &stubVerifier{
		suggestFn: func(ctx context.Context, req verification.SuggestRequest) (verification.SuggestionResult, error) {
			require.Equal(t, "Lisbon", req.City)
			return verification.SuggestionResult{Activities: []string{"Walk the shore", "Fly a kite"}}, nil
		},
	}

	recorder := performRequest("/suggest/activities", `{"city":"Lisbon"}`, newRouterUnderTest(t, verifier, &stubNotifier{}))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Equal(t, "Walk the shore\nFly a kite", body["activities"])
}

func TestRouter_VerifyImageReturnsVerdict(t *testing.T) {
	verdict := verification.Verdict{
		Verified:   true,
		Confidence: "high",
		Message:    "Looks legit, grass detected!",
		Reasons:    []string{"grass visible"},
		AIAnalysis: "a lawn",
	}
	verifier := &stubVerifier{
		verifyImageFn: func(context.Context, verification.ImageRequest) (verification.Verdict, error) {
			return verdict, nil
		},
	}

	recorder := performRequest("/verify/image", `{"imageData":"aGVsbG8="}`, newRouterUnderTest(t, verifier, &stubNotifier{}))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got verification.Verdict
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, verdict, got)
}

func TestRouter_VerifyImageInvalidInput(t *testing.T) {
	verifier := &stubVerifier{
		verifyImageFn: func(context.Context, verification.ImageRequest) (verification.Verdict, error) {
			return verification.Verdict{}, apperrors.Wrap("invalid_input", "imageData cannot be empty", nil)
		},
	}

	recorder := performRequest("/verify/image", `{"imageData":""}`, newRouterUnderTest(t, verifier, &stubNotifier{}))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	body := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "imageData cannot be empty", body["error"])
}

func TestRouter_VerifyMetadata(t *testing.T) {
	verifier := &stubVerifier{
		verifyMetadataFn: func(ctx context.Context, req verification.MetadataRequest) (verification.MetadataVerdict, error) {
			require.NotNil(t, req.Brightness)
			require.Equal(t, 150, *req.Brightness)
			return verification.MetadataVerdict{
				Verified:   true,
				Score:      80,
				Confidence: "80%",
				Reasons:    []string{"Brightness looks outdoor-appropriate"},
				AIAnalysis: "AI analysis unavailable",
				Message:    "Looks legit! You touched grass!",
			}, nil
		},
	}

	payload := `{"brightness":150,"colorTemperatureKelvin":6000,"capturedAt":"2025-06-14T14:00:00Z"}`
	recorder := performRequest("/verify/metadata", payload, newRouterUnderTest(t, verifier, &stubNotifier{}))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got verification.MetadataVerdict
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.True(t, got.Verified)
	require.Equal(t, 80, got.Score)
	require.Equal(t, "80%", got.Confidence)
}

func TestRouter_NotifyContactsEmptyList(t *testing.T) {
	notifier := &stubNotifier{
		sendFn: func(context.Context, notify.Request) (notify.Result, error) {
			return notify.Result{}, apperrors.Wrap("invalid_input", "No contacts provided", nil)
		},
	}

	recorder := performRequest("/notify/contacts", `{"userName":"Kim","contacts":[]}`, newRouterUnderTest(t, &stubVerifier{}, notifier))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	body := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "No contacts provided", body["error"])
}

func TestRouter_NotifyContactsSuccess(t *testing.T) {
	notifier := &stubNotifier{
		sendFn: func(_ context.Context, req notify.Request) (notify.Result, error) {
			require.Len(t, req.Contacts, 1)
			return notify.Result{
				Success: true,
				Message: "Processed 1 contact(s)",
				Results: []notify.ContactResult{{Email: "ana@example.com", Success: true}},
			}, nil
		},
	}

	recorder := performRequest("/notify/contacts", `{"userName":"Kim","contacts":[{"name":"Ana","email":"ana@example.com"}]}`, newRouterUnderTest(t, &stubVerifier{}, notifier))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got notify.Result
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.True(t, got.Success)
	require.Len(t, got.Results, 1)
	require.True(t, got.Results[0].Success)
}

func TestRouter_UnknownRoute(t *testing.T) {
	recorder := performRequest("/nope", `{}`, newRouterUnderTest(t, &stubVerifier{}, &stubNotifier{}))
	require.Equal(t, http.StatusNotFound, recorder.Code)

	body := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "route not found", body["error"])
}

func TestRouter_RateLimitExceeded(t *testing.T) {
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:        ":0",
			AllowedOrigins: []string{"*"},
			RateLimit: config.RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 1,
				Burst:             1,
			},
		},
	}
	handler := NewHandler(&stubVerifier{}, &stubNotifier{}, cfg, newTestLogger())
	server := NewRouter(cfg, handler)

	require.Equal(t, http.StatusOK, performGet("/health", server).Code)

	recorder := performGet("/health", server)
	require.Equal(t, http.StatusTooManyRequests, recorder.Code)
	body := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "too many requests", body["error"])
}

func TestRouter_RequestIDHeaderEchoed(t *testing.T) {
	server := newRouterUnderTest(t, &stubVerifier{}, &stubNotifier{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "trace-123")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, "trace-123", rec.Header().Get(requestIDHeader))

	rec = performGet("/health", server)
	require.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func performRequest(path, body string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func performGet(path string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, verifier verification.Service, notifier notify.Service) *http.Server {
	t.Helper()
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:        ":0",
			ReadTimeout:    time.Second,
			WriteTimeout:   time.Second,
			AllowedOrigins: []string{"*"},
		},
	}
	handler := NewHandler(verifier, notifier, cfg, newTestLogger())
	return NewRouter(cfg, handler)
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubVerifier struct {
	roastFn          func(ctx context.Context, req verification.RoastRequest) (verification.RoastResult, error)
	suggestFn        func(ctx context.Context, req verification.SuggestRequest) (verification.SuggestionResult, error)
	verifyImageFn    func(ctx context.Context, req verification.ImageRequest) (verification.Verdict, error)
	verifyMetadataFn func(ctx context.Context, req verification.MetadataRequest) (verification.MetadataVerdict, error)
}

func (s *stubVerifier) Roast(ctx context.Context, req verification.RoastRequest) (verification.RoastResult, error) {
	if s.roastFn != nil {
		return s.roastFn(ctx, req)
	}
	return verification.RoastResult{}, nil
}

func (s *stubVerifier) SuggestActivities(ctx context.Context, req verification.SuggestRequest) (verification.SuggestionResult, error) {
	if s.suggestFn != nil {
		return s.suggestFn(ctx, req)
	}
	return verification.SuggestionResult{}, nil
}

func (s *stubVerifier) VerifyImage(ctx context.Context, req verification.ImageRequest) (verification.Verdict, error) {
	if s.verifyImageFn != nil {
		return s.verifyImageFn(ctx, req)
	}
	return verification.Verdict{}, nil
}

func (s *stubVerifier) VerifyMetadata(ctx context.Context, req verification.MetadataRequest) (verification.MetadataVerdict, error) {
	if s.verifyMetadataFn != nil {
		return s.verifyMetadataFn(ctx, req)
	}
	return verification.MetadataVerdict{}, nil
}

type stubNotifier struct {
	sendFn func(ctx context.Context, req notify.Request) (notify.Result, error)
}

func (s *stubNotifier) SendReports(ctx context.Context, req notify.Request) (notify.Result, error) {
	if s.sendFn != nil {
		return s.sendFn(ctx, req)
	}
	return notify.Result{}, nil
}
