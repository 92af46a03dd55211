package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gotouchgrass/api/internal/domain/notify"
	"github.com/gotouchgrass/api/internal/domain/verification"
	"github.com/gotouchgrass/api/internal/infra/config"
	apperrors "github.com/gotouchgrass/api/pkg/errors"
)

// Handler wires the HTTP transport to the domain services.
type Handler struct {
	verifySvc verification.Service
	notifySvc notify.Service
	cfg       *config.Config
	logger    *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(verifySvc verification.Service, notifySvc notify.Service, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		verifySvc: verifySvc,
		notifySvc: notifySvc,
		cfg:       cfg,
		logger:    logger.With("component", "http.handler"),
	}
}

// Health reports liveness plus which upstream credentials are present,
// mirroring what the service logs at boot.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "alive",
		"gemini":   configuredLabel(h.cfg.LLM.APIKey),
		"sendgrid": configuredLabel(h.cfg.Email.APIKey),
	})
}

// Roast returns a model roast or a canned fallback; it never fails on
// upstream trouble.
func (h *Handler) Roast(c *gin.Context) {
	var req verification.RoastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	result, err := h.verifySvc.Roast(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, httpErrorFor(err, "roast_failed"))
		return
	}

	if result.Fallback {
		c.JSON(http.StatusOK, gin.H{"fallback": result.Roast})
		return
	}
	c.JSON(http.StatusOK, gin.H{"roast": result.Roast})
}

// SuggestActivities returns a newline-joined activity list.
func (h *Handler) SuggestActivities(c *gin.Context) {
	var req verification.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	result, err := h.verifySvc.SuggestActivities(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, httpErrorFor(err, "suggest_failed"))
		return
	}

	joined := strings.Join(result.Activities, "\n")
	if result.Fallback {
		c.JSON(http.StatusOK, gin.H{"fallback": joined})
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": joined})
}

// VerifyImage returns the Verdict for a captured photo.
func (h *Handler) VerifyImage(c *gin.Context) {
	var req verification.ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	verdict, err := h.verifySvc.VerifyImage(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, httpErrorFor(err, "verify_failed"))
		return
	}

	c.JSON(http.StatusOK, verdict)
}

// VerifyMetadata returns the scored verdict for numeric photo signals.
func (h *Handler) VerifyMetadata(c *gin.Context) {
	var req verification.MetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	verdict, err := h.verifySvc.VerifyMetadata(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, httpErrorFor(err, "verify_failed"))
		return
	}

	c.JSON(http.StatusOK, verdict)
}

// NotifyContacts fans the shame report out to the accountability contacts.
func (h *Handler) NotifyContacts(c *gin.Context) {
	var req notify.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	result, err := h.notifySvc.SendReports(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, httpErrorFor(err, "notify_failed"))
		return
	}

	c.JSON(http.StatusOK, result)
}

func httpErrorFor(err error, code string) *HTTPError {
	status := http.StatusInternalServerError
	if apperrors.IsCode(err, "invalid_input") {
		status = http.StatusBadRequest
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

func configuredLabel(credential string) string {
	if strings.TrimSpace(credential) == "" {
		return "not configured"
	}
	return "connected"
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
