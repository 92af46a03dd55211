package sendgridmail

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/gotouchgrass/api/internal/domain/notify"
	apperrors "github.com/gotouchgrass/api/pkg/errors"
)

// Client delivers messages through SendGrid. Fire-and-forget per contact;
// the notify service decides what a failure means.
type Client struct {
	sg          *sendgrid.Client
	senderEmail string
	senderName  string
	logger      *slog.Logger
}

// NewClient constructs the adapter. A missing API key is tolerated; sends
// then fail with email_unconfigured so contacts are reported as skipped.
func NewClient(apiKey, senderEmail, senderName string, logger *slog.Logger) *Client {
	c := &Client{
		senderEmail: strings.TrimSpace(senderEmail),
		senderName:  strings.TrimSpace(senderName),
		logger:      logger.With("component", "email.sendgrid"),
	}
	if strings.TrimSpace(apiKey) != "" {
		c.sg = sendgrid.NewSendClient(strings.TrimSpace(apiKey))
	}
	return c
}

// Send delivers one message.
func (c *Client) Send(ctx context.Context, msg notify.Message) error {
	if c.sg == nil || c.senderEmail == "" {
		return apperrors.Wrap("email_unconfigured", "sendgrid credentials not configured", nil)
	}

	from := mail.NewEmail(c.senderName, c.senderEmail)
	to := mail.NewEmail(msg.ToName, msg.To)
	email := mail.NewSingleEmail(from, msg.Subject, to, msg.TextBody, msg.HTMLBody)

	resp, err := c.sg.SendWithContext(ctx, email)
	if err != nil {
		return apperrors.Wrap("email_error", "sendgrid request failed", err)
	}
	if resp.StatusCode >= 300 {
		return apperrors.Wrap("email_error", fmt.Sprintf("sendgrid rejected message: status=%d body=%s", resp.StatusCode, resp.Body), nil)
	}
	c.logger.Debug("shame email accepted", "to", msg.To, "status", resp.StatusCode)
	return nil
}

var _ notify.EmailSender = (*Client)(nil)
