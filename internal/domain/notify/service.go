package notify

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	apperrors "github.com/gotouchgrass/api/pkg/errors"
)

// Service fans a shame report out to accountability contacts, one send per
// contact, sequentially, collecting a per-contact result.
type Service interface {
	SendReports(ctx context.Context, req Request) (Result, error)
}

type service struct {
	sender   EmailSender
	logger   *slog.Logger
	randIntn func(n int) int
}

// NewService wires up the notify domain. Shame-line selection uses the
// shared package-level random source so concurrent fanouts do not race.
func NewService(sender EmailSender, logger *slog.Logger) Service {
	return &service{
		sender:   sender,
		logger:   logger.With("component", "notify.service"),
		randIntn: rand.Intn,
	}
}

var shameLines = []func(userName string, daysIndoor int) string{
	func(userName string, _ int) string {
		return fmt.Sprintf("%s still hasn't touched grass. They're one with the Wi-Fi now.", userName)
	},
	func(userName string, daysIndoor int) string {
		return fmt.Sprintf("Day %d of %s's indoor marathon. Their vitamin D has filed a missing person report.", daysIndoor, userName)
	},
	func(userName string, daysIndoor int) string {
		return fmt.Sprintf("%s's shadow filed for unemployment. It hasn't worked in %d days.", userName, daysIndoor)
	},
}

func (s *service) SendReports(ctx context.Context, req Request) (Result, error) {
	if len(req.Contacts) == 0 {
		return Result{}, apperrors.Wrap("invalid_input", "No contacts provided", nil)
	}

	userName := strings.TrimSpace(req.UserName)
	if userName == "" {
		userName = "Your friend"
	}

	results := make([]ContactResult, 0, len(req.Contacts))
	for _, contact := range req.Contacts {
		result := ContactResult{Email: contact.Email}

		roast := shameLines[s.randIntn(len(shameLines))](userName, req.DaysIndoor)
		msg := Message{
			To:       contact.Email,
			ToName:   contact.Name,
			Subject:  fmt.Sprintf("GoTouchGrass Alert: %s Update", userName),
			HTMLBody: reportHTML(userName, roast),
			TextBody: roast,
		}

		err := s.sender.Send(ctx, msg)
		switch {
		case err == nil:
			result.Success = true
		case apperrors.IsCode(err, "email_unconfigured"):
			s.logger.Info("email provider not configured, send skipped", "to", contact.Email)
			result.Skipped = true
		default:
			s.logger.Warn("shame email failed", "to", contact.Email, "error", err)
			result.Error = err.Error()
		}
		results = append(results, result)
	}

	return Result{
		Success: true,
		Message: fmt.Sprintf("Processed %d contact(s)", len(req.Contacts)),
		Results: results,
	}, nil
}

func reportHTML(userName, roast string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; padding: 20px;">
  <h2 style="color: #10b981;">GoTouchGrass Accountability Report</h2>
  <p style="font-size: 16px;">%s</p>
  <p style="color: #666; margin-top: 30px;">
    You're receiving this because %s asked you to help keep them accountable.
  </p>
</div>`, roast, userName)
}
