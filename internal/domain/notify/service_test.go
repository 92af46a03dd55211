package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/gotouchgrass/api/pkg/errors"
)

type stubSender struct {
	sendFn func(ctx context.Context, msg Message) error

	mu   sync.Mutex
	sent []Message
}

func (s *stubSender) Send(ctx context.Context, msg Message) error {
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()
	if s.sendFn != nil {
		return s.sendFn(ctx, msg)
	}
	return nil
}

func newServiceUnderTest(t *testing.T, sender EmailSender) *service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(sender, logger).(*service)
	svc.randIntn = func(int) int { return 0 }
	return svc
}

func TestSendReports_EmptyContactsRejected(t *testing.T) {
	svc := newServiceUnderTest(t, &stubSender{})

	_, err := svc.SendReports(context.Background(), Request{UserName: "Kim"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_input"))
	require.Contains(t, err.Error(), "No contacts provided")
}

func TestSendReports_AllSucceed(t *testing.T) {
	sender := &stubSender{}
	svc := newServiceUnderTest(t, sender)

	result, err := svc.SendReports(context.Background(), Request{
		UserName:   "Kim",
		DaysIndoor: 4,
		Contacts: []Contact{
			{Name: "Ana", Email: "ana@example.com"},
			{Name: "Bo", Email: "bo@example.com"},
		},
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "Processed 2 contact(s)", result.Message)
	require.Len(t, result.Results, 2)
	for _, r := range result.Results {
		require.True(t, r.Success)
		require.False(t, r.Skipped)
		require.Empty(t, r.Error)
	}

	require.Len(t, sender.sent, 2)
	require.Equal(t, "GoTouchGrass Alert: Kim Update", sender.sent[0].Subject)
	require.Contains(t, sender.sent[0].HTMLBody, "Kim")
	require.Contains(t, sender.sent[0].HTMLBody, "Accountability Report")
}

func TestSendReports_PartialFailureContinues(t *testing.T) {
	sender := &stubSender{
		sendFn: func(_ context.Context, msg Message) error {
			if msg.To == "bad@example.com" {
				return errors.New("mailbox full")
			}
			return nil
		},
	}
	svc := newServiceUnderTest(t, sender)

	result, err := svc.SendReports(context.Background(), Request{
		UserName: "Kim",
		Contacts: []Contact{
			{Email: "good@example.com"},
			{Email: "bad@example.com"},
			{Email: "also-good@example.com"},
		},
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Len(t, result.Results, 3)
	require.True(t, result.Results[0].Success)
	require.Equal(t, "mailbox full", result.Results[1].Error)
	require.False(t, result.Results[1].Success)
	require.True(t, result.Results[2].Success)
}

func TestSendReports_UnconfiguredSenderSkips(t *testing.T) {
	sender := &stubSender{
		sendFn: func(context.Context, Message) error {
			return apperrors.Wrap("email_unconfigured", "sendgrid api key not set", nil)
		},
	}
	svc := newServiceUnderTest(t, sender)

	result, err := svc.SendReports(context.Background(), Request{
		Contacts: []Contact{{Email: "ana@example.com"}},
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.True(t, result.Results[0].Skipped)
	require.False(t, result.Results[0].Success)
	require.Empty(t, result.Results[0].Error)
}

func TestSendReports_ConcurrentFanoutsAreSafe(t *testing.T) {
	// Uses the default random source rather than the injected stub;
	// concurrent shame-line picks must not race on shared state.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(&stubSender{}, logger)

	req := Request{
		UserName:   "Kim",
		DaysIndoor: 4,
		Contacts:   []Contact{{Name: "Ana", Email: "ana@example.com"}},
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				result, err := svc.SendReports(context.Background(), req)
				require.NoError(t, err)
				require.True(t, result.Success)
			}
		}()
	}
	wg.Wait()
}

func TestSendReports_BlankUserNameDefaults(t *testing.T) {
	sender := &stubSender{}
	svc := newServiceUnderTest(t, sender)

	_, err := svc.SendReports(context.Background(), Request{
		UserName: "   ",
		Contacts: []Contact{{Email: "ana@example.com"}},
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	require.True(t, strings.Contains(sender.sent[0].Subject, "Your friend"))
	require.Contains(t, sender.sent[0].TextBody, "Your friend")
}
