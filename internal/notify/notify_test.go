package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/polyscan/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubSender struct {
	name   string
	err    error
	titles []string
	bodies []string
}

func (s *stubSender) Send(_ context.Context, title, message string) error {
	s.titles = append(s.titles, title)
	s.bodies = append(s.bodies, message)
	return s.err
}

func (s *stubSender) Name() string { return s.name }

func sampleSummary(n int) Summary {
	s := Summary{
		RunID:       "run-1",
		Fetched:     1200,
		Qualified:   40,
		InWindow:    n,
		Threshold:   0.95,
		WindowHours: 48,
		FilePath:    "out/scan.xlsx",
	}
	for i := 0; i < n; i++ {
		s.Records = append(s.Records, domain.ReportRecord{
			Question:       "Question " + string(rune('A'+i)),
			CertaintySide:  domain.SideYes,
			YesPrice:       0.97,
			ResolveTime:    "2025-03-10 22:00:00 UTC",
			HoursRemaining: 10,
			URL:            "https://polymarket.com/event/q",
		})
	}
	return s
}

func TestSummaryBodyLimitsRows(t *testing.T) {
	s := sampleSummary(5)

	body := s.Body(2)

	assert.Contains(t, body, "fetched 1200, qualified 40 at >= 0.95, in window 5")
	assert.Contains(t, body, "Question A [YES 0.970]")
	assert.Contains(t, body, "Question B")
	assert.NotContains(t, body, "Question C")
	assert.Contains(t, body, "...and 3 more")
	assert.Equal(t, "Near-certain markets: 5 resolving within 48h", s.Title())
}

func TestNotifierDispatchesToEverySender(t *testing.T) {
	ok := &stubSender{name: "ok"}
	bad := &stubSender{name: "bad", err: errors.New("boom")}
	n := NewNotifier([]Sender{bad, ok}, 3, discardLogger())

	err := n.NotifyScan(context.Background(), sampleSummary(1))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad: boom")
	assert.Len(t, ok.titles, 1, "a failing sender must not block the others")
}

func TestNotifierWithoutSenders(t *testing.T) {
	n := NewNotifier(nil, 3, discardLogger())
	assert.NoError(t, n.NotifyScan(context.Background(), sampleSummary(1)))
}

func TestTelegramSender(t *testing.T) {
	var got map[string]any
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewTelegramSender("tok", "42").WithBaseURL(srv.URL + "/")
	require.NoError(t, s.Send(context.Background(), "title", "body"))

	assert.Equal(t, "/bottok/sendMessage", path)
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "title\nbody", got["text"])
}

func TestTelegramSenderStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "chat not found", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewTelegramSender("tok", "42").WithBaseURL(srv.URL).Send(context.Background(), "t", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 400")
}

func TestDiscordSenderTruncates(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	long := strings.Repeat("x", 5000)
	require.NoError(t, NewDiscordSender(srv.URL).Send(context.Background(), "title", long))

	content, _ := got["content"].(string)
	assert.True(t, strings.HasPrefix(content, "**title**\n"))
	assert.Len(t, []rune(content), discordMaxChars)
}
