package notify

import (
	"fmt"
	"strings"

	"github.com/alanyoungcy/polyscan/internal/domain"
)

// Summary is the chat-facing digest of one scan run.
type Summary struct {
	RunID       string
	Fetched     int
	Qualified   int
	InWindow    int
	Threshold   float64
	WindowHours float64
	FilePath    string
	Records     []domain.ReportRecord // sorted by resolve time
}

// Title returns the message headline.
func (s Summary) Title() string {
	return fmt.Sprintf("Near-certain markets: %d resolving within %gh", s.InWindow, s.WindowHours)
}

// Body lists the counts and at most maxRows records.
func (s Summary) Body(maxRows int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "fetched %d, qualified %d at >= %.2f, in window %d\n",
		s.Fetched, s.Qualified, s.Threshold, s.InWindow)
	if s.FilePath != "" {
		fmt.Fprintf(&b, "report: %s\n", s.FilePath)
	}
	if s.RunID != "" {
		fmt.Fprintf(&b, "run: %s\n", s.RunID)
	}

	shown := s.Records
	if maxRows >= 0 && len(shown) > maxRows {
		shown = shown[:maxRows]
	}
	for _, r := range shown {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s [%s %.3f] %s (%.1fh)",
			r.Question, r.CertaintySide, r.YesPrice, r.ResolveTime, r.HoursRemaining)
		if r.URL != "" {
			fmt.Fprintf(&b, " %s", r.URL)
		}
	}
	if more := len(s.Records) - len(shown); more > 0 {
		fmt.Fprintf(&b, "\n\n...and %d more", more)
	}
	return b.String()
}

// truncate cuts s to at most limit runes.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
