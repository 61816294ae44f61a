package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/wordblitz/internal/model"
	"github.com/verte-zerg/wordblitz/internal/session"
)

func TestRenderWordMarksOverflow(t *testing.T) {
	out := renderWord("cat", "catsx")
	if got := strings.Count(out, "•"); got != 2 {
		t.Fatalf("expected 2 overflow markers, got %d in %q", got, out)
	}
}

func TestWordDisplayWidth(t *testing.T) {
	if got := wordDisplayWidth("cat", ""); got != 3 {
		t.Fatalf("width = %d, want 3", got)
	}
	if got := wordDisplayWidth("cat", "catsx"); got != 5 {
		t.Fatalf("width with overflow = %d, want 5", got)
	}
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{60, "1:00"},
		{125, "2:05"},
	}
	for _, tc := range cases {
		if got := formatClock(tc.seconds); got != tc.want {
			t.Fatalf("formatClock(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestHeaderShowsModeSegment(t *testing.T) {
	settings := model.Settings{Mode: model.ModeTimed, Difficulty: model.DifficultyMedium, Duration: 60}
	m := NewModel(nil, nil, settings)
	out := m.renderHeader(model.Snapshot{Score: 40, Streak: 2, Multiplier: 1, TimeRemaining: 54})
	for _, want := range []string{"Score 40", "Streak 2", "x1.0", "Time 0:54"} {
		if !strings.Contains(out, want) {
			t.Fatalf("header missing %q: %s", want, out)
		}
	}
}

func TestFooterShowsLastWordScore(t *testing.T) {
	settings := model.Settings{Mode: model.ModeEndless, Difficulty: model.DifficultyMedium}
	m := NewModel(nil, nil, settings)
	m.lastResult = &session.Result{Decided: true, Correct: true, WordScore: 40}
	out := m.renderFooter(model.Snapshot{WPM: 30, Accuracy: 95, TotalWords: 7})
	for _, want := range []string{"30 WPM", "95% accuracy", "7 words", "+40"} {
		if !strings.Contains(out, want) {
			t.Fatalf("footer missing %q: %s", want, out)
		}
	}
}
