package session

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/wordblitz/internal/classify"
	"github.com/verte-zerg/wordblitz/internal/heatmap"
	"github.com/verte-zerg/wordblitz/internal/model"
	"github.com/verte-zerg/wordblitz/internal/words"
)

type stubSource struct {
	words []string
	i     int
}

func (s *stubSource) Next() (string, bool) {
	w := s.words[s.i%len(s.words)]
	s.i++
	return w, false
}

type fakeClock struct {
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Unix(1000, 0)}
}

func (c *fakeClock) now() time.Time {
	return c.current
}

func (c *fakeClock) advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTestEngine(t *testing.T, settings model.Settings, src words.Source, opts ...Option) (*Engine, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	opts = append([]Option{WithClock(clock.now)}, opts...)
	eng := New(settings, src, opts...)
	if err := eng.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	// Ticks are driven manually against the fake clock.
	eng.timers.stop()
	t.Cleanup(eng.Reset)
	return eng, clock
}

func timedSettings(duration int) model.Settings {
	return model.Settings{
		Mode:       model.ModeTimed,
		Difficulty: model.DifficultyMedium,
		Category:   "common",
		Duration:   duration,
	}
}

func TestCorrectWordScoring(t *testing.T) {
	// Typing "the" in 1.0s with no streak: base 30, time bonus 10,
	// no streak bonus, multiplier 1.
	eng, clock := newTestEngine(t, timedSettings(60), &stubSource{words: []string{"the"}})
	clock.advance(time.Second)
	res, err := eng.ProcessInput("the")
	if err != nil {
		t.Fatalf("process input: %v", err)
	}
	if !res.Decided || !res.Correct {
		t.Fatalf("expected a correct commit, got %+v", res)
	}
	if res.WordScore != 40 {
		t.Fatalf("word score = %d, want 40", res.WordScore)
	}
	snap := eng.Snapshot()
	if snap.Score != 40 || snap.Streak != 1 || snap.CorrectWords != 1 || snap.TotalWords != 1 {
		t.Fatalf("unexpected state after commit: %+v", snap)
	}
	if snap.Input != "" {
		t.Fatalf("input should reset on word transition, got %q", snap.Input)
	}
}

func TestTimeBonusClampedToZero(t *testing.T) {
	eng, clock := newTestEngine(t, timedSettings(60), &stubSource{words: []string{"the"}})
	clock.advance(10 * time.Second)
	res, err := eng.ProcessInput("the")
	if err != nil {
		t.Fatalf("process input: %v", err)
	}
	// base 30, time bonus clamped to 0.
	if res.WordScore != 30 {
		t.Fatalf("word score = %d, want 30", res.WordScore)
	}
}

func TestMultiplierSteps(t *testing.T) {
	eng, clock := newTestEngine(t, timedSettings(600), &stubSource{words: []string{"word"}})
	for i := 0; i < 10; i++ {
		clock.advance(time.Second)
		if _, err := eng.ProcessInput("word"); err != nil {
			t.Fatalf("process input %d: %v", i, err)
		}
	}
	snap := eng.Snapshot()
	if snap.Streak != 10 {
		t.Fatalf("streak = %d, want 10", snap.Streak)
	}
	if snap.Multiplier != 1.5 {
		t.Fatalf("multiplier = %v, want 1.5", snap.Multiplier)
	}
}

func TestMultiplierCappedAtFive(t *testing.T) {
	eng, clock := newTestEngine(t, timedSettings(600), &stubSource{words: []string{"word"}})
	prev := 1.0
	for i := 0; i < 120; i++ {
		clock.advance(100 * time.Millisecond)
		if _, err := eng.ProcessInput("word"); err != nil {
			t.Fatalf("process input %d: %v", i, err)
		}
		snap := eng.Snapshot()
		if snap.Multiplier < prev {
			t.Fatalf("multiplier decreased from %v to %v on a correct word", prev, snap.Multiplier)
		}
		if snap.Multiplier < 1 || snap.Multiplier > 5 {
			t.Fatalf("multiplier %v out of range", snap.Multiplier)
		}
		prev = snap.Multiplier
	}
	if prev != 5 {
		t.Fatalf("multiplier = %v after 120 correct words, want cap 5", prev)
	}
}

func TestIncorrectWordResetsCombo(t *testing.T) {
	eng, clock := newTestEngine(t, timedSettings(600), &stubSource{words: []string{"abc"}})
	for i := 0; i < 9; i++ {
		clock.advance(time.Second)
		if _, err := eng.ProcessInput("abc"); err != nil {
			t.Fatalf("process input %d: %v", i, err)
		}
	}
	before := eng.Snapshot()
	if before.Streak != 9 {
		t.Fatalf("streak = %d, want 9", before.Streak)
	}
	res, err := eng.ProcessInput("abx") // equal length, wrong characters
	if err != nil {
		t.Fatalf("process input: %v", err)
	}
	if !res.Decided || res.Correct {
		t.Fatalf("equal-length wrong entry must commit as incorrect, got %+v", res)
	}
	snap := eng.Snapshot()
	if snap.Streak != 0 || snap.Multiplier != 1 {
		t.Fatalf("combo not reset: streak %d multiplier %v", snap.Streak, snap.Multiplier)
	}
	if snap.Mistakes != 1 || snap.TotalWords != 10 || snap.CorrectWords != 9 {
		t.Fatalf("unexpected counters: %+v", snap)
	}
	if snap.Score != before.Score {
		t.Fatalf("incorrect word must not add score")
	}
}

func TestPartialInputIsUndecided(t *testing.T) {
	eng, _ := newTestEngine(t, timedSettings(60), &stubSource{words: []string{"house"}})
	res, err := eng.ProcessInput("hou")
	if err != nil {
		t.Fatalf("process input: %v", err)
	}
	if res.Decided {
		t.Fatalf("mid-word input must not commit")
	}
	snap := eng.Snapshot()
	if snap.TotalWords != 0 || snap.Input != "hou" {
		t.Fatalf("unexpected state: %+v", snap)
	}
}

func TestSkipCommitsIncorrect(t *testing.T) {
	eng, _ := newTestEngine(t, timedSettings(60), &stubSource{words: []string{"house"}})
	if err := eng.Skip(); err != nil {
		t.Fatalf("skip: %v", err)
	}
	snap := eng.Snapshot()
	if snap.TotalWords != 1 || snap.Mistakes != 1 || snap.CorrectWords != 0 {
		t.Fatalf("unexpected counters after skip: %+v", snap)
	}
}

func TestSessionClockEndsGameExactlyOnce(t *testing.T) {
	eng, _ := newTestEngine(t, timedSettings(60), &stubSource{words: []string{"word"}})
	for i := 0; i < 60; i++ {
		eng.tickSecond()
	}
	snap := eng.Snapshot()
	if snap.Phase != model.PhaseOver {
		t.Fatalf("phase = %s, want over", snap.Phase)
	}
	if snap.TimeRemaining != 0 {
		t.Fatalf("time remaining = %d, want 0", snap.TimeRemaining)
	}
	// Further ticks are stale fires and must self-discard.
	eng.tickSecond()
	after := eng.Snapshot()
	if after.TimeRemaining != 0 || after.Phase != model.PhaseOver || after.ElapsedSeconds != snap.ElapsedSeconds {
		t.Fatalf("stale tick mutated an ended session: %+v", after)
	}
}

func TestPauseFreezesClocks(t *testing.T) {
	eng, _ := newTestEngine(t, timedSettings(60), &stubSource{words: []string{"word"}})
	if err := eng.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	before := eng.Snapshot()
	if before.Phase != model.PhasePaused {
		t.Fatalf("phase = %s, want paused", before.Phase)
	}
	for i := 0; i < 10; i++ {
		eng.tickSecond()
		eng.tickWord()
	}
	after := eng.Snapshot()
	if after.TimeRemaining != before.TimeRemaining || after.ElapsedSeconds != before.ElapsedSeconds || after.TotalWords != before.TotalWords {
		t.Fatalf("state changed while paused: %+v vs %+v", before, after)
	}
}

func TestWordProgressSurvivesPause(t *testing.T) {
	eng, clock := newTestEngine(t, timedSettings(60), &stubSource{words: []string{"word"}})
	clock.advance(2 * time.Second)
	if err := eng.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	clock.advance(time.Hour) // paused time must not count
	if err := eng.Pause(); err != nil {
		t.Fatalf("resume: %v", err)
	}
	clock.advance(2 * time.Second)
	eng.tickWord() // 4s total vs 3s medium limit: times out
	snap := eng.Snapshot()
	if snap.Mistakes != 1 || snap.TotalWords != 1 {
		t.Fatalf("expected a timeout skip after resume, got %+v", snap)
	}
}

func TestWordTimeoutSkips(t *testing.T) {
	eng, clock := newTestEngine(t, timedSettings(60), &stubSource{words: []string{"word"}})
	clock.advance(4 * time.Second) // medium limit is 3s
	eng.tickWord()
	snap := eng.Snapshot()
	if snap.TotalWords != 1 || snap.Mistakes != 1 {
		t.Fatalf("expected timeout commit, got %+v", snap)
	}
}

func TestAccuracyAndWpm(t *testing.T) {
	eng, clock := newTestEngine(t, timedSettings(600), &stubSource{words: []string{"ab"}})
	snap := eng.Snapshot()
	if snap.Accuracy != 100 {
		t.Fatalf("accuracy with no words = %d, want 100", snap.Accuracy)
	}
	if snap.WPM != 0 {
		t.Fatalf("wpm with no elapsed time = %d, want 0", snap.WPM)
	}
	for i := 0; i < 2; i++ {
		clock.advance(time.Second)
		if _, err := eng.ProcessInput("ab"); err != nil {
			t.Fatalf("process input: %v", err)
		}
	}
	if err := eng.Skip(); err != nil {
		t.Fatalf("skip: %v", err)
	}
	for i := 0; i < 60; i++ {
		eng.tickSecond()
	}
	snap = eng.Snapshot()
	if snap.Accuracy != 67 {
		t.Fatalf("accuracy = %d, want round(2/3*100) = 67", snap.Accuracy)
	}
	if snap.WPM != 2 {
		t.Fatalf("wpm = %d, want 2 after one elapsed minute", snap.WPM)
	}
}

func TestInvalidTransitionsRejected(t *testing.T) {
	eng := New(timedSettings(60), &stubSource{words: []string{"word"}})
	if _, err := eng.ProcessInput("w"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("process input while idle: err = %v, want ErrInvalidState", err)
	}
	if err := eng.Skip(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("skip while idle: err = %v, want ErrInvalidState", err)
	}
	if err := eng.Pause(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("pause while idle: err = %v, want ErrInvalidState", err)
	}
	if err := eng.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer eng.Reset()
	if err := eng.Start(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("start while running: err = %v, want ErrInvalidState", err)
	}
}

func TestEndIsIdempotent(t *testing.T) {
	eng, _ := newTestEngine(t, timedSettings(60), &stubSource{words: []string{"word"}})
	eng.End()
	eng.End()
	if snap := eng.Snapshot(); snap.Phase != model.PhaseOver {
		t.Fatalf("phase = %s, want over", snap.Phase)
	}
}

func TestResetRestoresIdleDefaults(t *testing.T) {
	eng, clock := newTestEngine(t, timedSettings(60), &stubSource{words: []string{"ab"}})
	clock.advance(time.Second)
	if _, err := eng.ProcessInput("ab"); err != nil {
		t.Fatalf("process input: %v", err)
	}
	eng.Reset()
	snap := eng.Snapshot()
	if snap.Phase != model.PhaseIdle || snap.Score != 0 || snap.TotalWords != 0 || snap.CurrentWord != "" {
		t.Fatalf("reset did not restore defaults: %+v", snap)
	}
}

func TestLivesModeEndsAtZero(t *testing.T) {
	settings := model.Settings{
		Mode:       model.ModeLives,
		Difficulty: model.DifficultyMedium,
		Lives:      2,
	}
	eng, _ := newTestEngine(t, settings, &stubSource{words: []string{"word"}})
	if err := eng.Skip(); err != nil {
		t.Fatalf("skip 1: %v", err)
	}
	if snap := eng.Snapshot(); snap.Lives != 1 || snap.Phase != model.PhaseRunning {
		t.Fatalf("unexpected state after first miss: %+v", snap)
	}
	if err := eng.Skip(); err != nil {
		t.Fatalf("skip 2: %v", err)
	}
	if snap := eng.Snapshot(); snap.Lives != 0 || snap.Phase != model.PhaseOver {
		t.Fatalf("expected game over at zero lives: %+v", snap)
	}
}

func TestCustomTextWrapEndsAfterGraceDelay(t *testing.T) {
	src, err := words.NewCustomTextSource("alpha beta")
	if err != nil {
		t.Fatalf("custom source: %v", err)
	}
	settings := model.Settings{
		Mode:       model.ModeCustom,
		Difficulty: model.DifficultyEasy,
	}
	eng, clock := newTestEngine(t, settings, src, WithGraceDelay(20*time.Millisecond))
	for _, w := range []string{"alpha", "beta"} {
		clock.advance(time.Second)
		if _, err := eng.ProcessInput(w); err != nil {
			t.Fatalf("process input %q: %v", w, err)
		}
	}
	// The wrap fetch happened with the second commit; the end is
	// delayed, not instantaneous.
	if snap := eng.Snapshot(); snap.Phase != model.PhaseRunning {
		t.Fatalf("expected session still running right after wrap, got %s", snap.Phase)
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		if eng.Snapshot().Phase == model.PhaseOver {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("session did not end after the grace delay")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestMismatchesAreClassifiedIncrementally(t *testing.T) {
	log := classify.NewLog(100)
	heat := heatmap.New()
	eng, clock := newTestEngine(t, timedSettings(60), &stubSource{words: []string{"fan"}},
		WithErrorLog(log), WithHeatmap(heat))
	clock.advance(500 * time.Millisecond)
	if _, err := eng.ProcessInput("g"); err != nil {
		t.Fatalf("process input: %v", err)
	}
	if _, err := eng.ProcessInput("ga"); err != nil {
		t.Fatalf("process input: %v", err)
	}
	if log.Len() != 1 {
		t.Fatalf("expected exactly one logged mismatch, got %d", log.Len())
	}
	ev := log.Events()[0]
	if ev.Expected != 'f' || ev.Actual != 'g' || ev.Position != 0 {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.Pattern != classify.FingerSlip {
		t.Fatalf("f typed as g should classify as finger_slip, got %s", ev.Pattern)
	}
	spots := heat.Hotspots(1)
	if len(spots) != 1 || spots[0].Key != 'f' {
		t.Fatalf("expected f hotspot, got %+v", spots)
	}
	_, events := eng.Record()
	if len(events) != 1 || events[0].Pattern != string(classify.FingerSlip) {
		t.Fatalf("record events = %+v", events)
	}
}

func TestWordsTypedHistoryAppends(t *testing.T) {
	eng, clock := newTestEngine(t, timedSettings(60), &stubSource{words: []string{"one", "two"}})
	clock.advance(time.Second)
	if _, err := eng.ProcessInput("one"); err != nil {
		t.Fatalf("process input: %v", err)
	}
	if err := eng.Skip(); err != nil {
		t.Fatalf("skip: %v", err)
	}
	snap := eng.Snapshot()
	if strings.Join(snap.WordsTyped, " ") != "one two" {
		t.Fatalf("history = %v", snap.WordsTyped)
	}
}
