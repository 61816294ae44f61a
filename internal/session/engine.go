// Package session implements the typing session state machine and the
// pair of timers that drive it.
package session

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/wordblitz/internal/classify"
	"github.com/verte-zerg/wordblitz/internal/heatmap"
	"github.com/verte-zerg/wordblitz/internal/model"
	"github.com/verte-zerg/wordblitz/internal/words"
)

// ErrInvalidState reports an operation called in a phase that forbids it.
var ErrInvalidState = errors.New("session: operation not allowed in current phase")

const (
	defaultLives      = 3
	defaultGraceDelay = 1500 * time.Millisecond
)

// Result reports the outcome of a ProcessInput call. Decided is false
// while the user is still mid-word.
type Result struct {
	Decided   bool
	Correct   bool
	Word      string
	TimeTaken float64 // seconds since the word started
	WordScore int
}

// Engine owns all mutable session state. Every mutation happens under
// its lock, triggered either by input calls or by timer fires; timer
// fires re-check the phase and self-discard when the session is no
// longer running.
type Engine struct {
	mu sync.Mutex

	settings model.Settings
	source   words.Source
	log      *classify.Log
	heat     *heatmap.Collector

	id          string
	phase       model.Phase
	currentWord string
	input       string

	score        int
	correctWords int
	totalWords   int
	mistakes     int
	streak       int
	bestStreak   int
	multiplier   float64
	lives        int

	timeRemaining  int
	elapsedSeconds int

	wordsTyped []string
	events     []classify.Event

	wordStart   time.Time
	wordAccrued time.Duration // word progress banked across pauses
	wordLimit   time.Duration
	classified  int // input positions already classified this word

	startedAt    time.Time
	endedAt      time.Time
	graceDelay   time.Duration
	endScheduled bool
	endPending   *time.Timer

	timers *timerPair
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithGraceDelay overrides the delayed-end window used in custom mode.
func WithGraceDelay(d time.Duration) Option {
	return func(e *Engine) { e.graceDelay = d }
}

// WithErrorLog attaches a shared all-time error log.
func WithErrorLog(l *classify.Log) Option {
	return func(e *Engine) { e.log = l }
}

// WithHeatmap attaches a per-key mismatch collector.
func WithHeatmap(h *heatmap.Collector) Option {
	return func(e *Engine) { e.heat = h }
}

// New creates an idle engine for the given settings and word source.
func New(settings model.Settings, source words.Source, opts ...Option) *Engine {
	e := &Engine{
		settings:   settings,
		source:     source,
		phase:      model.PhaseIdle,
		multiplier: 1,
		graceDelay: defaultGraceDelay,
		now:        time.Now,
	}
	e.timers = newTimerPair(e)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start begins a new run. Calling Start while already running is
// rejected with ErrInvalidState.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase == model.PhaseRunning {
		return ErrInvalidState
	}
	e.cancelTimersLocked()
	e.resetStateLocked()
	e.id = uuid.NewString()
	e.phase = model.PhaseRunning
	e.startedAt = e.now()
	e.wordLimit = e.settings.Difficulty.WordLimit()
	switch e.settings.Mode {
	case model.ModeTimed:
		e.timeRemaining = e.settings.Duration
	case model.ModeLives:
		e.lives = e.settings.Lives
		if e.lives <= 0 {
			e.lives = defaultLives
		}
	}
	e.nextWordLocked()
	e.timers.start()
	return nil
}

// Pause toggles between Running and Paused. Word progress is banked on
// pause and resumes from where it left off.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.phase {
	case model.PhaseRunning:
		e.cancelTimersLocked()
		e.wordAccrued += e.now().Sub(e.wordStart)
		e.phase = model.PhasePaused
		return nil
	case model.PhasePaused:
		e.phase = model.PhaseRunning
		e.wordStart = e.now()
		if e.endScheduled {
			e.armDelayedEndLocked()
		}
		e.timers.start()
		return nil
	default:
		return ErrInvalidState
	}
}

// End stops the session. Idempotent; a no-op outside Running/Paused.
func (e *Engine) End() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != model.PhaseRunning && e.phase != model.PhasePaused {
		return
	}
	e.endLocked()
}

// Reset returns the session to Idle defaults.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelTimersLocked()
	e.resetStateLocked()
	e.phase = model.PhaseIdle
}

// ProcessInput records the in-progress entry and commits the word when
// the entry is complete. Equality is checked before length, so a wrong
// entry of equal length counts as an explicit incorrect word.
func (e *Engine) ProcessInput(text string) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != model.PhaseRunning {
		return Result{}, ErrInvalidState
	}
	e.input = text
	e.classifyNewLocked(text)
	elapsed := e.wordElapsedLocked().Seconds()
	word := e.currentWord
	if text == e.currentWord {
		score := e.commitCorrectLocked(elapsed)
		return Result{Decided: true, Correct: true, Word: word, TimeTaken: elapsed, WordScore: score}, nil
	}
	if len([]rune(text)) >= len([]rune(e.currentWord)) {
		e.commitIncorrectLocked()
		return Result{Decided: true, Word: word, TimeTaken: elapsed}, nil
	}
	return Result{Word: word, TimeTaken: elapsed}, nil
}

// Skip commits the current word as incorrect regardless of input.
func (e *Engine) Skip() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != model.PhaseRunning {
		return ErrInvalidState
	}
	e.commitIncorrectLocked()
	return nil
}

// Snapshot returns a read-only view of the current state.
func (e *Engine) Snapshot() model.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	history := make([]string, len(e.wordsTyped))
	copy(history, e.wordsTyped)
	return model.Snapshot{
		Phase:          e.phase,
		CurrentWord:    e.currentWord,
		Input:          e.input,
		Score:          e.score,
		CorrectWords:   e.correctWords,
		TotalWords:     e.totalWords,
		Mistakes:       e.mistakes,
		Streak:         e.streak,
		BestStreak:     e.bestStreak,
		Multiplier:     e.multiplier,
		TimeRemaining:  e.timeRemaining,
		ElapsedSeconds: e.elapsedSeconds,
		Lives:          e.lives,
		WordsTyped:     history,
		Accuracy:       e.accuracyLocked(),
		WPM:            e.wpmLocked(),
	}
}

// Record returns the persistable session record and its error events.
func (e *Engine) Record() (model.SessionRecord, []model.ErrorEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ended := e.endedAt
	if ended.IsZero() {
		ended = e.now()
	}
	rec := model.SessionRecord{
		ID:           e.id,
		StartedAt:    e.startedAt,
		EndedAt:      ended,
		Mode:         e.settings.Mode,
		Difficulty:   e.settings.Difficulty,
		Category:     e.settings.Category,
		Score:        e.score,
		CorrectWords: e.correctWords,
		TotalWords:   e.totalWords,
		Mistakes:     e.mistakes,
		BestStreak:   e.bestStreak,
		DurationMs:   ended.Sub(e.startedAt).Milliseconds(),
	}
	events := make([]model.ErrorEvent, 0, len(e.events))
	for _, ev := range e.events {
		events = append(events, model.ErrorEvent{
			Expected:        string(ev.Expected),
			Actual:          string(ev.Actual),
			Word:            ev.Word,
			Position:        ev.Position,
			TimeSinceWordMs: ev.TimeSinceWordStart.Milliseconds(),
			Pattern:         string(ev.Pattern),
		})
	}
	return rec, events
}

// tickSecond advances the session clock. Fires that arrive after a
// phase change discard themselves.
func (e *Engine) tickSecond() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != model.PhaseRunning {
		return
	}
	e.elapsedSeconds++
	if e.settings.Mode != model.ModeTimed {
		return
	}
	if e.timeRemaining > 0 {
		e.timeRemaining--
	}
	if e.timeRemaining <= 0 {
		e.timeRemaining = 0
		e.endLocked()
	}
}

// tickWord enforces the per-word time limit.
func (e *Engine) tickWord() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != model.PhaseRunning {
		return
	}
	if e.wordLimit <= 0 {
		return
	}
	if e.wordElapsedLocked() >= e.wordLimit {
		e.commitIncorrectLocked()
	}
}

func (e *Engine) commitCorrectLocked(timeTaken float64) int {
	base := len([]rune(e.currentWord)) * 10
	timeBonus := int(math.Round((3 - timeTaken) * 5))
	if timeBonus < 0 {
		timeBonus = 0
	}
	streakBonus := (e.streak / 5) * 50
	wordScore := int(math.Round(float64(base+timeBonus+streakBonus) * e.multiplier))
	e.score += wordScore
	e.streak++
	if e.streak > e.bestStreak {
		e.bestStreak = e.streak
	}
	e.multiplier = math.Min(5, 1+float64(e.streak/10)*0.5)
	e.correctWords++
	e.totalWords++
	e.wordsTyped = append(e.wordsTyped, e.currentWord)
	e.nextWordLocked()
	return wordScore
}

// A single miss fully resets the combo: accuracy strictly dominates
// raw speed in the scoring curve.
func (e *Engine) commitIncorrectLocked() {
	e.totalWords++
	e.mistakes++
	e.streak = 0
	e.multiplier = 1
	e.wordsTyped = append(e.wordsTyped, e.currentWord)
	if e.settings.Mode == model.ModeLives {
		e.lives--
		if e.lives <= 0 {
			e.lives = 0
			e.endLocked()
			return
		}
	}
	e.nextWordLocked()
}

func (e *Engine) nextWordLocked() {
	word, wrapped := e.source.Next()
	e.currentWord = word
	e.input = ""
	e.classified = 0
	e.wordStart = e.now()
	e.wordAccrued = 0
	if wrapped && e.totalWords > 0 && !e.endScheduled {
		e.endScheduled = true
		e.armDelayedEndLocked()
	}
}

// armDelayedEndLocked schedules the custom-text delayed end. The delay
// lets the final word's feedback render before the run closes.
func (e *Engine) armDelayedEndLocked() {
	if e.endPending != nil {
		return
	}
	e.endPending = time.AfterFunc(e.graceDelay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.endPending = nil
		if e.phase != model.PhaseRunning {
			return
		}
		e.endLocked()
	})
}

// endLocked cancels both timers before any other mutation so that no
// tick can fire into a just-ended session.
func (e *Engine) endLocked() {
	e.cancelTimersLocked()
	e.phase = model.PhaseOver
	e.endedAt = e.now()
}

func (e *Engine) cancelTimersLocked() {
	e.timers.stop()
	if e.endPending != nil {
		e.endPending.Stop()
		e.endPending = nil
	}
}

func (e *Engine) resetStateLocked() {
	e.id = ""
	e.currentWord = ""
	e.input = ""
	e.score = 0
	e.correctWords = 0
	e.totalWords = 0
	e.mistakes = 0
	e.streak = 0
	e.bestStreak = 0
	e.multiplier = 1
	e.lives = 0
	e.timeRemaining = 0
	e.elapsedSeconds = 0
	e.wordsTyped = nil
	e.events = nil
	e.classified = 0
	e.wordAccrued = 0
	e.startedAt = time.Time{}
	e.endedAt = time.Time{}
	e.endScheduled = false
}

func (e *Engine) classifyNewLocked(text string) {
	in := []rune(text)
	target := []rune(e.currentWord)
	if e.classified > len(in) {
		// Backspace shrank the input; re-observe from the new end.
		e.classified = len(in)
	}
	limit := len(in)
	if len(target) < limit {
		limit = len(target)
	}
	since := e.wordElapsedLocked()
	for i := e.classified; i < limit; i++ {
		if in[i] == target[i] {
			continue
		}
		ev := classify.Event{
			Expected:           target[i],
			Actual:             in[i],
			Word:               e.currentWord,
			Position:           i,
			TimeSinceWordStart: since,
			Pattern:            classify.Classify(target[i], in[i], since.Seconds()),
		}
		e.events = append(e.events, ev)
		if e.log != nil {
			e.log.Append(ev)
		}
		if e.heat != nil {
			e.heat.Record(ev)
		}
	}
	if limit > e.classified {
		e.classified = limit
	}
}

func (e *Engine) wordElapsedLocked() time.Duration {
	if e.phase != model.PhaseRunning {
		return e.wordAccrued
	}
	return e.wordAccrued + e.now().Sub(e.wordStart)
}

func (e *Engine) accuracyLocked() int {
	if e.totalWords == 0 {
		return 100
	}
	return int(math.Round(float64(e.correctWords) / float64(e.totalWords) * 100))
}

func (e *Engine) wpmLocked() int {
	minutes := float64(e.elapsedSeconds) / 60
	if minutes <= 0 {
		return 0
	}
	return int(math.Round(float64(e.correctWords) / minutes))
}
