// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Phase is the lifecycle stage of a session.
type Phase int

// Session phases, in lifecycle order.
const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhasePaused
	PhaseOver
)

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseOver:
		return "over"
	default:
		return "unknown"
	}
}

// Mode selects how a session ends.
type Mode string

// Supported game modes.
const (
	ModeTimed   Mode = "timed"
	ModeEndless Mode = "endless"
	ModeLives   Mode = "lives"
	ModeCustom  Mode = "custom"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeTimed:
		return ModeTimed, nil
	case ModeEndless:
		return ModeEndless, nil
	case ModeLives:
		return ModeLives, nil
	case ModeCustom:
		return ModeCustom, nil
	default:
		return "", fmt.Errorf("unknown mode %q (timed, endless, lives, custom)", s)
	}
}

// Difficulty controls word selection and the per-word time limit.
type Difficulty string

// Supported difficulties.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty validates a difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case DifficultyEasy:
		return DifficultyEasy, nil
	case DifficultyMedium:
		return DifficultyMedium, nil
	case DifficultyHard:
		return DifficultyHard, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (easy, medium, hard)", s)
	}
}

// WordLimit returns the time budget for a single word.
func (d Difficulty) WordLimit() time.Duration {
	switch d {
	case DifficultyEasy:
		return 5 * time.Second
	case DifficultyHard:
		return 2 * time.Second
	default:
		return 3 * time.Second
	}
}

// LengthBand returns the word-length range used by the generator.
func (d Difficulty) LengthBand() (minLen, maxLen int) {
	switch d {
	case DifficultyEasy:
		return 3, 5
	case DifficultyHard:
		return 8, 32
	default:
		return 5, 8
	}
}

// Settings configures a session.
type Settings struct {
	Mode       Mode
	Difficulty Difficulty
	Category   string
	Duration   int // seconds, timed mode
	Lives      int // starting lives, lives mode
}

// Snapshot is a read-only view of session state for rendering.
type Snapshot struct {
	Phase          Phase
	CurrentWord    string
	Input          string
	Score          int
	CorrectWords   int
	TotalWords     int
	Mistakes       int
	Streak         int
	BestStreak     int
	Multiplier     float64
	TimeRemaining  int
	ElapsedSeconds int
	Lives          int
	WordsTyped     []string
	Accuracy       int // percentage, 100 when no words yet
	WPM            int
}

// SessionRecord captures a finished session for persistence.
type SessionRecord struct {
	ID           string
	StartedAt    time.Time
	EndedAt      time.Time
	Mode         Mode
	Difficulty   Difficulty
	Category     string
	Score        int
	CorrectWords int
	TotalWords   int
	Mistakes     int
	BestStreak   int
	DurationMs   int64
}

// ErrorEvent is a persisted keystroke mismatch.
type ErrorEvent struct {
	Expected        string
	Actual          string
	Word            string
	Position        int
	TimeSinceWordMs int64
	Pattern         string
}

// StatsConfig defines filters for stats output.
type StatsConfig struct {
	Mode  string
	Since *time.Time
	Last  int
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID    string
	EndedAt      time.Time
	Score        int
	CorrectWords int
	TotalWords   int
	Mistakes     int
	DurationMs   int64
}

// PatternCount aggregates error events by classification.
type PatternCount struct {
	Pattern string
	Count   int
}

// KeyErrorCount aggregates error events by expected key.
type KeyErrorCount struct {
	Key   string
	Count int
}
