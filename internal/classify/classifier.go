package classify

import (
	"time"

	"github.com/verte-zerg/wordblitz/internal/keyboard"
)

// Classify maps a single keystroke mismatch to an error pattern. The
// rules are ordered and the first match wins: the adjacency and finger
// rules overlap the timing and distance rules in range, so reordering
// them changes results.
func Classify(expected, actual rune, timeTakenSeconds float64) Pattern {
	expectedKey, okExpected := keyboard.Lookup(expected)
	actualKey, okActual := keyboard.Lookup(actual)
	if !okExpected || !okActual {
		return Visual
	}
	distance := keyboard.Manhattan(expectedKey, actualKey)
	if distance == 1 {
		return FingerSlip
	}
	if expectedKey.Finger != actualKey.Finger && distance <= 2 {
		return FingerConfusion
	}
	if timeTakenSeconds < 0.1 {
		return Timing
	}
	if distance > 3 {
		return Visual
	}
	return MuscleMemory
}

// Event records one classified keystroke mismatch. Immutable once
// created.
type Event struct {
	Expected           rune
	Actual             rune
	Word               string
	Position           int
	TimeSinceWordStart time.Duration
	Pattern            Pattern
}
