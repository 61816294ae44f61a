// Package classify maps keystroke mismatches to ergonomic error patterns.
package classify

// Pattern categorizes the probable ergonomic cause of a mismatch.
type Pattern string

// Known error patterns.
const (
	FingerSlip      Pattern = "finger_slip"
	FingerConfusion Pattern = "finger_confusion"
	Timing          Pattern = "timing"
	Visual          Pattern = "visual"
	MuscleMemory    Pattern = "muscle_memory"
	KeyboardLayout  Pattern = "keyboard_layout"
)

// Severity ranks how disruptive a pattern is to overall accuracy.
type Severity int

// Severity tiers, least to most disruptive.
const (
	SeverityMinor Severity = iota
	SeverityModerate
	SeverityMajor
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityMinor:
		return "minor"
	case SeverityModerate:
		return "moderate"
	case SeverityMajor:
		return "major"
	default:
		return "unknown"
	}
}

// Info carries the static reference data attached to a pattern.
type Info struct {
	Severity    Severity
	Remediation string
}

var patternInfos = map[Pattern]Info{
	FingerSlip: {
		Severity:    SeverityMinor,
		Remediation: "Slow down slightly and strike each key in its center.",
	},
	FingerConfusion: {
		Severity:    SeverityModerate,
		Remediation: "Drill the confused key pair with deliberate finger placement.",
	},
	Timing: {
		Severity:    SeverityModerate,
		Remediation: "Keep a steady rhythm instead of bursting faster than you can control.",
	},
	Visual: {
		Severity:    SeverityMajor,
		Remediation: "Read the whole word before typing and keep your eyes on the text.",
	},
	MuscleMemory: {
		Severity:    SeverityModerate,
		Remediation: "Retype the word slowly until the motion becomes automatic.",
	},
	KeyboardLayout: {
		Severity:    SeverityMajor,
		Remediation: "Check that your keyboard layout matches the one you practice on.",
	},
}

// Info returns the severity and remediation for a pattern. Unknown
// patterns report the muscle-memory defaults.
func (p Pattern) Info() Info {
	if info, ok := patternInfos[p]; ok {
		return info
	}
	return patternInfos[MuscleMemory]
}

// Patterns returns all known patterns in severity-then-name order.
func Patterns() []Pattern {
	return []Pattern{FingerSlip, FingerConfusion, Timing, MuscleMemory, Visual, KeyboardLayout}
}
