// Package keyboard models QWERTY key positions for distance-based
// reasoning about typing mistakes.
package keyboard

import (
	"math"
	"unicode"
)

// Finger identifies which finger strikes a key in touch typing.
type Finger int

// Fingers, left to right across the keyboard.
const (
	LeftPinky Finger = iota
	LeftRing
	LeftMiddle
	LeftIndex
	RightIndex
	RightMiddle
	RightRing
	RightPinky
	Thumb
)

// String returns a short finger label.
func (f Finger) String() string {
	switch f {
	case LeftPinky:
		return "left-pinky"
	case LeftRing:
		return "left-ring"
	case LeftMiddle:
		return "left-middle"
	case LeftIndex:
		return "left-index"
	case RightIndex:
		return "right-index"
	case RightMiddle:
		return "right-middle"
	case RightRing:
		return "right-ring"
	case RightPinky:
		return "right-pinky"
	case Thumb:
		return "thumb"
	default:
		return "unknown"
	}
}

// Key is a physical key position on the layout grid.
type Key struct {
	Row    int
	Col    int
	Finger Finger
}

// Rows of the physical QWERTY layout, top to bottom. Each row string is
// paired with the finger assignment for the same column index.
var layoutRows = []struct {
	keys    string
	fingers []Finger
}{
	{
		keys: "`1234567890-=",
		fingers: []Finger{
			LeftPinky, LeftPinky, LeftRing, LeftMiddle, LeftIndex, LeftIndex,
			RightIndex, RightIndex, RightMiddle, RightRing, RightPinky, RightPinky, RightPinky,
		},
	},
	{
		keys: `qwertyuiop[]\`,
		fingers: []Finger{
			LeftPinky, LeftRing, LeftMiddle, LeftIndex, LeftIndex,
			RightIndex, RightIndex, RightMiddle, RightRing, RightPinky, RightPinky, RightPinky, RightPinky,
		},
	},
	{
		keys: "asdfghjkl;'",
		fingers: []Finger{
			LeftPinky, LeftRing, LeftMiddle, LeftIndex, LeftIndex,
			RightIndex, RightIndex, RightMiddle, RightRing, RightPinky, RightPinky,
		},
	},
	{
		keys: "zxcvbnm,./",
		fingers: []Finger{
			LeftPinky, LeftRing, LeftMiddle, LeftIndex, LeftIndex,
			RightIndex, RightIndex, RightMiddle, RightRing, RightPinky,
		},
	},
}

const homeKeySet = "asdfjkl;"

var layout = buildLayout()

func buildLayout() map[rune]Key {
	table := make(map[rune]Key, 64)
	for row, r := range layoutRows {
		for col, ch := range r.keys {
			table[ch] = Key{Row: row, Col: col, Finger: r.fingers[col]}
		}
	}
	// Space sits below the letter rows, struck by either thumb.
	table[' '] = Key{Row: len(layoutRows), Col: 5, Finger: Thumb}
	return table
}

// Lookup returns the key position for a character. Uppercase letters
// map to their lowercase key.
func Lookup(r rune) (Key, bool) {
	k, ok := layout[unicode.ToLower(r)]
	return k, ok
}

// FingerFor returns the touch-typing finger for a character.
func FingerFor(r rune) (Finger, bool) {
	k, ok := Lookup(r)
	return k.Finger, ok
}

// Manhattan returns |Δrow| + |Δcol| between two keys.
func Manhattan(a, b Key) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

// Euclidean returns the straight-line grid distance between two keys.
func Euclidean(a, b Key) float64 {
	dr := float64(a.Row - b.Row)
	dc := float64(a.Col - b.Col)
	return math.Sqrt(dr*dr + dc*dc)
}

// HomeKeys returns the home-row resting keys.
func HomeKeys() []rune {
	return []rune(homeKeySet)
}

// IsHomeKey reports whether a character is a home-row resting key.
func IsHomeKey(r rune) bool {
	lower := unicode.ToLower(r)
	for _, h := range homeKeySet {
		if h == lower {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
