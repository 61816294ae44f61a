// Package words supplies target words for typing sessions.
package words

// Source produces the next target word. wrapped reports that a cyclic
// source has looped back to its first word; generator-backed sources
// never wrap.
type Source interface {
	Next() (word string, wrapped bool)
}
