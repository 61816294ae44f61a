// Package heatmap aggregates keystroke mismatches per expected key.
package heatmap

import (
	"sort"
	"sync"
	"unicode"

	"github.com/verte-zerg/wordblitz/internal/classify"
)

// Collector counts mismatches per expected key, both raw and weighted
// by the classified pattern's severity.
type Collector struct {
	mu       sync.Mutex
	counts   map[rune]int
	weighted map[rune]int
}

// New creates an empty collector.
func New() *Collector {
	return &Collector{
		counts:   map[rune]int{},
		weighted: map[rune]int{},
	}
}

// Record adds one classified mismatch.
func (c *Collector) Record(ev classify.Event) {
	key := unicode.ToLower(ev.Expected)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[key]++
	c.weighted[key] += severityWeight(ev.Pattern.Info().Severity)
}

// Hotspot pairs a key with its mismatch counts.
type Hotspot struct {
	Key      rune
	Count    int
	Weighted int
}

// Hotspots returns the top n keys ordered by weighted count, then key.
func (c *Collector) Hotspots(n int) []Hotspot {
	c.mu.Lock()
	spots := make([]Hotspot, 0, len(c.counts))
	for key, count := range c.counts {
		spots = append(spots, Hotspot{Key: key, Count: count, Weighted: c.weighted[key]})
	}
	c.mu.Unlock()

	sort.Slice(spots, func(i, j int) bool {
		if spots[i].Weighted == spots[j].Weighted {
			return spots[i].Key < spots[j].Key
		}
		return spots[i].Weighted > spots[j].Weighted
	})
	if n > 0 && n < len(spots) {
		spots = spots[:n]
	}
	return spots
}

// Reset clears all counts.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts = map[rune]int{}
	c.weighted = map[rune]int{}
}

func severityWeight(s classify.Severity) int {
	switch s {
	case classify.SeverityMajor:
		return 3
	case classify.SeverityModerate:
		return 2
	default:
		return 1
	}
}
