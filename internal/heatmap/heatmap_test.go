package heatmap

import (
	"testing"

	"github.com/verte-zerg/wordblitz/internal/classify"
)

func TestHotspotsOrderedByWeight(t *testing.T) {
	c := New()
	// Two minor slips on f, one major visual miss on a.
	c.Record(classify.Event{Expected: 'f', Pattern: classify.FingerSlip})
	c.Record(classify.Event{Expected: 'F', Pattern: classify.FingerSlip})
	c.Record(classify.Event{Expected: 'a', Pattern: classify.Visual})

	spots := c.Hotspots(0)
	if len(spots) != 2 {
		t.Fatalf("expected 2 hotspots, got %d", len(spots))
	}
	if spots[0].Key != 'a' || spots[0].Weighted != 3 || spots[0].Count != 1 {
		t.Fatalf("unexpected first hotspot: %+v", spots[0])
	}
	if spots[1].Key != 'f' || spots[1].Count != 2 || spots[1].Weighted != 2 {
		t.Fatalf("uppercase expected chars must fold into the lowercase key: %+v", spots[1])
	}
}

func TestHotspotsLimit(t *testing.T) {
	c := New()
	for _, r := range "abc" {
		c.Record(classify.Event{Expected: r, Pattern: classify.MuscleMemory})
	}
	if got := len(c.Hotspots(2)); got != 2 {
		t.Fatalf("expected 2 hotspots with limit, got %d", got)
	}
}

func TestReset(t *testing.T) {
	c := New()
	c.Record(classify.Event{Expected: 'x', Pattern: classify.Timing})
	c.Reset()
	if got := len(c.Hotspots(0)); got != 0 {
		t.Fatalf("expected empty collector after reset, got %d", got)
	}
}
