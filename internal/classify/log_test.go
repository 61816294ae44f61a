package classify

import "testing"

func TestLogEvictsOldestAtCap(t *testing.T) {
	log := NewLog(3)
	for i := 0; i < 5; i++ {
		log.Append(Event{Position: i, Pattern: MuscleMemory})
	}
	events := log.Events()
	if len(events) != 3 {
		t.Fatalf("expected 3 events after eviction, got %d", len(events))
	}
	for i, e := range events {
		if e.Position != i+2 {
			t.Fatalf("expected oldest-first eviction, got positions %v", events)
		}
	}
}

func TestLogDefaultCapacity(t *testing.T) {
	log := NewLog(0)
	log.Append(Event{Pattern: FingerSlip})
	if log.Len() != 1 {
		t.Fatalf("expected 1 event, got %d", log.Len())
	}
}
