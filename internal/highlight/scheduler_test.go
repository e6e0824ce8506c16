package highlight

import (
	"slices"
	"testing"
)

func TestSchedulerCorrection(t *testing.T) {
	tests := []struct {
		name     string
		last     int
		ev       Event
		wantLast int
		wantBias int
	}{
		{"insert after scan", 8, Event{10, 5}, 8, 0},
		{"insert at scan", 8, Event{8, 5}, 8, 0},
		{"insert before scan", 8, Event{3, 4}, 12, 4},
		{"delete before scan", 8, Event{3, -2}, 6, -2},
		{"delete ending at scan", 8, Event{5, -3}, 5, -3},
		{"delete swallowing scan", 8, Event{5, -6}, 5, -3},
		{"delete at scan", 8, Event{8, -4}, 8, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScheduler()
			s.Begin(tt.last)
			s.Edit(tt.ev)
			if s.LastPosition() != tt.wantLast {
				t.Errorf("LastPosition() = %d, want %d", s.LastPosition(), tt.wantLast)
			}
			if s.Bias() != tt.wantBias {
				t.Errorf("Bias() = %d, want %d", s.Bias(), tt.wantBias)
			}
		})
	}
}

// An edit past the scan needs no correction; a later deletion before it
// pulls lastPosition back.
func TestSchedulerEditsDuringScan(t *testing.T) {
	s := NewScheduler()
	s.Begin(8)

	s.Edit(Event{Position: 10, Delta: 5})
	if s.LastPosition() != 8 || s.Bias() != 0 {
		t.Fatalf("after +5@10: last = %d, bias = %d, want 8, 0", s.LastPosition(), s.Bias())
	}

	s.Edit(Event{Position: 3, Delta: -2})
	if s.LastPosition() != 6 || s.Bias() != -2 {
		t.Fatalf("after -2@3: last = %d, bias = %d, want 6, -2", s.LastPosition(), s.Bias())
	}

	want := []Damage{{8, 13}, {3, 5}}
	if got := s.PendingDamage(); !slices.Equal(got, want) {
		t.Errorf("PendingDamage() = %v, want %v", got, want)
	}
}

func TestSchedulerIdleEditsAreNotCorrected(t *testing.T) {
	s := NewScheduler()
	s.Edit(Event{Position: 0, Delta: 4})
	if s.InFlight() || s.Bias() != 0 || s.LastPosition() != 0 {
		t.Errorf("idle scheduler corrected: inFlight = %v, bias = %d, last = %d", s.InFlight(), s.Bias(), s.LastPosition())
	}
}

func TestSchedulerZeroDelta(t *testing.T) {
	s := NewScheduler()
	if s.Edit(Event{Position: 3, Delta: 0}) {
		t.Error("Edit() queued a zero-delta event")
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", s.Pending())
	}
}

func TestSchedulerFIFO(t *testing.T) {
	s := NewScheduler()
	s.Edit(Event{Position: 10, Delta: 2})
	s.Edit(Event{Position: 0, Delta: 3})
	s.Schedule(Damage{Pos: 0, End: 20})

	var got []Damage
	for {
		d, ok := s.Next()
		if !ok {
			break
		}
		got = append(got, d)
	}
	want := []Damage{{13, 15}, {0, 3}, {0, 20}}
	if !slices.Equal(got, want) {
		t.Errorf("Next() order = %v, want %v", got, want)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d after draining", s.Pending())
	}
}

func TestSchedulerFinish(t *testing.T) {
	s := NewScheduler()
	s.Begin(4)
	s.Edit(Event{Position: 0, Delta: 1})
	s.Finish()
	if s.InFlight() || s.Bias() != 0 || s.LastPosition() != 0 {
		t.Errorf("Finish() left inFlight = %v, bias = %d, last = %d", s.InFlight(), s.Bias(), s.LastPosition())
	}
}

func TestDamageTranslate(t *testing.T) {
	tests := []struct {
		name string
		d    Damage
		ev   Event
		want Damage
	}{
		{"insert before", Damage{5, 8}, Event{2, 3}, Damage{8, 11}},
		{"insert inside", Damage{5, 8}, Event{6, 3}, Damage{5, 11}},
		{"insert at end", Damage{5, 8}, Event{8, 3}, Damage{5, 8}},
		{"insert at start", Damage{5, 8}, Event{5, 3}, Damage{5, 11}},
		{"delete before", Damage{5, 8}, Event{1, -2}, Damage{3, 6}},
		{"delete covering", Damage{5, 8}, Event{4, -10}, Damage{4, 4}},
		{"delete overlapping end", Damage{5, 8}, Event{6, -4}, Damage{5, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.Translate(tt.ev); got != tt.want {
				t.Errorf("%v.Translate(%v) = %v, want %v", tt.d, tt.ev, got, tt.want)
			}
		})
	}
}

func TestEventString(t *testing.T) {
	if got := (Event{Position: 4, Delta: 3}).String(); got != "+3@4" {
		t.Errorf("String() = %q", got)
	}
	if got := (Event{Position: 4, Delta: -3}).String(); got != "-3@4" {
		t.Errorf("String() = %q", got)
	}
	if got := DamageOf(Event{Position: 4, Delta: -3}); got != (Damage{4, 7}) {
		t.Errorf("DamageOf() = %v, want [4,7)", got)
	}
}
