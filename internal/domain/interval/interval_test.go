package interval

import (
	"errors"
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2026, time.March, 2, hour, min, 0, 0, time.UTC)
}

func mustNew(t *testing.T, start, end time.Time) Interval {
	t.Helper()
	iv, err := New(start, end)
	if err != nil {
		t.Fatalf("New(%v, %v): %v", start, end, err)
	}
	return iv
}

func TestNewRejectsInvalidRange(t *testing.T) {
	if _, err := New(at(10, 0), at(10, 0)); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("zero-length interval: got %v, want ErrInvalidInterval", err)
	}
	if _, err := New(at(11, 0), at(10, 0)); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("reversed interval: got %v, want ErrInvalidInterval", err)
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical", mustNew(t, at(9, 0), at(10, 0)), mustNew(t, at(9, 0), at(10, 0)), true},
		{"partial overlap", mustNew(t, at(9, 0), at(10, 0)), mustNew(t, at(9, 30), at(10, 30)), true},
		{"contained", mustNew(t, at(9, 0), at(12, 0)), mustNew(t, at(10, 0), at(10, 30)), true},
		{"back to back", mustNew(t, at(9, 0), at(9, 30)), mustNew(t, at(9, 30), at(10, 0)), false},
		{"disjoint", mustNew(t, at(9, 0), at(9, 30)), mustNew(t, at(11, 0), at(11, 30)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("a.Overlaps(b) = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric.
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("b.Overlaps(a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	outer := mustNew(t, at(9, 0), at(12, 0))

	tests := []struct {
		name  string
		inner Interval
		want  bool
	}{
		{"strictly inside", mustNew(t, at(10, 0), at(10, 30)), true},
		{"equal bounds", mustNew(t, at(9, 0), at(12, 0)), true},
		{"starts before", mustNew(t, at(8, 0), at(8, 30)), false},
		{"crosses end", mustNew(t, at(11, 30), at(12, 30)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.Contains(tt.inner); got != tt.want {
				t.Errorf("Contains = %v, want %v", got, tt.want)
			}
		})
	}
}
