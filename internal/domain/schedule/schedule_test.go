package schedule

import (
	"errors"
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	d, err := ParseClock("09:30")
	if err != nil {
		t.Fatalf("ParseClock(09:30): %v", err)
	}
	if want := 9*time.Hour + 30*time.Minute; d != want {
		t.Errorf("ParseClock(09:30) = %v, want %v", d, want)
	}

	for _, bad := range []string{"9:30am", "25:00", "nope", ""} {
		if _, err := ParseClock(bad); !errors.Is(err, ErrInvalidSlot) {
			t.Errorf("ParseClock(%q): got %v, want ErrInvalidSlot", bad, err)
		}
	}
}

func TestSlotValidate(t *testing.T) {
	if err := (Slot{Start: "09:00", End: "12:00"}).Validate(); err != nil {
		t.Errorf("valid slot rejected: %v", err)
	}
	if err := (Slot{Start: "12:00", End: "09:00"}).Validate(); !errors.Is(err, ErrInvalidSlot) {
		t.Errorf("reversed slot: got %v, want ErrInvalidSlot", err)
	}
	if err := (Slot{Start: "09:00", End: "09:00"}).Validate(); !errors.Is(err, ErrInvalidSlot) {
		t.Errorf("empty slot: got %v, want ErrInvalidSlot", err)
	}
}

func TestSlotContainsRange(t *testing.T) {
	slot := Slot{Start: "09:00", End: "12:00"}

	tests := []struct {
		start, end string
		want       bool
	}{
		{"10:00", "10:30", true},
		{"09:00", "12:00", true},
		{"08:00", "08:30", false},
		{"11:30", "12:30", false},
	}
	for _, tt := range tests {
		start, _ := ParseClock(tt.start)
		end, _ := ParseClock(tt.end)
		if got := slot.ContainsRange(start, end); got != tt.want {
			t.Errorf("ContainsRange(%s, %s) = %v, want %v", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestSlotOverlapsSlot(t *testing.T) {
	a := Slot{Start: "09:00", End: "12:00"}
	if !a.OverlapsSlot(Slot{Start: "11:00", End: "13:00"}) {
		t.Error("expected overlap for 11:00-13:00")
	}
	// Touching slots do not overlap.
	if a.OverlapsSlot(Slot{Start: "12:00", End: "14:00"}) {
		t.Error("back-to-back slots should not overlap")
	}
}

func TestWeekdayOf(t *testing.T) {
	// 2026-03-02 is a Monday.
	if got := WeekdayOf(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)); got != Monday {
		t.Errorf("WeekdayOf = %s, want monday", got)
	}
	if got := WeekdayOf(time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)); got != Sunday {
		t.Errorf("WeekdayOf = %s, want sunday", got)
	}
}

func TestValidateWeekly(t *testing.T) {
	ok := []DaySchedule{
		{Day: Monday, Slots: []Slot{{Start: "09:00", End: "12:00"}, {Start: "13:00", End: "17:00"}}},
		{Day: Friday, Slots: []Slot{{Start: "09:00", End: "13:00"}}},
	}
	if problems := ValidateWeekly(ok); len(problems) != 0 {
		t.Fatalf("valid template rejected: %v", problems)
	}

	tests := []struct {
		name   string
		weekly []DaySchedule
	}{
		{"unknown day", []DaySchedule{{Day: "funday", Slots: []Slot{{Start: "09:00", End: "10:00"}}}}},
		{"duplicate day", []DaySchedule{
			{Day: Monday, Slots: []Slot{{Start: "09:00", End: "10:00"}}},
			{Day: Monday, Slots: []Slot{{Start: "11:00", End: "12:00"}}},
		}},
		{"bad slot", []DaySchedule{{Day: Monday, Slots: []Slot{{Start: "10:00", End: "09:00"}}}}},
		{"overlapping slots", []DaySchedule{{Day: Monday, Slots: []Slot{
			{Start: "09:00", End: "12:00"},
			{Start: "11:00", End: "14:00"},
		}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if problems := ValidateWeekly(tt.weekly); len(problems) == 0 {
				t.Error("expected validation problems, got none")
			}
		})
	}
}

func TestDayFor(t *testing.T) {
	s := &Schedule{Weekly: []DaySchedule{
		{Day: Monday, Slots: []Slot{{Start: "09:00", End: "12:00"}}},
	}}
	if day := s.DayFor(Monday); day == nil || len(day.Slots) != 1 {
		t.Fatal("expected monday entry with one slot")
	}
	if day := s.DayFor(Tuesday); day != nil {
		t.Fatal("expected nil for a day without slots")
	}
}
