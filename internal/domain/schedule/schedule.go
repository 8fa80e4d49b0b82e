package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

func (w Weekday) IsValid() bool {
	switch w {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

// WeekdayOf maps a calendar date to the template's weekday key.
func WeekdayOf(t time.Time) Weekday {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

const clockLayout = "15:04"

// ParseClock parses a zero-padded 24-hour "HH:MM" wall-clock time into
// an offset from midnight.
func ParseClock(v string) (time.Duration, error) {
	t, err := time.Parse(clockLayout, v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a valid HH:MM time", ErrInvalidSlot, v)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// Slot is a recurring availability window within one weekday. Times are
// day-relative "HH:MM" strings; they get combined with a calendar date
// at availability-check time.
type Slot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (s Slot) Validate() error {
	start, err := ParseClock(s.Start)
	if err != nil {
		return err
	}
	end, err := ParseClock(s.End)
	if err != nil {
		return err
	}
	if end <= start {
		return fmt.Errorf("%w: slot %s-%s must end after it starts", ErrInvalidSlot, s.Start, s.End)
	}
	return nil
}

// ContainsRange reports whether [start, end) lies fully inside the slot.
// Inputs must already be validated clock times.
func (s Slot) ContainsRange(start, end time.Duration) bool {
	slotStart, err := ParseClock(s.Start)
	if err != nil {
		return false
	}
	slotEnd, err := ParseClock(s.End)
	if err != nil {
		return false
	}
	return slotStart <= start && end <= slotEnd
}

// OverlapsSlot reports whether two validated slots share any time of day.
func (s Slot) OverlapsSlot(o Slot) bool {
	aStart, _ := ParseClock(s.Start)
	aEnd, _ := ParseClock(s.End)
	bStart, _ := ParseClock(o.Start)
	bEnd, _ := ParseClock(o.End)
	return aStart < bEnd && aEnd > bStart
}

type DaySchedule struct {
	Day   Weekday `json:"day"`
	Slots []Slot  `json:"slots"`
}

// Schedule is a doctor's recurring weekly availability template. Exactly
// one row per doctor; upserts replace the whole template.
type Schedule struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	DoctorID uuid.UUID     `gorm:"column:doctor_id;type:uuid;not null;uniqueIndex"`
	Weekly   []DaySchedule `gorm:"column:weekly;serializer:json"`

	CreatedBy uuid.UUID  `gorm:"column:created_by;type:uuid;not null"`
	UpdatedBy *uuid.UUID `gorm:"column:updated_by;type:uuid"`
}

func (Schedule) TableName() string {
	return "clinical.doctor_schedules"
}

// DayFor returns the template entry for the given weekday, or nil when
// the doctor has no slots that day.
func (s *Schedule) DayFor(day Weekday) *DaySchedule {
	for i := range s.Weekly {
		if s.Weekly[i].Day == day {
			return &s.Weekly[i]
		}
	}
	return nil
}

// ValidateWeekly checks a full template: known weekday names, no
// duplicate day entries, well-formed slots, and no overlapping slots
// within a day. Returns one message per problem found.
func ValidateWeekly(weekly []DaySchedule) []string {
	var problems []string
	seen := make(map[Weekday]bool, len(weekly))

	for _, ds := range weekly {
		if !ds.Day.IsValid() {
			problems = append(problems, fmt.Sprintf("unknown weekday %q", ds.Day))
			continue
		}
		if seen[ds.Day] {
			problems = append(problems, fmt.Sprintf("duplicate entry for %s", ds.Day))
			continue
		}
		seen[ds.Day] = true

		valid := make([]Slot, 0, len(ds.Slots))
		for _, slot := range ds.Slots {
			if err := slot.Validate(); err != nil {
				problems = append(problems, fmt.Sprintf("%s: %v", ds.Day, err))
				continue
			}
			valid = append(valid, slot)
		}

		for i := 0; i < len(valid); i++ {
			for j := i + 1; j < len(valid); j++ {
				if valid[i].OverlapsSlot(valid[j]) {
					problems = append(problems, fmt.Sprintf(
						"%s: slot %s-%s overlaps slot %s-%s",
						ds.Day, valid[i].Start, valid[i].End, valid[j].Start, valid[j].End))
				}
			}
		}
	}

	return problems
}

type UpsertScheduleCommand struct {
	DoctorID uuid.UUID
	Weekly   []DaySchedule
	ActorID  uuid.UUID
}
