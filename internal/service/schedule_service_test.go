package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dmehra2102/prod-golang-projects/caresched/internal/domain/schedule"
)

func mondaySlots(slots ...schedule.Slot) []schedule.DaySchedule {
	return []schedule.DaySchedule{{Day: schedule.Monday, Slots: slots}}
}

func (e *testEnv) upsertMondaySchedule(t *testing.T, slots ...schedule.Slot) {
	t.Helper()
	_, err := e.schedSvc.UpsertSchedule(context.Background(), &schedule.UpsertScheduleCommand{
		DoctorID: e.doctorID,
		Weekly:   mondaySlots(slots...),
		ActorID:  e.actorID,
	}, "doctor", "")
	if err != nil {
		t.Fatalf("upsert schedule: %v", err)
	}
}

func TestUpsertScheduleReplacesTemplate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.upsertMondaySchedule(t, schedule.Slot{Start: "09:00", End: "12:00"})
	env.upsertMondaySchedule(t, schedule.Slot{Start: "14:00", End: "17:00"})

	got, err := env.schedSvc.GetSchedule(ctx, env.doctorID)
	if err != nil {
		t.Fatalf("get schedule: %v", err)
	}
	day := got.DayFor(schedule.Monday)
	if day == nil || len(day.Slots) != 1 || day.Slots[0].Start != "14:00" {
		t.Fatalf("upsert did not fully replace template: %+v", got.Weekly)
	}
	if got.UpdatedBy == nil || *got.UpdatedBy != env.actorID {
		t.Fatal("expected acting user to be recorded")
	}
}

func TestUpsertScheduleValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		cmd  *schedule.UpsertScheduleCommand
	}{
		{"missing doctor", &schedule.UpsertScheduleCommand{
			Weekly:  mondaySlots(schedule.Slot{Start: "09:00", End: "12:00"}),
			ActorID: env.actorID,
		}},
		{"empty template", &schedule.UpsertScheduleCommand{
			DoctorID: env.doctorID,
			ActorID:  env.actorID,
		}},
		{"overlapping slots", &schedule.UpsertScheduleCommand{
			DoctorID: env.doctorID,
			Weekly: mondaySlots(
				schedule.Slot{Start: "09:00", End: "12:00"},
				schedule.Slot{Start: "11:00", End: "13:00"},
			),
			ActorID: env.actorID,
		}},
		{"reversed slot", &schedule.UpsertScheduleCommand{
			DoctorID: env.doctorID,
			Weekly:   mondaySlots(schedule.Slot{Start: "12:00", End: "09:00"}),
			ActorID:  env.actorID,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.schedSvc.UpsertSchedule(ctx, tt.cmd, "doctor", "")
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("got %v, want ValidationError", err)
			}
		})
	}
}

func TestGetScheduleNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.schedSvc.GetSchedule(context.Background(), uuid.New())
	if !errors.Is(err, schedule.ErrScheduleNotFound) {
		t.Fatalf("got %v, want ErrScheduleNotFound", err)
	}
}

func TestCheckSlot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.upsertMondaySchedule(t, schedule.Slot{Start: "09:00", End: "12:00"})

	tests := []struct {
		name          string
		start, end    string
		wantAvailable bool
		wantReason    string
	}{
		{"inside slot", "10:00", "10:30", true, ReasonAvailable},
		{"before working hours", "08:00", "08:30", false, ReasonOutsideHours},
		{"crosses slot end", "11:30", "12:30", false, ReasonOutsideHours},
		{"exact slot bounds", "09:00", "12:00", true, ReasonAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := env.schedSvc.CheckSlot(ctx, env.doctorID, monday, tt.start, tt.end)
			if err != nil {
				t.Fatalf("check slot: %v", err)
			}
			if res.Available != tt.wantAvailable || res.Reason != tt.wantReason {
				t.Fatalf("got (%v, %s), want (%v, %s)", res.Available, res.Reason, tt.wantAvailable, tt.wantReason)
			}
		})
	}
}

func TestCheckSlotNoSchedule(t *testing.T) {
	env := newTestEnv(t)
	res, err := env.schedSvc.CheckSlot(context.Background(), uuid.New(), monday, "10:00", "10:30")
	if err != nil {
		t.Fatalf("check slot: %v", err)
	}
	if res.Available || res.Reason != ReasonNoSchedule {
		t.Fatalf("got (%v, %s), want (false, %s)", res.Available, res.Reason, ReasonNoSchedule)
	}
}

func TestCheckSlotNonWorkingDay(t *testing.T) {
	env := newTestEnv(t)
	env.upsertMondaySchedule(t, schedule.Slot{Start: "09:00", End: "12:00"})

	tuesday := monday.AddDate(0, 0, 1)
	res, err := env.schedSvc.CheckSlot(context.Background(), env.doctorID, tuesday, "10:00", "10:30")
	if err != nil {
		t.Fatalf("check slot: %v", err)
	}
	if res.Available || res.Reason != ReasonNonWorkingDay {
		t.Fatalf("got (%v, %s), want (false, %s)", res.Available, res.Reason, ReasonNonWorkingDay)
	}
}

func TestCheckSlotReportsBookedConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.upsertMondaySchedule(t, schedule.Slot{Start: "09:00", End: "12:00"})

	booked, err := env.apptSvc.CreateAppointment(ctx, env.createCmd(mondayAt(10, 0), mondayAt(11, 0)), "admin", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	res, err := env.schedSvc.CheckSlot(ctx, env.doctorID, monday, "10:30", "11:00")
	if err != nil {
		t.Fatalf("check slot: %v", err)
	}
	if res.Available || res.Reason != ReasonBooked {
		t.Fatalf("got (%v, %s), want (false, %s)", res.Available, res.Reason, ReasonBooked)
	}
	if res.Conflict == nil || res.Conflict.ID != booked.ID {
		t.Fatal("expected the booked appointment as evidence")
	}

	// A free window within the same slot is still available.
	free, err := env.schedSvc.CheckSlot(ctx, env.doctorID, monday, "11:00", "11:30")
	if err != nil {
		t.Fatalf("check slot: %v", err)
	}
	if !free.Available {
		t.Fatalf("got (%v, %s), want available", free.Available, free.Reason)
	}
}

func TestCheckSlotNormalizesDateToUTC(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.upsertMondaySchedule(t, schedule.Slot{Start: "09:00", End: "12:00"})

	// Same instant as the Monday anchor, expressed in a zone where the
	// local calendar day is still Sunday.
	local := monday.In(time.FixedZone("UTC-10", -10*60*60))

	res, err := env.schedSvc.CheckSlot(ctx, env.doctorID, local, "10:00", "10:30")
	if err != nil {
		t.Fatalf("check slot: %v", err)
	}
	if !res.Available || res.Reason != ReasonAvailable {
		t.Fatalf("got (%v, %s), want available", res.Available, res.Reason)
	}

	// The conflict probe is anchored to the same UTC day.
	booked, err := env.apptSvc.CreateAppointment(ctx, env.createCmd(mondayAt(10, 0), mondayAt(10, 30)), "admin", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	res, err = env.schedSvc.CheckSlot(ctx, env.doctorID, local, "10:00", "10:30")
	if err != nil {
		t.Fatalf("check slot: %v", err)
	}
	if res.Available || res.Reason != ReasonBooked || res.Conflict == nil || res.Conflict.ID != booked.ID {
		t.Fatalf("got (%v, %s), want booked with evidence", res.Available, res.Reason)
	}
}

func TestCheckSlotRejectsMalformedTimes(t *testing.T) {
	env := newTestEnv(t)
	env.upsertMondaySchedule(t, schedule.Slot{Start: "09:00", End: "12:00"})

	for _, tc := range [][2]string{{"10:00", "bogus"}, {"26:00", "27:00"}, {"11:00", "10:00"}} {
		_, err := env.schedSvc.CheckSlot(context.Background(), env.doctorID, monday, tc[0], tc[1])
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("CheckSlot(%s, %s): got %v, want ValidationError", tc[0], tc[1], err)
		}
	}
}
