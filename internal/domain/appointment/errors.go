package appointment

import "errors"

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrAppointmentConflict     = errors.New("requested timeslot conflicts with an existing appointment")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrNotReschedulable        = errors.New("only scheduled appointments can be rescheduled")
)
