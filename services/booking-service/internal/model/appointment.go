package model

import (
	"time"

	"github.com/apimastery/appointments/services/booking-service/internal/availability"
)

type Appointment struct {
	ID          string
	BusinessID  string
	ServiceID   string
	Subject     Subject
	StartTime   time.Time
	EndTime     time.Time
	Status      Status
	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (a Appointment) Interval() availability.Interval {
	return availability.Interval{Start: a.StartTime, End: a.EndTime}
}

// Blocking reports whether the appointment occupies business capacity.
func (a Appointment) Blocking() bool {
	return a.Status.Blocking()
}
