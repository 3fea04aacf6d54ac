package scheduling

import (
	"context"
	"time"

	"github.com/apimastery/appointments/services/booking-service/internal/availability"
	"github.com/apimastery/appointments/services/booking-service/internal/model"
)

// Catalog is the read-only business and service lookup. Missing rows return an error
// matching model.ErrNotFound.
type Catalog interface {
	GetBusiness(ctx context.Context, businessID string) (model.Business, error)
	GetService(ctx context.Context, serviceID string) (model.Service, error)
}

// Store persists appointments.
//
// Insert must reject an appointment that overlaps a blocking appointment of the same
// business committed concurrently, returning an error matching model.ErrConflict. The
// conditional writes return model.ErrNotFound when their predicate matches no row.
type Store interface {
	Catalog

	// ListBlocking returns PENDING and CONFIRMED appointments of the business overlapping window.
	ListBlocking(ctx context.Context, businessID string, window availability.Interval) ([]model.Appointment, error)
	Insert(ctx context.Context, appt model.Appointment) error

	GetForUser(ctx context.Context, appointmentID, userID string) (model.Appointment, error)
	CancelForUser(ctx context.Context, appointmentID, userID string, at time.Time) (model.Appointment, error)
	SetStatusForOwner(ctx context.Context, change StatusChange, at time.Time) (model.Appointment, error)

	ListByBusiness(ctx context.Context, businessID string, filter Filter) ([]model.Appointment, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]model.Appointment, error)
	Stats(ctx context.Context, businessID string, now time.Time) (Dashboard, error)
}

// StatusChange is an owner-driven status override.
type StatusChange struct {
	BusinessID    string
	AppointmentID string
	OwnerID       string
	Status        model.Status
}

// Filter narrows appointment listings. Zero From/To leave that side open.
type Filter struct {
	From     time.Time
	To       time.Time
	Statuses []model.Status
	Limit    int
}

type Dashboard struct {
	BusinessID string
	Total      int
	ByStatus   map[model.Status]int
	// Upcoming counts blocking appointments that have not started yet.
	Upcoming int
	// CompletedRevenue is the decimal sum of service prices over COMPLETED appointments.
	CompletedRevenue string
}
