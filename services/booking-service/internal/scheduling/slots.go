package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/apimastery/appointments/services/booking-service/internal/availability"
	"github.com/apimastery/appointments/services/booking-service/internal/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DateLayout is the calendar-date format accepted by Availability and the listings.
const DateLayout = "2006-01-02"

// Availability is the slot grid of one service on one local calendar day.
type Availability struct {
	BusinessID string
	ServiceID  string
	Date       string
	Location   *time.Location
	Slots      []availability.Slot
}

// Availability lays out the bookable slots of serviceID on date, a calendar day in the
// business timezone. Slots overlapping a PENDING or CONFIRMED appointment are unavailable;
// on the current local day slots that already started are unavailable too.
func (e *Engine) Availability(ctx context.Context, businessID, serviceID, date string) (result Availability, err error) {
	ctx, span := e.tracer.Start(ctx, "scheduling.Availability", trace.WithAttributes(
		attribute.String("business.id", businessID),
		attribute.String("service.id", serviceID),
		attribute.String("date", date),
	))
	defer func() { finishSpan(span, err) }()

	business, service, err := e.resolve(ctx, businessID, serviceID)
	if err != nil {
		return Availability{}, err
	}
	hours, loc, err := e.schedule(business)
	if err != nil {
		return Availability{}, err
	}
	day, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return Availability{}, fmt.Errorf("%w: date must be YYYY-MM-DD", model.ErrValidation)
	}

	window := hours.Window(day, loc)
	booked, err := e.store.ListBlocking(ctx, business.ID, window)
	if err != nil {
		return Availability{}, fmt.Errorf("list appointments: %w", err)
	}
	busy := make([]availability.Interval, 0, len(booked))
	for _, appt := range booked {
		if appt.Blocking() {
			busy = append(busy, appt.Interval())
		}
	}

	var cutoff time.Time
	now := e.now()
	if sameDay(now.In(loc), day) {
		cutoff = now
	}

	duration := time.Duration(service.DurationMinutes) * time.Minute
	return Availability{
		BusinessID: business.ID,
		ServiceID:  service.ID,
		Date:       day.Format(DateLayout),
		Location:   loc,
		Slots:      availability.Grid(window, duration, busy, cutoff),
	}, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
