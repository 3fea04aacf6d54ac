package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apimastery/appointments/services/booking-service/internal/availability"
	"github.com/apimastery/appointments/services/booking-service/internal/model"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CreateRequest asks for one appointment. UserID is set for authenticated callers; guests
// supply a name and phone instead.
type CreateRequest struct {
	BusinessID string
	ServiceID  string
	StartTime  time.Time
	UserID     string
	GuestName  string
	GuestPhone string
}

// Create books a PENDING appointment of the service length starting at req.StartTime.
//
// The interval has to fit inside the working hours of the local day it starts on and must
// not overlap a PENDING or CONFIRMED appointment of the business. A concurrent booking that
// wins the race is reported as ErrSlotTaken (the error also matches ErrConflict).
func (e *Engine) Create(ctx context.Context, req CreateRequest) (appt model.Appointment, err error) {
	ctx, span := e.tracer.Start(ctx, "scheduling.Create", trace.WithAttributes(
		attribute.String("business.id", req.BusinessID),
		attribute.String("service.id", req.ServiceID),
	))
	defer func() { finishSpan(span, err) }()

	if req.StartTime.IsZero() {
		return model.Appointment{}, fmt.Errorf("%w: start time is required", model.ErrValidation)
	}
	business, service, err := e.resolve(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		return model.Appointment{}, err
	}

	slot := availability.Interval{
		Start: req.StartTime.UTC(),
		End:   req.StartTime.UTC().Add(time.Duration(service.DurationMinutes) * time.Minute),
	}

	hours, loc, err := e.schedule(business)
	if err != nil {
		return model.Appointment{}, err
	}
	if !hours.Window(slot.Start, loc).Contains(slot) {
		return model.Appointment{}, fmt.Errorf("%w: working hours are %s", model.ErrOutOfHours, hours)
	}

	booked, err := e.store.ListBlocking(ctx, business.ID, slot)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("list appointments: %w", err)
	}
	for _, other := range booked {
		if other.Blocking() && other.Interval().Overlaps(slot) {
			return model.Appointment{}, fmt.Errorf("%w: overlaps appointment %s", model.ErrSlotTaken, other.ID)
		}
	}

	subject, err := model.ResolveSubject(req.UserID, req.GuestName, req.GuestPhone)
	if err != nil {
		return model.Appointment{}, err
	}

	now := e.now().UTC()
	appt = model.Appointment{
		ID:         uuid.NewString(),
		BusinessID: business.ID,
		ServiceID:  service.ID,
		Subject:    subject,
		StartTime:  slot.Start,
		EndTime:    slot.End,
		Status:     model.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := e.store.Insert(ctx, appt); err != nil {
		if errors.Is(err, model.ErrConflict) {
			e.logger.Info("booking lost race", "business_id", business.ID, "start_time", slot.Start)
			return model.Appointment{}, fmt.Errorf("%w: %w", model.ErrSlotTaken, err)
		}
		e.logger.Error("appointment insert failed", "business_id", business.ID, "err", err)
		return model.Appointment{}, fmt.Errorf("insert appointment: %w", err)
	}

	e.logger.Info("appointment created",
		"appointment_id", appt.ID,
		"business_id", appt.BusinessID,
		"service_id", appt.ServiceID,
		"start_time", appt.StartTime,
		"guest", subject.IsGuest(),
	)
	return appt, nil
}
