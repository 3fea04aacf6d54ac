package scheduling

import (
	"context"
	"fmt"

	"github.com/apimastery/appointments/services/booking-service/internal/model"
	"github.com/apimastery/appointments/services/booking-service/internal/policy"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Cancel cancels an appointment on behalf of the user it was booked for.
//
// Appointments of other subjects, and guest bookings, are reported as ErrNotFound.
// Cancelling within the policy window before the start fails with ErrPolicyViolation;
// appointments that already started or are further out than the window may be cancelled.
// Cancelling an already cancelled appointment returns it unchanged.
func (e *Engine) Cancel(ctx context.Context, appointmentID, userID string) (appt model.Appointment, err error) {
	ctx, span := e.tracer.Start(ctx, "scheduling.Cancel", trace.WithAttributes(
		attribute.String("appointment.id", appointmentID),
	))
	defer func() { finishSpan(span, err) }()

	if userID == "" {
		return model.Appointment{}, fmt.Errorf("%w: appointment %s", model.ErrNotFound, appointmentID)
	}
	current, err := e.store.GetForUser(ctx, appointmentID, userID)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("load appointment: %w", err)
	}

	switch current.Status {
	case model.StatusCancelled:
		return current, nil
	case model.StatusCompleted:
		return model.Appointment{}, fmt.Errorf("%w: appointment %s is already completed", model.ErrPolicyViolation, appointmentID)
	}

	window, err := e.policy.CancellationWindow(ctx, current.BusinessID)
	if err != nil {
		e.logger.Warn("cancellation window lookup failed; using default", "business_id", current.BusinessID, "err", err)
		window = policy.DefaultCancellationWindow
	}
	now := e.now()
	if policy.CancellationBlocked(current.StartTime, now, window) {
		return model.Appointment{}, fmt.Errorf("%w: appointments cannot be cancelled less than %s before the start",
			model.ErrPolicyViolation, window)
	}

	appt, err = e.store.CancelForUser(ctx, appointmentID, userID, now.UTC())
	if err != nil {
		return model.Appointment{}, fmt.Errorf("cancel appointment: %w", err)
	}
	e.logger.Info("appointment cancelled", "appointment_id", appt.ID, "business_id", appt.BusinessID)
	return appt, nil
}

// UpdateStatus lets the owner of a business set any status on one of its appointments.
// The write is conditional on the appointment, the business and its owner; when they do
// not line up the result is ErrNotFound.
func (e *Engine) UpdateStatus(ctx context.Context, change StatusChange) (appt model.Appointment, err error) {
	ctx, span := e.tracer.Start(ctx, "scheduling.UpdateStatus", trace.WithAttributes(
		attribute.String("business.id", change.BusinessID),
		attribute.String("appointment.id", change.AppointmentID),
		attribute.String("status", change.Status.String()),
	))
	defer func() { finishSpan(span, err) }()

	if !change.Status.Valid() {
		return model.Appointment{}, fmt.Errorf("%w: unknown status %q", model.ErrValidation, change.Status)
	}
	if change.OwnerID == "" {
		return model.Appointment{}, fmt.Errorf("%w: appointment %s", model.ErrNotFound, change.AppointmentID)
	}

	appt, err = e.store.SetStatusForOwner(ctx, change, e.now().UTC())
	if err != nil {
		if isConflict(err) {
			return model.Appointment{}, fmt.Errorf("%w: %w", model.ErrSlotTaken, err)
		}
		return model.Appointment{}, fmt.Errorf("update status: %w", err)
	}
	e.logger.Info("appointment status updated",
		"appointment_id", appt.ID,
		"business_id", appt.BusinessID,
		"status", appt.Status,
	)
	return appt, nil
}
