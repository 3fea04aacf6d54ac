package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apimastery/appointments/services/booking-service/internal/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ListQuery filters an owner's appointment listing. From and To are inclusive local
// calendar dates (YYYY-MM-DD); empty values leave that side open.
type ListQuery struct {
	From   string
	To     string
	Status string
	Limit  int
}

func (e *Engine) ListBusinessAppointments(ctx context.Context, businessID, ownerID string, q ListQuery) (appts []model.Appointment, err error) {
	ctx, span := e.tracer.Start(ctx, "scheduling.ListBusinessAppointments", trace.WithAttributes(
		attribute.String("business.id", businessID),
	))
	defer func() { finishSpan(span, err) }()

	business, err := e.owned(ctx, businessID, ownerID)
	if err != nil {
		return nil, err
	}
	loc, err := e.location(business.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: business %s timezone %q: %w", model.ErrNotConfigured, business.ID, business.Timezone, err)
	}

	filter := Filter{Limit: clampLimit(q.Limit)}
	if q.From != "" {
		from, err := time.ParseInLocation(DateLayout, q.From, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: from must be YYYY-MM-DD", model.ErrValidation)
		}
		filter.From = from
	}
	if q.To != "" {
		to, err := time.ParseInLocation(DateLayout, q.To, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: to must be YYYY-MM-DD", model.ErrValidation)
		}
		filter.To = to.AddDate(0, 0, 1)
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && !filter.From.Before(filter.To) {
		return nil, fmt.Errorf("%w: from must not be after to", model.ErrValidation)
	}
	if q.Status != "" {
		st, err := model.ParseStatus(q.Status)
		if err != nil {
			return nil, err
		}
		filter.Statuses = []model.Status{st}
	}

	appts, err = e.store.ListByBusiness(ctx, business.ID, filter)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

func (e *Engine) ListUserAppointments(ctx context.Context, userID string, limit int) (appts []model.Appointment, err error) {
	ctx, span := e.tracer.Start(ctx, "scheduling.ListUserAppointments")
	defer func() { finishSpan(span, err) }()

	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", model.ErrValidation)
	}
	appts, err = e.store.ListByUser(ctx, userID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

// Dashboard summarizes the appointments of a business for its owner.
func (e *Engine) Dashboard(ctx context.Context, businessID, ownerID string) (d Dashboard, err error) {
	ctx, span := e.tracer.Start(ctx, "scheduling.Dashboard", trace.WithAttributes(
		attribute.String("business.id", businessID),
	))
	defer func() { finishSpan(span, err) }()

	business, err := e.owned(ctx, businessID, ownerID)
	if err != nil {
		return Dashboard{}, err
	}
	d, err = e.store.Stats(ctx, business.ID, e.now().UTC())
	if err != nil {
		return Dashboard{}, fmt.Errorf("load stats: %w", err)
	}
	d.BusinessID = business.ID
	if d.ByStatus == nil {
		d.ByStatus = map[model.Status]int{}
	}
	for _, st := range model.AllStatuses {
		if _, ok := d.ByStatus[st]; !ok {
			d.ByStatus[st] = 0
		}
	}
	if d.CompletedRevenue == "" {
		d.CompletedRevenue = "0"
	}
	return d, nil
}

func isConflict(err error) bool {
	return errors.Is(err, model.ErrConflict)
}
