// Package scheduling computes bookable slots and drives the appointment lifecycle on top
// of a Store. Every operation reads the latest state from the store; nothing is cached
// between calls.
package scheduling

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/apimastery/appointments/services/booking-service/internal/model"
	"github.com/apimastery/appointments/services/booking-service/internal/policy"
	"github.com/apimastery/appointments/services/booking-service/internal/workhours"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type Config struct {
	// DefaultLocation is used for businesses without their own timezone. Nil means UTC.
	DefaultLocation *time.Location
	// Now overrides the clock in tests.
	Now func() time.Time
}

type Engine struct {
	store      Store
	policy     policy.Provider
	logger     *slog.Logger
	defaultLoc *time.Location
	now        func() time.Time
	tracer     trace.Tracer

	locations sync.Map // zone name -> *time.Location
}

func New(store Store, policyProvider policy.Provider, logger *slog.Logger, cfg Config) *Engine {
	if cfg.DefaultLocation == nil {
		cfg.DefaultLocation = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if policyProvider == nil {
		policyProvider = policy.NewStaticProvider(policy.DefaultCancellationWindow)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:      store,
		policy:     policyProvider,
		logger:     logger,
		defaultLoc: cfg.DefaultLocation,
		now:        cfg.Now,
		tracer:     otel.Tracer("github.com/apimastery/appointments/services/booking-service/internal/scheduling"),
	}
}

// resolve loads the business and a service that belongs to it.
func (e *Engine) resolve(ctx context.Context, businessID, serviceID string) (model.Business, model.Service, error) {
	business, err := e.store.GetBusiness(ctx, businessID)
	if err != nil {
		return model.Business{}, model.Service{}, fmt.Errorf("load business: %w", err)
	}
	service, err := e.store.GetService(ctx, serviceID)
	if err != nil {
		return model.Business{}, model.Service{}, fmt.Errorf("load service: %w", err)
	}
	if service.BusinessID != business.ID {
		return model.Business{}, model.Service{}, fmt.Errorf("%w: service %s is not offered by business %s", model.ErrNotFound, serviceID, businessID)
	}
	if service.DurationMinutes <= 0 {
		return model.Business{}, model.Service{}, fmt.Errorf("%w: service %s has no duration", model.ErrNotConfigured, serviceID)
	}
	return business, service, nil
}

// schedule returns the parsed working hours and wall clock of a business. Missing hours are
// ErrNotConfigured; stored hours that do not parse are ErrValidation.
func (e *Engine) schedule(b model.Business) (workhours.Hours, *time.Location, error) {
	raw := strings.TrimSpace(b.WorkingHours)
	if raw == "" {
		return workhours.Hours{}, nil, fmt.Errorf("%w: business %s", model.ErrNotConfigured, b.ID)
	}
	hours, err := workhours.Parse(raw)
	if err != nil {
		return workhours.Hours{}, nil, fmt.Errorf("%w: business %s: %w", model.ErrValidation, b.ID, err)
	}
	loc, err := e.location(b.Timezone)
	if err != nil {
		return workhours.Hours{}, nil, fmt.Errorf("%w: business %s timezone %q: %w", model.ErrNotConfigured, b.ID, b.Timezone, err)
	}
	return hours, loc, nil
}

func (e *Engine) location(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return e.defaultLoc, nil
	}
	if loc, ok := e.locations.Load(name); ok {
		return loc.(*time.Location), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, err
	}
	e.locations.Store(name, loc)
	return loc, nil
}

// owned loads a business and hides it from callers that do not own it.
func (e *Engine) owned(ctx context.Context, businessID, ownerID string) (model.Business, error) {
	business, err := e.store.GetBusiness(ctx, businessID)
	if err != nil {
		return model.Business{}, fmt.Errorf("load business: %w", err)
	}
	if ownerID == "" || business.OwnerID != ownerID {
		return model.Business{}, fmt.Errorf("%w: business %s not owned by caller", model.ErrNotFound, businessID)
	}
	return business, nil
}

func finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
