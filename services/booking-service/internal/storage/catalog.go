package storage

import (
	"context"

	"github.com/apimastery/appointments/services/booking-service/internal/model"
)

func (r *Repository) GetBusiness(ctx context.Context, businessID string) (model.Business, error) {
	var b model.Business
	var category string
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, owner_id, name, category, COALESCE(working_hours, ''), timezone
		FROM businesses
		WHERE id = $1
	`, businessID).Scan(&b.ID, &b.OwnerID, &b.Name, &category, &b.WorkingHours, &b.Timezone)
	if err != nil {
		return model.Business{}, translate(err, "business "+businessID)
	}
	b.Category = model.Category(category)
	return b, nil
}

func (r *Repository) GetService(ctx context.Context, serviceID string) (model.Service, error) {
	var s model.Service
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, business_id::text, name, duration_minutes, price::text
		FROM business_services
		WHERE id = $1
	`, serviceID).Scan(&s.ID, &s.BusinessID, &s.Name, &s.DurationMinutes, &s.Price)
	if err != nil {
		return model.Service{}, translate(err, "service "+serviceID)
	}
	return s, nil
}
