// Package handlers exposes the scheduling engine over HTTP. Handlers only shape input and
// output; every booking rule lives in the engine.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/apimastery/appointments/libs/auth"
	"github.com/apimastery/appointments/libs/httpx"
	"github.com/apimastery/appointments/services/booking-service/internal/model"
	"github.com/apimastery/appointments/services/booking-service/internal/scheduling"
	"github.com/apimastery/appointments/services/booking-service/internal/workhours"
	"github.com/google/uuid"
)

// Scheduler is the engine surface the handlers call.
type Scheduler interface {
	Availability(ctx context.Context, businessID, serviceID, date string) (scheduling.Availability, error)
	Create(ctx context.Context, req scheduling.CreateRequest) (model.Appointment, error)
	Cancel(ctx context.Context, appointmentID, userID string) (model.Appointment, error)
	UpdateStatus(ctx context.Context, change scheduling.StatusChange) (model.Appointment, error)
	ListBusinessAppointments(ctx context.Context, businessID, ownerID string, q scheduling.ListQuery) ([]model.Appointment, error)
	ListUserAppointments(ctx context.Context, userID string, limit int) ([]model.Appointment, error)
	Dashboard(ctx context.Context, businessID, ownerID string) (scheduling.Dashboard, error)
}

type BookingHandler struct {
	engine Scheduler
	logger *slog.Logger
}

func NewBookingHandler(engine Scheduler, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{engine: engine, logger: logger}
}

// Register mounts the booking routes on mux. public wraps the unauthenticated routes and
// may be nil.
func (h *BookingHandler) Register(mux *http.ServeMux, public httpx.Middleware) {
	mux.Handle("GET /api/v1/public/availability", httpx.Only(http.HandlerFunc(h.Availability), public))
	mux.Handle("POST /api/v1/public/appointments", httpx.Only(http.HandlerFunc(h.Create), public))
	mux.HandleFunc("PATCH /api/v1/appointments/{appointmentID}/cancel", h.Cancel)
	mux.HandleFunc("GET /api/v1/appointments/mine", h.ListMine)
	mux.HandleFunc("GET /api/v1/businesses/{businessID}/appointments", h.ListBusiness)
	mux.HandleFunc("PATCH /api/v1/businesses/{businessID}/appointments/{appointmentID}/status", h.UpdateStatus)
	mux.HandleFunc("GET /api/v1/businesses/{businessID}/dashboard", h.Dashboard)
}

type slotItem struct {
	Time        string `json:"time"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsAvailable bool   `json:"isAvailable"`
}

type availabilityResponse struct {
	BusinessID string     `json:"businessId"`
	ServiceID  string     `json:"serviceId"`
	Date       string     `json:"date"`
	Slots      []slotItem `json:"slots"`
}

type createAppointmentRequest struct {
	BusinessID string `json:"businessId"`
	ServiceID  string `json:"serviceId"`
	StartTime  string `json:"startTime"`
	GuestName  string `json:"guestName"`
	GuestPhone string `json:"guestPhone"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type appointmentResponse struct {
	ID          string `json:"id"`
	BusinessID  string `json:"businessId"`
	ServiceID   string `json:"serviceId"`
	UserID      string `json:"userId,omitempty"`
	GuestName   string `json:"guestName,omitempty"`
	GuestPhone  string `json:"guestPhone,omitempty"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Status      string `json:"status"`
	CancelledAt string `json:"cancelledAt,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type listResponse struct {
	Items []appointmentResponse `json:"items"`
}

type dashboardResponse struct {
	BusinessID       string         `json:"businessId"`
	Total            int            `json:"total"`
	Upcoming         int            `json:"upcoming"`
	ByStatus         map[string]int `json:"byStatus"`
	CompletedRevenue string         `json:"completedRevenue"`
}

func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	businessID := strings.TrimSpace(q.Get("businessId"))
	serviceID := strings.TrimSpace(q.Get("serviceId"))
	date := strings.TrimSpace(q.Get("date"))
	if date == "" {
		httpx.WriteError(w, http.StatusBadRequest, "businessId, serviceId and date are required")
		return
	}
	if !validID(businessID) || !validID(serviceID) {
		httpx.WriteError(w, http.StatusBadRequest, "businessId and serviceId must be UUIDs")
		return
	}

	avail, err := h.engine.Availability(r.Context(), businessID, serviceID, date)
	if err != nil {
		writeEngineError(w, r, h.logger, err)
		return
	}

	resp := availabilityResponse{
		BusinessID: avail.BusinessID,
		ServiceID:  avail.ServiceID,
		Date:       avail.Date,
		Slots:      make([]slotItem, 0, len(avail.Slots)),
	}
	for _, s := range avail.Slots {
		start := workhours.FormatClock(workhours.MinutesOf(s.Start, avail.Location))
		resp.Slots = append(resp.Slots, slotItem{
			Time:        start,
			StartTime:   start,
			EndTime:     workhours.FormatClock(workhours.MinutesOf(s.End, avail.Location)),
			IsAvailable: s.Available,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}
	req.BusinessID = strings.TrimSpace(req.BusinessID)
	req.ServiceID = strings.TrimSpace(req.ServiceID)
	if !validID(req.BusinessID) || !validID(req.ServiceID) {
		httpx.WriteError(w, http.StatusBadRequest, "businessId and serviceId must be UUIDs")
		return
	}
	startTime, err := time.Parse(time.RFC3339, strings.TrimSpace(req.StartTime))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "startTime must be an ISO-8601 timestamp")
		return
	}

	appt, err := h.engine.Create(r.Context(), scheduling.CreateRequest{
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		StartTime:  startTime,
		UserID:     auth.UserID(r),
		GuestName:  req.GuestName,
		GuestPhone: req.GuestPhone,
	})
	if err != nil {
		writeEngineError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toAppointmentResponse(appt))
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	appointmentID := r.PathValue("appointmentID")
	if !validID(appointmentID) {
		httpx.WriteError(w, http.StatusBadRequest, "appointment id must be a UUID")
		return
	}

	appt, err := h.engine.Cancel(r.Context(), appointmentID, userID)
	if err != nil {
		writeEngineError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	appts, err := h.engine.ListUserAppointments(r.Context(), userID, limit)
	if err != nil {
		writeEngineError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toListResponse(appts))
}

func (h *BookingHandler) ListBusiness(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireUser(w, r)
	if !ok {
		return
	}
	businessID := r.PathValue("businessID")
	if !validID(businessID) {
		httpx.WriteError(w, http.StatusBadRequest, "business id must be a UUID")
		return
	}
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	appts, err := h.engine.ListBusinessAppointments(r.Context(), businessID, ownerID, scheduling.ListQuery{
		From:   strings.TrimSpace(q.Get("from")),
		To:     strings.TrimSpace(q.Get("to")),
		Status: strings.TrimSpace(q.Get("status")),
		Limit:  limit,
	})
	if err != nil {
		writeEngineError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toListResponse(appts))
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireUser(w, r)
	if !ok {
		return
	}
	businessID := r.PathValue("businessID")
	appointmentID := r.PathValue("appointmentID")
	if !validID(businessID) || !validID(appointmentID) {
		httpx.WriteError(w, http.StatusBadRequest, "business and appointment ids must be UUIDs")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}
	status, err := model.ParseStatus(req.Status)
	if err != nil {
		writeEngineError(w, r, h.logger, err)
		return
	}

	appt, err := h.engine.UpdateStatus(r.Context(), scheduling.StatusChange{
		BusinessID:    businessID,
		AppointmentID: appointmentID,
		OwnerID:       ownerID,
		Status:        status,
	})
	if err != nil {
		writeEngineError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (h *BookingHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireUser(w, r)
	if !ok {
		return
	}
	businessID := r.PathValue("businessID")
	if !validID(businessID) {
		httpx.WriteError(w, http.StatusBadRequest, "business id must be a UUID")
		return
	}

	d, err := h.engine.Dashboard(r.Context(), businessID, ownerID)
	if err != nil {
		writeEngineError(w, r, h.logger, err)
		return
	}
	resp := dashboardResponse{
		BusinessID:       d.BusinessID,
		Total:            d.Total,
		Upcoming:         d.Upcoming,
		ByStatus:         make(map[string]int, len(d.ByStatus)),
		CompletedRevenue: d.CompletedRevenue,
	}
	for st, n := range d.ByStatus {
		resp.ByStatus[st.String()] = n
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := auth.UserID(r)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return userID, true
}

func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		httpx.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
		return 0, false
	}
	return limit, true
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func toAppointmentResponse(a model.Appointment) appointmentResponse {
	resp := appointmentResponse{
		ID:         a.ID,
		BusinessID: a.BusinessID,
		ServiceID:  a.ServiceID,
		StartTime:  a.StartTime.UTC().Format(time.RFC3339),
		EndTime:    a.EndTime.UTC().Format(time.RFC3339),
		Status:     a.Status.String(),
		CreatedAt:  a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  a.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if uid, ok := a.Subject.UserID(); ok {
		resp.UserID = uid
	}
	if g, ok := a.Subject.Guest(); ok {
		resp.GuestName = g.Name
		resp.GuestPhone = g.Phone
	}
	if a.CancelledAt != nil {
		resp.CancelledAt = a.CancelledAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func toListResponse(appts []model.Appointment) listResponse {
	items := make([]appointmentResponse, 0, len(appts))
	for _, a := range appts {
		items = append(items, toAppointmentResponse(a))
	}
	return listResponse{Items: items}
}
