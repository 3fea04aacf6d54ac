package outbox

import (
	"encoding/json"
	"time"

	"github.com/apimastery/appointments/services/booking-service/internal/model"
)

// Event is the domain event envelope written to the outbox table.
// The Kafka topic name equals EventType.
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

const (
	AggregateAppointment = "appointment"

	TypeAppointmentCreated       = "booking.appointment.created.v1"
	TypeAppointmentCancelled     = "booking.appointment.cancelled.v1"
	TypeAppointmentStatusChanged = "booking.appointment.status_changed.v1"
)

type appointmentPayload struct {
	AppointmentID string `json:"appointmentId"`
	BusinessID    string `json:"businessId"`
	ServiceID     string `json:"serviceId"`
	UserID        string `json:"userId,omitempty"`
	Guest         bool   `json:"guest"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	Status        string `json:"status"`
	CancelledAt   string `json:"cancelledAt,omitempty"`
	OccurredAt    string `json:"occurredAt"`
}

// AppointmentEvent builds the event of eventType for appt. Guest contact details are not
// copied into the payload.
func AppointmentEvent(eventType string, appt model.Appointment, occurredAt time.Time) (Event, error) {
	p := appointmentPayload{
		AppointmentID: appt.ID,
		BusinessID:    appt.BusinessID,
		ServiceID:     appt.ServiceID,
		Guest:         appt.Subject.IsGuest(),
		StartTime:     appt.StartTime.UTC().Format(time.RFC3339),
		EndTime:       appt.EndTime.UTC().Format(time.RFC3339),
		Status:        appt.Status.String(),
		OccurredAt:    occurredAt.UTC().Format(time.RFC3339),
	}
	if uid, ok := appt.Subject.UserID(); ok {
		p.UserID = uid
	}
	if appt.CancelledAt != nil {
		p.CancelledAt = appt.CancelledAt.UTC().Format(time.RFC3339)
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return Event{}, err
	}
	return Event{
		AggregateType: AggregateAppointment,
		AggregateID:   appt.ID,
		EventType:     eventType,
		Payload:       payload,
	}, nil
}
