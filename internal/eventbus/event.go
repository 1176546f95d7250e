package eventbus

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/grachmannico95/donation-be/internal/domain"
)

var (
	ErrBusStarted = errors.New("event bus already started")
	ErrQueueFull  = errors.New("event queue full")
)

type EventType string

const (
	EventTypeDonationCompleted EventType = "donation.completed"
	EventTypeDonationFailed    EventType = "donation.failed"
)

type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TraceID   string    `json:"trace_id,omitempty"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEvent(eventType EventType, payload any) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// DonationCompletedEvent is published once per completion and again, with
// Replay set, for every duplicate success callback.
type DonationCompletedEvent struct {
	ExternalReference string              `json:"external_reference"`
	Donor             domain.DonorSummary `json:"donor"`
	Replay            bool                `json:"replay"`
}

type DonationFailedEvent struct {
	ExternalReference string `json:"external_reference"`
	ResultDesc        string `json:"result_desc"`
}
