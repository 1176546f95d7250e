package eventbus

import (
	"context"
	"fmt"

	"github.com/grachmannico95/donation-be/internal/realtime"
	"github.com/grachmannico95/donation-be/pkg/logger"
	"github.com/grachmannico95/donation-be/pkg/retry"
)

// Notifier is the part of realtime.Hub the consumer drives.
type Notifier interface {
	Broadcast(ctx context.Context, msg realtime.Message) int
	NotifyAwaiting(ctx context.Context, ref string, msg realtime.Message) bool
	Release(ref string) (realtime.Conn, bool)
}

// NotificationConsumer turns donation outcome events into client messages.
// Successes go to every connection, failures only to the awaiting one.
type NotificationConsumer struct {
	notifier    Notifier
	logger      *logger.Logger
	workerCount int
}

func NewNotificationConsumer(notifier Notifier, log *logger.Logger, workerCount int) *NotificationConsumer {
	return &NotificationConsumer{
		notifier:    notifier,
		logger:      log,
		workerCount: workerCount,
	}
}

func (nc *NotificationConsumer) Consume(ctx context.Context, event Event) error {
	switch payload := event.Payload.(type) {
	case DonationCompletedEvent:
		ctx = logger.WithReference(ctx, payload.ExternalReference)
		nc.notifier.Release(payload.ExternalReference)

		delivered := nc.notifier.Broadcast(ctx, realtime.DonationSuccessMessage(payload.Donor, payload.Replay))
		nc.logger.Info(ctx, "Donation broadcast",
			"event_id", event.ID,
			"replay", payload.Replay,
			"delivered", delivered,
		)
		return nil

	case DonationFailedEvent:
		ctx = logger.WithReference(ctx, payload.ExternalReference)

		if !nc.notifier.NotifyAwaiting(ctx, payload.ExternalReference, realtime.DonationFailedMessage(payload.ResultDesc)) {
			nc.logger.Debug(ctx, "No awaiting connection for failed donation",
				"event_id", event.ID,
			)
		}
		return nil

	default:
		nc.logger.Error(ctx, "Invalid payload type for donation event",
			"event_id", event.ID,
			"event_type", event.Type,
		)
		return retry.Permanent(fmt.Errorf("invalid payload type %T", event.Payload))
	}
}

func (nc *NotificationConsumer) GetWorkerCount() int {
	return nc.workerCount
}
