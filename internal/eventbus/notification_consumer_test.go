package eventbus

import (
	"context"
	"testing"

	"github.com/grachmannico95/donation-be/internal/domain"
	"github.com/grachmannico95/donation-be/internal/realtime"
	"github.com/grachmannico95/donation-be/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	broadcasts []realtime.Message
	direct     map[string][]realtime.Message
	released   []string
	awaiting   map[string]bool
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{
		direct:   make(map[string][]realtime.Message),
		awaiting: make(map[string]bool),
	}
}

func (r *recordingNotifier) Broadcast(ctx context.Context, msg realtime.Message) int {
	r.broadcasts = append(r.broadcasts, msg)
	return 1
}

func (r *recordingNotifier) NotifyAwaiting(ctx context.Context, ref string, msg realtime.Message) bool {
	if !r.awaiting[ref] {
		return false
	}
	r.direct[ref] = append(r.direct[ref], msg)
	return true
}

func (r *recordingNotifier) Release(ref string) (realtime.Conn, bool) {
	r.released = append(r.released, ref)
	return nil, false
}

func TestNotificationConsumer_CompletedBroadcasts(t *testing.T) {
	notifier := newRecordingNotifier()
	consumer := NewNotificationConsumer(notifier, logger.NewNop(), 1)

	donor := domain.DonorSummary{Amount: 100, CustomerName: "Jane"}
	err := consumer.Consume(context.Background(), NewEvent(EventTypeDonationCompleted, DonationCompletedEvent{
		ExternalReference: "R1",
		Donor:             donor,
		Replay:            true,
	}))

	require.NoError(t, err)
	require.Len(t, notifier.broadcasts, 1)
	assert.Equal(t, []string{"R1"}, notifier.released)

	msg := notifier.broadcasts[0]
	assert.Equal(t, realtime.MessageTypeDonationUpdate, msg.Type)
	data := msg.Data.(map[string]any)
	assert.Equal(t, "success", data["status"])
	assert.Equal(t, donor, data["donor"])
	assert.Equal(t, true, data["replay"])
}

func TestNotificationConsumer_FailedGoesToAwaitingOnly(t *testing.T) {
	notifier := newRecordingNotifier()
	notifier.awaiting["R1"] = true
	consumer := NewNotificationConsumer(notifier, logger.NewNop(), 1)

	err := consumer.Consume(context.Background(), NewEvent(EventTypeDonationFailed, DonationFailedEvent{
		ExternalReference: "R1",
		ResultDesc:        "Request cancelled by user",
	}))

	require.NoError(t, err)
	assert.Empty(t, notifier.broadcasts)
	require.Len(t, notifier.direct["R1"], 1)
	data := notifier.direct["R1"][0].Data.(map[string]any)
	assert.Equal(t, "error", data["status"])
	assert.Equal(t, "Request cancelled by user", data["message"])
}

func TestNotificationConsumer_FailedWithoutWaiter(t *testing.T) {
	notifier := newRecordingNotifier()
	consumer := NewNotificationConsumer(notifier, logger.NewNop(), 1)

	err := consumer.Consume(context.Background(), NewEvent(EventTypeDonationFailed, DonationFailedEvent{ExternalReference: "R9"}))

	assert.NoError(t, err)
	assert.Empty(t, notifier.broadcasts)
}

func TestNotificationConsumer_InvalidPayload(t *testing.T) {
	consumer := NewNotificationConsumer(newRecordingNotifier(), logger.NewNop(), 4)

	err := consumer.Consume(context.Background(), NewEvent(EventTypeDonationCompleted, "bogus"))

	assert.Error(t, err)
	assert.Equal(t, 4, consumer.GetWorkerCount())
}
