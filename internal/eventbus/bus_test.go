package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/grachmannico95/donation-be/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingConsumer struct {
	calls    atomic.Int32
	failFor  int32
	workers  int
	received chan Event
}

func (c *countingConsumer) Consume(ctx context.Context, event Event) error {
	n := c.calls.Add(1)
	if n <= c.failFor {
		return errors.New("transient")
	}
	c.received <- event
	return nil
}

func (c *countingConsumer) GetWorkerCount() int { return c.workers }

func TestEventBus_DeliversToConsumer(t *testing.T) {
	bus := New(logger.NewNop(), &Config{ChannelBuffer: 10})
	consumer := &countingConsumer{workers: 2, received: make(chan Event, 1)}

	require.NoError(t, bus.Subscribe(EventTypeDonationCompleted, consumer))
	require.NoError(t, bus.Start(context.Background()))
	defer bus.Shutdown(context.Background())

	event := NewEvent(EventTypeDonationCompleted, DonationCompletedEvent{ExternalReference: "R1"})
	require.NoError(t, bus.Publish(context.Background(), event))

	select {
	case got := <-consumer.received:
		assert.Equal(t, event.ID, got.ID)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestEventBus_RetriesWithConfiguredAttempts(t *testing.T) {
	bus := New(logger.NewNop(), &Config{ChannelBuffer: 10, MaxRetries: 3, RetryDelay: time.Millisecond})
	consumer := &countingConsumer{workers: 1, failFor: 2, received: make(chan Event, 1)}

	require.NoError(t, bus.Subscribe(EventTypeDonationFailed, consumer))
	require.NoError(t, bus.Start(context.Background()))
	defer bus.Shutdown(context.Background())

	require.NoError(t, bus.Publish(context.Background(), NewEvent(EventTypeDonationFailed, DonationFailedEvent{})))

	select {
	case <-consumer.received:
		assert.Equal(t, int32(3), consumer.calls.Load())
	case <-time.After(time.Second):
		t.Fatal("event not delivered after retries")
	}
}

func TestEventBus_PublishWithoutSubscriber(t *testing.T) {
	bus := New(logger.NewNop(), nil)

	err := bus.Publish(context.Background(), NewEvent(EventTypeDonationCompleted, nil))
	assert.NoError(t, err)
}

func TestEventBus_PublishQueueFull(t *testing.T) {
	bus := New(logger.NewNop(), &Config{ChannelBuffer: 1})
	consumer := &countingConsumer{workers: 1, received: make(chan Event)}
	require.NoError(t, bus.Subscribe(EventTypeDonationCompleted, consumer))

	require.NoError(t, bus.Publish(context.Background(), NewEvent(EventTypeDonationCompleted, nil)))
	err := bus.Publish(context.Background(), NewEvent(EventTypeDonationCompleted, nil))
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestEventBus_SubscribeAfterStart(t *testing.T) {
	bus := New(logger.NewNop(), nil)
	require.NoError(t, bus.Start(context.Background()))
	defer bus.Shutdown(context.Background())

	err := bus.Subscribe(EventTypeDonationCompleted, &countingConsumer{workers: 1})
	assert.ErrorIs(t, err, ErrBusStarted)
}

func TestEventBus_ShutdownWaitsForWorkers(t *testing.T) {
	bus := New(logger.NewNop(), nil)
	consumer := &countingConsumer{workers: 3, received: make(chan Event, 1)}
	require.NoError(t, bus.Subscribe(EventTypeDonationCompleted, consumer))
	require.NoError(t, bus.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, bus.Shutdown(ctx))
}

func TestEventBus_ShutdownDrainsQueue(t *testing.T) {
	bus := New(logger.NewNop(), &Config{ChannelBuffer: 10})
	consumer := &countingConsumer{workers: 1, received: make(chan Event, 5)}
	require.NoError(t, bus.Subscribe(EventTypeDonationCompleted, consumer))

	for i := 0; i < 5; i++ {
		require.NoError(t, bus.Publish(context.Background(), NewEvent(EventTypeDonationCompleted, nil)))
	}
	require.NoError(t, bus.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, bus.Shutdown(ctx))

	assert.Len(t, consumer.received, 5)
}
