package eventbus

import (
	"context"
	"sync"
	"time"

	"github.com/grachmannico95/donation-be/pkg/logger"
	"github.com/grachmannico95/donation-be/pkg/retry"
)

// Publisher is the write side of the bus, all the donation service needs.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type EventBus interface {
	Publisher
	Subscribe(eventType EventType, consumer Consumer) error
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

type Config struct {
	ChannelBuffer int
	MaxRetries    int
	RetryDelay    time.Duration
}

type eventBus struct {
	queues    map[EventType]chan Event
	consumers map[EventType][]Consumer
	mu        sync.RWMutex
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	logger    *logger.Logger
	cfg       Config
	started   bool
}

func New(log *logger.Logger, cfg *Config) EventBus {
	c := Config{
		ChannelBuffer: 1000,
		MaxRetries:    5,
		RetryDelay:    100 * time.Millisecond,
	}
	if cfg != nil {
		if cfg.ChannelBuffer > 0 {
			c.ChannelBuffer = cfg.ChannelBuffer
		}
		if cfg.MaxRetries > 0 {
			c.MaxRetries = cfg.MaxRetries
		}
		if cfg.RetryDelay > 0 {
			c.RetryDelay = cfg.RetryDelay
		}
	}

	return &eventBus{
		queues:    make(map[EventType]chan Event),
		consumers: make(map[EventType][]Consumer),
		logger:    log,
		cfg:       c,
	}
}

func (eb *eventBus) Subscribe(eventType EventType, consumer Consumer) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.started {
		return ErrBusStarted
	}

	if _, exists := eb.queues[eventType]; !exists {
		eb.queues[eventType] = make(chan Event, eb.cfg.ChannelBuffer)
	}
	eb.consumers[eventType] = append(eb.consumers[eventType], consumer)

	return nil
}

func (eb *eventBus) Start(ctx context.Context) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.started {
		return nil
	}

	eb.ctx, eb.cancel = context.WithCancel(ctx)

	for eventType, consumers := range eb.consumers {
		queue := eb.queues[eventType]

		for _, consumer := range consumers {
			workers := consumer.GetWorkerCount()
			if workers < 1 {
				workers = 1
			}
			eb.logger.Info(eb.ctx, "Starting workers",
				"event_type", eventType,
				"worker_count", workers,
			)

			for i := 0; i < workers; i++ {
				eb.wg.Add(1)
				go eb.worker(eb.ctx, queue, consumer, i)
			}
		}
	}

	eb.started = true
	eb.logger.Info(eb.ctx, "Event bus started")

	return nil
}

func (eb *eventBus) worker(ctx context.Context, queue <-chan Event, consumer Consumer, workerID int) {
	defer eb.wg.Done()

	for {
		select {
		case <-ctx.Done():
			eb.drain(context.WithoutCancel(ctx), queue, consumer, workerID)
			eb.logger.Debug(ctx, "Worker stopping", "worker_id", workerID)
			return
		case event, ok := <-queue:
			if !ok {
				return
			}
			eb.dispatch(ctx, event, consumer, workerID)
		}
	}
}

// drain handles the events already queued when the bus stops, so outcomes
// accepted before shutdown still reach clients.
func (eb *eventBus) drain(ctx context.Context, queue <-chan Event, consumer Consumer, workerID int) {
	for {
		select {
		case event, ok := <-queue:
			if !ok {
				return
			}
			eb.dispatch(ctx, event, consumer, workerID)
		default:
			return
		}
	}
}

func (eb *eventBus) dispatch(ctx context.Context, event Event, consumer Consumer, workerID int) {
	eventCtx := ctx
	if event.TraceID != "" {
		eventCtx = logger.WithTraceID(eventCtx, event.TraceID)
	}

	err := retry.Do(eventCtx, func() error {
		return consumer.Consume(eventCtx, event)
	},
		retry.WithMaxAttempts(eb.cfg.MaxRetries),
		retry.WithBaseDelay(eb.cfg.RetryDelay),
	)

	if err != nil {
		eb.logger.Error(eventCtx, "Failed to process event after retries",
			"event_id", event.ID,
			"event_type", event.Type,
			"worker_id", workerID,
			"error", err,
		)
		return
	}

	eb.logger.Debug(eventCtx, "Event processed",
		"event_id", event.ID,
		"event_type", event.Type,
		"worker_id", workerID,
	)
}

// Publish never blocks: a full queue drops the event with a warning.
func (eb *eventBus) Publish(ctx context.Context, event Event) error {
	eb.mu.RLock()
	queue, exists := eb.queues[event.Type]
	eb.mu.RUnlock()

	if !exists {
		eb.logger.Warn(ctx, "No subscriber for event type",
			"event_type", event.Type,
			"event_id", event.ID,
		)
		return nil
	}

	if event.TraceID == "" {
		event.TraceID = logger.GetTraceID(ctx)
	}

	select {
	case queue <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		eb.logger.Warn(ctx, "Event queue full, event dropped",
			"event_type", event.Type,
			"event_id", event.ID,
		)
		return ErrQueueFull
	}
}

func (eb *eventBus) Shutdown(ctx context.Context) error {
	eb.logger.Info(ctx, "Shutting down event bus")

	eb.mu.RLock()
	cancel := eb.cancel
	eb.mu.RUnlock()
	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		eb.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		eb.logger.Info(ctx, "Event bus shutdown complete")
		return nil
	case <-ctx.Done():
		eb.logger.Warn(ctx, "Event bus shutdown timeout")
		return ctx.Err()
	}
}
