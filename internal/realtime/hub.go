package realtime

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/grachmannico95/donation-be/internal/metrics"
	"github.com/grachmannico95/donation-be/pkg/logger"
)

const (
	DefaultSendTimeout        = 5 * time.Second
	DefaultMaxConcurrentSends = 64
)

// Conn is a client connection as seen by the hub. Send must honor ctx.
type Conn interface {
	Send(ctx context.Context, msg Message) error
	Close() error
}

type HubConfig struct {
	SendTimeout        time.Duration
	MaxConcurrentSends int
}

// Hub is the registry of live connections and the broadcaster over them.
// Iteration always works on a snapshot so visitors may call back into the hub.
type Hub struct {
	mu       sync.RWMutex
	conns    map[Conn]struct{}
	awaiting map[string]Conn

	sendTimeout time.Duration
	concurrency int
	logger      *logger.Logger
	metrics     *metrics.Metrics
}

func NewHub(cfg HubConfig, log *logger.Logger, m *metrics.Metrics) *Hub {
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = DefaultSendTimeout
	}
	if cfg.MaxConcurrentSends <= 0 {
		cfg.MaxConcurrentSends = DefaultMaxConcurrentSends
	}

	return &Hub{
		conns:       make(map[Conn]struct{}),
		awaiting:    make(map[string]Conn),
		sendTimeout: cfg.SendTimeout,
		concurrency: cfg.MaxConcurrentSends,
		logger:      log,
		metrics:     m,
	}
}

func (h *Hub) Register(conn Conn) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	n := len(h.conns)
	h.mu.Unlock()

	h.metrics.SetActiveConnections(n)
}

// Unregister removes conn and any reference it was awaiting. Unknown
// connections are ignored.
func (h *Hub) Unregister(conn Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	for ref, c := range h.awaiting {
		if c == conn {
			delete(h.awaiting, ref)
		}
	}
	n := len(h.conns)
	h.mu.Unlock()

	h.metrics.SetActiveConnections(n)
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) snapshot() []Conn {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns := make([]Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	return conns
}

func (h *Hub) ForEach(visit func(Conn)) {
	for _, c := range h.snapshot() {
		visit(c)
	}
}

// Await marks conn as the client waiting on the outcome of ref. It reports
// false, leaving the existing link in place, when ref is already awaited.
func (h *Hub) Await(ref string, conn Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.awaiting[ref]; ok {
		return false
	}
	h.awaiting[ref] = conn
	return true
}

// Awaiting reports whether conn is still linked to ref, that is, no outcome
// for ref has been delivered to it yet.
func (h *Hub) Awaiting(ref string, conn Conn) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.awaiting[ref] == conn
}

// ReleaseIf drops the link for ref only while conn still owns it.
func (h *Hub) ReleaseIf(ref string, conn Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.awaiting[ref] != conn {
		return false
	}
	delete(h.awaiting, ref)
	return true
}

// Release forgets the awaiting connection for ref and returns it.
func (h *Hub) Release(ref string) (Conn, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.awaiting[ref]
	if ok {
		delete(h.awaiting, ref)
	}
	return conn, ok
}

// SendTo delivers msg to one connection. A failed send unregisters and
// closes the connection.
func (h *Hub) SendTo(ctx context.Context, conn Conn, msg Message) error {
	sendCtx, cancel := context.WithTimeout(ctx, h.sendTimeout)
	defer cancel()

	if err := conn.Send(sendCtx, msg); err != nil {
		h.metrics.IncDelivery("failed")
		h.logger.Warn(ctx, "Dropping connection after failed send",
			"message_type", msg.Type,
			"error", err,
		)
		h.Unregister(conn)
		_ = conn.Close()
		return err
	}

	h.metrics.IncDelivery("ok")
	return nil
}

// NotifyAwaiting sends msg to the connection awaiting ref, if it is still
// registered. It reports whether the message was delivered.
func (h *Hub) NotifyAwaiting(ctx context.Context, ref string, msg Message) bool {
	conn, ok := h.Release(ref)
	if !ok {
		return false
	}

	h.mu.RLock()
	_, live := h.conns[conn]
	h.mu.RUnlock()
	if !live {
		return false
	}

	return h.SendTo(ctx, conn, msg) == nil
}

// Broadcast sends msg to every registered connection concurrently and returns
// how many deliveries succeeded. One slow or broken connection does not hold
// up the others beyond the per-send timeout.
func (h *Hub) Broadcast(ctx context.Context, msg Message) int {
	conns := h.snapshot()
	if len(conns) == 0 {
		return 0
	}

	var delivered atomic.Int64
	var g errgroup.Group
	g.SetLimit(h.concurrency)

	for _, conn := range conns {
		g.Go(func() error {
			if err := h.SendTo(ctx, conn, msg); err == nil {
				delivered.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	h.logger.Debug(ctx, "Broadcast complete",
		"message_type", msg.Type,
		"recipients", len(conns),
		"delivered", delivered.Load(),
	)

	return int(delivered.Load())
}
