package service

import (
	"context"
	"time"

	"github.com/grachmannico95/donation-be/internal/domain"
	"github.com/grachmannico95/donation-be/internal/eventbus"
	"github.com/grachmannico95/donation-be/internal/metrics"
	"github.com/grachmannico95/donation-be/pkg/logger"
)

const (
	ExpiredResultDesc = "expired: no callback received"

	DefaultPendingExpiry = 30 * time.Minute
	DefaultSweepInterval = time.Minute
)

// PendingSweeper fails transactions that stayed pending past their TTL, so a
// lost callback does not leave them pending forever. Each expiry is published
// as a failed donation so the waiting client hears about it.
type PendingSweeper struct {
	repo      domain.TransactionRepository
	publisher eventbus.Publisher
	ttl      time.Duration
	interval time.Duration
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

// NewPendingSweeper returns a sweeper; a zero ttl disables it.
func NewPendingSweeper(
	repo domain.TransactionRepository,
	publisher eventbus.Publisher,
	ttl, interval time.Duration,
	m *metrics.Metrics,
	log *logger.Logger,
) *PendingSweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &PendingSweeper{
		repo:      repo,
		publisher: publisher,
		ttl:       ttl,
		interval:  interval,
		metrics:   m,
		logger:    log,
	}
}

func (s *PendingSweeper) Enabled() bool {
	return s.ttl > 0
}

// Run sweeps on every tick until ctx is done.
func (s *PendingSweeper) Run(ctx context.Context) {
	if !s.Enabled() {
		s.logger.Info(ctx, "Pending expiry disabled")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info(ctx, "Pending sweeper started",
		"ttl", s.ttl.String(),
		"interval", s.interval.String(),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Pending sweeper stopped")
			return
		case now := <-ticker.C:
			if _, err := s.SweepOnce(ctx, now); err != nil {
				s.logger.Error(ctx, "Pending sweep failed", "error", err)
			}
		}
	}
}

func (s *PendingSweeper) SweepOnce(ctx context.Context, now time.Time) (int64, error) {
	if !s.Enabled() {
		return 0, nil
	}

	refs, err := s.repo.ExpirePending(ctx, now.Add(-s.ttl), ExpiredResultDesc)
	expired := int64(len(refs))
	if expired > 0 {
		s.metrics.AddExpired(expired)
		s.logger.Info(ctx, "Expired pending transactions", "count", expired)
	}
	s.publishExpired(ctx, refs)

	return expired, err
}

func (s *PendingSweeper) publishExpired(ctx context.Context, refs []string) {
	if s.publisher == nil {
		return
	}

	for _, ref := range refs {
		event := eventbus.NewEvent(eventbus.EventTypeDonationFailed, eventbus.DonationFailedEvent{
			ExternalReference: ref,
			ResultDesc:        ExpiredResultDesc,
		})
		if err := s.publisher.Publish(logger.WithReference(ctx, ref), event); err != nil {
			s.logger.Warn(ctx, "Failed to publish expiry",
				"external_reference", ref,
				"error", err,
			)
		}
	}
}
