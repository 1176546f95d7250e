package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/grachmannico95/donation-be/internal/domain"
	"github.com/grachmannico95/donation-be/internal/eventbus"
	"github.com/grachmannico95/donation-be/internal/metrics"
	"github.com/grachmannico95/donation-be/pkg/logger"
)

const (
	DefaultTopDonorsLimit = 5
	MaxTopDonorsLimit     = 50
)

type DonationService interface {
	InitiateDonation(ctx context.Context, req domain.PaymentRequest) (*InitiateResult, error)
	HandleCallback(ctx context.Context, payload domain.CallbackPayload) (*Reconciliation, error)
	DonorList(ctx context.Context) ([]domain.DonorSummary, error)
	TopDonors(ctx context.Context, limit int) ([]domain.TopDonor, error)
}

type InitiateResult struct {
	Ack *domain.GatewayAck
}

type donationService struct {
	repo       domain.Repository
	gateway    domain.PaymentGateway
	reconciler *Reconciler
	publisher  eventbus.Publisher
	metrics    *metrics.Metrics
	logger     *logger.Logger
}

func NewDonationService(
	repo domain.Repository,
	gateway domain.PaymentGateway,
	reconciler *Reconciler,
	publisher eventbus.Publisher,
	m *metrics.Metrics,
	log *logger.Logger,
) DonationService {
	return &donationService{
		repo:       repo,
		gateway:    gateway,
		reconciler: reconciler,
		publisher:  publisher,
		metrics:    m,
		logger:     log,
	}
}

func validatePaymentRequest(req *domain.PaymentRequest) error {
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.ExternalReference = strings.TrimSpace(req.ExternalReference)
	req.CustomerName = strings.TrimSpace(req.CustomerName)

	switch {
	case req.Amount <= 0:
		return fmt.Errorf("%w: amount must be positive", domain.ErrInvalidRequest)
	case req.PhoneNumber == "":
		return fmt.Errorf("%w: phone number is required", domain.ErrInvalidRequest)
	case req.ExternalReference == "":
		return fmt.Errorf("%w: external reference is required", domain.ErrInvalidRequest)
	}

	if req.CustomerName == "" {
		req.CustomerName = domain.DefaultCustomerName
	}
	return nil
}

// InitiateDonation records a pending transaction and asks the gateway for an
// STK push. It returns as soon as the gateway acknowledges; the outcome
// arrives later through HandleCallback.
func (s *donationService) InitiateDonation(ctx context.Context, req domain.PaymentRequest) (*InitiateResult, error) {
	if err := validatePaymentRequest(&req); err != nil {
		s.metrics.IncInitiation("invalid")
		return nil, err
	}
	ctx = logger.WithReference(ctx, req.ExternalReference)

	tx := &domain.Transaction{
		ExternalReference: req.ExternalReference,
		Amount:            req.Amount,
		PhoneNumber:       req.PhoneNumber,
		CustomerName:      req.CustomerName,
		Status:            domain.TransactionStatusPending,
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		if errors.Is(err, domain.ErrDuplicateReference) {
			s.metrics.IncInitiation("duplicate")
			s.logger.Warn(ctx, "Duplicate external reference")
		} else {
			s.metrics.IncInitiation("storage_error")
			s.logger.Error(ctx, "Failed to create transaction", "error", err)
		}
		return nil, err
	}

	s.logger.Info(ctx, "Transaction created, initiating STK push",
		"amount", req.Amount,
	)

	ack, err := s.gateway.Initiate(ctx, req)
	if err != nil {
		s.metrics.IncInitiation("gateway_error")
		s.logger.Error(ctx, "STK push failed", "error", err)
		return nil, err
	}

	if !ack.Success {
		s.metrics.IncInitiation("rejected")
		s.logger.Warn(ctx, "Gateway did not accept STK push",
			"gateway_status", ack.Status,
		)
		return nil, &domain.GatewayRejectedError{
			StatusCode: 200,
			Body:       fmt.Sprintf("gateway status %q", ack.Status),
		}
	}

	if ack.CheckoutRequestID != "" {
		if err := s.repo.SetCheckoutRequestID(ctx, req.ExternalReference, ack.CheckoutRequestID); err != nil {
			s.logger.Warn(ctx, "Failed to store checkout request id",
				"checkout_request_id", ack.CheckoutRequestID,
				"error", err,
			)
		}

		donor := domain.Donor{
			CheckoutRequestID: ack.CheckoutRequestID,
			Name:              req.CustomerName,
			Phone:             req.PhoneNumber,
			Amount:            req.Amount,
			ExternalReference: req.ExternalReference,
		}
		if err := s.repo.UpsertDonor(ctx, donor); err != nil {
			s.logger.Warn(ctx, "Failed to store donor record",
				"checkout_request_id", ack.CheckoutRequestID,
				"error", err,
			)
		}
	}

	s.metrics.IncInitiation("accepted")
	s.logger.Info(ctx, "STK push accepted",
		"checkout_request_id", ack.CheckoutRequestID,
	)

	return &InitiateResult{Ack: ack}, nil
}

// HandleCallback reconciles a gateway callback and hands the outcome to the
// event bus for delivery to clients.
func (s *donationService) HandleCallback(ctx context.Context, payload domain.CallbackPayload) (*Reconciliation, error) {
	result, err := s.reconciler.Reconcile(ctx, payload)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownTransaction) {
			s.metrics.IncCallback("unknown")
		} else {
			s.metrics.IncCallback("error")
		}
		return nil, err
	}

	ref := result.Transaction.ExternalReference
	ctx = logger.WithReference(ctx, ref)

	outcome := string(result.Status)
	if result.Duplicate {
		outcome = "duplicate"
	}
	s.metrics.IncCallback(outcome)

	var event eventbus.Event
	switch {
	case result.Status == domain.TransactionStatusCompleted && result.Donor != nil:
		event = eventbus.NewEvent(eventbus.EventTypeDonationCompleted, eventbus.DonationCompletedEvent{
			ExternalReference: ref,
			Donor:             *result.Donor,
			Replay:            result.Duplicate,
		})
	case result.Status == domain.TransactionStatusFailed && !result.Duplicate:
		event = eventbus.NewEvent(eventbus.EventTypeDonationFailed, eventbus.DonationFailedEvent{
			ExternalReference: ref,
			ResultDesc:        firstNonEmpty(payload.Response.ResultDesc, result.Transaction.ResultDesc),
		})
	default:
		return result, nil
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn(ctx, "Failed to publish donation outcome",
			"event_type", event.Type,
			"error", err,
		)
	}

	return result, nil
}

func (s *donationService) DonorList(ctx context.Context) ([]domain.DonorSummary, error) {
	donors := []domain.DonorSummary{}
	for tx, err := range s.repo.ListCompleted(ctx) {
		if err != nil {
			s.logger.Error(ctx, "Failed to list completed donations", "error", err)
			return nil, err
		}
		donors = append(donors, tx.DonorSummary())
	}
	return donors, nil
}

func (s *donationService) TopDonors(ctx context.Context, limit int) ([]domain.TopDonor, error) {
	if limit <= 0 {
		limit = DefaultTopDonorsLimit
	}
	if limit > MaxTopDonorsLimit {
		limit = MaxTopDonorsLimit
	}

	donors, err := s.repo.TopDonors(ctx, limit)
	if err != nil {
		s.logger.Error(ctx, "Failed to get top donors", "error", err)
		return nil, err
	}

	top := make([]domain.TopDonor, 0, len(donors))
	for _, d := range donors {
		top = append(top, d.TopDonor())
	}
	return top, nil
}
