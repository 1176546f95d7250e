package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/grachmannico95/donation-be/internal/domain"
	"github.com/grachmannico95/donation-be/pkg/logger"
	"github.com/grachmannico95/donation-be/pkg/retry"
)

// Reconciliation is the outcome of applying one gateway callback.
type Reconciliation struct {
	Transaction *domain.Transaction
	Status      domain.TransactionStatus

	// Duplicate is set when the transaction was already terminal, so the
	// callback changed nothing.
	Duplicate bool

	// Donor is only set when the stored status is completed.
	Donor *domain.DonorSummary
}

type Reconciler struct {
	repo      domain.Repository
	logger    *logger.Logger
	retryOpts []retry.Option
}

func NewReconciler(repo domain.Repository, log *logger.Logger, opts ...retry.Option) *Reconciler {
	if len(opts) == 0 {
		opts = []retry.Option{
			retry.WithMaxAttempts(3),
			retry.WithBaseDelay(50 * time.Millisecond),
			retry.WithMaxDelay(time.Second),
		}
	}
	return &Reconciler{
		repo:      repo,
		logger:    log,
		retryOpts: opts,
	}
}

// Reconcile applies the callback to its stored transaction. Only the first
// terminal callback for a reference changes state; later ones come back with
// Duplicate set.
func (r *Reconciler) Reconcile(ctx context.Context, payload domain.CallbackPayload) (*Reconciliation, error) {
	resp := payload.Response

	tx, err := r.resolve(ctx, resp)
	if err != nil {
		return nil, err
	}
	ref := tx.ExternalReference
	ctx = logger.WithReference(ctx, ref)

	if tx.CheckoutRequestID != "" && resp.CheckoutRequestID != "" && tx.CheckoutRequestID != resp.CheckoutRequestID {
		r.logger.Warn(ctx, "Callback checkout id does not match stored attempt",
			"stored_checkout_request_id", tx.CheckoutRequestID,
			"callback_checkout_request_id", resp.CheckoutRequestID,
		)
		return nil, fmt.Errorf("%w: checkout id mismatch for %s", domain.ErrUnknownTransaction, ref)
	}

	target := domain.TransactionStatusFailed
	if resp.Succeeded() {
		target = domain.TransactionStatusCompleted
	}

	var updated bool
	err = retry.Do(ctx, func() error {
		var updateErr error
		updated, updateErr = r.repo.UpdateStatus(ctx, ref, target, resp.MpesaReceiptNumber, resp.ResultDesc)
		if updateErr != nil && !errors.Is(updateErr, domain.ErrStorageFailure) {
			return retry.Permanent(updateErr)
		}
		return updateErr
	}, r.retryOpts...)
	if err != nil {
		r.logger.Error(ctx, "Failed to update transaction status",
			"target_status", target,
			"error", err,
		)
		return nil, err
	}

	stored, err := r.repo.FindByExternalReference(ctx, ref)
	if err != nil {
		return nil, err
	}

	result := &Reconciliation{
		Transaction: stored,
		Status:      stored.Status,
		Duplicate:   !updated,
	}
	if stored.Status == domain.TransactionStatusCompleted {
		summary := stored.DonorSummary()
		result.Donor = &summary
	}

	if result.Duplicate {
		r.logger.Info(ctx, "Duplicate callback for terminal transaction",
			"stored_status", stored.Status,
			"callback_status", target,
		)
		if target == domain.TransactionStatusCompleted && stored.Status == domain.TransactionStatusFailed {
			r.logger.Warn(ctx, "Late success callback for failed transaction",
				"mpesa_receipt_number", resp.MpesaReceiptNumber,
				"result_desc", stored.ResultDesc,
			)
		}
	} else {
		r.logger.Info(ctx, "Transaction reconciled",
			"status", stored.Status,
			"mpesa_receipt_number", resp.MpesaReceiptNumber,
		)
	}

	// A callback that lost the race must not rewrite the donor record.
	if !result.Duplicate || stored.Status == target {
		r.recordDonor(ctx, stored, resp)
	}

	return result, nil
}

func (r *Reconciler) resolve(ctx context.Context, resp domain.CallbackResponse) (*domain.Transaction, error) {
	var (
		tx  *domain.Transaction
		err error
	)
	if resp.ExternalReference != "" {
		tx, err = r.repo.FindByExternalReference(ctx, resp.ExternalReference)
	} else {
		tx, err = r.repo.FindByCheckoutRequestID(ctx, resp.CheckoutRequestID)
	}

	if errors.Is(err, domain.ErrTransactionNotFound) {
		r.logger.Warn(ctx, "Callback for unknown transaction",
			"external_reference", resp.ExternalReference,
			"checkout_request_id", resp.CheckoutRequestID,
		)
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTransaction, firstNonEmpty(resp.ExternalReference, resp.CheckoutRequestID))
	}
	return tx, err
}

// recordDonor refreshes the donor summary record. Failures are logged only.
func (r *Reconciler) recordDonor(ctx context.Context, tx *domain.Transaction, resp domain.CallbackResponse) {
	checkoutID := firstNonEmpty(tx.CheckoutRequestID, resp.CheckoutRequestID)
	if checkoutID == "" {
		return
	}

	donor := domain.Donor{
		CheckoutRequestID: checkoutID,
		ExternalReference: tx.ExternalReference,
		ReceiptNumber:     resp.MpesaReceiptNumber,
		Status:            resp.Status,
		ResultDesc:        resp.ResultDesc,
	}
	if resp.ResultCode != nil {
		code := *resp.ResultCode
		donor.ResultCode = &code
	}

	if err := r.repo.UpsertDonor(ctx, donor); err != nil {
		r.logger.Warn(ctx, "Failed to update donor record",
			"checkout_request_id", checkoutID,
			"error", err,
		)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
