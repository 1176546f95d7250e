package domain

import (
	"context"
	"iter"
	"time"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error
	FindByExternalReference(ctx context.Context, ref string) (*Transaction, error)
	FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*Transaction, error)
	SetCheckoutRequestID(ctx context.Context, ref, checkoutRequestID string) error

	// UpdateStatus applies only while the stored status is pending. It returns
	// false, nil when no row matched.
	UpdateStatus(ctx context.Context, ref string, status TransactionStatus, receiptNumber, resultDesc string) (bool, error)

	// ListCompleted yields completed transactions ordered by amount descending.
	ListCompleted(ctx context.Context) iter.Seq2[Transaction, error]

	// ExpirePending fails pending transactions created before cutoff and
	// returns the references it moved.
	ExpirePending(ctx context.Context, cutoff time.Time, resultDesc string) ([]string, error)
}

type DonorRepository interface {
	UpsertDonor(ctx context.Context, donor Donor) error

	// TopDonors returns paid donor records only, largest amount first.
	TopDonors(ctx context.Context, limit int) ([]Donor, error)
}

type Repository interface {
	TransactionRepository
	DonorRepository
}

type PaymentGateway interface {
	Initiate(ctx context.Context, req PaymentRequest) (*GatewayAck, error)
}
