package storage

import (
	"cmp"
	"context"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/grachmannico95/donation-be/internal/domain"
)

// MemoryStore keeps transactions and donor records in process. The single
// mutex makes UpdateStatus an atomic compare-and-set.
type MemoryStore struct {
	transactions map[string]*domain.Transaction
	donors       map[string]*domain.Donor
	mu           sync.RWMutex
	now          func() time.Time
}

var _ domain.Repository = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions: make(map[string]*domain.Transaction),
		donors:       make(map[string]*domain.Donor),
		now:          time.Now,
	}
}

func (s *MemoryStore) Create(ctx context.Context, tx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transactions[tx.ExternalReference]; exists {
		return domain.ErrDuplicateReference
	}

	stored := *tx
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = s.now()
	}
	stored.UpdatedAt = stored.CreatedAt
	s.transactions[tx.ExternalReference] = &stored

	return nil
}

func (s *MemoryStore) FindByExternalReference(ctx context.Context, ref string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, exists := s.transactions[ref]
	if !exists {
		return nil, domain.ErrTransactionNotFound
	}

	found := *tx
	return &found, nil
}

func (s *MemoryStore) FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if checkoutRequestID == "" {
		return nil, domain.ErrTransactionNotFound
	}
	for _, tx := range s.transactions {
		if tx.CheckoutRequestID == checkoutRequestID {
			found := *tx
			return &found, nil
		}
	}

	return nil, domain.ErrTransactionNotFound
}

func (s *MemoryStore) SetCheckoutRequestID(ctx context.Context, ref, checkoutRequestID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, exists := s.transactions[ref]
	if !exists {
		return domain.ErrTransactionNotFound
	}

	tx.CheckoutRequestID = checkoutRequestID
	tx.UpdatedAt = s.now()

	return nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, ref string, status domain.TransactionStatus, receiptNumber, resultDesc string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, exists := s.transactions[ref]
	if !exists || tx.Status.IsTerminal() {
		return false, nil
	}

	tx.Status = status
	if receiptNumber != "" {
		tx.ReceiptNumber = receiptNumber
	}
	if resultDesc != "" {
		tx.ResultDesc = resultDesc
	}
	tx.UpdatedAt = s.now()

	return true, nil
}

func (s *MemoryStore) ListCompleted(ctx context.Context) iter.Seq2[domain.Transaction, error] {
	return func(yield func(domain.Transaction, error) bool) {
		s.mu.RLock()
		completed := make([]domain.Transaction, 0, len(s.transactions))
		for _, tx := range s.transactions {
			if tx.Status == domain.TransactionStatusCompleted {
				completed = append(completed, *tx)
			}
		}
		s.mu.RUnlock()

		slices.SortStableFunc(completed, func(a, b domain.Transaction) int {
			if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
				return c
			}
			return a.CreatedAt.Compare(b.CreatedAt)
		})

		for _, tx := range completed {
			if err := ctx.Err(); err != nil {
				yield(domain.Transaction{}, err)
				return
			}
			if !yield(tx, nil) {
				return
			}
		}
	}
}

func (s *MemoryStore) ExpirePending(ctx context.Context, cutoff time.Time, resultDesc string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []string
	now := s.now()
	for ref, tx := range s.transactions {
		if tx.Status == domain.TransactionStatusPending && tx.CreatedAt.Before(cutoff) {
			tx.Status = domain.TransactionStatusFailed
			tx.ResultDesc = resultDesc
			tx.UpdatedAt = now
			expired = append(expired, ref)
		}
	}
	slices.Sort(expired)

	return expired, nil
}

func (s *MemoryStore) UpsertDonor(ctx context.Context, donor domain.Donor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if donor.CheckoutRequestID == "" {
		return domain.ErrInvalidRequest
	}

	existing, exists := s.donors[donor.CheckoutRequestID]
	if !exists {
		existing = &domain.Donor{CheckoutRequestID: donor.CheckoutRequestID}
		s.donors[donor.CheckoutRequestID] = existing
	}
	mergeDonor(existing, donor)
	existing.UpdatedAt = s.now()

	return nil
}

func (s *MemoryStore) TopDonors(ctx context.Context, limit int) ([]domain.Donor, error) {
	s.mu.RLock()
	donors := make([]domain.Donor, 0, len(s.donors))
	for _, d := range s.donors {
		if d.ResultCode == nil || *d.ResultCode != domain.ResultCodeSuccess {
			continue
		}
		donors = append(donors, *d)
	}
	s.mu.RUnlock()

	slices.SortFunc(donors, func(a, b domain.Donor) int {
		return cmp.Compare(b.Amount, a.Amount)
	})
	if limit > 0 && len(donors) > limit {
		donors = donors[:limit]
	}

	return donors, nil
}

// mergeDonor copies the non-zero fields of src onto dst, mirroring a $set of
// an omitempty document.
func mergeDonor(dst *domain.Donor, src domain.Donor) {
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.Phone != "" {
		dst.Phone = src.Phone
	}
	if src.Amount != 0 {
		dst.Amount = src.Amount
	}
	if src.ExternalReference != "" {
		dst.ExternalReference = src.ExternalReference
	}
	if src.ReceiptNumber != "" {
		dst.ReceiptNumber = src.ReceiptNumber
	}
	if src.Status != "" {
		dst.Status = src.Status
	}
	if src.ResultCode != nil {
		code := *src.ResultCode
		dst.ResultCode = &code
	}
	if src.ResultDesc != "" {
		dst.ResultDesc = src.ResultDesc
	}
}
