package storage

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/grachmannico95/donation-be/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPending(ref string, amount int64) *domain.Transaction {
	return &domain.Transaction{
		ExternalReference: ref,
		Amount:            amount,
		PhoneNumber:       "0700000000",
		CustomerName:      "Jane",
		Status:            domain.TransactionStatusPending,
	}
}

func TestMemoryStore_Create(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	err := store.Create(ctx, newPending("R1", 100))
	require.NoError(t, err)

	tx, err := store.FindByExternalReference(ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, "R1", tx.ExternalReference)
	assert.Equal(t, domain.TransactionStatusPending, tx.Status)
	assert.False(t, tx.CreatedAt.IsZero())
}

func TestMemoryStore_Create_DuplicateReference(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newPending("R1", 100)))

	err := store.Create(ctx, newPending("R1", 999))
	assert.ErrorIs(t, err, domain.ErrDuplicateReference)

	tx, err := store.FindByExternalReference(ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), tx.Amount)
}

func TestMemoryStore_FindByExternalReference_NotFound(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.FindByExternalReference(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestMemoryStore_FindReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, newPending("R1", 100)))

	tx, err := store.FindByExternalReference(ctx, "R1")
	require.NoError(t, err)
	tx.Status = domain.TransactionStatusCompleted

	stored, err := store.FindByExternalReference(ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusPending, stored.Status)
}

func TestMemoryStore_CheckoutRequestID(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, newPending("R1", 100)))

	require.NoError(t, store.SetCheckoutRequestID(ctx, "R1", "CQ1"))

	tx, err := store.FindByCheckoutRequestID(ctx, "CQ1")
	require.NoError(t, err)
	assert.Equal(t, "R1", tx.ExternalReference)

	_, err = store.FindByCheckoutRequestID(ctx, "")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)

	err = store.SetCheckoutRequestID(ctx, "missing", "CQ2")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestMemoryStore_UpdateStatus(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, newPending("R1", 100)))

	updated, err := store.UpdateStatus(ctx, "R1", domain.TransactionStatusCompleted, "MR1", "paid")
	require.NoError(t, err)
	assert.True(t, updated)

	tx, err := store.FindByExternalReference(ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, tx.Status)
	assert.Equal(t, "MR1", tx.ReceiptNumber)
	assert.Equal(t, "paid", tx.ResultDesc)
}

func TestMemoryStore_UpdateStatus_TerminalIsNoop(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, newPending("R1", 100)))

	updated, err := store.UpdateStatus(ctx, "R1", domain.TransactionStatusCompleted, "MR1", "")
	require.NoError(t, err)
	require.True(t, updated)

	updated, err = store.UpdateStatus(ctx, "R1", domain.TransactionStatusFailed, "MR2", "cancelled")
	require.NoError(t, err)
	assert.False(t, updated)

	tx, err := store.FindByExternalReference(ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, tx.Status)
	assert.Equal(t, "MR1", tx.ReceiptNumber)
}

func TestMemoryStore_UpdateStatus_UnknownReference(t *testing.T) {
	store := NewMemoryStore()

	updated, err := store.UpdateStatus(context.Background(), "missing", domain.TransactionStatusCompleted, "", "")
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestMemoryStore_UpdateStatus_ConcurrentSingleWinner(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, newPending("R1", 100)))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			updated, err := store.UpdateStatus(ctx, "R1", domain.TransactionStatusCompleted, "MR1", "")
			if err == nil && updated {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestMemoryStore_ListCompleted(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for ref, amount := range map[string]int64{"A": 50, "B": 300, "C": 100, "D": 999} {
		require.NoError(t, store.Create(ctx, newPending(ref, amount)))
	}
	for _, ref := range []string{"A", "B", "C"} {
		_, err := store.UpdateStatus(ctx, ref, domain.TransactionStatusCompleted, "MR-"+ref, "")
		require.NoError(t, err)
	}
	_, err := store.UpdateStatus(ctx, "D", domain.TransactionStatusFailed, "", "")
	require.NoError(t, err)

	var amounts []int64
	for tx, err := range store.ListCompleted(ctx) {
		require.NoError(t, err)
		assert.Equal(t, domain.TransactionStatusCompleted, tx.Status)
		amounts = append(amounts, tx.Amount)
	}

	assert.Equal(t, []int64{300, 100, 50}, amounts)
}

func TestMemoryStore_ListCompleted_StopsEarly(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	for _, ref := range []string{"A", "B", "C"} {
		require.NoError(t, store.Create(ctx, newPending(ref, 10)))
		_, err := store.UpdateStatus(ctx, ref, domain.TransactionStatusCompleted, "", "")
		require.NoError(t, err)
	}

	seen := 0
	for range store.ListCompleted(ctx) {
		seen++
		break
	}

	assert.Equal(t, 1, seen)
}

func TestMemoryStore_ExpirePending(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	old := newPending("OLD", 10)
	old.CreatedAt = now.Add(-time.Hour)
	fresh := newPending("FRESH", 10)
	fresh.CreatedAt = now
	done := newPending("DONE", 10)
	done.CreatedAt = now.Add(-time.Hour)

	require.NoError(t, store.Create(ctx, old))
	require.NoError(t, store.Create(ctx, fresh))
	require.NoError(t, store.Create(ctx, done))
	_, err := store.UpdateStatus(ctx, "DONE", domain.TransactionStatusCompleted, "MR", "")
	require.NoError(t, err)

	expired, err := store.ExpirePending(ctx, now.Add(-30*time.Minute), "expired")
	require.NoError(t, err)
	assert.Equal(t, []string{"OLD"}, expired)

	tx, err := store.FindByExternalReference(ctx, "OLD")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusFailed, tx.Status)
	assert.Equal(t, "expired", tx.ResultDesc)

	tx, err = store.FindByExternalReference(ctx, "FRESH")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusPending, tx.Status)

	tx, err = store.FindByExternalReference(ctx, "DONE")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, tx.Status)
}

func TestMemoryStore_UpsertDonor_Merges(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.UpsertDonor(ctx, domain.Donor{CheckoutRequestID: "CQ1", Name: "Jane", Amount: 100}))

	code := 0
	require.NoError(t, store.UpsertDonor(ctx, domain.Donor{
		CheckoutRequestID: "CQ1",
		ReceiptNumber:     "MR1",
		ResultCode:        &code,
		Status:            "Success",
	}))

	donors, err := store.TopDonors(ctx, 5)
	require.NoError(t, err)
	require.Len(t, donors, 1)
	assert.Equal(t, "Jane", donors[0].Name)
	assert.Equal(t, int64(100), donors[0].Amount)
	assert.Equal(t, "MR1", donors[0].ReceiptNumber)
	require.NotNil(t, donors[0].ResultCode)
	assert.Equal(t, 0, *donors[0].ResultCode)
}

func TestMemoryStore_UpsertDonor_RequiresCheckoutID(t *testing.T) {
	store := NewMemoryStore()

	err := store.UpsertDonor(context.Background(), domain.Donor{Name: "Jane"})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestMemoryStore_TopDonors_Limit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	paid := domain.ResultCodeSuccess
	for i, amount := range []int64{10, 500, 40, 70} {
		require.NoError(t, store.UpsertDonor(ctx, domain.Donor{
			CheckoutRequestID: string(rune('A' + i)),
			Amount:            amount,
			ResultCode:        &paid,
		}))
	}

	donors, err := store.TopDonors(ctx, 2)
	require.NoError(t, err)
	require.Len(t, donors, 2)
	assert.Equal(t, int64(500), donors[0].Amount)
	assert.Equal(t, int64(70), donors[1].Amount)
}

func TestMemoryStore_TopDonors_OnlyPaid(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	paid, cancelled := domain.ResultCodeSuccess, 1032

	require.NoError(t, store.UpsertDonor(ctx, domain.Donor{CheckoutRequestID: "PLEDGE", Amount: 9000}))
	require.NoError(t, store.UpsertDonor(ctx, domain.Donor{CheckoutRequestID: "CANCELLED", Amount: 5000, ResultCode: &cancelled}))
	require.NoError(t, store.UpsertDonor(ctx, domain.Donor{CheckoutRequestID: "PAID", Amount: 20, ResultCode: &paid}))

	donors, err := store.TopDonors(ctx, 5)
	require.NoError(t, err)
	require.Len(t, donors, 1)
	assert.Equal(t, "PAID", donors[0].CheckoutRequestID)
}
