package storage

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/grachmannico95/donation-be/internal/domain"
)

const (
	TransactionsCollection = "transactions"
	DonorsCollection       = "donors"
)

// MongoStore persists transactions and donor records in MongoDB. Status
// transitions are single conditional updates filtered on status=pending.
type MongoStore struct {
	transactions *mongo.Collection
	donors       *mongo.Collection
	now          func() time.Time
}

var _ domain.Repository = (*MongoStore)(nil)

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		transactions: db.Collection(TransactionsCollection),
		donors:       db.Collection(DonorsCollection),
		now:          time.Now,
	}
}

// EnsureIndexes creates the unique external reference index that backs
// ErrDuplicateReference, plus the lookup and listing indexes.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	txIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "external_reference", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "checkout_request_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "amount", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}}},
	}
	if _, err := s.transactions.Indexes().CreateMany(ctx, txIndexes); err != nil {
		return fmt.Errorf("%w: create transaction indexes: %v", domain.ErrStorageFailure, err)
	}

	donorIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "checkout_request_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "amount", Value: -1}}},
	}
	if _, err := s.donors.Indexes().CreateMany(ctx, donorIndexes); err != nil {
		return fmt.Errorf("%w: create donor indexes: %v", domain.ErrStorageFailure, err)
	}

	return nil
}

func (s *MongoStore) Create(ctx context.Context, tx *domain.Transaction) error {
	_, err := s.FindByExternalReference(ctx, tx.ExternalReference)
	switch {
	case err == nil:
		return domain.ErrDuplicateReference
	case !errors.Is(err, domain.ErrTransactionNotFound):
		return err
	}

	doc := *tx
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = s.now()
	}
	doc.UpdatedAt = doc.CreatedAt

	if _, err := s.transactions.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateReference
		}
		return fmt.Errorf("%w: insert transaction: %v", domain.ErrStorageFailure, err)
	}

	return nil
}

func (s *MongoStore) FindByExternalReference(ctx context.Context, ref string) (*domain.Transaction, error) {
	return s.findOne(ctx, bson.M{"external_reference": ref})
}

func (s *MongoStore) FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*domain.Transaction, error) {
	if checkoutRequestID == "" {
		return nil, domain.ErrTransactionNotFound
	}
	return s.findOne(ctx, bson.M{"checkout_request_id": checkoutRequestID})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (*domain.Transaction, error) {
	var tx domain.Transaction
	if err := s.transactions.FindOne(ctx, filter).Decode(&tx); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("%w: find transaction: %v", domain.ErrStorageFailure, err)
	}
	return &tx, nil
}

func (s *MongoStore) SetCheckoutRequestID(ctx context.Context, ref, checkoutRequestID string) error {
	res, err := s.transactions.UpdateOne(ctx,
		bson.M{"external_reference": ref},
		bson.M{"$set": bson.M{
			"checkout_request_id": checkoutRequestID,
			"updated_at":          s.now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("%w: set checkout request id: %v", domain.ErrStorageFailure, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (s *MongoStore) UpdateStatus(ctx context.Context, ref string, status domain.TransactionStatus, receiptNumber, resultDesc string) (bool, error) {
	set := bson.M{
		"status":     status,
		"updated_at": s.now(),
	}
	if receiptNumber != "" {
		set["mpesa_receipt_number"] = receiptNumber
	}
	if resultDesc != "" {
		set["result_desc"] = resultDesc
	}

	res, err := s.transactions.UpdateOne(ctx,
		bson.M{
			"external_reference": ref,
			"status":             domain.TransactionStatusPending,
		},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, fmt.Errorf("%w: update status: %v", domain.ErrStorageFailure, err)
	}

	return res.ModifiedCount > 0, nil
}

func (s *MongoStore) ListCompleted(ctx context.Context) iter.Seq2[domain.Transaction, error] {
	return func(yield func(domain.Transaction, error) bool) {
		opts := options.Find().SetSort(bson.D{
			{Key: "amount", Value: -1},
			{Key: "created_at", Value: 1},
		})
		cur, err := s.transactions.Find(ctx, bson.M{"status": domain.TransactionStatusCompleted}, opts)
		if err != nil {
			yield(domain.Transaction{}, fmt.Errorf("%w: list completed: %v", domain.ErrStorageFailure, err))
			return
		}
		defer cur.Close(ctx)

		for cur.Next(ctx) {
			var tx domain.Transaction
			if err := cur.Decode(&tx); err != nil {
				yield(domain.Transaction{}, fmt.Errorf("%w: decode transaction: %v", domain.ErrStorageFailure, err))
				return
			}
			if !yield(tx, nil) {
				return
			}
		}
		if err := cur.Err(); err != nil {
			yield(domain.Transaction{}, fmt.Errorf("%w: iterate completed: %v", domain.ErrStorageFailure, err))
		}
	}
}

// ExpirePending moves each stale row with its own conditional update, so a
// callback landing mid-sweep keeps its outcome and is not reported as expired.
func (s *MongoStore) ExpirePending(ctx context.Context, cutoff time.Time, resultDesc string) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"external_reference": 1})
	cur, err := s.transactions.Find(ctx,
		bson.M{
			"status":     domain.TransactionStatusPending,
			"created_at": bson.M{"$lt": cutoff},
		},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: find stale pending: %v", domain.ErrStorageFailure, err)
	}

	var stale []struct {
		ExternalReference string `bson:"external_reference"`
	}
	if err := cur.All(ctx, &stale); err != nil {
		return nil, fmt.Errorf("%w: decode stale pending: %v", domain.ErrStorageFailure, err)
	}

	expired := make([]string, 0, len(stale))
	for _, row := range stale {
		res, err := s.transactions.UpdateOne(ctx,
			bson.M{
				"external_reference": row.ExternalReference,
				"status":             domain.TransactionStatusPending,
			},
			bson.M{"$set": bson.M{
				"status":      domain.TransactionStatusFailed,
				"result_desc": resultDesc,
				"updated_at":  s.now(),
			}},
		)
		if err != nil {
			return expired, fmt.Errorf("%w: expire pending: %v", domain.ErrStorageFailure, err)
		}
		if res.ModifiedCount > 0 {
			expired = append(expired, row.ExternalReference)
		}
	}
	return expired, nil
}

func (s *MongoStore) UpsertDonor(ctx context.Context, donor domain.Donor) error {
	if donor.CheckoutRequestID == "" {
		return domain.ErrInvalidRequest
	}
	donor.UpdatedAt = s.now()

	_, err := s.donors.UpdateOne(ctx,
		bson.M{"checkout_request_id": donor.CheckoutRequestID},
		bson.M{"$set": donor},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("%w: upsert donor: %v", domain.ErrStorageFailure, err)
	}
	return nil
}

func (s *MongoStore) TopDonors(ctx context.Context, limit int) ([]domain.Donor, error) {
	opts := options.Find().SetSort(bson.D{{Key: "amount", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.donors.Find(ctx, bson.M{"result_code": domain.ResultCodeSuccess}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find donors: %v", domain.ErrStorageFailure, err)
	}
	defer cur.Close(ctx)

	donors := []domain.Donor{}
	if err := cur.All(ctx, &donors); err != nil {
		return nil, fmt.Errorf("%w: decode donors: %v", domain.ErrStorageFailure, err)
	}
	return donors, nil
}
