package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

type transactionStore struct {
	client *firestore.Client
}

func NewTransactionStore(client *firestore.Client) *transactionStore {
	return &transactionStore{client: client}
}

func (s *transactionStore) txCollection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("transactions")
}

func (s *transactionStore) Create(ctx context.Context, tx *models.Transaction) error {
	_, err := s.txCollection(tx.OwnerID).Doc(tx.ID).Create(ctx, tx)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errs.NewAlreadyExistsError("transaction already exists")
		}
		return errs.NewDatabaseError("create", "failed to create transaction", err)
	}
	return nil
}

func (s *transactionStore) Get(ctx context.Context, uid, id string) (*models.Transaction, error) {
	doc, err := s.txCollection(uid).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("transaction not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get transaction", err)
	}
	var tx models.Transaction
	if err := doc.DataTo(&tx); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse transaction data", err)
	}
	return &tx, nil
}

// Update applies patch inside a Firestore transaction so concurrent edits of
// the same record do not interleave.
func (s *transactionStore) Update(ctx context.Context, uid, id string, patch dto.TransactionPatch) (*models.Transaction, error) {
	ref := s.txCollection(uid).Doc(id)
	var updated models.Transaction

	err := s.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
		doc, err := t.Get(ref)
		if err != nil {
			return err
		}
		var tx models.Transaction
		if err := doc.DataTo(&tx); err != nil {
			return err
		}
		patch.Apply(&tx)
		tx.UpdatedAt = time.Now().UTC()
		updated = tx
		return t.Set(ref, &tx)
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("transaction not found")
		}
		return nil, errs.NewDatabaseError("update", "failed to update transaction", err)
	}
	return &updated, nil
}

func (s *transactionStore) Delete(ctx context.Context, uid, id string) error {
	_, err := s.txCollection(uid).Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("transaction not found")
		}
		return errs.NewDatabaseError("delete", "failed to delete transaction", err)
	}
	return nil
}

// buildQuery pushes every predicate Firestore can evaluate. Search is
// substring matching, which Firestore has no operator for.
func (s *transactionStore) buildQuery(uid string, q dto.TransactionQuery) firestore.Query {
	fq := s.txCollection(uid).Query
	if q.Kind != nil {
		fq = fq.Where("kind", "==", string(*q.Kind))
	}
	if q.Category != nil {
		fq = fq.Where("category", "==", *q.Category)
	}
	if q.Source != nil {
		fq = fq.Where("source", "==", *q.Source)
	}
	if q.DateFrom != nil {
		fq = fq.Where("occurredOn", ">=", *q.DateFrom)
	}
	if q.DateTo != nil {
		fq = fq.Where("occurredOn", "<=", *q.DateTo)
	}
	return fq
}

func (s *transactionStore) Find(ctx context.Context, uid string, q dto.TransactionQuery) ([]*models.Transaction, error) {
	fq := s.buildQuery(uid, q).
		OrderBy("occurredOn", firestore.Desc).
		OrderBy("id", firestore.Asc)

	if q.Search == nil {
		fq = fq.Offset(q.Offset)
		if q.Limit > 0 {
			fq = fq.Limit(q.Limit)
		}
	}

	out := []*models.Transaction{}
	err := s.iterate(ctx, fq, q.Search, func(tx *models.Transaction) error {
		out = append(out, tx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if q.Search != nil {
		out = paginate(out, q.Offset, q.Limit)
	}
	return out, nil
}

func (s *transactionStore) Count(ctx context.Context, uid string, q dto.TransactionQuery) (int, error) {
	fq := s.buildQuery(uid, q)

	if q.Search != nil {
		n := 0
		err := s.iterate(ctx, fq, q.Search, func(*models.Transaction) error {
			n++
			return nil
		})
		return n, err
	}

	res, err := fq.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, errs.NewDatabaseError("count", "failed to count transactions", err)
	}
	switch v := res["all"].(type) {
	case *firestorepb.Value:
		return int(v.GetIntegerValue()), nil
	case int64:
		return int(v), nil
	default:
		return 0, errs.NewDatabaseError("count", "unexpected count result", nil)
	}
}

func (s *transactionStore) Query(ctx context.Context, uid string, q dto.TransactionQuery, handle func(*models.Transaction) error) error {
	return s.iterate(ctx, s.buildQuery(uid, q), q.Search, handle)
}

func (s *transactionStore) iterate(ctx context.Context, fq firestore.Query, search *string, handle func(*models.Transaction) error) error {
	log := logger.FromContext(ctx)
	iter := fq.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return errs.NewDatabaseError("read", "failed to query transactions", err)
		}
		var tx models.Transaction
		if err := doc.DataTo(&tx); err != nil {
			log.Error("failed to parse transaction", "doc_id", doc.Ref.ID, "error", err)
			return errs.NewDatabaseError("read", "failed to parse transaction data", err)
		}
		if search != nil && !matchesSearch(&tx, *search) {
			continue
		}
		if err := handle(&tx); err != nil {
			return err
		}
	}
}
