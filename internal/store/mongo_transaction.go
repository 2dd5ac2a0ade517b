package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

type mongoTransactionStore struct {
	coll *mongo.Collection
}

func NewMongoTransactionStore(db *mongo.Database) *mongoTransactionStore {
	return &mongoTransactionStore{coll: db.Collection("transactions")}
}

// EnsureIndexes creates the owner/date index used by every listing and stats query.
func (s *mongoTransactionStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "occurredOn", Value: -1}},
	})
	if err != nil {
		return errs.NewDatabaseError("index", "failed to create transaction index", err)
	}
	return nil
}

func ownedBy(uid, id string) bson.D {
	return bson.D{{Key: "_id", Value: id}, {Key: "ownerId", Value: uid}}
}

func (s *mongoTransactionStore) Create(ctx context.Context, tx *models.Transaction) error {
	if _, err := s.coll.InsertOne(ctx, tx); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.NewAlreadyExistsError("transaction already exists")
		}
		return errs.NewDatabaseError("create", "failed to create transaction", err)
	}
	return nil
}

func (s *mongoTransactionStore) Get(ctx context.Context, uid, id string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.coll.FindOne(ctx, ownedBy(uid, id)).Decode(&tx); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NewNotFoundError("transaction not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get transaction", err)
	}
	return &tx, nil
}

func (s *mongoTransactionStore) Update(ctx context.Context, uid, id string, patch dto.TransactionPatch) (*models.Transaction, error) {
	set := append(transactionUpdate(patch), bson.E{Key: "updatedAt", Value: time.Now().UTC()})
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var tx models.Transaction
	err := s.coll.FindOneAndUpdate(ctx, ownedBy(uid, id), bson.D{{Key: "$set", Value: set}}, opts).Decode(&tx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NewNotFoundError("transaction not found")
		}
		return nil, errs.NewDatabaseError("update", "failed to update transaction", err)
	}
	return &tx, nil
}

func (s *mongoTransactionStore) Delete(ctx context.Context, uid, id string) error {
	res, err := s.coll.DeleteOne(ctx, ownedBy(uid, id))
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete transaction", err)
	}
	if res.DeletedCount == 0 {
		return errs.NewNotFoundError("transaction not found")
	}
	return nil
}

func (s *mongoTransactionStore) Find(ctx context.Context, uid string, q dto.TransactionQuery) ([]*models.Transaction, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "occurredOn", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(q.Offset))
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cur, err := s.coll.Find(ctx, transactionFilter(uid, q), opts)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list transactions", err)
	}
	out := []*models.Transaction{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to decode transactions", err)
	}
	return out, nil
}

func (s *mongoTransactionStore) Count(ctx context.Context, uid string, q dto.TransactionQuery) (int, error) {
	n, err := s.coll.CountDocuments(ctx, transactionFilter(uid, q))
	if err != nil {
		return 0, errs.NewDatabaseError("count", "failed to count transactions", err)
	}
	return int(n), nil
}

func (s *mongoTransactionStore) Query(ctx context.Context, uid string, q dto.TransactionQuery, handle func(*models.Transaction) error) error {
	cur, err := s.coll.Find(ctx, transactionFilter(uid, q))
	if err != nil {
		return errs.NewDatabaseError("read", "failed to query transactions", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var tx models.Transaction
		if err := cur.Decode(&tx); err != nil {
			return errs.NewDatabaseError("read", "failed to decode transaction", err)
		}
		if err := handle(&tx); err != nil {
			return err
		}
	}
	if err := cur.Err(); err != nil {
		return errs.NewDatabaseError("read", "failed to query transactions", err)
	}
	return nil
}
