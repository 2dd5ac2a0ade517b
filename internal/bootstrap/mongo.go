package bootstrap

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/GregMSThompson/finance-tracker/internal/config"
	"github.com/GregMSThompson/finance-tracker/internal/store"
)

const mongoConnectTimeout = 10 * time.Second

// InitMongo connects and pings, so a bad URI fails at startup.
func InitMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

func (bs *Bootstrap) initMongo(ctx context.Context, cfg *config.Config) error {
	client, err := InitMongo(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	bs.cleanup = append(bs.cleanup, func() error {
		return client.Disconnect(context.Background())
	})

	db := client.Database(cfg.MongoDatabase)
	txs := store.NewMongoTransactionStore(db)
	users := store.NewMongoUserStore(db)
	if err := txs.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := users.EnsureIndexes(ctx); err != nil {
		return err
	}

	bs.Stores = store.Stores{Transactions: txs, Users: users}
	return nil
}
