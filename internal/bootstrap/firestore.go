package bootstrap

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/finance-tracker/internal/config"
	"github.com/GregMSThompson/finance-tracker/internal/store"
)

func InitFirestore(ctx context.Context, projectID string) (*firestore.Client, error) {
	return firestore.NewClient(ctx, projectID)
}

func (bs *Bootstrap) initFirestore(ctx context.Context, cfg *config.Config) error {
	client, err := InitFirestore(ctx, cfg.ProjectID)
	if err != nil {
		return err
	}
	bs.cleanup = append(bs.cleanup, client.Close)
	bs.Stores = store.Stores{
		Transactions: store.NewTransactionStore(client),
		Users:        store.NewUserStore(client),
	}
	return nil
}
