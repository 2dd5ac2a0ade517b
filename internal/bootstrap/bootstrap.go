package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GregMSThompson/finance-tracker/internal/config"
	"github.com/GregMSThompson/finance-tracker/internal/store"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

type Bootstrap struct {
	Log    *slog.Logger
	Stores store.Stores

	cleanup []func() error
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	if err := cfg.Validate(); err != nil {
		return bs, err
	}

	var err error
	switch cfg.StoreBackend {
	case config.BackendFirestore:
		err = bs.initFirestore(applicationCtx, cfg)
	case config.BackendMongo:
		err = bs.initMongo(applicationCtx, cfg)
	case config.BackendMemory:
		bs.Stores = store.NewMemoryStores()
	default:
		err = fmt.Errorf("unsupported store backend: %s", cfg.StoreBackend)
	}
	if err != nil {
		return bs, err
	}

	bs.Log.Info("store initialized", "backend", cfg.StoreBackend)
	return bs, nil
}

// Close releases backend clients in reverse order of creation.
func (bs *Bootstrap) Close() {
	for i := len(bs.cleanup) - 1; i >= 0; i-- {
		if err := bs.cleanup[i](); err != nil {
			bs.Log.Error("cleanup failed", "error", err)
		}
	}
	bs.cleanup = nil
}
