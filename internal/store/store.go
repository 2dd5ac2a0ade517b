// Package store persists users and their transactions. Every transaction
// operation is scoped to an owner; a record belonging to someone else is
// reported as not found.
package store

import (
	"context"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

type TransactionStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	Get(ctx context.Context, uid, id string) (*models.Transaction, error)
	Update(ctx context.Context, uid, id string, patch dto.TransactionPatch) (*models.Transaction, error)
	Delete(ctx context.Context, uid, id string) error
	// Find returns one page ordered by occurredOn desc, then id.
	Find(ctx context.Context, uid string, q dto.TransactionQuery) ([]*models.Transaction, error)
	// Count ignores Offset and Limit.
	Count(ctx context.Context, uid string, q dto.TransactionQuery) (int, error)
	// Query streams every match to handle in no particular order. Offset and
	// Limit are ignored. A handle error stops iteration and is returned as is.
	Query(ctx context.Context, uid string, q dto.TransactionQuery, handle func(*models.Transaction) error) error
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, uid string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type Stores struct {
	Transactions TransactionStore
	Users        UserStore
}

var (
	_ TransactionStore = (*transactionStore)(nil)
	_ TransactionStore = (*mongoTransactionStore)(nil)
	_ TransactionStore = (*memoryTransactionStore)(nil)
	_ UserStore        = (*userStore)(nil)
	_ UserStore        = (*mongoUserStore)(nil)
	_ UserStore        = (*memoryUserStore)(nil)
)
