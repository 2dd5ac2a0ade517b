package store

import (
	"context"
	"sync"
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

// memoryTransactionStore keeps transactions per owner. Records are copied on
// the way in and out so callers never share state with the store.
type memoryTransactionStore struct {
	mu   sync.RWMutex
	byID map[string]map[string]models.Transaction // owner -> id -> tx
}

func NewMemoryTransactionStore() *memoryTransactionStore {
	return &memoryTransactionStore{byID: map[string]map[string]models.Transaction{}}
}

func cloneTx(tx models.Transaction) *models.Transaction {
	if tx.Tags != nil {
		tx.Tags = append([]string(nil), tx.Tags...)
	}
	return &tx
}

func (s *memoryTransactionStore) Create(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned, ok := s.byID[tx.OwnerID]
	if !ok {
		owned = map[string]models.Transaction{}
		s.byID[tx.OwnerID] = owned
	}
	if _, exists := owned[tx.ID]; exists {
		return errs.NewAlreadyExistsError("transaction already exists")
	}
	owned[tx.ID] = *cloneTx(*tx)
	return nil
}

func (s *memoryTransactionStore) Get(_ context.Context, uid, id string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.byID[uid][id]
	if !ok {
		return nil, errs.NewNotFoundError("transaction not found")
	}
	return cloneTx(tx), nil
}

func (s *memoryTransactionStore) Update(_ context.Context, uid, id string, patch dto.TransactionPatch) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.byID[uid][id]
	if !ok {
		return nil, errs.NewNotFoundError("transaction not found")
	}
	patch.Apply(&tx)
	tx.UpdatedAt = time.Now().UTC()
	s.byID[uid][id] = tx
	return cloneTx(tx), nil
}

func (s *memoryTransactionStore) Delete(_ context.Context, uid, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[uid][id]; !ok {
		return errs.NewNotFoundError("transaction not found")
	}
	delete(s.byID[uid], id)
	return nil
}

func (s *memoryTransactionStore) matching(uid string, q dto.TransactionQuery) []*models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.Transaction{}
	for _, tx := range s.byID[uid] {
		if matches(&tx, q) {
			out = append(out, cloneTx(tx))
		}
	}
	return out
}

func (s *memoryTransactionStore) Find(_ context.Context, uid string, q dto.TransactionQuery) ([]*models.Transaction, error) {
	out := s.matching(uid, q)
	sortNewestFirst(out)
	return paginate(out, q.Offset, q.Limit), nil
}

func (s *memoryTransactionStore) Count(_ context.Context, uid string, q dto.TransactionQuery) (int, error) {
	return len(s.matching(uid, q)), nil
}

func (s *memoryTransactionStore) Query(ctx context.Context, uid string, q dto.TransactionQuery, handle func(*models.Transaction) error) error {
	for _, tx := range s.matching(uid, q) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := handle(tx); err != nil {
			return err
		}
	}
	return nil
}

type memoryUserStore struct {
	mu      sync.RWMutex
	byID    map[string]models.User
	byEmail map[string]string
}

func NewMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{
		byID:    map[string]models.User{},
		byEmail: map[string]string{},
	}
}

func (s *memoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[user.Email]; ok {
		return errs.NewAlreadyExistsError("email already registered")
	}
	if _, ok := s.byID[user.ID]; ok {
		return errs.NewAlreadyExistsError("user already exists")
	}
	s.byID[user.ID] = *user
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *memoryUserStore) Get(_ context.Context, uid string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[uid]
	if !ok {
		return nil, errs.NewNotFoundError("user not found")
	}
	return &user, nil
}

func (s *memoryUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	uid, ok := s.byEmail[email]
	s.mu.RUnlock()
	if !ok {
		return nil, errs.NewNotFoundError("user not found")
	}
	return s.Get(ctx, uid)
}

func NewMemoryStores() Stores {
	return Stores{
		Transactions: NewMemoryTransactionStore(),
		Users:        NewMemoryUserStore(),
	}
}
