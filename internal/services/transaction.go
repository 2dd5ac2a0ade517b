package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/internal/query"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

type transactionTSStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	Get(ctx context.Context, uid, id string) (*models.Transaction, error)
	Update(ctx context.Context, uid, id string, patch dto.TransactionPatch) (*models.Transaction, error)
	Delete(ctx context.Context, uid, id string) error
	Find(ctx context.Context, uid string, q dto.TransactionQuery) ([]*models.Transaction, error)
	Count(ctx context.Context, uid string, q dto.TransactionQuery) (int, error)
}

type transactionService struct {
	Store    transactionTSStore
	clockNow func() time.Time
}

func NewTransactionService(store transactionTSStore) *transactionService {
	return &transactionService{
		Store:    store,
		clockNow: time.Now,
	}
}

func (s *transactionService) Create(ctx context.Context, uid string, req dto.CreateTransactionRequest) (*models.Transaction, error) {
	if !req.Kind.Valid() {
		return nil, errs.NewValidationError(`kind is required and must be "expense" or "income"`)
	}
	if req.Amount == nil {
		return nil, errs.NewValidationError("amount is required")
	}
	if err := validateAmount(*req.Amount); err != nil {
		return nil, err
	}

	now := s.clockNow().UTC()
	occurredOn := query.Day(now)
	if d := strings.TrimSpace(req.OccurredOn); d != "" {
		parsed, err := query.ParseDate(d)
		if err != nil {
			return nil, errs.NewValidationError(fmt.Sprintf("invalid occurredOn: %q", d))
		}
		occurredOn = parsed
	}

	tx := &models.Transaction{
		ID:          uuid.New().String(),
		OwnerID:     uid,
		Kind:        req.Kind,
		Amount:      *req.Amount,
		Category:    strings.TrimSpace(req.Category),
		Source:      strings.TrimSpace(req.Source),
		Merchant:    strings.TrimSpace(req.Merchant),
		Description: req.Description,
		OccurredOn:  occurredOn,
		Tags:        req.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Create(ctx, tx); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("transaction created", "transaction_id", tx.ID, "kind", tx.Kind)
	return tx, nil
}

func (s *transactionService) Get(ctx context.Context, uid, id string) (*models.Transaction, error) {
	return s.Store.Get(ctx, uid, id)
}

// Update applies only the allow-listed fields of req.
func (s *transactionService) Update(ctx context.Context, uid, id string, req dto.UpdateTransactionRequest) (*models.Transaction, error) {
	patch, err := buildPatch(req)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return s.Store.Get(ctx, uid, id)
	}

	tx, err := s.Store.Update(ctx, uid, id, patch)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("transaction updated", "transaction_id", id)
	return tx, nil
}

func (s *transactionService) Delete(ctx context.Context, uid, id string) error {
	if err := s.Store.Delete(ctx, uid, id); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("transaction deleted", "transaction_id", id)
	return nil
}

func (s *transactionService) List(ctx context.Context, uid string, req dto.ListTransactionsRequest) (dto.TransactionPage, error) {
	q, page, err := query.Build(req, s.clockNow())
	if err != nil {
		return dto.TransactionPage{}, err
	}

	total, err := s.Store.Count(ctx, uid, q)
	if err != nil {
		return dto.TransactionPage{}, err
	}
	items, err := s.Store.Find(ctx, uid, q)
	if err != nil {
		return dto.TransactionPage{}, err
	}

	return dto.TransactionPage{
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
		Items:    items,
	}, nil
}

// ---- Helpers ----

func validateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return errs.NewValidationError("amount must be a positive number")
	}
	return nil
}

func buildPatch(req dto.UpdateTransactionRequest) (dto.TransactionPatch, error) {
	patch := dto.TransactionPatch{
		Category:    req.Category,
		Source:      req.Source,
		Merchant:    req.Merchant,
		Description: req.Description,
		Tags:        req.Tags,
	}
	if req.Kind != nil {
		if !req.Kind.Valid() {
			return patch, errs.NewValidationError(fmt.Sprintf("invalid kind: %q", *req.Kind))
		}
		patch.Kind = req.Kind
	}
	if req.Amount != nil {
		if err := validateAmount(*req.Amount); err != nil {
			return patch, err
		}
		patch.Amount = req.Amount
	}
	if req.OccurredOn != nil {
		d, err := query.ParseDate(strings.TrimSpace(*req.OccurredOn))
		if err != nil {
			return patch, errs.NewValidationError(fmt.Sprintf("invalid occurredOn: %q", *req.OccurredOn))
		}
		patch.OccurredOn = &d
	}
	return patch, nil
}
