package dto

import (
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/models"
)

// TransactionQuery is the store-level predicate. Every field is optional;
// the owner is always passed separately.
type TransactionQuery struct {
	Kind     *models.Kind
	Category *string
	Source   *string
	Search   *string    // case-insensitive substring of description or merchant
	DateFrom *time.Time // inclusive
	DateTo   *time.Time // inclusive
	Offset   int
	Limit    int // 0 means no limit
}

// ListTransactionsRequest holds the raw listing options as they arrive on the query string.
type ListTransactionsRequest struct {
	Kind     string
	Month    string
	Year     string
	Start    string
	End      string
	Category string
	Source   string
	Search   string
	Page     string
	PageSize string
}

type Page struct {
	Page     int
	PageSize int
}

type TransactionPage struct {
	Total    int                   `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"pageSize"`
	Items    []*models.Transaction `json:"items"`
}

type CreateTransactionRequest struct {
	Kind        models.Kind `json:"kind"`
	Amount      *float64    `json:"amount"`
	Category    string      `json:"category,omitempty"`
	Source      string      `json:"source,omitempty"`
	Merchant    string      `json:"merchant,omitempty"`
	Description string      `json:"description,omitempty"`
	OccurredOn  string      `json:"occurredOn,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
}

// UpdateTransactionRequest lists the only fields an edit may touch.
// Nil means "leave unchanged".
type UpdateTransactionRequest struct {
	Kind        *models.Kind `json:"kind,omitempty"`
	Amount      *float64     `json:"amount,omitempty"`
	Category    *string      `json:"category,omitempty"`
	Source      *string      `json:"source,omitempty"`
	Merchant    *string      `json:"merchant,omitempty"`
	Description *string      `json:"description,omitempty"`
	OccurredOn  *string      `json:"occurredOn,omitempty"`
	Tags        *[]string    `json:"tags,omitempty"`
}

// TransactionPatch is the validated form of UpdateTransactionRequest handed to the store.
type TransactionPatch struct {
	Kind        *models.Kind
	Amount      *float64
	Category    *string
	Source      *string
	Merchant    *string
	Description *string
	OccurredOn  *time.Time
	Tags        *[]string
}

func (p TransactionPatch) IsEmpty() bool {
	return p.Kind == nil && p.Amount == nil && p.Category == nil && p.Source == nil &&
		p.Merchant == nil && p.Description == nil && p.OccurredOn == nil && p.Tags == nil
}

// Apply copies the patched fields onto tx. Identity fields are never touched.
func (p TransactionPatch) Apply(tx *models.Transaction) {
	if p.Kind != nil {
		tx.Kind = *p.Kind
	}
	if p.Amount != nil {
		tx.Amount = *p.Amount
	}
	if p.Category != nil {
		tx.Category = *p.Category
	}
	if p.Source != nil {
		tx.Source = *p.Source
	}
	if p.Merchant != nil {
		tx.Merchant = *p.Merchant
	}
	if p.Description != nil {
		tx.Description = *p.Description
	}
	if p.OccurredOn != nil {
		tx.OccurredOn = *p.OccurredOn
	}
	if p.Tags != nil {
		tx.Tags = append([]string(nil), (*p.Tags)...)
	}
}
