package store

import (
	"sort"
	"strings"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

// matchesSearch reports whether the description or merchant contains term,
// ignoring case.
func matchesSearch(tx *models.Transaction, term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(tx.Description), term) ||
		strings.Contains(strings.ToLower(tx.Merchant), term)
}

// matches evaluates every predicate of q against tx.
func matches(tx *models.Transaction, q dto.TransactionQuery) bool {
	if q.Kind != nil && tx.Kind != *q.Kind {
		return false
	}
	if q.Category != nil && tx.Category != *q.Category {
		return false
	}
	if q.Source != nil && tx.Source != *q.Source {
		return false
	}
	if q.DateFrom != nil && tx.OccurredOn.Before(*q.DateFrom) {
		return false
	}
	if q.DateTo != nil && tx.OccurredOn.After(*q.DateTo) {
		return false
	}
	if q.Search != nil && !matchesSearch(tx, *q.Search) {
		return false
	}
	return true
}

func sortNewestFirst(txs []*models.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].OccurredOn.Equal(txs[j].OccurredOn) {
			return txs[i].OccurredOn.After(txs[j].OccurredOn)
		}
		return txs[i].ID < txs[j].ID
	})
}

// paginate slices an already ordered result set.
func paginate(txs []*models.Transaction, offset, limit int) []*models.Transaction {
	if offset >= len(txs) {
		return []*models.Transaction{}
	}
	txs = txs[offset:]
	if limit > 0 && limit < len(txs) {
		txs = txs[:limit]
	}
	return txs
}
