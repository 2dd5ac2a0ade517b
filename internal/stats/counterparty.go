package stats

import (
	"fmt"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

// Counterparty selects the grouping key for top-counterparty reports. It is
// resolved once from the transaction kind so the two keys can never mix.
type Counterparty uint8

const (
	CounterpartyMerchant Counterparty = iota + 1 // expenses
	CounterpartySource                           // income
)

func CounterpartyFor(kind models.Kind) (Counterparty, error) {
	switch kind {
	case models.KindExpense:
		return CounterpartyMerchant, nil
	case models.KindIncome:
		return CounterpartySource, nil
	default:
		return 0, errs.NewValidationError(fmt.Sprintf("invalid kind: %q", kind))
	}
}

func (c Counterparty) String() string {
	switch c {
	case CounterpartyMerchant:
		return "merchant"
	case CounterpartySource:
		return "source"
	default:
		return "unknown"
	}
}

// Key reads the grouping field of tx for this counterparty.
func (c Counterparty) Key(tx *models.Transaction) string {
	switch c {
	case CounterpartyMerchant:
		return tx.Merchant
	case CounterpartySource:
		return tx.Source
	default:
		return ""
	}
}
