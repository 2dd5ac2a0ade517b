package models

import (
	"time"
)

type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

type Transaction struct {
	ID          string    `firestore:"id" bson:"_id" json:"id"`
	OwnerID     string    `firestore:"ownerId" bson:"ownerId" json:"ownerId"`
	Kind        Kind      `firestore:"kind" bson:"kind" json:"kind"`
	Amount      float64   `firestore:"amount" bson:"amount" json:"amount"`
	Category    string    `firestore:"category,omitempty" bson:"category,omitempty" json:"category,omitempty"` // expense only
	Source      string    `firestore:"source,omitempty" bson:"source,omitempty" json:"source,omitempty"`       // income only
	Merchant    string    `firestore:"merchant,omitempty" bson:"merchant,omitempty" json:"merchant,omitempty"`
	Description string    `firestore:"description,omitempty" bson:"description,omitempty" json:"description,omitempty"`
	OccurredOn  time.Time `firestore:"occurredOn" bson:"occurredOn" json:"occurredOn"` // UTC midnight
	Tags        []string  `firestore:"tags,omitempty" bson:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt   time.Time `firestore:"createdAt" bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt" bson:"updatedAt" json:"updatedAt"`
}

