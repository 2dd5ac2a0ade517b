package store

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
)

// transactionFilter translates q into a Mongo filter. The owner predicate is
// always first.
func transactionFilter(uid string, q dto.TransactionQuery) bson.D {
	filter := bson.D{{Key: "ownerId", Value: uid}}

	if q.Kind != nil {
		filter = append(filter, bson.E{Key: "kind", Value: string(*q.Kind)})
	}
	if q.Category != nil {
		filter = append(filter, bson.E{Key: "category", Value: *q.Category})
	}
	if q.Source != nil {
		filter = append(filter, bson.E{Key: "source", Value: *q.Source})
	}

	if q.DateFrom != nil || q.DateTo != nil {
		occurred := bson.D{}
		if q.DateFrom != nil {
			occurred = append(occurred, bson.E{Key: "$gte", Value: *q.DateFrom})
		}
		if q.DateTo != nil {
			occurred = append(occurred, bson.E{Key: "$lte", Value: *q.DateTo})
		}
		filter = append(filter, bson.E{Key: "occurredOn", Value: occurred})
	}

	if q.Search != nil {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(*q.Search), Options: "i"}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "description", Value: re}},
			bson.D{{Key: "merchant", Value: re}},
		}})
	}
	return filter
}

// transactionUpdate builds the $set document for an allow-listed patch.
func transactionUpdate(patch dto.TransactionPatch) bson.D {
	set := bson.D{}
	if patch.Kind != nil {
		set = append(set, bson.E{Key: "kind", Value: string(*patch.Kind)})
	}
	if patch.Amount != nil {
		set = append(set, bson.E{Key: "amount", Value: *patch.Amount})
	}
	if patch.Category != nil {
		set = append(set, bson.E{Key: "category", Value: *patch.Category})
	}
	if patch.Source != nil {
		set = append(set, bson.E{Key: "source", Value: *patch.Source})
	}
	if patch.Merchant != nil {
		set = append(set, bson.E{Key: "merchant", Value: *patch.Merchant})
	}
	if patch.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *patch.Description})
	}
	if patch.OccurredOn != nil {
		set = append(set, bson.E{Key: "occurredOn", Value: *patch.OccurredOn})
	}
	if patch.Tags != nil {
		set = append(set, bson.E{Key: "tags", Value: *patch.Tags})
	}
	return set
}
