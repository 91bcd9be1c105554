package repositories

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// buildFilter translates a ProductQuery into a MongoDB filter document.
// An empty query yields an empty filter (match all).
func buildFilter(q ProductQuery) bson.M {
	filter := bson.M{}

	if len(q.CategoryIDs) > 0 {
		filter["category_id"] = bson.M{"$in": q.CategoryIDs}
	} else if !q.CategoryID.IsZero() {
		filter["category_id"] = q.CategoryID
	}

	if q.Price != nil {
		bounds := bson.M{}
		if q.Price.Min != nil {
			bounds["$gte"] = *q.Price.Min
		}
		if q.Price.Max != nil {
			bounds["$lte"] = *q.Price.Max
		}
		if len(bounds) > 0 {
			filter["price"] = bounds
		}
	}

	if q.Keyword != "" {
		// Literal substring match, case-insensitive. QuoteMeta keeps user
		// input from being interpreted as a pattern.
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Keyword), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
		}
	}

	if !q.ExcludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": q.ExcludeID}
	}

	return filter
}
