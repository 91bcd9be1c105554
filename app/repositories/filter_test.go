package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildFilterEmptyQuery(t *testing.T) {
	assert.Empty(t, buildFilter(ProductQuery{}))
}

func TestBuildFilterCategoryIn(t *testing.T) {
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
	f := buildFilter(ProductQuery{CategoryIDs: ids})

	require.Contains(t, f, "category_id")
	assert.Equal(t, bson.M{"$in": ids}, f["category_id"])
}

func TestBuildFilterSingleCategory(t *testing.T) {
	id := primitive.NewObjectID()
	f := buildFilter(ProductQuery{CategoryID: id})
	assert.Equal(t, id, f["category_id"])
}

func TestBuildFilterCategoryInWinsOverSingle(t *testing.T) {
	ids := []primitive.ObjectID{primitive.NewObjectID()}
	single := primitive.NewObjectID()
	f := buildFilter(ProductQuery{CategoryIDs: ids, CategoryID: single})
	assert.Equal(t, bson.M{"$in": ids}, f["category_id"])
}

func TestBuildFilterPriceRange(t *testing.T) {
	lo, hi := 10.0, 99.99
	f := buildFilter(ProductQuery{Price: &PriceRange{Min: &lo, Max: &hi}})
	assert.Equal(t, bson.M{"$gte": lo, "$lte": hi}, f["price"])

	f = buildFilter(ProductQuery{Price: &PriceRange{Min: &lo}})
	assert.Equal(t, bson.M{"$gte": lo}, f["price"])

	// A bound with both sides nil contributes nothing.
	f = buildFilter(ProductQuery{Price: &PriceRange{}})
	assert.NotContains(t, f, "price")
}

func TestBuildFilterKeywordEscapesRegexMeta(t *testing.T) {
	f := buildFilter(ProductQuery{Keyword: "50% off (today)"})

	or, ok := f["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)

	nameClause := or[0].(bson.M)
	re, ok := nameClause["name"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, "i", re.Options)
	assert.NotContains(t, re.Pattern, "(today)")
	assert.Contains(t, re.Pattern, `\(today\)`)
}

func TestBuildFilterExcludeID(t *testing.T) {
	id := primitive.NewObjectID()
	f := buildFilter(ProductQuery{ExcludeID: id})
	assert.Equal(t, bson.M{"$ne": id}, f["_id"])
}
