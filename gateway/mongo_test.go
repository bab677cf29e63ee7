package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildFilterEquality(t *testing.T) {
	q := Query{Filters: []Filter{Eq("status", "open")}}

	filter := buildFilter(q)

	assert.Equal(t, bson.M{"status": "open"}, filter)
}

func TestBuildFilterPrefixIsAnchoredAndEscaped(t *testing.T) {
	q := Query{Filters: []Filter{{Field: "location_name", Kind: MatchPrefix, Value: "Pune,"}}}

	filter := buildFilter(q)

	assert.Equal(t, bson.M{
		"location_name": bson.M{"$regex": `^Pune\,`, "$options": "i"},
	}, filter)
}

func TestBuildFilterContainsEscapesMetaCharacters(t *testing.T) {
	q := Query{Filters: []Filter{{Field: "title", Kind: MatchContains, Value: "light (out)"}}}

	filter := buildFilter(q)

	value, ok := filter["title"].(bson.M)
	assert.True(t, ok)
	assert.Equal(t, `light \(out\)`, value["$regex"])
	assert.Equal(t, "i", value["$options"])
}

func TestBuildFilterAnyOfBecomesOr(t *testing.T) {
	q := Query{
		Filters: []Filter{Eq("status", "open")},
		AnyOf: []Filter{
			{Field: "title", Kind: MatchContains, Value: "pothole"},
			{Field: "description", Kind: MatchContains, Value: "pothole"},
		},
	}

	filter := buildFilter(q)

	assert.Equal(t, "open", filter["status"])
	or, ok := filter["$or"].([]bson.M)
	assert.True(t, ok)
	assert.Len(t, or, 2)
	assert.Contains(t, or[0], "title")
	assert.Contains(t, or[1], "description")
}

func TestBuildFilterExists(t *testing.T) {
	q := Query{Filters: []Filter{{Field: "latitude", Kind: MatchExists}}}

	filter := buildFilter(q)

	assert.Equal(t, bson.M{"latitude": bson.M{"$exists": true, "$ne": nil}}, filter)
}
