package gateway

import (
	"context"
	"fmt"
	"log"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"civicpulse-be/models"
)

// MongoGateway implements Gateway on top of a MongoDB database. It also plays
// the managed backend's trigger role: mutating the upvotes table keeps
// issues.upvotes_count in step, so clients never maintain the durable counter
// themselves.
type MongoGateway struct {
	db *mongo.Database
}

func NewMongoGateway(db *mongo.Database) *MongoGateway {
	return &MongoGateway{db: db}
}

func (g *MongoGateway) Query(ctx context.Context, table string, q Query, out interface{}) error {
	findOptions := options.Find()
	if q.Limit > 0 {
		findOptions.SetLimit(q.Limit)
	}
	if q.SortBy != "" {
		direction := 1
		if q.SortDesc {
			direction = -1
		}
		findOptions.SetSort(bson.D{{Key: q.SortBy, Value: direction}})
	}

	cursor, err := g.db.Collection(table).Find(ctx, buildFilter(q), findOptions)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (g *MongoGateway) Insert(ctx context.Context, table string, record interface{}) (string, error) {
	result, err := g.db.Collection(table).InsertOne(ctx, record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrConflict
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if table == TableUpvotes {
		if issueID, ok := upvoteIssueID(record); ok {
			g.adjustUpvoteCount(ctx, issueID, 1)
		}
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprintf("%v", result.InsertedID), nil
}

func (g *MongoGateway) Update(ctx context.Context, table string, filters []Filter, patch Patch) (int64, error) {
	update := bson.M{}
	if len(patch.Set) > 0 {
		update["$set"] = bson.M(patch.Set)
	}
	if len(patch.Inc) > 0 {
		inc := bson.M{}
		for field, delta := range patch.Inc {
			inc[field] = delta
		}
		update["$inc"] = inc
	}
	if len(update) == 0 {
		return 0, nil
	}

	result, err := g.db.Collection(table).UpdateMany(ctx, buildFilter(Query{Filters: filters}), update)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return result.ModifiedCount, nil
}

func (g *MongoGateway) Delete(ctx context.Context, table string, filters []Filter) error {
	result, err := g.db.Collection(table).DeleteMany(ctx, buildFilter(Query{Filters: filters}))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if table == TableUpvotes && result.DeletedCount > 0 {
		for _, f := range filters {
			if f.Field == "issue_id" {
				if issueID, ok := f.Value.(primitive.ObjectID); ok {
					g.adjustUpvoteCount(ctx, issueID, -result.DeletedCount)
				}
			}
		}
	}
	return nil
}

func (g *MongoGateway) Count(ctx context.Context, table string, filters []Filter) (int64, error) {
	count, err := g.db.Collection(table).CountDocuments(ctx, buildFilter(Query{Filters: filters}))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return count, nil
}

// adjustUpvoteCount keeps the stored counter in step with the upvotes table.
// Decrements only apply while the counter is positive, so drift can never
// push it negative.
func (g *MongoGateway) adjustUpvoteCount(ctx context.Context, issueID primitive.ObjectID, delta int64) {
	filter := bson.M{"_id": issueID}
	if delta < 0 {
		filter["upvotes_count"] = bson.M{"$gt": 0}
	}
	if _, err := g.db.Collection(TableIssues).UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"upvotes_count": delta}}); err != nil {
		log.Printf("Failed to adjust upvote count for issue %s: %v", issueID.Hex(), err)
	}
}

func upvoteIssueID(record interface{}) (primitive.ObjectID, bool) {
	switch v := record.(type) {
	case models.Upvote:
		return v.IssueID, true
	case *models.Upvote:
		return v.IssueID, true
	}
	return primitive.NilObjectID, false
}

func buildFilter(q Query) bson.M {
	filter := bson.M{}
	for _, f := range q.Filters {
		filter[f.Field] = filterValue(f)
	}
	if len(q.AnyOf) > 0 {
		or := make([]bson.M, 0, len(q.AnyOf))
		for _, f := range q.AnyOf {
			or = append(or, bson.M{f.Field: filterValue(f)})
		}
		filter["$or"] = or
	}
	return filter
}

func filterValue(f Filter) interface{} {
	switch f.Kind {
	case MatchPrefix:
		return bson.M{"$regex": "^" + regexp.QuoteMeta(fmt.Sprintf("%v", f.Value)), "$options": "i"}
	case MatchContains:
		return bson.M{"$regex": regexp.QuoteMeta(fmt.Sprintf("%v", f.Value)), "$options": "i"}
	case MatchExists:
		return bson.M{"$exists": true, "$ne": nil}
	default:
		return f.Value
	}
}
