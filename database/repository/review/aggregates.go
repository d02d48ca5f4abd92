package reviewRepo

import (
	"context"
	"fmt"
	"time"

	"bookreview/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RatingStats groups every review of bookID into a single mean and count.
// A book without reviews yields the zero value.
func (r *MongoReviewRepo) RatingStats(ctx context.Context, bookID primitive.ObjectID) (models.RatingStats, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"bookId": bookID}}},
		{{Key: "$group", Value: bson.M{
			"_id":           "$bookId",
			"averageRating": bson.M{"$avg": "$rating"},
			"totalReviews":  bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return models.RatingStats{}, fmt.Errorf("rating aggregation failed for book %s: %w", bookID.Hex(), err)
	}
	defer cursor.Close(ctx)

	var stats []models.RatingStats
	if err := cursor.All(ctx, &stats); err != nil {
		return models.RatingStats{}, fmt.Errorf("failed to decode rating stats: %w", err)
	}
	if len(stats) == 0 {
		return models.RatingStats{}, nil
	}
	return stats[0], nil
}
