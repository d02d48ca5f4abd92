package reviewRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookreview/database"
	"bookreview/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoReviewRepo implements ReviewRepository using MongoDB.
type MongoReviewRepo struct {
	coll *mongo.Collection
}

func NewMongoReviewRepo(db *mongo.Database) *MongoReviewRepo {
	return &MongoReviewRepo{coll: db.Collection(database.ReviewsCollection)}
}

func (r *MongoReviewRepo) Create(ctx context.Context, review *models.Review) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	review.CreatedAt = now
	review.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, review); err != nil {
		if database.IsDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *MongoReviewRepo) findOne(ctx context.Context, filter bson.M) (*models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var review models.Review
	if err := r.coll.FindOne(ctx, filter).Decode(&review); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch review: %w", err)
	}
	return &review, nil
}

func (r *MongoReviewRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoReviewRepo) FindByBookAndUser(ctx context.Context, bookID, userID primitive.ObjectID) (*models.Review, error) {
	return r.findOne(ctx, bson.M{"bookId": bookID, "userId": userID})
}

func (r *MongoReviewRepo) ListByBook(ctx context.Context, bookID primitive.ObjectID, page, limit int) ([]models.ReviewDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"bookId": bookID}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$skip", Value: int64(page-1) * int64(limit)}},
		{{Key: "$limit", Value: int64(limit)}},
		{{Key: "$lookup", Value: bson.M{
			"from":         database.UsersCollection,
			"localField":   "userId",
			"foreignField": "_id",
			"as":           "reviewer",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"username": bson.M{"$arrayElemAt": bson.A{"$reviewer.username", 0}},
		}}},
		{{Key: "$project", Value: bson.M{"reviewer": 0}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for book %s: %w", bookID.Hex(), err)
	}
	defer cursor.Close(ctx)

	reviews := []models.ReviewDetail{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

func (r *MongoReviewRepo) CountByBook(ctx context.Context, bookID primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"bookId": bookID})
	if err != nil {
		return 0, fmt.Errorf("failed to count reviews for book %s: %w", bookID.Hex(), err)
	}
	return n, nil
}

func (r *MongoReviewRepo) Update(ctx context.Context, id primitive.ObjectID, update models.ReviewUpdate) (*models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Rating != nil {
		set["rating"] = *update.Rating
	}
	if update.Comment != nil {
		set["comment"] = *update.Comment
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var review models.Review
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update review %s: %w", id.Hex(), err)
	}
	return &review, nil
}

func (r *MongoReviewRepo) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete review %s: %w", id.Hex(), err)
	}
	return result.DeletedCount > 0, nil
}

func (r *MongoReviewRepo) DeleteByBook(ctx context.Context, bookID primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.coll.DeleteMany(ctx, bson.M{"bookId": bookID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete reviews for book %s: %w", bookID.Hex(), err)
	}
	return result.DeletedCount, nil
}
