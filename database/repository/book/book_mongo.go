package bookRepo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"bookreview/database"
	"bookreview/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookRepo implements BookRepository using MongoDB.
type MongoBookRepo struct {
	coll *mongo.Collection
}

// NewMongoBookRepo creates a BookRepository backed by the books collection of db.
func NewMongoBookRepo(db *mongo.Database) *MongoBookRepo {
	return &MongoBookRepo{coll: db.Collection(database.BooksCollection)}
}

func (r *MongoBookRepo) Create(ctx context.Context, book *models.Book) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	if book.ID.IsZero() {
		book.ID = primitive.NewObjectID()
	}
	book.CreatedAt = now
	book.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, book); err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

func (r *MongoBookRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var book models.Book
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&book); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch book with id %s: %w", id.Hex(), err)
	}
	return &book, nil
}

func listFilter(filter models.BookFilter) bson.M {
	query := bson.M{}
	if filter.Genre != "" {
		query["genre"] = filter.Genre
	}
	if author := strings.TrimSpace(filter.Author); author != "" {
		query["author"] = primitive.Regex{Pattern: regexp.QuoteMeta(author), Options: "i"}
	}
	return query
}

func (r *MongoBookRepo) List(ctx context.Context, filter models.BookFilter, page, limit int) ([]models.Book, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := listFilter(filter)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(page-1) * int64(limit)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}
	defer cursor.Close(ctx)

	books := []models.Book{}
	if err := cursor.All(ctx, &books); err != nil {
		return nil, 0, fmt.Errorf("failed to decode books: %w", err)
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}
	return books, total, nil
}

func (r *MongoBookRepo) Search(ctx context.Context, query string, limit int) ([]models.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	score := bson.M{"$meta": "textScore"}
	opts := options.Find().
		SetProjection(bson.M{"score": score}).
		SetSort(bson.D{{Key: "score", Value: score}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{"$text": bson.M{"$search": query}}, opts)
	if err != nil {
		return nil, fmt.Errorf("text search failed: %w", err)
	}
	defer cursor.Close(ctx)

	books := []models.Book{}
	if err := cursor.All(ctx, &books); err != nil {
		return nil, fmt.Errorf("failed to decode books: %w", err)
	}
	return books, nil
}

func (r *MongoBookRepo) Update(ctx context.Context, id primitive.ObjectID, update models.BookUpdate) (*models.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Author != nil {
		set["author"] = *update.Author
	}
	if update.Genre != nil {
		set["genre"] = *update.Genre
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var book models.Book
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&book)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update book with id %s: %w", id.Hex(), err)
	}
	return &book, nil
}

func (r *MongoBookRepo) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete book with id %s: %w", id.Hex(), err)
	}
	return result.DeletedCount > 0, nil
}

func (r *MongoBookRepo) GetRating(ctx context.Context, id primitive.ObjectID) (*models.RatingStats, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"_id": 0, "averageRating": 1, "totalReviews": 1})
	var stats models.RatingStats
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&stats); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch rating for book %s: %w", id.Hex(), err)
	}
	return &stats, nil
}

func (r *MongoBookRepo) UpdateRating(ctx context.Context, id primitive.ObjectID, stats models.RatingStats) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"averageRating": stats.AverageRating,
		"totalReviews":  stats.TotalReviews,
	}}
	// No upsert: a book deleted concurrently must stay deleted.
	if _, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return fmt.Errorf("failed to update rating for book %s: %w", id.Hex(), err)
	}
	return nil
}
