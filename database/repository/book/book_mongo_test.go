package bookRepo

import (
	"context"
	"testing"
	"time"

	"bookreview/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const ns = "test.books"

func bookDoc(id primitive.ObjectID, title string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: title},
		{Key: "author", Value: "Ursula K. Le Guin"},
		{Key: "genre", Value: "fantasy"},
		{Key: "description", Value: "An archipelago of islands."},
		{Key: "averageRating", Value: 4.5},
		{Key: "totalReviews", Value: int32(2)},
		{Key: "createdAt", Value: time.Now().UTC()},
	}
}

func TestMongoBookRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create assigns id and timestamps", func(mt *mtest.T) {
		repo := NewMongoBookRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		book := &models.Book{Title: "A Wizard of Earthsea", Author: "Le Guin", Genre: "fantasy", Description: "x"}
		require.NoError(mt, repo.Create(ctx, book))
		assert.False(mt, book.ID.IsZero())
		assert.False(mt, book.CreatedAt.IsZero())
		assert.Equal(mt, book.CreatedAt, book.UpdatedAt)
	})

	mt.Run("get by id", func(mt *mtest.T) {
		repo := NewMongoBookRepo(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bookDoc(id, "A Wizard of Earthsea")))

		book, err := repo.GetByID(ctx, id)
		require.NoError(mt, err)
		require.NotNil(mt, book)
		assert.Equal(mt, id, book.ID)
		assert.Equal(mt, 4.5, book.AverageRating)
		assert.Equal(mt, 2, book.TotalReviews)
	})

	mt.Run("get by id missing returns nil", func(mt *mtest.T) {
		repo := NewMongoBookRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		book, err := repo.GetByID(ctx, primitive.NewObjectID())
		require.NoError(mt, err)
		assert.Nil(mt, book)
	})

	mt.Run("list returns page and total", func(mt *mtest.T) {
		repo := NewMongoBookRepo(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bookDoc(primitive.NewObjectID(), "one"),
				bookDoc(primitive.NewObjectID(), "two")),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(12)}}),
		)

		books, total, err := repo.List(ctx, models.BookFilter{Genre: "fantasy", Author: "le (guin)"}, 2, 2)
		require.NoError(mt, err)
		assert.Len(mt, books, 2)
		assert.Equal(mt, int64(12), total)

		find := mt.GetStartedEvent()
		require.Equal(mt, "find", find.CommandName)
		assert.Equal(mt, int64(2), find.Command.Lookup("skip").AsInt64())
		filter := find.Command.Lookup("filter").Document()
		assert.Equal(mt, "fantasy", filter.Lookup("genre").StringValue())
		pattern, opts := filter.Lookup("author").Regex()
		assert.Equal(mt, `le \(guin\)`, pattern)
		assert.Equal(mt, "i", opts)
	})

	mt.Run("search sorts by text score", func(mt *mtest.T) {
		repo := NewMongoBookRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bookDoc(primitive.NewObjectID(), "Earthsea")))

		books, err := repo.Search(ctx, "earthsea", 10)
		require.NoError(mt, err)
		assert.Len(mt, books, 1)

		find := mt.GetStartedEvent()
		search := find.Command.Lookup("filter", "$text", "$search").StringValue()
		assert.Equal(mt, "earthsea", search)
		assert.Equal(mt, "textScore", find.Command.Lookup("sort", "score", "$meta").StringValue())
	})

	mt.Run("update returns new document", func(mt *mtest.T) {
		repo := NewMongoBookRepo(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bookDoc(id, "New title")}))

		title := "New title"
		book, err := repo.Update(ctx, id, models.BookUpdate{Title: &title})
		require.NoError(mt, err)
		require.NotNil(mt, book)
		assert.Equal(mt, "New title", book.Title)
	})

	mt.Run("update missing returns nil", func(mt *mtest.T) {
		repo := NewMongoBookRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		title := "New title"
		book, err := repo.Update(ctx, primitive.NewObjectID(), models.BookUpdate{Title: &title})
		require.NoError(mt, err)
		assert.Nil(mt, book)
	})

	mt.Run("delete reports removal", func(mt *mtest.T) {
		repo := NewMongoBookRepo(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(1)}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(0)}),
		)

		deleted, err := repo.Delete(ctx, primitive.NewObjectID())
		require.NoError(mt, err)
		assert.True(mt, deleted)

		deleted, err = repo.Delete(ctx, primitive.NewObjectID())
		require.NoError(mt, err)
		assert.False(mt, deleted)
	})

	mt.Run("update rating sets only derived fields without upsert", func(mt *mtest.T) {
		repo := NewMongoBookRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(0)}, bson.E{Key: "nModified", Value: int32(0)}))

		err := repo.UpdateRating(ctx, primitive.NewObjectID(), models.RatingStats{AverageRating: 3.5, TotalReviews: 2})
		require.NoError(mt, err)

		update := mt.GetStartedEvent().Command.Lookup("updates").Array().Index(0).Value().Document()
		set := update.Lookup("u", "$set").Document()
		elems, err := set.Elements()
		require.NoError(mt, err)
		assert.Len(mt, elems, 2)
		assert.Equal(mt, 3.5, set.Lookup("averageRating").Double())
		if upsert, err := update.LookupErr("upsert"); err == nil {
			assert.False(mt, upsert.Boolean())
		}
	})

	mt.Run("get rating projects derived fields", func(mt *mtest.T) {
		repo := NewMongoBookRepo(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "averageRating", Value: 3.5},
			{Key: "totalReviews", Value: int32(4)},
		}))

		stats, err := repo.GetRating(ctx, id)
		require.NoError(mt, err)
		require.NotNil(mt, stats)
		assert.Equal(mt, models.RatingStats{AverageRating: 3.5, TotalReviews: 4}, *stats)

		projection := mt.GetStartedEvent().Command.Lookup("projection").Document()
		_, err = projection.LookupErr("averageRating")
		assert.NoError(mt, err)
		_, err = projection.LookupErr("title")
		assert.Error(mt, err)
	})

	mt.Run("get rating missing returns nil", func(mt *mtest.T) {
		repo := NewMongoBookRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		stats, err := repo.GetRating(ctx, primitive.NewObjectID())
		require.NoError(mt, err)
		assert.Nil(mt, stats)
	})

	mt.Run("update rating propagates storage errors", func(mt *mtest.T) {
		repo := NewMongoBookRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 91, Name: "ShutdownInProgress", Message: "shutting down"}))

		err := repo.UpdateRating(ctx, primitive.NewObjectID(), models.RatingStats{})
		assert.Error(mt, err)
	})
}
