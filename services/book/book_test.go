package book

import (
	"context"
	"errors"
	"testing"
	"time"

	bookRepo "bookreview/database/repository/book"
	"bookreview/database/repository/memrepo"
	"bookreview/models"
	"bookreview/services"
	"bookreview/services/cache"
	"bookreview/services/rating"
	"bookreview/services/review"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newService(t *testing.T) (*DefaultBookService, *memrepo.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := memrepo.NewStore()
	svc := NewBookService(store.Books(), store.Reviews(), cache.NewRedisBookCache(client, time.Minute), 10, nil)
	return svc, store, mr
}

func input(title, author, genre string) models.BookInput {
	return models.BookInput{Title: title, Author: author, Genre: genre, Description: title + " by " + author}
}

func TestCreateBookStartsUnrated(t *testing.T) {
	svc, _, _ := newService(t)

	book, err := svc.CreateBook(context.Background(), input("  Dune ", "Frank Herbert", "SciFi"))
	require.NoError(t, err)
	assert.False(t, book.ID.IsZero())
	assert.Equal(t, "Dune", book.Title)
	assert.Zero(t, book.AverageRating)
	assert.Zero(t, book.TotalReviews)

	_, err = svc.CreateBook(context.Background(), models.BookInput{Title: "x"})
	var verr *services.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestListBooksFiltersAndPaginates(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	for _, in := range []models.BookInput{
		input("Dune", "Frank Herbert", "SciFi"),
		input("Hyperion", "Dan Simmons", "SciFi"),
		input("Emma", "Jane Austen", "Classic"),
		input("Children of Dune", "Frank Herbert", "SciFi"),
	} {
		_, err := svc.CreateBook(ctx, in)
		require.NoError(t, err)
	}

	books, p, err := svc.ListBooks(ctx, models.BookFilter{Genre: "SciFi"}, 1, 2)
	require.NoError(t, err)
	assert.Len(t, books, 2)
	assert.Equal(t, models.Pagination{Page: 1, Limit: 2, Total: 3, Pages: 2}, p)
	assert.Equal(t, "Children of Dune", books[0].Title)

	books, p, err = svc.ListBooks(ctx, models.BookFilter{Author: "herbert"}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, books, 2)
	assert.EqualValues(t, 2, p.Total)

	books, _, err = svc.ListBooks(ctx, models.BookFilter{Genre: "Horror"}, 1, 10)
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func TestGetBookUsesCache(t *testing.T) {
	svc, store, mr := newService(t)
	ctx := context.Background()

	book, err := svc.CreateBook(ctx, input("Dune", "Frank Herbert", "SciFi"))
	require.NoError(t, err)

	details, err := svc.GetBook(ctx, book.ID.Hex(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "Dune", details.Book.Title)
	assert.Empty(t, details.Reviews)
	assert.True(t, mr.Exists("book:"+book.ID.Hex()))

	// Writes that bypass the service are not seen until the entry is dropped.
	sneaky := "Sneaky"
	_, err = store.Books().Update(ctx, book.ID, models.BookUpdate{Title: &sneaky})
	require.NoError(t, err)
	details, err = svc.GetBook(ctx, book.ID.Hex(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "Dune", details.Book.Title)

	title := "Dune Messiah"
	_, err = svc.UpdateBook(ctx, book.ID.Hex(), models.BookUpdate{Title: &title})
	require.NoError(t, err)
	assert.False(t, mr.Exists("book:"+book.ID.Hex()))

	details, err = svc.GetBook(ctx, book.ID.Hex(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", details.Book.Title)
}

func TestGetBookNotFoundAndInvalidID(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.GetBook(context.Background(), primitive.NewObjectID().Hex(), 1, 10)
	assert.ErrorIs(t, err, services.ErrBookNotFound)

	_, err = svc.GetBook(context.Background(), "123", 1, 10)
	assert.ErrorIs(t, err, services.ErrInvalidID)
}

func TestGetBookIncludesReviewPage(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()

	book, err := svc.CreateBook(ctx, input("Dune", "Frank Herbert", "SciFi"))
	require.NoError(t, err)
	user := &models.User{Username: "paul", Email: "paul@arrakis.test"}
	require.NoError(t, store.Users().Create(ctx, user))
	require.NoError(t, store.Reviews().Create(ctx, &models.Review{BookID: book.ID, UserID: user.ID, Rating: 5, Comment: "spice"}))

	details, err := svc.GetBook(ctx, book.ID.Hex(), 1, 10)
	require.NoError(t, err)
	require.Len(t, details.Reviews, 1)
	assert.Equal(t, "paul", details.Reviews[0].Username)
	assert.EqualValues(t, 1, details.Pagination.Total)
}

func TestSearchBooks(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	_, err := svc.CreateBook(ctx, input("Dune", "Frank Herbert", "SciFi"))
	require.NoError(t, err)

	_, err = svc.SearchBooks(ctx, "   ")
	var verr *services.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Search query is required", verr.Message)

	books, err := svc.SearchBooks(ctx, "herbert")
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

func TestUpdateBookValidation(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	blank := "   "
	book, err := svc.CreateBook(ctx, input("Dune", "Frank Herbert", "SciFi"))
	require.NoError(t, err)

	_, err = svc.UpdateBook(ctx, book.ID.Hex(), models.BookUpdate{Author: &blank})
	var verr *services.ValidationError
	assert.True(t, errors.As(err, &verr))

	title := "x"
	_, err = svc.UpdateBook(ctx, primitive.NewObjectID().Hex(), models.BookUpdate{Title: &title})
	assert.ErrorIs(t, err, services.ErrBookNotFound)
}

func TestDeleteBookCascadesToReviews(t *testing.T) {
	svc, store, mr := newService(t)
	ctx := context.Background()

	book, err := svc.CreateBook(ctx, input("Dune", "Frank Herbert", "SciFi"))
	require.NoError(t, err)
	other, err := svc.CreateBook(ctx, input("Emma", "Jane Austen", "Classic"))
	require.NoError(t, err)
	for _, b := range []*models.Book{book, book, other} {
		require.NoError(t, store.Reviews().Create(ctx, &models.Review{BookID: b.ID, UserID: primitive.NewObjectID(), Rating: 3, Comment: "c"}))
	}
	_, err = svc.GetBook(ctx, book.ID.Hex(), 1, 10)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBook(ctx, book.ID.Hex()))
	assert.False(t, mr.Exists("book:"+book.ID.Hex()))

	n, err := store.Reviews().CountByBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = store.Reviews().CountByBook(ctx, other.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	assert.ErrorIs(t, svc.DeleteBook(ctx, book.ID.Hex()), services.ErrBookNotFound)
}

// interleavedBooks runs afterRead once, between the detail read and the cache
// fill that follows it.
type interleavedBooks struct {
	bookRepo.BookRepository
	afterRead func()
}

func (b *interleavedBooks) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	book, err := b.BookRepository.GetByID(ctx, id)
	if b.afterRead != nil {
		hook := b.afterRead
		b.afterRead = nil
		hook()
	}
	return book, err
}

func TestGetBookRatingNotStaleAfterRacingReview(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	bookCache := cache.NewRedisBookCache(client, time.Minute)
	ctx := context.Background()

	store := memrepo.NewStore()
	books := &interleavedBooks{BookRepository: store.Books()}
	svc := NewBookService(books, store.Reviews(), bookCache, 10, nil)
	aggregator := rating.NewAggregator(store.Reviews(), store.Books(), nil)
	reviews := review.NewReviewService(store.Books(), store.Reviews(), aggregator, bookCache, nil)

	book, err := svc.CreateBook(ctx, input("Dune", "Frank Herbert", "SciFi"))
	require.NoError(t, err)
	user := &models.User{Username: "paul", Email: "paul@arrakis.test"}
	require.NoError(t, store.Users().Create(ctx, user))

	books.afterRead = func() {
		_, err := reviews.AddReview(ctx, book.ID.Hex(), user.ID.Hex(), models.ReviewInput{Rating: 5, Comment: "spice"})
		require.NoError(t, err)
	}
	_, err = svc.GetBook(ctx, book.ID.Hex(), 1, 10)
	require.NoError(t, err)
	assert.True(t, mr.Exists("book:"+book.ID.Hex()))

	details, err := svc.GetBook(ctx, book.ID.Hex(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 5.0, details.Book.AverageRating)
	assert.Equal(t, 1, details.Book.TotalReviews)
	assert.Len(t, details.Reviews, 1)
}

func TestGetBookCachedEntryOfDeletedBook(t *testing.T) {
	svc, store, mr := newService(t)
	ctx := context.Background()

	book, err := svc.CreateBook(ctx, input("Dune", "Frank Herbert", "SciFi"))
	require.NoError(t, err)
	_, err = svc.GetBook(ctx, book.ID.Hex(), 1, 10)
	require.NoError(t, err)

	_, err = store.Books().Delete(ctx, book.ID)
	require.NoError(t, err)
	_, err = svc.GetBook(ctx, book.ID.Hex(), 1, 10)
	assert.ErrorIs(t, err, services.ErrBookNotFound)
	assert.False(t, mr.Exists("book:"+book.ID.Hex()))
}
