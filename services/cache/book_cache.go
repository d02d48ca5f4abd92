// File: services/cache/book_cache.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bookreview/models"
	"bookreview/utils"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookCache holds the descriptive fields of single books for the detail
// endpoint. Callers must not trust cached rating fields.
type BookCache interface {
	// Get returns nil, nil on a miss.
	Get(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
	Set(ctx context.Context, book *models.Book) error
	Invalidate(ctx context.Context, id primitive.ObjectID) error
}

type RedisBookCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisBookCache(client *redis.Client, ttl time.Duration) *RedisBookCache {
	return &RedisBookCache{client: client, ttl: ttl}
}

func bookKey(id primitive.ObjectID) string {
	return utils.BookCachePrefix + id.Hex()
}

func (c *RedisBookCache) Get(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	val, err := c.client.Get(ctx, bookKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var book models.Book
	if err := json.Unmarshal(val, &book); err != nil {
		// Corrupt entry: drop it and treat as a miss.
		_ = c.client.Del(ctx, bookKey(id)).Err()
		return nil, nil
	}
	return &book, nil
}

func (c *RedisBookCache) Set(ctx context.Context, book *models.Book) error {
	data, err := json.Marshal(book)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, bookKey(book.ID), data, c.ttl).Err()
}

func (c *RedisBookCache) Invalidate(ctx context.Context, id primitive.ObjectID) error {
	return c.client.Del(ctx, bookKey(id)).Err()
}

// NopBookCache never stores anything.
type NopBookCache struct{}

func (NopBookCache) Get(context.Context, primitive.ObjectID) (*models.Book, error) { return nil, nil }
func (NopBookCache) Set(context.Context, *models.Book) error                        { return nil }
func (NopBookCache) Invalidate(context.Context, primitive.ObjectID) error           { return nil }
