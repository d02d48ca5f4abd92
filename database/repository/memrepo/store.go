// Package memrepo holds in-memory repositories with the same semantics as the
// Mongo ones, including the unique (bookId, userId) review constraint. Service
// tests run against it.
package memrepo

import (
	"sort"
	"strings"
	"sync"
	"time"

	"bookreview/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is the shared state behind BookRepo, ReviewRepo and UserRepo.
type Store struct {
	mu      sync.RWMutex
	books   map[primitive.ObjectID]models.Book
	reviews map[primitive.ObjectID]models.Review
	users   map[primitive.ObjectID]models.User

	// Err, when set, is returned by every operation.
	Err error
}

func NewStore() *Store {
	return &Store{
		books:   map[primitive.ObjectID]models.Book{},
		reviews: map[primitive.ObjectID]models.Review{},
		users:   map[primitive.ObjectID]models.User{},
	}
}

func (s *Store) Books() *BookRepo     { return &BookRepo{s: s} }
func (s *Store) Reviews() *ReviewRepo { return &ReviewRepo{s: s} }
func (s *Store) Users() *UserRepo     { return &UserRepo{s: s} }

func (s *Store) SetErr(err error) {
	s.mu.Lock()
	s.Err = err
	s.mu.Unlock()
}

func (s *Store) err() error {
	return s.Err
}

func page[T any](items []T, page, limit int) []T {
	start := (page - 1) * limit
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func newestFirst[T any](items []T, created func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return created(items[i]).After(created(items[j]))
	})
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// now returns strictly increasing timestamps so newest-first ordering is stable.
var (
	clockMu sync.Mutex
	last    time.Time
)

func now() time.Time {
	clockMu.Lock()
	defer clockMu.Unlock()
	t := time.Now().UTC()
	if !t.After(last) {
		t = last.Add(time.Microsecond)
	}
	last = t
	return t
}
