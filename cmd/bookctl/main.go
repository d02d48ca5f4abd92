package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"bookreview/config"
	"bookreview/database"
	bookRepoPkg "bookreview/database/repository/book"
	reviewRepoPkg "bookreview/database/repository/review"
	userRepoPkg "bookreview/database/repository/user"
	"bookreview/models"
	"bookreview/services/cache"
	"bookreview/services/rating"
	"bookreview/services/review"
	"bookreview/utils"

	"github.com/urfave/cli/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type repos struct {
	client  *mongo.Client
	db      *mongo.Database
	books   *bookRepoPkg.MongoBookRepo
	reviews *reviewRepoPkg.MongoReviewRepo
	users   *userRepoPkg.MongoUserRepo
}

func connect(ctx context.Context, cfg *config.Config) (*repos, error) {
	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDatabase)
	r := &repos{
		client:  client,
		db:      db,
		books:   bookRepoPkg.NewMongoBookRepo(db),
		reviews: reviewRepoPkg.NewMongoReviewRepo(db),
		users:   userRepoPkg.NewMongoUserRepo(db),
	}
	for _, ensure := range []func(context.Context) error{r.books.EnsureIndexes, r.reviews.EnsureIndexes, r.users.EnsureIndexes} {
		if err := ensure(ctx); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger, err := utils.InitializeLogger(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer logger.Sync()

	app := &cli.App{
		Name:  "bookctl",
		Usage: "maintenance tasks for the book review database",
		Commands: []*cli.Command{
			{
				Name:  "seed",
				Usage: "insert sample users, books and reviews",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "users", Value: 20, Usage: "number of users"},
					&cli.IntFlag{Name: "books", Value: 30, Usage: "number of books"},
					&cli.BoolFlag{Name: "reset", Usage: "clear all collections first"},
				},
				Action: func(c *cli.Context) error {
					r, err := connect(c.Context, cfg)
					if err != nil {
						return err
					}
					defer r.client.Disconnect(context.Background())
					return seed(c.Context, r, logger, c.Int("users"), c.Int("books"), c.Bool("reset"))
				},
			},
			{
				Name:  "reconcile",
				Usage: "recompute averageRating and totalReviews for every book",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "batch", Value: 100, Usage: "books per page"},
				},
				Action: func(c *cli.Context) error {
					r, err := connect(c.Context, cfg)
					if err != nil {
						return err
					}
					defer r.client.Disconnect(context.Background())

					agg := rating.NewAggregator(r.reviews, r.books, logger)
					n, err := agg.RecomputeAll(c.Context, r.books, c.Int("batch"))
					if err != nil {
						return err
					}
					fmt.Printf("Recomputed ratings for %d books\n", n)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatal("bookctl failed", zap.Error(err))
	}
}

var (
	genres   = []string{"Fiction", "SciFi", "Fantasy", "Mystery", "History", "Poetry"}
	authors  = []string{"Ursula K. Le Guin", "Octavia Butler", "Italo Calvino", "Toni Morrison", "Jorge Luis Borges", "Chinua Achebe"}
	comments = []string{"Could not put it down.", "Slow start, strong finish.", "Not for me.", "A classic for a reason.", "Beautiful prose."}
)

func seed(ctx context.Context, r *repos, logger *zap.Logger, nUsers, nBooks int, reset bool) error {
	if reset {
		for _, coll := range []string{database.ReviewsCollection, database.BooksCollection, database.UsersCollection} {
			if _, err := r.db.Collection(coll).DeleteMany(ctx, bson.M{}); err != nil {
				return fmt.Errorf("clear %s: %w", coll, err)
			}
		}
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	var userIDs []string
	for i := 1; i <= nUsers; i++ {
		u := &models.User{
			Username:     fmt.Sprintf("reader%d", i),
			Email:        fmt.Sprintf("reader%d@example.com", i),
			PasswordHash: string(hashed),
		}
		if err := r.users.Create(ctx, u); err != nil {
			return fmt.Errorf("create user %s: %w", u.Username, err)
		}
		userIDs = append(userIDs, u.ID.Hex())
	}

	reviews := review.NewReviewService(r.books, r.reviews, rating.NewAggregator(r.reviews, r.books, logger), cache.NopBookCache{}, logger)
	written := 0
	for i := 1; i <= nBooks; i++ {
		b := &models.Book{
			Title:       fmt.Sprintf("Sample Book %d", i),
			Author:      authors[rng.Intn(len(authors))],
			Genre:       genres[rng.Intn(len(genres))],
			Description: "Seeded for local development.",
		}
		if err := r.books.Create(ctx, b); err != nil {
			return fmt.Errorf("create book %d: %w", i, err)
		}
		// Each user reviews each book with probability one third.
		for _, uid := range userIDs {
			if rng.Intn(3) != 0 {
				continue
			}
			input := models.ReviewInput{Rating: rng.Intn(5) + 1, Comment: comments[rng.Intn(len(comments))]}
			if _, err := reviews.AddReview(ctx, b.ID.Hex(), uid, input); err != nil {
				return fmt.Errorf("add review: %w", err)
			}
			written++
		}
	}

	logger.Info("seed complete", zap.Int("users", nUsers), zap.Int("books", nBooks), zap.Int("reviews", written))
	return nil
}
