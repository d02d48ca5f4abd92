package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book is a catalogue entry. AverageRating and TotalReviews are derived from
// the reviews collection and are only written by the rating aggregator.
type Book struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Author        string             `bson:"author" json:"author"`
	Genre         string             `bson:"genre" json:"genre"`
	Description   string             `bson:"description" json:"description"`
	AverageRating float64            `bson:"averageRating" json:"averageRating"`
	TotalReviews  int                `bson:"totalReviews" json:"totalReviews"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type BookInput struct {
	Title       string `json:"title" binding:"required" validate:"required"`
	Author      string `json:"author" binding:"required" validate:"required"`
	Genre       string `json:"genre" binding:"required" validate:"required"`
	Description string `json:"description" binding:"required" validate:"required"`
}

// BookUpdate carries a partial update; nil fields are left untouched.
type BookUpdate struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1"`
	Author      *string `json:"author,omitempty" validate:"omitempty,min=1"`
	Genre       *string `json:"genre,omitempty" validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=1"`
}

// BookFilter narrows a book listing.
type BookFilter struct {
	Genre  string // exact match
	Author string // case-insensitive substring
}

// BookDetails is a book together with one page of its reviews.
type BookDetails struct {
	Book       *Book          `json:"book"`
	Reviews    []ReviewDetail `json:"reviews"`
	Pagination Pagination     `json:"pagination"`
}
