package database

// Collection names shared by the repositories.
const (
	BooksCollection   = "books"
	ReviewsCollection = "reviews"
	UsersCollection   = "users"
)
