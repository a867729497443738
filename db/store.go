package db

import (
	"context"
	"errors"

	"librarycatalog/model"
)

var ErrUserNotFound = errors.New("user not found")

// Store is the read surface collaborators get once the catalog has been bootstrapped.
type Store interface {
	Ping(ctx context.Context) error
	GetUserByUsername(username string) (*model.User, error)
	ListBooks() ([]model.Book, error)
	ListReviews() ([]model.Review, error)
	ListReviewsByBook(bookID uint) ([]model.Review, error)
	Counts() (CatalogCounts, error)
	Close() error
}

var _ Store = (*SQLStore)(nil)

// CatalogCounts holds the number of rows in each catalog table.
type CatalogCounts struct {
	Users   int64
	Books   int64
	Reviews int64
}
