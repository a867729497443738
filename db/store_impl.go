package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"librarycatalog/model"

	"gorm.io/gorm"
)

type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

// DB exposes the underlying connection for collaborators that write to the catalog.
func (s *SQLStore) DB() *gorm.DB {
	return s.db
}

// Ping verifies the underlying database connection is healthy.
func (s *SQLStore) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sql store is not initialized")
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool. The store must not be used afterwards.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetUserByUsername returns the first account registered under username.
func (s *SQLStore) GetUserByUsername(username string) (*model.User, error) {
	var user model.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListBooks returns every book with its creator, oldest first.
func (s *SQLStore) ListBooks() ([]model.Book, error) {
	var books []model.Book
	if err := s.db.Preload("Creator").Order("id").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (s *SQLStore) ListReviews() ([]model.Review, error) {
	var reviews []model.Review
	if err := s.db.Preload("Book").Preload("User").Order("id").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *SQLStore) ListReviewsByBook(bookID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := s.db.
		Preload("User").
		Where("bookId = ?", bookID).
		Order("id").
		Find(&reviews).Error
	return reviews, err
}

func (s *SQLStore) Counts() (CatalogCounts, error) {
	var c CatalogCounts
	if err := s.db.Model(&model.User{}).Count(&c.Users).Error; err != nil {
		return c, fmt.Errorf("counting users: %w", err)
	}
	if err := s.db.Model(&model.Book{}).Count(&c.Books).Error; err != nil {
		return c, fmt.Errorf("counting books: %w", err)
	}
	if err := s.db.Model(&model.Review{}).Count(&c.Reviews).Error; err != nil {
		return c, fmt.Errorf("counting reviews: %w", err)
	}
	return c, nil
}
