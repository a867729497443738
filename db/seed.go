package db

import (
	"errors"
	"fmt"

	"librarycatalog/auth"
	"librarycatalog/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	AdminUsername = "admin"
	AdminEmail    = "admin@library.com"
	UserUsername  = "user"
	UserEmail     = "user@library.com"

	// InitialPassword is shared by both bootstrap accounts and is only ever stored hashed.
	InitialPassword = "qwerty123" //nolint:gosec
)

var ErrAccountNotFound = errors.New("seed account not found")

// SeedOptions controls how SeedCatalog treats reruns and failures.
//
// With Idempotent unset, books and reviews are inserted unconditionally and every run adds another five of each;
// only the accounts are protected by the unique email. Idempotent matches books on title and author and reviews on
// book and reviewer, creating only what is missing.
//
// With Transactional unset, a failure leaves whatever was written before it in place.
type SeedOptions struct {
	Idempotent    bool
	Transactional bool
}

// SeedResult holds the identities assigned (or found) while seeding.
type SeedResult struct {
	AdminID   uint
	UserID    uint
	BookIDs   []uint
	ReviewIDs []uint
}

type seedAccount struct {
	username string
	email    string
	role     model.Role
}

// The regular account leaves Role empty so the column default applies.
var seedAccounts = []seedAccount{
	{username: AdminUsername, email: AdminEmail, role: model.RoleAdmin},
	{username: UserUsername, email: UserEmail},
}

type seedBook struct {
	title       string
	author      string
	year        int
	genre       string
	description string
	byAdmin     bool
}

var seedBooks = []seedBook{
	{
		title:       "Мастер и Маргарита",
		author:      "Михаил Булгаков",
		year:        1967,
		genre:       "Роман",
		description: "Философский роман о добре и зле",
		byAdmin:     true,
	},
	{
		title:       "Преступление и наказание",
		author:      "Фёдор Достоевский",
		year:        1866,
		genre:       "Психологическая драма",
		description: "Роман о моральных дилеммах и раскаянии",
	},
	{
		title:       "1984",
		author:      "Джордж Оруэлл",
		year:        1949,
		genre:       "Антиутопия",
		description: "Роман о тоталитарном обществе",
		byAdmin:     true,
	},
	{
		title:       "Гарри Поттер и философский камень",
		author:      "Джоан Роулинг",
		year:        1997,
		genre:       "Фэнтези",
		description: "Первая книга о юном волшебнике",
	},
	{
		title:       "Война и мир",
		author:      "Лев Толстой",
		year:        1869,
		genre:       "Исторический роман",
		description: "Эпопея о войне 1812 года",
		byAdmin:     true,
	},
}

// seedReview.book is a position in seedBooks.
type seedReview struct {
	book    int
	byAdmin bool
	rating  int
	comment string
}

var seedReviews = []seedReview{
	{book: 0, rating: 5, comment: "Великолепная книга! Читал несколько раз."},
	{book: 1, byAdmin: true, rating: 4, comment: "Глубокое произведение, заставляет задуматься."},
	{book: 2, rating: 5, comment: "Актуально и в наше время."},
	{book: 3, byAdmin: true, rating: 4, comment: "Отличная книга для детей и взрослых."},
	{book: 4, rating: 3, comment: "Монументальное произведение, но тяжелое для чтения."},
}

// SeedCatalog loads the demonstration accounts, books and reviews, in that order.
func SeedCatalog(db *gorm.DB, opts SeedOptions, sugar *zap.SugaredLogger) (*SeedResult, error) {
	if !opts.Transactional {
		return seedCatalog(db, opts, sugar)
	}
	var result *SeedResult
	if err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = seedCatalog(tx, opts, sugar)
		return err
	}); err != nil {
		return nil, err
	}
	return result, nil
}

func seedCatalog(db *gorm.DB, opts SeedOptions, sugar *zap.SugaredLogger) (*SeedResult, error) {
	for _, acct := range seedAccounts {
		if err := insertAccount(db, acct); err != nil {
			return nil, err
		}
	}

	result := &SeedResult{}
	var err error
	if result.AdminID, err = accountID(db, AdminUsername); err != nil {
		return nil, err
	}
	if result.UserID, err = accountID(db, UserUsername); err != nil {
		return nil, err
	}
	sugar.Infow("users seeded", "admin_id", result.AdminID, "user_id", result.UserID)

	creator := func(byAdmin bool) uint {
		if byAdmin {
			return result.AdminID
		}
		return result.UserID
	}

	for _, sb := range seedBooks {
		description := sb.description
		book := model.Book{
			Title:       sb.title,
			Author:      sb.author,
			Year:        sb.year,
			Genre:       sb.genre,
			Description: &description,
			CreatedBy:   creator(sb.byAdmin),
		}
		tx := db.Omit(clause.Associations)
		if opts.Idempotent {
			err = tx.Where(model.Book{Title: book.Title, Author: book.Author}).FirstOrCreate(&book).Error
		} else {
			err = tx.Create(&book).Error
		}
		if err != nil {
			return nil, fmt.Errorf("seed: failed to insert book %q: %w", sb.title, err)
		}
		result.BookIDs = append(result.BookIDs, book.ID)
	}
	sugar.Infow("books seeded", "count", len(result.BookIDs), "book_ids", result.BookIDs)

	for _, sr := range seedReviews {
		comment := sr.comment
		review := model.Review{
			BookID:  result.BookIDs[sr.book],
			UserID:  creator(sr.byAdmin),
			Rating:  sr.rating,
			Comment: &comment,
		}
		tx := db.Omit(clause.Associations)
		if opts.Idempotent {
			err = tx.Where(model.Review{BookID: review.BookID, UserID: review.UserID}).FirstOrCreate(&review).Error
		} else {
			err = tx.Create(&review).Error
		}
		if err != nil {
			return nil, fmt.Errorf("seed: failed to insert review of book %d: %w", review.BookID, err)
		}
		result.ReviewIDs = append(result.ReviewIDs, review.ID)
	}
	sugar.Infow("reviews seeded", "count", len(result.ReviewIDs))

	sugar.Infow("catalog seeded", "idempotent", opts.Idempotent, "transactional", opts.Transactional)
	return result, nil
}

// insertAccount relies on the unique email: a rerun is a no-op rather than an error.
func insertAccount(db *gorm.DB, acct seedAccount) error {
	hash, err := auth.HashPassword(InitialPassword)
	if err != nil {
		return fmt.Errorf("seed: hashing password for %s: %w", acct.username, err)
	}
	user := model.User{
		Username: acct.username,
		Email:    acct.email,
		Password: hash,
		Role:     acct.role,
	}
	if err := db.Clauses(clause.Insert{Modifier: "OR IGNORE"}).Create(&user).Error; err != nil {
		return fmt.Errorf("seed: failed to insert account %s: %w", acct.username, err)
	}
	return nil
}

func accountID(db *gorm.DB, username string) (uint, error) {
	var user model.User
	err := db.Select("id").Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("seed: %w: %s", ErrAccountNotFound, username)
	}
	if err != nil {
		return 0, fmt.Errorf("seed: looking up account %s: %w", username, err)
	}
	return user.ID, nil
}
