package model

import (
	"database/sql/driver"
	"fmt"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid returns true if Role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

func (r *Role) Scan(value any) error {
	switch v := value.(type) {
	case string:
		*r = Role(v)
	case []byte:
		*r = Role(v)
	default:
		return fmt.Errorf("cannot scan %T into Role", value)
	}
	return nil
}

func (r Role) Value() (driver.Value, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("invalid Role %q", r)
	}
	return string(r), nil
}

// A User is an account that owns Books and writes Reviews.
//
// Email is unique across the catalog. Role is left to the store default
// ("user") when empty on insert.
type User struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Username  string    `gorm:"column:username;type:text;not null"`
	Email     string    `gorm:"column:email;type:text;unique;not null"`
	Password  string    `gorm:"column:password;type:text;not null"`
	Role      Role      `gorm:"column:role;type:text;default:user"`
	CreatedAt time.Time `gorm:"column:createdAt;type:datetime;default:CURRENT_TIMESTAMP;autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}

type Book struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Title       string    `gorm:"column:title;type:text;not null"`
	Author      string    `gorm:"column:author;type:text;not null"`
	Year        int       `gorm:"column:year;type:integer;not null"`
	Genre       string    `gorm:"column:genre;type:text;not null"`
	Description *string   `gorm:"column:description;type:text"`
	CreatedBy   uint      `gorm:"column:createdBy;type:integer;not null"`
	CreatedAt   time.Time `gorm:"column:createdAt;type:datetime;default:CURRENT_TIMESTAMP;autoCreateTime"`

	Creator User `gorm:"foreignKey:CreatedBy;constraint:OnDelete:CASCADE;"`
}

func (Book) TableName() string {
	return "books"
}

type Review struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	BookID    uint      `gorm:"column:bookId;type:integer;not null"`
	UserID    uint      `gorm:"column:userId;type:integer;not null"`
	Rating    int       `gorm:"column:rating;type:integer;not null;check:rating >= 1 AND rating <= 5"`
	Comment   *string   `gorm:"column:comment;type:text"`
	CreatedAt time.Time `gorm:"column:createdAt;type:datetime;default:CURRENT_TIMESTAMP;autoCreateTime"`

	Book Book `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;"`
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}

// MinRating and MaxRating bound Review.Rating; the store enforces the same range.
const (
	MinRating = 1
	MaxRating = 5
)
