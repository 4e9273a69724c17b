// Package model defines the domain entities stored in Postgres.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is an account identified by email instead of username.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	IsStaff      bool      `json:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuthToken is an API token tied to a user. A user holds at most one
// token at a time; issuing a new one replaces the old.
type AuthToken struct {
	Key       string    `json:"key"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Attribute is a user-owned recipe label, unique per (user, name).
// Tags and ingredients share this shape and differ only in which table
// and join table back them.
type Attribute struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"-"`
	Name   string `json:"name"`
}

// Tag and Ingredient are the two attribute kinds.
type (
	Tag        = Attribute
	Ingredient = Attribute
)

// Recipe is the central entity. Tags and Ingredients hold the attached
// attribute rows when the repository loads them.
type Recipe struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"-"`
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Link        string          `json:"link"`
	ImagePath   string          `json:"image,omitempty"`
	CreatedAt   time.Time       `json:"-"`

	Tags        []Tag        `json:"tags"`
	Ingredients []Ingredient `json:"ingredients,omitempty"`
}
