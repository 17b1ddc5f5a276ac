package models

import "time"

// Article is a note inside a category.
type Article struct {
	ID         int64
	Title      string
	Body       string
	Priority   bool
	CategoryID int64
	UserID     int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
