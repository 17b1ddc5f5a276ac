package models

// Category groups articles for a single user.
type Category struct {
	ID     int64
	Name   string
	Icon   string
	Color  string
	UserID int64

	// ArticleCount is populated only by list queries that join articles.
	ArticleCount int64
}
