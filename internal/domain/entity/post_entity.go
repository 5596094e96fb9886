package entity

import "time"

// Post is an image post. Likes only grows, through the like operation.
type Post struct {
	ID        int64
	AuthorID  string
	ImageURL  string
	Likes     int64
	CreatedAt time.Time
}

// Comment belongs to exactly one post and one author.
type Comment struct {
	ID        int64
	PostID    int64
	AuthorID  string
	Text      string
	CreatedAt time.Time
}

// PostWithComments is the aggregate read returned by the feed.
type PostWithComments struct {
	Post
	Comments []Comment
}
