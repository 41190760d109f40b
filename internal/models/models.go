package models

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Profile represents an authenticated user's public profile.
// A row is created implicitly on first sign-in.
type Profile struct {
	ID        string
	Name      string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Material represents a single uploaded study document.
type Material struct {
	ID          string
	UserID      string
	Title       string
	Description string
	FileURL     string
	Type        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Comment represents a comment on a material.
type Comment struct {
	ID         string
	UserID     string
	MaterialID string
	Content    string
	CreatedAt  time.Time
}

// Like marks that a profile liked a material. The (UserID, MaterialID)
// pair is unique; existence of the row is the liked state.
type Like struct {
	UserID     string
	MaterialID string
	CreatedAt  time.Time
}

// FeedItem is a material joined with its author and aggregate counts,
// as shown on the feed and profile listings.
type FeedItem struct {
	Material
	AuthorName      string
	AuthorAvatarURL string
	LikeCount       int
	CommentCount    int
}

// CommentWithAuthor is a comment joined with its author's profile.
type CommentWithAuthor struct {
	Comment
	AuthorName      string
	AuthorAvatarURL string
}

// MaterialDetail is the full payload for a material detail page.
type MaterialDetail struct {
	Material  Material
	Author    Profile
	Comments  []CommentWithAuthor
	LikeCount int
	Liked     bool
}

// ProfilePage is the payload for a user's own profile page.
type ProfilePage struct {
	Profile        Profile
	Materials      []FeedItem
	FollowerCount  int
	FollowingCount int
}
