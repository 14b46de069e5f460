package domain

import (
	"context"
	"math"
	"strings"
	"time"
)

// PostStatus is the publication state of a post.
type PostStatus string

const (
	PostStatusPublished PostStatus = "published"
	PostStatusDraft     PostStatus = "draft"
)

// wordsPerMinute is the reading speed used for the read-time estimate.
const wordsPerMinute = 200

// Post is representing the Post data struct
type Post struct {
	ID         int64      // Unique identifier for the post
	Title      string     // Post title
	Content    string     // Post body content
	Slug       string     // URL slug, unique, derived from the title
	Status     PostStatus // published or draft
	Author     User       // Owner information
	Views      int64      // Denormalized view counter
	Shares     int64      // Denormalized share counter
	LikesCount int64      // Like total, computed from post_likes
	UpdatedAt  time.Time  // Last update timestamp
	CreatedAt  time.Time  // Creation timestamp
}

// ReadTime estimates the reading time of the post content in minutes.
func (p Post) ReadTime() int {
	words := len(strings.Fields(p.Content))
	if words == 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / wordsPerMinute))
}

// PostUpdate enumerates the columns a caller may change on a post.
// Nil fields are left untouched.
type PostUpdate struct {
	Title   *string
	Content *string
	Slug    *string
	Status  *PostStatus
}

// PostRepository defines the contract for post data persistence
type PostRepository interface {
	// GetByID retrieves a single post by its ID.
	// Returns ErrNotFound if the post doesn't exist.
	GetByID(ctx context.Context, id int64) (Post, error)

	// GetBySlug retrieves a single post by its slug.
	GetBySlug(ctx context.Context, slug string) (Post, error)

	// SlugExists reports whether a post with the given slug already exists.
	SlugExists(ctx context.Context, slug string) (bool, error)

	// Fetch retrieves posts with the given status, newest first.
	Fetch(ctx context.Context, status PostStatus, limit, offset int64) ([]Post, error)

	// FetchByAuthor retrieves the posts owned by the given user, newest first.
	FetchByAuthor(ctx context.Context, authorID int64, limit, offset int64) ([]Post, error)

	// Search retrieves published posts whose title or content matches the query.
	Search(ctx context.Context, query string, limit, offset int64) ([]Post, error)

	// Store creates a new post and backfills ID and timestamps.
	Store(ctx context.Context, p *Post) error

	// Update applies the non-nil fields of up to the post with the given id.
	// Returns ErrNotFound if the post doesn't exist.
	Update(ctx context.Context, id int64, up PostUpdate) error

	// Delete removes a post by its ID. Likes and view events cascade.
	// Returns ErrNotFound if not exists.
	Delete(ctx context.Context, id int64) error
}

// PostUsecase defines the business logic contract for post operations.
type PostUsecase interface {
	Fetch(ctx context.Context, limit, offset int64) ([]Post, error)
	FetchByAuthor(ctx context.Context, authorID int64, limit, offset int64) ([]Post, error)
	Search(ctx context.Context, query string, limit, offset int64) ([]Post, error)
	GetByID(ctx context.Context, id int64) (Post, error)

	// Store creates a post on behalf of its author. The slug is derived
	// from the title; collisions get a numeric suffix.
	Store(ctx context.Context, p *Post) error

	// Update modifies a post. Only the owner may update; others get
	// ErrForbidden. A changed title produces a fresh slug.
	Update(ctx context.Context, requesterID int64, id int64, title, content string, status PostStatus) (Post, error)

	// Delete removes a post. Only the owner may delete.
	Delete(ctx context.Context, requesterID int64, id int64) error
}
