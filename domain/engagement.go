package domain

import (
	"context"
	"time"
)

const (
	// ViewDedupWindow is the rolling interval within which repeat views
	// from the same visitor are suppressed.
	ViewDedupWindow = 24 * time.Hour

	// LikeHistoryDays caps the per-day like breakdown.
	LikeHistoryDays = 30
)

// PostLike is a membership row: user X likes post Y. The (post, user)
// pair is unique, so a row either exists or it doesn't.
type PostLike struct {
	PostID    int64
	UserID    int64
	CreatedAt time.Time
}

// PostView is an append-only view event. VisitorID is an opaque string
// derived from request metadata, not a user reference.
type PostView struct {
	PostID    int64
	VisitorID string
	CreatedAt time.Time
}

const (
	LikeActionLiked   = "liked"
	LikeActionUnliked = "unliked"
)

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	Liked      bool
	LikesCount int64
	Action     string
}

// PostAnalytics aggregates the engagement numbers of one post.
type PostAnalytics struct {
	PostID          int64
	Views           int64 // denormalized counter on the post row
	Shares          int64 // denormalized counter on the post row
	TotalLikes      int64
	UniqueLikers    int64
	TotalViewEvents int64
	UniqueVisitors  int64
}

// DailyLikes is the like total of one calendar day.
type DailyLikes struct {
	Date  string // YYYY-MM-DD
	Count int64
}

// LikeAnalytics is the like total plus a per-day breakdown, newest day first.
type LikeAnalytics struct {
	TotalLikes     int64
	DailyBreakdown []DailyLikes
}

// EngagementRepository defines the store contract for the counter subsystem.
// Multi-statement sequences run inside one transaction; check-then-insert
// races are closed by unique keys plus insert-or-ignore semantics.
type EngagementRepository interface {
	// RecordView inserts a view event for (postID, visitorID) unless one
	// exists within the dedup window ending at `at`, and increments the
	// post's view counter only when the insert lands. Returns whether
	// the view was counted.
	RecordView(ctx context.Context, postID int64, visitorID string, at time.Time) (bool, error)

	// AddLike inserts the (postID, userID) membership row. A duplicate is
	// a no-op; the bool reports whether a row was actually inserted.
	AddLike(ctx context.Context, postID, userID int64) (bool, error)

	// RemoveLike deletes the membership row if present; the bool reports
	// whether a row was actually deleted.
	RemoveLike(ctx context.Context, postID, userID int64) (bool, error)

	// HasLiked reports membership for the (postID, userID) pair.
	HasLiked(ctx context.Context, postID, userID int64) (bool, error)

	// CountLikes returns the current like total of a post.
	CountLikes(ctx context.Context, postID int64) (int64, error)

	// IncrementShares bumps the share counter and returns the new value.
	// Returns ErrNotFound if the post doesn't exist.
	IncrementShares(ctx context.Context, postID int64) (int64, error)

	// PostAnalytics aggregates engagement for a post owned by ownerID.
	// Returns ErrNotFound when the post is absent or owned by someone else.
	PostAnalytics(ctx context.Context, postID, ownerID int64) (PostAnalytics, error)

	// LikeAnalytics groups like timestamps since `since` by calendar day,
	// newest first.
	LikeAnalytics(ctx context.Context, postID int64, since time.Time) (LikeAnalytics, error)

	// ReconcileViewCounts recomputes the denormalized view counters from
	// the view-event table and returns the number of corrected posts.
	ReconcileViewCounts(ctx context.Context) (int64, error)
}

// EngagementUsecase defines the business logic contract for the
// view/like/share counter subsystem.
type EngagementUsecase interface {
	// RecordView counts a view once per (post, visitor) per dedup window.
	RecordView(ctx context.Context, postID int64, visitorID string) (bool, error)

	// ToggleLike flips the like membership for (postID, userID) and
	// returns the resulting state and count.
	ToggleLike(ctx context.Context, postID, userID int64) (LikeResult, error)

	// AddLike likes a post; already-liked resolves to a no-op success.
	AddLike(ctx context.Context, postID, userID int64) error

	// RemoveLike unlikes a post; the bool reports whether a like existed.
	RemoveLike(ctx context.Context, postID, userID int64) (bool, error)

	HasLiked(ctx context.Context, postID, userID int64) (bool, error)
	CountLikes(ctx context.Context, postID int64) (int64, error)

	// RecordShare increments the share counter, no dedup.
	RecordShare(ctx context.Context, postID int64) (int64, error)

	PostAnalytics(ctx context.Context, postID, ownerID int64) (PostAnalytics, error)
	LikeAnalytics(ctx context.Context, postID int64) (LikeAnalytics, error)
}
