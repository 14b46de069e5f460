package model

import (
	"time"

	"github.com/qalamhq/qalam/domain"
)

// PostView is an append-only view event. DayBucket backs the unique key
// that closes the check-then-insert race: two concurrent views of the
// same post by the same visitor on the same day conflict instead of
// both incrementing.
type PostView struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	PostID    int64     `gorm:"column:post_id;not null;uniqueIndex:idx_view_dedup"`
	VisitorID string    `gorm:"column:visitor_id;type:varchar(120);not null;uniqueIndex:idx_view_dedup"`
	DayBucket string    `gorm:"column:day_bucket;type:char(10);not null;uniqueIndex:idx_view_dedup"`
	CreatedAt time.Time `gorm:"index"`
}

func (PostView) TableName() string {
	return "post_views"
}

func (m *PostView) ToDomain() domain.PostView {
	return domain.PostView{
		PostID:    m.PostID,
		VisitorID: m.VisitorID,
		CreatedAt: m.CreatedAt,
	}
}
