package model

import (
	"time"

	"github.com/qalamhq/qalam/domain"
)

// PostLike is the (post, user) membership relation. The composite unique
// key makes duplicate inserts conflict instead of double-counting.
type PostLike struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	PostID    int64     `gorm:"column:post_id;not null;uniqueIndex:idx_post_user_like"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_post_user_like"`
	CreatedAt time.Time `gorm:"index"`
}

func (PostLike) TableName() string {
	return "post_likes"
}

func (m *PostLike) ToDomain() domain.PostLike {
	return domain.PostLike{
		PostID:    m.PostID,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
	}
}
