package model

import (
	"time"

	"github.com/qalamhq/qalam/domain"
)

type Post struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Title     string `gorm:"type:varchar(200);not null"`
	Content   string `gorm:"type:longtext;not null"`
	Slug      string `gorm:"type:varchar(220);uniqueIndex;not null"`
	Status    string `gorm:"type:varchar(16);not null;default:published;index"`
	UserID    int64  `gorm:"column:user_id;not null;index"`
	Views     int64  `gorm:"default:0"`
	Shares    int64  `gorm:"default:0"`
	UpdatedAt time.Time
	CreatedAt time.Time `gorm:"index"`

	// LikesCount is filled by a subquery on reads, never written.
	LikesCount int64 `gorm:"->;-:migration"`
}

func (Post) TableName() string {
	return "posts"
}

func (m *Post) ToDomain() domain.Post {
	return domain.Post{
		ID:      m.ID,
		Title:   m.Title,
		Content: m.Content,
		Slug:    m.Slug,
		Status:  domain.PostStatus(m.Status),
		Author: domain.User{
			ID: m.UserID,
		},
		Views:      m.Views,
		Shares:     m.Shares,
		LikesCount: m.LikesCount,
		UpdatedAt:  m.UpdatedAt,
		CreatedAt:  m.CreatedAt,
	}
}

func NewPostFromDomain(p *domain.Post) *Post {
	return &Post{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Slug:      p.Slug,
		Status:    string(p.Status),
		UserID:    p.Author.ID,
		Views:     p.Views,
		Shares:    p.Shares,
		UpdatedAt: p.UpdatedAt,
		CreatedAt: p.CreatedAt,
	}
}
