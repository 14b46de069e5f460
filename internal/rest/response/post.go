package response

import (
	"time"

	"github.com/qalamhq/qalam/domain"
)

type Author struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type Post struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Slug       string    `json:"slug"`
	Status     string    `json:"status"`
	Author     Author    `json:"author"`
	Views      int64     `json:"views"`
	Shares     int64     `json:"shares"`
	LikesCount int64     `json:"likesCount"`
	ReadTime   int       `json:"readTime"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewPostFromDomain(p *domain.Post) Post {
	return Post{
		ID:      p.ID,
		Title:   p.Title,
		Content: p.Content,
		Slug:    p.Slug,
		Status:  string(p.Status),
		Author: Author{
			ID:       p.Author.ID,
			Username: p.Author.Username,
		},
		Views:      p.Views,
		Shares:     p.Shares,
		LikesCount: p.LikesCount,
		ReadTime:   p.ReadTime(),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
