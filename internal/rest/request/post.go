package request

import "github.com/qalamhq/qalam/domain"

// StorePost is the payload for creating a post.
type StorePost struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"required"`
	Status  string `json:"status" binding:"omitempty,oneof=published draft"`
}

func (r *StorePost) ToDomain() domain.Post {
	return domain.Post{
		Title:   r.Title,
		Content: r.Content,
		Status:  domain.PostStatus(r.Status),
	}
}

// UpdatePost is the payload for editing a post.
type UpdatePost struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"required"`
	Status  string `json:"status" binding:"omitempty,oneof=published draft"`
}
