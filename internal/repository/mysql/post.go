package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/qalamhq/qalam/domain"
	"github.com/qalamhq/qalam/internal/repository/mysql/model"
)

// likesCountSelect fills model.Post.LikesCount on reads so list endpoints
// don't need one COUNT query per row.
const likesCountSelect = "posts.*, (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = posts.id) AS likes_count"

type postRepository struct {
	DB *gorm.DB
}

var _ domain.PostRepository = (*postRepository)(nil)

// NewPostRepository creates the gorm-backed post repository.
func NewPostRepository(db *gorm.DB) *postRepository {
	return &postRepository{db}
}

func (m *postRepository) GetByID(ctx context.Context, id int64) (domain.Post, error) {
	var post model.Post
	err := m.DB.WithContext(ctx).Select(likesCountSelect).First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Post{}, domain.ErrNotFound
		}
		return domain.Post{}, err
	}
	return post.ToDomain(), nil
}

func (m *postRepository) GetBySlug(ctx context.Context, slug string) (domain.Post, error) {
	var post model.Post
	err := m.DB.WithContext(ctx).Select(likesCountSelect).First(&post, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Post{}, domain.ErrNotFound
		}
		return domain.Post{}, err
	}
	return post.ToDomain(), nil
}

func (m *postRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := m.DB.WithContext(ctx).Model(&model.Post{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (m *postRepository) Fetch(ctx context.Context, status domain.PostStatus, limit, offset int64) ([]domain.Post, error) {
	var posts []model.Post
	err := m.DB.WithContext(ctx).
		Select(likesCountSelect).
		Where("status = ?", string(status)).
		Order("created_at DESC").
		Limit(int(limit)).
		Offset(int(offset)).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return toDomainPosts(posts), nil
}

func (m *postRepository) FetchByAuthor(ctx context.Context, authorID int64, limit, offset int64) ([]domain.Post, error) {
	var posts []model.Post
	err := m.DB.WithContext(ctx).
		Select(likesCountSelect).
		Where("user_id = ?", authorID).
		Order("created_at DESC").
		Limit(int(limit)).
		Offset(int(offset)).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return toDomainPosts(posts), nil
}

func (m *postRepository) Search(ctx context.Context, query string, limit, offset int64) ([]domain.Post, error) {
	var posts []model.Post
	pattern := "%" + query + "%"
	err := m.DB.WithContext(ctx).
		Select(likesCountSelect).
		Where("status = ?", string(domain.PostStatusPublished)).
		Where("title LIKE ? OR content LIKE ?", pattern, pattern).
		Order("created_at DESC").
		Limit(int(limit)).
		Offset(int(offset)).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return toDomainPosts(posts), nil
}

func (m *postRepository) Store(ctx context.Context, p *domain.Post) error {
	postModel := model.NewPostFromDomain(p)
	result := m.DB.WithContext(ctx).Create(postModel)
	if result.Error != nil {
		return result.Error
	}
	p.ID = postModel.ID
	p.CreatedAt = postModel.CreatedAt
	p.UpdatedAt = postModel.UpdatedAt
	return nil
}

func (m *postRepository) Update(ctx context.Context, id int64, up domain.PostUpdate) error {
	columns := map[string]any{}
	if up.Title != nil {
		columns["title"] = *up.Title
	}
	if up.Content != nil {
		columns["content"] = *up.Content
	}
	if up.Slug != nil {
		columns["slug"] = *up.Slug
	}
	if up.Status != nil {
		columns["status"] = string(*up.Status)
	}
	if len(columns) == 0 {
		return nil
	}

	result := m.DB.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *postRepository) Delete(ctx context.Context, id int64) error {
	// Likes and view events go with the post, matching the relational
	// cascade of the schema.
	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&model.Post{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.PostLike{}).Error; err != nil {
			return err
		}
		return tx.Where("post_id = ?", id).Delete(&model.PostView{}).Error
	})
}

func toDomainPosts(posts []model.Post) []domain.Post {
	res := make([]domain.Post, len(posts))
	for i := range posts {
		res[i] = posts[i].ToDomain()
	}
	return res
}
