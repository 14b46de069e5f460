package post

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/qalamhq/qalam/domain"
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

type Service struct {
	postRepo domain.PostRepository
	userRepo domain.UserRepository
}

var _ domain.PostUsecase = (*Service)(nil)

// NewService will create a new post service object
func NewService(p domain.PostRepository, u domain.UserRepository) *Service {
	return &Service{
		postRepo: p,
		userRepo: u,
	}
}

/*
* fillAuthorDetails fans out one lookup per distinct author with errgroup
* and merges the results back, so list endpoints don't pay a sequential
* round trip per post.
 */
func (s *Service) fillAuthorDetails(ctx context.Context, data []domain.Post) ([]domain.Post, error) {
	g, ctx := errgroup.WithContext(ctx)
	mapUsers := map[int64]domain.User{}

	for _, p := range data { //nolint
		mapUsers[p.Author.ID] = domain.User{}
	}

	chanUser := make(chan domain.User)
	for authorID := range mapUsers {
		authorID := authorID
		g.Go(func() error {
			res, err := s.userRepo.GetByID(ctx, authorID)
			if err != nil {
				return err
			}
			chanUser <- res
			return nil
		})
	}

	go func() {
		defer close(chanUser)
		err := g.Wait()
		if err != nil {
			logrus.Error(err)
			return
		}
	}()

	for user := range chanUser {
		if user != (domain.User{}) {
			mapUsers[user.ID] = user
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for index, item := range data { //nolint
		if u, ok := mapUsers[item.Author.ID]; ok {
			data[index].Author = u
		}
	}
	return data, nil
}

func (s *Service) Fetch(ctx context.Context, limit, offset int64) ([]domain.Post, error) {
	res, err := s.postRepo.Fetch(ctx, domain.PostStatusPublished, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.fillAuthorDetails(ctx, res)
}

func (s *Service) FetchByAuthor(ctx context.Context, authorID int64, limit, offset int64) ([]domain.Post, error) {
	if authorID <= 0 {
		return nil, domain.ErrBadParamInput
	}
	res, err := s.postRepo.FetchByAuthor(ctx, authorID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.fillAuthorDetails(ctx, res)
}

func (s *Service) Search(ctx context.Context, query string, limit, offset int64) ([]domain.Post, error) {
	res, err := s.postRepo.Search(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.fillAuthorDetails(ctx, res)
}

func (s *Service) GetByID(ctx context.Context, id int64) (domain.Post, error) {
	if id <= 0 {
		return domain.Post{}, domain.ErrBadParamInput
	}

	res, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}

	author, err := s.userRepo.GetByID(ctx, res.Author.ID)
	if err != nil {
		return domain.Post{}, err
	}
	res.Author = author
	return res, nil
}

func (s *Service) Store(ctx context.Context, p *domain.Post) error {
	p.Title = strings.TrimSpace(p.Title)
	p.Content = strings.TrimSpace(p.Content)
	if p.Title == "" || p.Content == "" {
		return domain.ErrBadParamInput
	}
	if p.Status == "" {
		p.Status = domain.PostStatusPublished
	}

	slug, err := s.generateSlug(ctx, p.Title)
	if err != nil {
		return err
	}
	p.Slug = slug

	if err := s.postRepo.Store(ctx, p); err != nil {
		return err
	}

	author, err := s.userRepo.GetByID(ctx, p.Author.ID)
	if err != nil {
		return err
	}
	p.Author = author
	return nil
}

func (s *Service) Update(ctx context.Context, requesterID int64, id int64, title, content string, status domain.PostStatus) (domain.Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return domain.Post{}, domain.ErrBadParamInput
	}

	existing, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}
	if existing.Author.ID != requesterID {
		return domain.Post{}, domain.ErrForbidden
	}

	up := domain.PostUpdate{
		Title:   &title,
		Content: &content,
	}
	if status != "" {
		up.Status = &status
	}
	if title != existing.Title {
		slug, err := s.generateSlug(ctx, title)
		if err != nil {
			return domain.Post{}, err
		}
		up.Slug = &slug
	}

	if err := s.postRepo.Update(ctx, id, up); err != nil {
		return domain.Post{}, err
	}

	updated, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}
	updated.Author = existing.Author
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, requesterID int64, id int64) error {
	existing, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.Author.ID != requesterID {
		return domain.ErrForbidden
	}
	return s.postRepo.Delete(ctx, id)
}

// generateSlug lowercases the title, collapses everything outside
// [a-z0-9] into dashes, and probes slug, slug-1, slug-2, ... until a
// free one turns up. Bounded by the number of existing posts plus one.
func (s *Service) generateSlug(ctx context.Context, title string) (string, error) {
	base := strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if base == "" {
		base = "post"
	}

	slug := base
	for counter := 1; ; counter++ {
		exists, err := s.postRepo.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}
