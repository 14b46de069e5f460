package post_test

import (
	"context"
	"testing"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/qalamhq/qalam/domain"
	"github.com/qalamhq/qalam/internal/usecase/post"
)

// mockPostRepository is a mock of the PostRepository interface
type mockPostRepository struct {
	mock.Mock
}

func (m *mockPostRepository) GetByID(ctx context.Context, id int64) (domain.Post, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Post), args.Error(1)
}

func (m *mockPostRepository) GetBySlug(ctx context.Context, slug string) (domain.Post, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(domain.Post), args.Error(1)
}

func (m *mockPostRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *mockPostRepository) Fetch(ctx context.Context, status domain.PostStatus, limit, offset int64) ([]domain.Post, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]domain.Post), args.Error(1)
}

func (m *mockPostRepository) FetchByAuthor(ctx context.Context, authorID int64, limit, offset int64) ([]domain.Post, error) {
	args := m.Called(ctx, authorID, limit, offset)
	return args.Get(0).([]domain.Post), args.Error(1)
}

func (m *mockPostRepository) Search(ctx context.Context, query string, limit, offset int64) ([]domain.Post, error) {
	args := m.Called(ctx, query, limit, offset)
	return args.Get(0).([]domain.Post), args.Error(1)
}

func (m *mockPostRepository) Store(ctx context.Context, p *domain.Post) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockPostRepository) Update(ctx context.Context, id int64, up domain.PostUpdate) error {
	args := m.Called(ctx, id, up)
	return args.Error(0)
}

func (m *mockPostRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockUserRepository is a mock of the UserRepository interface
type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepository) Insert(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepository) Update(ctx context.Context, id int64, up domain.UserUpdate) error {
	args := m.Called(ctx, id, up)
	return args.Error(0)
}

func fakePost(t *testing.T, authorID int64) domain.Post {
	t.Helper()
	p := domain.Post{
		Title:   faker.Sentence(),
		Content: faker.Paragraph(),
		Status:  domain.PostStatusPublished,
	}
	require.NotEmpty(t, p.Title)
	p.Author = domain.User{ID: authorID}
	return p
}

func TestFetchFillsAuthors(t *testing.T) {
	ctx := context.Background()
	postRepo := new(mockPostRepository)
	userRepo := new(mockUserRepository)

	first := fakePost(t, 1)
	second := fakePost(t, 2)
	postRepo.On("Fetch", mock.Anything, domain.PostStatusPublished, int64(20), int64(0)).
		Return([]domain.Post{first, second}, nil).Once()
	userRepo.On("GetByID", mock.Anything, int64(1)).
		Return(domain.User{ID: 1, Username: "amin"}, nil).Once()
	userRepo.On("GetByID", mock.Anything, int64(2)).
		Return(domain.User{ID: 2, Username: "layla"}, nil).Once()

	svc := post.NewService(postRepo, userRepo)
	res, err := svc.Fetch(ctx, 20, 0)

	assert.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "amin", res[0].Author.Username)
	assert.Equal(t, "layla", res[1].Author.Username)
	postRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("fills in the author", func(t *testing.T) {
		postRepo := new(mockPostRepository)
		userRepo := new(mockUserRepository)

		stored := fakePost(t, 3)
		stored.ID = 7
		postRepo.On("GetByID", mock.Anything, int64(7)).Return(stored, nil).Once()
		userRepo.On("GetByID", mock.Anything, int64(3)).
			Return(domain.User{ID: 3, Username: "amin"}, nil).Once()

		svc := post.NewService(postRepo, userRepo)
		res, err := svc.GetByID(ctx, 7)

		assert.NoError(t, err)
		assert.Equal(t, "amin", res.Author.Username)
		postRepo.AssertExpectations(t)
	})

	t.Run("rejects a non-positive id", func(t *testing.T) {
		svc := post.NewService(new(mockPostRepository), new(mockUserRepository))
		_, err := svc.GetByID(ctx, 0)
		assert.ErrorIs(t, err, domain.ErrBadParamInput)
	})
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("slugifies the title", func(t *testing.T) {
		postRepo := new(mockPostRepository)
		userRepo := new(mockUserRepository)

		postRepo.On("SlugExists", mock.Anything, "hello-world").Return(false, nil).Once()
		postRepo.On("Store", mock.Anything, mock.AnythingOfType("*domain.Post")).Return(nil).Once()
		userRepo.On("GetByID", mock.Anything, int64(3)).
			Return(domain.User{ID: 3, Username: "amin"}, nil).Once()

		p := domain.Post{
			Title:   "  Hello, World!  ",
			Content: "some content",
			Author:  domain.User{ID: 3},
		}
		svc := post.NewService(postRepo, userRepo)
		err := svc.Store(ctx, &p)

		assert.NoError(t, err)
		assert.Equal(t, "hello-world", p.Slug)
		assert.Equal(t, domain.PostStatusPublished, p.Status)
		assert.Equal(t, "amin", p.Author.Username)
		postRepo.AssertExpectations(t)
	})

	t.Run("suffixes colliding slugs", func(t *testing.T) {
		postRepo := new(mockPostRepository)
		userRepo := new(mockUserRepository)

		postRepo.On("SlugExists", mock.Anything, "hello-world").Return(true, nil).Once()
		postRepo.On("SlugExists", mock.Anything, "hello-world-1").Return(true, nil).Once()
		postRepo.On("SlugExists", mock.Anything, "hello-world-2").Return(false, nil).Once()
		postRepo.On("Store", mock.Anything, mock.AnythingOfType("*domain.Post")).Return(nil).Once()
		userRepo.On("GetByID", mock.Anything, int64(3)).
			Return(domain.User{ID: 3}, nil).Once()

		p := domain.Post{
			Title:   "Hello World",
			Content: "some content",
			Author:  domain.User{ID: 3},
		}
		svc := post.NewService(postRepo, userRepo)
		err := svc.Store(ctx, &p)

		assert.NoError(t, err)
		assert.Equal(t, "hello-world-2", p.Slug)
		postRepo.AssertExpectations(t)
	})

	t.Run("rejects blank title or content", func(t *testing.T) {
		svc := post.NewService(new(mockPostRepository), new(mockUserRepository))

		err := svc.Store(ctx, &domain.Post{Title: "   ", Content: "body"})
		assert.ErrorIs(t, err, domain.ErrBadParamInput)

		err = svc.Store(ctx, &domain.Post{Title: "title", Content: " "})
		assert.ErrorIs(t, err, domain.ErrBadParamInput)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("owner edits regenerate the slug on a title change", func(t *testing.T) {
		postRepo := new(mockPostRepository)
		userRepo := new(mockUserRepository)

		existing := domain.Post{
			ID:      7,
			Title:   "Old Title",
			Content: "old content",
			Slug:    "old-title",
			Author:  domain.User{ID: 3, Username: "amin"},
		}
		postRepo.On("GetByID", mock.Anything, int64(7)).Return(existing, nil).Once()
		postRepo.On("SlugExists", mock.Anything, "new-title").Return(false, nil).Once()
		postRepo.On("Update", mock.Anything, int64(7), mock.MatchedBy(func(up domain.PostUpdate) bool {
			return up.Slug != nil && *up.Slug == "new-title" && *up.Title == "New Title"
		})).Return(nil).Once()

		updated := existing
		updated.Title = "New Title"
		updated.Slug = "new-title"
		postRepo.On("GetByID", mock.Anything, int64(7)).Return(updated, nil).Once()

		svc := post.NewService(postRepo, userRepo)
		res, err := svc.Update(ctx, 3, 7, "New Title", "new content", "")

		assert.NoError(t, err)
		assert.Equal(t, "new-title", res.Slug)
		assert.Equal(t, "amin", res.Author.Username)
		postRepo.AssertExpectations(t)
	})

	t.Run("rejects a non-owner", func(t *testing.T) {
		postRepo := new(mockPostRepository)

		existing := fakePost(t, 3)
		existing.ID = 7
		postRepo.On("GetByID", mock.Anything, int64(7)).Return(existing, nil).Once()

		svc := post.NewService(postRepo, new(mockUserRepository))
		_, err := svc.Update(ctx, 99, 7, "New Title", "new content", "")

		assert.ErrorIs(t, err, domain.ErrForbidden)
		postRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes", func(t *testing.T) {
		postRepo := new(mockPostRepository)

		existing := fakePost(t, 3)
		existing.ID = 7
		postRepo.On("GetByID", mock.Anything, int64(7)).Return(existing, nil).Once()
		postRepo.On("Delete", mock.Anything, int64(7)).Return(nil).Once()

		svc := post.NewService(postRepo, new(mockUserRepository))
		assert.NoError(t, svc.Delete(ctx, 3, 7))
		postRepo.AssertExpectations(t)
	})

	t.Run("rejects a non-owner", func(t *testing.T) {
		postRepo := new(mockPostRepository)

		existing := fakePost(t, 3)
		existing.ID = 7
		postRepo.On("GetByID", mock.Anything, int64(7)).Return(existing, nil).Once()

		svc := post.NewService(postRepo, new(mockUserRepository))
		err := svc.Delete(ctx, 99, 7)

		assert.ErrorIs(t, err, domain.ErrForbidden)
		postRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing post", func(t *testing.T) {
		postRepo := new(mockPostRepository)
		postRepo.On("GetByID", mock.Anything, int64(404)).
			Return(domain.Post{}, domain.ErrNotFound).Once()

		svc := post.NewService(postRepo, new(mockUserRepository))
		assert.ErrorIs(t, svc.Delete(ctx, 3, 404), domain.ErrNotFound)
	})
}
