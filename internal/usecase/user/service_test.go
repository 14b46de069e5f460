package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/qalamhq/qalam/domain"
	"github.com/qalamhq/qalam/internal/token"
	"github.com/qalamhq/qalam/internal/usecase/user"
)

var testSecret = []byte("test-secret")

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

// mockTokenStore is a mock of the TokenStore interface
type mockTokenStore struct {
	mock.Mock
}

func (m *mockTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *mockTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func newService(repo domain.UserRepository, tokens domain.TokenStore) *user.Service {
	return user.NewService(repo, tokens, testSecret, time.Hour)
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an account and signs a token", func(t *testing.T) {
		repo := new(mockUserRepository)
		repo.On("GetByEmail", ctx, "amin@example.com").
			Return(domain.User{}, domain.ErrNotFound).Once()
		repo.On("GetByUsername", ctx, "amin").
			Return(domain.User{}, domain.ErrNotFound).Once()
		repo.On("Insert", ctx, mock.AnythingOfType("*domain.User")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.User).ID = 3
			}).Return(nil).Once()

		svc := newService(repo, new(mockTokenStore))
		u, tok, err := svc.Register(ctx, "amin", "Amin@Example.com", "sekrit-pass")

		assert.NoError(t, err)
		assert.Equal(t, int64(3), u.ID)
		assert.Equal(t, "amin@example.com", u.Email)
		assert.Equal(t, domain.RoleUser, u.Role)
		assert.NotEqual(t, "sekrit-pass", u.Password)
		assert.NotEmpty(t, tok.Raw)
		assert.NotEmpty(t, tok.ID)

		claims, err := token.Parse(testSecret, tok.Raw)
		require.NoError(t, err)
		assert.Equal(t, int64(3), claims.UserID)
		repo.AssertExpectations(t)
	})

	t.Run("rejects a taken email", func(t *testing.T) {
		repo := new(mockUserRepository)
		repo.On("GetByEmail", ctx, "amin@example.com").
			Return(domain.User{ID: 9}, nil).Once()

		svc := newService(repo, new(mockTokenStore))
		_, _, err := svc.Register(ctx, "amin", "amin@example.com", "sekrit-pass")

		assert.ErrorIs(t, err, domain.ErrConflict)
		repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		svc := newService(new(mockUserRepository), new(mockTokenStore))

		_, _, err := svc.Register(ctx, "", "amin@example.com", "sekrit-pass")
		assert.ErrorIs(t, err, domain.ErrBadParamInput)

		_, _, err = svc.Register(ctx, "amin", "not-an-email", "sekrit-pass")
		assert.ErrorIs(t, err, domain.ErrBadParamInput)

		_, _, err = svc.Register(ctx, "amin", "amin@example.com", "short")
		assert.ErrorIs(t, err, domain.ErrBadParamInput)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("verifies credentials", func(t *testing.T) {
		stored := domain.User{
			ID:       3,
			Username: "amin",
			Email:    "amin@example.com",
			Password: hashPassword(t, "sekrit-pass"),
		}
		repo := new(mockUserRepository)
		repo.On("GetByEmail", ctx, "amin@example.com").Return(stored, nil).Once()

		svc := newService(repo, new(mockTokenStore))
		u, tok, err := svc.Login(ctx, "amin@example.com", "sekrit-pass")

		assert.NoError(t, err)
		assert.Equal(t, int64(3), u.ID)
		assert.NotEmpty(t, tok.Raw)
		repo.AssertExpectations(t)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		repo := new(mockUserRepository)
		repo.On("GetByEmail", ctx, "ghost@example.com").
			Return(domain.User{}, domain.ErrNotFound).Once()
		repo.On("GetByEmail", ctx, "amin@example.com").
			Return(domain.User{Password: hashPassword(t, "sekrit-pass")}, nil).Once()

		svc := newService(repo, new(mockTokenStore))

		_, _, unknownErr := svc.Login(ctx, "ghost@example.com", "whatever")
		_, _, wrongErr := svc.Login(ctx, "amin@example.com", "wrong-pass")

		assert.ErrorIs(t, unknownErr, domain.ErrUnauthorized)
		assert.ErrorIs(t, wrongErr, domain.ErrUnauthorized)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("changes the password after verifying the current one", func(t *testing.T) {
		current := domain.User{
			ID:       3,
			Username: "amin",
			Email:    "amin@example.com",
			Password: hashPassword(t, "old-pass"),
		}
		repo := new(mockUserRepository)
		repo.On("GetByID", ctx, int64(3)).Return(current, nil).Once()
		repo.On("Update", ctx, int64(3), mock.MatchedBy(func(up domain.UserUpdate) bool {
			return up.Password != nil && up.Username == nil && up.Email == nil
		})).Return(nil).Once()
		repo.On("GetByID", ctx, int64(3)).Return(current, nil).Once()

		svc := newService(repo, new(mockTokenStore))
		_, tok, err := svc.UpdateProfile(ctx, 3, domain.ProfileUpdate{
			CurrentPassword: "old-pass",
			NewPassword:     "new-pass-123",
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, tok.Raw)
		repo.AssertExpectations(t)
	})

	t.Run("rejects a wrong current password", func(t *testing.T) {
		current := domain.User{ID: 3, Password: hashPassword(t, "old-pass")}
		repo := new(mockUserRepository)
		repo.On("GetByID", ctx, int64(3)).Return(current, nil).Once()

		svc := newService(repo, new(mockTokenStore))
		_, _, err := svc.UpdateProfile(ctx, 3, domain.ProfileUpdate{
			CurrentPassword: "not-it",
			NewPassword:     "new-pass-123",
		})

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a taken username", func(t *testing.T) {
		current := domain.User{ID: 3, Username: "amin", Email: "amin@example.com"}
		repo := new(mockUserRepository)
		repo.On("GetByID", ctx, int64(3)).Return(current, nil).Once()
		repo.On("GetByUsername", ctx, "layla").Return(domain.User{ID: 9}, nil).Once()

		svc := newService(repo, new(mockTokenStore))
		_, _, err := svc.UpdateProfile(ctx, 3, domain.ProfileUpdate{Username: "layla"})

		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("rejects an empty edit", func(t *testing.T) {
		current := domain.User{ID: 3, Username: "amin", Email: "amin@example.com"}
		repo := new(mockUserRepository)
		repo.On("GetByID", ctx, int64(3)).Return(current, nil).Once()

		svc := newService(repo, new(mockTokenStore))
		_, _, err := svc.UpdateProfile(ctx, 3, domain.ProfileUpdate{})

		assert.ErrorIs(t, err, domain.ErrBadParamInput)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes for the remaining lifetime", func(t *testing.T) {
		tokens := new(mockTokenStore)
		tokens.On("Revoke", ctx, "jti-abc", mock.MatchedBy(func(ttl time.Duration) bool {
			return ttl > 25*time.Minute && ttl <= 30*time.Minute
		})).Return(nil).Once()

		svc := newService(new(mockUserRepository), tokens)
		err := svc.Logout(ctx, "jti-abc", time.Now().Add(30*time.Minute))

		assert.NoError(t, err)
		tokens.AssertExpectations(t)
	})

	t.Run("rejects a blank token id", func(t *testing.T) {
		svc := newService(new(mockUserRepository), new(mockTokenStore))
		assert.ErrorIs(t, svc.Logout(ctx, "", time.Now()), domain.ErrBadParamInput)
	})
}
