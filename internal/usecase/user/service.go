package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/qalamhq/qalam/domain"
	"github.com/qalamhq/qalam/internal/token"
)

const (
	bcryptCost  = 10
	minPassword = 6
)

var validate = validator.New()

func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

type Service struct {
	userRepo  domain.UserRepository
	tokens    domain.TokenStore
	jwtSecret []byte
	tokenTTL  time.Duration
}

var _ domain.UserUsecase = (*Service)(nil)

// NewService will create a new user service object
func NewService(u domain.UserRepository, tokens domain.TokenStore, jwtSecret []byte, tokenTTL time.Duration) *Service {
	return &Service{
		userRepo:  u,
		tokens:    tokens,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

func (s *Service) Register(ctx context.Context, username, email, password string) (domain.User, domain.AuthToken, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || !validEmail(email) || len(password) < minPassword {
		return domain.User{}, domain.AuthToken{}, domain.ErrBadParamInput
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return domain.User{}, domain.AuthToken{}, domain.ErrConflict
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, domain.AuthToken{}, err
	}
	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return domain.User{}, domain.AuthToken{}, domain.ErrConflict
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, domain.AuthToken{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return domain.User{}, domain.AuthToken{}, err
	}

	u := domain.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		Role:     domain.RoleUser,
	}
	if err := s.userRepo.Insert(ctx, &u); err != nil {
		return domain.User{}, domain.AuthToken{}, err
	}

	tok, err := token.Sign(s.jwtSecret, u, s.tokenTTL)
	if err != nil {
		return domain.User{}, domain.AuthToken{}, err
	}
	return u, tok, nil
}

// Login deliberately reports the same error for an unknown email and a
// wrong password.
func (s *Service) Login(ctx context.Context, email, password string) (domain.User, domain.AuthToken, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return domain.User{}, domain.AuthToken{}, domain.ErrBadParamInput
	}

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.AuthToken{}, domain.ErrUnauthorized
		}
		return domain.User{}, domain.AuthToken{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return domain.User{}, domain.AuthToken{}, domain.ErrUnauthorized
	}

	tok, err := token.Sign(s.jwtSecret, u, s.tokenTTL)
	if err != nil {
		return domain.User{}, domain.AuthToken{}, err
	}
	return u, tok, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id int64, in domain.ProfileUpdate) (domain.User, domain.AuthToken, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, domain.AuthToken{}, err
	}

	up := domain.UserUpdate{}

	if username := strings.TrimSpace(in.Username); username != "" && username != u.Username {
		existing, err := s.userRepo.GetByUsername(ctx, username)
		if err == nil && existing.ID != id {
			return domain.User{}, domain.AuthToken{}, domain.ErrConflict
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.AuthToken{}, err
		}
		up.Username = &username
	}

	if email := strings.ToLower(strings.TrimSpace(in.Email)); email != "" && email != u.Email {
		if !validEmail(email) {
			return domain.User{}, domain.AuthToken{}, domain.ErrBadParamInput
		}
		existing, err := s.userRepo.GetByEmail(ctx, email)
		if err == nil && existing.ID != id {
			return domain.User{}, domain.AuthToken{}, domain.ErrConflict
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.AuthToken{}, err
		}
		up.Email = &email
	}

	if in.NewPassword != "" {
		// Changing the password requires proving the current one.
		if in.CurrentPassword == "" {
			return domain.User{}, domain.AuthToken{}, domain.ErrBadParamInput
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(in.CurrentPassword)); err != nil {
			return domain.User{}, domain.AuthToken{}, domain.ErrUnauthorized
		}
		if len(in.NewPassword) < minPassword {
			return domain.User{}, domain.AuthToken{}, domain.ErrBadParamInput
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcryptCost)
		if err != nil {
			return domain.User{}, domain.AuthToken{}, err
		}
		hashedStr := string(hashed)
		up.Password = &hashedStr
	}

	if up.Username == nil && up.Email == nil && up.Password == nil {
		return domain.User{}, domain.AuthToken{}, domain.ErrBadParamInput
	}

	if err := s.userRepo.Update(ctx, id, up); err != nil {
		return domain.User{}, domain.AuthToken{}, err
	}

	updated, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, domain.AuthToken{}, err
	}

	// Re-issue so the token claims match the fresh profile.
	tok, err := token.Sign(s.jwtSecret, updated, s.tokenTTL)
	if err != nil {
		return domain.User{}, domain.AuthToken{}, err
	}
	return updated, tok, nil
}

func (s *Service) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return domain.ErrBadParamInput
	}
	return s.tokens.Revoke(ctx, tokenID, time.Until(expiresAt))
}
