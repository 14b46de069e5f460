package response

import "github.com/qalamhq/qalam/domain"

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Auth bundles a user with a freshly issued token.
type Auth struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func NewUserFromDomain(u *domain.User) User {
	return User{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

func NewAuthFromDomain(u *domain.User, tok domain.AuthToken) Auth {
	return Auth{
		Token: tok.Raw,
		User:  NewUserFromDomain(u),
	}
}
