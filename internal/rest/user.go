package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qalamhq/qalam/domain"
	"github.com/qalamhq/qalam/internal/rest/middleware"
	"github.com/qalamhq/qalam/internal/rest/request"
	"github.com/qalamhq/qalam/internal/rest/response"
	"github.com/qalamhq/qalam/internal/token"
)

// UserHandler represent the httphandler for accounts
type UserHandler struct {
	Service domain.UserUsecase
}

func NewUserHandler(svc domain.UserUsecase) *UserHandler {
	return &UserHandler{
		Service: svc,
	}
}

// Register creates an account and signs the caller in.
func (h *UserHandler) Register(c *gin.Context) {
	var req request.Register
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}

	u, tok, err := h.Service.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, response.NewAuthFromDomain(&u, tok))
}

// Login verifies credentials and returns a fresh token.
func (h *UserHandler) Login(c *gin.Context) {
	var req request.Login
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}

	u, tok, err := h.Service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.NewAuthFromDomain(&u, tok))
}

// Verify echoes the account behind a valid token.
func (h *UserHandler) Verify(c *gin.Context) {
	u, err := h.Service.GetByID(c.Request.Context(), c.GetInt64(middleware.CtxUserID))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": response.NewUserFromDomain(&u)})
}

// UpdateProfile applies a self-service edit and re-issues the token.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req request.UpdateProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}

	u, tok, err := h.Service.UpdateProfile(c.Request.Context(), c.GetInt64(middleware.CtxUserID), domain.ProfileUpdate{
		Username:        req.Username,
		Email:           req.Email,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.NewAuthFromDomain(&u, tok))
}

// Logout revokes the presented token for its remaining lifetime.
func (h *UserHandler) Logout(c *gin.Context) {
	value, exists := c.Get(middleware.CtxClaims)
	if !exists {
		c.JSON(http.StatusUnauthorized, ResponseError{Message: domain.ErrUnauthorized.Error()})
		return
	}
	claims := value.(*token.Claims)

	err := h.Service.Logout(c.Request.Context(), claims.ID, claims.ExpiresAt.Time)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}
