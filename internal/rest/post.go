package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qalamhq/qalam/domain"
	"github.com/qalamhq/qalam/internal/rest/middleware"
	"github.com/qalamhq/qalam/internal/rest/request"
	"github.com/qalamhq/qalam/internal/rest/response"
	"github.com/qalamhq/qalam/internal/visitor"
)

// PostHandler represent the httphandler for posts and their counters
type PostHandler struct {
	Service    domain.PostUsecase
	Engagement domain.EngagementUsecase
}

func NewPostHandler(svc domain.PostUsecase, eng domain.EngagementUsecase) *PostHandler {
	return &PostHandler{
		Service:    svc,
		Engagement: eng,
	}
}

// Fetch will fetch published posts; a q param switches to search.
func (h *PostHandler) Fetch(c *gin.Context) {
	limit, offset := pagination(c)
	ctx := c.Request.Context()

	var (
		posts []domain.Post
		err   error
	)
	if q := c.Query("q"); q != "" {
		posts, err = h.Service.Search(ctx, q, limit, offset)
	} else {
		posts, err = h.Service.Fetch(ctx, limit, offset)
	}
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	res := make([]response.Post, len(posts))
	for i := range posts {
		res[i] = response.NewPostFromDomain(&posts[i])
	}
	c.JSON(http.StatusOK, res)
}

// FetchByAuthor lists the posts of one author.
func (h *PostHandler) FetchByAuthor(c *gin.Context) {
	authorID, ok := idParam(c)
	if !ok {
		return
	}
	limit, offset := pagination(c)

	posts, err := h.Service.FetchByAuthor(c.Request.Context(), authorID, limit, offset)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	res := make([]response.Post, len(posts))
	for i := range posts {
		res[i] = response.NewPostFromDomain(&posts[i])
	}
	c.JSON(http.StatusOK, res)
}

// GetByID returns one post and records a deduplicated view for the
// requesting visitor.
func (h *PostHandler) GetByID(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	post, err := h.Service.GetByID(ctx, id)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	visitorID := visitor.Fingerprint(c.ClientIP(), c.GetHeader("User-Agent"))
	counted, err := h.Engagement.RecordView(ctx, id, visitorID)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	if counted {
		post.Views++
	}

	c.JSON(http.StatusOK, response.NewPostFromDomain(&post))
}

// Store will create a post authored by the authenticated user
func (h *PostHandler) Store(c *gin.Context) {
	var req request.StorePost
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}

	post := req.ToDomain()
	post.Author.ID = c.GetInt64(middleware.CtxUserID)

	if err := h.Service.Store(c.Request.Context(), &post); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, response.NewPostFromDomain(&post))
}

// Update will edit a post; only the owner is allowed.
func (h *PostHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req request.UpdatePost
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}

	requesterID := c.GetInt64(middleware.CtxUserID)
	post, err := h.Service.Update(c.Request.Context(), requesterID, id, req.Title, req.Content, domain.PostStatus(req.Status))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.NewPostFromDomain(&post))
}

// Delete will remove a post; only the owner is allowed.
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	requesterID := c.GetInt64(middleware.CtxUserID)
	if err := h.Service.Delete(c.Request.Context(), requesterID, id); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// LikeStatus reports whether the authenticated user likes the post.
func (h *PostHandler) LikeStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	userID := c.GetInt64(middleware.CtxUserID)

	hasLiked, err := h.Engagement.HasLiked(ctx, id, userID)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	count, err := h.Engagement.CountLikes(ctx, id)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.LikeStatus{
		HasLiked:   hasLiked,
		LikesCount: count,
	})
}

// LikeCount is the anonymous view of a post's like tally.
func (h *PostHandler) LikeCount(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	count, err := h.Engagement.CountLikes(c.Request.Context(), id)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"likesCount": count})
}

// ToggleLike flips the like membership and returns the new state.
func (h *PostHandler) ToggleLike(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	// The toggle assumes the post exists; resolve the 404 here.
	if _, err := h.Service.GetByID(ctx, id); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	res, err := h.Engagement.ToggleLike(ctx, id, c.GetInt64(middleware.CtxUserID))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.LikeToggle{
		Liked:      res.Liked,
		LikesCount: res.LikesCount,
		Action:     res.Action,
	})
}

// Unlike removes an existing like. Kept for clients predating the
// toggle endpoint; unliking a post that wasn't liked is a client error
// here, unlike the toggle.
func (h *PostHandler) Unlike(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	userID := c.GetInt64(middleware.CtxUserID)

	removed, err := h.Engagement.RemoveLike(ctx, id, userID)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	if !removed {
		c.JSON(http.StatusBadRequest, ResponseError{Message: "you have not liked this post"})
		return
	}

	count, err := h.Engagement.CountLikes(ctx, id)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"likesCount": count})
}

// Share bumps the share counter, no auth and no dedup.
func (h *PostHandler) Share(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	shares, err := h.Engagement.RecordShare(c.Request.Context(), id)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.Share{Shares: shares})
}

// Analytics returns the owner-only engagement aggregate. A post owned by
// someone else reads as not found on purpose.
func (h *PostHandler) Analytics(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	res, err := h.Engagement.PostAnalytics(c.Request.Context(), id, c.GetInt64(middleware.CtxUserID))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.NewPostAnalyticsFromDomain(res))
}

// LikeAnalytics returns the like total and its per-day breakdown.
func (h *PostHandler) LikeAnalytics(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	res, err := h.Engagement.LikeAnalytics(c.Request.Context(), id)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.NewLikeAnalyticsFromDomain(res))
}
