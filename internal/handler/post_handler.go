package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "forum/internal/errors"
	"forum/internal/model"
	"forum/internal/service"
)

// PostHandler handles post endpoints. Every route is behind the session middleware.
type PostHandler struct {
	postService service.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// CreatePostRequest represents a new post.
type CreatePostRequest struct {
	Title   string `json:"title" validate:"required,max=100"`
	Content string `json:"content" validate:"required"`
	Tags    string `json:"tags" validate:"max=100"`
}

// PostResponse is returned by create and upvote.
type PostResponse struct {
	Message string      `json:"message"`
	Post    *model.Post `json:"post"`
}

// ListPosts godoc
// @Summary List posts in insertion order
// @Tags posts
// @Produce json
// @Security SessionCookie
// @Param limit query int false "Maximum number of posts (0 = all)"
// @Param offset query int false "Number of posts to skip"
// @Success 200 {array} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts [get]
func (h *PostHandler) ListPosts(c echo.Context) error {
	var page service.Page
	if err := echo.QueryParamsBinder(c).
		Int("limit", &page.Limit).
		Int("offset", &page.Offset).
		BindError(); err != nil {
		return respondError(apperrors.Validation("limit and offset must be integers"))
	}

	posts, err := h.postService.List(c.Request().Context(), page)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// CreatePost godoc
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param request body CreatePostRequest true "Post data"
// @Success 201 {object} PostResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts [post]
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.postService.Create(c.Request().Context(), req.Title, req.Content, req.Tags)
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusCreated, PostResponse{
		Message: "Post created successfully",
		Post:    post,
	})
}

// UpvotePost godoc
// @Summary Upvote a post
// @Tags posts
// @Produce json
// @Security SessionCookie
// @Param id path int true "Post ID"
// @Success 200 {object} PostResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/{id}/upvote [post]
func (h *PostHandler) UpvotePost(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		return respondError(apperrors.Validation("invalid post id"))
	}

	post, err := h.postService.Upvote(c.Request().Context(), uint(id))
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusOK, PostResponse{
		Message: "Post upvoted successfully",
		Post:    post,
	})
}
