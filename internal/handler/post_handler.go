package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"aspira/internal/service"
)

// PostHandler handles feed post endpoints.
type PostHandler struct {
	posts     service.PostService
	comments  service.CommentService
	reactions service.ReactionService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(posts service.PostService, comments service.CommentService, reactions service.ReactionService) *PostHandler {
	return &PostHandler{posts: posts, comments: comments, reactions: reactions}
}

// PostRequest represents a post create/update body.
type PostRequest struct {
	Content string `json:"content" validate:"required"`
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

// List godoc
// @Summary List posts, newest first
// @Tags posts
// @Produce json
// @Success 200 {array} model.Post
// @Router /aspirasi/posts/ [get]
func (h *PostHandler) List(c echo.Context) error {
	posts, err := h.posts.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, posts)
}

// Get godoc
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} model.Post
// @Failure 404 {object} errors.ErrorResponse
// @Router /aspirasi/posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	post, err := h.posts.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// Create godoc
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PostRequest true "Post content"
// @Success 201 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Router /aspirasi/posts/ [post]
func (h *PostHandler) Create(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	var req PostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	post, err := h.posts.Create(c.Request().Context(), claims.UserID, req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, post)
}

// Update godoc
// @Summary Update an owned post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body PostRequest true "Post content"
// @Success 200 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /aspirasi/posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req PostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	post, err := h.posts.Update(c.Request().Context(), claims.UserID, id, req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// Delete godoc
// @Summary Delete an owned post
// @Tags posts
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /aspirasi/posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.posts.Delete(c.Request().Context(), claims.UserID, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AttachImage godoc
// @Summary Upload an image for an owned post
// @Tags posts
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param image formData file true "Image file"
// @Success 200 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /aspirasi/posts/{id}/image [post]
func (h *PostHandler) AttachImage(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read image file")
	}
	defer file.Close()

	post, err := h.posts.AttachImage(c.Request().Context(), claims.UserID, id, fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// ListComments godoc
// @Summary List comments on a post, newest first
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {array} model.Comment
// @Failure 404 {object} errors.ErrorResponse
// @Router /aspirasi/posts/{id}/comments [get]
func (h *PostHandler) ListComments(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	comments, err := h.comments.ListByPost(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, comments)
}

// ListReactions godoc
// @Summary List reactions on a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {array} model.Reaction
// @Failure 404 {object} errors.ErrorResponse
// @Router /aspirasi/posts/{id}/reactions [get]
func (h *PostHandler) ListReactions(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	reactions, err := h.reactions.ListByPost(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, reactions)
}
