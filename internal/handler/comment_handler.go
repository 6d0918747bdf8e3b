package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"aspira/internal/service"
)

// CommentHandler handles comment endpoints.
type CommentHandler struct {
	comments service.CommentService
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(comments service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// CreateCommentRequest represents a comment create body.
type CreateCommentRequest struct {
	Post    uint   `json:"post" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// UpdateCommentRequest represents a comment update body.
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// List godoc
// @Summary List comments, newest first
// @Tags comments
// @Produce json
// @Success 200 {array} model.Comment
// @Router /aspirasi/comments/ [get]
func (h *CommentHandler) List(c echo.Context) error {
	comments, err := h.comments.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, comments)
}

// Create godoc
// @Summary Comment on a post
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCommentRequest true "Comment"
// @Success 201 {object} model.Comment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /aspirasi/comments/ [post]
func (h *CommentHandler) Create(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	var req CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	comment, err := h.comments.Create(c.Request().Context(), claims.UserID, req.Post, req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// Update godoc
// @Summary Update an owned comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Param request body UpdateCommentRequest true "Comment content"
// @Success 200 {object} model.Comment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /aspirasi/comments/{id} [put]
func (h *CommentHandler) Update(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req UpdateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	comment, err := h.comments.Update(c.Request().Context(), claims.UserID, id, req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, comment)
}

// Delete godoc
// @Summary Delete an owned comment
// @Tags comments
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /aspirasi/comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.comments.Delete(c.Request().Context(), claims.UserID, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
