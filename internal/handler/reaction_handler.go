package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"aspira/internal/service"
)

// ReactionHandler handles the reaction toggle endpoint.
type ReactionHandler struct {
	reactions service.ReactionService
}

// NewReactionHandler creates a new reaction handler.
func NewReactionHandler(reactions service.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactions: reactions}
}

// ReactionRequest represents a reaction submission.
type ReactionRequest struct {
	Post         uint   `json:"post" validate:"required"`
	ReactionType string `json:"reaction_type" validate:"required,max=32"`
}

// React godoc
// @Summary Submit a reaction (create, toggle off, or replace)
// @Tags reactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ReactionRequest true "Reaction"
// @Success 200 {object} map[string]interface{} "toggled off or updated"
// @Success 201 {object} model.Reaction "created"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /aspirasi/reactions/ [post]
func (h *ReactionHandler) React(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	var req ReactionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}

	outcome, reaction, err := h.reactions.React(c.Request().Context(), claims.UserID, req.Post, req.ReactionType)
	if err != nil {
		return respondError(c, err)
	}

	switch outcome {
	case service.ReactionCreated:
		return c.JSON(http.StatusCreated, reaction)
	case service.ReactionRemoved:
		return c.JSON(http.StatusOK, map[string]string{
			"message": fmt.Sprintf("%s removed", req.ReactionType),
		})
	default:
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message":  fmt.Sprintf("Reaction updated to %s", req.ReactionType),
			"reaction": reaction,
		})
	}
}
