package http

import (
	"net/http"

	"postboard/internal/entity"
	"postboard/internal/usecase"
	"postboard/pkg/logger"
	"postboard/pkg/middleware"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentUseCase usecase.CommentUseCase
	logger         *logger.Logger
}

func NewCommentHandler(commentUseCase usecase.CommentUseCase, logger *logger.Logger) *CommentHandler {
	useJSONFieldNames()
	return &CommentHandler{
		commentUseCase: commentUseCase,
		logger:         logger,
	}
}

type CreateCommentRequest struct {
	Content  string  `json:"content" form:"content" binding:"required"`
	ParentID *string `json:"parent_id" form:"parent_id"`
}

// UpdateCommentRequest changes a comment. An empty parent_id moves the
// comment to the top level.
type UpdateCommentRequest struct {
	Content  *string `json:"content" form:"content"`
	ParentID *string `json:"parent_id" form:"parent_id"`
}

// CreateComment godoc
// @Summary      Comment on a post
// @Description  parent_id, when given, must name a comment on the same post
// @Tags         comments
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Security     SessionCookie
// @Param        id       path  string                true  "Post ID"
// @Param        request  body  CreateCommentRequest  true  "Comment"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/comments [post]
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.logger, bindError(err))
		return
	}

	comment, err := h.commentUseCase.Create(
		c.Request.Context(),
		c.Param("id"),
		c.GetString(middleware.ContextUserID),
		req.Content,
		req.ParentID,
	)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Comment created successfully",
		"comment_id": comment.ID,
	})
}

// ListComments godoc
// @Summary      Comment thread of a post
// @Description  Top-level comments with nested replies, oldest first at every level
// @Tags         comments
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {array}   entity.CommentNode
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/comments [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	tree, err := h.commentUseCase.ListTree(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

// UpdateComment godoc
// @Summary      Edit or move a comment
// @Tags         comments
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Security     SessionCookie
// @Param        id       path  string                true   "Comment ID"
// @Param        request  body  UpdateCommentRequest  false  "Fields to change"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /comments/{id} [put]
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	var req UpdateCommentRequest
	if err := bindOptional(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	comment, err := h.commentUseCase.Update(
		c.Request.Context(),
		c.Param("id"),
		c.GetString(middleware.ContextUserID),
		entity.CommentUpdate{Content: req.Content, ParentID: req.ParentID},
	)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Comment updated successfully",
		"comment_id": comment.ID,
	})
}

// DeleteComment godoc
// @Summary      Delete a comment
// @Description  Deletes the comment and all replies beneath it
// @Tags         comments
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      string  true  "Comment ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /comments/{id} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	err := h.commentUseCase.Delete(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
