package http

import (
	"net/http"

	"postboard/internal/usecase"
	"postboard/pkg/logger"
	"postboard/pkg/middleware"

	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	likeUseCase usecase.LikeUseCase
	logger      *logger.Logger
}

func NewLikeHandler(likeUseCase usecase.LikeUseCase, logger *logger.Logger) *LikeHandler {
	return &LikeHandler{
		likeUseCase: likeUseCase,
		logger:      logger,
	}
}

// ToggleLike godoc
// @Summary      Like or unlike a post
// @Description  Likes the post, or removes the like if the user already liked it. 201 after a like, 200 after an unlike.
// @Tags         likes
// @Produce      json
// @Security     SessionCookie
// @Param        post_id  path      string  true  "Post ID"
// @Success      200      {object}  map[string]interface{}
// @Success      201      {object}  map[string]interface{}
// @Failure      401      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /like/{post_id} [post]
func (h *LikeHandler) ToggleLike(c *gin.Context) {
	postID := c.Param("post_id")

	result, err := h.likeUseCase.Toggle(c.Request.Context(), postID, c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	status := http.StatusOK
	if result.Liked {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"post_id":     postID,
		"liked":       result.Liked,
		"likes_count": result.LikesCount,
	})
}

// GetLikes godoc
// @Summary      Like count of a post
// @Tags         likes
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /post/{id}/likes [get]
func (h *LikeHandler) GetLikes(c *gin.Context) {
	postID := c.Param("id")

	count, err := h.likeUseCase.Count(c.Request.Context(), postID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post_id":     postID,
		"likes_count": count,
	})
}

// IsLiked godoc
// @Summary      Whether the current user liked a post
// @Description  Returns false when there is no valid session.
// @Tags         likes
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /post/{id}/is_liked [get]
func (h *LikeHandler) IsLiked(c *gin.Context) {
	postID := c.Param("id")

	liked, err := h.likeUseCase.IsLiked(c.Request.Context(), postID, c.GetString(middleware.ContextUserID))
	if err != nil {
		h.logger.Warn("Failed to check like for post=%s: %v", postID, err)
		liked = false
	}

	c.JSON(http.StatusOK, gin.H{
		"post_id":  postID,
		"is_liked": liked,
	})
}
