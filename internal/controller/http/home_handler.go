package http

import (
	"net/http"

	"postboard/internal/usecase"
	"postboard/pkg/logger"
	"postboard/pkg/middleware"

	"github.com/gin-gonic/gin"
)

type HomeHandler struct {
	postUseCase usecase.PostUseCase
	logger      *logger.Logger
}

func NewHomeHandler(postUseCase usecase.PostUseCase, logger *logger.Logger) *HomeHandler {
	return &HomeHandler{
		postUseCase: postUseCase,
		logger:      logger,
	}
}

// Home renders the post list. Anonymous visitors see every post as not liked.
func (h *HomeHandler) Home(c *gin.Context) {
	posts, err := h.postUseCase.List(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		h.logger.Error("Failed to render home page: %v", err)
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Posts":    posts,
		"Username": c.GetString(middleware.ContextUsername),
	})
}
