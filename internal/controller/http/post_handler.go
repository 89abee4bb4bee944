package http

import (
	"net/http"

	"postboard/internal/entity"
	"postboard/internal/usecase"
	"postboard/pkg/logger"
	"postboard/pkg/middleware"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postUseCase usecase.PostUseCase
	logger      *logger.Logger
}

func NewPostHandler(postUseCase usecase.PostUseCase, logger *logger.Logger) *PostHandler {
	useJSONFieldNames()
	return &PostHandler{
		postUseCase: postUseCase,
		logger:      logger,
	}
}

type CreatePostRequest struct {
	Title   string `json:"title" form:"title"`
	Content string `json:"content" form:"content" binding:"required"`
}

type UpdatePostRequest struct {
	Title   *string `json:"title" form:"title"`
	Content *string `json:"content" form:"content"`
}

// formatPostResponse leaves is_liked out for anonymous readers.
func formatPostResponse(post entity.PostView, withLiked bool) map[string]interface{} {
	response := map[string]interface{}{
		"id":          post.ID,
		"title":       post.Title,
		"content":     post.Content,
		"author_id":   post.AuthorID,
		"author_name": post.AuthorName,
		"likes_count": post.LikesCount,
		"created_at":  post.CreatedAt,
		"updated_at":  post.UpdatedAt,
	}
	if withLiked {
		response["is_liked"] = post.IsLiked
	}
	return response
}

func formatPostsResponse(posts []entity.PostView, withLiked bool) []map[string]interface{} {
	response := make([]map[string]interface{}, 0, len(posts))
	for _, post := range posts {
		response = append(response, formatPostResponse(post, withLiked))
	}
	return response
}

// CreatePost godoc
// @Summary      Create a new post
// @Tags         posts
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Security     SessionCookie
// @Param        request body CreatePostRequest true "Post data"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.logger, bindError(err))
		return
	}

	post, err := h.postUseCase.Create(c.Request.Context(), c.GetString(middleware.ContextUserID), req.Title, req.Content)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully",
		"post_id": post.ID,
	})
}

// ListPosts godoc
// @Summary      List posts
// @Description  All posts, newest first. is_liked is included when a session is present.
// @Tags         posts
// @Produce      json
// @Success      200  {array}  map[string]interface{}
// @Router       /posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	viewerID := c.GetString(middleware.ContextUserID)

	posts, err := h.postUseCase.List(c.Request.Context(), viewerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, formatPostsResponse(posts, viewerID != ""))
}

// GetPost godoc
// @Summary      Get post by ID
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	viewerID := c.GetString(middleware.ContextUserID)

	post, err := h.postUseCase.Get(c.Request.Context(), c.Param("id"), viewerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, formatPostResponse(*post, viewerID != ""))
}

// ListUserPosts godoc
// @Summary      List a user's posts
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {array}   map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /users/{id}/posts [get]
func (h *PostHandler) ListUserPosts(c *gin.Context) {
	viewerID := c.GetString(middleware.ContextUserID)

	posts, err := h.postUseCase.ListByAuthor(c.Request.Context(), c.Param("id"), viewerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, formatPostsResponse(posts, viewerID != ""))
}

// UpdatePost godoc
// @Summary      Update post
// @Description  Only the supplied fields are changed. An empty body is allowed.
// @Tags         posts
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        id       path  string             true   "Post ID"
// @Param        request  body  UpdatePostRequest  false  "Fields to change"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [put]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var req UpdatePostRequest
	if err := bindOptional(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	post, err := h.postUseCase.Update(c.Request.Context(), c.Param("id"), entity.PostUpdate{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post updated successfully",
		"post_id": post.ID,
	})
}

// DeletePost godoc
// @Summary      Delete post
// @Description  Deletes the post with its comments and likes
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.postUseCase.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}
