package http

import (
	"net/http"
	"time"

	"postboard/internal/usecase"
	"postboard/pkg/logger"
	"postboard/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// CookieConfig describes the session cookie set on login.
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

type AuthHandler struct {
	authUseCase usecase.AuthUseCase
	cookie      CookieConfig
	logger      *logger.Logger
}

func NewAuthHandler(authUseCase usecase.AuthUseCase, cookie CookieConfig, logger *logger.Logger) *AuthHandler {
	useJSONFieldNames()
	return &AuthHandler{
		authUseCase: authUseCase,
		cookie:      cookie,
		logger:      logger,
	}
}

type RegisterRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type LoginResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, maxAge, "/", "", h.cookie.Secure, true)
}

// Register godoc
// @Summary      Register a new user
// @Description  Register a new user with username, email and password
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        request body RegisterRequest true "Registration data"
// @Success      201  {object}  RegisterResponse
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.logger, bindError(err))
		return
	}

	user, err := h.authUseCase.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{
		Message: "User registered successfully",
		UserID:  user.ID,
	})
}

// Login godoc
// @Summary      Login user
// @Description  Authenticate a user, start a session and set the session cookie
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200  {object}  LoginResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.logger, bindError(err))
		return
	}

	user, token, err := h.authUseCase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.setSessionCookie(c, token, int(h.cookie.TTL.Seconds()))
	c.JSON(http.StatusOK, LoginResponse{
		UserID:   user.ID,
		Username: user.Username,
		Token:    token,
	})
}

// Logout godoc
// @Summary      Logout user
// @Description  End the current session, if any, and clear the session cookie
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /logout [get]
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.SessionToken(c, h.cookie.Name)
	_ = h.authUseCase.Logout(c.Request.Context(), token)

	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  map[string]string
// @Router       /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUseCase.Me(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

// DeleteAccount godoc
// @Summary      Delete current user
// @Description  Delete the account with all of its posts, comments, likes and sessions
// @Tags         auth
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /me [delete]
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	token := middleware.SessionToken(c, h.cookie.Name)

	if err := h.authUseCase.DeleteAccount(c.Request.Context(), userID, token); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
