package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpController "postboard/internal/controller/http"
	"postboard/internal/repo/persistent"
	"postboard/internal/usecase"
	"postboard/pkg/cache"
	"postboard/pkg/config"
	"postboard/pkg/database"
	"postboard/pkg/jwt"
	"postboard/pkg/logger"
	"postboard/pkg/middleware"
	"postboard/pkg/queue"
	"postboard/pkg/session"
	"postboard/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "postboard/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	queueClient *queue.Client
	sessions    *session.Manager
	router      *gin.Engine
	httpServer  *http.Server

	notifications usecase.NotificationUseCase
	stopConsumer  context.CancelFunc
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()
	gin.SetMode(cfg.GinMode)

	db, err := database.NewDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	if cfg.DBAutoMigrate {
		if err := persistent.Migrate(db); err != nil {
			log.Error("Failed to migrate database: %v", err)
			return nil, err
		}
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		if cfg.SessionStore == "redis" {
			log.Error("Failed to connect to redis: %v", err)
			return nil, err
		}
		// Redis only backs rate limiting here, which then turns off.
		log.Warn("Redis unavailable, rate limiting disabled: %v", err)
		redisClient = nil
	}

	var queueClient *queue.Client
	if cfg.RabbitMQEnabled {
		queueClient, err = queue.NewRabbitMQClient(cfg, log)
		if err != nil {
			log.Error("Failed to connect to RabbitMQ: %v (continuing without queue)", err)
			queueClient = nil
		}
	}

	return New(cfg, log, db, redisClient, queueClient)
}

// New wires an App around already opened connections. redisClient and
// queueClient may be nil.
func New(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, queueClient *queue.Client) (*App, error) {
	var store session.Store
	switch cfg.SessionStore {
	case "redis":
		if redisClient == nil {
			return nil, fmt.Errorf("session store %q needs a redis connection", cfg.SessionStore)
		}
		store = session.NewRedisStore(redisClient)
	default:
		dbStore := persistent.NewSessionStore(db)
		if purged, err := dbStore.PurgeExpired(context.Background(), time.Now()); err != nil {
			log.Warn("Failed to purge expired sessions: %v", err)
		} else if purged > 0 {
			log.Info("Purged %d expired sessions", purged)
		}
		store = dbStore
	}

	if cfg.UsesDefaultSecret() {
		log.Warn("SESSION_SECRET is not set, session tokens are signed with the default key")
	}

	a := &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		queueClient: queueClient,
		sessions:    session.NewManager(store, jwt.NewService(cfg.SessionSecret), cfg.SessionTTL),
	}

	router, err := a.newRouter()
	if err != nil {
		return nil, err
	}
	a.router = router
	return a, nil
}

func (a *App) newRouter() (*gin.Engine, error) {
	sqlxDB, err := persistent.NewSQLX(a.db)
	if err != nil {
		return nil, fmt.Errorf("failed to share database pool: %w", err)
	}

	// Initialize repositories
	userRepo := persistent.NewUserRepository(a.db)
	postRepo := persistent.NewPostRepository(a.db)
	likeRepo := persistent.NewLikeRepository(a.db)
	commentRepo := persistent.NewCommentRepository(a.db)
	feedRepo := persistent.NewFeedRepository(sqlxDB)

	var publisher usecase.ActivityPublisher
	if a.queueClient != nil {
		publisher = a.queueClient
	}

	var notificationRepo persistent.NotificationRepository
	if a.redisClient != nil {
		notificationRepo = persistent.NewNotificationRepository(a.redisClient)
	}

	// Initialize use cases
	authUseCase := usecase.NewAuthUseCase(userRepo, a.sessions, a.log)
	postUseCase := usecase.NewPostUseCase(postRepo, userRepo, feedRepo, a.log)
	likeUseCase := usecase.NewLikeUseCase(likeRepo, postRepo, publisher, a.log)
	commentUseCase := usecase.NewCommentUseCase(commentRepo, postRepo, publisher, a.log)
	a.notifications = usecase.NewNotificationUseCase(notificationRepo, userRepo, a.log)

	// Initialize HTTP handlers
	cookie := httpController.CookieConfig{
		Name:   a.cfg.SessionCookie,
		TTL:    a.cfg.SessionTTL,
		Secure: a.cfg.SessionSecure,
	}
	authHandler := httpController.NewAuthHandler(authUseCase, cookie, a.log)
	postHandler := httpController.NewPostHandler(postUseCase, a.log)
	likeHandler := httpController.NewLikeHandler(likeUseCase, a.log)
	commentHandler := httpController.NewCommentHandler(commentUseCase, a.log)
	homeHandler := httpController.NewHomeHandler(postUseCase, a.log)
	notificationHandler := httpController.NewNotificationHandler(a.notifications, a.log)

	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	// Setup router
	r := gin.Default()
	r.SetHTMLTemplate(templates)

	// CORS middleware
	r.Use(cors.New(corsConfig(a.cfg.CORSOrigins)))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.Use(middleware.OptionalAuthMiddleware(a.sessions, a.cfg.SessionCookie))

	authLimit := middleware.RateLimitMiddleware(a.redisClient, a.cfg.RateLimit, time.Minute)
	{
		r.GET("/", homeHandler.Home)

		r.POST("/register", authLimit, authHandler.Register)
		r.POST("/login", authLimit, authHandler.Login)
		r.GET("/logout", authHandler.Logout)

		r.GET("/posts", postHandler.ListPosts)
		r.GET("/posts/:id", postHandler.GetPost)
		r.PUT("/posts/:id", postHandler.UpdatePost)
		r.DELETE("/posts/:id", postHandler.DeletePost)
		r.GET("/users/:id/posts", postHandler.ListUserPosts)

		r.GET("/post/:id/likes", likeHandler.GetLikes)
		r.GET("/post/:id/is_liked", likeHandler.IsLiked)

		r.GET("/posts/:id/comments", commentHandler.ListComments)
	}

	// Protected routes
	protected := r.Group("")
	protected.Use(middleware.AuthMiddleware(a.sessions, a.cfg.SessionCookie))
	{
		protected.GET("/me", authHandler.Me)
		protected.DELETE("/me", authHandler.DeleteAccount)
		protected.GET("/notifications", notificationHandler.ListNotifications)

		protected.POST("/posts", postHandler.CreatePost)
		protected.POST("/like/:post_id", likeHandler.ToggleLike)

		protected.POST("/posts/:id/comments", commentHandler.CreateComment)
		protected.PUT("/comments/:id", commentHandler.UpdateComment)
		protected.DELETE("/comments/:id", commentHandler.DeleteComment)
	}

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) Run() error {
	// Create HTTP server
	a.httpServer = &http.Server{
		Addr:              ":" + a.cfg.ServerPort,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Turn queued activities into notifications
	if a.queueClient != nil && a.redisClient != nil {
		ctx, cancel := context.WithCancel(context.Background())
		a.stopConsumer = cancel
		go func() {
			if err := a.queueClient.ConsumeActivities(ctx, a.notifications.Handle); err != nil {
				a.log.Error("Activity consumer stopped: %v", err)
			}
		}()
	}

	// Start server in a goroutine
	go func() {
		a.log.Info("Postboard starting on port %s (db=%s, sessions=%s)", a.cfg.ServerPort, a.cfg.DBDriver, a.cfg.SessionStore)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down postboard...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.log.Error("Server forced to shutdown: %v", err)
			return err
		}
	}

	if a.stopConsumer != nil {
		a.stopConsumer()
	}

	// Close RabbitMQ connection
	if a.queueClient != nil {
		if err := a.queueClient.Close(); err != nil {
			a.log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	// Close Redis connection
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	// Close database connection
	if err := database.Close(a.db); err != nil {
		a.log.Error("Error closing database: %v", err)
	}

	a.log.Info("Postboard exited")
	return nil
}
