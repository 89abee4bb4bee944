package main

import (
	"context"
	"fmt"

	"postboard/internal/repo/persistent"
	"postboard/internal/usecase"
	"postboard/pkg/apperror"
	"postboard/pkg/config"
	"postboard/pkg/database"
	"postboard/pkg/logger"

	"gorm.io/gorm"
)

type seedUser struct {
	email    string
	username string
	password string
}

var testUsers = []seedUser{
	{"alice@test.com", "alice", "password123"},
	{"bob@test.com", "bob", "password123"},
	{"charlie@test.com", "charlie", "password123"},
}

var testPosts = []struct {
	title   string
	content string
}{
	{"Hello", "First post on the board."},
	{"", "Untitled thoughts, no heading needed."},
	{"Weekend plans", "Anyone up for a hike on Saturday?"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}
	defer database.Close(db)

	if err := persistent.Migrate(db); err != nil {
		log.Error("Failed to migrate database: %v", err)
		panic(err)
	}

	if err := seedDatabase(context.Background(), db, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

// seedDatabase goes through the use cases so seeded rows obey the same
// rules as API traffic. Users that already exist are left alone.
func seedDatabase(ctx context.Context, db *gorm.DB, log *logger.Logger) error {
	sqlxDB, err := persistent.NewSQLX(db)
	if err != nil {
		return err
	}

	userRepo := persistent.NewUserRepository(db)
	postRepo := persistent.NewPostRepository(db)

	auth := usecase.NewAuthUseCase(userRepo, nil, log)
	posts := usecase.NewPostUseCase(postRepo, userRepo, persistent.NewFeedRepository(sqlxDB), log)
	likes := usecase.NewLikeUseCase(persistent.NewLikeRepository(db), postRepo, nil, log)
	comments := usecase.NewCommentUseCase(persistent.NewCommentRepository(db), postRepo, nil, log)

	userIDs := make([]string, 0, len(testUsers))
	postIDs := make([]string, 0, len(testUsers)*len(testPosts))

	for i, u := range testUsers {
		user, err := auth.Register(ctx, u.username, u.email, u.password)
		if apperror.Is(err, apperror.KindConflict) {
			log.Info("User %s already exists, skipping", u.username)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to create user %s: %w", u.username, err)
		}
		log.Info("Created user: %s (%s)", user.Username, user.Email)
		userIDs = append(userIDs, user.ID)

		for j := 0; j <= i; j++ {
			p := testPosts[j]
			post, err := posts.Create(ctx, user.ID, p.title, p.content)
			if err != nil {
				return fmt.Errorf("failed to create post for %s: %w", user.Username, err)
			}
			postIDs = append(postIDs, post.ID)
		}
	}

	if len(userIDs) == 0 {
		log.Info("Nothing to seed")
		return nil
	}

	// Everyone likes every post except their own, and leaves a short thread on the first.
	for _, postID := range postIDs {
		post, err := posts.Get(ctx, postID, "")
		if err != nil {
			return err
		}
		for _, userID := range userIDs {
			if userID == post.AuthorID {
				continue
			}
			if _, err := likes.Toggle(ctx, postID, userID); err != nil {
				return fmt.Errorf("failed to like post %s: %w", postID, err)
			}
		}
	}

	first := postIDs[0]
	root, err := comments.Create(ctx, first, userIDs[len(userIDs)-1], "Nice one!", nil)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	if _, err := comments.Create(ctx, first, userIDs[0], "Thanks!", &root.ID); err != nil {
		return fmt.Errorf("failed to create reply: %w", err)
	}

	log.Info("Created %d users, %d posts", len(userIDs), len(postIDs))
	return nil
}
