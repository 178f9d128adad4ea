// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development only.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/Keyur200/blogappapi/internal/auth"
	"github.com/Keyur200/blogappapi/internal/models"
	"github.com/Keyur200/blogappapi/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Options control how much demo data Run creates.
type Options struct {
	Users    int
	Posts    int
	Password string
}

// Run seeds demo users and posts through the repositories. Likes, dislikes
// and comments go through the same atomic mutations the API uses.
func Run(ctx context.Context, userRepo repository.UserRepository, postRepo repository.PostRepository, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if opts.Password == "" {
		opts.Password = "password123"
	}
	hashed, err := auth.HashPassword(opts.Password)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user, err := userRepo.Create(ctx, &models.User{
			Username: fmt.Sprintf("%s_%d", gofakeit.Username(), i),
			Password: hashed,
		})
		if err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Seeded %d users", len(users))

	for i := 0; i < opts.Posts; i++ {
		author := users[r.Intn(len(users))]
		post, err := postRepo.Create(ctx, &models.Post{
			Title:   gofakeit.Sentence(5),
			Summary: gofakeit.Sentence(12),
			Content: gofakeit.Paragraph(2, 4, 8, "\n"),
			Cover:   fmt.Sprintf("https://picsum.photos/seed/%s/800/400", gofakeit.UUID()),
			Author:  author.ID,
		})
		if err != nil {
			return fmt.Errorf("seed post: %w", err)
		}

		if err := engage(ctx, postRepo, post.ID, users, r); err != nil {
			return err
		}
	}
	log.Printf("Seeded %d posts", opts.Posts)

	return nil
}

func engage(ctx context.Context, postRepo repository.PostRepository, postID primitive.ObjectID, users []*models.User, r *rand.Rand) error {
	hexID := postID.Hex()

	for _, user := range users {
		switch r.Intn(4) {
		case 0:
			if _, err := postRepo.React(ctx, hexID, user.ID, repository.ReactionLike); err != nil {
				return fmt.Errorf("seed like: %w", err)
			}
		case 1:
			if _, err := postRepo.React(ctx, hexID, user.ID, repository.ReactionDislike); err != nil {
				return fmt.Errorf("seed dislike: %w", err)
			}
		}

		if r.Intn(3) == 0 {
			comment := models.Comment{
				Text:      gofakeit.Sentence(8),
				PostedBy:  user.ID,
				CreatedAt: time.Now(),
			}
			if _, err := postRepo.AppendComment(ctx, hexID, comment); err != nil {
				return fmt.Errorf("seed comment: %w", err)
			}
		}
	}
	return nil
}
