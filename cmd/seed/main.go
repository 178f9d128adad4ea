// Command main runs the database seeder for the blog app.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/Keyur200/blogappapi/internal/config"
	"github.com/Keyur200/blogappapi/internal/database"
	"github.com/Keyur200/blogappapi/internal/repository"
	"github.com/Keyur200/blogappapi/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of users to create")
	numPosts := flag.Int("posts", 40, "Number of posts to create")
	password := flag.String("password", "password123", "Password for all seeded users")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d posts\n", *numUsers, *numPosts)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client, db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Disconnect(client); err != nil {
			log.Printf("error disconnecting: %v", err)
		}
	}()

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	if err := seed.Run(context.Background(), userRepo, postRepo, seed.Options{
		Users:    *numUsers,
		Posts:    *numPosts,
		Password: *password,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
