package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/mkovac/taskhub-api/internal/config"
	"github.com/mkovac/taskhub-api/internal/database"
	"github.com/mkovac/taskhub-api/internal/services"
)

func main() {
	if len(os.Args) != 6 {
		fmt.Println("Usage: create-user <username> <first-name> <last-name> <email> <password>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	userService := services.NewUserService(db)

	user, err := userService.Create(ctx, services.CreateUserInput{
		Username:  os.Args[1],
		FirstName: os.Args[2],
		LastName:  os.Args[3],
		Email:     os.Args[4],
		Password:  os.Args[5],
	})
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("Created user %s (%s)\n", user.Username, user.ID)
}
