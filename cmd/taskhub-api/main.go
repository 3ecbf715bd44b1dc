package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/mkovac/taskhub-api/internal/config"
	"github.com/mkovac/taskhub-api/internal/database"
	"github.com/mkovac/taskhub-api/internal/handlers"
	authmw "github.com/mkovac/taskhub-api/internal/middleware"
	"github.com/mkovac/taskhub-api/internal/services"
)

func main() {
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

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db)
	emailService := services.NewEmailService(cfg.SMTP)
	invitationService := services.NewInvitationService(db, emailService, cfg.BaseURL)
	teamService := services.NewTeamService(db, invitationService)
	taskService := services.NewTaskService(db)

	authHandler := handlers.NewAuthHandler(userService, jwtService, tokenService)
	userHandler := handlers.NewUserHandler(userService)
	teamHandler := handlers.NewTeamHandler(teamService, invitationService)
	invitationHandler := handlers.NewInvitationHandler(invitationService, teamService)
	taskHandler := handlers.NewTaskHandler(taskService, teamService)
	invitePageHandler := handlers.NewInvitePageHandler(invitationService)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/auth/logout-all", authHandler.LogoutAll)

	protected.Get("/users/me", userHandler.GetMe)
	protected.Patch("/users/me", userHandler.UpdateMe)

	protected.Get("/teams", teamHandler.GetTeams)
	protected.Post("/teams", teamHandler.CreateTeam)
	protected.Get("/teams/:id", teamHandler.GetTeam)
	protected.Patch("/teams/:id", teamHandler.UpdateTeam)
	protected.Delete("/teams/:id", teamHandler.DeleteTeam)
	protected.Get("/teams/:id/members", teamHandler.GetMembers)
	protected.Delete("/teams/:id/members/:userId", teamHandler.RemoveMember)
	protected.Post("/teams/:id/leave", teamHandler.LeaveTeam)
	protected.Get("/teams/:id/tasks", taskHandler.GetTeamTasks)
	protected.Get("/teams/:id/invitations", invitationHandler.GetTeamInvitations)
	protected.Post("/teams/:id/invitations", invitationHandler.SendInvitations)

	protected.Get("/invitations", invitationHandler.GetMyInvitations)
	protected.Post("/invitations/:id/accept", invitationHandler.AcceptInvitation)
	protected.Post("/invitations/:id/decline", invitationHandler.DeclineInvitation)

	protected.Get("/tasks", taskHandler.GetMyTasks)
	protected.Post("/tasks", taskHandler.CreateTask)
	protected.Get("/tasks/:id", taskHandler.GetTask)
	protected.Patch("/tasks/:id", taskHandler.UpdateTask)
	protected.Delete("/tasks/:id", taskHandler.DeleteTask)

	protected.Get("/meta/task-options", taskHandler.GetTaskOptions)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	// Public invitation pages (no auth required)
	app.Get("/invitations/:invitationId", invitePageHandler.ViewInvitation)
	app.Post("/invitations/:invitationId/accept", invitePageHandler.AcceptInvitation)
	app.Post("/invitations/:invitationId/decline", invitePageHandler.DeclineInvitation)

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			_ = tokenService.CleanupExpired(context.Background())
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Printf("Server starting on %s", addr)
		if err := app.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
}
