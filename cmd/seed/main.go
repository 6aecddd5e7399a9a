package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/cornucopia-api/config"
	"github.com/oksasatya/cornucopia-api/internal/application"
	"github.com/oksasatya/cornucopia-api/internal/container"
	pginfra "github.com/oksasatya/cornucopia-api/internal/infrastructure/postgres"
	"github.com/oksasatya/cornucopia-api/pkg/helpers"
)

// seed creates a demo account with a profile and one recipe. It goes through
// the services so back-references are linked the same way the API links them.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	cfg.StoreDriver = "postgres"
	cfg.MailSendEnabled = false

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	container.SetConfig(cfg)
	container.SetLogger(helpers.NewLogger(cfg.AppName, cfg.Env))
	container.SetPGPool(pool)
	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL))
	svc, err := container.Services()
	if err != nil {
		log.Fatalf("failed to build services: %v", err)
	}

	username, password := "alice", "password123"
	token, err := svc.Accounts.Signup(ctx, application.SignupInput{
		Username: username,
		Email:    "alice@example.com",
		Password: password,
	})
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	who, err := svc.Accounts.ResolveToken(ctx, token)
	if err != nil {
		log.Fatalf("failed to resolve seeded token: %v", err)
	}
	fmt.Printf("seeded user: id=%s username=%s password=%s\n", who.UserID, username, password)

	profile, err := svc.Profiles.Create(ctx, who.UserID, application.CreateProfileInput{Name: "Alice"})
	if err != nil {
		log.Fatalf("failed to seed profile: %v", err)
	}
	fmt.Printf("seeded profile: id=%s\n", profile.ID)

	created, err := svc.Recipes.Create(ctx, who.UserID, application.CreateRecipeInput{
		RecipeName:   "Pancakes",
		Description:  "Fluffy weekend pancakes",
		Ingredients:  []string{"flour", "milk", "eggs", "sugar"},
		Instructions: "Whisk, rest ten minutes, fry in butter.",
		CookTime:     "15m",
		PrepTime:     "10m",
		Categories:   []string{"breakfast"},
	})
	if err != nil {
		log.Fatalf("failed to seed recipe: %v", err)
	}
	fmt.Printf("seeded recipe: id=%s\n", created.Recipe.ID)
	fmt.Printf("bearer token: %s\n", token)
}
