package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/recipe-share-api/config"
	"github.com/oksasatya/recipe-share-api/internal/domain/entity"
	"github.com/oksasatya/recipe-share-api/internal/domain/repository"
	pginfra "github.com/oksasatya/recipe-share-api/internal/infrastructure/postgres"
	"github.com/oksasatya/recipe-share-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	news := pginfra.NewNewsRepository(pool)
	recipes := pginfra.NewRecipeRepository(pool)

	email := "demo@recipeshare.local"
	password := "password123"
	username := "demoUser"

	u, err := users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		hash, herr := helpers.HashPassword(password)
		if herr != nil {
			log.Fatalf("failed to hash password: %v", herr)
		}
		u = &entity.User{Email: email, Username: &username, Password: hash}
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("failed to seed user: %v", err)
		}
		fmt.Printf("seeded user: id=%d email=%s username=%s password=%s\n", u.ID, email, username, password)
	case err != nil:
		log.Fatalf("failed to look up demo user: %v", err)
	default:
		fmt.Printf("demo user already present: id=%d\n", u.ID)
		return
	}

	subtitle := "What's cooking this season"
	n := &entity.News{
		Title:    "Welcome to Recipe Share",
		Subtitle: &subtitle,
		HTML:     "<p>Share your favorite dishes with the community.</p>",
		Media:    cfg.MediaBaseURL + "/news/welcome.jpg",
	}
	if err := news.Create(ctx, n); err != nil {
		log.Fatalf("failed to seed news: %v", err)
	}
	fmt.Printf("seeded news: id=%d\n", n.ID)

	r := &entity.Recipe{
		Title:       "Classic Pancakes",
		Date:        "2024-01-01",
		Category:    "Breakfast",
		Difficulty:  "Easy",
		Portions:    4,
		Time:        20,
		Image:       cfg.MediaBaseURL + "/recipes/pancakes.jpg",
		Ingredients: entity.Entries{"2 eggs", "200g flour", "300ml milk"},
		Steps:       entity.Entries{"Whisk everything together", "Cook on a hot pan"},
		Tips:        "Rest the batter for 10 minutes.",
		UserID:      u.ID,
		Username:    username,
		IsValidate:  true,
	}
	if err := recipes.Create(ctx, r); err != nil {
		log.Fatalf("failed to seed recipe: %v", err)
	}
	fmt.Printf("seeded recipe: id=%d title=%s\n", r.ID, r.Title)
}
