// seed registers demo accounts in the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ErlanBelekov/devconnect/internal/domain"
	"github.com/ErlanBelekov/devconnect/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/devconnect/internal/password"
	"github.com/ErlanBelekov/devconnect/internal/token"
	"github.com/ErlanBelekov/devconnect/internal/usecase"
)

const seedPassword = "longenough1"

type accountSpec struct {
	email     string
	firstName string
	lastName  string
	bio       string
	role      string
	years     int
	skills    []string
}

var accounts = []accountSpec{
	{"dev@example.com", "Alice", "Smith", "Backend engineer, Go and Postgres", "backend", 7, []string{"go", "postgres", "kubernetes"}},
	{"frontend@example.com", "Bruno", "Costa", "Design systems and accessibility", "frontend", 4, []string{"typescript", "react", "css"}},
	{"newbie@example.com", "Chidi", "", "", "", 0, nil},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set, run: direnv allow")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	hasher, err := password.NewHasher(password.DefaultCost, 0)
	if err != nil {
		log.Fatalf("hasher: %v", err)
	}
	// Login is never called here.
	tokens, err := token.NewCodec([]byte("seed-only-secret-not-used-for-login"), 1)
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}

	users := postgres.NewUserRepository(pool)
	auth := usecase.NewAuthUsecase(users, hasher, tokens)
	profiles := usecase.NewProfileUsecase(users)

	var created, skipped int
	for _, spec := range accounts {
		user, err := auth.Register(ctx, usecase.RegisterInput{
			Email:     spec.email,
			Password:  seedPassword,
			FirstName: spec.firstName,
			LastName:  spec.lastName,
		})
		if errors.Is(err, domain.ErrEmailAlreadyRegistered) {
			skipped++
			continue
		}
		if err != nil {
			log.Fatalf("register %s: %v", spec.email, err)
		}
		created++

		if spec.bio == "" {
			continue
		}
		years := spec.years
		if _, err := profiles.UpdateProfile(ctx, user.ID, domain.ProfileUpdate{
			Bio: &spec.bio,
			Dev: &domain.DevProfile{Role: spec.role, YearsOfExperience: &years, Skills: spec.skills},
		}); err != nil {
			log.Fatalf("update profile %s: %v", spec.email, err)
		}
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Accounts created: %d  (skipped %d already existing)\n", created, skipped)
	fmt.Printf("  Password:         %s\n", seedPassword)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  curl -s -c cookies.txt -X POST http://localhost:3000/api/v1/auth/login \\")
	fmt.Println("    -H 'Content-Type: application/json' \\")
	fmt.Printf("    -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", accounts[0].email, seedPassword)
	fmt.Println()
	fmt.Println("  curl -s -b cookies.txt http://localhost:3000/api/v1/users/me")
}
