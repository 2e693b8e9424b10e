// Command seed populates a fresh database with demo users and the
// baseline category set. Intended for local development and staging,
// not production. Re-running is safe: users upsert by email, categories
// by slug.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/toolhub-backend/internal/adapter/postgres"
	taxonomyrepo "github.com/heartmarshall/toolhub-backend/internal/adapter/postgres/taxonomy"
	userrepo "github.com/heartmarshall/toolhub-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/toolhub-backend/internal/app"
	"github.com/heartmarshall/toolhub-backend/internal/config"
	"github.com/heartmarshall/toolhub-backend/internal/domain"
)

type seedUser struct {
	email string
	name  string
	role  domain.Role
}

var demoUsers = []seedUser{
	{"owner@toolhub.local", "Olga Owner", domain.RoleOwner},
	{"backend@toolhub.local", "Boris Backend", domain.RoleBackend},
	{"frontend@toolhub.local", "Fiona Frontend", domain.RoleFrontend},
	{"qa@toolhub.local", "Quentin QA", domain.RoleQA},
	{"designer@toolhub.local", "Daria Designer", domain.RoleDesigner},
	{"pm@toolhub.local", "Pavel PM", domain.RolePM},
}

var demoCategories = []string{
	"Development",
	"Design",
	"Testing",
	"Monitoring",
	"Documentation",
	"Communication",
}

func main() {
	password := flag.String("password", "password", "password assigned to every demo user")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.MigrateUp(ctx, cfg.Database); err != nil {
		logger.Error("run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("hash password", slog.String("error", err.Error()))
		os.Exit(1)
	}

	users := userrepo.New(pool)
	var ownerID uuid.UUID
	for _, su := range demoUsers {
		created, err := users.Create(ctx, &domain.User{
			Email:        su.email,
			Name:         su.name,
			Role:         su.role,
			PasswordHash: string(hash),
		})
		if err != nil {
			logger.Error("seed user", slog.String("email", su.email), slog.String("error", err.Error()))
			os.Exit(1)
		}
		if su.role == domain.RoleOwner {
			ownerID = created.ID
		}
		logger.Info("seeded user", slog.String("email", su.email), slog.String("role", string(su.role)))
	}

	taxonomies := taxonomyrepo.New(pool)
	for _, name := range demoCategories {
		_, err := taxonomies.CreateCategory(ctx, domain.Category{
			Name:      name,
			Slug:      domain.Slugify(name),
			CreatedBy: ownerID,
		})
		if errors.Is(err, domain.ErrAlreadyExists) {
			logger.Info("category exists, skipping", slog.String("name", name))
			continue
		}
		if err != nil {
			logger.Error("seed category", slog.String("name", name), slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("seeded category", slog.String("name", name))
	}

	logger.Info("seed completed")
}
