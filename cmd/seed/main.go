// seed crea el usuario administrador, o le cambia la contraseña si ya existe.
//
// Uso: go run ./cmd/seed -username admin -password <secreto>
// Sin flags usa SEED_ADMIN_USERNAME y SEED_ADMIN_PASSWORD. La conexión sale de la
// misma configuración que la API (DATABASE_URL o DB_*).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/authors-report/internal/domain/entity"
	"github.com/jhoicas/authors-report/internal/domain/repository"
	"github.com/jhoicas/authors-report/internal/infrastructure/postgres"
	"github.com/jhoicas/authors-report/pkg/config"
	"github.com/jhoicas/authors-report/pkg/logger"
)

const minPasswordLen = 6

func main() {
	username := flag.String("username", envOr("SEED_ADMIN_USERNAME", "admin"), "usuario administrador")
	password := flag.String("password", os.Getenv("SEED_ADMIN_PASSWORD"), "contraseña (mínimo 6 caracteres)")
	flag.Parse()

	if len(*password) < minPasswordLen {
		fmt.Fprintf(os.Stderr, "La contraseña debe tener al menos %d caracteres\n", minPasswordLen)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	created, err := seedAdmin(ctx, postgres.NewUserRepository(pool), *username, *password)
	if err != nil {
		log.Fatal().Err(err).Str("username", *username).Msg("seed admin")
	}
	if created {
		log.Info().Str("username", *username).Msg("administrador creado")
	} else {
		log.Info().Str("username", *username).Msg("contraseña del administrador actualizada")
	}
}

// seedAdmin crea el admin o actualiza su contraseña. Devuelve true si lo creó.
func seedAdmin(ctx context.Context, users repository.UserRepository, username, password string) (bool, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash: %w", err)
	}

	existing, err := users.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if existing != nil {
		if existing.Role != entity.RoleAdmin {
			return false, fmt.Errorf("el usuario %s existe con rol %s", username, existing.Role)
		}
		return false, users.UpdatePassword(ctx, existing.ID, string(hash))
	}

	now := time.Now()
	return true, users.Create(ctx, &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
