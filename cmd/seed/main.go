// Comando seed cria ou redefine o superadmin a partir do ambiente.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/oficina-digital/vistoria/internal/db"
	"github.com/oficina-digital/vistoria/internal/models"
	"github.com/oficina-digital/vistoria/internal/repository"
	"github.com/oficina-digital/vistoria/internal/router/config"
	"github.com/oficina-digital/vistoria/internal/services"
	"github.com/oficina-digital/vistoria/internal/validate"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	email := strings.TrimSpace(os.Getenv("SUPERADMIN_EMAIL"))
	password := os.Getenv("SUPERADMIN_PASSWORD")
	name := strings.TrimSpace(os.Getenv("SUPERADMIN_NAME"))
	if name == "" {
		name = "Superadmin"
	}
	if email == "" || password == "" {
		log.Fatal("SUPERADMIN_EMAIL e SUPERADMIN_PASSWORD são obrigatórios")
	}
	if err := validate.Password(password); err != nil {
		log.Fatalf("SUPERADMIN_PASSWORD: %v", err)
	}

	ctx := context.Background()
	dbPool, err := db.InitDb(ctx, cfg)
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer dbPool.Close()

	hash, err := services.HashPassword(password, bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	users := repository.NewPostgresUserRepository(dbPool)
	existing, err := users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		existing.Name = name
		existing.Role = models.RoleSuperadmin
		existing.OficinaID = nil
		existing.PasswordHash = hash
		if _, err := users.UpdateUser(ctx, *existing); err != nil {
			log.Fatalf("failed to reset superadmin: %v", err)
		}
		log.Printf("superadmin %s redefinido", email)
	case isNotFound(err):
		user := models.User{Name: name, Email: email, PasswordHash: hash, Role: models.RoleSuperadmin}
		if _, err := users.CreateUser(ctx, user); err != nil {
			log.Fatalf("failed to create superadmin: %v", err)
		}
		log.Printf("superadmin %s criado", email)
	default:
		log.Fatalf("failed to look up superadmin: %v", err)
	}
}

func isNotFound(err error) bool {
	var errorResponse *models.ErrorResponse
	return errors.As(err, &errorResponse) && errorResponse.StatusCode == http.StatusNotFound
}
