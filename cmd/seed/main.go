// seed prepara una base nueva: aplica el esquema, crea un tenant inicial y el primer super admin.
//
// Uso: go run ./cmd/seed
// Variables: SEED_ADMIN_EMAIL, SEED_ADMIN_PASSWORD (obligatorias) y SEED_CLIENT_NAME (opcional),
// además de la configuración de base de datos de la API (DATABASE_URL o DB_*).
// Es idempotente: si el email ya existe no crea nada.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/jhoicas/Retail-api/internal/application/auth"
	"github.com/jhoicas/Retail-api/internal/application/dto"
	"github.com/jhoicas/Retail-api/internal/application/usecase"
	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/domain/entity"
	"github.com/jhoicas/Retail-api/internal/infrastructure/docstore"
	"github.com/jhoicas/Retail-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Retail-api/pkg/config"
	"github.com/jhoicas/Retail-api/pkg/logger"
	"github.com/jhoicas/Retail-api/pkg/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.Storage.Driver != config.StoragePostgres {
		fmt.Fprintln(os.Stderr, "seed solo aplica a STORAGE_DRIVER=postgres")
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	v := viper.New()
	v.AutomaticEnv()
	email := strings.TrimSpace(v.GetString("SEED_ADMIN_EMAIL"))
	password := v.GetString("SEED_ADMIN_PASSWORD")
	clientName := strings.TrimSpace(v.GetString("SEED_CLIENT_NAME"))
	if email == "" || len(password) < 8 {
		fmt.Fprintln(os.Stderr, "SEED_ADMIN_EMAIL y SEED_ADMIN_PASSWORD (mín. 8 caracteres) son obligatorios")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migración del esquema")
	}

	store := postgres.NewDocumentStore(pool)
	userRepo := docstore.NewUserRepository(store)
	clientRepo := docstore.NewClientRepository(store)

	existing, err := userRepo.FindByEmail(ctx, email)
	if err != nil {
		log.Fatal().Err(err).Msg("buscar super admin")
	}
	if existing != nil {
		log.Info().Str("user_id", existing.ID).Msg("el super admin ya existe, nada que hacer")
		return
	}

	if clientName != "" {
		client, err := usecase.NewClientUseCase(clientRepo).Create(ctx, dto.CreateClientRequest{Name: clientName})
		if err != nil {
			log.Fatal().Err(err).Msg("crear tenant inicial")
		}
		log.Info().Str("client_id", client.ID).Str("name", client.Name).Msg("tenant creado")
	}

	codec, err := session.NewCodec(cfg.Session.Secret, cfg.Session.Issuer, cfg.Session.CookieMaxAge)
	if err != nil {
		log.Fatal().Err(err).Msg("codec de sesión")
	}
	authUC := auth.NewAuthUseCase(userRepo, clientRepo, codec, cfg.Session.TTL, log)
	user, err := authUC.RegisterUser(ctx, dto.CreateUserRequest{
		Email:    email,
		Password: password,
		Name:     "Super admin",
		Role:     entity.RoleSuperAdmin,
	})
	if errors.Is(err, domain.ErrEmailAlreadyExists) {
		log.Info().Msg("el super admin ya existe, nada que hacer")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("crear super admin")
	}
	log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("super admin creado")
}
