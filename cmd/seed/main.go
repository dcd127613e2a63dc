// seed siembra el catálogo (categorías y productos) desde un JSON y, opcionalmente, crea un admin.
//
// Uso: go run ./cmd/seed --file catalog.json [--latin1] [--admin-email a@b.co --admin-name Admin --admin-password secreto]
// Es idempotente: categorías por nombre, productos por modelo.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stock-ledger-api/internal/application/auth"
	"github.com/jhoicas/stock-ledger-api/internal/application/catalog"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

func main() {
	file := pflag.String("file", "catalog.json", "ruta del catálogo JSON")
	latin1 := pflag.Bool("latin1", false, "el archivo está en ISO-8859-1")
	adminEmail := pflag.String("admin-email", "", "email del admin a crear")
	adminName := pflag.String("admin-name", "Administrador", "nombre del admin")
	adminPassword := pflag.String("admin-password", "", "contraseña del admin")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("abrir catálogo")
	}
	defer f.Close()

	var r io.Reader = f
	if *latin1 {
		r = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	entries, err := catalog.DecodeSeed(r)
	if err != nil {
		log.Fatal().Err(err).Msg("decodificar catálogo")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if _, err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	productRepo := postgres.NewProductRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Stock.LockTimeout)
	seeder := catalog.NewSeeder(
		catalog.NewCategoryUseCase(postgres.NewCategoryRepository(pool), productRepo),
		catalog.NewProductUseCase(txRunner, productRepo, nil),
	)
	res, err := seeder.Seed(ctx, entries)
	if err != nil {
		log.Fatal().Err(err).Msg("sembrar catálogo")
	}
	log.Info().
		Int("categories_created", res.CategoriesCreated).
		Int("categories_found", res.CategoriesFound).
		Int("products_created", res.ProductsCreated).
		Int("products_found", res.ProductsFound).
		Msg("catálogo sembrado")

	if *adminEmail == "" {
		return
	}
	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	admin, err := authUC.RegisterAdmin(ctx, dto.RegisterRequest{
		Name:     *adminName,
		Email:    *adminEmail,
		Password: *adminPassword,
	})
	switch {
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		log.Info().Str("email", *adminEmail).Msg("admin ya existe")
	case err != nil:
		log.Fatal().Err(err).Msg("crear admin")
	default:
		log.Info().Str("id", admin.ID).Str("email", admin.Email).Msg("admin creado")
	}
}
