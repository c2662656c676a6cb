package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/reelnotes/reelnotes/internal/api"
	"github.com/reelnotes/reelnotes/internal/api/handler"
	"github.com/reelnotes/reelnotes/internal/core/ports"
	"github.com/reelnotes/reelnotes/internal/core/service"
	"github.com/reelnotes/reelnotes/internal/infrastructure/db/memory"
	mongodb "github.com/reelnotes/reelnotes/internal/infrastructure/db/mongo"
	"github.com/reelnotes/reelnotes/internal/pkg/config"
	"github.com/reelnotes/reelnotes/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Component("server")
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var (
			users   ports.UserRepository
			catalog ports.CatalogRepository
			health  = map[string]handler.Pinger{}
		)

		switch cfg.Store {
		case config.StoreMemory:
			users = memory.NewUserRepository()
			catalog = memory.NewCatalogRepository()
		case config.StoreMongo:
			client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
			if err != nil {
				return err
			}
			defer func() {
				disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				_ = client.Disconnect(disconnectCtx)
			}()

			userRepo := mongodb.NewUserRepository(db)
			catalogRepo := mongodb.NewCatalogRepository(db)
			if err := userRepo.EnsureIndexes(ctx); err != nil {
				return err
			}
			if err := catalogRepo.EnsureIndexes(ctx); err != nil {
				return err
			}
			users, catalog = userRepo, catalogRepo
			health["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
			log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")
		default:
			return fmt.Errorf("unknown store %q", cfg.Store)
		}

		authService := service.NewAuthService(users, cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL, logger.Component("auth"))
		if err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		catalogService := service.NewCatalogService(catalog, logger.Component("catalog"))

		e := api.NewRouter(api.Deps{
			Auth:    authService,
			Catalog: catalogService,
			Health:  health,
			Log:     logger.Component("http"),
		})

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("port", cfg.Port).Str("store", cfg.Store).Str("env", cfg.Env).Msg("listening")
			if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err, ok := <-errCh:
			if ok {
				return fmt.Errorf("server: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	},
}
