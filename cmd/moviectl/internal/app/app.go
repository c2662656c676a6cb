// Package app holds the client core shared by every moviectl command. The
// root command builds it once and injects it into the cobra context.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/reelnotes/reelnotes/internal/core/ports"
	"github.com/reelnotes/reelnotes/internal/core/service"
	"github.com/reelnotes/reelnotes/internal/infrastructure/db/file"
	"github.com/reelnotes/reelnotes/internal/infrastructure/db/memory"
	redisdb "github.com/reelnotes/reelnotes/internal/infrastructure/db/redis"
	"github.com/reelnotes/reelnotes/internal/infrastructure/http/apiclient"
	"github.com/reelnotes/reelnotes/internal/pkg/config"
)

type contextKey string

const appKey contextKey = "moviectl-app"

// App wires the transport, the session manager, and the entity cache.
type App struct {
	Config  *config.ClientConfig
	Session *service.SessionManager
	Cache   *service.EntityCache

	closers []io.Closer
}

// New builds the client core and restores any persisted session.
func New(ctx context.Context, cfg *config.ClientConfig, log zerolog.Logger) (*App, error) {
	a := &App{Config: cfg}

	store, err := a.sessionStore(ctx)
	if err != nil {
		return nil, err
	}

	client := apiclient.New(cfg.APIURL,
		apiclient.WithTimeout(cfg.HTTPTimeout),
		apiclient.WithLogger(log.With().Str("component", "apiclient").Logger()),
	)
	a.Session = service.NewSessionManager(client, store, log.With().Str("component", "session").Logger())
	client.UseTokens(a.Session)
	a.Cache = service.NewEntityCache(client, a.Session, log.With().Str("component", "cache").Logger())

	if err := a.Session.Boot(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) sessionStore(ctx context.Context) (ports.SessionStore, error) {
	switch a.Config.SessionBackend {
	case config.BackendFile:
		dir := a.Config.SessionDir
		if dir == "" {
			var err error
			if dir, err = file.DefaultDir(); err != nil {
				return nil, err
			}
		}
		return file.NewSessionStore(dir)
	case config.BackendRedis:
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     a.Config.Redis.Addr,
			Password: a.Config.Redis.Password,
			DB:       a.Config.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client)
		return redisdb.NewSessionStore(client), nil
	case config.BackendMemory:
		return memory.NewSessionStore(), nil
	}
	return nil, fmt.Errorf("unknown session backend %q", a.Config.SessionBackend)
}

// Close releases connections opened by New.
func (a *App) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
	a.closers = nil
}

// Inject adds a to the cobra command context.
func Inject(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, appKey, a)
}

// FromContext retrieves the App injected by the root command.
func FromContext(ctx context.Context) (*App, bool) {
	a, ok := ctx.Value(appKey).(*App)
	return a, ok
}

// MustFromContext retrieves the App or panics.
func MustFromContext(ctx context.Context) *App {
	a, ok := FromContext(ctx)
	if !ok {
		panic("moviectl: app not found in context")
	}
	return a
}
