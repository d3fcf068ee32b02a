package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sol1corejz/greenmart/cmd/config"
	"github.com/sol1corejz/greenmart/internal/auth"
	"github.com/sol1corejz/greenmart/internal/catalog"
	"github.com/sol1corejz/greenmart/internal/handlers"
	"github.com/sol1corejz/greenmart/internal/logger"
	"github.com/sol1corejz/greenmart/internal/progression"
	"github.com/sol1corejz/greenmart/internal/session"
	"github.com/sol1corejz/greenmart/internal/storage"
	"github.com/sol1corejz/greenmart/internal/tokenstorage"
	"github.com/sol1corejz/greenmart/internal/workers"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	config.ParseFlags()

	if err := logger.Initialize(config.LogLevel); err != nil {
		logger.Log.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer logger.Log.Sync()

	auth.SetSecret(config.JWTSecret)

	app := fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Log}
		}),
		fx.Provide(
			ProvideStorage,
			storage.NewRepository,
			ProvideSessionManager,
			progression.NewEngine,
			ProvideCatalog,
			tokenstorage.New,
			handlers.New,
			ProvideRouter,
		),
		fx.Invoke(StartReaper),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func ProvideStorage(lc fx.Lifecycle) (storage.KV, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	kv, err := storage.Open(ctx, storage.Config{
		Driver:       config.StorageDriver,
		DatabaseURI:  config.DatabaseURI,
		SQLitePath:   config.SQLitePath,
		RedisAddress: config.RedisAddress,
	})
	if err != nil {
		logger.Log.Error("Failed to init storage", zap.String("driver", config.StorageDriver), zap.Error(err))
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return kv.Close()
		},
	})

	logger.Log.Info("Storage ready", zap.String("driver", config.StorageDriver))
	return kv, nil
}

func ProvideSessionManager(lc fx.Lifecycle, repo *storage.Repository) *session.Manager {
	m := session.NewManager(repo, session.Options{
		AuthDelay:     config.AuthDelay,
		HashPasswords: config.HashPasswords,
	})

	// Registered after the storage hook, so it runs before the backend closes.
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return m.SignOutAll(ctx)
		},
	})

	return m
}

func ProvideCatalog(repo *storage.Repository) (*catalog.Service, error) {
	seed, err := catalog.LoadSeed(config.CatalogSeed)
	if err != nil {
		return nil, err
	}
	return catalog.NewService(repo, seed), nil
}

func ProvideRouter(h *handlers.Handler) *fiber.App {
	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
	}))

	h.Routes(app)
	return app
}

func StartReaper(lc fx.Lifecycle, sessions *session.Manager, tokens *tokenstorage.TokenStorage) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			workers.InitSessionReaper(ctx, sessions, tokens, workers.WorkerInterval, config.SessionIdleTimeout)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func StartServer(lc fx.Lifecycle, app *fiber.App) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Log.Info("Running server", zap.String("address", config.RunAddress))
				if err := app.Listen(config.RunAddress); err != nil {
					logger.Log.Fatal("Failed to run server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Log.Info("Stopping server")
			return app.ShutdownWithContext(ctx)
		},
	})
}
