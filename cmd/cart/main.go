package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"RocketShoes/internal/auth"
	"RocketShoes/internal/cart"
	"RocketShoes/internal/kv"
	"RocketShoes/pkg/kit"
)

func main() {
	service := "cart"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := kit.Getenv("PORT", "8084")
	catalogURL := kit.Getenv("CATALOG_URL", "http://localhost:3333")

	secret := kit.Getenv("SESSION_SECRET", "")
	if len(secret) < 32 {
		log.Fatal("SESSION_SECRET is required and must be at least 32 chars")
	}

	store, closers, err := openStorage(log)
	if err != nil {
		log.Fatal("init storage failed", zap.Error(err))
	}

	reg := prometheus.NewRegistry()

	s := &cart.Server{
		Sessions: cart.NewSessions(store, cart.Deps{
			Catalog:  cart.NewCatalogClient(catalogURL, kit.GetenvDuration("CATALOG_TIMEOUT", 3*time.Second)),
			Notifier: cart.LogNotifier{Log: log},
			Log:      log,
			Metrics:  cart.NewMetrics(reg),
		}),
		Tokens:   auth.NewTokenMaker(secret),
		TokenTTL: kit.GetenvDuration("SESSION_TTL", 24*time.Hour),
		Log:      log,
	}

	h := cart.NewHandler(s, cart.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: true,
		MetricsToken:   kit.Getenv("METRICS_TOKEN", ""),
	})

	if err := kit.RunHTTPServer(":"+port, h, log, closers...); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func openStorage(log *zap.Logger) (kv.Store, []func(context.Context), error) {
	backend := kit.Getenv("STORAGE", "memory")
	log.Info("cart storage", zap.String("backend", backend))

	switch backend {
	case "memory":
		return kv.NewMemStore(), nil, nil

	case "file":
		s, err := kv.NewFileStore(kit.Getenv("STORAGE_DIR", "./data"))
		return s, nil, err

	case "postgres":
		dsn := kit.Getenv("DATABASE_URL", "")
		if dsn == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL is required for postgres storage")
		}
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, nil, err
		}
		return kv.NewPostgresStore(db), []func(context.Context){func(context.Context) { _ = db.Close() }}, nil

	case "redis":
		s, err := kv.NewRedisStore(kit.Getenv("REDIS_ADDR", "localhost:6379"))
		if err != nil {
			return nil, nil, err
		}
		return s, []func(context.Context){func(context.Context) { _ = s.Close() }}, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORAGE %q", backend)
	}
}
