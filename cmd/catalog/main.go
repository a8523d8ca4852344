package main

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"RocketShoes/internal/catalog"
	"RocketShoes/pkg/kit"
)

func main() {
	service := "catalog"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := kit.Getenv("PORT", "3333")
	dsn := kit.Getenv("DATABASE_URL", "")

	var (
		store   catalog.Store
		closers []func(context.Context)
	)
	if dsn == "" {
		log.Info("using seeded in-memory catalog")
		store = catalog.NewSeededMemStore()
	} else {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			log.Fatal("open database failed", zap.Error(err))
		}
		closers = append(closers, func(context.Context) { _ = db.Close() })
		store = catalog.NewPostgresStore(db)
	}

	reg := prometheus.NewRegistry()
	h := catalog.NewHandler(&catalog.Server{Store: store, Log: log}, catalog.HTTPDeps{
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
