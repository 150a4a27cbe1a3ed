package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"estate_listing/internal/adapters/crm"
	server "estate_listing/internal/adapters/http_server"
	"estate_listing/internal/adapters/observability"
	redisad "estate_listing/internal/adapters/redis"
	"estate_listing/internal/app"
	"estate_listing/internal/domain"
	"estate_listing/internal/fixtures"
	"estate_listing/internal/shared"
	"estate_listing/internal/storage/memory"
	mysqlrepo "estate_listing/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	ds, err := fixtures.Load(cfg.FixturesPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.FixturesPath).Msg("load fixtures failed")
	}
	store := memory.FromDataset(ds)
	observability.ObserveSnapshot(store.Len())

	var activity domain.ActivityRepository = store
	var refresher *memory.Refresher
	if cfg.Store == shared.StoreMySQL {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		defer db.Close()
		log.Info().Msg("database connection ok")

		repo := mysqlrepo.New(db)
		activity = repo

		// The fixture snapshot stays in place if the first load fails.
		refresher = memory.NewRefresher(store, repo, 30*time.Second)
		_ = refresher.Refresh(context.Background())
		if err := refresher.Start(cfg.SnapshotRefresh); err != nil {
			log.Fatal().Err(err).Str("spec", cfg.SnapshotRefresh).Msg("snapshot refresher failed")
		}
	}

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(context.Background()); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; reads fall through to the snapshot")
		}
		defer rc.Close()
		cache = rc
	}

	var dispatcher domain.Dispatcher
	if cfg.CRMWebhookURL != "" {
		c, err := crm.New(cfg.CRMWebhookURL, cfg.CRMKey, cfg.CRMRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize CRM client")
		}
		dispatcher = c
	}

	q := app.NewQueryService(store, activity, cache, cfg.CacheTTL)
	c := app.NewCommandService(store, activity, dispatcher)

	// http
	srv := server.New(15 * time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, C: c})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info().
			Str("addr", cfg.HTTPAddr).
			Str("store", cfg.Store).
			Int("properties", store.Len()).
			Bool("cache", cache != nil).
			Bool("crm", dispatcher != nil).
			Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if refresher != nil {
		refresher.Stop()
	}
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	log.Info().Msg("API stopped")
}
