package main

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"estate_listing/internal/adapters/meili"
	"estate_listing/internal/adapters/observability"
	redisad "estate_listing/internal/adapters/redis"
	"estate_listing/internal/app"
	"estate_listing/internal/domain"
	"estate_listing/internal/fixtures"
	"estate_listing/internal/shared"
	mysqlrepo "estate_listing/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ds, err := fixtures.Load(cfg.FixturesPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.FixturesPath).Msg("load fixtures failed")
	}
	log.Info().
		Int("properties", len(ds.Properties)).
		Int("users", len(ds.Users)).
		Int("workers", cfg.SeedWorkers).
		Bool("meili", cfg.MeiliHost != "").
		Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		cache = rc
	}
	var index domain.SearchIndex
	if cfg.MeiliHost != "" {
		index = meili.New(cfg.MeiliHost, cfg.MeiliKey)
	}
	seed := app.NewSeedService(repo, cache, index)

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup
	var failed atomic.Int64

	for _, p := range ds.Properties {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(p domain.Property) {
			defer wg.Done()
			defer sem.Release(1)

			if err := seed.SeedProperty(ctx, p); err != nil {
				failed.Add(1)
				log.Warn().Str("id", p.ID).Err(err).Msg("seed property failed")
				return
			}
			log.Debug().Str("id", p.ID).Msg("seed property ok")
		}(p)
	}
	wg.Wait()

	// users reference properties through saved ids, so they go second
	for _, u := range ds.Users {
		if err := seed.SeedUser(ctx, u); err != nil {
			failed.Add(1)
			log.Warn().Str("id", u.ID).Err(err).Msg("seed user failed")
		}
	}

	if err := seed.IndexAll(ctx, ds.Properties); err != nil {
		failed.Add(1)
		log.Warn().Err(err).Msg("search index update failed")
	}

	if n := failed.Load(); n > 0 {
		log.Error().Int64("failed", n).Msg("seeding finished with errors")
		os.Exit(1)
	}
	log.Info().Msg("seeding completed")
}
