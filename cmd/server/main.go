package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nicolas-cahorel/P3-Mission/internal/config"
	httpserver "github.com/nicolas-cahorel/P3-Mission/internal/http"
	"github.com/nicolas-cahorel/P3-Mission/internal/logging"
	"github.com/nicolas-cahorel/P3-Mission/internal/repository"
	"github.com/nicolas-cahorel/P3-Mission/internal/restaurantapi"
	"github.com/nicolas-cahorel/P3-Mission/internal/review"
	"github.com/nicolas-cahorel/P3-Mission/internal/seed"
	"github.com/nicolas-cahorel/P3-Mission/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	sources, err := openSeedSources(ctx, cfg, logger)
	if err != nil {
		return err
	}
	var health httpserver.HealthChecker
	if sources.db != nil {
		defer sources.db.Close()
		health = sources.db
	}

	// Seeding completes before the store accepts any admission.
	seedTimeout := time.Duration(cfg.SeedTimeoutSecs) * time.Second
	initial := seed.Fetch(ctx, sources.reviews, seedTimeout, logger.Named("seed"))
	reviews := review.NewStore(initial, review.WithLogger(logger.Named("review")))
	defer reviews.Close()

	var opts []httpserver.Option
	if restaurant, ok := seed.FetchRestaurant(ctx, sources.restaurant, seedTimeout, logger.Named("seed")); ok {
		opts = append(opts, httpserver.WithRestaurant(restaurant))
	}
	server := httpserver.New(cfg, reviews, health, logger.Named("http"), opts...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := server.Start(gctx)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		watchSnapshots(gctx, reviews, logger)
		return nil
	})
	return g.Wait()
}

// seedSources holds what the store and the restaurant page start from. db
// is set only when a database was reached; the caller closes it.
type seedSources struct {
	reviews    seed.Source
	restaurant seed.RestaurantSource
	db         *store.DB
}

// openSeedSources resolves the configured seed. An unreachable database is
// not fatal: the service starts empty and says so. Configuration errors are.
func openSeedSources(ctx context.Context, cfg config.Config, logger *zap.Logger) (seedSources, error) {
	switch cfg.SeedSource {
	case config.SeedFile:
		file := seed.File{Path: cfg.SeedFile}
		return seedSources{reviews: file, restaurant: file}, nil
	case config.SeedPostgres:
		db, err := store.Open(ctx, cfg.DBURL, store.ServerOptions(cfg, logger.Named("store")))
		if errors.Is(err, store.ErrUnavailable) {
			logger.Warn("seed: database unreachable, starting empty", zap.Error(err))
			return seedSources{reviews: seed.Static(nil), restaurant: seed.StaticRestaurant{}}, nil
		}
		if err != nil {
			return seedSources{}, fmt.Errorf("open database: %w", err)
		}
		repo := repository.New(db)
		return seedSources{
			reviews:    repo.SeedSource(cfg.RestaurantID),
			restaurant: repo.RestaurantSource(cfg.RestaurantID),
			db:         db,
		}, nil
	case config.SeedAPI:
		client, err := restaurantapi.NewHTTPClient(cfg.RestaurantAPIURL, cfg.RestaurantAPIKey,
			time.Duration(cfg.RestaurantAPITimeoutSecs)*time.Second, logger.Named("restaurantapi"))
		if err != nil {
			return seedSources{}, fmt.Errorf("init restaurant api client: %w", err)
		}
		return seedSources{
			reviews:    client.SeedSource(cfg.RestaurantID),
			restaurant: client.RestaurantSource(cfg.RestaurantID),
		}, nil
	default:
		return seedSources{reviews: seed.TajMahal(), restaurant: seed.TajMahalRestaurant()}, nil
	}
}

// watchSnapshots logs every published snapshot until ctx is done.
func watchSnapshots(ctx context.Context, reviews *review.Store, logger *zap.Logger) {
	sub := reviews.Subscribe()
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-sub.C():
			if !ok {
				return
			}
			stats := snap.Stats()
			logger.Info("reviews: snapshot published",
				zap.Uint64("version", snap.Version),
				zap.Int("count", stats.TotalCount),
				zap.Ints("histogram_percent", stats.Percent[:]),
				zap.Float64("average", stats.Average),
			)
		}
	}
}
