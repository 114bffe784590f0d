package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/adapters/database"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/adapters/search"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/entities"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/domain/repositories"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/infrastructure/clients/postgres"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/infrastructure/clients/typesense"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/infrastructure/observability"
	"github.com/vanshika145/Upcycle-Connect-sub000/pkg/config"
)

const pageSize = 250

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete existing Typesense collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-indexer", cfg.Env, cfg.LogLevel)

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatal().Err(err).Str("interval", intervalValue).Msg("invalid interval")
		}
		if interval <= 0 {
			log.Fatal().Msg("interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, cfg, reset || os.Getenv("RESET_TYPESENSE") == "true"); err != nil {
			log.Error().Err(err).Msg("reindex failed")
		}

		if interval <= 0 {
			break
		}

		reset = false
		log.Info().Dur("next_run_in", interval).Msg("reindex complete")

		select {
		case <-ctx.Done():
			log.Info().Msg("reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, cfg *config.Config, reset bool) error {
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	if reset {
		log.Info().Str("collection", typesense.MaterialsCollection).Msg("resetting collection")
		if err := tsClient.ResetSchema(ctx); err != nil {
			return err
		}
	} else if err := tsClient.InitSchema(ctx); err != nil {
		return err
	}

	store := database.NewMaterialAdapter(pgClient)
	index := search.NewTypesenseAdapter(tsClient)

	// Every status is written so listings that left "available" are updated
	// in place rather than lingering as searchable.
	statuses := []entities.MaterialStatus{
		entities.MaterialStatusAvailable,
		entities.MaterialStatusRequested,
		entities.MaterialStatusPicked,
	}

	start := time.Now()
	seen := make(map[string]struct{})
	indexed, failed := 0, 0
	for _, status := range statuses {
		for offset := 0; ; offset += pageSize {
			if err := ctx.Err(); err != nil {
				return err
			}

			page, err := store.Find(ctx, repositories.MaterialFilter{
				Status: status,
				Limit:  pageSize,
				Offset: offset,
			})
			if err != nil {
				return err
			}

			for _, material := range page {
				seen[material.ID] = struct{}{}
				if err := index.Index(ctx, material); err != nil {
					failed++
					log.Warn().Err(err).Str("material_id", material.ID).Msg("failed to index material")
					continue
				}
				indexed++
			}

			if len(page) < pageSize {
				break
			}
		}
	}

	pruned, err := pruneStale(ctx, index, seen)
	if err != nil {
		return err
	}

	log.Info().
		Int("indexed", indexed).
		Int("failed", failed).
		Int("pruned", pruned).
		Dur("took", time.Since(start)).
		Msg("materials reindexed")
	return nil
}

// staleIndex is the part of the material index pruning needs.
type staleIndex interface {
	IndexedIDs(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
}

// pruneStale deletes indexed documents whose rows are gone from the store.
func pruneStale(ctx context.Context, index staleIndex, seen map[string]struct{}) (int, error) {
	ids, err := index.IndexedIDs(ctx)
	if err != nil {
		return 0, err
	}

	pruned := 0
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		if err := index.Delete(ctx, id); err != nil {
			log.Warn().Err(err).Str("material_id", id).Msg("failed to prune material")
			continue
		}
		pruned++
	}
	return pruned, nil
}
