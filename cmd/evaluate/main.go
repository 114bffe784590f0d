package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/vanshika145/Upcycle-Connect-sub000/internal/application/services"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/evaluation"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/infrastructure/clients/openai"
	"github.com/vanshika145/Upcycle-Connect-sub000/internal/infrastructure/observability"
	"github.com/vanshika145/Upcycle-Connect-sub000/pkg/config"
)

func main() {
	goldenPath := flag.String("golden", "config/golden_queries.json", "path to the golden query set")
	minRecall := flag.Float64("min-recall", 0, "exit non-zero when average recall@3 falls below this value")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the JSON report.
	log.Logger = observability.NewLogger(os.Stderr, cfg.OTEL.ServiceName+"-evaluate", "development")

	queries, err := evaluation.LoadGoldenQueries(*goldenPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *goldenPath).Msg("failed to load golden queries")
	}
	if err := evaluation.ValidateGoldenQueries(queries); err != nil {
		log.Fatal().Err(err).Msg("invalid golden queries")
	}

	openaiClient, err := openai.NewClient(&cfg.OpenAI)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize OpenAI client")
	}
	defer openaiClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Int("queries", len(queries)).Str("model", cfg.OpenAI.Model).Msg("running category inference evaluation")

	runner := evaluation.NewRunner(services.NewCategoryInferenceService(openaiClient))
	summary, err := runner.Run(ctx, queries)
	if err != nil {
		log.Fatal().Err(err).Msg("evaluation aborted")
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to encode summary")
	}
	fmt.Println(string(out))

	log.Info().
		Float64("recall_at_3", summary.AvgRecallAtK).
		Float64("mrr_at_3", summary.AvgMRRAtK).
		Float64("top_hit_rate", summary.TopHitRate).
		Interface("failures", summary.Failures).
		Msg("evaluation complete")

	if summary.AvgRecallAtK < *minRecall {
		log.Error().Float64("min_recall", *minRecall).Msg("recall below threshold")
		os.Exit(1)
	}
}
