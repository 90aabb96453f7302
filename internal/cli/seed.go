package cli

import (
	"context"
	"log"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"learnhub-quiz/internal/config"
	pgstore "learnhub-quiz/internal/infra/postgres"
	redisstore "learnhub-quiz/internal/infra/redis"
)

// NewSeedCmd upserts the question catalog into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the question catalog into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	banks, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	subjects, err := pgstore.SeedBanks(ctx, db, banks)
	if err != nil {
		return err
	}
	log.Printf("seeded %d subjects: %v", len(subjects), subjects)

	if cfg.Redis.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()

	// drop cached banks so running instances pick up the new questions
	cache := redisstore.NewBankRepository(client, nil, config.TTLDuration(cfg.Quiz.BankTTL, 10*time.Minute))
	var result *multierror.Error
	for _, subject := range subjects {
		if err := cache.Invalidate(ctx, subject); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
