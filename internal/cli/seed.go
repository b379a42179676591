package cli

import (
	"fmt"

	"screening-service/internal/config"
	"screening-service/internal/infra/postgres"
	"screening-service/internal/seed"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewSeedCmd writes the questionnaire and therapist directory into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var questionsFile, therapistsFile string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load questions and therapists into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			if err := runMigrationsWithConfig(cmd.Context(), cfg, log); err != nil {
				return err
			}
			questions, err := seed.LoadQuestionsFile(questionsFile)
			if err != nil {
				return fmt.Errorf("questions: %w", err)
			}
			therapists, err := seed.LoadTherapistsFile(therapistsFile)
			if err != nil {
				return fmt.Errorf("therapists: %w", err)
			}

			db := openBun(cfg.Postgres.URL)
			defer db.Close()
			seeder := postgres.NewSeeder(db)

			nq, err := seeder.UpsertQuestions(cmd.Context(), questions)
			if err != nil {
				return err
			}
			nt, err := seeder.UpsertTherapists(cmd.Context(), therapists)
			if err != nil {
				return err
			}
			log.Info("seed complete", zap.Int("questions", nq), zap.Int("therapists", nt))
			return nil
		},
	}
	cmd.Flags().StringVar(&questionsFile, "questions", "", "questions YAML file (defaults to the built-in questionnaire)")
	cmd.Flags().StringVar(&therapistsFile, "therapists", "", "therapists YAML file (defaults to the sample directory)")
	return cmd
}
