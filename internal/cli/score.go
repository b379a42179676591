package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"screening-service/internal/app"
	"screening-service/internal/config"
	"screening-service/internal/domain"
	"screening-service/internal/infra/memory"
	"screening-service/internal/seed"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// answerFile is the offline submission format; JSON input works as well since it is valid YAML.
type answerFile struct {
	ChildID    string              `yaml:"childId"`
	Conditions []string            `yaml:"conditions"`
	Region     string              `yaml:"region"`
	Location   *domain.Coordinates `yaml:"location"`
	Answers    []domain.Answer     `yaml:"answers"`
}

// NewScoreCmd scores an answers file against the configured questionnaire without storing it.
func NewScoreCmd(configPath *string) *cobra.Command {
	var questionsFile, therapistsFile, format string
	cmd := &cobra.Command{
		Use:   "score <answers-file>",
		Short: "Score an answers file and print the interpretation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if questionsFile == "" {
				questionsFile = cfg.Catalog.QuestionsFile
			}
			if therapistsFile == "" {
				therapistsFile = cfg.Catalog.TherapistsFile
			}

			sub, err := readAnswerFile(args[0])
			if err != nil {
				return err
			}
			questions, err := seed.LoadQuestionsFile(questionsFile)
			if err != nil {
				return err
			}
			therapists, err := seed.LoadTherapistsFile(therapistsFile)
			if err != nil {
				return err
			}

			svcCfg, err := serviceConfig(cfg, zap.NewNop())
			if err != nil {
				return err
			}
			service, err := app.NewScreeningService(
				memory.NewCatalogRepository(memory.NewStaticCatalogLoader(questions), 0),
				memory.NewTherapistDirectory(therapists),
				memory.NewResultStore(),
				svcCfg,
			)
			if err != nil {
				return err
			}

			result, err := service.Evaluate(cmd.Context(), sub)
			if err != nil {
				return err
			}
			switch format {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			case "text":
				return printResult(cmd.OutOrStdout(), result)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}
	cmd.Flags().StringVar(&questionsFile, "questions", "", "questions YAML file (defaults to catalog.questionsFile, then the built-in questionnaire)")
	cmd.Flags().StringVar(&therapistsFile, "therapists", "", "therapists YAML file (defaults to catalog.therapistsFile, then the sample directory)")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	return cmd
}

func readAnswerFile(path string) (app.Submission, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return app.Submission{}, err
	}
	var f answerFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return app.Submission{}, fmt.Errorf("parse %s: %w", path, err)
	}
	sub := app.Submission{
		ChildID:  f.ChildID,
		Region:   f.Region,
		Location: f.Location,
		Answers:  f.Answers,
	}
	for _, c := range f.Conditions {
		sub.Conditions = append(sub.Conditions, domain.ParseCondition(c))
	}
	return sub, nil
}

func printResult(w io.Writer, result domain.ScreeningResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CONDITION\tSCORE\tPERCENT\tTIER\tSEVERITY")
	for _, in := range result.Interpretations {
		fmt.Fprintf(tw, "%s\t%d/%d\t%d%%\t%s\t%s\n", in.Condition, in.Total, in.MaxPossible, in.DisplayPercentage, in.Tier, in.Severity)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, in := range result.Interpretations {
		fmt.Fprintf(w, "\n%s: %s\n  %s\n", in.Condition, in.Message, in.Recommendation)
	}
	if len(result.Recommendations) > 0 {
		fmt.Fprintln(w, "\nRecommended providers:")
		for _, t := range result.Recommendations {
			fmt.Fprintf(w, "  - %s (%s, %s)\n", t.Name, t.City, t.Region)
		}
	}
	return nil
}
