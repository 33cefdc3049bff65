package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"quizdeck/internal/config"
	"quizdeck/internal/domain"
)

// NewResultsCmd prints recorded attempts for a quiz, newest first.
// Storage keeps results in append order; the sort here is presentation.
func NewResultsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "results <quiz-id>",
		Short: "Show recorded attempts for a quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			store, cleanup, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()
			defer store.Close(cmd.Context())

			state := store.State()
			quiz, ok := state.FindQuiz(args[0])
			if !ok {
				return domain.ErrQuizNotFound
			}

			results := append([]domain.Result(nil), state.Results[quiz.ID]...)
			sort.Slice(results, func(i, j int) bool {
				return results[i].Timestamp.After(results[j].Timestamp)
			})

			fmt.Printf("%s: %d attempts\n", quiz.Title, len(results))
			for _, result := range results {
				percent := 0
				if result.TotalQuestions > 0 {
					percent = result.Score * 100 / result.TotalQuestions
				}
				fmt.Printf("%s\t%s\t%d/%d (%d%%)\n",
					result.Timestamp.Format("2006-01-02 15:04:05"),
					result.StudentName, result.Score, result.TotalQuestions, percent)
			}
			return nil
		},
	}
}
