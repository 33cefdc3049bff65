package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"quizdeck/internal/app"
	"quizdeck/internal/config"
	"quizdeck/internal/domain"
	"quizdeck/internal/generator"
)

// NewQuizCmd groups the authoring surface. Mutating subcommands require
// admin credentials; listing does not.
func NewQuizCmd(configPath *string) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "List and author quizzes",
	}
	cmd.PersistentFlags().StringVar(&email, "email", "", "admin email")
	cmd.PersistentFlags().StringVar(&password, "password", "", "admin password")

	cmd.AddCommand(newQuizListCmd(configPath))
	cmd.AddCommand(newQuizAddCmd(configPath, &email, &password))
	cmd.AddCommand(newQuizDeleteCmd(configPath, &email, &password))
	cmd.AddCommand(newQuestionAddCmd(configPath, &email, &password))
	cmd.AddCommand(newQuestionDeleteCmd(configPath, &email, &password))
	cmd.AddCommand(newGenerateCmd(configPath, &email, &password))
	return cmd
}

// withAuthorSession loads config, opens the store, and logs the admin
// in before running fn against the store.
func withAuthorSession(ctx context.Context, configPath, email, password string, fn func(cfg config.Config, store *app.Store) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	store, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	defer store.Close(ctx)

	if _, err := loginAs(store, email, password); err != nil {
		return err
	}
	return fn(cfg, store)
}

func newQuizListCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List quizzes",
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
			for _, quiz := range state.QuizList() {
				fmt.Printf("%s\t%s\t%d questions\t%d attempts\n",
					quiz.ID, quiz.Title, len(quiz.Questions), len(state.Results[quiz.ID]))
			}
			return nil
		},
	}
}

func newQuizAddCmd(configPath, email, password *string) *cobra.Command {
	var title, description string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a quiz",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return fmt.Errorf("--title is required")
			}
			return withAuthorSession(cmd.Context(), *configPath, *email, *password,
				func(_ config.Config, store *app.Store) error {
					quiz := domain.NewQuiz(title, description)
					store.Dispatch(domain.AddQuiz{Quiz: quiz})
					fmt.Printf("created quiz %s\n", quiz.ID)
					return nil
				})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "quiz title")
	cmd.Flags().StringVar(&description, "description", "", "quiz description")
	return cmd
}

func newQuizDeleteCmd(configPath, email, password *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <quiz-id>",
		Short: "Delete a quiz and its results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAuthorSession(cmd.Context(), *configPath, *email, *password,
				func(_ config.Config, store *app.Store) error {
					store.Dispatch(domain.DeleteQuiz{QuizID: args[0]})
					return nil
				})
		},
	}
}

func newQuestionAddCmd(configPath, email, password *string) *cobra.Command {
	var (
		text    string
		options []string
		correct int
	)
	cmd := &cobra.Command{
		Use:   "add-question <quiz-id>",
		Short: "Append a question to a quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question, err := domain.NewQuestion(text, options, correct)
			if err != nil {
				return err
			}
			return withAuthorSession(cmd.Context(), *configPath, *email, *password,
				func(_ config.Config, store *app.Store) error {
					if _, ok := store.State().FindQuiz(args[0]); !ok {
						return domain.ErrQuizNotFound
					}
					store.Dispatch(domain.AddQuestion{QuizID: args[0], Question: question})
					fmt.Printf("added question %s\n", question.ID)
					return nil
				})
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "question text")
	cmd.Flags().StringArrayVar(&options, "option", nil, "answer option (repeat exactly 4 times)")
	cmd.Flags().IntVar(&correct, "correct", 0, "0-based index of the correct option")
	return cmd
}

func newQuestionDeleteCmd(configPath, email, password *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-question <quiz-id> <question-id>",
		Short: "Remove a question from a quiz",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAuthorSession(cmd.Context(), *configPath, *email, *password,
				func(_ config.Config, store *app.Store) error {
					store.Dispatch(domain.DeleteQuestion{QuizID: args[0], QuestionID: args[1]})
					return nil
				})
		},
	}
}

func newGenerateCmd(configPath, email, password *string) *cobra.Command {
	var (
		topic string
		count int
	)
	cmd := &cobra.Command{
		Use:   "generate <quiz-id>",
		Short: "Generate questions for a quiz with Gemini",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAuthorSession(cmd.Context(), *configPath, *email, *password,
				func(cfg config.Config, store *app.Store) error {
					if _, ok := store.State().FindQuiz(args[0]); !ok {
						return domain.ErrQuizNotFound
					}
					gen, err := generator.New(cmd.Context(), cfg.Gemini.APIKey)
					if err != nil {
						return err
					}
					// A failed generation returns before any dispatch, so
					// existing quiz data is untouched.
					questions, err := gen.GenerateQuestions(cmd.Context(), topic, count)
					if err != nil {
						return err
					}
					for _, question := range questions {
						store.Dispatch(domain.AddQuestion{QuizID: args[0], Question: question})
					}
					fmt.Printf("added %d generated questions\n", len(questions))
					return nil
				})
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "topic to generate questions about")
	cmd.Flags().IntVar(&count, "count", 5, "number of questions (1-10)")
	return cmd
}
