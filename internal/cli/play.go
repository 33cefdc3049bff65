package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"quizdeck/internal/config"
	"quizdeck/internal/domain"
	"quizdeck/internal/session"
)

// NewPlayCmd builds the student-facing subcommand that runs one timed
// quiz attempt in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "play <quiz-id>",
		Short: "Take a quiz with a countdown per question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), *configPath, args[0], name)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "student name (prompted when omitted)")
	return cmd
}

func runPlay(ctx context.Context, configPath, quizID, name string) error {
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

	quiz, ok := store.State().FindQuiz(quizID)
	if !ok {
		return domain.ErrQuizNotFound
	}
	if len(quiz.Questions) == 0 {
		return domain.ErrEmptyQuiz
	}

	reader := bufio.NewReader(os.Stdin)
	for strings.TrimSpace(name) == "" {
		fmt.Printf("%s: %s\n", quiz.Title, quiz.Description)
		fmt.Print("Enter your name to start: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return domain.ErrNoStudentName
		}
		name = strings.TrimSpace(line)
	}

	engine, err := session.New(quiz, name, func(a domain.Action) { store.Dispatch(a) },
		session.WithQuestionSeconds(cfg.Session.QuestionSeconds))
	if err != nil {
		return err
	}
	engine.Start()
	defer engine.Stop()

	fmt.Printf("Good luck, %s! %d seconds per question; questions advance on timeout.\n",
		name, cfg.Session.QuestionSeconds)

	for {
		view := engine.Snapshot()
		if view.Submitted {
			break
		}
		printQuestion(view)

		line, err := reader.ReadString('\n')
		if err != nil {
			return nil // student walked away; nothing is submitted
		}
		input := strings.ToLower(strings.TrimSpace(line))
		switch input {
		case "n", "next":
			_ = engine.Next()
		case "p", "prev", "previous":
			_ = engine.Previous()
		case "q", "quit":
			fmt.Println("Attempt discarded.")
			return nil
		default:
			choice, convErr := strconv.Atoi(input)
			if convErr != nil {
				fmt.Println("Type 1-4 to answer, n for next, p for previous, q to quit.")
				continue
			}
			if err := engine.SelectAnswer(choice - 1); err != nil {
				fmt.Println("That option does not exist.")
			}
		}
		if engine.Snapshot().Submitted {
			break
		}
	}

	return printOutcome(store.State(), quizID, engine.ResultID())
}

func printQuestion(view session.View) {
	fmt.Printf("\nQuestion %d of %d (%ds left)\n", view.QuestionIndex+1, view.TotalQuestions, view.TimeRemaining)
	fmt.Println(view.Question.Text)
	for i, option := range view.Question.Options {
		marker := " "
		if view.Answers[view.QuestionIndex] == i {
			marker = "*"
		}
		fmt.Printf("  %s %d) %s\n", marker, i+1, option)
	}
	fmt.Print("> ")
}

func printOutcome(state domain.AppState, quizID, resultID string) error {
	for _, result := range state.Results[quizID] {
		if result.ID == resultID {
			percent := 0
			if result.TotalQuestions > 0 {
				percent = result.Score * 100 / result.TotalQuestions
			}
			verdict := "Keep practicing!"
			if percent >= 50 {
				verdict = "Well done!"
			}
			fmt.Printf("\nSubmitted. Score: %d/%d (%d%%). %s\n",
				result.Score, result.TotalQuestions, percent, verdict)
			return nil
		}
	}
	return fmt.Errorf("submitted result %s not found", resultID)
}
