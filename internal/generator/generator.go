// Package generator produces quiz questions from a topic using Gemini.
// Generated items go through the same validation as manually authored
// questions; a failed or malformed generation adds nothing.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"quizdeck/internal/domain"
)

const (
	// MinQuestions and MaxQuestions bound a single generation request.
	MinQuestions = 1
	MaxQuestions = 10

	modelName = "gemini-1.5-flash"
)

// ErrUnavailable is returned when no Gemini client is configured.
var ErrUnavailable = errors.New("question generator unavailable")

// Generator wraps a Gemini model configured for JSON question output.
type Generator struct {
	model *genai.GenerativeModel
}

// New builds a generator. An empty API key yields ErrUnavailable so
// callers can degrade to manual authoring.
func New(ctx context.Context, apiKey string) (*Generator, error) {
	if apiKey == "" {
		return nil, ErrUnavailable
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("initialize gemini client: %w", err)
	}
	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = questionListSchema()
	return &Generator{model: model}, nil
}

// GenerateQuestions asks the model for count questions about topic.
// Every returned question has a fresh id and satisfies the four-option
// invariant; any defect in the response fails the whole batch.
func (g *Generator) GenerateQuestions(ctx context.Context, topic string, count int) ([]domain.Question, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("topic is required")
	}
	if count < MinQuestions || count > MaxQuestions {
		return nil, fmt.Errorf("count must be between %d and %d, got %d", MinQuestions, MaxQuestions, count)
	}
	if g == nil || g.model == nil {
		return nil, ErrUnavailable
	}

	log.Info().Str("topic", topic).Int("count", count).Msg("generating questions")

	resp, err := g.model.GenerateContent(ctx, genai.Text(buildPrompt(topic, count)))
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	raw, err := responseText(resp)
	if err != nil {
		return nil, err
	}
	questions, err := parseQuestions([]byte(raw))
	if err != nil {
		return nil, err
	}

	log.Info().Int("generated", len(questions)).Msg("questions generated")
	return questions, nil
}

func buildPrompt(topic string, count int) string {
	var sb strings.Builder
	sb.WriteString("You are an expert at creating educational content for children aged 6-10.\n")
	fmt.Fprintf(&sb, "Generate %d multiple choice quiz questions about: %s\n\n", count, topic)
	sb.WriteString("Requirements:\n")
	sb.WriteString("- Questions must be simple, clear, and engaging for a young audience\n")
	sb.WriteString("- Each question must have exactly 4 possible answers\n")
	sb.WriteString("- Exactly one answer is correct; the other three are plausible but wrong\n")
	sb.WriteString("- correctAnswerIndex is the 0-based index of the correct answer\n")
	return sb.String()
}

func questionListSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"question": {
					Type:        genai.TypeString,
					Description: "The quiz question text.",
				},
				"options": {
					Type:        genai.TypeArray,
					Description: "Exactly four possible answers.",
					Items:       &genai.Schema{Type: genai.TypeString},
				},
				"correctAnswerIndex": {
					Type:        genai.TypeInteger,
					Description: "The index (0-3) of the correct answer in options.",
				},
			},
			Required: []string{"question", "options", "correctAnswerIndex"},
		},
	}
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty model response")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("model response contains no text")
	}
	return sb.String(), nil
}

type generatedQuestion struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
}

// parseQuestions decodes and validates the model output. All-or-nothing:
// one malformed item rejects the batch so no partial state is created.
func parseQuestions(data []byte) ([]domain.Question, error) {
	var items []generatedQuestion
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse generated questions: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("model returned no questions")
	}
	questions := make([]domain.Question, 0, len(items))
	for i, item := range items {
		q, err := domain.NewQuestion(item.Question, item.Options, item.CorrectAnswerIndex)
		if err != nil {
			return nil, fmt.Errorf("generated question %d invalid: %w", i+1, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}
