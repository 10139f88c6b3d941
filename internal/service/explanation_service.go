package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/coursexam/config"
	"github.com/lshigami/coursexam/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

var ErrExplanationUnavailable = errors.New("explanation service is not configured")

// ExplanationService writes a short explanation for a wrongly answered
// question that has none stored.
type ExplanationService interface {
	Enabled() bool
	Explain(ctx context.Context, question *model.Question, selected int) (string, error)
}

// contentGenerator is the part of *genai.GenerativeModel we use.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type geminiExplanationService struct {
	model contentGenerator
}

func NewExplanationService(cfg *config.Config) (ExplanationService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Wrong answers without a stored explanation will get none.")
		return &geminiExplanationService{}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	m := client.GenerativeModel("gemini-1.5-flash")
	m.SetTemperature(0.2)
	return &geminiExplanationService{model: m}, nil
}

func (s *geminiExplanationService) Enabled() bool { return s.model != nil }

func (s *geminiExplanationService) Explain(ctx context.Context, question *model.Question, selected int) (string, error) {
	if s.model == nil {
		return "", ErrExplanationUnavailable
	}

	resp, err := s.model.GenerateContent(ctx, genai.Text(buildExplanationPrompt(question, selected)))
	if err != nil {
		log.Error().Err(err).Str("questionID", question.ID).Msg("Gemini API error while explaining answer")
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return text, nil
}

func buildExplanationPrompt(q *model.Question, selected int) string {
	var sb strings.Builder
	sb.WriteString("You are a patient course instructor. A learner answered a multiple-choice question incorrectly.\n")
	sb.WriteString("In at most three sentences, explain why the correct option is right and why the learner's choice is not.\n")
	sb.WriteString("Do not repeat the question.\n\n")
	sb.WriteString("Question:\n")
	sb.WriteString(q.Prompt)
	sb.WriteString("\n\nOptions:\n")
	for _, o := range q.Options {
		fmt.Fprintf(&sb, "%d. %s\n", o.Position, o.Text)
	}
	fmt.Fprintf(&sb, "\nCorrect option: %d\n", q.Answer)
	if selected > 0 {
		fmt.Fprintf(&sb, "Learner's choice: %d\n", selected)
	} else {
		sb.WriteString("Learner's choice: none\n")
	}
	return sb.String()
}
