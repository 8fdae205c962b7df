package answer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// AnswerSynthesizer produces a natural-language answer for a question
// given retrieved context. Its contract is "always returns a string":
// failures are communicated in-band because the caller sits behind an
// interactive endpoint where some response outranks strict errors.
type AnswerSynthesizer interface {
	Synthesize(ctx context.Context, question, contextText, model string) string
}

// FallbackNotice is appended to answers produced by the secondary model.
const FallbackNotice = "(Note: Fallback to Flash-Lite due to quota limits.)"

type Synthesizer struct {
	client        *genai.Client
	fallbackModel string

	// generate is the single generation call; swapped out in tests.
	generate func(ctx context.Context, model, prompt string) (string, error)
}

func NewSynthesizer(ctx context.Context, apiKey, fallbackModel string) (*Synthesizer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	s := &Synthesizer{
		client:        client,
		fallbackModel: fallbackModel,
	}
	s.generate = s.generateContent
	return s, nil
}

// BuildPrompt embeds the retrieved context and the question into a single prompt.
func BuildPrompt(question, contextText string) string {
	return "You are a helpful assistant. Use the following context from a PDF to answer the user's question.\n\n" +
		"Context:\n" + contextText + "\n\n" +
		"Question: " + question + "\n" +
		"Answer:"
}

func (s *Synthesizer) Synthesize(ctx context.Context, question, contextText, model string) string {
	prompt := BuildPrompt(question, contextText)

	text, err := s.generate(ctx, model, prompt)
	if err == nil {
		return strings.TrimSpace(text)
	}

	if !isQuotaExhausted(err) {
		return fmt.Sprintf("Sorry, an error occurred with the AI service: %v", err)
	}

	if model == s.fallbackModel {
		return "Sorry, the AI service is currently rate-limited. Please try again later. (Flash-Lite quota exceeded.)"
	}

	// Quota error on the primary: one shot at the lower-tier model, with
	// a visible note so the caller knows the answer is degraded.
	text, err = s.generate(ctx, s.fallbackModel, prompt)
	if err != nil {
		return "Sorry, the AI service is currently rate-limited. Please try again later. (Both Flash and Flash-Lite quota exceeded.)"
	}
	return strings.TrimSpace(text) + "\n\n" + FallbackNotice
}

func (s *Synthesizer) generateContent(ctx context.Context, model, prompt string) (string, error) {
	resp, err := s.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func isQuotaExhausted(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests
	}
	msg := err.Error()
	return strings.Contains(msg, "RESOURCE_EXHAUSTED") || strings.Contains(msg, "429")
}
