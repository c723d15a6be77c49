// Package openai implements the text-correction collaborator: given a
// malformed PR number and the PR numbers already on file, it asks a chat
// model for the closest valid value and a confidence score.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/ilcdb/record-management/internal/application/port"
)

// Corrector implements port.Corrector using OpenAI chat completions.
type Corrector struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewCorrector creates a Corrector.
func NewCorrector(apiKey, model string, temperature float32, logger *zap.Logger) *Corrector {
	return &Corrector{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
		logger:      logger,
	}
}

type correctionPayload struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// Correct asks the model for the best-matching valid PR number.
func (c *Corrector) Correct(ctx context.Context, rawValue string, candidates []string) (*port.CorrectionResult, error) {
	c.logger.Debug("Requesting PR number correction", zap.String("raw_value", rawValue))

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You correct malformed purchase request numbers. A valid PR number has the form " +
					"NNNN-NN-NN (four digits, two digits, two digits, dash separated). Given a raw value and " +
					"the PR numbers already in use, respond with JSON {\"suggestion\": string, \"confidence\": number} " +
					"where suggestion is the most likely intended valid PR number and confidence is between 0 and 1. " +
					"Respond with JSON only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: c.buildPrompt(rawValue, candidates),
			},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content
	var payload correctionPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		if jsonStr := extractJSON(content); jsonStr != "" {
			err = json.Unmarshal([]byte(jsonStr), &payload)
		}
		if err != nil {
			c.logger.Error("Failed to parse correction response",
				zap.String("content", content),
				zap.Error(err))
			return nil, fmt.Errorf("failed to parse correction response: %w", err)
		}
	}

	c.logger.Info("PR number correction received",
		zap.String("raw_value", rawValue),
		zap.String("suggestion", payload.Suggestion),
		zap.Float64("confidence", payload.Confidence))

	return &port.CorrectionResult{
		Suggestion: payload.Suggestion,
		Confidence: payload.Confidence,
	}, nil
}

func (c *Corrector) buildPrompt(rawValue string, candidates []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Raw value: %q\n", rawValue)
	b.WriteString("PR numbers already in use:\n")
	if len(candidates) == 0 {
		b.WriteString("(none)\n")
	}
	for _, candidate := range candidates {
		fmt.Fprintf(&b, "- %s\n", candidate)
	}
	b.WriteString("Propose the intended valid PR number. It must not duplicate a number already in use.")
	return b.String()
}

// extractJSON pulls a JSON object out of a markdown code fence or
// surrounding prose.
func extractJSON(content string) string {
	if start := strings.Index(content, "```json"); start >= 0 {
		rest := content[start+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
	}
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		return content[start : end+1]
	}
	return ""
}

// Verify interface compliance
var _ port.Corrector = (*Corrector)(nil)
