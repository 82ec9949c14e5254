// Package gemini implements the text capability against the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"github.com/hrforge/talentd/internal/ai"
)

const defaultModel = "gemini-2.5-flash"

const classifyPromptTemplate = `Classify the sentiment of this progress check-in from an intern or employee:

"{{TEXT}}"

Respond with JSON only: {"label": "positive|neutral|negative", "confidence": 0.0-1.0}`

// Client wraps the Google GenAI client behind the ai.Capability contract.
type Client struct {
	client    *genai.Client
	modelName string
}

var _ ai.Capability = (*Client)(nil)

// New creates a Client configured for the Gemini API backend.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Client{client: client, modelName: model}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.modelName
}

// GenerateText sends the prompt to Gemini and returns the joined textual response.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("%w: gemini client is not initialized", ai.ErrUnavailable)
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("%w: generate content: %v", ai.ErrUnavailable, err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", fmt.Errorf("%w: gemini api returned empty response", ai.ErrUnavailable)
	}

	return output, nil
}

// ClassifyText asks Gemini for a sentiment judgment on the text and parses
// the JSON reply.
func (c *Client) ClassifyText(ctx context.Context, text string) (ai.Classification, error) {
	prompt := strings.ReplaceAll(classifyPromptTemplate, "{{TEXT}}", strings.TrimSpace(text))

	raw, err := c.GenerateText(ctx, prompt)
	if err != nil {
		return ai.Classification{}, err
	}

	result, err := ParseClassification(raw)
	if err != nil {
		return ai.Classification{}, fmt.Errorf("%w: %v", ai.ErrUnavailable, err)
	}
	return result, nil
}

// ParseClassification extracts a label/confidence pair from a model reply.
// The reply may be wrapped in markdown code fences.
func ParseClassification(raw string) (ai.Classification, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return ai.Classification{}, fmt.Errorf("parse classification response: %w", err)
	}

	label := coerceString(data["label"])
	if label == "" {
		label = coerceString(data["sentiment"])
	}
	if label == "" {
		return ai.Classification{}, errors.New("classification response has no label")
	}

	confidence := coerceFloat(data["confidence"])
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return ai.Classification{
		Label:      strings.ToLower(label),
		Confidence: confidence,
	}, nil
}

// extractJSON strips markdown fences that models often wrap around JSON.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	default:
		return ""
	}
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
