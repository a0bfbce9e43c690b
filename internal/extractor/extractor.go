// Package extractor turns a free-form spoken transcript ("we need milk,
// eggs and some bread for the weekend") into structured grocery items.
// It is a stateless single-turn LLM call with no session implications.
package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// Item is one grocery item pulled out of a transcript.
type Item struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
	Store    string `json:"store,omitempty"`
	Category string `json:"category,omitempty"`
}

// Extractor is the interface the grocery flow consumes. Tests swap in a
// fake.
type Extractor interface {
	Extract(ctx context.Context, transcript string) ([]Item, error)
}

const extractPrompt = `You extract grocery items from a spoken sentence.

RULES:
1. Return ONLY items the speaker wants to buy or add to a list
2. Normalize names to lowercase but keep the speaker's plurality ("Milk" -> "milk", "eggs" stays "eggs")
3. Include a quantity only when the speaker said one
4. Do not invent stores or categories the speaker didn't mention

RESPONSE FORMAT:
Respond with a valid JSON array in this exact format, nothing else:
[{"name": "...", "quantity": "...", "store": "...", "category": "..."}]

Transcript:
%s`

// Compile-time interface check.
var _ Extractor = (*LLMExtractor)(nil)

// LLMExtractor implements Extractor on any langchaingo model.
type LLMExtractor struct {
	model llms.Model
}

// New creates an extractor backed by the given model.
func New(model llms.Model) *LLMExtractor {
	return &LLMExtractor{model: model}
}

// Extract runs the single-turn extraction call.
func (e *LLMExtractor) Extract(ctx context.Context, transcript string) ([]Item, error) {
	prompt := fmt.Sprintf(extractPrompt, transcript)

	content, err := llms.GenerateFromSinglePrompt(ctx, e.model, prompt,
		llms.WithTemperature(0.1),
		llms.WithMaxTokens(500),
	)
	if err != nil {
		return nil, fmt.Errorf("extraction call failed: %w", err)
	}

	return parseItems(content)
}

// parseItems pulls the JSON array out of the model output. Models often
// wrap JSON in prose or code fences, so we cut at the outermost
// brackets instead of trusting the whole response.
func parseItems(content string) ([]Item, error) {
	jsonContent := extractJSONArray(content)
	if jsonContent == "" {
		return nil, fmt.Errorf("no valid JSON array found in response")
	}

	var items []Item
	if err := json.Unmarshal([]byte(jsonContent), &items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	// Drop entries without a name rather than failing the batch.
	out := items[:0]
	for _, it := range items {
		if strings.TrimSpace(it.Name) != "" {
			out = append(out, it)
		}
	}
	return out, nil
}

func extractJSONArray(content string) string {
	start := strings.Index(content, "[")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(content, "]")
	if end == -1 || end <= start {
		return ""
	}
	return content[start : end+1]
}
