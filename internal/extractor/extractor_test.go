package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel returns a canned completion.
type fakeModel struct {
	response string
	err      error
	prompt   string
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(messages) > 0 && len(messages[0].Parts) > 0 {
		if text, ok := messages[0].Parts[0].(llms.TextContent); ok {
			f.prompt = text.Text
		}
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.prompt = prompt
	return f.response, nil
}

func TestExtractParsesCleanJSON(t *testing.T) {
	model := &fakeModel{response: `[{"name": "milk", "quantity": "2"}, {"name": "eggs"}]`}
	ext := New(model)

	items, err := ext.Extract(context.Background(), "we need two milk and eggs")
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "milk", items[0].Name)
	assert.Equal(t, "2", items[0].Quantity)
	assert.Equal(t, "eggs", items[1].Name)
}

func TestExtractIncludesTranscriptInPrompt(t *testing.T) {
	model := &fakeModel{response: `[]`}
	ext := New(model)

	_, err := ext.Extract(context.Background(), "some bread from costco")
	require.NoError(t, err)
	assert.Contains(t, model.prompt, "some bread from costco")
}

func TestExtractUnwrapsProseAndCodeFences(t *testing.T) {
	model := &fakeModel{response: "Here are the items:\n```json\n[{\"name\": \"bread\", \"store\": \"costco\"}]\n```\nLet me know if you need more."}
	ext := New(model)

	items, err := ext.Extract(context.Background(), "bread from costco")
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "bread", items[0].Name)
	assert.Equal(t, "costco", items[0].Store)
}

func TestExtractDropsNamelessEntries(t *testing.T) {
	model := &fakeModel{response: `[{"name": "milk"}, {"name": "  "}, {"quantity": "3"}]`}
	ext := New(model)

	items, err := ext.Extract(context.Background(), "milk and um")
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "milk", items[0].Name)
}

func TestExtractErrorsWithoutJSONArray(t *testing.T) {
	model := &fakeModel{response: "I'm sorry, I couldn't find any items."}
	ext := New(model)

	_, err := ext.Extract(context.Background(), "mumble")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid JSON array")
}

func TestExtractPropagatesModelFailure(t *testing.T) {
	model := &fakeModel{err: errors.New("rate limited")}
	ext := New(model)

	_, err := ext.Extract(context.Background(), "milk")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}
