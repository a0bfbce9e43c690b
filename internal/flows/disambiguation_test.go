package flows

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TinyShaft22/our-kitchen-sub001/internal/models"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/pantry"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/speech"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/state"
)

func flourMatches() []models.ItemMatch {
	return []models.ItemMatch{
		{ID: "f1", Name: "Flour A"},
		{ID: "f2", Name: "Flour B"},
		{ID: "f3", Name: "Flour C"},
	}
}

func pendingLowSession() *state.Session {
	s := linkedSession()
	s.PendingMarkAsLow = &state.PendingMarkAsLow{
		OriginalItem: "flour",
		Matches:      flourMatches(),
	}
	return s
}

func TestDisambiguationResolvesOrdinalPhrase(t *testing.T) {
	fp := &fakePantry{lowResult: &pantry.MarkAsLowResult{Success: true}}
	deps, _ := testDeps(fp)
	flow := NewDisambiguationFlow(deps)
	session := pendingLowSession()

	turn := intentTurn(models.IntentSelect, map[string]models.Slot{
		models.SlotOrdinal: rawSlot("the second one"),
	})
	resp, err := flow.Handle(context.Background(), turn, session)
	require.NoError(t, err)

	require.Len(t, fp.lowCalls, 1)
	assert.Equal(t, "Flour B", fp.lowCalls[0].Name)
	assert.Equal(t, "f2", fp.lowCalls[0].ItemID)
	assert.Nil(t, session.PendingMarkAsLow)
	require.NotNil(t, session.PendingGrocery)
	assert.True(t, session.PendingGrocery.FromLow)
	assert.Equal(t, speech.LineMarkedLow("Flour B"), resp.Speech)
}

func TestDisambiguationResolvesBySubstring(t *testing.T) {
	fp := &fakePantry{lowResult: &pantry.MarkAsLowResult{Success: true}}
	deps, _ := testDeps(fp)
	flow := NewDisambiguationFlow(deps)
	session := pendingLowSession()

	turn := intentTurn(models.IntentMarkAsLow, map[string]models.Slot{
		models.SlotItemName: rawSlot("flour c"),
	})
	_, err := flow.Handle(context.Background(), turn, session)
	require.NoError(t, err)

	require.Len(t, fp.lowCalls, 1)
	assert.Equal(t, "Flour C", fp.lowCalls[0].Name)
}

func TestDisambiguationNameBeatsOrdinal(t *testing.T) {
	fp := &fakePantry{lowResult: &pantry.MarkAsLowResult{Success: true}}
	deps, _ := testDeps(fp)
	flow := NewDisambiguationFlow(deps)
	session := pendingLowSession()

	// "flour a" parses as neither ordinal nor... actually it names a
	// candidate, which must win over any ordinal reading of other slots.
	turn := intentTurn(models.IntentSelect, map[string]models.Slot{
		models.SlotItemName: rawSlot("flour a"),
	})
	_, err := flow.Handle(context.Background(), turn, session)
	require.NoError(t, err)

	require.Len(t, fp.lowCalls, 1)
	assert.Equal(t, "Flour A", fp.lowCalls[0].Name)
}

func TestDisambiguationRepromptsOnNoMatch(t *testing.T) {
	deps, _ := testDeps(&fakePantry{})
	flow := NewDisambiguationFlow(deps)
	session := pendingLowSession()

	turn := intentTurn(models.IntentSelect, map[string]models.Slot{
		models.SlotItemName: rawSlot("the ninth one"),
	})
	resp, err := flow.Handle(context.Background(), turn, session)
	require.NoError(t, err)

	// The pending set survives a failed resolution.
	require.NotNil(t, session.PendingMarkAsLow)
	assert.Contains(t, resp.Speech, "Flour A")
	assert.Contains(t, resp.Speech, "Which one did you mean?")
}

func TestDisambiguationClaimsIntentsOnlyWhilePending(t *testing.T) {
	deps, _ := testDeps(&fakePantry{})
	flow := NewDisambiguationFlow(deps)

	assert.True(t, flow.CanHandle(intentTurn(models.IntentBrowseMeals, nil), pendingLowSession()))
	assert.False(t, flow.CanHandle(intentTurn(models.IntentBrowseMeals, nil), linkedSession()))
}

func TestOrdinalIndexParsing(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"first", 0, true},
		{"the first one", 0, true},
		{"the second one", 1, true},
		{"2", 1, true},
		{"third", 2, true},
		{"number three", 2, true},
		{"the ninth one", 0, false},
		{"flour", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ordinalIndex(tt.in)
		assert.Equal(t, tt.ok, ok, "in=%q", tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, "in=%q", tt.in)
		}
	}
}

func TestGroceryConfirmYesAddsSuggestedItem(t *testing.T) {
	fp := &fakePantry{}
	deps, now := testDeps(fp)
	flow := NewGroceryConfirmFlow(deps)

	session := linkedSession()
	session.PendingGrocery = &state.GrocerySuggestion{
		Name:     "whole wheat flour",
		Store:    "costco",
		Category: "baking",
		FromLow:  true,
	}

	resp, err := flow.Handle(context.Background(), intentTurn(models.IntentYes, nil), session)
	require.NoError(t, err)

	require.Len(t, fp.added, 1)
	assert.Equal(t, "whole wheat flour", fp.added[0].Name)
	assert.Equal(t, "costco", fp.added[0].Store)
	assert.Equal(t, "baking", fp.added[0].Category)

	assert.Nil(t, session.PendingGrocery)
	require.NotNil(t, session.LastAddedItem)
	assert.Equal(t, now.UnixMilli(), session.LastAddedItem.TimestampMs)
	assert.Equal(t, speech.LineItemAdded("whole wheat flour"), resp.Speech)
}

func TestGroceryConfirmNoDiscardsSuggestion(t *testing.T) {
	fp := &fakePantry{}
	deps, _ := testDeps(fp)
	flow := NewGroceryConfirmFlow(deps)

	session := linkedSession()
	session.PendingGrocery = &state.GrocerySuggestion{Name: "flour"}

	resp, err := flow.Handle(context.Background(), intentTurn(models.IntentNo, nil), session)
	require.NoError(t, err)

	assert.Empty(t, fp.added)
	assert.Nil(t, session.PendingGrocery)
	assert.Equal(t, speech.LineSuggestionDeclined(), resp.Speech)
}

func TestGroceryConfirmOnlyClaimsYesNo(t *testing.T) {
	deps, _ := testDeps(&fakePantry{})
	flow := NewGroceryConfirmFlow(deps)

	session := linkedSession()
	session.PendingGrocery = &state.GrocerySuggestion{Name: "flour"}

	assert.True(t, flow.CanHandle(intentTurn(models.IntentYes, nil), session))
	assert.True(t, flow.CanHandle(intentTurn(models.IntentNo, nil), session))
	assert.False(t, flow.CanHandle(intentTurn(models.IntentBrowseMeals, nil), session))
	assert.False(t, flow.CanHandle(intentTurn(models.IntentYes, nil), linkedSession()))
}
