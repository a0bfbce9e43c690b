package flows

import (
	"context"
	"fmt"
	"strings"

	"github.com/TinyShaft22/our-kitchen-sub001/internal/models"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/pantry"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/speech"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/state"
)

// ordinalWords maps normalized ordinal and small cardinal tokens to a
// zero-based index. Deliberately bounded: open-ended numeral parsing is
// not attempted.
var ordinalWords = map[string]int{
	"first": 0, "1st": 0, "one": 0, "1": 0,
	"second": 1, "2nd": 1, "two": 1, "2": 1,
	"third": 2, "3rd": 2, "three": 2, "3": 2,
}

// ordinalIndex parses phrases like "the second one", "2", "third".
func ordinalIndex(value string) (int, bool) {
	norm := strings.ToLower(strings.TrimSpace(value))
	norm = strings.TrimPrefix(norm, "the ")
	norm = strings.TrimSuffix(norm, " one")
	if idx, ok := ordinalWords[norm]; ok {
		return idx, true
	}
	for _, field := range strings.Fields(norm) {
		if idx, ok := ordinalWords[field]; ok {
			return idx, true
		}
	}
	return 0, false
}

// DisambiguationFlow intercepts the turn after an ambiguous mark-as-low
// request. It must be registered ahead of every generic intent handler:
// while the pending match set exists, ordinals and item names belong to
// it.
type DisambiguationFlow struct {
	*Deps
}

func NewDisambiguationFlow(deps *Deps) *DisambiguationFlow {
	return &DisambiguationFlow{Deps: deps}
}

func (f *DisambiguationFlow) Name() string { return "disambiguation" }

func (f *DisambiguationFlow) CanHandle(req *models.TurnRequest, session *state.Session) bool {
	return session.PendingMarkAsLow != nil && req.Kind == models.KindIntent
}

func (f *DisambiguationFlow) Handle(ctx context.Context, req *models.TurnRequest, session *state.Session) (*models.TurnResponse, error) {
	pending := session.PendingMarkAsLow
	match, ok := resolveMatch(req, pending.Matches)
	if !ok {
		// Neither a name nor an ordinal: same option list again.
		return &models.TurnResponse{
			Speech:   speech.LineDisambiguate(pending.OriginalItem, pending.Matches),
			Reprompt: speech.LineDisambiguateReprompt(),
		}, nil
	}

	result, err := f.Pantry.MarkAsLow(ctx, session.HouseholdCode, match.Name, match.ID)
	if err != nil {
		return nil, fmt.Errorf("marking %s as low: %w", match.Name, err)
	}
	session.PendingMarkAsLow = nil

	name := match.Name
	suggestion := &state.GrocerySuggestion{Name: name, FromLow: true}
	if result.MarkedItem != nil {
		suggestion.Name = result.MarkedItem.Name
		suggestion.Store = result.MarkedItem.Store
		suggestion.Category = result.MarkedItem.Category
		name = result.MarkedItem.Name
	}
	session.PendingGrocery = suggestion

	return &models.TurnResponse{
		Speech:   speech.LineMarkedLow(name),
		Reprompt: speech.LineYesNoConfused(),
	}, nil
}

// resolveMatch applies the resolution order: any slot raw value matched
// as a substring (either direction) against the candidate names, then
// an ordinal or small cardinal indexed into the set.
func resolveMatch(req *models.TurnRequest, matches []models.ItemMatch) (models.ItemMatch, bool) {
	for _, slot := range req.Slots {
		raw := strings.ToLower(strings.TrimSpace(slot.RawValue))
		if raw == "" {
			continue
		}
		for _, m := range matches {
			name := strings.ToLower(m.Name)
			if strings.Contains(name, raw) || strings.Contains(raw, name) {
				return m, true
			}
		}
	}

	for _, slot := range req.Slots {
		if slot.RawValue == "" {
			continue
		}
		if idx, ok := ordinalIndex(slot.RawValue); ok && idx < len(matches) {
			return matches[idx], true
		}
	}

	return models.ItemMatch{}, false
}

// GroceryConfirmFlow intercepts the yes/no turn after a grocery-add
// suggestion was staged, ahead of any other yes/no consumer.
type GroceryConfirmFlow struct {
	*Deps
}

func NewGroceryConfirmFlow(deps *Deps) *GroceryConfirmFlow {
	return &GroceryConfirmFlow{Deps: deps}
}

func (f *GroceryConfirmFlow) Name() string { return "grocery-confirm" }

func (f *GroceryConfirmFlow) CanHandle(req *models.TurnRequest, session *state.Session) bool {
	return session.PendingGrocery != nil && isIntent(req, models.IntentYes, models.IntentNo)
}

func (f *GroceryConfirmFlow) Handle(ctx context.Context, req *models.TurnRequest, session *state.Session) (*models.TurnResponse, error) {
	suggestion := session.PendingGrocery
	session.PendingGrocery = nil

	if req.Intent == models.IntentNo {
		return &models.TurnResponse{
			Speech:   speech.LineSuggestionDeclined(),
			Reprompt: speech.LineFallbackReprompt(),
		}, nil
	}

	result, err := f.Pantry.AddGroceryItem(ctx, session.HouseholdCode, pantry.AddItemRequest{
		Name:     suggestion.Name,
		Store:    suggestion.Store,
		Category: suggestion.Category,
	})
	if err != nil {
		return nil, fmt.Errorf("adding %s to grocery list: %w", suggestion.Name, err)
	}

	session.LastAddedItem = &state.AddedItem{
		Name:        suggestion.Name,
		ID:          result.ItemID,
		TimestampMs: f.Now().UnixMilli(),
	}

	return &models.TurnResponse{
		Speech:   speech.LineItemAdded(suggestion.Name),
		Reprompt: speech.LineFallbackReprompt(),
	}, nil
}
