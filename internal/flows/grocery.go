package flows

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/TinyShaft22/our-kitchen-sub001/internal/display"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/models"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/pantry"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/speech"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/state"
)

// GroceryFlow manages the grocery list: reading it, single and bulk
// adds, removal, the undo window, and the mark-as-low entry point.
type GroceryFlow struct {
	*Deps
}

func NewGroceryFlow(deps *Deps) *GroceryFlow {
	return &GroceryFlow{Deps: deps}
}

func (f *GroceryFlow) Name() string { return "grocery" }

func (f *GroceryFlow) CanHandle(req *models.TurnRequest, _ *state.Session) bool {
	return isIntent(req,
		models.IntentGroceryList,
		models.IntentAddGrocery,
		models.IntentAddMultiple,
		models.IntentRemoveGrocery,
		models.IntentCheckOffItem,
		models.IntentMarkAsLow,
		models.IntentUndo,
	)
}

func (f *GroceryFlow) Handle(ctx context.Context, req *models.TurnRequest, session *state.Session) (*models.TurnResponse, error) {
	switch req.Intent {
	case models.IntentGroceryList:
		return f.list(ctx, req, session)
	case models.IntentAddGrocery:
		return f.add(ctx, req, session)
	case models.IntentAddMultiple:
		return f.addMultiple(ctx, req, session)
	case models.IntentRemoveGrocery, models.IntentCheckOffItem:
		// Check-off currently deletes the item outright; kept as a
		// deletion-based placeholder until an in-cart flag exists.
		return f.remove(ctx, req, session)
	case models.IntentMarkAsLow:
		return f.markAsLow(ctx, req, session)
	default:
		return f.undo(ctx, session)
	}
}

func (f *GroceryFlow) list(ctx context.Context, req *models.TurnRequest, session *state.Session) (*models.TurnResponse, error) {
	if resp, ok := f.requireLink(req, session, "grocery_list"); !ok {
		return resp, nil
	}

	items, err := f.Pantry.GetGroceryList(ctx, session.HouseholdCode, req.SlotValue(models.SlotStore))
	if err != nil {
		return nil, fmt.Errorf("fetching grocery list: %w", err)
	}

	resp := &models.TurnResponse{
		Speech:   speech.LineGroceryList(items),
		Reprompt: speech.LineWelcomeReprompt(),
	}
	if len(items) > 0 && req.HasCapability(models.CapabilityDisplay) {
		resp.Directive = display.GroceryList(items)
	}
	return resp, nil
}

func (f *GroceryFlow) add(ctx context.Context, req *models.TurnRequest, session *state.Session) (*models.TurnResponse, error) {
	if resp, ok := f.requireLink(req, session, "add_grocery"); !ok {
		return resp, nil
	}

	name := req.SlotValue(models.SlotItemName)
	if name == "" {
		// Required slot missing: re-prompt, no state change.
		return &models.TurnResponse{
			Speech:   speech.LineWhichItem(),
			Reprompt: speech.LineWhichItem(),
		}, nil
	}

	result, err := f.Pantry.AddGroceryItem(ctx, session.HouseholdCode, pantry.AddItemRequest{
		Name:     name,
		Quantity: req.SlotValue(models.SlotQuantity),
		Store:    req.SlotValue(models.SlotStore),
		Category: req.SlotValue(models.SlotCategory),
	})
	if err != nil {
		return nil, fmt.Errorf("adding %s to grocery list: %w", name, err)
	}

	session.LastAddedItem = &state.AddedItem{
		Name:        name,
		ID:          result.ItemID,
		TimestampMs: f.Now().UnixMilli(),
	}

	return &models.TurnResponse{
		Speech:   speech.LineItemAdded(name),
		Reprompt: speech.LineFallbackReprompt(),
	}, nil
}

func (f *GroceryFlow) addMultiple(ctx context.Context, req *models.TurnRequest, session *state.Session) (*models.TurnResponse, error) {
	if resp, ok := f.requireLink(req, session, "add_grocery"); !ok {
		return resp, nil
	}

	transcript := req.SlotValue(models.SlotTranscript)
	if transcript == "" {
		return &models.TurnResponse{
			Speech:   speech.LineNoItemsHeard(),
			Reprompt: speech.LineNoItemsHeard(),
		}, nil
	}

	items, err := f.Extractor.Extract(ctx, transcript)
	if err != nil {
		return nil, fmt.Errorf("extracting items from transcript: %w", err)
	}
	if len(items) == 0 {
		return &models.TurnResponse{
			Speech:   speech.LineNoItemsHeard(),
			Reprompt: speech.LineNoItemsHeard(),
		}, nil
	}

	var added []string
	var lastID string
	for _, item := range items {
		result, err := f.Pantry.AddGroceryItem(ctx, session.HouseholdCode, pantry.AddItemRequest{
			Name:     item.Name,
			Quantity: item.Quantity,
			Store:    item.Store,
			Category: item.Category,
		})
		if err != nil {
			// Partial failure: keep what made it, report the rest.
			log.Printf("bulk add: failed to add %q: %v", item.Name, err)
			continue
		}
		added = append(added, item.Name)
		lastID = result.ItemID
	}

	if len(added) == 0 {
		return nil, fmt.Errorf("bulk add: none of %d items could be added", len(items))
	}

	// Undo covers the whole turn only when it added a single item.
	if len(added) == 1 {
		session.LastAddedItem = &state.AddedItem{
			Name:        added[0],
			ID:          lastID,
			TimestampMs: f.Now().UnixMilli(),
		}
	} else {
		session.LastAddedItem = nil
	}

	return &models.TurnResponse{
		Speech:   speech.LineItemsAdded(added),
		Reprompt: speech.LineFallbackReprompt(),
	}, nil
}

func (f *GroceryFlow) remove(ctx context.Context, req *models.TurnRequest, session *state.Session) (*models.TurnResponse, error) {
	if resp, ok := f.requireLink(req, session, "grocery_list"); !ok {
		return resp, nil
	}

	name := req.SlotValue(models.SlotItemName)
	if name == "" {
		return &models.TurnResponse{
			Speech:   speech.LineWhichItem(),
			Reprompt: speech.LineWhichItem(),
		}, nil
	}

	err := f.Pantry.RemoveGroceryItem(ctx, session.HouseholdCode, name)
	if errors.Is(err, pantry.ErrNotFound) {
		return &models.TurnResponse{
			Speech:   speech.LineItemNotOnList(name),
			Reprompt: speech.LineFallbackReprompt(),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("removing %s from grocery list: %w", name, err)
	}

	return &models.TurnResponse{
		Speech:   speech.LineItemRemoved(name),
		Reprompt: speech.LineFallbackReprompt(),
	}, nil
}

func (f *GroceryFlow) markAsLow(ctx context.Context, req *models.TurnRequest, session *state.Session) (*models.TurnResponse, error) {
	if resp, ok := f.requireLink(req, session, "mark_as_low"); !ok {
		return resp, nil
	}

	name := req.SlotValue(models.SlotItemName)
	if name == "" {
		return &models.TurnResponse{
			Speech:   speech.LineWhichItem(),
			Reprompt: speech.LineWhichItem(),
		}, nil
	}

	result, err := f.Pantry.MarkAsLow(ctx, session.HouseholdCode, name, "")
	if errors.Is(err, pantry.ErrNotFound) {
		result = &pantry.MarkAsLowResult{}
	} else if err != nil {
		return nil, fmt.Errorf("marking %s as low: %w", name, err)
	}

	switch {
	case result.NeedsDisambiguation && len(result.Matches) > 1:
		session.PendingMarkAsLow = &state.PendingMarkAsLow{
			OriginalItem: name,
			Matches:      result.Matches,
		}
		return &models.TurnResponse{
			Speech:   speech.LineDisambiguate(name, result.Matches),
			Reprompt: speech.LineDisambiguateReprompt(),
		}, nil

	case result.Success:
		suggestion := &state.GrocerySuggestion{Name: name, FromLow: true}
		if result.MarkedItem != nil {
			suggestion.Name = result.MarkedItem.Name
			suggestion.Store = result.MarkedItem.Store
			suggestion.Category = result.MarkedItem.Category
		}
		session.PendingGrocery = suggestion
		return &models.TurnResponse{
			Speech:   speech.LineMarkedLow(suggestion.Name),
			Reprompt: speech.LineYesNoConfused(),
		}, nil

	default:
		// Unknown item: offer to add it anyway.
		session.PendingGrocery = &state.GrocerySuggestion{
			Name:     name,
			Store:    req.SlotValue(models.SlotStore),
			Category: req.SlotValue(models.SlotCategory),
		}
		return &models.TurnResponse{
			Speech:   speech.LineItemUnknownOffer(name),
			Reprompt: speech.LineYesNoConfused(),
		}, nil
	}
}

func (f *GroceryFlow) undo(ctx context.Context, session *state.Session) (*models.TurnResponse, error) {
	last := session.LastAddedItem
	if last == nil {
		return &models.TurnResponse{
			Speech:   speech.LineNothingToUndo(),
			Reprompt: speech.LineFallbackReprompt(),
		}, nil
	}
	session.LastAddedItem = nil

	if f.Now().UnixMilli()-last.TimestampMs > f.UndoWindow.Milliseconds() {
		return &models.TurnResponse{
			Speech:   speech.LineUndoTooLate(),
			Reprompt: speech.LineFallbackReprompt(),
		}, nil
	}

	if err := f.Pantry.RemoveGroceryItem(ctx, session.HouseholdCode, last.Name); err != nil && !errors.Is(err, pantry.ErrNotFound) {
		return nil, fmt.Errorf("undoing add of %s: %w", last.Name, err)
	}

	return &models.TurnResponse{
		Speech:   speech.LineUndoDone(last.Name),
		Reprompt: speech.LineFallbackReprompt(),
	}, nil
}
