package flows

import (
	"context"
	"time"

	"github.com/TinyShaft22/our-kitchen-sub001/internal/extractor"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/models"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/pantry"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/state"
)

// fakePantry is a scriptable pantry.Service.
type fakePantry struct {
	pinResult  *pantry.PinResult
	pinErr     error
	meals      []models.Meal
	mealsErr   error
	recipes    map[string]*models.Recipe
	recipeErr  error
	grocery    []models.GroceryItem
	groceryErr error
	addResult  *pantry.AddItemResult
	addErr     error
	removeErr  error
	lowResult  *pantry.MarkAsLowResult
	lowErr     error

	added    []pantry.AddItemRequest
	removed  []string
	lowCalls []lowCall
}

type lowCall struct {
	Name   string
	ItemID string
}

func (f *fakePantry) VerifyPin(_ context.Context, pin string) (*pantry.PinResult, error) {
	if f.pinErr != nil {
		return nil, f.pinErr
	}
	if f.pinResult != nil {
		return f.pinResult, nil
	}
	return &pantry.PinResult{Valid: false}, nil
}

func (f *fakePantry) GetMeals(context.Context, string) ([]models.Meal, error) {
	return f.meals, f.mealsErr
}

func (f *fakePantry) GetRecipe(_ context.Context, _ string, mealID string) (*models.Recipe, error) {
	if f.recipeErr != nil {
		return nil, f.recipeErr
	}
	if r, ok := f.recipes[mealID]; ok {
		return r, nil
	}
	return nil, pantry.ErrNotFound
}

func (f *fakePantry) GetGroceryList(context.Context, string, string) ([]models.GroceryItem, error) {
	return f.grocery, f.groceryErr
}

func (f *fakePantry) AddGroceryItem(_ context.Context, _ string, item pantry.AddItemRequest) (*pantry.AddItemResult, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	f.added = append(f.added, item)
	if f.addResult != nil {
		return f.addResult, nil
	}
	return &pantry.AddItemResult{Success: true, ItemID: "item-1"}, nil
}

func (f *fakePantry) RemoveGroceryItem(_ context.Context, _ string, name string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, name)
	return nil
}

func (f *fakePantry) MarkAsLow(_ context.Context, _ string, name, itemID string) (*pantry.MarkAsLowResult, error) {
	f.lowCalls = append(f.lowCalls, lowCall{Name: name, ItemID: itemID})
	if f.lowErr != nil {
		return nil, f.lowErr
	}
	if f.lowResult != nil {
		return f.lowResult, nil
	}
	return &pantry.MarkAsLowResult{}, nil
}

// fakeExtractor returns scripted items.
type fakeExtractor struct {
	items []extractor.Item
	err   error
}

func (f *fakeExtractor) Extract(context.Context, string) ([]extractor.Item, error) {
	return f.items, f.err
}

// testDeps builds flow deps with a fixed clock.
func testDeps(fp *fakePantry) (*Deps, time.Time) {
	now := time.Date(2026, 8, 30, 18, 0, 0, 0, time.UTC)
	deps := &Deps{
		Pantry:         fp,
		Extractor:      &fakeExtractor{},
		UndoWindow:     60 * time.Second,
		MaxPinAttempts: 3,
		Now:            func() time.Time { return now },
	}
	return deps, now
}

func linkedSession() *state.Session {
	s := &state.Session{
		SessionID:     "sess-1",
		DeviceID:      "dev-1",
		Linked:        true,
		HouseholdCode: "HH42",
	}
	s.Durable.HouseholdCode = "HH42"
	s.ClearDurableDirty()
	return s
}

func intentTurn(intent string, slots map[string]models.Slot) *models.TurnRequest {
	return &models.TurnRequest{
		Kind:      models.KindIntent,
		SessionID: "sess-1",
		DeviceID:  "dev-1",
		Intent:    intent,
		Slots:     slots,
	}
}

func rawSlot(v string) models.Slot { return models.Slot{RawValue: v} }
