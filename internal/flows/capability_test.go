package flows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TinyShaft22/our-kitchen-sub001/internal/models"
)

func TestCanFulfillKnownIntent(t *testing.T) {
	resp := CanFulfill(&models.TurnRequest{
		Kind:        models.KindCanFulfill,
		QueryIntent: models.IntentAddGrocery,
	})
	assert.Equal(t, models.AnswerYes, resp.CanFulfill)
	assert.Empty(t, resp.Slots)
}

func TestCanFulfillUnknownIntent(t *testing.T) {
	resp := CanFulfill(&models.TurnRequest{
		Kind:        models.KindCanFulfill,
		QueryIntent: "OrderPizzaIntent",
	})
	assert.Equal(t, models.AnswerNo, resp.CanFulfill)
}

func TestCanFulfillSlotAnswers(t *testing.T) {
	resp := CanFulfill(&models.TurnRequest{
		Kind:        models.KindCanFulfill,
		QueryIntent: models.IntentAddGrocery,
		QuerySlots:  []string{models.SlotItemName, models.SlotQuantity},
		Slots: map[string]models.Slot{
			models.SlotItemName: {RawValue: "milk"},
		},
	})

	require.Len(t, resp.Slots, 2)
	assert.Equal(t, models.AnswerYes, resp.Slots[models.SlotItemName].CanUnderstand)
	assert.Equal(t, models.AnswerMaybe, resp.Slots[models.SlotQuantity].CanUnderstand)
	// Per-slot fulfillability mirrors the overall answer.
	assert.Equal(t, models.AnswerYes, resp.Slots[models.SlotItemName].CanFulfill)
	assert.Equal(t, models.AnswerYes, resp.Slots[models.SlotQuantity].CanFulfill)
}

func TestCanFulfillNeverSpeaksOrMutates(t *testing.T) {
	req := &models.TurnRequest{
		Kind:        models.KindCanFulfill,
		QueryIntent: models.IntentBrowseMeals,
	}
	resp := CanFulfill(req)

	// The pre-check answer carries no conversational payload.
	assert.NotEmpty(t, resp.CanFulfill)
	assert.Equal(t, models.IntentBrowseMeals, req.QueryIntent)
}
