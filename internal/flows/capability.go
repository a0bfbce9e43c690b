package flows

import "github.com/TinyShaft22/our-kitchen-sub001/internal/models"

// fulfillableIntents is the static whitelist behind the capability
// pre-check. Only intents the handler chain actually implements.
var fulfillableIntents = map[string]bool{
	models.IntentLinkHousehold: true,
	models.IntentProvidePin:    true,
	models.IntentBrowseMeals:   true,
	models.IntentGetRecipe:     true,
	models.IntentStartCooking:  true,
	models.IntentExitCooking:   true,
	models.IntentGroceryList:   true,
	models.IntentAddGrocery:    true,
	models.IntentAddMultiple:   true,
	models.IntentRemoveGrocery: true,
	models.IntentCheckOffItem:  true,
	models.IntentMarkAsLow:     true,
	models.IntentUndo:          true,
	models.IntentSelect:        true,
}

// CanFulfill answers a capability pre-check query. Stateless and
// side-effect-free by contract: no state store, no external calls, no
// speech. Per-slot answers mirror the overall answer; a slot counts as
// understandable only if it arrived with a value.
func CanFulfill(req *models.TurnRequest) *models.CanFulfillResponse {
	overall := models.AnswerNo
	if fulfillableIntents[req.QueryIntent] {
		overall = models.AnswerYes
	}

	resp := &models.CanFulfillResponse{CanFulfill: overall}
	if len(req.QuerySlots) == 0 {
		return resp
	}

	resp.Slots = make(map[string]models.SlotAnswer, len(req.QuerySlots))
	for _, name := range req.QuerySlots {
		understand := models.AnswerMaybe
		if req.SlotValue(name) != "" {
			understand = models.AnswerYes
		}
		resp.Slots[name] = models.SlotAnswer{
			CanUnderstand: understand,
			CanFulfill:    overall,
		}
	}
	return resp
}
