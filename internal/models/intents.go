package models

// Intent names in the platform interaction model.
const (
	IntentLinkHousehold = "LinkHouseholdIntent"
	IntentProvidePin    = "ProvidePinIntent"

	IntentBrowseMeals = "BrowseMealsIntent"
	IntentGetRecipe   = "GetRecipeIntent"

	IntentStartCooking = "StartCookingIntent"
	IntentExitCooking  = "ExitCookingIntent"

	IntentGroceryList   = "GroceryListIntent"
	IntentAddGrocery    = "AddGroceryItemIntent"
	IntentAddMultiple   = "AddMultipleItemsIntent"
	IntentRemoveGrocery = "RemoveGroceryItemIntent"
	IntentCheckOffItem  = "CheckOffItemIntent"
	IntentMarkAsLow     = "MarkAsLowIntent"
	IntentUndo          = "UndoIntent"

	IntentSelect = "SelectIntent"

	// Platform builtins.
	IntentYes      = "Builtin.YesIntent"
	IntentNo       = "Builtin.NoIntent"
	IntentNext     = "Builtin.NextIntent"
	IntentPrevious = "Builtin.PreviousIntent"
	IntentRepeat   = "Builtin.RepeatIntent"
	IntentHelp     = "Builtin.HelpIntent"
	IntentStop     = "Builtin.StopIntent"
	IntentCancel   = "Builtin.CancelIntent"
	IntentFallback = "Builtin.FallbackIntent"
)

// Slot names.
const (
	SlotPin        = "pin"
	SlotMealName   = "mealName"
	SlotItemName   = "itemName"
	SlotQuantity   = "quantity"
	SlotStore      = "store"
	SlotCategory   = "category"
	SlotTranscript = "transcript"
	SlotOrdinal    = "ordinal"
)

// Touch event names carried in EventArgs[0].
const (
	EventSelectMeal   = "selectMeal"
	EventStartCooking = "startCooking"
)
