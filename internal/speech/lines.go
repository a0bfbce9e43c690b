// Package speech centralises every spoken string. Edit this file to
// change the assistant's personality. Keep lines short and direct; the
// platform's TTS handles inflection.
package speech

import (
	"fmt"
	"strings"

	"github.com/TinyShaft22/our-kitchen-sub001/internal/models"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/state"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/steps"
)

// ── Greeting / global ────────────────────────────────────────────

func LineWelcome() string {
	return "Welcome to your kitchen assistant. You can browse meals, manage your grocery list, or start cooking."
}

func LineWelcomeReprompt() string {
	return "Try saying: what are my meals, or add milk to the grocery list."
}

func LineResumeOffer(p *state.CookingProgress) string {
	return fmt.Sprintf("Welcome back. You were cooking %s, on step %d of %d. Want to pick up where you left off?",
		p.RecipeName, p.CurrentStep, p.TotalSteps-1)
}

func LineHelp() string {
	return "You can say: what are my meals, get the recipe for a meal, start cooking, add an item to the grocery list, or mark something as running low. What would you like to do?"
}

func LineGoodbye() string {
	return "Happy cooking. Goodbye!"
}

func LineFallback() string {
	return "Sorry, I didn't catch that."
}

func LineFallbackReprompt() string {
	return "You can say help to hear what I can do."
}

// ── Apologies (top-level error handler) ──────────────────────────

func LineNetworkApology() string {
	return "Sorry, I'm having trouble reaching your household data right now. Please try again in a moment."
}

func LineGenericApology() string {
	return "Sorry, something went wrong on my end. Could you try that again?"
}

// ── Household linking ────────────────────────────────────────────

func LineAskPin() string {
	return "To get started, I need to link this device to your household. What's your four digit PIN?"
}

func LineAskPinAgain() string {
	return "I still need your four digit PIN. You can find it in the kitchen app under settings."
}

func LinePinInvalid(attemptsLeft int) string {
	if attemptsLeft == 1 {
		return "That PIN doesn't match. You have one try left. What's your PIN?"
	}
	return fmt.Sprintf("That PIN doesn't match. What's your PIN? You have %d tries left.", attemptsLeft)
}

func LineLinkGiveUp() string {
	return "That PIN doesn't match either. Please double-check it in the kitchen app and try again later."
}

func LineLinked() string {
	return "Great, this device is now linked to your household."
}

func LineAlreadyLinked() string {
	return "This device is already linked to your household."
}

// Continuations spoken right after linking succeeds, keyed by the
// pending action that was interrupted. Static by design: the user says
// the follow-up themselves.
var continuations = map[string]string{
	"browse_meals": "Now, ask me again: what are my meals?",
	"get_recipe":   "Now, ask me for that recipe again.",
	"grocery_list": "Now, ask me again for your grocery list.",
	"add_grocery":  "Now, tell me again what to add to the grocery list.",
	"mark_as_low":  "Now, tell me again what's running low.",
	"cooking":      "Now, say start cooking to begin.",
}

func LineLinkedContinuation(actionName string) string {
	if c, ok := continuations[actionName]; ok {
		return LineLinked() + " " + c
	}
	return LineLinked() + " What would you like to do?"
}

// ── Meals ────────────────────────────────────────────────────────

func LineMealList(meals []models.Meal) string {
	if len(meals) == 0 {
		return "Your meal list is empty. Add meals in the kitchen app first."
	}
	names := make([]string, len(meals))
	for i, m := range meals {
		names[i] = m.Name
	}
	return fmt.Sprintf("You have %d meals: %s. Which one would you like?", len(meals), joinWithAnd(names))
}

func LineMealNotFound(name string) string {
	return fmt.Sprintf("I couldn't find %s in your meals. Say, what are my meals, to hear the list.", name)
}

func LineBrowseFirst() string {
	return "Ask me for your meals first, then pick one."
}

func LineRecipeDetail(recipe *models.Recipe) string {
	return fmt.Sprintf("%s serves %d and needs %d ingredients. Say start cooking when you're ready, or ask for another meal.",
		recipe.Name, recipe.Servings, len(recipe.Ingredients))
}

// ── Cooking ──────────────────────────────────────────────────────

func LineCookingStart(recipeName string, ingredients steps.Step) string {
	return fmt.Sprintf("Let's cook %s. First, the ingredients: %s. Say next when you're ready.",
		recipeName, speakable(ingredients.Content))
}

func LineStep(s steps.Step) string {
	if s.IsIngredients {
		return fmt.Sprintf("%s: %s", s.Title, speakable(s.Content))
	}
	return fmt.Sprintf("%s. %s", s.Title, s.Content)
}

// speakable flattens bulleted display content into a spoken list.
func speakable(content string) string {
	return strings.ReplaceAll(strings.ReplaceAll(content, "• ", ""), "\n", ", ")
}

func LineStepReprompt() string {
	return "Say next, previous, or repeat."
}

func LineCookingDone(recipeName string) string {
	return fmt.Sprintf("That was the last step. Enjoy your %s!", recipeName)
}

func LineAlreadyAtStart() string {
	return "You're at the beginning already. " + LineStepReprompt()
}

func LineNotCooking() string {
	return "You're not cooking anything right now. Say start cooking to begin."
}

func LineCookingExit() string {
	return "Okay, I've stopped the cooking session."
}

func LineResumeRestored(recipeName string, s steps.Step) string {
	return fmt.Sprintf("Resuming %s. %s", recipeName, LineStep(s))
}

func LineResumeRecipeGone(recipeName string) string {
	return fmt.Sprintf("I couldn't find %s anymore, it may have been removed. What else can I do for you?", recipeName)
}

func LineResumeDeclined() string {
	return "No problem. What would you like to do instead?"
}

// ── Grocery list ─────────────────────────────────────────────────

func LineGroceryList(items []models.GroceryItem) string {
	if len(items) == 0 {
		return "Your grocery list is empty."
	}
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return fmt.Sprintf("You have %d items on the list: %s.", len(items), joinWithAnd(names))
}

func LineItemAdded(name string) string {
	return fmt.Sprintf("I've added %s to your grocery list. Say undo if that was a mistake.", name)
}

func LineItemsAdded(names []string) string {
	if len(names) == 1 {
		return LineItemAdded(names[0])
	}
	return fmt.Sprintf("I've added %d items to your grocery list: %s.", len(names), joinWithAnd(names))
}

func LineNoItemsHeard() string {
	return "I didn't catch any items in that. Try listing them, like: milk, eggs, and bread."
}

func LineWhichItem() string {
	return "Which item?"
}

func LineItemRemoved(name string) string {
	return fmt.Sprintf("I've taken %s off your grocery list.", name)
}

func LineItemNotOnList(name string) string {
	return fmt.Sprintf("I couldn't find %s on your grocery list.", name)
}

func LineUndoDone(name string) string {
	return fmt.Sprintf("Okay, I've removed %s again.", name)
}

func LineUndoTooLate() string {
	return "Sorry, it's too late to undo that one. You can remove it by name instead."
}

func LineNothingToUndo() string {
	return "There's nothing recent to undo."
}

// ── Mark as low / disambiguation / confirmation ──────────────────

func LineMarkedLow(name string) string {
	return fmt.Sprintf("Got it, %s is running low. Should I add it to your grocery list?", name)
}

func LineItemUnknownOffer(name string) string {
	return fmt.Sprintf("I couldn't find %s in your kitchen. Want me to add it to the grocery list anyway?", name)
}

func LineDisambiguate(original string, matches []models.ItemMatch) string {
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.Name
	}
	return fmt.Sprintf("I found %d items matching %s: %s. Which one did you mean?",
		len(matches), original, joinWithOr(names))
}

func LineDisambiguateReprompt() string {
	return "You can say the name, or say the first one, the second one, and so on."
}

func LineSuggestionDeclined() string {
	return "Okay, I won't add it."
}

func LineYesNoConfused() string {
	return "Sorry, was that a yes or a no?"
}

// ── helpers ──────────────────────────────────────────────────────

func joinWithAnd(parts []string) string { return joinWith(parts, "and") }
func joinWithOr(parts []string) string  { return joinWith(parts, "or") }

func joinWith(parts []string, conj string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " " + conj + " " + parts[1]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + ", " + conj + " " + parts[len(parts)-1]
	}
}
