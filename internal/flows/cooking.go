package flows

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/TinyShaft22/our-kitchen-sub001/internal/display"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/models"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/pantry"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/speech"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/state"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/steps"
)

// CookingFlow drives step-by-step cooking navigation: entry, next,
// previous, repeat and exit, with the durable bookmark kept in sync so
// another session can resume.
type CookingFlow struct {
	*Deps
}

func NewCookingFlow(deps *Deps) *CookingFlow {
	return &CookingFlow{Deps: deps}
}

func (f *CookingFlow) Name() string { return "cooking" }

func (f *CookingFlow) CanHandle(req *models.TurnRequest, _ *state.Session) bool {
	return isIntent(req,
		models.IntentStartCooking,
		models.IntentExitCooking,
		models.IntentNext,
		models.IntentPrevious,
		models.IntentRepeat,
	) || isEvent(req, models.EventStartCooking)
}

func (f *CookingFlow) Handle(ctx context.Context, req *models.TurnRequest, session *state.Session) (*models.TurnResponse, error) {
	switch {
	case isIntent(req, models.IntentStartCooking) || isEvent(req, models.EventStartCooking):
		return f.start(ctx, req, session)
	case isIntent(req, models.IntentExitCooking):
		return f.exit(session), nil
	case isIntent(req, models.IntentNext):
		return f.next(req, session), nil
	case isIntent(req, models.IntentPrevious):
		return f.previous(req, session), nil
	default:
		return f.repeat(req, session), nil
	}
}

func (f *CookingFlow) start(ctx context.Context, req *models.TurnRequest, session *state.Session) (*models.TurnResponse, error) {
	if resp, ok := f.requireLink(req, session, "cooking"); !ok {
		return resp, nil
	}

	recipe, resp, err := f.resolveRecipe(ctx, req, session)
	if err != nil {
		return nil, err
	}
	if resp != nil {
		return resp, nil
	}

	parsed := steps.Parse(recipe.Instructions, recipe.Ingredients)

	session.CookingMode = true
	session.CookingSteps = parsed
	session.CookingStep = 0
	session.CookingRecipe = recipe
	session.PendingResume = nil
	session.SetCookingProgress(state.CookingProgress{
		RecipeID:    recipe.ID,
		RecipeName:  recipe.Name,
		CurrentStep: 0,
		TotalSteps:  len(parsed),
		TimestampMs: f.Now().UnixMilli(),
	})

	out := &models.TurnResponse{
		Speech:   speech.LineCookingStart(recipe.Name, parsed[0]),
		Reprompt: speech.LineStepReprompt(),
	}
	if req.HasCapability(models.CapabilityDisplay) {
		out.Directive = display.CookingStep(recipe.Name, parsed[0], len(parsed))
	}
	return out, nil
}

// resolveRecipe picks the cooking target: an explicit meal name matched
// against the last browsed list, a touch event's meal id, or the
// currently displayed recipe. A guidance response (second return) means
// no target could be resolved; that is not an error.
func (f *CookingFlow) resolveRecipe(ctx context.Context, req *models.TurnRequest, session *state.Session) (*models.Recipe, *models.TurnResponse, error) {
	if name := req.SlotValue(models.SlotMealName); name != "" {
		meal := matchMeal(name, session.LastMealList)
		if meal == nil {
			return nil, &models.TurnResponse{
				Speech:   speech.LineMealNotFound(name),
				Reprompt: speech.LineWelcomeReprompt(),
			}, nil
		}
		return f.fetchRecipe(ctx, session, meal.ID, meal.Name)
	}

	if isEvent(req, models.EventStartCooking) && len(req.EventArgs) > 1 {
		return f.fetchRecipe(ctx, session, req.EventArgs[1], "that meal")
	}

	if session.CurrentRecipe != nil {
		return session.CurrentRecipe, nil, nil
	}

	return nil, &models.TurnResponse{
		Speech:   speech.LineBrowseFirst(),
		Reprompt: speech.LineWelcomeReprompt(),
	}, nil
}

func (f *CookingFlow) fetchRecipe(ctx context.Context, session *state.Session, mealID, spokenName string) (*models.Recipe, *models.TurnResponse, error) {
	recipe, err := f.Pantry.GetRecipe(ctx, session.HouseholdCode, mealID)
	if errors.Is(err, pantry.ErrNotFound) {
		return nil, &models.TurnResponse{
			Speech:   speech.LineMealNotFound(spokenName),
			Reprompt: speech.LineWelcomeReprompt(),
		}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("fetching recipe for meal %s: %w", mealID, err)
	}
	return recipe, nil, nil
}

func (f *CookingFlow) next(req *models.TurnRequest, session *state.Session) *models.TurnResponse {
	if !session.CookingMode {
		return notCooking()
	}

	last := len(session.CookingSteps) - 1
	idx := session.CookingStep + 1
	if idx > last {
		idx = last
	}
	step := session.CookingSteps[idx]
	recipeName := session.CookingRecipe.Name

	if idx == last {
		// Terminal transition: the last step is spoken and cooking
		// mode is cleared from both tiers in the same turn.
		session.ClearCooking()
		session.ClearCookingProgress()
		return &models.TurnResponse{
			Speech:   speech.LineStep(step) + " " + speech.LineCookingDone(recipeName),
			Reprompt: speech.LineWelcomeReprompt(),
		}
	}

	session.CookingStep = idx
	f.updateProgress(session)
	return f.stepResponse(req, session, step)
}

func (f *CookingFlow) previous(req *models.TurnRequest, session *state.Session) *models.TurnResponse {
	if !session.CookingMode {
		return notCooking()
	}

	if session.CookingStep == 0 {
		return &models.TurnResponse{
			Speech:   speech.LineAlreadyAtStart(),
			Reprompt: speech.LineStepReprompt(),
		}
	}

	session.CookingStep--
	f.updateProgress(session)
	return f.stepResponse(req, session, session.CookingSteps[session.CookingStep])
}

func (f *CookingFlow) repeat(req *models.TurnRequest, session *state.Session) *models.TurnResponse {
	if !session.CookingMode {
		return notCooking()
	}
	// No state mutation on repeat.
	return f.stepResponse(req, session, session.CookingSteps[session.CookingStep])
}

func (f *CookingFlow) exit(session *state.Session) *models.TurnResponse {
	// Unconditional: clears both tiers even if nothing was in flight.
	session.ClearCooking()
	session.ClearCookingProgress()
	return &models.TurnResponse{
		Speech:   speech.LineCookingExit(),
		Reprompt: speech.LineWelcomeReprompt(),
	}
}

func (f *CookingFlow) updateProgress(session *state.Session) {
	session.SetCookingProgress(state.CookingProgress{
		RecipeID:    session.CookingRecipe.ID,
		RecipeName:  session.CookingRecipe.Name,
		CurrentStep: session.CookingStep,
		TotalSteps:  len(session.CookingSteps),
		TimestampMs: f.Now().UnixMilli(),
	})
}

func (f *CookingFlow) stepResponse(req *models.TurnRequest, session *state.Session, step steps.Step) *models.TurnResponse {
	resp := &models.TurnResponse{
		Speech:   speech.LineStep(step),
		Reprompt: speech.LineStepReprompt(),
	}
	if req.HasCapability(models.CapabilityDisplay) {
		resp.Directive = display.CookingStep(session.CookingRecipe.Name, step, len(session.CookingSteps))
	}
	return resp
}

func notCooking() *models.TurnResponse {
	return &models.TurnResponse{
		Speech:   speech.LineNotCooking(),
		Reprompt: speech.LineWelcomeReprompt(),
	}
}

// matchMeal finds a meal by case-insensitive substring match in either
// direction.
func matchMeal(name string, meals []models.Meal) *models.Meal {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}
	for i, m := range meals {
		candidate := strings.ToLower(m.Name)
		if strings.Contains(candidate, needle) || strings.Contains(needle, candidate) {
			return &meals[i]
		}
	}
	return nil
}
