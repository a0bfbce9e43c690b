package flows

import (
	"context"
	"errors"
	"fmt"

	"github.com/TinyShaft22/our-kitchen-sub001/internal/display"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/models"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/pantry"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/speech"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/state"
)

// MealsFlow handles browsing the household meal list and pulling up a
// recipe, by voice or by touch.
type MealsFlow struct {
	*Deps
}

func NewMealsFlow(deps *Deps) *MealsFlow {
	return &MealsFlow{Deps: deps}
}

func (f *MealsFlow) Name() string { return "meals" }

func (f *MealsFlow) CanHandle(req *models.TurnRequest, _ *state.Session) bool {
	return isIntent(req, models.IntentBrowseMeals, models.IntentGetRecipe, models.IntentSelect) ||
		isEvent(req, models.EventSelectMeal)
}

func (f *MealsFlow) Handle(ctx context.Context, req *models.TurnRequest, session *state.Session) (*models.TurnResponse, error) {
	if isIntent(req, models.IntentBrowseMeals) {
		return f.browse(ctx, req, session)
	}
	return f.detail(ctx, req, session)
}

func (f *MealsFlow) browse(ctx context.Context, req *models.TurnRequest, session *state.Session) (*models.TurnResponse, error) {
	if resp, ok := f.requireLink(req, session, "browse_meals"); !ok {
		return resp, nil
	}

	meals, err := f.Pantry.GetMeals(ctx, session.HouseholdCode)
	if err != nil {
		return nil, fmt.Errorf("fetching meals: %w", err)
	}
	session.LastMealList = meals

	resp := &models.TurnResponse{
		Speech:   speech.LineMealList(meals),
		Reprompt: speech.LineWelcomeReprompt(),
	}
	if len(meals) > 0 && req.HasCapability(models.CapabilityDisplay) {
		resp.Directive = display.MealList(meals)
	}
	return resp, nil
}

func (f *MealsFlow) detail(ctx context.Context, req *models.TurnRequest, session *state.Session) (*models.TurnResponse, error) {
	if resp, ok := f.requireLink(req, session, "get_recipe"); !ok {
		return resp, nil
	}

	meal, resp := f.resolveMeal(req, session)
	if resp != nil {
		return resp, nil
	}

	recipe, err := f.Pantry.GetRecipe(ctx, session.HouseholdCode, meal.ID)
	if errors.Is(err, pantry.ErrNotFound) {
		return &models.TurnResponse{
			Speech:   speech.LineMealNotFound(meal.Name),
			Reprompt: speech.LineWelcomeReprompt(),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching recipe for %s: %w", meal.ID, err)
	}

	session.CurrentRecipe = recipe

	out := &models.TurnResponse{
		Speech:   speech.LineRecipeDetail(recipe),
		Reprompt: speech.LineWelcomeReprompt(),
	}
	if req.HasCapability(models.CapabilityDisplay) {
		out.Directive = display.RecipeDetail(recipe)
	}
	return out, nil
}

// resolveMeal picks a meal from a touch event, a spoken name, or an
// ordinal against the last browsed list.
func (f *MealsFlow) resolveMeal(req *models.TurnRequest, session *state.Session) (*models.Meal, *models.TurnResponse) {
	if isEvent(req, models.EventSelectMeal) && len(req.EventArgs) > 1 {
		id := req.EventArgs[1]
		for i, m := range session.LastMealList {
			if m.ID == id {
				return &session.LastMealList[i], nil
			}
		}
		// Touched a tile from a list this session no longer holds.
		return nil, &models.TurnResponse{
			Speech:   speech.LineBrowseFirst(),
			Reprompt: speech.LineWelcomeReprompt(),
		}
	}

	if len(session.LastMealList) == 0 {
		return nil, &models.TurnResponse{
			Speech:   speech.LineBrowseFirst(),
			Reprompt: speech.LineWelcomeReprompt(),
		}
	}

	if name := req.SlotValue(models.SlotMealName); name != "" {
		if meal := matchMeal(name, session.LastMealList); meal != nil {
			return meal, nil
		}
		return nil, &models.TurnResponse{
			Speech:   speech.LineMealNotFound(name),
			Reprompt: speech.LineWelcomeReprompt(),
		}
	}

	if ord := req.SlotValue(models.SlotOrdinal); ord != "" {
		if idx, ok := ordinalIndex(ord); ok && idx < len(session.LastMealList) {
			return &session.LastMealList[idx], nil
		}
	}

	return nil, &models.TurnResponse{
		Speech:   speech.LineMealList(session.LastMealList),
		Reprompt: speech.LineWelcomeReprompt(),
	}
}
