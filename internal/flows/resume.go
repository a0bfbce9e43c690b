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
	"github.com/TinyShaft22/our-kitchen-sub001/internal/steps"
)

// ResumeConfirmFlow handles the yes/no after a cross-session resume
// offer. The offer only exists when hydration found a durable cooking
// bookmark younger than the resume window.
type ResumeConfirmFlow struct {
	*Deps
}

func NewResumeConfirmFlow(deps *Deps) *ResumeConfirmFlow {
	return &ResumeConfirmFlow{Deps: deps}
}

func (f *ResumeConfirmFlow) Name() string { return "resume-confirm" }

func (f *ResumeConfirmFlow) CanHandle(req *models.TurnRequest, session *state.Session) bool {
	return session.PendingResume != nil && isIntent(req, models.IntentYes, models.IntentNo)
}

func (f *ResumeConfirmFlow) Handle(ctx context.Context, req *models.TurnRequest, session *state.Session) (*models.TurnResponse, error) {
	progress := session.PendingResume
	session.PendingResume = nil

	if req.Intent == models.IntentNo {
		// The durable bookmark stays; it expires on its own.
		return &models.TurnResponse{
			Speech:   speech.LineResumeDeclined(),
			Reprompt: speech.LineWelcomeReprompt(),
		}, nil
	}

	recipe, err := f.Pantry.GetRecipe(ctx, session.HouseholdCode, progress.RecipeID)
	if errors.Is(err, pantry.ErrNotFound) {
		// The recipe was removed since last session. Report it and
		// drop the bookmark; not a fault.
		session.ClearCookingProgress()
		return &models.TurnResponse{
			Speech:   speech.LineResumeRecipeGone(progress.RecipeName),
			Reprompt: speech.LineWelcomeReprompt(),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("re-fetching recipe %s: %w", progress.RecipeID, err)
	}

	parsed := steps.Parse(recipe.Instructions, recipe.Ingredients)

	// The recipe may have been edited; clamp the saved position to the
	// re-parsed step list.
	current := progress.CurrentStep
	if current > len(parsed)-1 {
		current = len(parsed) - 1
	}
	if current < 0 {
		current = 0
	}

	session.CookingMode = true
	session.CookingSteps = parsed
	session.CookingStep = current
	session.CookingRecipe = recipe
	session.SetCookingProgress(state.CookingProgress{
		RecipeID:    recipe.ID,
		RecipeName:  recipe.Name,
		CurrentStep: current,
		TotalSteps:  len(parsed),
		TimestampMs: f.Now().UnixMilli(),
	})

	resp := &models.TurnResponse{
		Speech:   speech.LineResumeRestored(recipe.Name, parsed[current]),
		Reprompt: speech.LineStepReprompt(),
	}
	if req.HasCapability(models.CapabilityDisplay) {
		resp.Directive = display.CookingStep(recipe.Name, parsed[current], len(parsed))
	}
	return resp, nil
}
