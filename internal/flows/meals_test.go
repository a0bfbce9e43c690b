package flows

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TinyShaft22/our-kitchen-sub001/internal/models"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/speech"
)

func weekMeals() []models.Meal {
	return []models.Meal{
		{ID: "m1", Name: "Taco Night"},
		{ID: "m2", Name: "Pasta"},
		{ID: "m3", Name: "Stir Fry"},
	}
}

func TestBrowseMealsRemembersListForFollowUps(t *testing.T) {
	fp := &fakePantry{meals: weekMeals()}
	deps, _ := testDeps(fp)
	flow := NewMealsFlow(deps)
	session := linkedSession()

	resp, err := flow.Handle(context.Background(), intentTurn(models.IntentBrowseMeals, nil), session)
	require.NoError(t, err)

	assert.Contains(t, resp.Speech, "3 meals")
	assert.Contains(t, resp.Speech, "Taco Night")
	assert.Len(t, session.LastMealList, 3)
}

func TestBrowseMealsEmptyHousehold(t *testing.T) {
	deps, _ := testDeps(&fakePantry{})
	flow := NewMealsFlow(deps)
	session := linkedSession()

	resp, err := flow.Handle(context.Background(), intentTurn(models.IntentBrowseMeals, nil), session)
	require.NoError(t, err)
	assert.Contains(t, resp.Speech, "empty")
}

func TestBrowseMealsAttachesDisplayDirective(t *testing.T) {
	fp := &fakePantry{meals: weekMeals()}
	deps, _ := testDeps(fp)
	flow := NewMealsFlow(deps)

	turn := intentTurn(models.IntentBrowseMeals, nil)
	turn.Capabilities = []string{models.CapabilityDisplay}

	resp, err := flow.Handle(context.Background(), turn, linkedSession())
	require.NoError(t, err)
	require.NotNil(t, resp.Directive)

	// No display capability, no directive.
	resp, err = flow.Handle(context.Background(), intentTurn(models.IntentBrowseMeals, nil), linkedSession())
	require.NoError(t, err)
	assert.Nil(t, resp.Directive)
}

func TestGetRecipeByNameSetsCurrentRecipe(t *testing.T) {
	fp := &fakePantry{
		meals:   weekMeals(),
		recipes: map[string]*models.Recipe{"m2": pastaRecipe()},
	}
	deps, _ := testDeps(fp)
	flow := NewMealsFlow(deps)

	session := linkedSession()
	session.LastMealList = weekMeals()

	turn := intentTurn(models.IntentGetRecipe, map[string]models.Slot{
		models.SlotMealName: rawSlot("pasta"),
	})
	resp, err := flow.Handle(context.Background(), turn, session)
	require.NoError(t, err)

	require.NotNil(t, session.CurrentRecipe)
	assert.Equal(t, "r1", session.CurrentRecipe.ID)
	assert.Contains(t, resp.Speech, "serves 2")
}

func TestGetRecipeByOrdinal(t *testing.T) {
	fp := &fakePantry{recipes: map[string]*models.Recipe{"m3": pastaRecipe()}}
	deps, _ := testDeps(fp)
	flow := NewMealsFlow(deps)

	session := linkedSession()
	session.LastMealList = weekMeals()

	turn := intentTurn(models.IntentSelect, map[string]models.Slot{
		models.SlotOrdinal: rawSlot("the third one"),
	})
	_, err := flow.Handle(context.Background(), turn, session)
	require.NoError(t, err)
	require.NotNil(t, session.CurrentRecipe)
}

func TestGetRecipeBeforeBrowsingGivesGuidance(t *testing.T) {
	deps, _ := testDeps(&fakePantry{})
	flow := NewMealsFlow(deps)

	turn := intentTurn(models.IntentGetRecipe, map[string]models.Slot{
		models.SlotMealName: rawSlot("pasta"),
	})
	resp, err := flow.Handle(context.Background(), turn, linkedSession())
	require.NoError(t, err)
	assert.Equal(t, speech.LineBrowseFirst(), resp.Speech)
}

func TestGetRecipeUnknownNameFromList(t *testing.T) {
	deps, _ := testDeps(&fakePantry{})
	flow := NewMealsFlow(deps)

	session := linkedSession()
	session.LastMealList = weekMeals()

	turn := intentTurn(models.IntentGetRecipe, map[string]models.Slot{
		models.SlotMealName: rawSlot("sushi"),
	})
	resp, err := flow.Handle(context.Background(), turn, session)
	require.NoError(t, err)
	assert.Equal(t, speech.LineMealNotFound("sushi"), resp.Speech)
	assert.Nil(t, session.CurrentRecipe)
}

func TestSelectMealByTouchEvent(t *testing.T) {
	fp := &fakePantry{recipes: map[string]*models.Recipe{"m1": pastaRecipe()}}
	deps, _ := testDeps(fp)
	flow := NewMealsFlow(deps)

	session := linkedSession()
	session.LastMealList = weekMeals()

	req := &models.TurnRequest{
		Kind:      models.KindEvent,
		SessionID: "sess-1",
		DeviceID:  "dev-1",
		EventArgs: []string{models.EventSelectMeal, "m1"},
	}
	require.True(t, flow.CanHandle(req, session))

	_, err := flow.Handle(context.Background(), req, session)
	require.NoError(t, err)
	require.NotNil(t, session.CurrentRecipe)
}

func TestSelectMealTouchWithStaleList(t *testing.T) {
	deps, _ := testDeps(&fakePantry{})
	flow := NewMealsFlow(deps)

	req := &models.TurnRequest{
		Kind:      models.KindEvent,
		SessionID: "sess-1",
		DeviceID:  "dev-1",
		EventArgs: []string{models.EventSelectMeal, "m9"},
	}
	resp, err := flow.Handle(context.Background(), req, linkedSession())
	require.NoError(t, err)
	assert.Equal(t, speech.LineBrowseFirst(), resp.Speech)
}

func TestBrowseMealsUnlinkedEntersPinCollection(t *testing.T) {
	deps, _ := testDeps(&fakePantry{})
	flow := NewMealsFlow(deps)

	s := linkedSession()
	s.Linked = false
	s.HouseholdCode = ""

	resp, err := flow.Handle(context.Background(), intentTurn(models.IntentBrowseMeals, nil), s)
	require.NoError(t, err)

	assert.Equal(t, speech.LineAskPin(), resp.Speech)
	require.NotNil(t, s.PendingAction)
	assert.Equal(t, "browse_meals", s.PendingAction.Name)
}
