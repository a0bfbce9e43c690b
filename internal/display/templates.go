// Package display assembles visual directives: a named template plus a
// datasource payload. The payload is opaque to this core; the platform's
// renderer owns the layout.
package display

import (
	"github.com/TinyShaft22/our-kitchen-sub001/internal/models"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/steps"
)

// Template names known to the renderer.
const (
	TemplateMealList    = "MealListTemplate"
	TemplateRecipe      = "RecipeDetailTemplate"
	TemplateCookingStep = "CookingStepTemplate"
	TemplateGroceryList = "GroceryListTemplate"
)

// MealList builds the meal browsing screen.
func MealList(meals []models.Meal) *models.Directive {
	items := make([]map[string]any, len(meals))
	for i, m := range meals {
		items[i] = map[string]any{
			"id":            m.ID,
			"primaryText":   m.Name,
			"secondaryText": m.Description,
		}
	}
	return &models.Directive{
		Template: TemplateMealList,
		Datasources: map[string]any{
			"title": "Your Meals",
			"items": items,
		},
	}
}

// RecipeDetail builds the single-recipe screen with a start-cooking
// touch target.
func RecipeDetail(recipe *models.Recipe) *models.Directive {
	return &models.Directive{
		Template: TemplateRecipe,
		Datasources: map[string]any{
			"recipeId":     recipe.ID,
			"title":        recipe.Name,
			"servings":     recipe.Servings,
			"ingredients":  recipe.Ingredients,
			"instructions": recipe.Instructions,
		},
	}
}

// CookingStep builds the current-step screen during cooking mode.
func CookingStep(recipeName string, step steps.Step, total int) *models.Directive {
	return &models.Directive{
		Template: TemplateCookingStep,
		Datasources: map[string]any{
			"recipeName": recipeName,
			"stepTitle":  step.Title,
			"stepText":   step.Content,
			"stepNumber": step.Number,
			"totalSteps": total - 1, // ingredients step is not counted
		},
	}
}

// GroceryList builds the grocery list screen.
func GroceryList(items []models.GroceryItem) *models.Directive {
	rows := make([]map[string]any, len(items))
	for i, it := range items {
		rows[i] = map[string]any{
			"id":       it.ID,
			"name":     it.Name,
			"quantity": it.Quantity,
			"store":    it.Store,
		}
	}
	return &models.Directive{
		Template: TemplateGroceryList,
		Datasources: map[string]any{
			"title": "Grocery List",
			"items": rows,
		},
	}
}
