// Package steps turns free-text recipe instructions into discrete,
// navigable cooking steps. The parser is deterministic and has no
// dependencies; parsed steps live only in turn state and are never
// written back to the pantry service.
package steps

import (
	"fmt"
	"regexp"
	"strings"
)

// Step is one navigable unit of a cooking session. Step 0 is always the
// ingredient rundown.
type Step struct {
	Number        int    `json:"number"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	IsIngredients bool   `json:"is_ingredients"`
}

// IngredientsTitle is the title of step 0.
const IngredientsTitle = "Ingredients"

// noIngredients is spoken when a recipe has no ingredient list.
const noIngredients = "No ingredients listed for this recipe."

// shortTextLimit: unnumbered instruction text shorter than this is kept
// as a single step instead of being split.
const shortTextLimit = 20

var (
	headingLine = regexp.MustCompile(`(?m)^\s*#+.*$`)
	stepMarker  = regexp.MustCompile(`(?:^|\s)\d{1,2}[.)]\s+`)
	leadMarker  = regexp.MustCompile(`^\d{1,2}[.)]\s*`)
	blankLines  = regexp.MustCompile(`\n\s*\n`)
)

// Parse converts instruction text plus an ingredient list into ordered
// steps. The result always opens with the ingredients step, followed by
// the instruction steps numbered from 1.
func Parse(instructions string, ingredients []string) []Step {
	result := []Step{ingredientStep(ingredients)}

	cleaned := strings.TrimSpace(headingLine.ReplaceAllString(instructions, ""))

	// Explicit numbering wins regardless of length; the short-text rule
	// only applies to prose.
	contents := splitNumbered(cleaned)
	if contents == nil {
		if len(cleaned) < shortTextLimit {
			return append(result, makeStep(1, cleaned))
		}
		contents = splitParagraphs(cleaned)
	}
	if contents == nil {
		contents = []string{cleaned}
	}

	for i, content := range contents {
		result = append(result, makeStep(i+1, content))
	}
	return result
}

func ingredientStep(ingredients []string) Step {
	content := noIngredients
	if len(ingredients) > 0 {
		var b strings.Builder
		for i, ing := range ingredients {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("• ")
			b.WriteString(ing)
		}
		content = b.String()
	}
	return Step{
		Number:        0,
		Title:         IngredientsTitle,
		Content:       content,
		IsIngredients: true,
	}
}

func makeStep(n int, content string) Step {
	return Step{
		Number:  n,
		Title:   fmt.Sprintf("Step %d", n),
		Content: content,
	}
}

// splitNumbered splits on "1." / "2)" style markers. Returns nil when
// the text carries no markers at all. Text before the first marker is
// preamble ("Instructions:") and is dropped.
func splitNumbered(text string) []string {
	locs := stepMarker.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	var out []string
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		segment := strings.TrimSpace(text[loc[0]:end])
		segment = strings.TrimSpace(leadMarker.ReplaceAllString(segment, ""))
		if segment != "" {
			out = append(out, segment)
		}
	}
	return out
}

// splitParagraphs splits on blank-line-separated paragraphs. Returns nil
// when there is at most one paragraph.
func splitParagraphs(text string) []string {
	parts := blankLines.Split(text, -1)
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) <= 1 {
		return nil
	}
	return out
}
