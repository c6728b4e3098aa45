package recipe

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"mealplanner/internal/ingredient"
	"mealplanner/internal/meal"
)

// ImportResult holds a recipe definition extracted from an HTML page,
// plus the ingredient lines that could not be matched against the
// registry. The caller reviews skipped lines and fills in properties
// and tags before the recipe joins the catalog.
type ImportResult struct {
	File    *File
	Skipped []string
}

// ImportHTML extracts a recipe definition from an HTML document. The
// title is taken from the first h1 (falling back to the page title);
// ingredient lines are read from list items under an element whose
// class or itemprop marks it as the ingredient list. Lines with a
// parseable leading amount and unit become measured quantities;
// remaining lines matching a registered ingredient fall back to
// presence-only entries.
func ImportHTML(r io.Reader, registry *ingredient.Registry) (*ImportResult, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse recipe HTML: %w", err)
	}

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title == "" {
		return nil, fmt.Errorf("recipe HTML has no title")
	}

	lines := ingredientLines(doc)
	if len(lines) == 0 {
		return nil, fmt.Errorf("recipe HTML %q has no ingredient list", title)
	}

	result := &ImportResult{
		File: &File{
			Name: title,
			// Imported recipes default to no meat; reviewed by hand.
			Properties: map[string]string{string(meal.PropertyMeat): meal.MeatNone},
		},
	}

	for _, line := range lines {
		entry, ok := parseIngredientLine(line, registry)
		if !ok {
			result.Skipped = append(result.Skipped, line)
			continue
		}
		result.File.Ingredients = append(result.File.Ingredients, entry)
	}

	if len(result.File.Ingredients) == 0 {
		return nil, fmt.Errorf("no ingredient line of %q matched the registry", title)
	}
	return result, nil
}

func ingredientLines(doc *goquery.Document) []string {
	selectors := []string{
		"[itemprop=recipeIngredient]",
		"ul.ingredients li",
		".ingredients li",
	}

	var lines []string
	for _, selector := range selectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); text != "" {
				lines = append(lines, text)
			}
		})
		if len(lines) > 0 {
			break
		}
	}
	return lines
}

// parseIngredientLine turns a free-text line like "200 g Chorizo" or
// "2 units Onion" into a file entry. A line without a usable amount and
// unit prefix still matches when its full text is a registered
// ingredient name, as a presence-only entry.
func parseIngredientLine(line string, registry *ingredient.Registry) (FileIngredient, bool) {
	fields := strings.Fields(line)

	if len(fields) >= 3 {
		if amount, err := strconv.ParseFloat(fields[0], 64); err == nil && amount > 0 {
			if unit, err := ingredient.UnitFromString(fields[1]); err == nil && unit != ingredient.UnitBool {
				name := strings.Join(fields[2:], " ")
				if ing, err := registry.FromName(name); err == nil {
					return FileIngredient{Name: ing.Name, Unit: unit.Singular(), Amount: amount}, true
				}
			}
		}
	}

	if ing, err := registry.FromName(strings.TrimSpace(line)); err == nil {
		return FileIngredient{Name: ing.Name, Unit: "bool"}, true
	}
	return FileIngredient{}, false
}
