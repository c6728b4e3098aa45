package recipe

import (
	"strings"
	"testing"
)

const recipePage = `<!DOCTYPE html>
<html>
<head><title>Somebody's Food Blog</title></head>
<body>
	<h1>Chorizo Bake</h1>
	<ul class="ingredients">
		<li>200 g Chorizo</li>
		<li>2 units Onion</li>
		<li>Parmesan</li>
		<li>a generous glug of olive oil</li>
	</ul>
</body>
</html>`

func TestImportHTML(t *testing.T) {
	result, err := ImportHTML(strings.NewReader(recipePage), testRegistry())
	if err != nil {
		t.Fatalf("Expected import to succeed, got %v", err)
	}

	if result.File.Name != "Chorizo Bake" {
		t.Errorf("Expected title from h1, got %q", result.File.Name)
	}
	if result.File.Properties["meat"] != "none" {
		t.Errorf("Expected imported recipe to default to meat none, got %q", result.File.Properties["meat"])
	}

	if len(result.File.Ingredients) != 3 {
		t.Fatalf("Expected 3 matched ingredients, got %d: %+v", len(result.File.Ingredients), result.File.Ingredients)
	}

	chorizo := result.File.Ingredients[0]
	if chorizo.Name != "Chorizo" || chorizo.Unit != "gram" || chorizo.Amount != 200 {
		t.Errorf("Expected measured Chorizo line, got %+v", chorizo)
	}

	onion := result.File.Ingredients[1]
	if onion.Name != "Onion" || onion.Unit != "unit" || onion.Amount != 2 {
		t.Errorf("Expected measured Onion line, got %+v", onion)
	}

	// A bare registered name falls back to a presence-only entry.
	parmesan := result.File.Ingredients[2]
	if parmesan.Name != "Parmesan" || parmesan.Unit != "bool" {
		t.Errorf("Expected presence-only Parmesan line, got %+v", parmesan)
	}

	if len(result.Skipped) != 1 || !strings.Contains(result.Skipped[0], "olive oil") {
		t.Errorf("Expected the unmatched line to be reported as skipped, got %v", result.Skipped)
	}

	// The imported definition must survive the normal load path.
	if _, err := result.File.ToMeal(testRegistry()); err != nil {
		t.Errorf("Expected imported recipe to build a meal, got %v", err)
	}
}

func TestImportHTMLTitleFallback(t *testing.T) {
	page := `<html>
<head><title>Quick Dal</title></head>
<body><div class="ingredients"><ul><li>2 units Onion</li></ul></div></body>
</html>`

	result, err := ImportHTML(strings.NewReader(page), testRegistry())
	if err != nil {
		t.Fatalf("Expected import to succeed, got %v", err)
	}
	if result.File.Name != "Quick Dal" {
		t.Errorf("Expected title fallback, got %q", result.File.Name)
	}
}

func TestImportHTMLMicrodata(t *testing.T) {
	page := `<html>
<body>
	<h1>Marked Up Stew</h1>
	<span itemprop="recipeIngredient">200 g Chorizo</span>
	<span itemprop="recipeIngredient">Onion</span>
</body>
</html>`

	result, err := ImportHTML(strings.NewReader(page), testRegistry())
	if err != nil {
		t.Fatalf("Expected import to succeed, got %v", err)
	}
	if len(result.File.Ingredients) != 2 {
		t.Fatalf("Expected 2 ingredients from microdata, got %d", len(result.File.Ingredients))
	}
}

func TestImportHTMLErrors(t *testing.T) {
	t.Run("NoTitle", func(t *testing.T) {
		page := `<html><body><ul class="ingredients"><li>Onion</li></ul></body></html>`
		if _, err := ImportHTML(strings.NewReader(page), testRegistry()); err == nil {
			t.Fatal("Expected an error for missing title, got nil")
		}
	})

	t.Run("NoIngredientList", func(t *testing.T) {
		page := `<html><body><h1>Just Prose</h1><p>Cook things.</p></body></html>`
		if _, err := ImportHTML(strings.NewReader(page), testRegistry()); err == nil {
			t.Fatal("Expected an error for missing ingredient list, got nil")
		}
	})

	t.Run("NothingMatched", func(t *testing.T) {
		page := `<html><body><h1>Exotic</h1><ul class="ingredients"><li>1 cup unicorn tears</li></ul></body></html>`
		if _, err := ImportHTML(strings.NewReader(page), testRegistry()); err == nil {
			t.Fatal("Expected an error when no line matches the registry, got nil")
		}
	})
}
