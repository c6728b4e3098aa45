package app

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"mealplanner/internal/config"
	"mealplanner/internal/diary"
	"mealplanner/internal/ingredient"
	"mealplanner/internal/meal"
	"mealplanner/internal/planner"
	"mealplanner/internal/recipe"
	"mealplanner/internal/rule"
	"mealplanner/internal/shopping"
)

// App holds the application's dependencies.
type App struct {
	cfg          *config.Config
	registry     *ingredient.Registry
	catalog      *meal.Catalog
	rules        *rule.Set
	diaryRepo    *diary.Repository
	shoppingRepo *shopping.Repository
}

// NewApp creates and initializes a new App instance.
func NewApp(
	cfg *config.Config,
	registry *ingredient.Registry,
	catalog *meal.Catalog,
	rules *rule.Set,
	diaryRepo *diary.Repository,
	shoppingRepo *shopping.Repository,
) *App {
	return &App{
		cfg:          cfg,
		registry:     registry,
		catalog:      catalog,
		rules:        rules,
		diaryRepo:    diaryRepo,
		shoppingRepo: shoppingRepo,
	}
}

// Catalog returns the loaded meal catalog.
func (a *App) Catalog() *meal.Catalog {
	return a.catalog
}

// PlanMeals runs one interactive planning session over the target
// dates and, once the user confirms, merges the plan into the persisted
// diary. On failure nothing is written.
func (a *App) PlanMeals(ctx context.Context, targetDates []time.Time, provider planner.DecisionProvider, rng *rand.Rand) (*diary.Diary, error) {
	persisted, err := a.diaryRepo.LoadDiary(ctx, a.catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load diary: %w", err)
	}

	session, err := planner.NewSession(a.catalog, a.rules, persisted, targetDates, rng)
	if err != nil {
		return nil, err
	}

	confirmed, err := session.Run(ctx, provider)
	if err != nil {
		return nil, err
	}

	if err := a.diaryRepo.SaveDiary(ctx, confirmed); err != nil {
		return nil, fmt.Errorf("failed to persist confirmed plan: %w", err)
	}
	log.Printf("Persisted %d confirmed diary entries.", confirmed.Len())

	return confirmed, nil
}

// MakeShoppingList aggregates the diary entries between start and end
// (inclusive) into a shopping list, persists the rendered text, and
// returns both.
func (a *App) MakeShoppingList(ctx context.Context, start, end time.Time) (*shopping.List, string, error) {
	persisted, err := a.diaryRepo.LoadDiary(ctx, a.catalog)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load diary: %w", err)
	}

	subset := persisted.FilterDates(diary.Normalize(start), diary.Normalize(end).AddDate(0, 0, 1))
	if subset.Len() == 0 {
		return nil, "", fmt.Errorf("no diary entries between %s and %s",
			start.Format(diary.DateFormat), end.Format(diary.DateFormat))
	}

	list, err := shopping.Aggregate(shopping.FromDiary(subset))
	if err != nil {
		return nil, "", fmt.Errorf("failed to aggregate shopping list: %w", err)
	}

	content := shopping.Render(list)
	if _, err := a.shoppingRepo.Save(ctx, start, end, content); err != nil {
		return nil, "", err
	}

	return list, content, nil
}

// RemoveDates deletes diary entries for the given dates, returning how
// many were removed.
func (a *App) RemoveDates(ctx context.Context, dates []time.Time) (int64, error) {
	return a.diaryRepo.Delete(ctx, dates...)
}

// ImportRecipe extracts a recipe definition from a saved HTML page and
// writes it into the meals directory for review.
func (a *App) ImportRecipe(htmlPath string) (*recipe.ImportResult, string, error) {
	f, err := os.Open(htmlPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open recipe HTML: %w", err)
	}
	defer f.Close()

	result, err := recipe.ImportHTML(f, a.registry)
	if err != nil {
		return nil, "", err
	}

	written, err := result.File.Write(a.cfg.MealsDir())
	if err != nil {
		return nil, "", err
	}
	return result, written, nil
}
