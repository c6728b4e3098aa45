package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"mealplanner/internal/app"
	"mealplanner/internal/config"
	"mealplanner/internal/database"
	"mealplanner/internal/diary"
	"mealplanner/internal/ingredient"
	"mealplanner/internal/planner"
	"mealplanner/internal/recipe"
	"mealplanner/internal/rule"
	"mealplanner/internal/shopping"
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	registry, err := ingredient.LoadRegistry(cfg.IngredientsPath())
	if err != nil {
		log.Fatalf("Failed to load ingredient definitions: %v", err)
	}

	catalog, err := recipe.LoadCatalog(cfg.MealsDir(), registry)
	if err != nil {
		log.Fatalf("Failed to load meal catalog: %v", err)
	}

	rules, err := rule.FromNames(cfg.Rules)
	if err != nil {
		log.Fatalf("Failed to resolve configured rules: %v", err)
	}

	db, err := database.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	application := app.NewApp(cfg, registry, catalog, rules,
		diary.NewRepository(db.SQL), shopping.NewRepository(db.SQL))

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "plan":
		planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
		start := planCmd.String("start", "", "First date to plan (YYYY-MM-DD, default tomorrow)")
		days := planCmd.Int("days", 7, "Number of consecutive dates to plan")
		seed := planCmd.Int64("seed", 0, "Random seed (0 means time-based)")
		planCmd.Parse(os.Args[2:])

		runPlan(ctx, application, *start, *days, *seed)
	case "shopping-list":
		listCmd := flag.NewFlagSet("shopping-list", flag.ExitOnError)
		start := listCmd.String("start", "", "First diary date to include (YYYY-MM-DD)")
		end := listCmd.String("end", "", "Last diary date to include (YYYY-MM-DD)")
		listCmd.Parse(os.Args[2:])

		runShoppingList(ctx, application, *start, *end)
	case "import-recipe":
		if len(os.Args) < 3 {
			log.Fatal("Usage: mealplanner import-recipe <recipe.html>")
		}
		runImport(application, os.Args[2])
	case "remove-dates":
		if len(os.Args) < 3 {
			log.Fatal("Usage: mealplanner remove-dates <YYYY-MM-DD> [more dates...]")
		}
		runRemoveDates(ctx, application, os.Args[2:])
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runPlan(ctx context.Context, application *app.App, start string, days int, seed int64) {
	startDate := diary.Normalize(time.Now().AddDate(0, 0, 1))
	if start != "" {
		parsed, err := time.ParseInLocation(diary.DateFormat, start, time.UTC)
		if err != nil {
			log.Fatalf("Invalid -start date %q: %v", start, err)
		}
		startDate = parsed
	}
	if days < 1 {
		log.Fatalf("-days must be at least 1, got %d", days)
	}

	targetDates := make([]time.Time, days)
	for i := range targetDates {
		targetDates[i] = startDate.AddDate(0, 0, i)
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	confirmed, err := application.PlanMeals(ctx, targetDates, newConsoleDecisionProvider(), rng)
	if err != nil {
		log.Fatalf("Planning failed: %v", err)
	}

	fmt.Println("\nConfirmed meal plan:")
	fmt.Println(confirmed.String())
}

func runShoppingList(ctx context.Context, application *app.App, start, end string) {
	if start == "" || end == "" {
		log.Fatal("Both -start and -end are required")
	}
	startDate, err := time.ParseInLocation(diary.DateFormat, start, time.UTC)
	if err != nil {
		log.Fatalf("Invalid -start date %q: %v", start, err)
	}
	endDate, err := time.ParseInLocation(diary.DateFormat, end, time.UTC)
	if err != nil {
		log.Fatalf("Invalid -end date %q: %v", end, err)
	}

	_, content, err := application.MakeShoppingList(ctx, startDate, endDate)
	if err != nil {
		log.Fatalf("Failed to build shopping list: %v", err)
	}

	fmt.Println(content)
}

func runImport(application *app.App, htmlPath string) {
	result, written, err := application.ImportRecipe(htmlPath)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	fmt.Printf("Imported %q with %d ingredient(s) to %s\n",
		result.File.Name, len(result.File.Ingredients), written)
	for _, line := range result.Skipped {
		fmt.Printf("Skipped unrecognized line: %s\n", line)
	}
	fmt.Println("Review the generated file and set its properties and tags before planning.")
}

func runRemoveDates(ctx context.Context, application *app.App, args []string) {
	dates := make([]time.Time, len(args))
	for i, arg := range args {
		date, err := time.ParseInLocation(diary.DateFormat, arg, time.UTC)
		if err != nil {
			log.Fatalf("Invalid date %q: %v", arg, err)
		}
		dates[i] = date
	}

	removed, err := application.RemoveDates(ctx, dates)
	if err != nil {
		log.Fatalf("Failed to remove dates: %v", err)
	}
	fmt.Printf("Removed %d diary entr(y/ies).\n", removed)
}

// consoleDecisionProvider collects plan decisions over stdin: Y accepts
// the whole proposal, N prompts for the dates to change.
type consoleDecisionProvider struct {
	scanner *bufio.Scanner
}

func newConsoleDecisionProvider() *consoleDecisionProvider {
	return &consoleDecisionProvider{scanner: bufio.NewScanner(os.Stdin)}
}

func (p *consoleDecisionProvider) Decide(_ context.Context, proposal *diary.Diary) (planner.Decision, error) {
	fmt.Println("\nRecommended meal plan:")
	fmt.Println(proposal.String())

	for {
		fmt.Println("\nSound okay? Enter 'Y' or 'N'")
		answer, err := p.readLine()
		if err != nil {
			return planner.Decision{}, err
		}

		switch strings.ToUpper(answer) {
		case "Y":
			return planner.AcceptAll(), nil
		case "N":
			fmt.Println("Enter dates to change (YYYY-MM-DD, space separated)")
			line, err := p.readLine()
			if err != nil {
				return planner.Decision{}, err
			}

			var rejections []planner.Rejection
			for _, field := range strings.Fields(line) {
				date, err := time.ParseInLocation(diary.DateFormat, field, time.UTC)
				if err != nil {
					return planner.Decision{}, fmt.Errorf("invalid date %q: %w", field, err)
				}
				proposed, ok := proposal.Get(date)
				if !ok {
					return planner.Decision{}, fmt.Errorf("date %s is not part of the proposal", field)
				}
				rejections = append(rejections, planner.Rejection{Date: date, MealName: proposed.Name})
			}
			if len(rejections) == 0 {
				fmt.Println("No dates given.")
				continue
			}
			return planner.RejectPairs(rejections...), nil
		}
	}
}

func (p *consoleDecisionProvider) readLine() (string, error) {
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", fmt.Errorf("input closed")
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

func printUsage() {
	fmt.Println("Usage: mealplanner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  plan             Plan meals for a range of dates interactively")
	fmt.Println("  shopping-list    Build a shopping list from confirmed diary entries")
	fmt.Println("  import-recipe    Convert a saved recipe HTML page into a recipe file")
	fmt.Println("  remove-dates     Remove diary entries for specific dates")
}
