package main

import (
	"log"
	"net/http"

	"mealplanner/internal/app"
	"mealplanner/internal/config"
	"mealplanner/internal/database"
	"mealplanner/internal/diary"
	"mealplanner/internal/ingredient"
	"mealplanner/internal/recipe"
	"mealplanner/internal/rule"
	"mealplanner/internal/shopping"
	"mealplanner/internal/telegram"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.TelegramBotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if cfg.TelegramWebhookURL == "" {
		log.Fatal("TELEGRAM_WEBHOOK_URL environment variable not set")
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

	bot, err := telegram.NewBot(cfg, application)
	if err != nil {
		log.Fatalf("Failed to initialize telegram bot: %v", err)
	}
	bot.RegisterHandlers()

	log.Printf("Listening on %s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, nil); err != nil {
		log.Fatalf("HTTP server failed: %v", err)
	}
}
