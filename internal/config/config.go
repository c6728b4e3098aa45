package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the configuration for the application.
type Config struct {
	// DataDir contains ingredients.json and the meals/ recipe
	// directory.
	DataDir string
	// DBPath is the SQLite database holding the diary and saved
	// shopping lists.
	DBPath string
	// Rules are the configured rule names applied during planning.
	Rules []string

	// Telegram config (optional for the CLI, required for the bot).
	TelegramBotToken    string
	TelegramWebhookURL  string
	TelegramAllowUserID int64
	ListenAddr          string
}

var defaultRules = []string{
	"force_roast_on_sunday",
	"not_roast_on_non_sunday",
	"not_indian_twice_within_ten_days",
	"not_pasta_twice_within_five_days",
	"not_same_meal_within_seven_days",
	"not_same_meat_on_consecutive_days",
}

// NewFromEnv creates a new Config object from environment variables. A
// .env file in the working directory is loaded first if present.
func NewFromEnv() (*Config, error) {
	// Missing .env is fine; explicit env vars win either way.
	_ = godotenv.Load()

	dataDir := os.Getenv("MEALPLANNER_DATA_DIR")
	if dataDir == "" {
		return nil, fmt.Errorf("MEALPLANNER_DATA_DIR environment variable not set")
	}

	dbPath := os.Getenv("MEALPLANNER_DB_PATH")
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, "mealplanner.db")
	}

	rules := defaultRules
	if raw := os.Getenv("MEALPLANNER_RULES"); raw != "" {
		rules = nil
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				rules = append(rules, name)
			}
		}
	}

	listenAddr := os.Getenv("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = ":8080"
	}

	var allowUserID int64
	if raw := os.Getenv("TELEGRAM_ALLOW_USER_ID"); raw != "" {
		fmt.Sscanf(raw, "%d", &allowUserID)
	}

	return &Config{
		DataDir:             dataDir,
		DBPath:              dbPath,
		Rules:               rules,
		TelegramBotToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:  os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowUserID: allowUserID,
		ListenAddr:          listenAddr,
	}, nil
}

// IngredientsPath is the ingredient definitions file inside the data
// directory.
func (c *Config) IngredientsPath() string {
	return filepath.Join(c.DataDir, "ingredients.json")
}

// MealsDir is the recipe definitions directory inside the data
// directory.
func (c *Config) MealsDir() string {
	return filepath.Join(c.DataDir, "meals")
}
