package config

import (
	"path/filepath"
	"testing"
)

func TestNewFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("MEALPLANNER_DATA_DIR", "/data/mealplanner")
		t.Setenv("MEALPLANNER_DB_PATH", "")
		t.Setenv("MEALPLANNER_RULES", "")
		t.Setenv("LISTEN_ADDR", "")
		t.Setenv("TELEGRAM_ALLOW_USER_ID", "")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if cfg.DBPath != filepath.Join("/data/mealplanner", "mealplanner.db") {
			t.Errorf("Expected DB path inside the data dir, got %q", cfg.DBPath)
		}
		if len(cfg.Rules) == 0 {
			t.Error("Expected default rules to apply")
		}
		if cfg.ListenAddr != ":8080" {
			t.Errorf("Expected default listen address :8080, got %q", cfg.ListenAddr)
		}
		if cfg.IngredientsPath() != filepath.Join("/data/mealplanner", "ingredients.json") {
			t.Errorf("Unexpected ingredients path %q", cfg.IngredientsPath())
		}
		if cfg.MealsDir() != filepath.Join("/data/mealplanner", "meals") {
			t.Errorf("Unexpected meals dir %q", cfg.MealsDir())
		}
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("MEALPLANNER_DATA_DIR", "/data/mealplanner")
		t.Setenv("MEALPLANNER_DB_PATH", "/tmp/other.db")
		t.Setenv("MEALPLANNER_RULES", "not_same_meal_within_seven_days, force_roast_on_sunday")
		t.Setenv("LISTEN_ADDR", ":9999")
		t.Setenv("TELEGRAM_ALLOW_USER_ID", "12345")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if cfg.DBPath != "/tmp/other.db" {
			t.Errorf("Expected DB path override, got %q", cfg.DBPath)
		}
		if len(cfg.Rules) != 2 || cfg.Rules[0] != "not_same_meal_within_seven_days" {
			t.Errorf("Expected trimmed rule list, got %v", cfg.Rules)
		}
		if cfg.ListenAddr != ":9999" {
			t.Errorf("Expected listen address override, got %q", cfg.ListenAddr)
		}
		if cfg.TelegramAllowUserID != 12345 {
			t.Errorf("Expected allowed user ID 12345, got %d", cfg.TelegramAllowUserID)
		}
	})

	t.Run("MissingDataDir", func(t *testing.T) {
		t.Setenv("MEALPLANNER_DATA_DIR", "")
		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error when MEALPLANNER_DATA_DIR is unset, got nil")
		}
	})
}
