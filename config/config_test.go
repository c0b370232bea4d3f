package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	LoadConfig()

	if AppConfig.DatabaseName != "nutrilog" {
		t.Errorf("expected default database name 'nutrilog', got %q", AppConfig.DatabaseName)
	}
	if AppConfig.DefaultSkipRows != 1 {
		t.Errorf("expected 1 header row skipped by default, got %d", AppConfig.DefaultSkipRows)
	}
	if AppConfig.MaxSkipRows != 3 {
		t.Errorf("expected max skip rows 3, got %d", AppConfig.MaxSkipRows)
	}
	if AppConfig.MaxDietDays != 365 || AppConfig.MaxMealsPerDay != 10 {
		t.Errorf("expected template bounds 365 days and 10 meals, got %d and %d", AppConfig.MaxDietDays, AppConfig.MaxMealsPerDay)
	}
	if AppConfig.DraftTTLMinutes != 30 {
		t.Errorf("expected draft TTL 30, got %d", AppConfig.DraftTTLMinutes)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	viper.Reset()
	t.Setenv("ENV", "production")
	t.Setenv("MAX_SKIP_ROWS", "5")
	LoadConfig()

	if !IsProduction() {
		t.Errorf("expected production env, got %q", GetEnv())
	}
	if AppConfig.MaxSkipRows != 5 {
		t.Errorf("expected MAX_SKIP_ROWS=5 from env, got %d", AppConfig.MaxSkipRows)
	}
}
