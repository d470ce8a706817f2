package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	TelegramToken string
	GithubToken   string
	GistID        string
	SeedBalance   decimal.Decimal // balance issued to every new account
	HistoryLimit  int             // default /history count
}

// MustLoad reads configuration from the environment (a local .env is
// honoured when present) and exits on any problem.
func MustLoad() Config {
	_ = godotenv.Load()

	cfg, err := Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

func Load() (Config, error) {
	cfg := Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		GithubToken:   os.Getenv("GITHUB_TOKEN"),
		GistID:        os.Getenv("GIST_ID"),
		SeedBalance:   decimal.NewFromInt(1000),
		HistoryLimit:  10,
	}

	if cfg.TelegramToken == "" {
		return Config{}, fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	if cfg.GithubToken == "" {
		return Config{}, fmt.Errorf("GITHUB_TOKEN is required")
	}
	if cfg.GistID == "" {
		return Config{}, fmt.Errorf("GIST_ID is required")
	}

	if v := os.Getenv("SEED_BALANCE"); v != "" {
		seed, err := decimal.NewFromString(v)
		if err != nil || seed.Sign() < 0 {
			return Config{}, fmt.Errorf("SEED_BALANCE must be a non-negative number, got %q", v)
		}
		cfg.SeedBalance = seed
	}

	if v := os.Getenv("HISTORY_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("HISTORY_LIMIT must be a positive integer, got %q", v)
		}
		cfg.HistoryLimit = n
	}

	return cfg, nil
}
