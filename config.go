package main

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the process-level settings. Values come from the
// environment (optionally a .env file); command-line flags in main
// override them.
type Config struct {
	Addr         string
	PublicDir    string
	DatabasePath string
}

// LoadConfig reads .env when present and resolves the config from the
// environment with sensible defaults.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Addr:         getEnv("ADDR", ":8080"),
		PublicDir:    getEnv("PUBLIC_DIR", "./public"),
		DatabasePath: getEnv("DATABASE_PATH", "haxarena.db"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
