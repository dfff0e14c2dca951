package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// DataFile is the CSV file holding the application table.
	DataFile string
	// Port is the HTTP listen port.
	Port string
}

// Load reads .env (if present) then the environment, falling back to
// defaults that work out of the box.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		DataFile: os.Getenv("APPTRACK_DATA"),
		Port:     os.Getenv("PORT"),
	}
	if cfg.DataFile == "" {
		cfg.DataFile = "applications.csv"
	}
	if cfg.Port == "" {
		cfg.Port = "8081"
	}
	return cfg
}
