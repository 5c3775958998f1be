package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jsphweid/chordex/constants"
	"github.com/joho/godotenv"
)

// Config holds the process configuration read from the environment.
type Config struct {
	Environment string
	Port        string
	SentryDSN   string

	// Catalog store
	// - "sqlite": SQLITE_PATH
	// - "postgres": DATABASE_URL
	// - "dynamodb": DYNAMODB_TABLE, optionally DYNAMODB_ENDPOINT for local
	// - "none": generate and dump only
	CatalogStore     string
	DatabaseURL      string
	SQLitePath       string
	DynamoDBEndpoint string
	DynamoDBRegion   string
	DynamoDBTable    string

	OutPath        string
	ProductName    string
	Workers        int
	AllowedOrigins []string
}

// Load reads an optional .env and then the environment.
func Load() *Config {
	// a missing .env is the normal case outside local development
	_ = godotenv.Load()

	return &Config{
		Environment:      getEnv("ENVIRONMENT", "development"),
		Port:             getEnv("PORT", "8080"),
		SentryDSN:        getEnv("SENTRY_DSN", ""),
		CatalogStore:     getEnv("CATALOG_STORE", "sqlite"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		SQLitePath:       constants.GetSQLitePath(),
		DynamoDBEndpoint: getEnv("DYNAMODB_ENDPOINT", ""),
		DynamoDBRegion:   getEnv("DYNAMODB_REGION", "us-west-2"),
		DynamoDBTable:    getEnv("DYNAMODB_TABLE", "piano_chords"),
		OutPath:          constants.GetOutDir(),
		ProductName:      getEnv("PRODUCT_NAME", constants.ProductName),
		Workers:          getEnvInt("WORKERS", 4),
		AllowedOrigins:   splitList(getEnv("ALLOWED_ORIGINS", "*")),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func splitList(s string) []string {
	var res []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			res = append(res, part)
		}
	}
	return res
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// File is the optional TOML file that narrows a catalog build and sets
// export defaults.
type File struct {
	Catalog CatalogConfig `toml:"catalog"`
	Export  ExportConfig  `toml:"export"`
}

type CatalogConfig struct {
	Roots     []string `toml:"roots,omitempty"`
	Qualities []string `toml:"qualities,omitempty"`
}

type ExportConfig struct {
	Tempo         float64 `toml:"tempo,omitempty"`
	TimeSignature string  `toml:"time_signature,omitempty"`
	Language      string  `toml:"language,omitempty"`
}

// DefaultFile is what a build uses without a config file.
func DefaultFile() File {
	return File{
		Export: ExportConfig{
			Tempo:         120,
			TimeSignature: "4/4",
			Language:      "en",
		},
	}
}

// LoadFile reads path on top of DefaultFile. An empty path returns the
// defaults.
func LoadFile(path string) (File, error) {
	cfg := DefaultFile()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Export.Tempo < 0 {
		return cfg, fmt.Errorf("export tempo %v must be positive", cfg.Export.Tempo)
	}
	if cfg.Export.Tempo == 0 {
		cfg.Export.Tempo = 120
	}
	return cfg, nil
}
