// Package config reads the service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	Env        string
	AppVersion string

	// DatabaseURL empty selects the in-memory stores.
	DatabaseURL       string
	DBConnectAttempts int

	// RedisAddr empty disables the generation throttle.
	RedisAddr        string
	AIGenerateLimit  int
	AIGenerateWindow time.Duration

	GeminiAPIKey        string
	GoogleCloudProject  string
	GoogleCloudLocation string
	AIModel             string
	AIThinkingBudget    int
	AITimeout           time.Duration
}

func (c Config) IsProduction() bool { return c.Env == "production" }

// RequireProvider checks that Gemini can be reached either by API key or
// through a Vertex AI project.
func (c Config) RequireProvider() error {
	if c.GeminiAPIKey == "" && c.GoogleCloudProject == "" {
		return errors.New("either GEMINI_API_KEY or GOOGLE_CLOUD_PROJECT must be set")
	}
	return nil
}

// LoadDotEnv loads the given files when they exist. Variables already set
// in the environment win.
func LoadDotEnv(files ...string) []string {
	var loaded []string
	for _, f := range files {
		if err := godotenv.Load(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	return loaded
}

func Load() (Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from any key lookup, e.g. os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	r := reader{lookup: lookup}

	cfg := Config{
		Port:                r.str("PORT", "4000"),
		Env:                 r.str("ENV", "development"),
		AppVersion:          r.str("APP_VERSION", "dev"),
		DatabaseURL:         r.str("DATABASE_URL", ""),
		DBConnectAttempts:   r.int("DB_CONNECT_ATTEMPTS", 5),
		RedisAddr:           r.str("REDIS_ADDR", ""),
		AIGenerateLimit:     r.int("AI_GENERATE_LIMIT", 10),
		AIGenerateWindow:    time.Duration(r.int("AI_GENERATE_WINDOW_SECONDS", 60)) * time.Second,
		GeminiAPIKey:        r.str("GEMINI_API_KEY", ""),
		GoogleCloudProject:  r.str("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation: r.str("GOOGLE_CLOUD_LOCATION", "us-central1"),
		AIModel:             r.str("AI_MODEL", "gemini-2.5-flash"),
		AIThinkingBudget:    r.int("AI_THINKING_BUDGET", 512),
		AITimeout:           time.Duration(r.int("AI_TIMEOUT_SECONDS", 60)) * time.Second,
	}
	if r.err != nil {
		return Config{}, r.err
	}

	if cfg.AIGenerateLimit < 1 || cfg.AIGenerateWindow <= 0 {
		return Config{}, errors.New("AI_GENERATE_LIMIT and AI_GENERATE_WINDOW_SECONDS must be positive")
	}
	return cfg, nil
}

type reader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *reader) str(key, def string) string {
	v, ok := r.lookup(key)
	if !ok || v == "" {
		return def
	}
	return v
}

func (r *reader) int(key string, def int) int {
	v, ok := r.lookup(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil && r.err == nil {
		r.err = errors.Newf("environment variable %s is not valid: %q is not an integer", key, v)
	}
	return n
}
