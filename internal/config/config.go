package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendFirestore = "firestore"
	BackendMongo     = "mongo"
	BackendMemory    = "memory"
)

type Config struct {
	Port          string
	ProjectID     string
	LogLevel      string
	StoreBackend  string
	MongoURI      string
	MongoDatabase string
	JWTSecret     string
	TokenTTL      time.Duration
}

// New reads configuration from the environment. A .env file in the working
// directory, when present, fills in variables that are not already set.
func New() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "8080"),
		ProjectID:     os.Getenv("PROJECTID"),
		LogLevel:      os.Getenv("LOGLEVEL"),
		StoreBackend:  strings.ToLower(getEnv("STOREBACKEND", BackendFirestore)),
		MongoURI:      os.Getenv("MONGOURI"),
		MongoDatabase: getEnv("MONGODATABASE", "finance"),
		JWTSecret:     os.Getenv("JWTSECRET"),
		TokenTTL:      getDuration("TOKENTTL", 7*24*time.Hour),
	}
}

func (c *Config) Validate() error {
	var problems []string

	switch c.StoreBackend {
	case BackendFirestore:
		if c.ProjectID == "" {
			problems = append(problems, "PROJECTID is required for the firestore backend")
		}
	case BackendMongo:
		if c.MongoURI == "" {
			problems = append(problems, "MONGOURI is required for the mongo backend")
		}
	case BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("unknown STOREBACKEND %q", c.StoreBackend))
	}

	if c.JWTSecret == "" {
		problems = append(problems, "JWTSECRET is required")
	}
	if c.TokenTTL <= 0 {
		problems = append(problems, "TOKENTTL must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return -1
	}
	return d
}
