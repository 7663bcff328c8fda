package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration values.
type Config struct {
	Secret           string
	DatabaseDSN      string
	HTTPPort         string
	SeedDir          string
	SessionTTL       time.Duration
	CORSOrigins      []string
	ReminderSchedule string
	JobsEnabled      bool
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	secret := os.Getenv("SECRET")
	if secret == "" {
		secret = "dev_secret"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}
	// Validate that port is numeric.
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "file:healthportal.db?_pragma=foreign_keys(1)"
	}

	ttl := 24 * time.Hour
	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			log.Printf("invalid SESSION_TTL value %q, defaulting to %s", raw, ttl)
		} else {
			ttl = parsed
		}
	}

	origins := []string{"*"}
	if raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); raw != "" {
		origins = origins[:0]
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	schedule := os.Getenv("REMINDER_SCHEDULE")
	if schedule == "" {
		schedule = "5 0 * * *"
	}

	jobs := true
	if raw := os.Getenv("JOBS_ENABLED"); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			log.Printf("invalid JOBS_ENABLED value %q, defaulting to true", raw)
		} else {
			jobs = enabled
		}
	}

	return Config{
		Secret:           secret,
		DatabaseDSN:      dsn,
		HTTPPort:         port,
		SeedDir:          os.Getenv("SEED_DIR"),
		SessionTTL:       ttl,
		CORSOrigins:      origins,
		ReminderSchedule: schedule,
		JobsEnabled:      jobs,
	}
}
