package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings"

	"github.com/joho/godotenv" // optional .env loading for local development

	"github.com/iliyamo/train-seat-reservation/internal/allocation"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Database settings are required; the seat
// layout falls back to the reference coach (80 seats, rows of 7, nine
// pre-booked) when unset.
type Config struct {
	Env       string            // application environment (e.g. "dev", "prod")
	Port      string            // HTTP port to listen on
	LogLevel  string            // slog level: debug|info|warn|error
	LogFormat string            // slog format: json|text
	DBUser    string            // database username
	DBPass    string            // database password (optional)
	DBHost    string            // database host address
	DBPort    string            // database port number
	DBName    string            // database name
	Layout    allocation.Layout // seat layout served by this process
}

// Load reads configuration from the environment, after best-effort
// loading of a local .env file.  Required variables are enforced by
// must() and missing or invalid values exit with a fatal log message,
// including an inconsistent seat layout.
func Load() Config {
	_ = godotenv.Load() // absent .env is fine; system env wins anyway

	cfg := Config{
		Env:       getenv("APP_ENV", "dev"),
		Port:      must("APP_PORT"),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),
		DBUser:    must("DB_USER"),
		DBPass:    os.Getenv("DB_PASS"), // empty allowed
		DBHost:    must("DB_HOST"),
		DBPort:    must("DB_PORT"),
		DBName:    must("DB_NAME"),
		Layout:    loadLayout(),
	}
	if err := cfg.Layout.Validate(); err != nil {
		log.Fatalf("invalid seat layout: %v", err)
	}
	return cfg
}

// loadLayout reads the seat plan from SEAT_COUNT, ROW_WIDTH and
// PRE_BOOKED_SEATS, defaulting to the reference coach.
func loadLayout() allocation.Layout {
	def := allocation.DefaultLayout()
	return allocation.Layout{
		SeatCount: atoiOr("SEAT_COUNT", def.SeatCount),
		RowWidth:  atoiOr("ROW_WIDTH", def.RowWidth),
		PreBooked: idsOr("PRE_BOOKED_SEATS", def.PreBooked),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// idsOr parses a comma-separated id list, e.g. "0,1,2,15".  An explicit
// empty value ("none") disables pre-booking entirely.
func idsOr(key string, def []int) []int {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def
	}
	if strings.EqualFold(s, "none") {
		return nil
	}
	var ids []int
	for _, p := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			log.Fatalf("invalid seat id in %s: %q", key, p)
		}
		ids = append(ids, n)
	}
	return ids
}
