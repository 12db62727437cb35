// Package config loads application configuration from environment
// variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Simulator knobs (fault probability, stale
// timeout) default to the classic host behavior when unset.
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	DBUser    string // database username
	DBPass    string // database password (optional)
	DBHost    string // database host address
	DBPort    string // database port number
	DBName    string // database name
	JWTSecret string // secret used to sign session tokens

	AgentSign string // agent identifier stamped on history rows and events

	FaultProbability   float64       // chance of SYSTEM BUSY per command
	StaleTimeout       time.Duration // PNR lock window before forced close
	SessionIdleTimeout time.Duration // idle session eviction threshold

	AMQPURL   string // broker URL; empty disables event publishing
	AMQPQueue string // queue for committed-PNR events
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:       must("APP_ENV"),
		Port:      must("APP_PORT"),
		DBUser:    must("DB_USER"),
		DBPass:    os.Getenv("DB_PASS"), // empty allowed
		DBHost:    must("DB_HOST"),
		DBPort:    must("DB_PORT"),
		DBName:    must("DB_NAME"),
		JWTSecret: must("JWT_SECRET"),

		AgentSign: envStr("AGENT_SIGN", "GTR001"),

		FaultProbability:   envFloat("FAULT_PROBABILITY", 0.05),
		StaleTimeout:       envDur("PNR_STALE_TIMEOUT", 5*time.Minute),
		SessionIdleTimeout: envDur("SESSION_IDLE_TIMEOUT", 30*time.Minute),

		AMQPURL:   os.Getenv("AMQP_URL"), // empty disables the broker
		AMQPQueue: envStr("AMQP_QUEUE", "pnr.committed"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envFloat(k string, d float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
