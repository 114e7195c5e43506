// Package config loads console settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries every tunable the console and its front ends read.
// Zero values mean "not configured"; the composition root decides
// which snapshot source to build from what is present.
type Config struct {
	// Snapshot source selection.
	SnapshotURL string // fixed URL or %s template, highest precedence
	Revision    string

	// S3 source.
	S3Bucket    string
	S3Prefix    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	// Git source.
	GitURL  string
	GitPath string

	// Engine scratch directory. Empty means the system temp dir.
	ScratchDir string

	// Server front end.
	ServerAddr  string
	AuthEnabled bool
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
}

// Load reads the environment, merging in .env if one exists. Real
// environment variables win over .env entries.
func Load() Config {
	godotenv.Load()

	return Config{
		SnapshotURL: os.Getenv("SNAPQUERY_SNAPSHOT_URL"),
		Revision:    env("SNAPQUERY_REVISION", "latest"),

		S3Bucket:    os.Getenv("SNAPQUERY_S3_BUCKET"),
		S3Prefix:    os.Getenv("SNAPQUERY_S3_PREFIX"),
		S3Region:    env("SNAPQUERY_S3_REGION", "us-east-1"),
		S3Endpoint:  os.Getenv("SNAPQUERY_S3_ENDPOINT"),
		S3AccessKey: os.Getenv("SNAPQUERY_S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("SNAPQUERY_S3_SECRET_KEY"),

		GitURL:  os.Getenv("SNAPQUERY_GIT_URL"),
		GitPath: env("SNAPQUERY_GIT_PATH", "snapshot.duckdb"),

		ScratchDir: os.Getenv("SNAPQUERY_SCRATCH_DIR"),

		ServerAddr:  env("SNAPQUERY_SERVER_ADDR", ":5433"),
		AuthEnabled: boolEnv("SNAPQUERY_AUTH_ENABLED", false),
		JWTSecret:   os.Getenv("SNAPQUERY_JWT_SECRET"),
		JWTIssuer:   env("SNAPQUERY_JWT_ISSUER", "snapquery"),
		JWTAudience: env("SNAPQUERY_JWT_AUDIENCE", "snapquery"),
	}
}

func env(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func boolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
