// Package config provides configuration management for the application:
// server settings from environment variables and generation scenarios
// from YAML or request bodies.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds the server configuration.
type Config struct {
	Port             string
	AllowedOrigin    string
	AWSRegion        string
	S3Bucket         string
	CloudfrontDomain string
	ScenarioPath     string        // optional YAML preset for default generation parameters
	JobTTL           time.Duration // 0 means jobs never expire
	MaxQueue         int           // pending generation jobs allowed in the queue
}

// LoadConfig loads server configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		AllowedOrigin:    getEnv("ALLOWED_ORIGIN", "http://localhost:5173"),
		AWSRegion:        getEnv("AWS_REGION", "ap-northeast-1"),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		CloudfrontDomain: getEnv("CLOUDFRONT_DOMAIN", ""),
		ScenarioPath:     getEnv("SCENARIO_PATH", ""),
		JobTTL:           0,
		MaxQueue:         32,
	}

	if v := os.Getenv("JOB_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, errors.New("invalid JOB_TTL: must be a duration like 30m")
		}
		cfg.JobTTL = ttl
	}
	if v := os.Getenv("MAX_QUEUE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, errors.New("invalid MAX_QUEUE: must be a positive number")
		}
		cfg.MaxQueue = n
	}

	return cfg, nil
}

// Validate validates the server configuration.
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return errors.New("invalid port: must be a number")
	}
	return nil
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
