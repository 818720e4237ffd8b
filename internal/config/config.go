// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	BackendURL     string
	ListenAddr     string
	HTTPTimeout    time.Duration
	SaveCloseDelay time.Duration
	ErrorHideDelay time.Duration
}

// Load reads configuration from environment variables and returns a validated Config.
// All variables are optional:
// GENCHECK_BACKEND_URL (http://127.0.0.1:5000), GENCHECK_LISTEN_ADDR (127.0.0.1:8080),
// GENCHECK_HTTP_TIMEOUT (0, no client-side timeout), GENCHECK_SAVE_CLOSE_DELAY (1s),
// GENCHECK_ERROR_HIDE_DELAY (3s).
func Load() (*Config, error) {
	backendURL := "http://127.0.0.1:5000"
	if v, ok := os.LookupEnv("GENCHECK_BACKEND_URL"); ok && v != "" {
		backendURL = v
	}
	u, err := url.Parse(backendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("GENCHECK_BACKEND_URL must be an absolute http(s) URL, got %q", backendURL)
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("GENCHECK_LISTEN_ADDR"); ok && v != "" {
		listenAddr = v
	}

	httpTimeout, err := durationEnv("GENCHECK_HTTP_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}
	saveCloseDelay, err := positiveDurationEnv("GENCHECK_SAVE_CLOSE_DELAY", 1*time.Second)
	if err != nil {
		return nil, err
	}
	errorHideDelay, err := positiveDurationEnv("GENCHECK_ERROR_HIDE_DELAY", 3*time.Second)
	if err != nil {
		return nil, err
	}

	return &Config{
		BackendURL:     backendURL,
		ListenAddr:     listenAddr,
		HTTPTimeout:    httpTimeout,
		SaveCloseDelay: saveCloseDelay,
		ErrorHideDelay: errorHideDelay,
	}, nil
}

// durationEnv parses a non-negative duration from key, returning def when unset.
func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid duration %q: %w", key, v, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %s", key, d)
	}
	return d, nil
}

// positiveDurationEnv is durationEnv for delays where zero would disable the
// timer altogether.
func positiveDurationEnv(key string, def time.Duration) (time.Duration, error) {
	d, err := durationEnv(key, def)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
