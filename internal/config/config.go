// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the configuration loaded from environment variables.
// Command-line flags override the corresponding fields after loading.
type Config struct {
	GitHubToken      string
	CircleCIToken    string
	IncludeChecks    []string
	ExcludeChecks    []string
	Timeout          time.Duration
	PollInterval     time.Duration
	MinWaitAfterPush time.Duration
}

// HasCircleCIToken reports whether CI log fetching is available.
func (c *Config) HasCircleCIToken() bool {
	return c.CircleCIToken != ""
}

// Load reads configuration from environment variables and returns a validated
// Config. The GitHub token comes from PRPILOT_GITHUB_TOKEN, falling back to
// GITHUB_TOKEN; it is required. CIRCLECI_TOKEN is optional: without it CI
// failure logs are unavailable but everything else works. Check filters come
// from PRPILOT_INCLUDE_CHECKS and PRPILOT_EXCLUDE_CHECKS as comma-separated
// glob lists. Durations: PRPILOT_TIMEOUT (30m), PRPILOT_POLL_INTERVAL (5s),
// PRPILOT_MIN_WAIT_AFTER_PUSH (30s).
func Load() (*Config, error) {
	token := os.Getenv("PRPILOT_GITHUB_TOKEN")
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("no GitHub token: set PRPILOT_GITHUB_TOKEN or GITHUB_TOKEN")
	}

	timeout, err := durationEnv("PRPILOT_TIMEOUT", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	pollInterval, err := durationEnv("PRPILOT_POLL_INTERVAL", 5*time.Second)
	if err != nil {
		return nil, err
	}
	minWaitAfterPush, err := durationEnv("PRPILOT_MIN_WAIT_AFTER_PUSH", 30*time.Second)
	if err != nil {
		return nil, err
	}

	return &Config{
		GitHubToken:      token,
		CircleCIToken:    os.Getenv("CIRCLECI_TOKEN"),
		IncludeChecks:    splitList(os.Getenv("PRPILOT_INCLUDE_CHECKS")),
		ExcludeChecks:    splitList(os.Getenv("PRPILOT_EXCLUDE_CHECKS")),
		Timeout:          timeout,
		PollInterval:     pollInterval,
		MinWaitAfterPush: minWaitAfterPush,
	}, nil
}

func durationEnv(name string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid duration %q: %w", name, v, err)
	}
	return parsed, nil
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
