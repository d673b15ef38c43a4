// Package config loads the ovnet-node process configuration from
// environment variables, and the per-vote manifest (the parameters a
// vote is Setup with) from a YAML file shared by ovnet-cli and
// ovnet-node.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the node process's environment-derived settings.
type Config struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string
	// HealthAddr is the address serving /healthz, separate from the
	// main listener so liveness checks survive a saturated API.
	HealthAddr string

	// InitialEscrow is the balance InMemoryHost starts with, covering
	// deposits the node expects to pay out before any are collected.
	InitialEscrow uint64

	// ManifestPath points at the YAML vote manifest to load at startup.
	ManifestPath string

	LogLevel string
}

// Load reads configuration from environment variables, applying
// defaults suitable for local development.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:    getEnv("OVNET_LISTEN_ADDR", "0.0.0.0:8080"),
		HealthAddr:    getEnv("OVNET_HEALTH_ADDR", "0.0.0.0:8081"),
		InitialEscrow: getEnvUint64("OVNET_INITIAL_ESCROW", 0),
		ManifestPath:  getEnv("OVNET_MANIFEST_PATH", "voteconfig.yaml"),
		LogLevel:      getEnv("OVNET_LOG_LEVEL", "info"),
	}
	return cfg, nil
}

// Validate checks that the loaded configuration is usable.
func (c *Config) Validate() error {
	var errs []string
	if c.ListenAddr == "" {
		errs = append(errs, "OVNET_LISTEN_ADDR must not be empty")
	}
	if c.ManifestPath == "" {
		errs = append(errs, "OVNET_MANIFEST_PATH must not be empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("OVNET_LOG_LEVEL %q is not one of debug|info|warn|error", c.LogLevel))
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Manifest is the YAML-encoded, human-editable form of a vote's setup
// parameters, produced by ovnet-cli and loaded by ovnet-node at
// startup from ManifestPath (ovnet-node's /setup endpoint takes the
// same fields as a JSON request body instead). Hex-encoded byte fields keep the file diffable and
// safe to hand-edit, unlike the binary wire encoding pkg/wire emits.
type Manifest struct {
	MerkleRootHex   string   `yaml:"merkle_root"`
	AuthorizedVoter []string `yaml:"authorized_voters"`
	VotingQuestion  string   `yaml:"voting_question"`
	Deposit         uint64   `yaml:"deposit"`
	TRegMillis      int64    `yaml:"t_reg_millis"`
	TCommitMillis   int64    `yaml:"t_commit_millis"`
	TVoteMillis     int64    `yaml:"t_vote_millis"`
}

// LoadManifest reads and parses a vote manifest from path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("config: parse manifest: %w", err)
	}
	return &m, nil
}

// WriteManifest serializes m to path as YAML, creating or truncating
// the file.
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("config: encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write manifest: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseUint(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
