package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"OVNET_LISTEN_ADDR", "OVNET_HEALTH_ADDR", "OVNET_INITIAL_ESCROW", "OVNET_MANIFEST_PATH", "OVNET_LOG_LEVEL"} {
		os.Unsetenv(key)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != "0.0.0.0:8080" {
		t.Fatalf("ListenAddr = %q, want default", cfg.ListenAddr)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadReadsEnv(t *testing.T) {
	t.Setenv("OVNET_LISTEN_ADDR", "127.0.0.1:9000")
	t.Setenv("OVNET_INITIAL_ESCROW", "500")
	t.Setenv("OVNET_LOG_LEVEL", "debug")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != "127.0.0.1:9000" {
		t.Fatalf("ListenAddr = %q, want env override", cfg.ListenAddr)
	}
	if cfg.InitialEscrow != 500 {
		t.Fatalf("InitialEscrow = %d, want 500", cfg.InitialEscrow)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestValidateRejectsUnknownLogLevel(t *testing.T) {
	cfg := &Config{ListenAddr: "x", ManifestPath: "y", LogLevel: "verbose"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate accepted an unknown log level")
	}
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voteconfig.yaml")

	m := &Manifest{
		MerkleRootHex:   "aabbcc",
		AuthorizedVoter: []string{"voter0", "voter1", "voter2"},
		VotingQuestion:  "Adopt the proposal?",
		Deposit:         10,
		TRegMillis:      100,
		TCommitMillis:   200,
		TVoteMillis:     300,
	}
	if err := WriteManifest(path, m); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	got, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if got.MerkleRootHex != m.MerkleRootHex || len(got.AuthorizedVoter) != 3 || got.Deposit != 10 {
		t.Fatalf("round-tripped manifest = %+v, want %+v", got, m)
	}
}

func TestLoadManifestMissingFile(t *testing.T) {
	if _, err := LoadManifest(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("LoadManifest did not fail for a missing file")
	}
}
