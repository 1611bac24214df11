package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.SystemID != "VRSC" {
		t.Fatalf("unexpected system id %q", cfg.SystemID)
	}
	if cfg.ListenAddr != ":8000" {
		t.Fatalf("unexpected listen addr %q", cfg.ListenAddr)
	}
	if cfg.CacheTTL != 60*time.Second {
		t.Fatalf("unexpected cache ttl %v", cfg.CacheTTL)
	}
	if cfg.SupplyTTL != 10*time.Minute {
		t.Fatalf("unexpected supply ttl %v", cfg.SupplyTTL)
	}
	if cfg.BlocksPerDay != 1440 {
		t.Fatalf("unexpected blocks per day %d", cfg.BlocksPerDay)
	}
	if cfg.MaxRetries != 3 {
		t.Fatalf("unexpected max retries %d", cfg.MaxRetries)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TICKER_LISTEN", ":9000")
	t.Setenv("TICKER_CACHE_TTL", "25s")

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ListenAddr != ":9000" {
		t.Fatalf("env override ignored: %q", cfg.ListenAddr)
	}
	if cfg.CacheTTL != 25*time.Second {
		t.Fatalf("env override ignored: %v", cfg.CacheTTL)
	}
}

func TestLoadDaemonCredentialFallback(t *testing.T) {
	t.Setenv("VERUS_RPC_URL", "http://127.0.0.1:27486")
	t.Setenv("VERUS_RPC_USER", "verus")
	t.Setenv("VERUS_RPC_PASSWORD", "hunter2")

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.RPCURL != "http://127.0.0.1:27486" || cfg.RPCUser != "verus" || cfg.RPCPassword != "hunter2" {
		t.Fatalf("daemon credentials not picked up: %+v", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	payload := "listen: \":8100\"\nsystem-id: \"VRSCTEST\"\nmin-native-reserve: 250\n"
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ListenAddr != ":8100" || cfg.SystemID != "VRSCTEST" {
		t.Fatalf("config file values ignored: %+v", cfg)
	}
	if cfg.MinNativeReserve != 250 {
		t.Fatalf("unexpected reserve floor %v", cfg.MinNativeReserve)
	}
	// Untouched keys keep their defaults.
	if cfg.CacheTTL != 60*time.Second {
		t.Fatalf("default lost: %v", cfg.CacheTTL)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil); err == nil {
		t.Fatalf("explicit missing config file must error")
	}
}
