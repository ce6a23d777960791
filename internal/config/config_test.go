package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arena.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
[session]
tick_rate = "20ms"
stage_id = 3

[database]
driver = "sqlite"
dsn = "file:arena.db"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Session.TickRate != 20*time.Millisecond || cfg.Session.StageID != 3 {
		t.Fatalf("session = %+v", cfg.Session)
	}
	if cfg.Session.EnemyPoolKey != "Enemy_Dummy" || cfg.Session.HUDPreload != 10 {
		t.Fatal("unset keys should keep defaults")
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.MaxOpenConns != 10 {
		t.Fatalf("database = %+v", cfg.Database)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "[session]\nstage_id = 3\n")
	t.Setenv("ARENA_SESSION_STAGE_ID", "7")
	t.Setenv("ARENA_LOGGING_FORMAT", "json")
	t.Setenv("ARENA_SESSION_MAX_WALL_TIME", "90s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Session.StageID != 7 || cfg.Logging.Format != "json" || cfg.Session.MaxWallTime != 90*time.Second {
		t.Fatalf("env overrides not applied: %+v %+v", cfg.Session, cfg.Logging)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
		want string
	}{
		{"bad toml", "[session\n", nil, "parse config"},
		{"bad driver", "[database]\ndriver = \"mysql\"\n", nil, "database.driver"},
		{"zero tick", "[session]\ntick_rate = \"0s\"\n", nil, "tick_rate"},
		{"bad format", "[logging]\nformat = \"xml\"\n", nil, "logging.format"},
		{"bad env", "", map[string]string{"ARENA_SESSION_STAGE_ID": "one"}, "parse env:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("missing file should fail")
	}
}

func TestPath(t *testing.T) {
	p, err := Path()
	if err != nil || p != DefaultPath {
		t.Fatalf("Path() = %q, %v", p, err)
	}
	t.Setenv("ARENA_CONFIG", "/etc/arena.toml")
	if p, _ := Path(); p != "/etc/arena.toml" {
		t.Fatalf("Path() = %q", p)
	}
}
