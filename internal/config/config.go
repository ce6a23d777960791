package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// DefaultPath is used when ARENA_CONFIG is not set.
const DefaultPath = "config/arena.toml"

type Config struct {
	Session   SessionConfig   `toml:"session" envPrefix:"SESSION_"`
	Data      DataConfig      `toml:"data" envPrefix:"DATA_"`
	Scripting ScriptingConfig `toml:"scripting" envPrefix:"SCRIPTING_"`
	Database  DatabaseConfig  `toml:"database" envPrefix:"DATABASE_"`
	Logging   LoggingConfig   `toml:"logging" envPrefix:"LOGGING_"`
}

type SessionConfig struct {
	TickRate       time.Duration `toml:"tick_rate" env:"TICK_RATE"`
	StageID        int           `toml:"stage_id" env:"STAGE_ID"`
	EnemyPoolKey   string        `toml:"enemy_pool_key" env:"ENEMY_POOL_KEY"`
	HUDPoolKey     string        `toml:"hud_pool_key" env:"HUD_POOL_KEY"`
	FallbackPrefab string        `toml:"fallback_prefab" env:"FALLBACK_PREFAB"`
	HUDPreload     int           `toml:"hud_preload" env:"HUD_PRELOAD"`
	Seed           int64         `toml:"seed" env:"SEED"`                   // 0 = time based
	MaxWallTime    time.Duration `toml:"max_wall_time" env:"MAX_WALL_TIME"` // 0 = until the battle ends
}

type DataConfig struct {
	Stages string `toml:"stages" env:"STAGES"`
	Npcs   string `toml:"npcs" env:"NPCS"`
}

type ScriptingConfig struct {
	Dir string `toml:"dir" env:"DIR"`
}

type DatabaseConfig struct {
	Driver          string        `toml:"driver" env:"DRIVER"` // "postgres", "sqlite" or "" to disable
	DSN             string        `toml:"dsn" env:"DSN"`
	MaxOpenConns    int           `toml:"max_open_conns" env:"MAX_OPEN_CONNS"`
	MaxIdleConns    int           `toml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime" env:"CONN_MAX_LIFETIME"`
}

type LoggingConfig struct {
	Level  string `toml:"level" env:"LEVEL"`
	Format string `toml:"format" env:"FORMAT"` // "json" or "console"
}

// Path returns the config file location from ARENA_CONFIG.
func Path() (string, error) {
	var boot struct {
		Path string `env:"ARENA_CONFIG" envDefault:"config/arena.toml"`
	}
	if err := env.Parse(&boot); err != nil {
		return "", fmt.Errorf("parse env: %w", err)
	}
	return boot.Path, nil
}

// Load reads path over the defaults, then applies ARENA_* environment
// overrides (ARENA_SESSION_STAGE_ID, ARENA_DATABASE_DSN, ...).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "ARENA_"}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Session.TickRate <= 0 {
		return fmt.Errorf("session.tick_rate must be positive, got %v", c.Session.TickRate)
	}
	if c.Session.HUDPreload < 0 {
		return fmt.Errorf("session.hud_preload must not be negative")
	}
	switch c.Database.Driver {
	case "", "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver %q: want postgres, sqlite or empty", c.Database.Driver)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q: want json or console", c.Logging.Format)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Session: SessionConfig{
			TickRate:     50 * time.Millisecond,
			StageID:      1,
			EnemyPoolKey: "Enemy_Dummy",
			HUDPoolKey:   "UI_PlayerHUD",
			HUDPreload:   10,
		},
		Data: DataConfig{
			Stages: "data/yaml/stages.yaml",
			Npcs:   "data/yaml/npcs.yaml",
		},
		Scripting: ScriptingConfig{
			Dir: "scripts",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
