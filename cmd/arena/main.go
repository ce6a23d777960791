package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mpsoul/arena/internal/actor"
	"github.com/mpsoul/arena/internal/config"
	"github.com/mpsoul/arena/internal/data"
	"github.com/mpsoul/arena/internal/geom"
	"github.com/mpsoul/arena/internal/persist"
	"github.com/mpsoul/arena/internal/pool"
	"github.com/mpsoul/arena/internal/room"
	"github.com/mpsoul/arena/internal/scripting"
	"github.com/mpsoul/arena/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

var printer = message.NewPrinter(language.English)

func printBanner(stageID int) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              arena  v0.1.0                \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        headless battle session            \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mstage:\033[0m %d\n\n", stageID)
}

func printSection(title string) {
	lineLen := max(3, 46-len(title)-1)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := printer.Sprintf("%d", count)
	dotsLen := max(3, 42-len(label)-len(numStr))
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main logic ────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath, err := config.Path()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Session.StageID)

	// 3. Result store
	printSection("database")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	results, err := persist.OpenResultRepo(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if results != nil {
		defer results.Close()
		printOK(fmt.Sprintf("%s result store ready", cfg.Database.Driver))
	} else {
		printOK("result store disabled")
	}
	fmt.Println()

	// 4. Data tables and scripts
	printSection("data")
	catalog, err := data.LoadCatalog(cfg.Data.Stages, cfg.Data.Npcs)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	printStat("stages", catalog.Stages.Count())
	printStat("npc templates", catalog.Npcs.Count())

	engine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer engine.Close()
	if engine.HasFunction("npc_think") {
		printOK("npc_think script loaded")
	} else {
		printOK("npc_think not found, using built-in chase")
	}
	fmt.Println()

	// 5. Pools, actors, room
	npcs := pool.NewNpcPool(func(npcID int, prefab string) (world.NPC, error) {
		return actor.NewNpc(npcID, prefab, engine), nil
	}, log)
	huds, err := pool.NewHUDPool(cfg.Session.HUDPoolKey, func() world.HUD { return &overheadHUD{} }, cfg.Session.HUDPreload, log)
	if err != nil {
		return fmt.Errorf("hud pool: %w", err)
	}

	rec := &recorder{log: log}
	var rm *room.Room
	player := actor.NewPlayer("player", actor.DefaultPlayerStats(), geom.Transform{}, func() []world.NPC {
		return rm.Npcs()
	})
	rm = room.New(room.Config{
		EnemyPoolKey:   cfg.Session.EnemyPoolKey,
		FallbackPrefab: cfg.Session.FallbackPrefab,
		Seed:           cfg.Session.Seed,
	}, room.Deps{
		Catalog:  catalog,
		Player:   player,
		Pool:     npcs,
		HUDs:     huds,
		Notifier: rec,
		Log:      log,
	})
	rm.OnSecondTick(func(s int) {
		if s > 0 && s%10 == 0 {
			log.Info("battle progress",
				zap.Int("second", s),
				zap.Int("alive", rm.AliveEnemyCount()),
				zap.Int("player_hp", player.HP()))
		}
	})

	if err := rm.InitializeStage(cfg.Session.StageID); err != nil {
		return err
	}
	rm.StartBattle()

	// 6. Main loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	restartCh := make(chan os.Signal, 1)
	signal.Notify(restartCh, syscall.SIGHUP)

	ticker := time.NewTicker(cfg.Session.TickRate)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if cfg.Session.MaxWallTime > 0 {
		deadline = time.After(cfg.Session.MaxWallTime)
	}

	printSection("battle")
	printReady(fmt.Sprintf("stage %d, %s long (tick: %s)", cfg.Session.StageID, rm.StageDuration(), cfg.Session.TickRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			rm.Advance(cfg.Session.TickRate)
			if rm.IsLevelOver() {
				return finish(rec, results, log)
			}
		case <-restartCh:
			log.Info("restart requested")
			if err := rm.RestartLevel(); err != nil {
				return err
			}
		case <-deadline:
			log.Warn("wall time limit reached", zap.Duration("limit", cfg.Session.MaxWallTime))
			rm.EndLevel(false)
			return finish(rec, results, log)
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			return finish(rec, results, log)
		}
	}
}

func finish(rec *recorder, results persist.ResultRepo, log *zap.Logger) error {
	pending := rec.drain()
	printSection("results")
	for _, r := range pending {
		outcome := "loss"
		if r.Win {
			outcome = "win"
		}
		printReady(printer.Sprintf("run %s: %s in %v", r.RunID.String()[:8], outcome, r.Elapsed.Round(time.Millisecond)))
		printStat("spawned", r.Spawned)
		printStat("killed", r.Killed)
		if r.Dropped > 0 {
			printStat("dropped spawns", r.Dropped)
		}
	}
	if results == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := results.SaveBatch(ctx, pending); err != nil {
		return fmt.Errorf("save results: %w", err)
	}
	recent, err := results.Recent(ctx, 5)
	if err != nil {
		log.Warn("load recent results failed", zap.Error(err))
		return nil
	}
	wins := 0
	for _, r := range recent {
		if r.Win {
			wins++
		}
	}
	printStat("recent wins (last 5)", wins)
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
