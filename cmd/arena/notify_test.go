package main

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mpsoul/arena/internal/config"
	"github.com/mpsoul/arena/internal/room"
	"go.uber.org/zap"
)

func TestRecorderCollectsResults(t *testing.T) {
	rec := &recorder{log: zap.NewNop()}
	rec.OnEnemyCountChanged(3)
	rec.OnEnemyCountChanged(-1)
	if rec.alive != 2 {
		t.Fatalf("alive = %d, want 2", rec.alive)
	}

	id := uuid.New()
	rec.OnBattleFinished(room.Result{
		RunID:   id,
		StageID: 2,
		Win:     true,
		Elapsed: 90 * time.Second,
		Stats:   room.Stats{Spawned: 12, Killed: 12, Dropped: 1},
	})
	got := rec.drain()
	if len(got) != 1 {
		t.Fatalf("drained %d results, want 1", len(got))
	}
	r := got[0]
	if r.RunID != id || r.StageID != 2 || !r.Win || r.Killed != 12 || r.Dropped != 1 {
		t.Errorf("result = %+v", r)
	}
	if r.FinishedAt.IsZero() {
		t.Error("FinishedAt should be stamped")
	}
	if len(rec.drain()) != 0 {
		t.Error("second drain should be empty")
	}
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		log, err := newLogger(config.LoggingConfig{Level: "loud", Format: format})
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if log.Core().Enabled(zap.DebugLevel) {
			t.Errorf("%s: unknown level should fall back to info", format)
		}
	}
}
