package scripting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for NPC behavior hooks.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every script under
// scriptsDir/core and scriptsDir/ai. Missing directories are skipped.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	for _, sub := range []string{"core", "ai"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString runs a chunk of Lua source in the engine's VM.
func (e *Engine) LoadString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("load lua source: %w", err)
	}
	return nil
}

// HasFunction reports whether a global Lua function named name is defined.
func (e *Engine) HasFunction(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// NpcContext is the per-tick view an NPC script decides on. Distances are
// planar (XZ).
type NpcContext struct {
	NpcID       int
	UID         string
	HP, MaxHP   int
	X, Z        float64
	TargetX     float64
	TargetZ     float64
	TargetDist  float64
	AttackRange float64
	SearchRange float64
	MoveSpeed   float64
	CanAttack   bool // attack cooldown elapsed
	CanMove     bool
}

// NpcDecision is what an NPC does this tick. (MoveX, MoveZ) is a direction;
// the caller normalizes it and applies speed.
type NpcDecision struct {
	MoveX, MoveZ float64
	Attack       bool
}

// DefaultDecision chases the target inside search range and attacks once in
// attack range. Used when no npc_think script is loaded or it fails.
func DefaultDecision(ctx NpcContext) NpcDecision {
	if ctx.TargetDist > ctx.SearchRange {
		return NpcDecision{}
	}
	if ctx.TargetDist <= ctx.AttackRange {
		return NpcDecision{Attack: ctx.CanAttack}
	}
	if !ctx.CanMove || ctx.TargetDist == 0 {
		return NpcDecision{}
	}
	return NpcDecision{
		MoveX: (ctx.TargetX - ctx.X) / ctx.TargetDist,
		MoveZ: (ctx.TargetZ - ctx.Z) / ctx.TargetDist,
	}
}

// NpcThink calls Lua npc_think(ctx) and returns its decision. The script
// returns a table {dx=, dz=, attack=}; any failure falls back to
// DefaultDecision.
func (e *Engine) NpcThink(ctx NpcContext) NpcDecision {
	fn := e.vm.GetGlobal("npc_think")
	if fn == lua.LNil {
		return DefaultDecision(ctx)
	}

	t := e.vm.NewTable()
	t.RawSetString("npc_id", lua.LNumber(ctx.NpcID))
	t.RawSetString("uid", lua.LString(ctx.UID))
	t.RawSetString("hp", lua.LNumber(ctx.HP))
	t.RawSetString("max_hp", lua.LNumber(ctx.MaxHP))
	t.RawSetString("x", lua.LNumber(ctx.X))
	t.RawSetString("z", lua.LNumber(ctx.Z))
	t.RawSetString("target_x", lua.LNumber(ctx.TargetX))
	t.RawSetString("target_z", lua.LNumber(ctx.TargetZ))
	t.RawSetString("target_dist", lua.LNumber(ctx.TargetDist))
	t.RawSetString("attack_range", lua.LNumber(ctx.AttackRange))
	t.RawSetString("search_range", lua.LNumber(ctx.SearchRange))
	t.RawSetString("move_speed", lua.LNumber(ctx.MoveSpeed))
	t.RawSetString("can_attack", lua.LBool(ctx.CanAttack))
	t.RawSetString("can_move", lua.LBool(ctx.CanMove))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua npc_think error", zap.Error(err), zap.String("npc", ctx.UID))
		return DefaultDecision(ctx)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return NpcDecision{}
	}
	d := NpcDecision{
		MoveX:  lFloat(rt, "dx"),
		MoveZ:  lFloat(rt, "dz"),
		Attack: lua.LVAsBool(rt.RawGetString("attack")),
	}
	if math.IsNaN(d.MoveX) || math.IsNaN(d.MoveZ) {
		d.MoveX, d.MoveZ = 0, 0
	}
	return d
}

// NpcDamage lets calc_npc_damage(npc_id, base) adjust an NPC hit. Without
// the function the base damage is used unchanged.
func (e *Engine) NpcDamage(npcID, base int) int {
	if !e.HasFunction("calc_npc_damage") {
		return base
	}
	return max(0, e.callIntFunc("calc_npc_damage", base, npcID, base))
}

// --- Lua helpers ---

func lFloat(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}

// callIntFunc calls a Lua function with int args; fallback is returned on error.
func (e *Engine) callIntFunc(name string, fallback int, args ...int) int {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		e.log.Error("lua function not found", zap.String("name", name))
		return fallback
	}

	lArgs := make([]lua.LValue, len(args))
	for i, a := range args {
		lArgs[i] = lua.LNumber(a)
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lArgs...); err != nil {
		e.log.Error("lua call error", zap.String("func", name), zap.Error(err))
		return fallback
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return int(lua.LVAsNumber(result))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
