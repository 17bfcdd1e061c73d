package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/scenecore/internal/component"
	"github.com/l1jgo/scenecore/internal/core/ecs"
	"github.com/l1jgo/scenecore/internal/core/hierarchy"
	"github.com/l1jgo/scenecore/internal/spatial"
)

const entityTypeName = "scenecore.entity"

// Engine wraps a single gopher-lua VM bound to one scene's World.
// Single-goroutine access only (game loop).
//
// Scripts see a global `world` table (see module) and may define
// on_tick(dt) which Tick calls once per frame with dt in seconds.
type Engine struct {
	vm    *lua.LState
	mod   *lua.LTable
	log   *zap.Logger
	world *ecs.World
	tree  *hierarchy.Relationeer[component.Transform]
	grid  *spatial.Grid
}

// NewEngine creates a Lua engine and loads every .lua file in scriptsDir in
// name order. An empty or missing directory loads nothing.
func NewEngine(scriptsDir string, world *ecs.World, tree *hierarchy.Relationeer[component.Transform], log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log, world: world, tree: tree}
	e.registerEntityType()
	e.mod = e.module()
	vm.SetGlobal("world", e.mod)
	vm.SetGlobal("log", vm.NewFunction(e.luaLog))

	if scriptsDir != "" {
		if err := e.loadDir(scriptsDir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
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

// BindGrid exposes world.nearby(x, y, radius) backed by g. Call it before
// the first Tick so on_tick can rely on it.
func (e *Engine) BindGrid(g *spatial.Grid) {
	e.grid = g
	e.vm.SetField(e.mod, "nearby", e.vm.NewFunction(e.guard(e.luaNearby)))
}

// LoadString runs src as a chunk named name.
func (e *Engine) LoadString(name, src string) error {
	fn, err := e.vm.Load(strings.NewReader(src), name)
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	e.vm.Push(fn)
	if err := e.vm.PCall(0, lua.MultRet, nil); err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}
	return nil
}

// Tick calls the global on_tick function, if the scripts define one.
func (e *Engine) Tick(dt time.Duration) error {
	fn := e.vm.GetGlobal("on_tick")
	if fn == lua.LNil {
		return nil
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(dt.Seconds())); err != nil {
		return fmt.Errorf("lua on_tick: %w", err)
	}
	return nil
}

// Global returns a global Lua value, for inspection by tools and tests.
func (e *Engine) Global(name string) lua.LValue {
	return e.vm.GetGlobal(name)
}

func (e *Engine) Close() {
	e.vm.Close()
}

// ── world module ─────────────────────────────────────────────────

func (e *Engine) module() *lua.LTable {
	return e.vm.SetFuncs(e.vm.NewTable(), map[string]lua.LGFunction{
		"create":       e.guard(e.luaCreate),
		"spawn":        e.guard(e.luaSpawn),
		"destroy":      e.guard(e.luaDestroy),
		"valid":        e.guard(e.luaValid),
		"count":        e.guard(e.luaCount),
		"position":     e.guard(e.luaPosition),
		"move_to":      e.guard(e.luaMoveTo),
		"set_velocity": e.guard(e.luaSetVelocity),
		"set_lifetime": e.guard(e.luaSetLifetime),
		"tween_to":     e.guard(e.luaTweenTo),
		"set_parent":   e.guard(e.luaSetParent),
		"make_root":    e.guard(e.luaMakeRoot),
		"parent":       e.guard(e.luaParent),
		"children":     e.guard(e.luaChildren),
		"find":         e.guard(e.luaFind),
	})
}

// guard turns the fail-fast panics of the ecs and hierarchy packages into Lua
// errors, so a buggy script fails its own call instead of the game loop.
func (e *Engine) guard(fn lua.LGFunction) lua.LGFunction {
	return func(L *lua.LState) int {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if _, ok := r.(*lua.ApiError); ok {
				panic(r)
			}
			if err, ok := r.(error); ok {
				L.RaiseError("%s", err.Error())
			}
			panic(r)
		}()
		return fn(L)
	}
}

func (e *Engine) registerEntityType() {
	mt := e.vm.NewTypeMetatable(entityTypeName)
	e.vm.SetField(mt, "__tostring", e.vm.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(checkEntity(L, 1).String()))
		return 1
	}))
	e.vm.SetField(mt, "__eq", e.vm.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(checkEntity(L, 1) == checkEntity(L, 2)))
		return 1
	}))
}

func (e *Engine) pushEntity(L *lua.LState, ent ecs.Entity) {
	if ent.IsNull() {
		L.Push(lua.LNil)
		return
	}
	ud := L.NewUserData()
	ud.Value = ent
	L.SetMetatable(ud, L.GetTypeMetatable(entityTypeName))
	L.Push(ud)
}

func checkEntity(L *lua.LState, n int) ecs.Entity {
	ud := L.CheckUserData(n)
	ent, ok := ud.Value.(ecs.Entity)
	if !ok {
		L.ArgError(n, "entity expected")
	}
	return ent
}

func (e *Engine) luaCreate(L *lua.LState) int {
	e.pushEntity(L, e.world.Create())
	return 1
}

func (e *Engine) luaSpawn(L *lua.LState) int {
	name := L.CheckString(1)
	t := component.Identity()
	t.X = float64(L.OptNumber(2, 0))
	t.Y = float64(L.OptNumber(3, 0))

	ent := e.world.Create()
	ecs.Add(e.world, ent, component.Name{Value: name})
	ecs.Add(e.world, ent, t)
	e.pushEntity(L, ent)
	return 1
}

func (e *Engine) luaDestroy(L *lua.LState) int {
	e.world.Destroy(checkEntity(L, 1))
	return 0
}

func (e *Engine) luaValid(L *lua.LState) int {
	L.Push(lua.LBool(e.world.IsValid(checkEntity(L, 1))))
	return 1
}

func (e *Engine) luaCount(L *lua.LState) int {
	L.Push(lua.LNumber(e.world.Len()))
	return 1
}

func (e *Engine) luaPosition(L *lua.LState) int {
	t := ecs.Get[component.Transform](e.world, checkEntity(L, 1)).Get()
	L.Push(lua.LNumber(t.X))
	L.Push(lua.LNumber(t.Y))
	return 2
}

func (e *Engine) luaMoveTo(L *lua.LState) int {
	ent := checkEntity(L, 1)
	x, y := float64(L.CheckNumber(2)), float64(L.CheckNumber(3))
	if h, ok := ecs.TryGet[component.Transform](e.world, ent); ok {
		t := h.Get()
		t.X, t.Y = x, y
		return 0
	}
	t := component.Identity()
	t.X, t.Y = x, y
	ecs.Add(e.world, ent, t)
	return 0
}

func (e *Engine) luaSetVelocity(L *lua.LState) int {
	ent := checkEntity(L, 1)
	ecs.Add(e.world, ent, component.Velocity{
		X:    float64(L.CheckNumber(2)),
		Y:    float64(L.CheckNumber(3)),
		Spin: float64(L.OptNumber(4, 0)),
	})
	return 0
}

func (e *Engine) luaSetLifetime(L *lua.LState) int {
	ent := checkEntity(L, 1)
	ticks := L.CheckInt(2)
	if ticks <= 0 {
		L.ArgError(2, "ticks must be positive")
	}
	ecs.Add(e.world, ent, component.Lifetime{Ticks: ticks})
	return 0
}

// tween_to(e, x, y, seconds[, ease]) slides e from where it is now.
func (e *Engine) luaTweenTo(L *lua.LState) int {
	ent := checkEntity(L, 1)
	x, y := float64(L.CheckNumber(2)), float64(L.CheckNumber(3))
	seconds := float32(L.CheckNumber(4))
	if seconds <= 0 {
		L.ArgError(4, "seconds must be positive")
	}
	fn, ok := component.Easing(L.OptString(5, "linear"))
	if !ok {
		L.ArgError(5, "unknown ease")
	}
	t := ecs.Get[component.Transform](e.world, ent).Get()
	ecs.Add(e.world, ent, component.NewTween(t.X, t.Y, x, y, seconds, fn))
	return 0
}

func (e *Engine) luaSetParent(L *lua.LState) int {
	e.tree.SetParent(checkEntity(L, 1), checkEntity(L, 2))
	return 0
}

func (e *Engine) luaMakeRoot(L *lua.LState) int {
	e.tree.MakeRoot(checkEntity(L, 1))
	return 0
}

func (e *Engine) luaParent(L *lua.LState) int {
	e.pushEntity(L, e.tree.GetParent(checkEntity(L, 1)))
	return 1
}

func (e *Engine) luaChildren(L *lua.LState) int {
	t := L.NewTable()
	for _, c := range e.tree.GetChildren(checkEntity(L, 1)) {
		e.pushEntity(L, c)
		t.Append(L.Get(-1))
		L.Pop(1)
	}
	L.Push(t)
	return 1
}

func (e *Engine) luaFind(L *lua.LState) int {
	name := L.CheckString(1)
	found := ecs.Null
	ecs.ForEach(e.world, func(ent ecs.Entity, nh ecs.ComponentHandler[component.Name]) {
		if found.IsNull() && nh.Get().Value == name {
			found = ent
		}
	})
	e.pushEntity(L, found)
	return 1
}

func (e *Engine) luaNearby(L *lua.LState) int {
	x := float64(L.CheckNumber(1))
	y := float64(L.CheckNumber(2))
	r := float64(L.CheckNumber(3))
	t := L.NewTable()
	for _, ent := range e.grid.Nearby(x, y, r) {
		if !e.world.IsValid(ent) {
			continue
		}
		e.pushEntity(L, ent)
		t.Append(L.Get(-1))
		L.Pop(1)
	}
	L.Push(t)
	return 1
}

func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info("lua", zap.String("msg", L.CheckString(1)))
	return 0
}
