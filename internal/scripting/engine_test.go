package scripting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/scenecore/internal/component"
	"github.com/l1jgo/scenecore/internal/core/ecs"
	"github.com/l1jgo/scenecore/internal/core/hierarchy"
)

func newEngine(t *testing.T, dir string) (*Engine, *ecs.World, *hierarchy.Relationeer[component.Transform]) {
	t.Helper()
	w := ecs.NewWorld()
	tree := hierarchy.New[component.Transform](w)
	e, err := NewEngine(dir, w, tree, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e, w, tree
}

func TestSpawnFindAndParent(t *testing.T) {
	e, w, tree := newEngine(t, "")
	require.NoError(t, e.LoadString("setup", `
		local sun = world.spawn("sun", 1, 2)
		local planet = world.spawn("planet")
		world.set_parent(planet, sun)
		found = world.find("planet") == planet
		parent_ok = world.parent(planet) == sun
		root_parent = world.parent(sun)
		kids = #world.children(sun)
		total = world.count()
	`))

	assert.Equal(t, lua.LTrue, e.Global("found"))
	assert.Equal(t, lua.LTrue, e.Global("parent_ok"))
	assert.Equal(t, lua.LNil, e.Global("root_parent"))
	assert.Equal(t, lua.LNumber(1), e.Global("kids"))
	assert.Equal(t, lua.LNumber(2), e.Global("total"))
	assert.Equal(t, 2, w.Len())

	var planet ecs.Entity
	ecs.ForEach(w, func(ent ecs.Entity, nh ecs.ComponentHandler[component.Name]) {
		if nh.Get().Value == "planet" {
			planet = ent
		}
	})
	require.False(t, planet.IsNull())
	assert.False(t, tree.IsRoot(planet))
}

func TestMovementBindings(t *testing.T) {
	e, w, _ := newEngine(t, "")
	require.NoError(t, e.LoadString("move", `
		local p = world.create()
		world.move_to(p, 3, 4)
		world.set_velocity(p, 1, 0, 0.5)
		world.set_lifetime(p, 10)
		x, y = world.position(p)
	`))
	assert.Equal(t, lua.LNumber(3), e.Global("x"))
	assert.Equal(t, lua.LNumber(4), e.Global("y"))

	ent := w.Entities()[0]
	assert.Equal(t, component.Velocity{X: 1, Spin: 0.5}, *ecs.Get[component.Velocity](w, ent).Get())
	assert.Equal(t, 10, ecs.Get[component.Lifetime](w, ent).Get().Ticks)
	assert.Equal(t, 1.0, ecs.Get[component.Transform](w, ent).Get().ScaleX)
}

func TestTweenTo(t *testing.T) {
	e, w, _ := newEngine(t, "")
	require.NoError(t, e.LoadString("tween", `
		local p = world.spawn("p", 1, 1)
		world.tween_to(p, 5, 5, 2, "out_cubic")
	`))
	ent := w.Entities()[0]
	assert.True(t, ecs.Has[component.Tween](w, ent))

	err := e.LoadString("bad", `world.tween_to(world.spawn("q"), 1, 1, 1, "wobble")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown ease")

	err = e.LoadString("bare", `world.tween_to(world.create(), 1, 1, 1)`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing component")
}

func TestFailFastBecomesLuaError(t *testing.T) {
	e, w, _ := newEngine(t, "")
	require.NoError(t, e.LoadString("stale", `
		stale = world.create()
		world.destroy(stale)
	`))
	w.Validate()

	err := e.LoadString("use", `world.position(stale)`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entity not alive")

	require.NoError(t, e.LoadString("check", `ok = world.valid(stale)`))
	assert.Equal(t, lua.LFalse, e.Global("ok"))

	err = e.LoadString("cycle", `
		local a = world.spawn("a")
		world.set_parent(a, a)
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot parent itself")
}

func TestTickCallsOnTick(t *testing.T) {
	e, _, _ := newEngine(t, "")
	require.NoError(t, e.Tick(time.Second), "no on_tick is fine")

	require.NoError(t, e.LoadString("tick", `
		total = 0
		function on_tick(dt) total = total + dt end
	`))
	require.NoError(t, e.Tick(250*time.Millisecond))
	require.NoError(t, e.Tick(250*time.Millisecond))
	assert.Equal(t, lua.LNumber(0.5), e.Global("total"))

	require.NoError(t, e.LoadString("broken", `function on_tick(dt) error("boom") end`))
	err := e.Tick(time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestLoadDirInNameOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lua"), []byte(`order = order .. "b"`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte(`order = "a"`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`not lua`), 0o644))

	e, _, _ := newEngine(t, dir)
	assert.Equal(t, lua.LString("ab"), e.Global("order"))
	assert.Equal(t, lua.LNumber(1), e.Global("API_VERSION"))
}

func TestMissingDirLoadsNothing(t *testing.T) {
	e, _, _ := newEngine(t, filepath.Join(t.TempDir(), "absent"))
	assert.Equal(t, lua.LNil, e.Global("on_tick"))
}

func TestBadScriptFailsEngine(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.lua"), []byte(`this is not lua`), 0o644))
	_, err := NewEngine(dir, ecs.NewWorld(), nil, zap.NewNop())
	require.Error(t, err)
}
