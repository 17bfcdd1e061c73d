package scene

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
	"github.com/l1jgo/scenecore/internal/config"
	"github.com/l1jgo/scenecore/internal/core/ecs"
	"github.com/l1jgo/scenecore/internal/core/hierarchy"
	"github.com/l1jgo/scenecore/internal/core/service"
	"github.com/l1jgo/scenecore/internal/scripting"
)

const orbit = `
name: orbit
entities:
  - name: sun
    transform: {x: 10}
    velocity: {spin: 0.5}
  - name: planet
    parent: sun
    transform: {x: 2, scale_x: 2}
  - name: comet
    transform: {x: -1, y: -1}
    velocity: {x: 1}
    lifetime: 2
`

func TestParseDescription(t *testing.T) {
	desc, err := ParseDescription([]byte(orbit))
	require.NoError(t, err)
	assert.Equal(t, "orbit", desc.Name)
	require.Len(t, desc.Entities, 3)

	planet := desc.Entities[1]
	assert.Equal(t, "sun", planet.Parent)
	require.NotNil(t, planet.Transform)
	assert.Equal(t, component.Transform{X: 2, ScaleX: 2, ScaleY: 1}, planet.Transform.component())
	assert.Nil(t, planet.Velocity)
	assert.Equal(t, 2, desc.Entities[2].Lifetime)
}

func TestParseDescriptionErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		msg  string
	}{
		{"yaml", "entities: [", "parse scene"},
		{"unnamed", "entities:\n  - transform: {x: 1}\n", "has no name"},
		{"negative lifetime", "entities:\n  - name: a\n    lifetime: -1\n", "negative lifetime"},
		{"tween seconds", "entities:\n  - name: a\n    tween: {x: 1}\n", "positive seconds"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDescription([]byte(tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestBuild(t *testing.T) {
	desc, err := ParseDescription([]byte(orbit))
	require.NoError(t, err)

	w := ecs.NewWorld()
	tree := hierarchy.New[component.Transform](w)
	byName, err := Build(desc, w, tree, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, byName, 3)

	sun, planet, comet := byName["sun"], byName["planet"], byName["comet"]
	assert.Equal(t, sun, tree.GetParent(planet))
	assert.Equal(t, "comet", ecs.Get[component.Name](w, comet).Get().Value)
	assert.Equal(t, 2, ecs.Get[component.Lifetime](w, comet).Get().Ticks)
	assert.False(t, ecs.Has[component.Lifetime](w, sun))
	assert.False(t, ecs.Has[component.Velocity](w, planet))
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name     string
		entities []EntityDesc
		msg      string
	}{
		{
			name:     "duplicate",
			entities: []EntityDesc{{Name: "a"}, {Name: "a"}},
			msg:      "duplicate entity",
		},
		{
			name:     "unknown parent",
			entities: []EntityDesc{{Name: "a", Parent: "ghost", Transform: &TransformDesc{}}},
			msg:      "unknown parent",
		},
		{
			name:     "no transform",
			entities: []EntityDesc{{Name: "a"}, {Name: "b", Parent: "a", Transform: &TransformDesc{}}},
			msg:      "need a transform",
		},
		{
			name:     "tween without transform",
			entities: []EntityDesc{{Name: "a", Tween: &TweenDesc{Seconds: 1}}},
			msg:      "no transform",
		},
		{
			name:     "unknown ease",
			entities: []EntityDesc{{Name: "a", Transform: &TransformDesc{}, Tween: &TweenDesc{Seconds: 1, Ease: "wobble"}}},
			msg:      "unknown ease",
		},
		{
			name:     "self parent",
			entities: []EntityDesc{{Name: "a", Parent: "a", Transform: &TransformDesc{}}},
			msg:      "cycle",
		},
		{
			name: "cycle",
			entities: []EntityDesc{
				{Name: "a", Parent: "b", Transform: &TransformDesc{}},
				{Name: "b", Parent: "a", Transform: &TransformDesc{}},
			},
			msg: "cycle",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			tree := hierarchy.New[component.Transform](w)
			_, err := Build(&Description{Name: tc.name, Entities: tc.entities}, w, tree, zap.NewNop())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestBuildTween(t *testing.T) {
	desc, err := ParseDescription([]byte(`
entities:
  - name: door
    transform: {x: 0, y: 0}
    tween: {x: 4, y: 0, seconds: 2, ease: in_out_sine}
`))
	require.NoError(t, err)

	sc, err := New(testConfig(t, ""), desc, zap.NewNop())
	require.NoError(t, err)
	defer sc.Close()

	door := sc.Entities["door"]
	require.True(t, ecs.Has[component.Tween](sc.World(), door))
	sc.Tick(time.Second)
	assert.InDelta(t, 2.0, ecs.Get[component.Transform](sc.World(), door).Get().X, 1e-4)
	sc.Tick(time.Second)
	assert.InDelta(t, 4.0, ecs.Get[component.WorldTransform](sc.World(), door).Get().X, 1e-4)
	assert.False(t, ecs.Has[component.Tween](sc.World(), door))
}

func TestSceneCloseDetachesSystems(t *testing.T) {
	desc, err := ParseDescription([]byte(orbit))
	require.NoError(t, err)

	sc, err := New(testConfig(t, ""), desc, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, 1, ecs.OnRemoved[component.WorldTransform](sc.World()).Len())

	sc.Close()
	assert.Zero(t, ecs.OnRemoved[component.WorldTransform](sc.World()).Len())
}

func testConfig(t *testing.T, scripts string) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.Scripting.Enabled = scripts != ""
	cfg.Scripting.Dir = scripts
	return cfg
}

func TestSceneTicks(t *testing.T) {
	desc, err := ParseDescription([]byte(orbit))
	require.NoError(t, err)

	sc, err := New(testConfig(t, ""), desc, zap.NewNop())
	require.NoError(t, err)
	defer sc.Close()

	planet := sc.Entities["planet"]
	wt := ecs.Get[component.WorldTransform](sc.World(), planet).Get()
	assert.InDelta(t, 12.0, wt.X, 1e-9, "world transforms exist before the first tick")

	sc.Tick(time.Second)
	comet := sc.Entities["comet"]
	assert.InDelta(t, 0.0, ecs.Get[component.Transform](sc.World(), comet).Get().X, 1e-9)

	sc.Tick(time.Second)
	assert.False(t, sc.World().IsValid(comet), "comet expires after two ticks")
	assert.Equal(t, 2, sc.World().Len())
	assert.Equal(t, uint64(2), sc.Ticks())

	// the planet orbits the spinning sun
	wt = ecs.Get[component.WorldTransform](sc.World(), planet).Get()
	assert.InDelta(t, 1.0, wt.Rotation, 1e-9)

	_, ok := service.Get[*ecs.World](sc.Services)
	assert.True(t, ok)
	assert.Equal(t, 2, sc.Grid().Len(), "expired comet left the grid")
}

func TestSceneRunsScripts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "spawn.lua"), []byte(`
		function on_tick(dt)
			local p = world.spawn("probe", 0, 0)
			world.set_parent(p, world.find("sun"))
			seen = #world.nearby(10, 0, 0.5)
		end
	`), 0o644))

	desc, err := ParseDescription([]byte(orbit))
	require.NoError(t, err)
	sc, err := New(testConfig(t, dir), desc, zap.NewNop())
	require.NoError(t, err)
	defer sc.Close()

	sc.Tick(10 * time.Millisecond)
	assert.Equal(t, 4, sc.World().Len())
	assert.Len(t, sc.Tree().GetChildren(sc.Entities["sun"]), 2)

	// the grid was filled at setup, so the script saw the sun
	engine := service.MustGet[*scripting.Engine](sc.Services)
	assert.Equal(t, lua.LNumber(1), engine.Global("seen"))
}

func TestLoadDescription(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(orbit), 0o644))
	desc, err := LoadDescription(path)
	require.NoError(t, err)
	assert.Equal(t, "orbit", desc.Name)

	_, err = LoadDescription(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestWatcherReportsSceneEdits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(orbit), 0o644))

	w, err := NewWatcher(path, "")
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte(orbit+"\n"), 0o644))

	select {
	case got := <-w.Events:
		assert.Equal(t, path, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for scene edit")
	}

	require.NoError(t, w.Close())
	_, open := <-w.Events
	for open {
		_, open = <-w.Events
	}
}
