// Package scene assembles a runnable scene: a World with its hierarchy
// overlay and proximity grid, the systems that tick it and the optional Lua
// engine, all reachable through one service registry.
package scene

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/l1jgo/scenecore/internal/component"
	"github.com/l1jgo/scenecore/internal/config"
	"github.com/l1jgo/scenecore/internal/core/ecs"
	"github.com/l1jgo/scenecore/internal/core/hierarchy"
	"github.com/l1jgo/scenecore/internal/core/service"
	coresys "github.com/l1jgo/scenecore/internal/core/system"
	"github.com/l1jgo/scenecore/internal/scripting"
	"github.com/l1jgo/scenecore/internal/spatial"
	"github.com/l1jgo/scenecore/internal/system"
)

// Tree is the scene graph type shared by systems and scripts.
type Tree = hierarchy.Relationeer[component.Transform]

type Scene struct {
	Name     string
	Entities map[string]ecs.Entity
	Services *service.Registry

	world      *ecs.World
	tree       *Tree
	grid       *spatial.Grid
	runner     *coresys.Runner
	spatialSys *system.SpatialSystem
	engine     *scripting.Engine
	log        *zap.Logger
}

// New builds a scene from desc.
func New(cfg *config.Config, desc *Description, log *zap.Logger) (*Scene, error) {
	log = log.With(zap.String("scene", desc.Name))

	world := ecs.NewWorld(ecs.WithLogger(log), ecs.WithEntityCapacity(cfg.World.EntityCapacity))
	tree := hierarchy.New[component.Transform](world)

	entities, err := Build(desc, world, tree, log)
	if err != nil {
		tree.Close()
		return nil, err
	}

	reg := service.NewRegistry()
	service.Provide(reg, log)
	service.Provide(reg, world)
	service.Provide(reg, tree)
	grid := spatial.NewGrid(cfg.Spatial.CellSize)
	service.Provide(reg, grid)

	var engine *scripting.Engine
	if cfg.Scripting.Enabled {
		engine, err = scripting.NewEngine(cfg.Scripting.Dir, world, tree, log)
		if err != nil {
			tree.Close()
			return nil, eris.Wrapf(err, "scene %s", desc.Name)
		}
		engine.BindGrid(grid)
		service.Provide(reg, engine)
	}

	runner, spatialSys := registerSystems(reg)
	service.Provide(reg, runner)

	// Derive world transforms and the grid once so the first frame sees them.
	runner.TickPhase(coresys.PhasePostUpdate, 0)

	return &Scene{
		Name:       desc.Name,
		Entities:   entities,
		Services:   reg,
		world:      world,
		tree:       tree,
		grid:       grid,
		runner:     runner,
		spatialSys: spatialSys,
		engine:     engine,
		log:        log,
	}, nil
}

// registerSystems creates the scene's systems from the services in reg.
func registerSystems(reg *service.Registry) (*coresys.Runner, *system.SpatialSystem) {
	log := service.MustGet[*zap.Logger](reg)
	world := service.MustGet[*ecs.World](reg)
	tree := service.MustGet[*Tree](reg)
	grid := service.MustGet[*spatial.Grid](reg)

	runner := coresys.NewRunner()
	if engine, ok := service.Get[*scripting.Engine](reg); ok {
		runner.Register(system.NewScriptSystem(engine, log))
	}
	runner.Register(system.NewMovementSystem(world))
	runner.Register(system.NewTweenSystem(world))
	runner.Register(system.NewLifetimeSystem(world, log))
	runner.Register(system.NewTransformSystem(world, tree))
	spatialSys := system.NewSpatialSystem(world, grid)
	runner.Register(spatialSys)
	runner.Register(system.NewCleanupSystem(world))
	return runner, spatialSys
}

func (s *Scene) World() *ecs.World { return s.world }
func (s *Scene) Tree() *Tree       { return s.tree }

// Grid returns the proximity index, current as of the last tick.
func (s *Scene) Grid() *spatial.Grid { return s.grid }

// Tick runs one frame of every system.
func (s *Scene) Tick(dt time.Duration) {
	s.runner.Tick(dt)
}

// Ticks returns the number of frames run so far.
func (s *Scene) Ticks() uint64 { return s.runner.Ticks() }

// Close releases the Lua VM and detaches the hierarchy overlay and the grid
// from the world.
func (s *Scene) Close() {
	if s.engine != nil {
		s.engine.Close()
	}
	s.spatialSys.Close()
	s.tree.Close()
	s.log.Debug("scene closed", zap.Uint64("ticks", s.runner.Ticks()), zap.Int("entities", s.world.Len()))
}
