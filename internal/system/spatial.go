package system

import (
	"time"

	"github.com/l1jgo/scenecore/internal/component"
	"github.com/l1jgo/scenecore/internal/core/ecs"
	"github.com/l1jgo/scenecore/internal/core/event"
	coresys "github.com/l1jgo/scenecore/internal/core/system"
	"github.com/l1jgo/scenecore/internal/spatial"
)

// SpatialSystem keeps the proximity grid in step with WorldTransforms. It
// must be registered after TransformSystem. Entities leave the grid as soon
// as their WorldTransform is removed, destroyed entities included.
// Phase 2 (PostUpdate).
type SpatialSystem struct {
	world *ecs.World
	grid  *spatial.Grid
	conn  event.Connection
}

func NewSpatialSystem(world *ecs.World, grid *spatial.Grid) *SpatialSystem {
	conn := ecs.OnRemoved[component.WorldTransform](world).Connect(func(ev ecs.ComponentEvent[component.WorldTransform]) {
		grid.Remove(ev.Entity)
	})
	return &SpatialSystem{world: world, grid: grid, conn: conn}
}

// Close detaches the system from the world's removal notifications. The grid
// keeps whatever it held.
func (s *SpatialSystem) Close() {
	ecs.OnRemoved[component.WorldTransform](s.world).Disconnect(s.conn)
	s.conn = event.Connection{}
}

func (s *SpatialSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *SpatialSystem) Update(_ time.Duration) {
	ecs.ForEach(s.world, func(e ecs.Entity, wh ecs.ComponentHandler[component.WorldTransform]) {
		wt := wh.Get()
		s.grid.Place(e, wt.X, wt.Y)
	})
}
