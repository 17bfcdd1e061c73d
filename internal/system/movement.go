package system

import (
	"time"

	"github.com/l1jgo/scenecore/internal/component"
	"github.com/l1jgo/scenecore/internal/core/ecs"
	coresys "github.com/l1jgo/scenecore/internal/core/system"
)

// MovementSystem integrates Velocity into the local Transform.
// Phase 1 (Update).
type MovementSystem struct {
	world *ecs.World
}

func NewMovementSystem(world *ecs.World) *MovementSystem {
	return &MovementSystem{world: world}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MovementSystem) Update(dt time.Duration) {
	sec := dt.Seconds()
	ecs.ForEach2(s.world, func(_ ecs.Entity, th ecs.ComponentHandler[component.Transform], vh ecs.ComponentHandler[component.Velocity]) {
		t, v := th.Get(), vh.Get()
		t.X += v.X * sec
		t.Y += v.Y * sec
		t.Rotation += v.Spin * sec
	})
}
