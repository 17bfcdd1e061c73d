package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/scenecore/internal/component"
	"github.com/l1jgo/scenecore/internal/core/ecs"
	coresys "github.com/l1jgo/scenecore/internal/core/system"
)

// LifetimeSystem counts Lifetime down once per tick and requests destruction
// when it runs out. The entity lives until CleanupSystem validates the world.
// Phase 1 (Update).
type LifetimeSystem struct {
	world *ecs.World
	log   *zap.Logger
}

func NewLifetimeSystem(world *ecs.World, log *zap.Logger) *LifetimeSystem {
	return &LifetimeSystem{world: world, log: log}
}

func (s *LifetimeSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *LifetimeSystem) Update(_ time.Duration) {
	ecs.ForEach(s.world, func(e ecs.Entity, lh ecs.ComponentHandler[component.Lifetime]) {
		l := lh.Get()
		if l.Ticks > 0 {
			l.Ticks--
		}
		if l.Ticks == 0 {
			s.log.Debug("lifetime expired", zap.Stringer("entity", e))
			s.world.Destroy(e)
		}
	})
}
