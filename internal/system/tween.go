package system

import (
	"time"

	"github.com/l1jgo/scenecore/internal/component"
	"github.com/l1jgo/scenecore/internal/core/ecs"
	coresys "github.com/l1jgo/scenecore/internal/core/system"
)

// TweenSystem advances position tweens and drops the finished ones.
// Phase 1 (Update).
type TweenSystem struct {
	world *ecs.World
	done  []ecs.Entity
}

func NewTweenSystem(world *ecs.World) *TweenSystem {
	return &TweenSystem{world: world}
}

func (s *TweenSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *TweenSystem) Update(dt time.Duration) {
	sec := float32(dt.Seconds())
	ecs.ForEach2(s.world, func(e ecs.Entity, th ecs.ComponentHandler[component.Transform], wh ecs.ComponentHandler[component.Tween]) {
		t, tw := th.Get(), wh.Get()
		x, doneX := tw.X.Update(sec)
		y, doneY := tw.Y.Update(sec)
		t.X, t.Y = float64(x), float64(y)
		if doneX && doneY {
			s.done = append(s.done, e)
		}
	})
	// Tweens cannot be removed while their pool is being iterated.
	for _, e := range s.done {
		ecs.Remove[component.Tween](s.world, e)
	}
	clear(s.done)
	s.done = s.done[:0]
}
