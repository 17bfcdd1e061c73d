package system

import (
	"time"

	"github.com/l1jgo/scenecore/internal/component"
	"github.com/l1jgo/scenecore/internal/core/ecs"
	"github.com/l1jgo/scenecore/internal/core/hierarchy"
	coresys "github.com/l1jgo/scenecore/internal/core/system"
)

// TransformSystem derives WorldTransform from the local Transforms along the
// scene hierarchy, roots first.
// Phase 2 (PostUpdate).
type TransformSystem struct {
	world *ecs.World
	tree  *hierarchy.Relationeer[component.Transform]
}

func NewTransformSystem(world *ecs.World, tree *hierarchy.Relationeer[component.Transform]) *TransformSystem {
	return &TransformSystem{world: world, tree: tree}
}

func (s *TransformSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *TransformSystem) Update(_ time.Duration) {
	transforms := ecs.PoolOf[component.Transform](s.world)
	ecs.ForEach(s.world, func(root ecs.Entity, th ecs.ComponentHandler[component.Transform]) {
		if !s.tree.IsRoot(root) {
			return
		}
		ecs.Add(s.world, root, th.Get().Root())
		s.tree.Walk(root, func(e ecs.Entity, _ int) bool {
			parent := *ecs.Get[component.WorldTransform](s.world, s.tree.GetParent(e)).Get()
			ecs.Add(s.world, e, transforms.Get(e).Compose(parent))
			return true
		})
	})
}
