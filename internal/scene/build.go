package scene

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/l1jgo/scenecore/internal/component"
	"github.com/l1jgo/scenecore/internal/core/ecs"
	"github.com/l1jgo/scenecore/internal/core/hierarchy"
)

// Build creates the entities of desc in w and links parents by name. It
// returns the entities keyed by name. On error w may hold a partial scene
// and should be discarded.
func Build(desc *Description, w *ecs.World, tree *hierarchy.Relationeer[component.Transform], log *zap.Logger) (map[string]ecs.Entity, error) {
	byName := make(map[string]ecs.Entity, len(desc.Entities))

	for _, d := range desc.Entities {
		if _, dup := byName[d.Name]; dup {
			return nil, eris.Errorf("build scene: duplicate entity %q", d.Name)
		}
		e := w.Create()
		byName[d.Name] = e

		ecs.Add(w, e, component.Name{Value: d.Name})
		if d.Transform != nil {
			ecs.Add(w, e, d.Transform.component())
		}
		if d.Velocity != nil {
			ecs.Add(w, e, component.Velocity{X: d.Velocity.X, Y: d.Velocity.Y, Spin: d.Velocity.Spin})
		}
		if d.Tween != nil {
			if d.Transform == nil {
				return nil, eris.Errorf("build scene: %q has a tween but no transform", d.Name)
			}
			fn, ok := component.Easing(d.Tween.Ease)
			if !ok {
				return nil, eris.Errorf("build scene: %q uses unknown ease %q", d.Name, d.Tween.Ease)
			}
			ecs.Add(w, e, component.NewTween(d.Transform.X, d.Transform.Y, d.Tween.X, d.Tween.Y, float32(d.Tween.Seconds), fn))
		}
		if d.Lifetime > 0 {
			ecs.Add(w, e, component.Lifetime{Ticks: d.Lifetime})
		}
	}

	for _, d := range desc.Entities {
		if d.Parent == "" {
			continue
		}
		child := byName[d.Name]
		parent, ok := byName[d.Parent]
		if !ok {
			return nil, eris.Errorf("build scene: %q has unknown parent %q", d.Name, d.Parent)
		}
		if !ecs.Has[component.Transform](w, child) || !ecs.Has[component.Transform](w, parent) {
			return nil, eris.Errorf("build scene: %q and parent %q both need a transform", d.Name, d.Parent)
		}
		if child == parent || tree.IsChildrenOf(parent, child) {
			return nil, eris.Errorf("build scene: parenting %q under %q makes a cycle", d.Name, d.Parent)
		}
		tree.SetParent(child, parent)
	}

	log.Debug("scene built",
		zap.String("scene", desc.Name),
		zap.Int("entities", len(byName)))
	return byName, nil
}

func (t *TransformDesc) component() component.Transform {
	out := component.Transform{X: t.X, Y: t.Y, Rotation: t.Rotation, ScaleX: t.ScaleX, ScaleY: t.ScaleY}
	if out.ScaleX == 0 {
		out.ScaleX = 1
	}
	if out.ScaleY == 0 {
		out.ScaleY = 1
	}
	return out
}
