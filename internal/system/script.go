package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/l1jgo/scenecore/internal/core/system"
	"github.com/l1jgo/scenecore/internal/scripting"
)

// ScriptSystem runs the scene's Lua on_tick hook. Script errors are logged
// and the tick goes on.
// Phase 0 (PreUpdate).
type ScriptSystem struct {
	engine *scripting.Engine
	log    *zap.Logger
}

func NewScriptSystem(engine *scripting.Engine, log *zap.Logger) *ScriptSystem {
	return &ScriptSystem{engine: engine, log: log}
}

func (s *ScriptSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *ScriptSystem) Update(dt time.Duration) {
	if err := s.engine.Tick(dt); err != nil {
		s.log.Error("script tick failed", zap.Error(err))
	}
}
