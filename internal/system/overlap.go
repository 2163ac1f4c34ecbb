package system

import (
	"time"

	coresys "github.com/slocgo/loader/internal/core/system"
	"github.com/slocgo/loader/internal/scene"
)

// OverlapSystem turns actor and trigger volume overlaps into interactions,
// delivered next tick by EventSystem. Phase 1 (Update).
type OverlapSystem struct {
	scene *scene.Scene
}

func NewOverlapSystem(s *scene.Scene) *OverlapSystem {
	return &OverlapSystem{scene: s}
}

func (s *OverlapSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *OverlapSystem) Update(_ time.Duration) {
	s.scene.StepOverlaps()
}
