package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput    Phase = iota // 0: deliver interaction events to trigger listeners
	PhaseUpdate                // 1: game logic (auto-loading, scripted behavior)
	PhaseOutput                // 2: observer replication
	PhaseCleanup               // 3: destroy queued entities
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "Input"
	case PhaseUpdate:
		return "Update"
	case PhaseOutput:
		return "Output"
	case PhaseCleanup:
		return "Cleanup"
	default:
		return "Unknown"
	}
}

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
