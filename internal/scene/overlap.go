package scene

import (
	"github.com/slocgo/loader/internal/core/ecs"
	"github.com/slocgo/loader/internal/core/event"
	"github.com/slocgo/loader/internal/sloc"
	"github.com/slocgo/loader/internal/trigger"
)

type overlap struct {
	volume ecs.EntityID
	actor  ecs.EntityID
}

// StepOverlaps compares every live actor against the trigger volumes and
// emits Enter for new overlaps, Stay for continuing ones and Exit for ended
// ones. Dead actors leave every volume. Returns the number of interactions
// emitted.
func (s *Scene) StepOverlaps() int {
	current := make(map[overlap]struct{}, len(s.inside))
	ecs.Each2(s.actors, s.nodes, func(id ecs.EntityID, a *Actor, n *Node) {
		if a.Dead {
			return
		}
		for _, vol := range s.volumes.Containing(n.Position) {
			current[overlap{volume: vol, actor: id}] = struct{}{}
		}
	})

	emitted := 0
	emit := func(o overlap, ev sloc.EventType) {
		a, ok := s.actors.Get(o.actor)
		if !ok || !s.world.Alive(o.volume) {
			return
		}
		event.Emit(s.bus, trigger.Interaction{Self: o.volume, Other: o.actor, Kind: a.Kind, Event: ev})
		emitted++
	}
	for o := range s.inside {
		if _, still := current[o]; !still {
			emit(o, sloc.EventExit)
		}
	}
	for o := range current {
		if _, was := s.inside[o]; was {
			emit(o, sloc.EventStay)
		} else {
			emit(o, sloc.EventEnter)
		}
	}
	s.inside = current
	return emitted
}
