package create

import (
	"github.com/slocgo/loader/internal/sloc"
	"go.uber.org/zap"
)

// resolve binds the batch's pending ID-based actions to the entities created
// under those IDs. A reference to an ID outside the batch is dropped. It runs
// once per batch, after every object exists.
func (p *Pipeline) resolve(b *batch) (resolved, dropped int) {
	if len(b.pending) == 0 {
		return 0, 0
	}
	h, ok := p.registry.TryGetHandler(sloc.ActionTeleportToSpawnedObject)
	if !ok {
		p.log.Debug("no handler for spawned object references, dropping them", zap.Int("count", len(b.pending)))
		return 0, len(b.pending)
	}
	for _, ref := range b.pending {
		target, ok := b.instances[ref.data.ID]
		if !ok {
			dropped++
			p.log.Debug("dangling object reference dropped", zap.Stringer("owner", ref.owner), zap.Int32("id", ref.data.ID))
			continue
		}
		runtime := &sloc.RuntimeTeleportToSpawnedObjectData{
			ActionBase: ref.data.ActionBase,
			Target:     target,
			Offset:     ref.data.Offset,
		}
		if p.listeners.AddTriggerAction(ref.owner, runtime, h) {
			resolved++
		}
	}
	return resolved, dropped
}
