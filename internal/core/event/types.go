package event

import "github.com/slocgo/loader/internal/core/ecs"

// ObjectsSpawned is emitted after an asset has been materialized into the scene.
type ObjectsSpawned struct {
	Asset string
	Root  ecs.EntityID
	Count int
}

// RootDestroyed is emitted when a created object graph is torn down.
type RootDestroyed struct {
	Root ecs.EntityID
}
