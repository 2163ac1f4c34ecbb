package sloc

import "fmt"

// ColliderMode controls where a primitive's collision volume exists and
// whether the primitive is replicated to observers at all.
type ColliderMode uint8

const (
	ColliderUnset ColliderMode = iota
	ColliderNone
	ColliderClientOnly
	ColliderServerOnly
	ColliderBoth
	ColliderTrigger
	ColliderNonSpawnedTrigger
	ColliderServerOnlyNonSpawned
	ColliderNoneNonSpawned
)

var colliderModeNames = [...]string{
	"Unset", "NoCollider", "ClientOnly", "ServerOnly", "Both",
	"Trigger", "NonSpawnedTrigger", "ServerOnlyNonSpawned", "NoColliderNonSpawned",
}

func (m ColliderMode) String() string {
	if int(m) < len(colliderModeNames) {
		return colliderModeNames[m]
	}
	return fmt.Sprintf("ColliderMode(%d)", uint8(m))
}

// Resolved maps Unset to the default mode (Both).
func (m ColliderMode) Resolved() ColliderMode {
	if m == ColliderUnset {
		return ColliderBoth
	}
	return m
}

// HasClientCollider reports whether observers simulate the collider too.
func (m ColliderMode) HasClientCollider() bool {
	m = m.Resolved()
	return m == ColliderClientOnly || m == ColliderBoth
}

// ShouldSpawn reports whether the object is replicated to observers.
func (m ColliderMode) ShouldSpawn() bool {
	switch m.Resolved() {
	case ColliderNonSpawnedTrigger, ColliderServerOnlyNonSpawned, ColliderNoneNonSpawned:
		return false
	}
	return true
}

// HasServerCollider reports whether a collision volume is created on the host.
func (m ColliderMode) HasServerCollider() bool {
	switch m.Resolved() {
	case ColliderNone, ColliderClientOnly, ColliderNoneNonSpawned:
		return false
	}
	return true
}

// IsTrigger reports whether the collision volume only detects overlaps.
func (m ColliderMode) IsTrigger() bool {
	m = m.Resolved()
	return m == ColliderTrigger || m == ColliderNonSpawnedTrigger
}
