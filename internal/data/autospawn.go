package data

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// AutoSpawnEntry places an asset relative to a named room, relative to the
// first room of a type, or, with neither, at an absolute location.
type AutoSpawnEntry struct {
	Asset      string    `yaml:"asset"`
	Room       string    `yaml:"room"`
	RoomType   string    `yaml:"room_type"`
	Position   []float32 `yaml:"position"`
	Rotation   []float32 `yaml:"rotation"`    // degrees
	CreateOnly bool      `yaml:"create_only"` // do not make the objects visible to observers

	pos mgl32.Vec3
	rot mgl32.Quat
}

// RoomLocator is satisfied by *RoomTable.
type RoomLocator interface {
	Room(name string) (mgl32.Vec3, mgl32.Quat, bool)
	RoomOfType(kind string) (mgl32.Vec3, mgl32.Quat, bool)
}

// Anchor describes what the entry is placed relative to, for logs.
func (e *AutoSpawnEntry) Anchor() string {
	switch {
	case e.Room != "":
		return "room " + e.Room
	case e.RoomType != "":
		return "room type " + e.RoomType
	}
	return "world"
}

// Placement returns the world position and rotation of the entry. ok is
// false when the entry names a room or room type rooms does not know.
func (e *AutoSpawnEntry) Placement(rooms RoomLocator) (pos mgl32.Vec3, rot mgl32.Quat, ok bool) {
	if e.Room == "" && e.RoomType == "" {
		return e.pos, e.rot, true
	}
	if rooms == nil {
		return mgl32.Vec3{}, mgl32.Quat{}, false
	}
	var anchor mgl32.Vec3
	var anchorRot mgl32.Quat
	if e.Room != "" {
		anchor, anchorRot, ok = rooms.Room(e.Room)
	} else {
		anchor, anchorRot, ok = rooms.RoomOfType(e.RoomType)
	}
	if !ok {
		return mgl32.Vec3{}, mgl32.Quat{}, false
	}
	return anchor.Add(anchorRot.Rotate(e.pos)), anchorRot.Mul(e.rot).Normalize(), true
}

// AutoSpawnList is the ordered list of assets spawned when prefabs load.
type AutoSpawnList struct {
	entries []AutoSpawnEntry
}

// LoadAutoSpawnList loads auto_spawn.yaml.
func LoadAutoSpawnList(path string) (*AutoSpawnList, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read auto spawn list: %w", err)
	}
	var entries []AutoSpawnEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse auto spawn list: %w", err)
	}
	return NewAutoSpawnList(entries)
}

func NewAutoSpawnList(entries []AutoSpawnEntry) (*AutoSpawnList, error) {
	for i := range entries {
		e := &entries[i]
		if e.Asset == "" {
			return nil, fmt.Errorf("auto spawn entry %d: missing asset", i)
		}
		if e.Room != "" && e.RoomType != "" {
			return nil, fmt.Errorf("auto spawn %q: room and room_type are exclusive", e.Asset)
		}
		var err error
		if e.pos, err = vec3(e.Position); err != nil {
			return nil, fmt.Errorf("auto spawn %q position: %w", e.Asset, err)
		}
		if e.rot, err = euler(e.Rotation); err != nil {
			return nil, fmt.Errorf("auto spawn %q rotation: %w", e.Asset, err)
		}
	}
	return &AutoSpawnList{entries: entries}, nil
}

// Entries returns the entries in file order.
func (l *AutoSpawnList) Entries() []AutoSpawnEntry {
	return l.entries
}

// Count returns the number of entries.
func (l *AutoSpawnList) Count() int {
	return len(l.entries)
}
