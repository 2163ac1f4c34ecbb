package data

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// RoomEntry is a named anchor in the world. Rotation is Euler angles in
// degrees (pitch, yaw, roll).
type RoomEntry struct {
	Name     string    `yaml:"name"`
	Aliases  []string  `yaml:"aliases"`
	Type     string    `yaml:"type"` // room kind shared by similar rooms, e.g. "Armory"
	Position []float32 `yaml:"position"`
	Rotation []float32 `yaml:"rotation"`
	Note     string    `yaml:"note"`
}

type room struct {
	name string
	kind string
	pos  mgl32.Vec3
	rot  mgl32.Quat
}

// RoomTable resolves room names, case-insensitively, to their anchors.
// It implements trigger.RoomLocator.
type RoomTable struct {
	rooms  map[string]*room
	byType map[string]*room
	count  int
}

// LoadRoomTable loads rooms.yaml.
func LoadRoomTable(path string) (*RoomTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read room list: %w", err)
	}
	var entries []RoomEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse room list: %w", err)
	}
	return NewRoomTable(entries)
}

// NewRoomTable indexes entries by name and aliases. A duplicate name is an error.
func NewRoomTable(entries []RoomEntry) (*RoomTable, error) {
	t := &RoomTable{
		rooms:  make(map[string]*room, len(entries)),
		byType: make(map[string]*room),
	}
	for i := range entries {
		e := &entries[i]
		pos, err := vec3(e.Position)
		if err != nil {
			return nil, fmt.Errorf("room %q position: %w", e.Name, err)
		}
		rot, err := euler(e.Rotation)
		if err != nil {
			return nil, fmt.Errorf("room %q rotation: %w", e.Name, err)
		}
		r := &room{name: e.Name, kind: e.Type, pos: pos, rot: rot}
		for _, name := range append([]string{e.Name}, e.Aliases...) {
			key := foldName(name)
			if _, dup := t.rooms[key]; dup {
				return nil, fmt.Errorf("duplicate room name %q", name)
			}
			t.rooms[key] = r
		}
		if e.Type != "" {
			if key := foldName(e.Type); t.byType[key] == nil {
				t.byType[key] = r
			}
		}
		t.count++
	}
	return t, nil
}

// Room returns the anchor of the named room.
func (t *RoomTable) Room(name string) (mgl32.Vec3, mgl32.Quat, bool) {
	r, ok := t.rooms[foldName(name)]
	if !ok {
		return mgl32.Vec3{}, mgl32.Quat{}, false
	}
	return r.pos, r.rot, true
}

// RoomOfType returns the anchor of the first room, in file order, whose
// type is kind.
func (t *RoomTable) RoomOfType(kind string) (mgl32.Vec3, mgl32.Quat, bool) {
	r, ok := t.byType[foldName(kind)]
	if !ok {
		return mgl32.Vec3{}, mgl32.Quat{}, false
	}
	return r.pos, r.rot, true
}

// Count returns the number of rooms loaded, not counting aliases.
func (t *RoomTable) Count() int {
	return t.count
}

func foldName(name string) string {
	return cases.Fold().String(name)
}

// vec3 converts a yaml [x, y, z] list. An empty list is the zero vector.
func vec3(v []float32) (mgl32.Vec3, error) {
	switch len(v) {
	case 0:
		return mgl32.Vec3{}, nil
	case 3:
		return mgl32.Vec3{v[0], v[1], v[2]}, nil
	}
	return mgl32.Vec3{}, fmt.Errorf("want 3 components, got %d", len(v))
}

// euler converts [pitch, yaw, roll] degrees to a rotation. Yaw is applied
// first, then pitch, then roll.
func euler(v []float32) (mgl32.Quat, error) {
	a, err := vec3(v)
	if err != nil {
		return mgl32.Quat{}, err
	}
	q := mgl32.AnglesToQuat(mgl32.DegToRad(a[1]), mgl32.DegToRad(a[0]), mgl32.DegToRad(a[2]), mgl32.YXZ)
	return q.Normalize(), nil
}
