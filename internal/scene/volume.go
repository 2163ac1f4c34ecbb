package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/slocgo/loader/internal/core/ecs"
)

const volumeCellSize = 8

type cellKey struct {
	cx, cy, cz int32
}

func toCell(v float32) int32 {
	return int32(math.Floor(float64(v) / volumeCellSize))
}

func cellOf(p mgl32.Vec3) cellKey {
	return cellKey{toCell(p[0]), toCell(p[1]), toCell(p[2])}
}

type bounds struct {
	min, max mgl32.Vec3
}

func (b bounds) contains(p mgl32.Vec3) bool {
	for i := range 3 {
		if p[i] < b.min[i] || p[i] > b.max[i] {
			return false
		}
	}
	return true
}

// VolumeGrid is a cell-based index of trigger volumes. A volume is the
// axis-aligned box of its world scale around its world position and is
// listed in every cell it overlaps.
type VolumeGrid struct {
	cells  map[cellKey]map[ecs.EntityID]struct{}
	placed map[ecs.EntityID]bounds
}

func NewVolumeGrid() *VolumeGrid {
	return &VolumeGrid{
		cells:  make(map[cellKey]map[ecs.EntityID]struct{}),
		placed: make(map[ecs.EntityID]bounds),
	}
}

// Place indexes id's volume, replacing any previous placement.
func (g *VolumeGrid) Place(id ecs.EntityID, center, scale mgl32.Vec3) {
	g.Remove(id)
	half := mgl32.Vec3{abs(scale[0]) / 2, abs(scale[1]) / 2, abs(scale[2]) / 2}
	b := bounds{min: center.Sub(half), max: center.Add(half)}
	g.placed[id] = b
	g.eachCell(b, func(k cellKey) {
		cell := g.cells[k]
		if cell == nil {
			cell = make(map[ecs.EntityID]struct{})
			g.cells[k] = cell
		}
		cell[id] = struct{}{}
	})
}

// Remove takes id out of the grid. It implements ecs.Removable.
func (g *VolumeGrid) Remove(id ecs.EntityID) {
	b, ok := g.placed[id]
	if !ok {
		return
	}
	delete(g.placed, id)
	g.eachCell(b, func(k cellKey) {
		if cell := g.cells[k]; cell != nil {
			delete(cell, id)
			if len(cell) == 0 {
				delete(g.cells, k)
			}
		}
	})
}

// Containing returns the volumes whose box contains p.
func (g *VolumeGrid) Containing(p mgl32.Vec3) []ecs.EntityID {
	var result []ecs.EntityID
	for id := range g.cells[cellOf(p)] {
		if g.placed[id].contains(p) {
			result = append(result, id)
		}
	}
	return result
}

func (g *VolumeGrid) Len() int { return len(g.placed) }

func (g *VolumeGrid) eachCell(b bounds, fn func(cellKey)) {
	lo, hi := cellOf(b.min), cellOf(b.max)
	for x := lo.cx; x <= hi.cx; x++ {
		for y := lo.cy; y <= hi.cy; y++ {
			for z := lo.cz; z <= hi.cz; z++ {
				fn(cellKey{x, y, z})
			}
		}
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
