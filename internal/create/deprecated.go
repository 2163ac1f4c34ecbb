package create

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/slocgo/loader/internal/sloc"
	"github.com/slocgo/loader/internal/sloc/source"
)

// Deprecated: use CreateObjects with source.FromSlice.
func (p *Pipeline) CreateObjectsFromList(objects []sloc.Object, pos mgl32.Vec3, rot mgl32.Quat) (Result, error) {
	return p.CreateObjectsAt(source.FromSlice(objects), pos, rot)
}

// Deprecated: use CreateObjects with source.FromReader.
func (p *Pipeline) CreateObjectsFromStream(r io.Reader, pos mgl32.Vec3, rot mgl32.Quat) (Result, error) {
	return p.CreateObjectsAt(source.FromReader(r), pos, rot)
}

// Deprecated: use CreateObjects with source.FromFile.
func (p *Pipeline) CreateObjectsFromFile(path string, pos mgl32.Vec3, rot mgl32.Quat) (Result, error) {
	return p.CreateObjectsAt(source.FromFile(path), pos, rot)
}

// Deprecated: use SpawnObjects with source.FromSlice.
func (p *Pipeline) SpawnObjectsFromList(objects []sloc.Object, pos mgl32.Vec3, rot mgl32.Quat) (Result, error) {
	return p.SpawnObjectsAt(source.FromSlice(objects), pos, rot)
}

// Deprecated: use SpawnObjects with source.FromReader.
func (p *Pipeline) SpawnObjectsFromStream(r io.Reader, pos mgl32.Vec3, rot mgl32.Quat) (Result, error) {
	return p.SpawnObjectsAt(source.FromReader(r), pos, rot)
}

// Deprecated: use SpawnObjects with source.FromFile.
func (p *Pipeline) SpawnObjectsFromFile(path string, pos mgl32.Vec3, rot mgl32.Quat) (Result, error) {
	return p.SpawnObjectsAt(source.FromFile(path), pos, rot)
}
