package source

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/slocgo/loader/internal/sloc"
	"github.com/slocgo/loader/internal/sloc/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scene() []sloc.Object {
	return []sloc.Object{
		sloc.NewPrimitive(sloc.ShapeCube, mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 1, 1}),
		{Type: sloc.TypeEmpty, Transform: sloc.IdentityTransform()},
	}
}

func encoded(t *testing.T) []byte {
	t.Helper()
	data, err := codec.Marshal(scene())
	require.NoError(t, err)
	return data
}

func TestSourcesAreReplayable(t *testing.T) {
	data := encoded(t)
	path := filepath.Join(t.TempDir(), "scene.sloc")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	sources := map[string]Source{
		"slice":  FromSlice(scene()),
		"bytes":  FromBytes(data),
		"seeker": FromReader(bytes.NewReader(data)),
		"file":   FromFile(path),
		"loader": FromLoader(context.Background(), mapLoader{"scene": data}, "scene"),
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			for pass := 0; pass < 2; pass++ {
				got, err := Collect(src)
				require.NoError(t, err, "pass %d", pass)
				assert.Equal(t, scene(), got, "pass %d", pass)
			}
		})
	}
}

func TestOneShotStream(t *testing.T) {
	src := FromReader(onlyReader{bytes.NewReader(encoded(t))})
	got, err := Collect(src)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = Collect(src)
	assert.ErrorIs(t, err, ErrNotReplayable)
}

func TestFileIsReadLazily(t *testing.T) {
	path := filepath.Join(t.TempDir(), "later.sloc")
	src := FromFile(path)

	_, err := Collect(src)
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(path, encoded(t), 0o644))
	got, err := Collect(src)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestLoaderErrorPropagates(t *testing.T) {
	_, err := Collect(FromLoader(context.Background(), mapLoader{}, "missing"))
	assert.ErrorIs(t, err, errMissing)
}

var errMissing = errors.New("missing")

type mapLoader map[string][]byte

func (m mapLoader) Load(_ context.Context, name string) ([]byte, error) {
	data, ok := m[name]
	if !ok {
		return nil, errMissing
	}
	return data, nil
}

// onlyReader hides the Seek method of the wrapped reader.
type onlyReader struct{ r *bytes.Reader }

func (o onlyReader) Read(p []byte) (int, error) { return o.r.Read(p) }
