// Package source provides replayable sequences of sloc objects backed by
// memory, files, streams or asset storage.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/slocgo/loader/internal/sloc"
	"github.com/slocgo/loader/internal/sloc/codec"
)

// Source is an ordered, finite sequence of objects. Iteration order is
// creation order. Each call to Objects starts from the first object.
type Source interface {
	Objects() iter.Seq2[sloc.Object, error]
}

// Func adapts a function to Source.
type Func func() iter.Seq2[sloc.Object, error]

func (f Func) Objects() iter.Seq2[sloc.Object, error] { return f() }

// ErrNotReplayable is yielded when a one-shot stream is iterated a second time.
var ErrNotReplayable = errors.New("object stream cannot be replayed")

// FromSlice wraps in-memory objects. The slice is not copied.
func FromSlice(objects []sloc.Object) Source {
	return Func(func() iter.Seq2[sloc.Object, error] {
		return func(yield func(sloc.Object, error) bool) {
			for _, o := range objects {
				if !yield(o, nil) {
					return
				}
			}
		}
	})
}

// FromBytes decodes an encoded sloc stream held in memory.
func FromBytes(data []byte) Source {
	return Func(func() iter.Seq2[sloc.Object, error] {
		return codec.Decode(bytes.NewReader(data))
	})
}

// FromReader decodes r. When r is an io.Seeker the source rewinds to the
// position it had at construction on every iteration; otherwise it can be
// iterated once.
func FromReader(r io.Reader) Source {
	if s, ok := r.(io.ReadSeeker); ok {
		start, err := s.Seek(0, io.SeekCurrent)
		return Func(func() iter.Seq2[sloc.Object, error] {
			if err == nil {
				_, err = s.Seek(start, io.SeekStart)
			}
			if err != nil {
				return failed(fmt.Errorf("rewind stream: %w", err))
			}
			return codec.Decode(s)
		})
	}
	used := false
	return Func(func() iter.Seq2[sloc.Object, error] {
		if used {
			return failed(ErrNotReplayable)
		}
		used = true
		return codec.Decode(r)
	})
}

// FromFile reads path when iteration starts, so a missing file is reported
// through the sequence, not at construction.
func FromFile(path string) Source {
	return Func(func() iter.Seq2[sloc.Object, error] {
		return func(yield func(sloc.Object, error) bool) {
			data, err := os.ReadFile(path)
			if err != nil {
				yield(sloc.Object{}, fmt.Errorf("read sloc file %s: %w", path, err))
				return
			}
			for o, err := range codec.Decode(bytes.NewReader(data)) {
				if !yield(o, err) {
					return
				}
			}
		}
	})
}

// Loader fetches encoded assets by name, e.g. from a database.
type Loader interface {
	Load(ctx context.Context, name string) ([]byte, error)
}

// FromLoader defers the storage read to iteration start.
func FromLoader(ctx context.Context, l Loader, name string) Source {
	return Func(func() iter.Seq2[sloc.Object, error] {
		return func(yield func(sloc.Object, error) bool) {
			data, err := l.Load(ctx, name)
			if err != nil {
				yield(sloc.Object{}, fmt.Errorf("load asset %s: %w", name, err))
				return
			}
			for o, err := range codec.Decode(bytes.NewReader(data)) {
				if !yield(o, err) {
					return
				}
			}
		}
	})
}

// Collect drains src into a slice, stopping at the first error.
func Collect(src Source) ([]sloc.Object, error) {
	var out []sloc.Object
	for o, err := range src.Objects() {
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func failed(err error) iter.Seq2[sloc.Object, error] {
	return func(yield func(sloc.Object, error) bool) {
		yield(sloc.Object{}, err)
	}
}
