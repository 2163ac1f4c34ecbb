// Package autoload spawns a configured list of assets once prefabs are loaded,
// either relative to named rooms or at absolute locations.
package autoload

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/slocgo/loader/internal/core/ecs"
	"github.com/slocgo/loader/internal/core/event"
	"github.com/slocgo/loader/internal/create"
	"github.com/slocgo/loader/internal/data"
	"github.com/slocgo/loader/internal/sloc/source"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Loader places the entries of an auto-spawn list.
type Loader struct {
	pipeline    *create.Pipeline
	assets      source.Loader
	rooms       data.RoomLocator
	bus         *event.Bus
	log         *zap.Logger
	concurrency int
}

func New(pipeline *create.Pipeline, assets source.Loader, rooms data.RoomLocator, bus *event.Bus, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		pipeline:    pipeline,
		assets:      assets,
		rooms:       rooms,
		bus:         bus,
		log:         log,
		concurrency: 4,
	}
}

// SetConcurrency bounds the number of concurrent asset reads.
func (l *Loader) SetConcurrency(n int) {
	if n > 0 {
		l.concurrency = n
	}
}

// Run fetches every asset of list concurrently, then creates the entries in
// list order on the calling goroutine. A failed fetch aborts the run before
// anything is created. An entry whose room is unknown or whose creation fails
// is skipped and reported in the joined error. Returns the roots created,
// partial ones included.
func (l *Loader) Run(ctx context.Context, list *data.AutoSpawnList) ([]ecs.EntityID, error) {
	blobs, err := l.prefetch(ctx, list)
	if err != nil {
		return nil, err
	}

	var (
		roots []ecs.EntityID
		errs  []error
	)
	for _, entry := range list.Entries() {
		pos, rot, ok := entry.Placement(l.rooms)
		if !ok {
			l.log.Warn("auto spawn anchor not found", zap.String("asset", entry.Asset), zap.String("anchor", entry.Anchor()))
			errs = append(errs, fmt.Errorf("auto spawn %s: %s not found", entry.Asset, entry.Anchor()))
			continue
		}
		src := source.FromBytes(blobs[entry.Asset])
		opts := create.Options{Position: pos, Rotation: rot}

		var res create.Result
		if entry.CreateOnly {
			res, err = l.pipeline.CreateObjects(src, opts)
		} else {
			res, err = l.pipeline.SpawnObjects(src, opts)
		}
		if err != nil {
			l.log.Error("auto spawn failed", zap.String("asset", entry.Asset), zap.Error(err))
			errs = append(errs, fmt.Errorf("auto spawn %s: %w", entry.Asset, err))
			if !res.Root.IsZero() {
				roots = append(roots, res.Root)
			}
			continue
		}
		roots = append(roots, res.Root)
		if l.bus != nil {
			event.Emit(l.bus, event.ObjectsSpawned{Asset: entry.Asset, Root: res.Root, Count: res.Count})
		}
		l.log.Info("auto spawned asset",
			zap.String("asset", entry.Asset),
			zap.String("anchor", entry.Anchor()),
			zap.Int("objects", res.Count),
		)
	}
	return roots, errors.Join(errs...)
}

// prefetch reads each distinct asset once. A failed read cancels the rest.
func (l *Loader) prefetch(ctx context.Context, list *data.AutoSpawnList) (map[string][]byte, error) {
	var (
		mu    sync.Mutex
		blobs = make(map[string][]byte)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	seen := make(map[string]struct{})
	for _, entry := range list.Entries() {
		name := entry.Asset
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		g.Go(func() error {
			b, err := l.assets.Load(gctx, name)
			if err != nil {
				return fmt.Errorf("prefetch %s: %w", name, err)
			}
			mu.Lock()
			blobs[name] = b
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	l.log.Debug("auto spawn assets fetched", zap.Int("assets", len(blobs)))
	return blobs, nil
}
