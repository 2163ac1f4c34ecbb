package persist

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// AssetExt is the file extension of encoded assets.
const AssetExt = ".sloc"

// DirStore reads assets from <dir>/<name>.sloc. It implements source.Loader
// for deployments without a database.
type DirStore struct {
	dir string
}

func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir}
}

func (s *DirStore) Load(_ context.Context, name string) ([]byte, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == ".." {
		return nil, fmt.Errorf("invalid asset name %q", name)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name+AssetExt))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrAssetNotFound)
	}
	return data, err
}

// Names lists the assets in the directory, sorted.
func (s *DirStore) Names() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read asset dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != AssetExt {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), AssetExt))
	}
	sort.Strings(names)
	return names, nil
}

// ImportDir validates every asset in dir and stores them in one transaction.
func ImportDir(ctx context.Context, repo *AssetRepo, dir string) (int, error) {
	store := NewDirStore(dir)
	names, err := store.Names()
	if err != nil {
		return 0, err
	}
	rows := make([]AssetRow, 0, len(names))
	for _, name := range names {
		data, err := store.Load(ctx, name)
		if err != nil {
			return 0, err
		}
		row, err := NewAssetRow(name, data)
		if err != nil {
			return 0, err
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if err := repo.SaveBatch(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
