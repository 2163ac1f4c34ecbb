package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/slocgo/loader/internal/sloc/codec"
	"go.uber.org/zap"
)

type AssetRow struct {
	Name        string
	Data        []byte
	Checksum    []byte
	ObjectCount int
	UpdatedAt   time.Time
}

// AssetInfo is an asset without its payload.
type AssetInfo struct {
	Name        string
	Size        int
	ObjectCount int
	UpdatedAt   time.Time
}

// AssetRepo stores encoded sloc assets. It implements source.Loader.
type AssetRepo struct {
	db *DB
}

func NewAssetRepo(db *DB) *AssetRepo {
	return &AssetRepo{db: db}
}

// NewAssetRow decodes data to validate it and computes its checksum.
func NewAssetRow(name string, data []byte) (AssetRow, error) {
	objects, err := codec.Unmarshal(data)
	if err != nil {
		return AssetRow{}, fmt.Errorf("asset %s: %w", name, err)
	}
	return AssetRow{
		Name:        name,
		Data:        data,
		Checksum:    Checksum(data),
		ObjectCount: len(objects),
		UpdatedAt:   time.Now(),
	}, nil
}

// Save validates and upserts one asset.
func (r *AssetRepo) Save(ctx context.Context, name string, data []byte) error {
	row, err := NewAssetRow(name, data)
	if err != nil {
		return err
	}
	return r.SaveBatch(ctx, []AssetRow{row})
}

// SaveBatch upserts rows atomically in a single transaction.
func (r *AssetRepo) SaveBatch(ctx context.Context, rows []AssetRow) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("asset save begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, row := range rows {
		if _, err := tx.Exec(ctx,
			`INSERT INTO sloc_assets (name, data, checksum, object_count, updated_at)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (name) DO UPDATE
			 SET data = EXCLUDED.data, checksum = EXCLUDED.checksum,
			     object_count = EXCLUDED.object_count, updated_at = EXCLUDED.updated_at`,
			row.Name, row.Data, row.Checksum, row.ObjectCount, row.UpdatedAt,
		); err != nil {
			return fmt.Errorf("asset save %s: %w", row.Name, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("asset save commit: %w", err)
	}
	r.db.log.Debug("assets saved", zap.Int("count", len(rows)))
	return nil
}

// Load returns an asset's bytes after verifying the stored checksum.
func (r *AssetRepo) Load(ctx context.Context, name string) ([]byte, error) {
	var data, sum []byte
	err := r.db.Pool.QueryRow(ctx,
		`SELECT data, checksum FROM sloc_assets WHERE name = $1`, name,
	).Scan(&data, &sum)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", name, ErrAssetNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := verify(name, data, sum); err != nil {
		return nil, err
	}
	if _, err := r.db.Pool.Exec(ctx,
		`INSERT INTO sloc_asset_loads (name) VALUES ($1)`, name,
	); err != nil {
		r.db.log.Warn("record asset load", zap.String("asset", name), zap.Error(err))
	}
	return data, nil
}

// List returns every stored asset ordered by name.
func (r *AssetRepo) List(ctx context.Context) ([]AssetInfo, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT name, octet_length(data), object_count, updated_at
		 FROM sloc_assets ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AssetInfo
	for rows.Next() {
		var a AssetInfo
		if err := rows.Scan(&a.Name, &a.Size, &a.ObjectCount, &a.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// Delete removes an asset and its load history.
func (r *AssetRepo) Delete(ctx context.Context, name string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM sloc_assets WHERE name = $1`, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", name, ErrAssetNotFound)
	}
	return nil
}
