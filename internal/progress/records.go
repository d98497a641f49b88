package progress

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"reactsync/internal/media"
)

const recordColumns = `base_id, react_id, base_meta, react_meta, delay, base_time,
	layout, base_volume, react_volume, updated_at`

// Save upserts rec under its pair key, stamps UpdatedAt and prunes stale pairs.
func (s *Store) Save(ctx context.Context, rec Record) (Record, error) {
	key := rec.Key()
	if key == "" {
		return Record{}, ErrMissingIdentity
	}
	rec.UpdatedAt = s.clock.Now().UTC()
	rec.Delay = finiteOrZero(rec.Delay)
	rec.BaseTime = finiteOrZero(rec.BaseTime)
	if rec.BaseVolume != nil {
		rec.BaseVolume = Volume(*rec.BaseVolume)
	}
	if rec.ReactVolume != nil {
		rec.ReactVolume = Volume(*rec.ReactVolume)
	}

	baseMeta, err := encodeJSON(rec.BaseMeta)
	if err != nil {
		return Record{}, fmt.Errorf("encode base meta: %w", err)
	}
	reactMeta, err := encodeJSON(rec.ReactMeta)
	if err != nil {
		return Record{}, fmt.Errorf("encode react meta: %w", err)
	}
	layout, err := encodeJSON(rec.Layout)
	if err != nil {
		return Record{}, fmt.Errorf("encode layout: %w", err)
	}

	_, err = s.execWithRetry(ctx, `INSERT INTO progress (pair_key, `+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(pair_key) DO UPDATE SET
			base_meta = excluded.base_meta,
			react_meta = excluded.react_meta,
			delay = excluded.delay,
			base_time = excluded.base_time,
			layout = excluded.layout,
			base_volume = excluded.base_volume,
			react_volume = excluded.react_volume,
			updated_at = excluded.updated_at`,
		key, rec.BaseID, rec.ReactID, baseMeta, reactMeta, rec.Delay, rec.BaseTime,
		layout, nullFloat(rec.BaseVolume), nullFloat(rec.ReactVolume), rec.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return Record{}, fmt.Errorf("save progress: %w", err)
	}
	if _, err := s.Prune(ctx); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Get returns the record for a base/react pair.
func (s *Store) Get(ctx context.Context, baseID, reactID string) (*Record, error) {
	key := PairKey(baseID, reactID)
	if key == "" {
		return nil, ErrMissingIdentity
	}
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+recordColumns+` FROM progress WHERE pair_key = ?`, key)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return rec, nil
}

// Latest returns the most recently saved record.
func (s *Store) Latest(ctx context.Context) (*Record, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+recordColumns+` FROM progress ORDER BY updated_at DESC, pair_key LIMIT 1`)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest progress: %w", err)
	}
	return rec, nil
}

// List returns every stored record, newest first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+recordColumns+` FROM progress ORDER BY updated_at DESC, pair_key`)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Prune drops records older than the TTL and keeps only the newest pairs.
// It returns the number of removed records.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	var removed int64
	if s.ttl > 0 {
		cutoff := s.clock.Now().Add(-s.ttl).UnixMilli()
		res, err := s.execWithRetry(ctx, `DELETE FROM progress WHERE updated_at < ?`, cutoff)
		if err != nil {
			return 0, fmt.Errorf("prune expired progress: %w", err)
		}
		n, _ := res.RowsAffected()
		removed += n
	}
	if s.maxPairs > 0 {
		res, err := s.execWithRetry(ctx, `DELETE FROM progress WHERE pair_key NOT IN (
			SELECT pair_key FROM progress ORDER BY updated_at DESC, pair_key LIMIT ?)`, s.maxPairs)
		if err != nil {
			return removed, fmt.Errorf("prune extra progress: %w", err)
		}
		n, _ := res.RowsAffected()
		removed += n
	}
	return removed, nil
}

// Delete removes a single record by pair key.
func (s *Store) Delete(ctx context.Context, key string) error {
	res, err := s.execWithRetry(ctx, `DELETE FROM progress WHERE pair_key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear removes every record and returns how many were dropped.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM progress`)
	if err != nil {
		return 0, fmt.Errorf("clear progress: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		rec                  Record
		baseMeta, reactMeta  sql.NullString
		layout               sql.NullString
		baseVolume, reactVol sql.NullFloat64
		updatedAt            int64
	)
	if err := row.Scan(&rec.BaseID, &rec.ReactID, &baseMeta, &reactMeta, &rec.Delay, &rec.BaseTime,
		&layout, &baseVolume, &reactVol, &updatedAt); err != nil {
		return nil, err
	}
	if baseMeta.Valid {
		var src media.Source
		if err := json.Unmarshal([]byte(baseMeta.String), &src); err != nil {
			return nil, fmt.Errorf("decode base meta: %w", err)
		}
		rec.BaseMeta = &src
	}
	if reactMeta.Valid {
		var src media.Source
		if err := json.Unmarshal([]byte(reactMeta.String), &src); err != nil {
			return nil, fmt.Errorf("decode react meta: %w", err)
		}
		rec.ReactMeta = &src
	}
	if layout.Valid {
		var l Layout
		if err := json.Unmarshal([]byte(layout.String), &l); err != nil {
			return nil, fmt.Errorf("decode layout: %w", err)
		}
		rec.Layout = &l
	}
	if baseVolume.Valid {
		v := baseVolume.Float64
		rec.BaseVolume = &v
	}
	if reactVol.Valid {
		v := reactVol.Float64
		rec.ReactVolume = &v
	}
	rec.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &rec, nil
}

func encodeJSON[T any](v *T) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
