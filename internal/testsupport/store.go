package testsupport

import (
	"context"
	"testing"

	"reactsync/internal/config"
	"reactsync/internal/media"
	"reactsync/internal/progress"
)

// MustOpenStore opens a progress.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config, opts ...progress.Option) *progress.Store {
	t.Helper()

	store, err := progress.Open(cfg, opts...)
	if err != nil {
		t.Fatalf("progress.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SaveRecord stores a minimal record for a pair of YouTube ids.
func SaveRecord(t testing.TB, store *progress.Store, baseID, reactID string, delay, baseTime float64) progress.Record {
	t.Helper()

	base := media.Source{Kind: media.KindYouTube, ID: baseID}
	react := media.Source{Kind: media.KindYouTube, ID: reactID}
	rec, err := store.Save(context.Background(), progress.Record{
		BaseID:    base.Signature(),
		ReactID:   react.Signature(),
		BaseMeta:  &base,
		ReactMeta: &react,
		Delay:     delay,
		BaseTime:  baseTime,
	})
	if err != nil {
		t.Fatalf("store.Save: %v", err)
	}
	return rec
}
