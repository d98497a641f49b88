package session_test

import (
	"errors"
	"path/filepath"
	"testing"

	"reactsync/internal/progress"
	"reactsync/internal/session"
)

func TestAcquirePairLockIsExclusive(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "locks")
	key := progress.PairKey("yt:a", "yt:b")

	first, err := session.AcquirePairLock(dir, key)
	if err != nil {
		t.Fatalf("AcquirePairLock: %v", err)
	}
	if filepath.Dir(first.Path()) != dir {
		t.Fatalf("lock created outside %s: %s", dir, first.Path())
	}

	if _, err := session.AcquirePairLock(dir, key); !errors.Is(err, session.ErrPairLocked) {
		t.Fatalf("expected ErrPairLocked, got %v", err)
	}

	other, err := session.AcquirePairLock(dir, progress.PairKey("yt:a", "yt:c"))
	if err != nil {
		t.Fatalf("different pair should lock independently: %v", err)
	}
	defer other.Release()

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	again, err := session.AcquirePairLock(dir, key)
	if err != nil {
		t.Fatalf("expected lock after release, got %v", err)
	}
	defer again.Release()
}

func TestAcquirePairLockNeedsKey(t *testing.T) {
	if _, err := session.AcquirePairLock(t.TempDir(), ""); !errors.Is(err, progress.ErrMissingIdentity) {
		t.Fatalf("expected ErrMissingIdentity, got %v", err)
	}
	var nilLock *session.PairLock
	if err := nilLock.Release(); err != nil {
		t.Fatalf("nil release: %v", err)
	}
}
