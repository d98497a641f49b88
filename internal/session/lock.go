package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"reactsync/internal/progress"
)

// ErrPairLocked is returned when another process already drives the pair.
var ErrPairLocked = errors.New("pair is open in another session")

// PairLock holds the per-pair lock file for the life of a session.
type PairLock struct {
	lock *flock.Flock
	key  string
}

// AcquirePairLock takes a non-blocking lock for key under dir.
func AcquirePairLock(dir, key string) (*PairLock, error) {
	if key == "" {
		return nil, progress.ErrMissingIdentity
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	name := uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String() + ".lock"
	lock := flock.New(filepath.Join(dir, name))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire pair lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPairLocked, key)
	}
	return &PairLock{lock: lock, key: key}, nil
}

// Path returns the lock file location.
func (l *PairLock) Path() string {
	return l.lock.Path()
}

// Key returns the pair key the lock guards.
func (l *PairLock) Key() string {
	return l.key
}

// Release unlocks the pair. Safe on a nil lock.
func (l *PairLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
