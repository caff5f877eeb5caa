package locker

import (
	"context"
	"errors"
	"time"

	"gift-auctions/internal/store"
	"gift-auctions/utils"
)

// DefaultTTL bounds how long a crashed holder can block other instances. It
// is deliberately independent of the scheduler tick interval.
const DefaultTTL = 30 * time.Second

// LeaseLocker provides short-lived named mutual exclusion backed by the
// shared store, so any number of process instances can serialize work on the
// same key. The owner id identifies this process instance and is generated
// once at startup and passed in.
type LeaseLocker struct {
	store      store.Store
	ownerID    string
	defaultTTL time.Duration
	now        func() time.Time
}

// New creates a locker owned by ownerID. A non-positive defaultTTL falls
// back to DefaultTTL.
func New(st store.Store, ownerID string, defaultTTL time.Duration) *LeaseLocker {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &LeaseLocker{
		store:      st,
		ownerID:    ownerID,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// OwnerID returns the process identity this locker stamps on leases.
func (l *LeaseLocker) OwnerID() string {
	return l.ownerID
}

// Acquire attempts to take the lease for key until now+ttl. It reports true
// only when this process is the recorded owner after the attempt: the
// re-read settles the race where two instances write simultaneously. Store
// errors count as "not acquired" rather than escalating, since the caller's
// fallback is the same either way.
func (l *LeaseLocker) Acquire(ctx context.Context, key string, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = l.defaultTTL
	}
	now := l.now()

	if err := l.store.PutLease(ctx, key, l.ownerID, now.Add(ttl), now); err != nil {
		if !errors.Is(err, store.ErrLeaseHeld) {
			utils.Warn("lease acquire failed", map[string]any{"key": key, "error": err.Error()})
		}
		return false
	}

	lease, err := l.store.GetLease(ctx, key)
	if err != nil {
		utils.Warn("lease readback failed", map[string]any{"key": key, "error": err.Error()})
		return false
	}
	return lease.OwnerID == l.ownerID
}

// Release deletes the lease if this process owns it. Releasing a lease owned
// elsewhere is a no-op, so a slow holder cannot drop a successor's lease.
func (l *LeaseLocker) Release(ctx context.Context, key string) error {
	return l.store.DeleteLease(ctx, key, l.ownerID)
}

// WithLock runs fn under the lease for key. When the lease is not acquired
// it reports acquired=false without running fn. The lease is released on
// every exit path, panics included.
func (l *LeaseLocker) WithLock(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) (acquired bool, err error) {
	if !l.Acquire(ctx, key, ttl) {
		return false, nil
	}
	defer func() {
		if relErr := l.Release(ctx, key); relErr != nil {
			utils.Warn("lease release failed", map[string]any{"key": key, "error": relErr.Error()})
		}
	}()
	return true, fn(ctx)
}
