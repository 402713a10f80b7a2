package lock

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrLeaseHeld is returned by Acquire when another holder owns the lease.
	ErrLeaseHeld = errors.New("lease is held by another run")
	// ErrLeaseLost is returned by Release when the lease expired or was taken over.
	ErrLeaseLost = errors.New("lease was lost before release")
)

// Locker hands out named, expiring leases.
type Locker interface {
	// Acquire takes the named lease for ttl, or fails with ErrLeaseHeld.
	Acquire(ctx context.Context, name string, ttl time.Duration) (Lease, error)
}

// Lease is a held lock. Release is safe to call once; it only deletes the lease
// if it is still owned by this holder.
type Lease interface {
	Name() string
	Token() string
	Release(ctx context.Context) error
}
