package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LocalLocker is an in-process Locker.
type LocalLocker struct {
	mu     sync.Mutex
	leases map[string]localEntry
	now    func() time.Time
}

type localEntry struct {
	token   string
	expires time.Time
}

// NewLocalLocker creates an empty in-process locker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{leases: make(map[string]localEntry), now: time.Now}
}

func (l *LocalLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (Lease, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if cur, ok := l.leases[name]; ok && now.Before(cur.expires) {
		return nil, ErrLeaseHeld
	}

	token := uuid.NewString()
	l.leases[name] = localEntry{token: token, expires: now.Add(ttl)}
	return &localLease{locker: l, name: name, token: token}, nil
}

type localLease struct {
	locker *LocalLocker
	name   string
	token  string
}

func (l *localLease) Name() string  { return l.name }
func (l *localLease) Token() string { return l.token }

func (l *localLease) Release(ctx context.Context) error {
	l.locker.mu.Lock()
	defer l.locker.mu.Unlock()

	cur, ok := l.locker.leases[l.name]
	if !ok || cur.token != l.token {
		return ErrLeaseLost
	}
	delete(l.locker.leases, l.name)
	return nil
}
