package session

import (
	"context"
	"sync"
)

// Keyring is the persistent medium behind a [Manager]. Implementations
// persist exactly three logical keys (access token, refresh token, role)
// and must treat Store and Clear as whole-snapshot writes.
//
// The Manager writes through on every mutation, so a crash between
// operations leaves the keyring consistent with the last completed write.
// No atomicity is guaranteed across the in-memory view and the keyring.
type Keyring interface {
	Load(ctx context.Context) (Session, error)
	Store(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// MemoryKeyring is an in-process [Keyring]. It is the default medium when
// no durable storage is configured and is handy as a fake in tests.
type MemoryKeyring struct {
	mu   sync.Mutex
	snap Session
}

// NewMemoryKeyring returns an empty in-process keyring.
func NewMemoryKeyring() *MemoryKeyring {
	return &MemoryKeyring{}
}

// Load returns the last stored snapshot.
func (k *MemoryKeyring) Load(_ context.Context) (Session, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.snap, nil
}

// Store replaces the persisted snapshot.
func (k *MemoryKeyring) Store(_ context.Context, s Session) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.snap = s
	return nil
}

// Clear drops all three persisted fields.
func (k *MemoryKeyring) Clear(_ context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.snap = Session{}
	return nil
}
