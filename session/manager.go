package session

import (
	"context"
	"errors"
	"log"
	"sync"
)

// ErrTerminated is an exported constant or variable used by the chat client.
var ErrTerminated = errors.New("session terminated")

// Manager holds the live [Session] and the unauthorized broadcast channel.
//
// Manager instances are intended to be configured during initialization and
// then shared; all methods are safe for concurrent use. Reads see the most
// recently completed write and concurrent writes are last-writer-wins — the
// Manager performs no merge or versioning across callers.
type Manager struct {
	mu         sync.Mutex
	live       Session
	terminated bool
	keyring    Keyring

	subMu   sync.Mutex
	nextSub int
	subs    []subscriber
}

type subscriber struct {
	id int
	fn func()
}

// NewManager returns a Manager backed by keyring, primed with whatever the
// keyring currently holds. A nil keyring falls back to [MemoryKeyring].
func NewManager(ctx context.Context, keyring Keyring) (*Manager, error) {
	if keyring == nil {
		keyring = NewMemoryKeyring()
	}

	snap, err := keyring.Load(ctx)
	if err != nil {
		return nil, err
	}

	return &Manager{live: snap, keyring: keyring}, nil
}

// Get returns a copy of the live session.
func (m *Manager) Get() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live
}

// Set merges p into the live session and writes the result through to the
// keyring before returning. Callers establishing a new login or a renewed
// credential must pass every field they own in one Set so no dependent
// request observes a half-written session.
//
// A partial write against a terminated session fails with [ErrTerminated]:
// a stray credential renewal cannot resurrect a session after the
// unauthorized broadcast. Only a Set carrying a new refresh token — a fresh
// login — lifts the terminated state.
func (m *Manager) Set(ctx context.Context, p Partial) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.terminated && p.RefreshToken == "" {
		return ErrTerminated
	}

	next := m.live.apply(p)
	if err := m.keyring.Store(ctx, next); err != nil {
		return err
	}
	m.live = next
	m.terminated = false
	return nil
}

// Clear resets all three fields to absent. The in-memory session drops
// first so reads never return credentials past this point; the keyring
// clear is reported but cannot undo the drop.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.live = Session{}
	m.terminated = false
	return m.keyring.Clear(ctx)
}

// Terminate destroys the session and broadcasts the unauthorized signal to
// every subscriber. The live session drops unconditionally; keyring
// failures do not suppress the drop or the broadcast, so a terminated
// session is observable even when the medium is down.
func (m *Manager) Terminate(ctx context.Context) {
	m.mu.Lock()
	m.live = Session{}
	m.terminated = true
	err := m.keyring.Clear(ctx)
	m.mu.Unlock()

	if err != nil {
		log.Print("chatclient: session clear failed during termination")
	}
	m.notifyUnauthorized()
}

// Subscribe registers fn to run on every unauthorized broadcast and returns
// a cancel function removing it. Delivery is synchronous and in registration
// order; a panicking subscriber does not stop the remaining ones.
func (m *Manager) Subscribe(fn func()) (cancel func()) {
	if fn == nil {
		return func() {}
	}

	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs = append(m.subs, subscriber{id: id, fn: fn})
	m.subMu.Unlock()

	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

func (m *Manager) notifyUnauthorized() {
	m.subMu.Lock()
	subs := make([]subscriber, len(m.subs))
	copy(subs, m.subs)
	m.subMu.Unlock()

	for _, s := range subs {
		runIsolated(s.fn)
	}
}

func runIsolated(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Print("chatclient: unauthorized subscriber panicked")
		}
	}()
	fn()
}
