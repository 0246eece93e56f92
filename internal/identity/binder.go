package identity

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Binder resolves and holds the session's user identifier. Resolution
// tries the credential exchange first, then anonymous issuance, and
// finally a locally generated random identifier. The local fallback is
// non-durable: it will not match across sessions, but it never blocks
// the user with a hard error.
type Binder struct {
	provider Provider
	token    string

	mu      sync.RWMutex
	userID  string
	ready   bool
	durable bool
}

// NewBinder creates a Binder. token may be empty, in which case the
// credential exchange path is skipped.
func NewBinder(provider Provider, token string) *Binder {
	return &Binder{provider: provider, token: token}
}

// Resolve establishes the session identity. It never returns an error:
// when every provider path fails it falls back to a random local
// identifier. The returned AuthError, if any, describes the last
// provider failure for logging; the session is usable regardless.
func (b *Binder) Resolve(ctx context.Context) (string, error) {
	var lastErr error

	if b.provider != nil {
		if b.token != "" {
			if id, err := b.provider.ExchangeToken(ctx, b.token); err == nil {
				b.set(id, true)
				return id, nil
			} else {
				lastErr = err
			}
		}

		if id, err := b.provider.Anonymous(ctx); err == nil {
			b.set(id, true)
			return id, nil
		} else {
			lastErr = err
		}
	}

	id := "local-" + uuid.NewString()
	b.set(id, false)
	return id, lastErr
}

func (b *Binder) set(id string, durable bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.userID = id
	b.ready = true
	b.durable = durable
}

// UserID returns the resolved identifier, or "" before the first
// resolution completes.
func (b *Binder) UserID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.userID
}

// Ready reports whether the first resolution has completed. It flips
// to true exactly once per session and stays true through later
// identity changes.
func (b *Binder) Ready() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ready
}

// Durable reports whether the current identifier came from the
// provider (stable across sessions) or the local fallback.
func (b *Binder) Durable() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.durable
}
