package auth

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const storeTimeout = 3 * time.Second

// TokenExpiry reads the exp claim without verifying the signature. The
// backend owns the signing key; the console only needs to know when to stop
// sending a token.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// TokenSubject reads the operator id the backend embeds in its tokens. It
// checks id, _id and sub in that order.
func TokenSubject(token string) (string, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", false
	}
	for _, key := range []string{"id", "_id", "sub"} {
		if v, ok := claims[key].(string); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// Provider is the single source of the bearer token. Login and logout write
// it; gateway calls only read it through Token.
type Provider struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

// NewProvider wraps store with an in-process cache.
func NewProvider(store Store, logger *zap.Logger) *Provider {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{store: store, logger: logger, now: time.Now}
}

// Restore loads a previously persisted token, dropping it when expired.
func (p *Provider) Restore(ctx context.Context) error {
	token, err := p.store.Load(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}
	exp, hasExp := TokenExpiry(token)
	if hasExp && !p.now().Before(exp) {
		p.logger.Info("persisted token expired, discarding", zap.Time("expires_at", exp))
		return p.store.Clear(ctx)
	}
	p.mu.Lock()
	p.token, p.expiresAt = token, exp
	p.mu.Unlock()
	return nil
}

// Token returns the current token. Expired tokens are treated as absent.
func (p *Provider) Token() (string, bool) {
	p.mu.RLock()
	token, exp := p.token, p.expiresAt
	p.mu.RUnlock()
	if token == "" {
		return "", false
	}
	if !exp.IsZero() && !p.now().Before(exp) {
		p.InvalidateIfCurrent(token)
		return "", false
	}
	return token, true
}

// ExpiresAt reports the expiry of the current token when it carries one.
func (p *Provider) ExpiresAt() (time.Time, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.expiresAt, p.token != "" && !p.expiresAt.IsZero()
}

// Set stores a freshly issued token.
func (p *Provider) Set(ctx context.Context, token string) error {
	exp, hasExp := TokenExpiry(token)
	var ttl time.Duration
	if hasExp {
		ttl = exp.Sub(p.now())
	}
	if err := p.store.Save(ctx, token, ttl); err != nil {
		return err
	}
	p.mu.Lock()
	p.token, p.expiresAt = token, exp
	p.mu.Unlock()
	return nil
}

// Clear forgets the token.
func (p *Provider) Clear(ctx context.Context) error {
	p.mu.Lock()
	p.token, p.expiresAt = "", time.Time{}
	p.mu.Unlock()
	return p.store.Clear(ctx)
}

// InvalidateIfCurrent drops a rejected token. It is a no-op when the
// provider already holds a different token, such as one stored by a login
// that completed while the rejected request was in flight.
func (p *Provider) InvalidateIfCurrent(token string) {
	p.mu.Lock()
	if token == "" || p.token != token {
		p.mu.Unlock()
		return
	}
	p.token, p.expiresAt = "", time.Time{}
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := p.store.Clear(ctx); err != nil {
		p.logger.Warn("failed to clear invalidated token", zap.Error(err))
		return
	}
	p.logger.Info("session token invalidated")
}
