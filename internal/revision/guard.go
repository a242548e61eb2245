// Package revision orders interleaved asynchronous menu loads: the last
// load started wins, regardless of which response arrives first.
package revision

import "sync"

// Guard hands out one Token per load. Beginning a new load or invalidating
// the guard makes every earlier token stale, so a slow response from a
// superseded load is discarded instead of overwriting newer state.
type Guard struct {
	mu      sync.Mutex
	current uint64
}

// Token marks one load request against the guard generation it started in.
type Token struct {
	guard *Guard
	rev   uint64
}

// Begin starts a new load generation and returns its token. Any token issued
// earlier is stale from this point on.
func (g *Guard) Begin() Token {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.current++
	return Token{guard: g, rev: g.current}
}

// Invalidate supersedes all pending loads without starting a new one, e.g.
// when a save makes their eventual results stale.
func (g *Guard) Invalidate() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.current++
}

// Live reports whether no newer load has started since this token was issued.
func (t Token) Live() bool {
	if t.guard == nil {
		return false
	}

	t.guard.mu.Lock()
	defer t.guard.mu.Unlock()

	return t.rev == t.guard.current
}

// Apply runs fn only while the token is still current, holding the guard so
// no newer load can slip in between the check and the application. Returns
// whether fn ran.
func (t Token) Apply(fn func()) bool {
	if t.guard == nil {
		return false
	}

	t.guard.mu.Lock()
	defer t.guard.mu.Unlock()

	if t.rev != t.guard.current {
		return false
	}
	fn()
	return true
}
