// Package observability provides hooks for instrumenting rule matching,
// rule application and automaton construction.
//
// Libraries report through the registered hooks and never depend on a
// metrics or tracing backend; the binary decides what to register. The
// defaults do nothing.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRewriteHooks(&myRewriteHooks{})
//	    observability.SetAutomatonHooks(&myAutomatonHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Rewrite().OnMatchStart(ctx, rule)
//	// ... search ...
//	observability.Rewrite().OnMatchComplete(ctx, rule, len(proofs), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Rewrite Hooks
// =============================================================================

// RewriteHooks receives events from rule matching and application.
type RewriteHooks interface {
	// OnMatchStart is called before searching the matches of a rule.
	OnMatchStart(ctx context.Context, rule string)

	// OnMatchComplete reports the number of matches found.
	OnMatchComplete(ctx context.Context, rule string, matches int, duration time.Duration, err error)

	// OnApply reports an applied event and the size of its effect.
	OnApply(ctx context.Context, event string, added, removed int)
}

// =============================================================================
// Automaton Hooks
// =============================================================================

// AutomatonHooks receives events from automaton construction.
type AutomatonHooks interface {
	// OnMinimise reports the state counts before and after minimisation.
	OnMinimise(ctx context.Context, expr string, states, minimal int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRewriteHooks is a no-op implementation of RewriteHooks.
type NoopRewriteHooks struct{}

func (NoopRewriteHooks) OnMatchStart(context.Context, string)                                {}
func (NoopRewriteHooks) OnMatchComplete(context.Context, string, int, time.Duration, error) {}
func (NoopRewriteHooks) OnApply(context.Context, string, int, int)                           {}

// NoopAutomatonHooks is a no-op implementation of AutomatonHooks.
type NoopAutomatonHooks struct{}

func (NoopAutomatonHooks) OnMinimise(context.Context, string, int, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	rewriteHooks   RewriteHooks   = NoopRewriteHooks{}
	automatonHooks AutomatonHooks = NoopAutomatonHooks{}
	hooksMu        sync.RWMutex
)

// SetRewriteHooks registers rewrite hooks. A nil argument is ignored.
func SetRewriteHooks(h RewriteHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		rewriteHooks = h
	}
}

// SetAutomatonHooks registers automaton hooks. A nil argument is ignored.
func SetAutomatonHooks(h AutomatonHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		automatonHooks = h
	}
}

// Rewrite returns the registered rewrite hooks.
func Rewrite() RewriteHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return rewriteHooks
}

// Automaton returns the registered automaton hooks.
func Automaton() AutomatonHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return automatonHooks
}

// Reset restores the no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	rewriteHooks = NoopRewriteHooks{}
	automatonHooks = NoopAutomatonHooks{}
}
