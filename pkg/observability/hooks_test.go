package observability

import (
	"context"
	"testing"
	"time"
)

type testRewriteHooks struct {
	NoopRewriteHooks
	applied []string
}

func (h *testRewriteHooks) OnApply(_ context.Context, event string, _, _ int) {
	h.applied = append(h.applied, event)
}

type testAutomatonHooks struct{ NoopAutomatonHooks }

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopRewriteHooks{}
	r.OnMatchStart(ctx, "adopt")
	r.OnMatchComplete(ctx, "adopt", 3, time.Second, nil)
	r.OnApply(ctx, "adopt(n1,n2)", 1, 0)

	NoopAutomatonHooks{}.OnMinimise(ctx, "a*", 4, 1, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Rewrite().(NoopRewriteHooks); !ok {
		t.Error("Rewrite() should return NoopRewriteHooks by default")
	}
	if _, ok := Automaton().(NoopAutomatonHooks); !ok {
		t.Error("Automaton() should return NoopAutomatonHooks by default")
	}

	rw := &testRewriteHooks{}
	SetRewriteHooks(rw)
	Rewrite().OnApply(context.Background(), "adopt(n1,n2)", 0, 0)
	if len(rw.applied) != 1 {
		t.Errorf("custom hooks received %d events, want 1", len(rw.applied))
	}

	au := &testAutomatonHooks{}
	SetAutomatonHooks(au)
	if Automaton() != au {
		t.Error("SetAutomatonHooks should set custom hooks")
	}

	Reset()
	if _, ok := Rewrite().(NoopRewriteHooks); !ok {
		t.Error("Reset() should restore NoopRewriteHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	custom := &testRewriteHooks{}
	SetRewriteHooks(custom)
	SetRewriteHooks(nil)
	if Rewrite() != custom {
		t.Error("SetRewriteHooks(nil) replaced the registered hooks")
	}
	SetAutomatonHooks(nil)
	if _, ok := Automaton().(NoopAutomatonHooks); !ok {
		t.Error("SetAutomatonHooks(nil) replaced the defaults")
	}
}
