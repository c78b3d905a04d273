package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	l := NoopLayoutHooks{}
	l.OnUpdateStart(ctx, 10, 12)
	l.OnUpdateComplete(ctx, []string{"data"}, time.Second, nil)
	l.OnSolve(ctx, 10, 150, true, time.Second)
	l.OnRoute(ctx, 12, time.Millisecond)

	i := NoopInteractionHooks{}
	i.OnDrag(ctx, "a", "start", nil)
	i.OnSelect(ctx, "")

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "PUT", "/sessions/x/figure")
	h.OnResponse(ctx, "PUT", "/sessions/x/figure", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Interaction().(NoopInteractionHooks); !ok {
		t.Error("Interaction() should return NoopInteractionHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}
	customInteraction := &testInteractionHooks{}
	SetInteractionHooks(customInteraction)
	if Interaction() != customInteraction {
		t.Error("SetInteractionHooks should set custom hooks")
	}

	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	custom := &testLayoutHooks{}
	SetLayoutHooks(custom)
	SetLayoutHooks(nil)
	if Layout() != custom {
		t.Error("SetLayoutHooks(nil) should keep the registered hooks")
	}
	Reset()
}

type testLayoutHooks struct{ NoopLayoutHooks }

type testInteractionHooks struct{ NoopInteractionHooks }
