package middleware_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/axiondata/conveyor/deliverable"
	"github.com/axiondata/conveyor/identity"
	"github.com/axiondata/conveyor/middleware"
	"github.com/axiondata/conveyor/stage"
)

// fakeStage is a minimal Stage for exercising middleware.
type fakeStage struct {
	name string
}

func (f *fakeStage) ID() identity.StageID                  { return identity.NamedStage(f.name) }
func (f *fakeStage) RequiredInputTypes() []identity.TypeKey { return nil }
func (f *fakeStage) Consume(context.Context, map[identity.TypeKey]any) error {
	return nil
}
func (f *fakeStage) Produce(context.Context) (*deliverable.Deliverable, error) {
	return nil, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChain_Order(t *testing.T) {
	t.Parallel()

	var calls []string
	mk := func(name string) middleware.Middleware {
		return func(ctx context.Context, _ stage.Stage, next middleware.Handler) error {
			calls = append(calls, name+":before")
			err := next(ctx)
			calls = append(calls, name+":after")
			return err
		}
	}

	chain := middleware.Chain(mk("outer"), mk("inner"))
	err := chain(context.Background(), &fakeStage{name: "s"}, func(context.Context) error {
		calls = append(calls, "handler")
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"outer:before", "inner:before", "handler", "inner:after", "outer:after"}
	if strings.Join(calls, ",") != strings.Join(want, ",") {
		t.Errorf("call order = %v, want %v", calls, want)
	}
}

func TestChain_Empty(t *testing.T) {
	t.Parallel()

	called := false
	chain := middleware.Chain()
	err := chain(context.Background(), &fakeStage{name: "s"}, func(context.Context) error {
		called = true
		return nil
	})
	if err != nil || !called {
		t.Fatalf("empty chain should call the handler directly, err=%v called=%v", err, called)
	}
}

func TestRecover(t *testing.T) {
	t.Parallel()

	mw := middleware.Recover(discard())
	err := mw(context.Background(), &fakeStage{name: "exploding"}, func(context.Context) error {
		panic("kaboom")
	})
	if err == nil {
		t.Fatal("expected panic to surface as an error")
	}
	if !strings.Contains(err.Error(), "exploding") || !strings.Contains(err.Error(), "kaboom") {
		t.Errorf("error %q should name the stage and the panic value", err)
	}
}

func TestRecover_PassthroughError(t *testing.T) {
	t.Parallel()

	want := errors.New("normal failure")
	mw := middleware.Recover(discard())
	err := mw(context.Background(), &fakeStage{name: "s"}, func(context.Context) error {
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	mw := middleware.Timeout(10 * time.Millisecond)
	err := mw(context.Background(), &fakeStage{name: "slow"}, func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
}

func TestTimeout_Disabled(t *testing.T) {
	t.Parallel()

	mw := middleware.Timeout(0)
	err := mw(context.Background(), &fakeStage{name: "s"}, func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); ok {
			t.Error("no deadline expected when timeout is disabled")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	mw := middleware.RateLimit(rate.NewLimiter(rate.Inf, 1))
	called := false
	err := mw(context.Background(), &fakeStage{name: "s"}, func(context.Context) error {
		called = true
		return nil
	})
	if err != nil || !called {
		t.Fatalf("unlimited limiter should pass through, err=%v called=%v", err, called)
	}
}

func TestRateLimit_CancelledContext(t *testing.T) {
	t.Parallel()

	// Zero rate never grants a token; cancellation must unblock Wait.
	mw := middleware.RateLimit(rate.NewLimiter(0, 0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := mw(ctx, &fakeStage{name: "s"}, func(context.Context) error {
		t.Fatal("handler should not run")
		return nil
	})
	if err == nil {
		t.Fatal("expected an error from the limiter")
	}
}

func TestLogging(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	mw := middleware.Logging(logger)
	if err := mw(context.Background(), &fakeStage{name: "extract"}, func(context.Context) error {
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "stage started") || !strings.Contains(out, "stage completed") {
		t.Errorf("log output missing start/completion records: %q", out)
	}
	if !strings.Contains(out, "extract") {
		t.Errorf("log output should name the stage: %q", out)
	}
}
