package server

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/rpclink/rpc/common"
)

func echo(_ context.Context, args []any) (any, error) {
	return args, nil
}

func TestBindAndLookup(t *testing.T) {
	r := NewProcedureRegistry()

	if err := r.Bind("echo", echo); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	fn, ok := r.Lookup("echo")
	if !ok {
		t.Fatal("Procedure echo not found")
	}
	result, err := fn(context.Background(), []any{"x", int64(1)})
	if err != nil {
		t.Fatalf("Invocation failed: %v", err)
	}
	if !reflect.DeepEqual(result, []any{"x", int64(1)}) {
		t.Errorf("Unexpected result %v", result)
	}

	if _, ok := r.Lookup("ghost"); ok {
		t.Error("Lookup of unbound procedure should fail")
	}
}

func TestBindRejectsInvalid(t *testing.T) {
	r := NewProcedureRegistry()

	testCases := []struct {
		name string
		bind func() error
	}{
		{"Empty name", func() error { return r.Bind("", echo) }},
		{"Nil function", func() error { return r.Bind("nil", nil) }},
		{"Empty class", func() error { return r.BindMethod("", "add", echo) }},
		{"Empty method", func() error { return r.BindMethod("Adder", "", echo) }},
		{"Empty constructor class", func() error { return r.BindConstructor("", echo) }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.bind(); err == nil {
				t.Error("Expected error but got none")
			}
		})
	}

	if len(r.Names()) != 0 {
		t.Errorf("No procedure should be bound, got %v", r.Names())
	}
}

func TestBindDuplicate(t *testing.T) {
	r := NewProcedureRegistry()
	r.MustBind("echo", echo)

	if err := r.Bind("echo", echo); err == nil {
		t.Error("Binding a name twice should fail")
	}
}

func TestNamingConvention(t *testing.T) {
	r := NewProcedureRegistry()

	if err := r.BindConstructor("Adder", echo); err != nil {
		t.Fatal(err)
	}
	if err := r.BindMethod("Adder", "add", echo); err != nil {
		t.Fatal(err)
	}
	if err := r.BindMethod("LedStrip", "fill", echo); err != nil {
		t.Fatal(err)
	}

	expected := []string{"adder_add", "adder_new", "ledstrip_fill"}
	if !reflect.DeepEqual(r.Names(), expected) {
		t.Errorf("Expected %v, got %v", expected, r.Names())
	}
}

func TestMiddlewareOrder(t *testing.T) {
	var calls []string
	trace := func(label string) Middleware {
		return func(name string, next ProcedureFunc) ProcedureFunc {
			return func(ctx context.Context, args []any) (any, error) {
				calls = append(calls, label+":"+name)
				return next(ctx, args)
			}
		}
	}

	r := NewProcedureRegistry(trace("outer"), trace("inner"))
	r.MustBind("echo", echo)

	fn, _ := r.Lookup("echo")
	if _, err := fn(context.Background(), nil); err != nil {
		t.Fatal(err)
	}

	expected := []string{"outer:echo", "inner:echo"}
	if !reflect.DeepEqual(calls, expected) {
		t.Errorf("Expected %v, got %v", expected, calls)
	}

	// Chain composes in the same order
	calls = nil
	chained := Chain(trace("outer"), trace("inner"))("echo", echo)
	chained(context.Background(), nil)
	if !reflect.DeepEqual(calls, expected) {
		t.Errorf("Chain: expected %v, got %v", expected, calls)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	r := NewProcedureRegistry(RateLimitMiddleware(0.001, 2))
	r.MustBind("echo", echo)
	fn, _ := r.Lookup("echo")

	for i := 0; i < 2; i++ {
		if _, err := fn(context.Background(), nil); err != nil {
			t.Fatalf("Call %d within burst failed: %v", i, err)
		}
	}

	_, err := fn(context.Background(), nil)
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("Expected ErrRateLimited, got %v", err)
	}
	if !strings.Contains(err.Error(), "rate limit exceeded") {
		t.Errorf("Unexpected error text %q", err.Error())
	}
}

func TestTimeoutMiddleware(t *testing.T) {
	slow := func(ctx context.Context, args []any) (any, error) {
		select {
		case <-time.After(time.Second):
			return "late", nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	panicking := func(context.Context, []any) (any, error) {
		panic("boom")
	}

	mw := TimeoutMiddleware(20 * time.Millisecond)

	if _, err := mw("slow", slow)(context.Background(), nil); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}

	result, err := mw("echo", echo)(context.Background(), []any{"fast"})
	if err != nil || !reflect.DeepEqual(result, []any{"fast"}) {
		t.Errorf("Expected fast result, got %v (%v)", result, err)
	}

	if _, err := mw("panicking", panicking)(context.Background(), nil); err == nil {
		t.Error("Expected error from panicking procedure")
	}
}

func TestLoggingMiddlewarePassesThrough(t *testing.T) {
	failing := func(context.Context, []any) (any, error) {
		return nil, common.ErrInvalidArguments
	}

	r := NewProcedureRegistry(LoggingMiddleware())
	r.MustBind("failing", failing)
	r.MustBind("echo", echo)

	fn, _ := r.Lookup("failing")
	if _, err := fn(context.Background(), nil); !errors.Is(err, common.ErrInvalidArguments) {
		t.Errorf("Expected ErrInvalidArguments, got %v", err)
	}

	fn, _ = r.Lookup("echo")
	if result, err := fn(context.Background(), []any{int64(3)}); err != nil || !reflect.DeepEqual(result, []any{int64(3)}) {
		t.Errorf("Unexpected result %v (%v)", result, err)
	}
}
