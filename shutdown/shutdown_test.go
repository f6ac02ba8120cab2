package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestHooksRunInPriorityOrder(t *testing.T) {
	c := New(zap.NewNop())

	var order []string
	record := func(name string) HookFunc {
		return func(ctx context.Context) error {
			order = append(order, name)
			return nil
		}
	}
	c.OnShutdown("database", 30, record("database"))
	c.OnShutdown("http", 5, record("http"))
	c.OnShutdown("workers", 10, record("workers"))

	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"http", "workers", "database"}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestAllHooksRunDespiteFailure(t *testing.T) {
	c := New(zap.NewNop())

	boom := errors.New("close failed")
	var ran []string
	c.OnShutdown("first", 1, func(ctx context.Context) error {
		ran = append(ran, "first")
		return boom
	})
	c.OnShutdown("second", 2, func(ctx context.Context) error {
		ran = append(ran, "second")
		return nil
	})

	err := c.Run()
	if !errors.Is(err, boom) {
		t.Fatalf("Run error = %v, want wrapped boom", err)
	}
	if len(ran) != 2 {
		t.Fatalf("ran = %v, want both hooks", ran)
	}
}

func TestRunIdempotent(t *testing.T) {
	c := New(zap.NewNop())

	count := 0
	c.OnShutdown("once", 1, func(ctx context.Context) error {
		count++
		return nil
	})

	if err := c.Run(); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if err := c.Run(); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if count != 1 {
		t.Errorf("hook ran %d times, want 1", count)
	}
}

func TestTriggerCancelsContext(t *testing.T) {
	c := New(zap.NewNop())

	done := make(chan struct{})
	go func() {
		c.Wait()
		close(done)
	}()

	c.Trigger()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("context not cancelled after Trigger")
	}
}

func TestRegisterAfterRunIsNoOp(t *testing.T) {
	c := New(zap.NewNop())
	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	called := false
	c.OnShutdown("late", 1, func(ctx context.Context) error {
		called = true
		return nil
	})
	_ = c.Run()
	if called {
		t.Error("hook registered after Run was executed")
	}
}

func TestHookContextHasDeadline(t *testing.T) {
	c := New(zap.NewNop(), WithTimeout(time.Second))

	var hasDeadline bool
	c.OnShutdown("check", 1, func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	})
	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !hasDeadline {
		t.Error("hook context missing deadline")
	}
}
