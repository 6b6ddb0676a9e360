package lock

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLocalSerialisesSameKey(t *testing.T) {
	l := NewLocal()

	release, err := l.Acquire(context.Background(), "job:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := l.Acquire(ctx, "job:1"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded while held, got %v", err)
	}

	release()
	release() // second call is a no-op

	again, err := l.Acquire(context.Background(), "job:1")
	if err != nil {
		t.Fatalf("expected lock to be free after release: %v", err)
	}
	again()

	if len(l.slots) != 0 {
		t.Fatalf("expected slots to be cleaned up, got %d", len(l.slots))
	}
}

func TestLocalIndependentKeys(t *testing.T) {
	l := NewLocal()

	a, err := l.Acquire(context.Background(), "job:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer a()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	b, err := l.Acquire(ctx, "job:2")
	if err != nil {
		t.Fatalf("different keys must not block: %v", err)
	}
	b()
}

func TestLocalHandsOverToWaiter(t *testing.T) {
	l := NewLocal()

	release, err := l.Acquire(context.Background(), "job:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	acquired := make(chan struct{})
	go func() {
		r, err := l.Acquire(context.Background(), "job:1")
		if err != nil {
			return
		}
		close(acquired)
		r()
	}()

	select {
	case <-acquired:
		t.Fatalf("waiter acquired a held lock")
	case <-time.After(20 * time.Millisecond):
	}

	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatalf("waiter never acquired the lock")
	}
}
