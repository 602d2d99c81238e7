package inbox

import (
	"context"
	"testing"
	"time"
)

func TestPushTryPopFIFO(t *testing.T) {
	b := New[int](10)
	b.Push(1)
	b.Push(2)
	b.Push(3)
	for _, want := range []int{1, 2, 3} {
		got, ok := b.TryPop()
		if !ok || got != want {
			t.Fatalf("TryPop = (%d, %v), want (%d, true)", got, ok, want)
		}
	}
	if _, ok := b.TryPop(); ok {
		t.Error("TryPop on empty inbox should report false")
	}
}

func TestPushDropsOldestAtCapacity(t *testing.T) {
	b := New[int](2)
	if dropped := b.Push(1); dropped {
		t.Error("first push should not drop")
	}
	if dropped := b.Push(2); dropped {
		t.Error("second push should not drop (at capacity, not over)")
	}
	if dropped := b.Push(3); !dropped {
		t.Error("third push should drop the oldest entry")
	}
	got, _ := b.TryPop()
	if got != 2 {
		t.Errorf("oldest surviving entry = %d, want 2 (1 should have been dropped)", got)
	}
	got, _ = b.TryPop()
	if got != 3 {
		t.Errorf("got %d, want 3", got)
	}
}

func TestPopMatchingScansInOrderPreservesRest(t *testing.T) {
	b := New[int](10)
	b.Push(1)
	b.Push(2)
	b.Push(3)
	v, ok := b.PopMatching(func(v int) bool { return v == 2 })
	if !ok || v != 2 {
		t.Fatalf("PopMatching = (%d, %v), want (2, true)", v, ok)
	}
	first, _ := b.TryPop()
	second, _ := b.TryPop()
	if first != 1 || second != 3 {
		t.Errorf("remaining order = (%d, %d), want (1, 3)", first, second)
	}
}

func TestPopBlocksUntilPush(t *testing.T) {
	b := New[int](10)
	result := make(chan int, 1)
	go func() {
		v, _ := b.Pop(context.Background())
		result <- v
	}()
	time.Sleep(20 * time.Millisecond)
	b.Push(9)
	select {
	case v := <-result:
		if v != 9 {
			t.Errorf("got %d, want 9", v)
		}
	case <-time.After(time.Second):
		t.Fatal("Pop did not unblock after Push")
	}
}

func TestPopReturnsErrorOnClose(t *testing.T) {
	b := New[int](10)
	errCh := make(chan error, 1)
	go func() {
		_, err := b.Pop(context.Background())
		errCh <- err
	}()
	time.Sleep(20 * time.Millisecond)
	b.Close()
	select {
	case err := <-errCh:
		if err == nil {
			t.Error("expected an error after Close")
		}
	case <-time.After(time.Second):
		t.Fatal("Pop did not unblock after Close")
	}
}

func TestDefaultCapacityUsedWhenNonPositive(t *testing.T) {
	b := New[int](0)
	if b.capacity != DefaultCapacity {
		t.Errorf("capacity = %d, want %d", b.capacity, DefaultCapacity)
	}
}
