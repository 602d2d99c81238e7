package onewait

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPutThenGet(t *testing.T) {
	c := New[int]()
	c.Put(42)
	v, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != 42 {
		t.Errorf("got %d, want 42", v)
	}
}

func TestOverwriteBeforeGet(t *testing.T) {
	c := New[string]()
	c.Put("stale")
	c.Put("fresh")
	v, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != "fresh" {
		t.Errorf("got %q, want %q (last write should win)", v, "fresh")
	}
}

func TestGetBlocksUntilPut(t *testing.T) {
	c := New[int]()
	done := make(chan int, 1)
	go func() {
		v, _ := c.Get(context.Background())
		done <- v
	}()
	time.Sleep(20 * time.Millisecond)
	c.Put(7)
	select {
	case v := <-done:
		if v != 7 {
			t.Errorf("got %d, want 7", v)
		}
	case <-time.After(time.Second):
		t.Fatal("Get did not unblock after Put")
	}
}

func TestGetContextCancelled(t *testing.T) {
	c := New[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := c.Get(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("got %v, want context.DeadlineExceeded", err)
	}
}

func TestCloseUnblocksGet(t *testing.T) {
	c := New[int]()
	errCh := make(chan error, 1)
	go func() {
		_, err := c.Get(context.Background())
		errCh <- err
	}()
	time.Sleep(20 * time.Millisecond)
	c.Close()
	select {
	case err := <-errCh:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("got %v, want ErrClosed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Get did not unblock after Close")
	}
}

func TestPutAfterCloseIsNoop(t *testing.T) {
	c := New[int]()
	c.Close()
	c.Put(1) // must not panic or block
	_, err := c.Get(context.Background())
	if !errors.Is(err, ErrClosed) {
		t.Errorf("got %v, want ErrClosed", err)
	}
}
