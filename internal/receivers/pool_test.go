package receivers

import (
	"context"
	"testing"
)

func TestDispatchFirstMatchWins(t *testing.T) {
	p := New[int]()
	cellEven := p.Register(func(v int) bool { return v%2 == 0 })
	cellOdd := p.Register(func(v int) bool { return v%2 == 1 })

	claimed, fault := p.Dispatch(3)
	if !claimed || fault {
		t.Fatalf("claimed=%v fault=%v, want true/false", claimed, fault)
	}
	v, err := cellOdd.Get(context.Background())
	if err != nil || v != 3 {
		t.Errorf("cellOdd got (%d, %v), want (3, nil)", v, err)
	}
	if p.Len() != 1 {
		t.Errorf("Len = %d, want 1 (cellEven still registered)", p.Len())
	}
	_ = cellEven
}

func TestDispatchNoMatchLeavesWaitersRegistered(t *testing.T) {
	p := New[string]()
	p.Register(func(v string) bool { return v == "a" })
	claimed, fault := p.Dispatch("b")
	if claimed || fault {
		t.Fatalf("claimed=%v fault=%v, want false/false", claimed, fault)
	}
	if p.Len() != 1 {
		t.Errorf("Len = %d, want 1", p.Len())
	}
}

func TestDispatchRecoversFromPanickingPredicate(t *testing.T) {
	p := New[int]()
	p.Register(func(int) bool { panic("boom") })
	goodCell := p.Register(func(v int) bool { return v == 5 })

	claimed, fault := p.Dispatch(5)
	if !claimed {
		t.Fatal("expected the second, non-panicking waiter to claim the value")
	}
	if !fault {
		t.Error("expected anyFault=true since the first predicate panicked")
	}
	v, err := goodCell.Get(context.Background())
	if err != nil || v != 5 {
		t.Errorf("got (%d, %v), want (5, nil)", v, err)
	}
	// The panicking waiter should remain registered (only the matched one is removed).
	if p.Len() != 1 {
		t.Errorf("Len = %d, want 1", p.Len())
	}
}

func TestUnregisterRemovesWaiter(t *testing.T) {
	p := New[int]()
	cell := p.Register(func(int) bool { return true })
	p.Unregister(cell)
	if p.Len() != 0 {
		t.Errorf("Len = %d, want 0 after Unregister", p.Len())
	}
	claimed, _ := p.Dispatch(1)
	if claimed {
		t.Error("Dispatch should not claim anything once the only waiter was unregistered")
	}
}

func TestCloseAllUnblocksWaiters(t *testing.T) {
	p := New[int]()
	cell := p.Register(func(int) bool { return false })
	p.CloseAll()
	if _, err := cell.Get(context.Background()); err == nil {
		t.Error("expected an error after CloseAll")
	}
}
