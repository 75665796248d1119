package ring

import "testing"

func TestPushPopOrder(t *testing.T) {
	r := New[int](3)
	r.Push(1)
	r.Push(2)
	r.Push(3)
	for _, want := range []int{1, 2, 3} {
		got, ok := r.Pop()
		if !ok || got != want {
			t.Fatalf("Pop() = %d, %v; want %d, true", got, ok, want)
		}
	}
	if _, ok := r.Pop(); ok {
		t.Fatalf("Pop() on empty ring should report ok=false")
	}
}

func TestPushOverwritesOldestWhenFull(t *testing.T) {
	r := New[int](2)
	r.Push(1)
	r.Push(2)
	if overwrote := r.Push(3); !overwrote {
		t.Fatalf("Push on a full ring should report overwrote=true")
	}
	got := r.Drain()
	want := []int{2, 3}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Drain() = %v, want %v", got, want)
	}
}

func TestCapZeroOrNegativeClampsToOne(t *testing.T) {
	r := New[int](0)
	if r.Cap() != 1 {
		t.Fatalf("Cap() = %d, want 1", r.Cap())
	}
}

func TestFullAndLen(t *testing.T) {
	r := New[string](2)
	if r.Full() {
		t.Fatalf("new ring should not be full")
	}
	r.Push("a")
	r.Push("b")
	if !r.Full() || r.Len() != 2 {
		t.Fatalf("Full()=%v Len()=%d, want true 2", r.Full(), r.Len())
	}
}
