package containers

import (
	"errors"
	"testing"
)

func TestRingQueue(t *testing.T) {
	rq := NewRingQueue[string](2)
	if _, err := rq.Dequeue(); !errors.Is(err, ErrQueueEmpty) {
		t.Fatalf("Dequeue on empty:\nhave %v\nwant %v", err, ErrQueueEmpty)
	}
	if err := rq.Enqueue("a"); err != nil {
		t.Fatal(err)
	}
	if err := rq.Enqueue("b"); err != nil {
		t.Fatal(err)
	}
	if err := rq.Enqueue("c"); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("Enqueue on full:\nhave %v\nwant %v", err, ErrQueueFull)
	}
	if v, _ := rq.Peek(); v != "a" {
		t.Fatalf("Peek:\nhave %q\nwant %q", v, "a")
	}
	if v, _ := rq.Dequeue(); v != "a" {
		t.Fatalf("Dequeue:\nhave %q\nwant %q", v, "a")
	}
	// Wrap around.
	if err := rq.Enqueue("c"); err != nil {
		t.Fatal(err)
	}
	have := rq.Drain()
	if len(have) != 2 || have[0] != "b" || have[1] != "c" {
		t.Fatalf("Drain:\nhave %v\nwant [b c]", have)
	}
	if !rq.IsEmpty() || rq.Len() != 0 {
		t.Fatalf("queue not empty after Drain: %d", rq.Len())
	}
}
