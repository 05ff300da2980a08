package player

import (
	"testing"
	"time"
)

func TestHeapPushPopOrdering(t *testing.T) {
	h := &eventHeap{}
	base := time.Now()

	heapPush(h, event{at: base.Add(3 * time.Second), index: 3, seq: 3})
	heapPush(h, event{at: base.Add(1 * time.Second), index: 1, seq: 1})
	heapPush(h, event{at: base.Add(2 * time.Second), index: 2, seq: 2})

	for want := 1; want <= 3; want++ {
		if got := heapPop(h); got.index != want {
			t.Fatalf("expected index %d, got %d", want, got.index)
		}
	}
}

func TestHeapTiesBrokenBySeq(t *testing.T) {
	h := &eventHeap{}
	at := time.Now()

	heapPush(h, event{at: at, index: completeIndex, seq: 2})
	heapPush(h, event{at: at, index: 1, seq: 1})
	heapPush(h, event{at: at, index: 0, seq: 0})

	if got := heapPop(h); got.index != 0 {
		t.Fatalf("expected index 0 first, got %d", got.index)
	}
	if got := heapPop(h); got.index != 1 {
		t.Fatalf("expected index 1 second, got %d", got.index)
	}
	if got := heapPop(h); got.index != completeIndex {
		t.Fatalf("expected completion last, got %d", got.index)
	}
}

func TestHeapClear(t *testing.T) {
	h := &eventHeap{}
	heapPush(h, event{at: time.Now()})
	heapPush(h, event{at: time.Now()})
	heapClear(h)
	if h.Len() != 0 {
		t.Errorf("expected empty heap, got len %d", h.Len())
	}
}
