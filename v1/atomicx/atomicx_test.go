package atomicx

import (
	"sync"
	"testing"
	"unsafe"
)

func TestFlagTestAndSet(t *testing.T) {
	var f Flag
	if f.IsSet() {
		t.Fatal("zero flag should be clear")
	}
	if f.TestAndSet() {
		t.Fatal("first TestAndSet should report previously clear")
	}
	if !f.TestAndSet() {
		t.Fatal("second TestAndSet should report previously set")
	}
	f.Clear()
	if f.IsSet() {
		t.Fatal("flag should be clear after Clear")
	}
}

func TestFlagCompareAndSwap(t *testing.T) {
	var f Flag
	if !f.CompareAndSwap(0, 1) {
		t.Fatal("expected swap 0->1 to succeed")
	}
	if f.CompareAndSwap(0, 1) {
		t.Fatal("expected swap 0->1 to fail while set")
	}
	if !f.CompareAndSwap(1, 0) {
		t.Fatal("expected swap 1->0 to succeed")
	}
}

func TestCounterFetchAndAddReturnsPrevious(t *testing.T) {
	var c Counter
	for i := uint64(0); i < 5; i++ {
		if got := c.FetchAndAdd(1); got != i {
			t.Fatalf("FetchAndAdd #%d: got %d", i, got)
		}
	}
	if c.Load() != 5 {
		t.Fatalf("expected 5 got %d", c.Load())
	}
	c.Store(0)
	if c.Load() != 0 {
		t.Fatalf("expected 0 after Store got %d", c.Load())
	}
}

func TestCounterFetchAndAddUniqueUnderContention(t *testing.T) {
	const workers, per = 8, 1000
	var c Counter
	seen := make([][]uint64, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < per; i++ {
				seen[w] = append(seen[w], c.FetchAndAdd(1))
			}
		}(w)
	}
	wg.Wait()
	uniq := make(map[uint64]struct{}, workers*per)
	for _, s := range seen {
		for _, v := range s {
			if _, dup := uniq[v]; dup {
				t.Fatalf("value %d handed out twice", v)
			}
			uniq[v] = struct{}{}
		}
	}
	if len(uniq) != workers*per {
		t.Fatalf("expected %d unique values got %d", workers*per, len(uniq))
	}
}

func TestWordsArePadded(t *testing.T) {
	if s := unsafe.Sizeof(Flag{}); s != cacheLine {
		t.Fatalf("Flag size %d", s)
	}
	if s := unsafe.Sizeof(Counter{}); s != cacheLine {
		t.Fatalf("Counter size %d", s)
	}
}
