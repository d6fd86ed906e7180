package server

import (
	"errors"
	"sync"
	"testing"

	"github.com/ironsheep/mser-tools-mcp/internal/mser"
)

// countingFactory returns a detector constructor that counts calls per
// parameter set and never touches native code.
func countingFactory() (func(mser.Params) (*mser.Detector, error), func(mser.Params) int) {
	var mu sync.Mutex
	calls := make(map[mser.Params]int)
	factory := func(p mser.Params) (*mser.Detector, error) {
		mu.Lock()
		calls[p]++
		mu.Unlock()
		return &mser.Detector{}, nil
	}
	count := func(p mser.Params) int {
		mu.Lock()
		defer mu.Unlock()
		return calls[p]
	}
	return factory, count
}

func paramsWithDelta(delta int) mser.Params {
	p := mser.DefaultParams()
	p.Delta = delta
	return p
}

func TestDetectorCache_ReusesDetectors(t *testing.T) {
	c, err := newDetectorCache(2, false)
	if err != nil {
		t.Fatalf("newDetectorCache failed: %v", err)
	}
	factory, count := countingFactory()
	c.newDetector = factory

	p := mser.DefaultParams()
	d1, err := c.get(p)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	d2, err := c.get(p)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if d1 != d2 {
		t.Error("same params should return the same detector")
	}
	if count(p) != 1 {
		t.Errorf("constructed %d times, want 1", count(p))
	}
}

func TestDetectorCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, err := newDetectorCache(2, false)
	if err != nil {
		t.Fatalf("newDetectorCache failed: %v", err)
	}
	factory, count := countingFactory()
	c.newDetector = factory

	a, b, d := paramsWithDelta(1), paramsWithDelta(2), paramsWithDelta(3)

	for _, p := range []mser.Params{a, b, a, d} {
		if _, err := c.get(p); err != nil {
			t.Fatalf("get failed: %v", err)
		}
	}

	if c.len() != 2 {
		t.Errorf("len: got %d, want 2", c.len())
	}

	// a was used more recently than b, so b was evicted.
	if _, err := c.get(a); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if count(a) != 1 {
		t.Errorf("a constructed %d times, want 1", count(a))
	}
	if _, err := c.get(b); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if count(b) != 2 {
		t.Errorf("b constructed %d times, want 2", count(b))
	}
}

func TestDetectorCache_Close(t *testing.T) {
	c, err := newDetectorCache(4, false)
	if err != nil {
		t.Fatalf("newDetectorCache failed: %v", err)
	}
	factory, _ := countingFactory()
	c.newDetector = factory

	for i := 1; i <= 3; i++ {
		if _, err := c.get(paramsWithDelta(i)); err != nil {
			t.Fatalf("get failed: %v", err)
		}
	}

	c.close()
	if c.len() != 0 {
		t.Errorf("len after close: got %d, want 0", c.len())
	}
	if len(c.evicted) != 0 {
		t.Errorf("evicted detectors left pending: %d", len(c.evicted))
	}

	// Closing twice is harmless.
	c.close()
}

func TestDetectorCache_ConstructorError(t *testing.T) {
	c, err := newDetectorCache(2, false)
	if err != nil {
		t.Fatalf("newDetectorCache failed: %v", err)
	}
	wantErr := errors.New("boom")
	c.newDetector = func(mser.Params) (*mser.Detector, error) { return nil, wantErr }

	if _, err := c.get(mser.DefaultParams()); !errors.Is(err, wantErr) {
		t.Errorf("got %v, want %v", err, wantErr)
	}
	if c.len() != 0 {
		t.Errorf("failed construction should not be cached, len %d", c.len())
	}
}

func TestDetectorCache_Concurrent(t *testing.T) {
	c, err := newDetectorCache(3, false)
	if err != nil {
		t.Fatalf("newDetectorCache failed: %v", err)
	}
	factory, _ := countingFactory()
	c.newDetector = factory

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := c.get(paramsWithDelta(i % 5)); err != nil {
				t.Errorf("get failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if c.len() != 3 {
		t.Errorf("len: got %d, want 3", c.len())
	}
}
