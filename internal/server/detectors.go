package server

import (
	"fmt"
	"log"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ironsheep/mser-tools-mcp/internal/mser"
)

// detectorCache keeps a bounded set of native detectors keyed by their
// resolved parameters. The least recently used detector is closed when the
// cache is full.
type detectorCache struct {
	mu      sync.Mutex
	lru     *lru.Cache[mser.Params, *mser.Detector]
	evicted []*mser.Detector // filled by the eviction callback under mu
	debug   bool

	// newDetector constructs detectors on a miss; replaced in tests.
	newDetector func(mser.Params) (*mser.Detector, error)
}

func newDetectorCache(size int, debug bool) (*detectorCache, error) {
	if size < 1 {
		size = 1
	}
	c := &detectorCache{debug: debug, newDetector: mser.New}
	l, err := lru.NewWithEvict(size, func(p mser.Params, d *mser.Detector) {
		c.evicted = append(c.evicted, d)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create detector cache: %w", err)
	}
	c.lru = l
	return c, nil
}

// get returns the cached detector for p, constructing it on a miss.
func (c *detectorCache) get(p mser.Params) (*mser.Detector, error) {
	c.mu.Lock()
	if d, ok := c.lru.Get(p); ok {
		c.mu.Unlock()
		return d, nil
	}

	d, err := c.newDetector(p)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if c.debug {
		log.Printf("detector cache miss, created detector: %s", p)
	}
	c.lru.Add(p, d)
	evicted := c.takeEvicted()
	c.mu.Unlock()

	if c.debug && len(evicted) > 0 {
		log.Printf("detector cache full, closing %d evicted detector(s)", len(evicted))
	}
	// Closing waits for any detection still running on the evicted detector,
	// so it happens outside the lock.
	closeAll(evicted)
	return d, nil
}

// len returns the number of live cached detectors.
func (c *detectorCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// close releases every cached detector.
func (c *detectorCache) close() {
	c.mu.Lock()
	c.lru.Purge()
	evicted := c.takeEvicted()
	c.mu.Unlock()

	closeAll(evicted)
}

func (c *detectorCache) takeEvicted() []*mser.Detector {
	evicted := c.evicted
	c.evicted = nil
	return evicted
}

func closeAll(detectors []*mser.Detector) {
	for _, d := range detectors {
		if err := d.Close(); err != nil {
			log.Printf("Failed to close detector: %v", err)
		}
	}
}
