// Package mser binds OpenCV's Maximally Stable Extremal Region detector.
//
// Region extraction is performed entirely by the native library; this package
// only packs the nine tuning parameters in and copies the detected contours
// and bounding boxes out into Go memory.
//
// # Configuration
//
// Builder accumulates optional overrides and resolves every unset parameter to
// its documented default:
//
//	delta=5, min_area=60, max_area=14400, max_variation=0.25,
//	min_diversity=0.2, max_evolution=200, area_threshold=1.01,
//	min_margin=0.003, edge_blur_size=5
//
// Builder and Params are plain values: they can be copied, compared and used
// as map keys. Neither owns native resources.
//
// # Detector Lifetime
//
// A Detector owns exactly one native context. Release it with Close when done:
//
//	det, err := mser.NewBuilder().MinArea(30).Build()
//	if err != nil {
//	    return err
//	}
//	defer det.Close()
//
//	regions, err := det.DetectImage(img)
//
// Close is idempotent. A finalizer releases the context if the Detector
// becomes unreachable without being closed. Detect after Close returns
// ErrClosed.
//
// # Results
//
// Detect returns one Region per detected extremal region, pairing its contour
// points with its bounding box. DetectRegions returns the same data as two
// index-aligned slices for callers that want them separately.
//
// # Build Requirements
//
// The native binding requires cgo and OpenCV 4 discoverable through
// pkg-config (opencv4). Without cgo, New returns ErrUnavailable; Builder and
// Params remain usable.
//
// # Thread Safety
//
// The native context is not safe for concurrent use. Detector serialises its
// own methods with a mutex, so sharing one Detector between goroutines is
// correct but not parallel. Use one Detector per goroutine for throughput.
package mser
