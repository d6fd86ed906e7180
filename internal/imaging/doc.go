// Package imaging loads images and prepares them for region detection.
//
// It covers the pure-Go side of the server: decoding and caching source
// images, optional preprocessing before detection (crop, resize, blur,
// contrast), describing detected regions by color, and rendering region
// overlays for visual inspection.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// Preprocess returns a Prepared image whose MapPoint and MapRect methods
// translate detector output back into source image coordinates.
//
// # Formats
//
// PNG, JPEG and GIF use the standard library decoders, BMP and TIFF come
// from golang.org/x/image. WebP is decoded with libwebp when built with cgo
// and with golang.org/x/image/webp otherwise.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless and never modify their input image.
//
// # Color Representation
//
// Colors are returned as:
//   - Hex: 6-character format "#rrggbb"
//   - RGB: 8-bit components (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
package imaging
