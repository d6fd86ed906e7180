// Package detection groups detected regions into higher-level structures.
//
// MSER reports one region per stable blob, which for text means roughly one
// region per glyph, plus nested duplicates of the same glyph at neighbouring
// thresholds. GroupTextLines turns those per-glyph bounding boxes into text
// lines suitable for cropping and OCR.
//
// # Algorithm Overview
//
//  1. Filtering: drop boxes whose height or aspect ratio is unlike a glyph
//  2. Deduplication: drop boxes nested inside another candidate
//  3. Chaining: link left-to-right neighbours that share a row and sit within
//     a gap proportional to the line's mean glyph height
//  4. Merging: combine lines whose bounds overlap on the same row
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Bounding boxes use inclusive top-left and exclusive bottom-right
//
// # Limitations
//
// Lines are assumed to be roughly horizontal. Rotated or curved text, and
// scripts written top-to-bottom, split into many short lines or none.
package detection
