// Package server implements the MCP (Model Context Protocol) server for MSER region detection.
//
// This package provides a JSON-RPC 2.0 server that exposes OpenCV's Maximally
// Stable Extremal Region detector, plus text line grouping and OCR built on
// top of it, through the MCP protocol.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// Notifications (methods prefixed "notifications/") are accepted and never
// answered.
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Region Detection:
//   - mser_defaults: Report the baseline and built-in MSER parameters
//   - mser_detect_regions: Detect regions with bounds, centroid and color
//   - mser_overlay: Render detected regions over the image as PNG
//   - mser_text_lines: Group glyph regions into text lines, optionally with OCR
//
// Every detection tool accepts the nine MSER parameters. Omitted parameters
// fall back to the server baseline, which is the built-in defaults adjusted
// by MSER_MCP_* environment variables (see package config). Detection may run
// on a region of interest or a rescaled, blurred or contrast-adjusted copy of
// the image; results are always reported in source image coordinates.
//
// # Caching
//
// Decoded images are cached by path for the lifetime of the server. Native
// detectors are cached by their resolved parameters in a bounded LRU
// (MSER_MCP_DETECTOR_CACHE_SIZE); the least recently used detector is closed
// when the cache is full, and every detector is closed by Server.Close.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv, err := server.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Close()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
