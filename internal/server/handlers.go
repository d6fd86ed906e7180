package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"strconv"

	textdetect "github.com/ironsheep/mser-tools-mcp/internal/detection"
	"github.com/ironsheep/mser-tools-mcp/internal/imaging"
	"github.com/ironsheep/mser-tools-mcp/internal/mser"
	"github.com/ironsheep/mser-tools-mcp/internal/ocr"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "mser_detect_regions").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads the image from cache and runs detection as needed
//  4. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Region Detection
	case "mser_defaults":
		return s.handleMSERDefaults(args)
	case "mser_detect_regions":
		return s.handleMSERDetectRegions(args)
	case "mser_overlay":
		return s.handleMSEROverlay(args)
	case "mser_text_lines":
		return s.handleMSERTextLines(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Missing or null arguments leave v at
// its zero value.
func decodeArgs(args json.RawMessage, v interface{}) error {
	trimmed := bytes.TrimSpace(args)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	// Explicit loads re-read the file so later detection sees its current contents.
	s.cache.Evict(a.Path)
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Region Detection Handlers ===

// DefaultsResult is the response of mser_defaults.
type DefaultsResult struct {
	// Params are the server's baseline parameters, after environment overrides.
	Params mser.Params `json:"params"`

	// LibraryDefaults are the built-in MSER defaults.
	LibraryDefaults mser.Params `json:"library_defaults"`

	MaxRegions  int    `json:"max_regions"`
	OCRLanguage string `json:"ocr_language"`
}

func (s *Server) handleMSERDefaults(args json.RawMessage) (interface{}, error) {
	// No arguments are defined, but malformed ones are still rejected.
	var a struct{}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return &DefaultsResult{
		Params:          s.baseline.Params(),
		LibraryDefaults: mser.DefaultParams(),
		MaxRegions:      s.cfg.MaxRegions,
		OCRLanguage:     s.cfg.OCRLanguage,
	}, nil
}

func (s *Server) handleMSERDetectRegions(args json.RawMessage) (interface{}, error) {
	var a detectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	det, err := s.detect(&a)
	if err != nil {
		return nil, err
	}

	limit := s.limit(&a)
	regions := det.regions
	truncated := len(regions) > limit
	if truncated {
		regions = regions[:limit]
	}

	results := make([]regionResult, len(regions))
	for i, r := range regions {
		results[i] = newRegionResult(det.source, i, r, a.IncludePoints)
	}

	return &DetectRegionsResult{
		Regions:   results,
		Count:     len(results),
		Total:     len(det.regions),
		Truncated: truncated,
		Params:    det.params,
	}, nil
}

type mserOverlayArgs struct {
	detectArgs

	FillAlpha  *float64 `json:"fill_alpha"`
	ShowBoxes  *bool    `json:"show_boxes"`
	ShowLabels bool     `json:"show_labels"`
	BoxColor   string   `json:"box_color"`
}

// OverlayResult is the response of mser_overlay.
type OverlayResult struct {
	*imaging.OverlayResult

	Total     int         `json:"total"`
	Truncated bool        `json:"truncated"`
	Params    mser.Params `json:"params"`
}

func (s *Server) handleMSEROverlay(args json.RawMessage) (interface{}, error) {
	var a mserOverlayArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	fillAlpha := 0.4
	if a.FillAlpha != nil {
		fillAlpha = *a.FillAlpha
	}
	showBoxes := true
	if a.ShowBoxes != nil {
		showBoxes = *a.ShowBoxes
	}

	det, err := s.detect(&a.detectArgs)
	if err != nil {
		return nil, err
	}

	limit := s.limit(&a.detectArgs)
	regions := det.regions
	truncated := len(regions) > limit
	if truncated {
		regions = regions[:limit]
	}

	overlays := make([]imaging.Overlay, len(regions))
	for i, r := range regions {
		overlays[i] = imaging.Overlay{Points: r.Points, Bounds: r.Bounds, Label: strconv.Itoa(i)}
	}

	rendered, err := imaging.RenderOverlay(det.source, overlays, imaging.OverlayOptions{
		FillAlpha:  fillAlpha,
		ShowBoxes:  showBoxes,
		ShowLabels: a.ShowLabels,
		BoxColor:   a.BoxColor,
	})
	if err != nil {
		return nil, err
	}

	return &OverlayResult{
		OverlayResult: rendered,
		Total:         len(det.regions),
		Truncated:     truncated,
		Params:        det.params,
	}, nil
}

type mserTextLinesArgs struct {
	detectArgs

	MinHeight          int     `json:"min_height"`
	MaxHeight          int     `json:"max_height"`
	GapFactor          float64 `json:"gap_factor"`
	MinVerticalOverlap float64 `json:"min_vertical_overlap"`
	MinMembers         int     `json:"min_members"`

	OCR      bool   `json:"ocr"`
	Language string `json:"language"`
	Padding  *int   `json:"padding"`
}

// textLineResult describes one grouped text line.
type textLineResult struct {
	Index       int            `json:"index"`
	Bounds      imaging.Region `json:"bounds"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	MemberCount int            `json:"member_count"`

	// Text and Confidence are set only when OCR was requested.
	Text       *string  `json:"text,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// TextLinesResult is the response of mser_text_lines.
type TextLinesResult struct {
	Lines       []textLineResult `json:"lines"`
	Count       int              `json:"count"`
	RegionCount int              `json:"region_count"`
	Language    string           `json:"language,omitempty"`
	Params      mser.Params      `json:"params"`
}

func (s *Server) handleMSERTextLines(args json.RawMessage) (interface{}, error) {
	var a mserTextLinesArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	padding := 4
	if a.Padding != nil {
		padding = *a.Padding
	}
	if padding < 0 {
		return nil, fmt.Errorf("invalid padding %d: must not be negative", padding)
	}

	det, err := s.detect(&a.detectArgs)
	if err != nil {
		return nil, err
	}

	// Grouping sees every region; max_regions does not apply here.
	_, boxes := mser.Split(det.regions)
	lines := textdetect.GroupTextLines(boxes, textdetect.LineOptions{
		MinHeight:          a.MinHeight,
		MaxHeight:          a.MaxHeight,
		GapFactor:          a.GapFactor,
		MinVerticalOverlap: a.MinVerticalOverlap,
		MinMembers:         a.MinMembers,
	})

	result := &TextLinesResult{
		Lines:       make([]textLineResult, len(lines)),
		Count:       len(lines),
		RegionCount: len(det.regions),
		Params:      det.params,
	}
	lineBounds := make([]image.Rectangle, len(lines))
	for i, l := range lines {
		lineBounds[i] = l.Bounds
		result.Lines[i] = textLineResult{
			Index:       i,
			Bounds:      imaging.RegionFromRect(l.Bounds),
			Width:       l.Bounds.Dx(),
			Height:      l.Bounds.Dy(),
			MemberCount: len(l.Members),
		}
	}

	if a.OCR {
		language := a.Language
		if language == "" {
			language = s.cfg.OCRLanguage
		}
		texts, err := ocr.RecognizeLines(det.source, lineBounds, language, padding)
		if err != nil {
			return nil, err
		}
		for i := range texts {
			result.Lines[i].Text = &texts[i].Text
			result.Lines[i].Confidence = &texts[i].Confidence
		}
		result.Language = language
	}

	return result, nil
}
