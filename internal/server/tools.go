package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the schema of the path argument every tool takes.
func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// detectionProperties returns the schema of the arguments shared by every
// detection tool, merged with extra.
func detectionProperties(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"path": pathProperty(),

		// MSER parameters
		"delta": map[string]interface{}{
			"type":        "integer",
			"description": "Intensity step between compared thresholds. Larger values find fewer, more stable regions (default 5)",
		},
		"min_area": map[string]interface{}{
			"type":        "integer",
			"description": "Minimum region area in pixels (default 60)",
		},
		"max_area": map[string]interface{}{
			"type":        "integer",
			"description": "Maximum region area in pixels (default 14400)",
		},
		"max_variation": map[string]interface{}{
			"type":        "number",
			"description": "Maximum relative area change across delta for a region to count as stable (default 0.25)",
		},
		"min_diversity": map[string]interface{}{
			"type":        "number",
			"description": "Minimum size difference between a region and its nested parent (default 0.2)",
		},
		"max_evolution": map[string]interface{}{
			"type":        "integer",
			"description": "Color mode only: evolution steps (default 200)",
		},
		"area_threshold": map[string]interface{}{
			"type":        "number",
			"description": "Color mode only: re-initialization area threshold (default 1.01)",
		},
		"min_margin": map[string]interface{}{
			"type":        "number",
			"description": "Color mode only: minimum margin to ignore (default 0.003)",
		},
		"edge_blur_size": map[string]interface{}{
			"type":        "integer",
			"description": "Color mode only: aperture of the edge blur (default 5)",
		},

		"color": map[string]interface{}{
			"type":        "boolean",
			"description": "Run color MSER on the RGB image instead of grayscale MSER. max_evolution, area_threshold, min_margin and edge_blur_size only apply in this mode (default false)",
			"default":     false,
		},

		// Preprocessing
		"region": map[string]interface{}{
			"type":        "object",
			"description": "Optional region of interest. Results are still reported in full-image coordinates",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer"},
				"y1": map[string]interface{}{"type": "integer"},
				"x2": map[string]interface{}{"type": "integer"},
				"y2": map[string]interface{}{"type": "integer"},
			},
			"required": []string{"x1", "y1", "x2", "y2"},
		},
		"scale": map[string]interface{}{
			"type":        "number",
			"description": "Resize factor applied before detection (e.g., 2.0 to find small glyphs). Default 1.0",
			"default":     1.0,
		},
		"blur_sigma": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian blur sigma applied before detection. 0 disables (default)",
			"default":     0,
		},
		"contrast": map[string]interface{}{
			"type":        "number",
			"description": "Contrast adjustment (-1 to 1) applied before detection. 0 disables (default)",
			"default":     0,
		},

		// Output
		"max_regions": map[string]interface{}{
			"type":        "integer",
			"description": "Maximum regions to return (default: server setting, 500)",
		},
		"sort": map[string]interface{}{
			"type":        "string",
			"description": "Result order: none (detector order), area (largest first) or position (top-to-bottom, left-to-right)",
			"enum":        []string{"none", "area", "position"},
			"default":     "none",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and color model. The file is re-read and the decoded image cached for subsequent detection calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Region Detection
		{
			Name:        "mser_defaults",
			Description: "Return the MSER parameters used when a detection call does not override them, along with the built-in library defaults.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "mser_detect_regions",
			Description: "Detect Maximally Stable Extremal Regions (MSER): blobs whose shape stays stable across many intensity thresholds, such as text glyphs, signs and markers. Returns each region's bounding box, pixel count, centroid and mean color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": detectionProperties(map[string]interface{}{
					"include_points": map[string]interface{}{
						"type":        "boolean",
						"description": "Include every region pixel as [x, y] pairs (default false; can be large)",
						"default":     false,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "mser_overlay",
			Description: "Detect MSER regions and return the image with regions filled and outlined as base64-encoded PNG. Use this to visually check parameter choices.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": detectionProperties(map[string]interface{}{
					"fill_alpha": map[string]interface{}{
						"type":        "number",
						"description": "Opacity of the region fill (0-1, default 0.4)",
						"default":     0.4,
					},
					"show_boxes": map[string]interface{}{
						"type":        "boolean",
						"description": "Outline each region's bounding box (default true)",
						"default":     true,
					},
					"show_labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw each region's index at its top-left corner (default false)",
						"default":     false,
					},
					"box_color": map[string]interface{}{
						"type":        "string",
						"description": "Outline color in hex (#RRGGBB or #RRGGBBAA). Default: one distinct color per region",
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "mser_text_lines",
			Description: "Detect MSER regions, group glyph-like regions into horizontal text lines and optionally read each line with OCR.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": detectionProperties(map[string]interface{}{
					"min_height": map[string]interface{}{
						"type":        "integer",
						"description": "Minimum glyph height in pixels (default 8)",
						"default":     8,
					},
					"max_height": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum glyph height in pixels (default 300)",
						"default":     300,
					},
					"gap_factor": map[string]interface{}{
						"type":        "number",
						"description": "Maximum gap between neighbouring glyphs, as a multiple of mean glyph height (default 1.5)",
						"default":     1.5,
					},
					"min_vertical_overlap": map[string]interface{}{
						"type":        "number",
						"description": "Minimum vertical overlap of neighbouring glyphs, as a fraction of the shorter one (0-1, default 0.5)",
						"default":     0.5,
					},
					"min_members": map[string]interface{}{
						"type":        "integer",
						"description": "Minimum glyphs per line (default 2)",
						"default":     2,
					},
					"ocr": map[string]interface{}{
						"type":        "boolean",
						"description": "Read the text of each line with Tesseract (default false)",
						"default":     false,
					},
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code (default: server setting, eng)",
					},
					"padding": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels added around each line before OCR (default 4)",
						"default":     4,
					},
				}),
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
