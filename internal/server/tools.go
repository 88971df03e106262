package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the schema shared by every tool that reads an image file.
var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the image file (JPEG, PNG, GIF, WebP, BMP, TIFF, or a camera RAW/DNG container)",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Full Analysis
		{
			Name: "image_analyze",
			Description: "Decode an image with the multi-strategy fallback decoder and report mean RGB, " +
				"rg-chromaticity mean and standard deviation, per-channel maxima, EXIF metadata, and " +
				"APEX exposure values (sV, aV, tV, bV). When decoding fails the full strategy trail is " +
				"reported instead of statistics. Sends notifications/progress for large images when a " +
				"progressToken is supplied.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},

		// Container Inspection
		{
			Name:        "image_sniff",
			Description: "Classify an image buffer by its magic bytes and report structural hints: TIFF byte order, likely DNG, JPEG marker count and complete embedded previews. Nothing is decoded.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_decode",
			Description: "Run only the decoder. Reports the strategy that succeeded, the decoded dimensions, and every strategy that failed along the way with its reason.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_preview",
			Description: "Decode an image and return the decoded surface as a base64-encoded PNG, scaled to fit max_size. Use this to see which embedded preview a RAW file decoded to.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"max_size": map[string]interface{}{
						"type":        "integer",
						"description": "Longest edge of the preview in pixels. Defaults to the server's configured preview size",
					},
				},
				"required": []string{"path"},
			},
		},

		// Metadata and Exposure
		{
			Name:        "image_metadata",
			Description: "Extract EXIF tags (falling back to the first embedded JPEG preview when the container yields none of the capture tags) and derive exposure values from them.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "exposure_calculate",
			Description: "Compute APEX exposure values from capture settings: sV = log2(ISO/3.3333), aV = 2·log2(N), tV = −log2(t), bV = aV + tV − sV. Missing or non-positive inputs yield null for the affected values.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"iso": map[string]interface{}{
						"type":        "number",
						"description": "ISO speed rating, e.g. 100",
					},
					"f_number": map[string]interface{}{
						"type":        "number",
						"description": "Aperture f-number, e.g. 2.8",
					},
					"exposure_time": map[string]interface{}{
						"type":        "number",
						"description": "Exposure time in seconds, e.g. 0.0166667 for 1/60",
					},
				},
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
