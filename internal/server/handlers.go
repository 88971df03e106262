package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/chroma-analyzer/internal/analysis"
	"github.com/ironsheep/chroma-analyzer/internal/container"
	"github.com/ironsheep/chroma-analyzer/internal/decode"
	"github.com/ironsheep/chroma-analyzer/internal/exposure"
	"github.com/ironsheep/chroma-analyzer/internal/imaging"
	"github.com/ironsheep/chroma-analyzer/internal/metadata"
	"github.com/ironsheep/chroma-analyzer/internal/stats"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_analyze", "image_decode").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`

	// Meta carries the optional progress token.
	Meta *struct {
		ProgressToken interface{} `json:"progressToken,omitempty"`
	} `json:"_meta,omitempty"`
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
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}
	if len(params.Arguments) == 0 {
		params.Arguments = json.RawMessage("{}")
	}

	if s.cfg.AnalysisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.AnalysisTimeout)
		defer cancel()
	}

	var progress stats.Observer
	if params.Meta != nil && params.Meta.ProgressToken != nil {
		progress = s.progressNotifier(params.Meta.ProgressToken)
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments, progress)
	if err != nil {
		s.logger.Info("server.tool.failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return s.toolResponse(req.ID, params.Name, result)
}

// toolResponse wraps a tool result in MCP's content format. A result that
// cannot be encoded becomes a -32603 error rather than an empty body.
func (s *Server) toolResponse(id interface{}, tool string, result interface{}) *MCPResponse {
	text, err := marshalResult(result)
	if err != nil {
		s.logger.Warn("server.tool.encode", "tool", tool, "error", err)
		return s.errorResponse(id, -32603, "Internal error", err.Error())
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": text,
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
//  3. Reads the image file, bounded by the configured size limit
//  4. Calls the appropriate analysis/decode/metadata function
//  5. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage, progress stats.Observer) (interface{}, error) {
	switch name {
	// Full Analysis
	case "image_analyze":
		return s.handleImageAnalyze(ctx, args, progress)

	// Container Inspection
	case "image_sniff":
		return s.handleImageSniff(args)
	case "image_decode":
		return s.handleImageDecode(ctx, args)
	case "image_preview":
		return s.handleImagePreview(ctx, args)

	// Metadata and Exposure
	case "image_metadata":
		return s.handleImageMetadata(args)
	case "exposure_calculate":
		return s.handleExposureCalculate(args)

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

// marshalResult converts a tool result to a pretty-printed JSON string.
func marshalResult(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(b), nil
}

type pathArgs struct {
	Path string `json:"path"`
}

// readImage loads the file named by args, enforcing MaxImageBytes.
func (s *Server) readImage(args json.RawMessage) ([]byte, *imaging.FileInfo, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, nil, err
	}
	if a.Path == "" {
		return nil, nil, errors.New("path is required")
	}
	return imaging.ReadFile(a.Path, s.cfg.MaxImageBytes)
}

// === Full Analysis Handlers ===

func (s *Server) handleImageAnalyze(ctx context.Context, args json.RawMessage, progress stats.Observer) (interface{}, error) {
	data, info, err := s.readImage(args)
	if err != nil {
		return nil, err
	}
	if !analysis.SupportedExtension(info.Name) {
		s.logger.Debug("server.analyze.extension", "file", info.Name, "extension", info.Extension)
	}
	return s.analyzer.Analyze(ctx, analysis.Request{
		Data:         data,
		FileName:     info.Name,
		DeclaredSize: info.SizeBytes,
		Progress:     progress,
	})
}

// === Container Inspection Handlers ===

// SniffResult is the image_sniff response.
type SniffResult struct {
	File        *imaging.FileInfo   `json:"file"`
	FormatClass container.Format    `json:"format_class"`
	Structure   container.Structure `json:"structure"`
}

func (s *Server) handleImageSniff(args json.RawMessage) (interface{}, error) {
	data, info, err := s.readImage(args)
	if err != nil {
		return nil, err
	}
	return &SniffResult{
		File:        info,
		FormatClass: container.Sniff(data),
		Structure:   container.Analyze(data),
	}, nil
}

// DecodeResult is the image_decode response.
type DecodeResult struct {
	File      *imaging.FileInfo `json:"file"`
	Succeeded bool              `json:"succeeded"`
	Strategy  string            `json:"strategy,omitempty"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	// Failures lists failed strategies in the order they ran.
	Failures []decode.Attempt `json:"failures"`
}

func (s *Server) handleImageDecode(ctx context.Context, args json.RawMessage) (interface{}, error) {
	data, info, err := s.readImage(args)
	if err != nil {
		return nil, err
	}

	res, err := s.analyzer.Decode(ctx, data)
	var de *decode.Error
	switch {
	case errors.As(err, &de):
		return &DecodeResult{File: info, Failures: de.Trail}, nil
	case err != nil:
		return nil, err
	}

	failures := res.Trail
	if failures == nil {
		failures = []decode.Attempt{}
	}
	return &DecodeResult{
		File:      info,
		Succeeded: true,
		Strategy:  res.Strategy,
		Width:     res.Surface.Width(),
		Height:    res.Surface.Height(),
		Failures:  failures,
	}, nil
}

type imagePreviewArgs struct {
	Path    string `json:"path"`
	MaxSize int    `json:"max_size"`
}

// PreviewResponse is the image_preview response.
type PreviewResponse struct {
	Strategy string `json:"strategy"`
	*imaging.PreviewResult
}

func (s *Server) handleImagePreview(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imagePreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MaxSize <= 0 {
		a.MaxSize = s.cfg.PreviewMaxSize
	}

	data, _, err := s.readImage(args)
	if err != nil {
		return nil, err
	}
	res, err := s.analyzer.Decode(ctx, data)
	if err != nil {
		return nil, err
	}
	preview, err := imaging.RenderPreview(res.Surface, a.MaxSize)
	if err != nil {
		return nil, err
	}
	return &PreviewResponse{Strategy: res.Strategy, PreviewResult: preview}, nil
}

// === Metadata and Exposure Handlers ===

// MetadataResult is the image_metadata response.
type MetadataResult struct {
	File *imaging.FileInfo `json:"file"`
	*metadata.Result
	Exposure exposure.Values `json:"exposure"`
}

func (s *Server) handleImageMetadata(args json.RawMessage) (interface{}, error) {
	data, info, err := s.readImage(args)
	if err != nil {
		return nil, err
	}
	md, ev := s.analyzer.Metadata(data)
	return &MetadataResult{File: info, Result: md, Exposure: ev}, nil
}

type exposureArgs struct {
	ISO          *float64 `json:"iso"`
	FNumber      *float64 `json:"f_number"`
	ExposureTime *float64 `json:"exposure_time"`
}

func (s *Server) handleExposureCalculate(args json.RawMessage) (interface{}, error) {
	var a exposureArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return exposure.Calculate(exposure.Inputs{
		ISO:          a.ISO,
		FNumber:      a.FNumber,
		ExposureTime: a.ExposureTime,
	}), nil
}
