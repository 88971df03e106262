// Package server implements the MCP (Model Context Protocol) server for the
// chroma analyzer.
//
// This package provides a JSON-RPC 2.0 server that exposes the decode-and-measure
// pipeline through the MCP protocol, so MCP-compatible clients can analyze color
// and exposure of images, including camera RAW files the standard decoders reject.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses and notifications on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Full Analysis:
//   - image_analyze: Decode, measure color statistics, extract metadata, derive exposure
//
// Container Inspection:
//   - image_sniff: Magic-byte classification and structural hints
//   - image_decode: Decoder only, with the strategy trail
//   - image_preview: Decoded surface as a scaled PNG
//
// Metadata and Exposure:
//   - image_metadata: EXIF tags and exposure values
//   - exposure_calculate: Exposure values from explicit settings
//
// # Progress
//
// When a tools/call request carries params._meta.progressToken, image_analyze
// emits notifications/progress messages (progress in [0, 1], total 1) from the
// statistics pass of large images.
//
// # No Caching
//
// Every tool call reads its file again. Requests never share buffers or
// decoded surfaces, and files larger than the configured limit are rejected
// before they are read.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// An image that no strategy can decode is not a tool error for image_analyze
// or image_decode: the result reports the failure and its trail.
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	cfg, err := config.FromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.New(cfg, logger, version)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
