package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/chroma-analyzer/internal/config"
	mt "github.com/ironsheep/chroma-analyzer/internal/metadata/metadatatest"
)

// createTestImageFile creates a test image file and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return writeTestFile(t, "handler-test.png", buf.Bytes())
}

func writeTestFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func toolRequest(t *testing.T, name string, args map[string]interface{}) *MCPRequest {
	t.Helper()
	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	return &MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: paramsJSON}
}

// callTool runs a tool and decodes the JSON text content of its result.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) map[string]interface{} {
	t.Helper()

	resp := s.handleRequest(context.Background(), toolRequest(t, name, args))
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}

	content := resp.Result.(map[string]interface{})["content"].([]map[string]interface{})
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &out); err != nil {
		t.Fatalf("tool result is not JSON: %v", err)
	}
	return out
}

func TestHandleToolsCall_ImageAnalyze(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 4, 4, color.RGBA{255, 0, 0, 255})

	got := callTool(t, s, "image_analyze", map[string]interface{}{"path": imgPath})

	if got["decodeSucceeded"] != true {
		t.Fatalf("decodeSucceeded: got %v", got["decodeSucceeded"])
	}
	if got["decodeStrategyUsed"] != "StandardDecode" {
		t.Errorf("decodeStrategyUsed: got %v", got["decodeStrategyUsed"])
	}
	if got["meanR"] != float64(255) || got["meanRChroma"] != float64(1) {
		t.Errorf("statistics: meanR=%v meanRChroma=%v", got["meanR"], got["meanRChroma"])
	}
	if got["fileName"] != "handler-test.png" || got["imageFormat"] != "PNG" {
		t.Errorf("file fields: fileName=%v imageFormat=%v", got["fileName"], got["imageFormat"])
	}
	if got["sV"] != nil {
		t.Errorf("sV: got %v, want null", got["sV"])
	}
}

func TestHandleToolsCall_ImageAnalyzeUndecodable(t *testing.T) {
	s := newTestServer()
	path := writeTestFile(t, "broken.dng", []byte("II*\x00 not really a raw file"))

	got := callTool(t, s, "image_analyze", map[string]interface{}{"path": path})

	if got["decodeSucceeded"] != false {
		t.Fatalf("decodeSucceeded: got %v", got["decodeSucceeded"])
	}
	trail, ok := got["decodeFailureTrail"].([]interface{})
	if !ok || len(trail) != 6 {
		t.Errorf("decodeFailureTrail: got %v", got["decodeFailureTrail"])
	}
	structure, ok := got["structure"].(map[string]interface{})
	if !ok || structure["valid_tiff"] != true {
		t.Errorf("structure: got %v", got["structure"])
	}
}

func TestHandleToolsCall_ImageSniff(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 3, 3, color.RGBA{0, 0, 255, 255})

	got := callTool(t, s, "image_sniff", map[string]interface{}{"path": imgPath})

	if got["format_class"] != "PNG" {
		t.Errorf("format_class: got %v, want PNG", got["format_class"])
	}
	if _, ok := got["structure"].(map[string]interface{}); !ok {
		t.Errorf("structure missing: %v", got)
	}
}

func TestHandleToolsCall_ImageDecode(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 20, 10, color.RGBA{0, 255, 0, 255})

	got := callTool(t, s, "image_decode", map[string]interface{}{"path": imgPath})

	if got["succeeded"] != true || got["strategy"] != "StandardDecode" {
		t.Errorf("decode: got %v", got)
	}
	if got["width"] != float64(20) || got["height"] != float64(10) {
		t.Errorf("dimensions: got %vx%v", got["width"], got["height"])
	}
	if failures, ok := got["failures"].([]interface{}); !ok || len(failures) != 0 {
		t.Errorf("failures: got %v", got["failures"])
	}
}

func TestHandleToolsCall_ImageDecodeFailure(t *testing.T) {
	s := newTestServer()
	path := writeTestFile(t, "notes.bin", []byte("nothing to decode in here"))

	got := callTool(t, s, "image_decode", map[string]interface{}{"path": path})

	if got["succeeded"] != false {
		t.Errorf("succeeded: got %v", got["succeeded"])
	}
	failures, _ := got["failures"].([]interface{})
	if len(failures) != 6 {
		t.Fatalf("failures: got %d, want 6", len(failures))
	}
	first := failures[0].(map[string]interface{})
	if first["strategy"] != "StandardDecode" || first["reason"] != "unknown_format" {
		t.Errorf("first failure: got %v", first)
	}
}

func TestHandleToolsCall_ImagePreview(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 200, 100, color.RGBA{10, 20, 30, 255})

	got := callTool(t, s, "image_preview", map[string]interface{}{"path": imgPath, "max_size": 50})

	if got["strategy"] != "StandardDecode" {
		t.Errorf("strategy: got %v", got["strategy"])
	}
	if got["width"] != float64(50) || got["height"] != float64(25) {
		t.Errorf("preview size: got %vx%v, want 50x25", got["width"], got["height"])
	}
	if got["mime_type"] != "image/png" {
		t.Errorf("mime_type: got %v", got["mime_type"])
	}
	if b64, _ := got["image_base64"].(string); b64 == "" {
		t.Error("image_base64 is empty")
	}
}

func TestHandleToolsCall_ImageMetadata(t *testing.T) {
	s := newTestServer()
	imgPath := createTestImageFile(t, 2, 2, color.RGBA{1, 1, 1, 255})

	got := callTool(t, s, "image_metadata", map[string]interface{}{"path": imgPath})

	if got["source"] != "none" {
		t.Errorf("source: got %v, want none", got["source"])
	}
	if tags, ok := got["tags"].(map[string]interface{}); !ok || len(tags) != 0 {
		t.Errorf("tags: got %v", got["tags"])
	}
	ev, ok := got["exposure"].(map[string]interface{})
	if !ok || ev["bV"] != nil {
		t.Errorf("exposure: got %v", got["exposure"])
	}
}

func TestHandleToolsCall_ExposureCalculate(t *testing.T) {
	s := newTestServer()

	got := callTool(t, s, "exposure_calculate", map[string]interface{}{
		"iso":           100,
		"f_number":      2.8,
		"exposure_time": 1.0 / 60,
	})

	for _, k := range []string{"sV", "aV", "tV", "bV"} {
		if _, ok := got[k].(float64); !ok {
			t.Errorf("%s: got %v, want a number", k, got[k])
		}
	}

	partial := callTool(t, s, "exposure_calculate", map[string]interface{}{"iso": 200})
	if partial["aV"] != nil || partial["bV"] != nil {
		t.Errorf("partial: got %v", partial)
	}
}

func TestHandleToolsCall_Errors(t *testing.T) {
	cfg := config.Default()
	cfg.MaxImageBytes = 16
	s := New(cfg, nil, "test")
	bigPath := createTestImageFile(t, 32, 32, color.RGBA{0, 0, 0, 255})

	tests := []struct {
		name     string
		tool     string
		args     map[string]interface{}
		wantData string
	}{
		{"unknown tool", "image_ocr_full", map[string]interface{}{}, "unknown tool"},
		{"missing path", "image_analyze", map[string]interface{}{}, "path is required"},
		{"missing file", "image_decode", map[string]interface{}{"path": "/nonexistent/x.png"}, "failed to open image"},
		{"too large", "image_analyze", map[string]interface{}{"path": bigPath}, "too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.handleRequest(context.Background(), toolRequest(t, tt.tool, tt.args))
			if resp == nil || resp.Error == nil {
				t.Fatalf("expected error response, got %+v", resp)
			}
			if resp.Error.Code != -32000 {
				t.Errorf("code: got %d, want -32000", resp.Error.Code)
			}
			if data, _ := resp.Error.Data.(string); !strings.Contains(data, tt.wantData) {
				t.Errorf("data: got %q, want it to contain %q", data, tt.wantData)
			}
		})
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer()
	resp := s.handleRequest(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      3,
		Method:  "tools/call",
		Params:  json.RawMessage(`["not", "an", "object"]`),
	})
	if resp == nil || resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("expected -32602, got %+v", resp)
	}
}

func TestServe_ProgressNotifications(t *testing.T) {
	cfg := config.Default()
	cfg.YieldThreshold = 1
	s := New(cfg, nil, "test")
	imgPath := createTestImageFile(t, 4, 8, color.RGBA{40, 80, 120, 255})

	req := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      9,
		"method":  "tools/call",
		"params": map[string]interface{}{
			"name":      "image_analyze",
			"arguments": map[string]interface{}{"path": imgPath},
			"_meta":     map[string]interface{}{"progressToken": "tok-1"},
		},
	}
	line, _ := json.Marshal(req)

	var out bytes.Buffer
	if err := s.Serve(context.Background(), bytes.NewReader(append(line, '\n')), &out); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	msgs := readMessages(t, &out)
	if len(msgs) < 2 {
		t.Fatalf("got %d messages, want progress plus a response", len(msgs))
	}

	var last float64
	for _, m := range msgs[:len(msgs)-1] {
		if m["method"] != "notifications/progress" {
			t.Fatalf("unexpected message before response: %v", m)
		}
		params := m["params"].(map[string]interface{})
		if params["progressToken"] != "tok-1" {
			t.Errorf("progressToken: got %v", params["progressToken"])
		}
		p := params["progress"].(float64)
		if p < last {
			t.Errorf("progress went backwards: %v after %v", p, last)
		}
		last = p
	}
	if last != 1 {
		t.Errorf("final progress: got %v, want 1", last)
	}
	if msgs[len(msgs)-1]["id"] != float64(9) {
		t.Errorf("final message should be the response, got %v", msgs[len(msgs)-1])
	}
}

func TestHandleToolsCall_ImageMetadataNonFiniteTag(t *testing.T) {
	s := newTestServer()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	exif := mt.TIFF(
		[]mt.Entry{mt.ASCII(mt.TagMake, "Nikon")},
		[]mt.Entry{mt.Double(mt.TagExposureBias, math.Inf(1))},
	)
	path := writeTestFile(t, "inf.jpg", mt.InjectAPP1(buf.Bytes(), exif))

	for _, tool := range []string{"image_metadata", "image_analyze"} {
		t.Run(tool, func(t *testing.T) {
			got := callTool(t, s, tool, map[string]interface{}{"path": path})
			tags, ok := got["tags"].(map[string]interface{})
			if !ok {
				tags, _ = got["metadata"].(map[string]interface{})
			}
			if tags["ExposureBiasValue"] != "+Inf" {
				t.Errorf("ExposureBiasValue: got %v, want \"+Inf\"", tags["ExposureBiasValue"])
			}
			if tags["Make"] != "Nikon" {
				t.Errorf("Make: got %v", tags["Make"])
			}
		})
	}
}

func TestToolResponse_EncodeFailure(t *testing.T) {
	s := newTestServer()

	resp := s.toolResponse(7, "image_analyze", map[string]float64{"bad": math.NaN()})
	if resp.Error == nil {
		t.Fatalf("expected error response, got %+v", resp)
	}
	if resp.Error.Code != -32603 {
		t.Errorf("code: got %d, want -32603", resp.Error.Code)
	}
	if resp.Result != nil {
		t.Errorf("result: got %v, want nil", resp.Result)
	}

	ok := s.toolResponse(8, "image_analyze", map[string]int{"n": 1})
	if ok.Error != nil {
		t.Fatalf("unexpected error: %+v", ok.Error)
	}
}
