package analysis

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ironsheep/chroma-analyzer/internal/container"
	"github.com/ironsheep/chroma-analyzer/internal/decode"
	"github.com/ironsheep/chroma-analyzer/internal/exposure"
	"github.com/ironsheep/chroma-analyzer/internal/imaging"
	"github.com/ironsheep/chroma-analyzer/internal/metadata"
	"github.com/ironsheep/chroma-analyzer/internal/stats"
)

// Result is the structured outcome of one analysis.
type Result struct {
	FileName      string `json:"fileName"`
	FileSizeBytes int64  `json:"fileSizeBytes"`
	FileSize      string `json:"fileSize"`
	ImageFormat   string `json:"imageFormat"`

	FormatClass container.Format     `json:"formatClass"`
	Structure   *container.Structure `json:"structure,omitempty"`

	DecodeSucceeded    bool             `json:"decodeSucceeded"`
	DecodeStrategyUsed *string          `json:"decodeStrategyUsed"`
	DecodeFailureTrail []decode.Attempt `json:"decodeFailureTrail"`
	// DecodeFallbacks lists the strategies that failed before a successful one.
	DecodeFallbacks []decode.Attempt `json:"decodeFallbacks,omitempty"`

	Width  int `json:"width"`
	Height int `json:"height"`

	stats.Statistics
	MeanColor *imaging.ColorSummary   `json:"meanColor,omitempty"`
	Clipping  *imaging.ClippingResult `json:"clipping,omitempty"`

	Metadata         metadata.Map       `json:"metadata"`
	MetadataSource   metadata.Source    `json:"metadataSource"`
	MetadataAttempts []metadata.Attempt `json:"metadataAttempts,omitempty"`

	exposure.Values

	AnalysisDate string `json:"analysisDate"`

	surface *imaging.NRGBASurface
}

// Surface returns the decoded pixels, or nil if decoding failed.
func (r *Result) Surface() *imaging.NRGBASurface { return r.surface }

// FormatFileSize renders n bytes the way the results report them:
// "512 B", "12.3 KB", "4.0 MB", "1.2 GB".
func FormatFileSize(n int64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)
	switch {
	case n < kb:
		return fmt.Sprintf("%d B", n)
	case n < mb:
		return fmt.Sprintf("%.1f KB", float64(n)/kb)
	case n < gb:
		return fmt.Sprintf("%.1f MB", float64(n)/mb)
	default:
		return fmt.Sprintf("%.1f GB", float64(n)/gb)
	}
}

// supportedExtensions are the file extensions callers offer for analysis.
// The decoder itself never looks at the name.
var supportedExtensions = map[string]bool{
	"JPG": true, "JPEG": true, "PNG": true, "GIF": true, "WEBP": true, "BMP": true,
	"TIF": true, "TIFF": true, "DNG": true, "RAW": true, "CR2": true, "NEF": true,
	"ARW": true, "RW2": true,
}

// SupportedExtension reports whether name carries an extension callers
// should accept. It is a weak hint only.
func SupportedExtension(name string) bool {
	return supportedExtensions[strings.ToUpper(strings.TrimPrefix(filepath.Ext(name), "."))]
}
