package container

import "bytes"

// Format is the format class claimed by a buffer's leading signature bytes.
type Format int

const (
	// Unclassified means no known signature matched. RAW/DNG containers and
	// truncated buffers land here.
	Unclassified Format = iota
	JPEG
	PNG
	GIF
	WEBP
	BMP
)

var formatNames = map[Format]string{
	Unclassified: "UNCLASSIFIED",
	JPEG:         "JPEG",
	PNG:          "PNG",
	GIF:          "GIF",
	WEBP:         "WEBP",
	BMP:          "BMP",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return "UNCLASSIFIED"
}

// MarshalText lets Format appear as its name in JSON results.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

var (
	sigJPEG = []byte{0xFF, 0xD8, 0xFF}
	sigPNG  = []byte{0x89, 0x50, 0x4E, 0x47}
	sigGIF  = []byte("GIF8") // 87a and 89a
	sigRIFF = []byte("RIFF")
	sigWEBP = []byte("WEBP")
	sigBMP  = []byte("BM")
)

// Sniff classifies buf by fixed-offset magic bytes. Only the first 12 bytes
// are examined.
//
// Unclassified is the only class for which structural analysis is worth
// running; everything else is an ordinary image the standard decoder handles.
func Sniff(buf []byte) Format {
	switch {
	case bytes.HasPrefix(buf, sigJPEG):
		return JPEG
	case bytes.HasPrefix(buf, sigPNG):
		return PNG
	case bytes.HasPrefix(buf, sigGIF):
		return GIF
	case len(buf) >= 12 && bytes.HasPrefix(buf, sigRIFF) && bytes.Equal(buf[8:12], sigWEBP):
		return WEBP
	case bytes.HasPrefix(buf, sigBMP):
		return BMP
	}
	return Unclassified
}
