package imaging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrTooLarge is returned by ReadFile when a file exceeds the size limit.
var ErrTooLarge = errors.New("image file too large")

// FileInfo describes an image file as read from disk, before any decoding.
type FileInfo struct {
	// Name is the base name of the file, used as the file name hint.
	Name string `json:"name"`

	// SizeBytes is the size the file system reported when the file was
	// opened. The bytes actually read may differ if the file changed, or
	// for special files that report no size.
	SizeBytes int64 `json:"size_bytes"`

	// Extension is the upper-case extension without the dot ("DNG", "JPG"),
	// or "UNKNOWN" when the name has none.
	Extension string `json:"extension"`
}

// ReadFile reads the image file at path into memory.
//
// Parameters:
//   - path: Path to the image file. Any format is accepted; nothing is decoded here.
//   - limit: Maximum accepted file size in bytes. Zero or negative means no limit.
//
// Returns:
//   - []byte: The complete file contents. The caller owns the slice.
//   - *FileInfo: Name, size reported by Stat, and extension hint.
//   - error: Non-nil if the file cannot be opened, stat'd, read, or exceeds limit.
//
// Nothing is cached: each call reads the file again, so concurrent requests
// never share a buffer.
func ReadFile(path string, limit int64) ([]byte, *FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("failed to read image: %s is a directory", path)
	}
	if limit > 0 && stat.Size() > limit {
		return nil, nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrTooLarge, stat.Size(), limit)
	}

	r := io.Reader(f)
	if limit > 0 {
		// The file can grow between Stat and Read.
		r = io.LimitReader(f, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read image: %w", err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}

	name := filepath.Base(path)
	return data, &FileInfo{
		Name:      name,
		SizeBytes: stat.Size(),
		Extension: Extension(name),
	}, nil
}

// Extension returns the upper-case extension of name without the dot, or
// "UNKNOWN". It is a weak format signal only; decoding never relies on it.
func Extension(name string) string {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return "UNKNOWN"
	}
	return strings.ToUpper(ext)
}
