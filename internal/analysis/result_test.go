package analysis

import "testing"

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{12_595, "12.3 KB"},
		{5 << 20, "5.0 MB"},
		{3 << 30, "3.0 GB"},
	}
	for _, tt := range tests {
		if got := FormatFileSize(tt.n); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestSupportedExtension(t *testing.T) {
	tests := map[string]bool{
		"photo.jpg":      true,
		"PHOTO.JPEG":     true,
		"/tmp/raw/x.DNG": true,
		"scan.tiff":      true,
		"capture.nef":    true,
		"notes.txt":      false,
		"no-extension":   false,
		"archive.tar.gz": false,
	}
	for name, want := range tests {
		if got := SupportedExtension(name); got != want {
			t.Errorf("SupportedExtension(%q) = %v, want %v", name, got, want)
		}
	}
}
