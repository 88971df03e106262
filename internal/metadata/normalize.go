package metadata

import (
	"bytes"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"golang.org/x/text/encoding/charmap"
)

const (
	// maxUndefinedLen bounds the size of an undefined-type tag kept as Text.
	maxUndefinedLen = 64

	// asciiCharset is the character code prefix of an ASCII UserComment.
	asciiCharset = "ASCII\x00\x00\x00"
)

var (
	numericPattern  = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)
	fractionPattern = regexp.MustCompile(`^(\d+)/(\d+)$`)
)

// skipped tags carry offsets or opaque vendor blobs rather than capture data.
var skipped = map[exif.FieldName]bool{
	exif.MakerNote:                  true,
	exif.ExifIFDPointer:             true,
	exif.GPSInfoIFDPointer:          true,
	exif.InteroperabilityIFDPointer: true,
}

// collector is an exif.Walker that normalizes every tag into a Map.
type collector struct {
	tags Map
}

func (c *collector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if skipped[name] {
		return nil
	}
	if v, ok := normalize(tag); ok {
		c.tags[string(name)] = v
	}
	return nil
}

// normalize converts a decoded tag into a Value. It reports false for tags
// with nothing worth keeping.
func normalize(tag *tiff.Tag) (Value, bool) {
	switch tag.Format() {
	case tiff.RatVal:
		if tag.Count != 1 {
			return multi(tag)
		}
		n, d, err := tag.Rat2(0)
		if err != nil {
			return Value{}, false
		}
		if d == 0 {
			return Text(strconv.FormatInt(n, 10) + "/0"), true
		}
		return Number(float64(n) / float64(d)), true

	case tiff.IntVal:
		if tag.Count != 1 {
			return multi(tag)
		}
		i, err := tag.Int64(0)
		if err != nil {
			return Value{}, false
		}
		return Number(float64(i)), true

	case tiff.FloatVal:
		if tag.Count != 1 {
			return multi(tag)
		}
		f, err := tag.Float(0)
		if err != nil {
			return Value{}, false
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			// Garbage IEEE payloads; keep them visible but never numeric.
			return Text(strconv.FormatFloat(f, 'g', -1, 64)), true
		}
		return Number(f), true

	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return Value{}, false
		}
		return parseString(s), true

	case tiff.UndefVal:
		if len(tag.Val) > maxUndefinedLen {
			return Value{}, false
		}
		s := strings.TrimPrefix(repairText(tag.Val), asciiCharset)
		s = strings.TrimRight(s, "\x00 ")
		if s == "" || !printable(s) {
			return Value{}, false
		}
		return Text(s), true
	}
	return Value{}, false
}

// multi renders a multi-valued numeric tag as Text in goexif's JSON form.
func multi(tag *tiff.Tag) (Value, bool) {
	b, err := tag.MarshalJSON()
	if err != nil {
		return Value{}, false
	}
	return Text(string(b)), true
}

// parseString applies the numeric rules to an ASCII tag value.
func parseString(raw string) Value {
	s := strings.TrimSpace(strings.ReplaceAll(repairText([]byte(raw)), "\x00", ""))
	if numericPattern.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Number(f)
		}
	}
	if m := fractionPattern.FindStringSubmatch(s); m != nil {
		n, errN := strconv.ParseFloat(m[1], 64)
		d, errD := strconv.ParseFloat(m[2], 64)
		if errN == nil && errD == nil && d != 0 {
			return Number(n / d)
		}
	}
	return Text(s)
}

// repairText returns b as UTF-8. Camera firmware frequently writes
// ISO-8859-1 into ASCII tags; invalid UTF-8 is decoded as Latin-1.
func repairText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(bytes.ToValidUTF8(b, nil))
	}
	return string(out)
}

func printable(s string) bool {
	for _, r := range s {
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
