// Package metadatatest builds little-endian TIFF and EXIF blocks for tests.
package metadatatest

import (
	"bytes"
	"encoding/binary"
	"math"
	"slices"
)

// TIFF data types.
const (
	TypeByte      = 1
	TypeASCII     = 2
	TypeShort     = 3
	TypeLong      = 4
	TypeRational  = 5
	TypeUndefined = 7
	TypeSRational = 10
	TypeDouble    = 12
)

// Tag IDs used by the tests in this module.
const (
	TagImageDescription = 0x010E
	TagMake             = 0x010F
	TagModel            = 0x0110
	TagSoftware         = 0x0131
	TagArtist           = 0x013B
	TagExposureTime     = 0x829A
	TagFNumber          = 0x829D
	TagExifIFD          = 0x8769
	TagISO              = 0x8827
	TagExifVersion      = 0x9000
	TagDateTimeOriginal = 0x9003
	TagExposureBias     = 0x9204
	TagFocalLength      = 0x920A
	TagSubjectArea      = 0x9214
	TagMakerNote        = 0x927C
	TagUserComment      = 0x9286
)

var le = binary.LittleEndian

// Entry is one IFD entry.
type Entry struct {
	Tag   uint16
	Type  uint16
	Count uint32
	Data  []byte
}

// ASCII returns a NUL-terminated ASCII entry.
func ASCII(tag uint16, s string) Entry {
	return Entry{Tag: tag, Type: TypeASCII, Count: uint32(len(s) + 1), Data: append([]byte(s), 0)}
}

// RawASCII returns an ASCII entry holding b verbatim.
func RawASCII(tag uint16, b []byte) Entry {
	return Entry{Tag: tag, Type: TypeASCII, Count: uint32(len(b)), Data: b}
}

// Short returns a SHORT entry with one or more values.
func Short(tag uint16, vals ...uint16) Entry {
	data := make([]byte, 2*len(vals))
	for i, v := range vals {
		le.PutUint16(data[2*i:], v)
	}
	return Entry{Tag: tag, Type: TypeShort, Count: uint32(len(vals)), Data: data}
}

// Rational returns a single RATIONAL entry.
func Rational(tag uint16, num, den uint32) Entry {
	data := make([]byte, 8)
	le.PutUint32(data, num)
	le.PutUint32(data[4:], den)
	return Entry{Tag: tag, Type: TypeRational, Count: 1, Data: data}
}

// SRational returns a single SRATIONAL entry.
func SRational(tag uint16, num, den int32) Entry {
	data := make([]byte, 8)
	le.PutUint32(data, uint32(num))
	le.PutUint32(data[4:], uint32(den))
	return Entry{Tag: tag, Type: TypeSRational, Count: 1, Data: data}
}

// Double returns a single DOUBLE entry.
func Double(tag uint16, f float64) Entry {
	data := make([]byte, 8)
	le.PutUint64(data, math.Float64bits(f))
	return Entry{Tag: tag, Type: TypeDouble, Count: 1, Data: data}
}

// Undefined returns an UNDEFINED entry.
func Undefined(tag uint16, b []byte) Entry {
	return Entry{Tag: tag, Type: TypeUndefined, Count: uint32(len(b)), Data: b}
}

// TIFF encodes a little-endian TIFF block with ifd0 and, when exif is
// non-empty, an Exif sub-IFD linked from ifd0.
func TIFF(ifd0, exif []Entry) []byte {
	out := []byte("II*\x00\x08\x00\x00\x00")
	if len(exif) == 0 {
		return append(out, encodeIFD(8, ifd0)...)
	}

	ptr := Entry{Tag: TagExifIFD, Type: TypeLong, Count: 1, Data: make([]byte, 4)}
	first := slices.Clone(ifd0)
	first = append(first, ptr)
	subStart := 8 + uint32(len(encodeIFD(8, first)))
	le.PutUint32(first[len(first)-1].Data, subStart)

	out = append(out, encodeIFD(8, first)...)
	return append(out, encodeIFD(subStart, exif)...)
}

// APP1 wraps a TIFF block in a JPEG APP1 Exif segment.
func APP1(tiff []byte) []byte {
	seg := []byte{0xff, 0xe1, 0, 0}
	binary.BigEndian.PutUint16(seg[2:], uint16(2+6+len(tiff)))
	seg = append(seg, "Exif\x00\x00"...)
	return append(seg, tiff...)
}

// InjectAPP1 inserts an APP1 Exif segment holding tiff right after the SOI
// marker of jpeg.
func InjectAPP1(jpeg, tiff []byte) []byte {
	var buf bytes.Buffer
	buf.Write(jpeg[:2])
	buf.Write(APP1(tiff))
	buf.Write(jpeg[2:])
	return buf.Bytes()
}

func encodeIFD(start uint32, entries []Entry) []byte {
	var dir, data bytes.Buffer
	dataOff := start + uint32(2+12*len(entries)+4)

	_ = binary.Write(&dir, le, uint16(len(entries)))
	for _, e := range entries {
		_ = binary.Write(&dir, le, e.Tag)
		_ = binary.Write(&dir, le, e.Type)
		_ = binary.Write(&dir, le, e.Count)
		if len(e.Data) <= 4 {
			v := make([]byte, 4)
			copy(v, e.Data)
			dir.Write(v)
			continue
		}
		_ = binary.Write(&dir, le, dataOff+uint32(data.Len()))
		data.Write(e.Data)
		if data.Len()%2 == 1 {
			data.WriteByte(0)
		}
	}
	_ = binary.Write(&dir, le, uint32(0))

	return append(dir.Bytes(), data.Bytes()...)
}
