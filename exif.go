package jpeg

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// EXIF tag directory pointers and the tags this package gives convenience
// access to. Field data types follow the TIFF 6.0 numbering.
const (
	tagExifIFD     uint16 = 34665
	tagGPSIFD      uint16 = 34853
	tagOrientation uint16 = 0x0112

	typeShort uint16 = 3 // 16-bit unsigned
	typeLong  uint16 = 4 // 32-bit unsigned
)

// exifSignature opens every EXIF APP1 payload.
var exifSignature = []byte{'E', 'x', 'i', 'f', 0x00, 0x00}

// Field is one tag record from an EXIF directory. Box holds the record's
// four value/offset bytes uninterpreted; values wider than four bytes live
// elsewhere in the blob at the offset Box encodes.
type Field struct {
	Tag   uint16
	Type  uint16
	Count uint32
	Box   [4]byte

	order binary.ByteOrder
}

// Uint returns the field's value as an unsigned integer when it is an
// inline SHORT or LONG with count 1. The second result is false otherwise.
func (f Field) Uint() (uint32, bool) {
	if f.Count != 1 {
		return 0, false
	}
	switch f.Type {
	case typeShort:
		return uint32(f.order.Uint16(f.Box[0:2])), true
	case typeLong:
		return f.order.Uint32(f.Box[0:4]), true
	}
	return 0, false
}

// EXIF is an APP1 EXIF payload kept as an addressable blob. Parsing indexes
// the root tag directory and, when present, the EXIF and GPS
// sub-directories; all byte offsets inside the blob stay valid, so
// downstream consumers can resolve offset-valued fields themselves. The
// parser never writes.
type EXIF struct {
	order binary.ByteOrder
	data  []byte // TIFF blob; internal offsets are relative to this

	directories []uint32 // offsets of indexed directories, root first
}

// parseEXIF parses an APP1 payload: the EXIF signature, the TIFF byte
// order mark, and the directory index.
func parseEXIF(payload []byte) (*EXIF, error) {
	if len(payload) < 14 {
		return nil, fmt.Errorf("%w: %d byte payload", ErrInvalidEXIF, len(payload))
	}
	if !bytes.Equal(payload[0:6], exifSignature) {
		return nil, fmt.Errorf("%w: bad signature", ErrInvalidEXIF)
	}
	blob := payload[6:]

	var order binary.ByteOrder
	switch {
	case bytes.Equal(blob[0:4], []byte{0x49, 0x49, 0x2A, 0x00}):
		order = binary.LittleEndian
	case bytes.Equal(blob[0:4], []byte{0x4D, 0x4D, 0x00, 0x2A}):
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("%w: bad byte order mark", ErrInvalidEXIF)
	}

	e := &EXIF{order: order, data: blob}
	root := order.Uint32(blob[4:8])
	e.index(root)

	// The EXIF and GPS directories hang off LONG-valued pointer tags in
	// the root directory.
	for _, tag := range []uint16{tagExifIFD, tagGPSIFD} {
		if f, ok := e.Tag(tag); ok && f.Type == typeLong && f.Count == 1 {
			e.index(order.Uint32(f.Box[0:4]))
		}
	}
	return e, nil
}

// index records a directory offset if a well-formed directory lives there.
// Malformed or out-of-range directories are skipped, not fatal: the blob is
// metadata, and what cannot be indexed simply is not surfaced.
func (e *EXIF) index(offset uint32) {
	if e.entries(offset) == 0 {
		return
	}
	e.directories = append(e.directories, offset)
}

// entries returns the number of records addressable in the directory at
// offset, truncated to what the blob actually holds.
func (e *EXIF) entries(offset uint32) int {
	if offset < 8 || int(offset)+2 > len(e.data) {
		return 0
	}
	n := int(e.order.Uint16(e.data[offset : offset+2]))
	room := (len(e.data) - int(offset) - 2) / 12
	if n > room {
		n = room
	}
	return n
}

// Tag looks a tag up across the indexed directories, in index order.
func (e *EXIF) Tag(tag uint16) (Field, bool) {
	for _, dir := range e.directories {
		n := e.entries(dir)
		for i := range n {
			rec := int(dir) + 2 + 12*i
			if e.order.Uint16(e.data[rec:rec+2]) != tag {
				continue
			}
			f := Field{
				Tag:   tag,
				Type:  e.order.Uint16(e.data[rec+2 : rec+4]),
				Count: e.order.Uint32(e.data[rec+4 : rec+8]),
				order: e.order,
			}
			copy(f.Box[:], e.data[rec+8:rec+12])
			return f, true
		}
	}
	return Field{}, false
}

// Orientation returns the EXIF orientation (1..8) when the blob carries a
// valid orientation tag.
func (e *EXIF) Orientation() (int, bool) {
	f, ok := e.Tag(tagOrientation)
	if !ok {
		return 0, false
	}
	v, ok := f.Uint()
	if !ok || v < 1 || v > 8 {
		return 0, false
	}
	return int(v), true
}

// Blob returns the raw TIFF blob. Offset-valued fields index into it.
func (e *EXIF) Blob() []byte {
	return e.data
}
