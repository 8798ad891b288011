package jpeg

import (
	"encoding/binary"
	"fmt"
)

// zigzag maps a position in the standard zigzag traversal to its raster
// index within an 8x8 coefficient block.
var zigzag = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// unzigzag is the inverse of zigzag: raster index to zigzag position.
var unzigzag [64]int

func init() {
	for z, i := range zigzag {
		unzigzag[i] = z
	}
}

// QuantTable holds one 64-entry quantization table. Entries are stored in
// wire (zigzag) order; 8-bit tables widen to uint16 on parse.
type QuantTable struct {
	Precision int // bits per entry, 8 or 16
	values    [64]uint16
}

// Zigzag returns the entry at zigzag position z, the order the wire and
// the entropy decoder use.
func (t *QuantTable) Zigzag(z int) uint16 {
	return t.values[z]
}

// Natural returns the entry for raster position i within the 8x8 block.
func (t *QuantTable) Natural(i int) uint16 {
	return t.values[unzigzag[i]]
}

// quantSpec is one DQT subsegment: a slot binding plus its table.
type quantSpec struct {
	slot  int
	table *QuantTable
}

// parseDQT splits a DQT payload into its concatenated table definitions.
// Each subsegment is a flag byte (precision in the high nibble, slot in the
// low) followed by 64 one- or two-byte entries in zigzag order.
func parseDQT(payload []byte) ([]quantSpec, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty DQT body", ErrTruncatedSegment)
	}
	var specs []quantSpec
	pos := 0
	for pos < len(payload) {
		flag := payload[pos]
		precision := flag >> 4
		slot := int(flag & 0x0F)
		if precision > 1 {
			return nil, fmt.Errorf("%w: code %d", ErrInvalidQuantPrecision, precision)
		}
		if slot > 3 {
			return nil, fmt.Errorf("%w: slot %d", ErrInvalidQuantSlot, slot)
		}
		pos++

		t := &QuantTable{Precision: 8}
		if precision == 0 {
			if pos+64 > len(payload) {
				return nil, fmt.Errorf("%w: DQT subsegment body", ErrTruncatedSegment)
			}
			for z := range 64 {
				t.values[z] = uint16(payload[pos+z])
			}
			pos += 64
		} else {
			t.Precision = 16
			if pos+128 > len(payload) {
				return nil, fmt.Errorf("%w: DQT subsegment body", ErrTruncatedSegment)
			}
			for z := range 64 {
				t.values[z] = binary.BigEndian.Uint16(payload[pos+2*z:])
			}
			pos += 128
		}
		specs = append(specs, quantSpec{slot: slot, table: t})
	}
	return specs, nil
}
