package jpeg

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// DensityUnit is the pixel density unit of a JFIF header.
type DensityUnit int

const (
	DensityNone DensityUnit = iota // densities give an aspect ratio only
	DensityPerInch
	DensityPerCentimeter
)

func (u DensityUnit) String() string {
	switch u {
	case DensityNone:
		return "none"
	case DensityPerInch:
		return "inches"
	case DensityPerCentimeter:
		return "centimeters"
	}
	return fmt.Sprintf("DensityUnit(%d)", int(u))
}

// jfifSignature opens every JFIF APP0 payload.
var jfifSignature = []byte{'J', 'F', 'I', 'F', 0x00}

// JFIF holds the parsed APP0 application header. The embedded thumbnail,
// if any, is discarded on parse.
type JFIF struct {
	VersionMajor int
	VersionMinor int
	Unit         DensityUnit
	DensityX     int
	DensityY     int
}

// parseJFIF parses an APP0 payload. Versions 1.0 through 1.2 are accepted.
func parseJFIF(payload []byte) (*JFIF, error) {
	if len(payload) < 14 {
		return nil, fmt.Errorf("%w: %d byte payload", ErrInvalidJFIF, len(payload))
	}
	if !bytes.Equal(payload[0:5], jfifSignature) {
		return nil, fmt.Errorf("%w: bad signature", ErrInvalidJFIF)
	}
	major, minor := int(payload[5]), int(payload[6])
	if major != 1 || minor > 2 {
		return nil, fmt.Errorf("%w: version %d.%d", ErrInvalidJFIF, major, minor)
	}
	unit := int(payload[7])
	if unit > 2 {
		return nil, fmt.Errorf("%w: density unit %d", ErrInvalidJFIF, unit)
	}
	return &JFIF{
		VersionMajor: major,
		VersionMinor: minor,
		Unit:         DensityUnit(unit),
		DensityX:     int(binary.BigEndian.Uint16(payload[8:10])),
		DensityY:     int(binary.BigEndian.Uint16(payload[10:12])),
	}, nil
}
