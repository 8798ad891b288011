package jpeg

import (
	"encoding/binary"
	"fmt"
	"io"
)

// tokenKind classifies the three event shapes the lexer produces.
type tokenKind int

const (
	tokenMarker  tokenKind = iota // standalone marker, no payload
	tokenSegment                  // marker with a length-prefixed payload
	tokenECS                      // entropy-coded data between markers
)

// token is one structural event in the marker stream. Marker and Segment
// tokens carry the marker code; Segment and ECS tokens carry bytes. ECS
// payloads have the 0xFF00 byte stuffing already removed.
type token struct {
	kind    tokenKind
	code    byte
	payload []byte
}

// lexer segments a JPEG byte stream into marker segments and entropy-coded
// segments. It understands the marker-stuffing convention (runs of 0xFF fill
// bytes before a marker code) and the ECS byte-stuffing convention (0xFF00
// escapes within entropy data) but assigns no meaning to segment contents;
// that is the parsers' job.
type lexer struct {
	src        byteSource
	pending    byte // marker code consumed while scanning an ECS
	hasPending bool
	ecsNext    bool // the next token is entropy data (after SOS or RSTm)
}

func newLexer(src byteSource) *lexer {
	return &lexer{src: src}
}

// next returns the next structural token. Errors are fatal: the lexer has
// no resynchronization once the stream is malformed.
func (l *lexer) next() (token, error) {
	if l.ecsNext {
		l.ecsNext = false
		data, code, err := l.scanECS()
		if err != nil {
			return token{}, err
		}
		l.pending = code
		l.hasPending = true
		return token{kind: tokenECS, payload: data}, nil
	}

	var code byte
	if l.hasPending {
		code = l.pending
		l.hasPending = false
	} else {
		var err error
		code, err = l.readMarkerCode()
		if err != nil {
			return token{}, err
		}
	}

	if isReserved(code) {
		return token{}, fmt.Errorf("%w: %s", ErrReservedMarker, markerName(code))
	}

	// SOS and RSTm introduce entropy-coded data.
	if code == markerSOS || isRSTn(code) {
		l.ecsNext = true
	}

	if isStandalone(code) {
		return token{kind: tokenMarker, code: code}, nil
	}

	payload, err := l.readSegmentBody(code)
	if err != nil {
		return token{}, err
	}
	return token{kind: tokenSegment, code: code, payload: payload}, nil
}

// readMarkerCode consumes a 0xFF prefix, skips any additional fill bytes,
// and returns the first non-0xFF byte as the marker code.
func (l *lexer) readMarkerCode() (byte, error) {
	b, err := l.src.Next()
	if err == io.EOF {
		return 0, ErrTruncatedMarker
	}
	if err != nil {
		return 0, err
	}
	if b != 0xFF {
		return 0, fmt.Errorf("%w: 0x%02X at offset %d", ErrInvalidMarkerPrefix, b, l.src.Count()-1)
	}
	for b == 0xFF {
		b, err = l.src.Next()
		if err == io.EOF {
			return 0, ErrTruncatedMarker
		}
		if err != nil {
			return 0, err
		}
	}
	return b, nil
}

// readSegmentBody reads the big-endian length field and the payload it
// announces. The length includes its own two bytes.
func (l *lexer) readSegmentBody(code byte) ([]byte, error) {
	raw, err := readExact(l.src, 2)
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s header", ErrTruncatedSegment, markerName(code))
	}
	if err != nil {
		return nil, err
	}
	length := int(binary.BigEndian.Uint16(raw))
	if length < 2 {
		return nil, fmt.Errorf("%w: %s declares %d", ErrInvalidLength, markerName(code), length)
	}
	payload, err := readExact(l.src, length-2)
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s body (expected %d bytes)", ErrTruncatedSegment, markerName(code), length-2)
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// scanECS accumulates entropy-coded bytes up to the next marker, removing
// the stuffed 0x00 after each data 0xFF. It returns the data together with
// the marker code that terminated it, which has already been consumed.
func (l *lexer) scanECS() ([]byte, byte, error) {
	var data []byte
	for {
		b, err := l.src.Next()
		if err == io.EOF {
			return nil, 0, ErrTruncatedECS
		}
		if err != nil {
			return nil, 0, err
		}
		if b != 0xFF {
			data = append(data, b)
			continue
		}

		// 0xFF within entropy data: a following 0x00 is stuffing, a
		// following 0xFF is a fill byte before a marker, and anything
		// else is the next marker code.
		next, err := l.src.Next()
		if err == io.EOF {
			return nil, 0, ErrTruncatedECS
		}
		if err != nil {
			return nil, 0, err
		}
		if next == 0x00 {
			data = append(data, 0xFF)
			continue
		}
		for next == 0xFF {
			next, err = l.src.Next()
			if err == io.EOF {
				return nil, 0, ErrTruncatedECS
			}
			if err != nil {
				return nil, 0, err
			}
		}
		if next == 0x00 {
			// A fill run may not introduce the 0x00 sentinel.
			return nil, 0, fmt.Errorf("%w: 0x00", ErrReservedMarker)
		}
		return data, next, nil
	}
}
