package jpeg

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Options controls decoding behavior.
type Options struct {
	// DiscardAppSegments suppresses the metadata events for application
	// segments this package assigns no meaning to, and for comments.
	// JFIF and EXIF are still parsed and surfaced.
	DiscardAppSegments bool
}

// decoder states. A scan is consumed eagerly inside one Next call, so the
// in-scan condition never persists between states.
type decoderState int

const (
	stateExpectSOI decoderState = iota
	stateExpectFrame
	stateHaveFrame
	stateEnded
)

// Decoder drives a JPEG stream from SOI to EOI, producing the event
// sequence described by Event. It owns the four quantization and four DC
// and AC Huffman table slots; installing into an occupied slot releases
// the previous table before the new one becomes visible.
//
// A Decoder is single-use and not safe for concurrent use; run one
// instance per stream.
type Decoder struct {
	lex     *lexer
	state   decoderState
	pending *token // one-token lookahead pushed back by the scan reader

	frame    *FrameHeader
	comp     *composer
	dc       [4]*HuffmanTable
	ac       [4]*HuffmanTable
	quant    [4]*QuantTable
	interval int // restart interval in MCUs; 0 disables restarts

	scanned    bool // at least one scan completed
	dnlAllowed bool // the very next token may be DNL

	discardApp bool
}

// NewDecoder returns a decoder reading from r.
func NewDecoder(r io.Reader, opts ...*Options) *Decoder {
	d := &Decoder{lex: newLexer(newStreamSource(r))}
	if len(opts) > 0 && opts[0] != nil {
		d.discardApp = opts[0].DiscardAppSegments
	}
	return d
}

// newDecoderBytes returns a decoder over an in-memory stream.
func newDecoderBytes(data []byte) *Decoder {
	return &Decoder{lex: newLexer(newMemorySource(data))}
}

// DCTableAt returns the Huffman table currently installed in the given DC
// slot, or nil. The downstream entropy decoder resolves a scan plan's
// selectors through these accessors.
func (d *Decoder) DCTableAt(slot int) *HuffmanTable {
	return d.dc[slot]
}

// ACTableAt returns the Huffman table currently installed in the given AC
// slot, or nil.
func (d *Decoder) ACTableAt(slot int) *HuffmanTable {
	return d.ac[slot]
}

// QuantTableAt returns the quantization table currently installed in the
// given slot, or nil.
func (d *Decoder) QuantTableAt(slot int) *QuantTable {
	return d.quant[slot]
}

// RestartInterval returns the restart interval in effect, in MCUs.
func (d *Decoder) RestartInterval() int {
	return d.interval
}

// Close releases the installed tables and the frame state. The decoder is
// unusable afterward.
func (d *Decoder) Close() {
	d.dc = [4]*HuffmanTable{}
	d.ac = [4]*HuffmanTable{}
	d.quant = [4]*QuantTable{}
	d.frame = nil
	d.comp = nil
	d.state = stateEnded
}

// next returns the pushed-back token if one exists, else pulls the lexer.
func (d *Decoder) next() (token, error) {
	if d.pending != nil {
		tok := *d.pending
		d.pending = nil
		return tok, nil
	}
	return d.lex.next()
}

// Next returns the next decode event. After End it returns io.EOF. Any
// error is fatal: the stream cannot be resumed.
func (d *Decoder) Next() (Event, error) {
	for {
		if d.state == stateEnded {
			return nil, io.EOF
		}

		tok, err := d.next()
		if err != nil {
			return nil, err
		}

		// DNL is legal only as the very next token after a first scan,
		// and a frame declared with height zero must resolve it there.
		dnlWindow := d.dnlAllowed
		d.dnlAllowed = false
		if dnlWindow && d.frame.Height == 0 && !(tok.kind == tokenSegment && tok.code == markerDNL) {
			return nil, ErrMissingDNL
		}

		var ev Event
		switch d.state {
		case stateExpectSOI:
			if tok.kind != tokenMarker || tok.code != markerSOI {
				return nil, fmt.Errorf("%w: stream opens with %s", ErrMissingSOI, markerName(tok.code))
			}
			d.state = stateExpectFrame
			continue
		case stateExpectFrame:
			ev, err = d.expectFrame(tok)
		case stateHaveFrame:
			ev, err = d.haveFrame(tok, dnlWindow)
		}
		if err != nil {
			return nil, err
		}
		if ev != nil {
			return ev, nil
		}
	}
}

// expectFrame handles tokens between SOI and the frame header.
func (d *Decoder) expectFrame(tok token) (Event, error) {
	if tok.kind == tokenMarker {
		switch {
		case tok.code == markerSOI:
			return nil, ErrDuplicateSOI
		case tok.code == markerEOI:
			return nil, ErrPrematureEOI
		case isRSTn(tok.code):
			return nil, fmt.Errorf("%w: %s in headers", ErrUnexpectedRestart, markerName(tok.code))
		}
		return nil, fmt.Errorf("%w: %s", ErrReservedMarker, markerName(tok.code))
	}

	switch {
	case tok.code == markerSOS:
		return nil, ErrPrematureSOS
	case tok.code == markerDNL:
		return nil, fmt.Errorf("%w: before any scan", ErrUnexpectedDNL)
	case isSOFn(tok.code):
		if tok.code != markerSOF0 && tok.code != markerSOF1 && tok.code != markerSOF2 {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedCodingProcess, markerName(tok.code))
		}
		frame, err := parseFrame(tok.code, tok.payload)
		if err != nil {
			return nil, err
		}
		d.frame = frame
		d.comp = newComposer(frame)
		d.state = stateHaveFrame
		return FrameReady{Frame: frame}, nil
	}
	return d.tableOrMetadata(tok)
}

// haveFrame handles tokens between the frame header and EOI, outside
// scans.
func (d *Decoder) haveFrame(tok token, dnlWindow bool) (Event, error) {
	if tok.kind == tokenMarker {
		switch {
		case tok.code == markerSOI:
			return nil, ErrDuplicateSOI
		case tok.code == markerEOI:
			d.state = stateEnded
			return End{}, nil
		case isRSTn(tok.code):
			return nil, fmt.Errorf("%w: %s outside a scan", ErrUnexpectedRestart, markerName(tok.code))
		}
		return nil, fmt.Errorf("%w: %s", ErrReservedMarker, markerName(tok.code))
	}

	switch {
	case tok.code == markerSOS:
		return d.scan(tok.payload)
	case tok.code == markerDNL:
		if !dnlWindow {
			return nil, ErrUnexpectedDNL
		}
		if d.frame.Height != 0 {
			return nil, fmt.Errorf("%w: frame height already %d", ErrUnexpectedDNL, d.frame.Height)
		}
		if len(tok.payload) != 2 {
			return nil, fmt.Errorf("%w: %d byte payload", ErrInvalidHeightDefinition, len(tok.payload))
		}
		height := int(binary.BigEndian.Uint16(tok.payload))
		if height == 0 {
			return nil, fmt.Errorf("%w: zero height", ErrInvalidHeightDefinition)
		}
		d.frame.Height = height
		return HeightRedefined{Height: height}, nil
	case isSOFn(tok.code):
		if tok.code != markerSOF0 && tok.code != markerSOF1 && tok.code != markerSOF2 {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedCodingProcess, markerName(tok.code))
		}
		return nil, ErrDuplicateFrame
	}
	return d.tableOrMetadata(tok)
}

// tableOrMetadata handles the segments legal both before and after the
// frame header: table definitions, application data, and comments. A nil
// event means the segment was consumed without producing one.
func (d *Decoder) tableOrMetadata(tok token) (Event, error) {
	switch {
	case tok.code == markerDQT:
		specs, err := parseDQT(tok.payload)
		if err != nil {
			return nil, err
		}
		for _, s := range specs {
			// Overwriting releases the previous occupant.
			d.quant[s.slot] = s.table
		}
		return nil, nil
	case tok.code == markerDHT:
		specs, err := parseDHT(tok.payload)
		if err != nil {
			return nil, err
		}
		for _, s := range specs {
			table, err := buildHuffmanTable(s.class, s.counts, s.values)
			if err != nil {
				return nil, err
			}
			if s.class == DCTable {
				d.dc[s.slot] = table
			} else {
				d.ac[s.slot] = table
			}
		}
		return nil, nil
	case tok.code == markerDRI:
		if len(tok.payload) != 2 {
			return nil, fmt.Errorf("%w: %d byte payload", ErrInvalidRestartDefinition, len(tok.payload))
		}
		d.interval = int(binary.BigEndian.Uint16(tok.payload))
		return nil, nil
	case tok.code == markerAPP0:
		jfif, err := parseJFIF(tok.payload)
		if err != nil {
			return nil, err
		}
		return MetadataJFIF{JFIF: jfif}, nil
	case tok.code == markerAPP1:
		exif, err := parseEXIF(tok.payload)
		if err != nil {
			return nil, err
		}
		return MetadataEXIF{EXIF: exif}, nil
	case isAPPn(tok.code):
		if d.discardApp {
			return nil, nil
		}
		return MetadataApp{N: int(tok.code & 0x0F), Data: tok.payload}, nil
	case tok.code == markerCOM:
		if d.discardApp {
			return nil, nil
		}
		return MetadataComment{Data: tok.payload}, nil
	case tok.code == markerDAC:
		return nil, fmt.Errorf("%w: arithmetic conditioning", ErrUnsupportedCodingProcess)
	case tok.code == markerDHP || tok.code == markerEXP:
		return nil, fmt.Errorf("%w: hierarchical %s", ErrUnsupportedCodingProcess, markerName(tok.code))
	}
	return nil, fmt.Errorf("%w: %s", ErrReservedMarker, markerName(tok.code))
}

// scan composes one scan and consumes its entropy-coded data eagerly,
// validating restart phases as the chain unwinds. The marker that
// terminates the chain is pushed back for the main loop.
func (d *Decoder) scan(payload []byte) (Event, error) {
	header, err := parseScan(payload)
	if err != nil {
		return nil, err
	}
	plan, err := d.comp.compose(header, d)
	if err != nil {
		return nil, err
	}

	var segments []*Bitstream
	phase := 0
	for {
		tok, err := d.lex.next()
		if err != nil {
			return nil, err
		}
		if tok.kind != tokenECS {
			return nil, fmt.Errorf("%w: no entropy data after %s", ErrTruncatedECS, markerName(tok.code))
		}
		segments = append(segments, NewBitstream(tok.payload))

		term, err := d.lex.next()
		if err != nil {
			return nil, err
		}
		if term.kind == tokenMarker && isRSTn(term.code) {
			if d.interval == 0 {
				return nil, ErrMissingRestartInterval
			}
			m := int(term.code & 0x07)
			if m != phase {
				return nil, fmt.Errorf("%w (expected %d)", ErrInvalidRestartPhase, phase)
			}
			phase = (phase + 1) & 0x07
			continue
		}
		d.pending = &term
		break
	}

	d.dnlAllowed = !d.scanned
	d.scanned = true
	return ScanReady{Plan: plan, Segments: segments}, nil
}
