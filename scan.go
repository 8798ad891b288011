package jpeg

import "fmt"

// ScanComponent is one component reference in a scan header: the frame
// component key plus the DC and AC table selectors.
type ScanComponent struct {
	Key        uint8
	DCSelector int
	ACSelector int
}

// ScanHeader is the parsed SOS segment, before composition against the
// frame header.
type ScanHeader struct {
	Components []ScanComponent
	Ss, Se     int // spectral band
	Ah, Al     int // successive-approximation bit positions
}

// parseScan parses an SOS payload. Range checks happen here; band and bit
// semantics are judged later against the frame's coding process.
func parseScan(payload []byte) (*ScanHeader, error) {
	if len(payload) < 1 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidScanHeader)
	}
	count := int(payload[0])
	if count < 1 || count > 4 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidScanComponents, count)
	}
	if len(payload) != 1+2*count+3 {
		return nil, fmt.Errorf("%w: %d components in %d byte payload", ErrInvalidScanHeader, count, len(payload))
	}

	h := &ScanHeader{Components: make([]ScanComponent, count)}
	for i := range count {
		key := payload[1+2*i]
		sel := payload[2+2*i]
		dc, ac := int(sel>>4), int(sel&0x0F)
		if dc > 3 || ac > 3 {
			return nil, fmt.Errorf("%w: table selectors %d/%d for component %d", ErrInvalidScanHeader, dc, ac, key)
		}
		h.Components[i] = ScanComponent{Key: key, DCSelector: dc, ACSelector: ac}
	}

	tail := payload[1+2*count:]
	h.Ss = int(tail[0])
	h.Se = int(tail[1])
	h.Ah = int(tail[2] >> 4)
	h.Al = int(tail[2] & 0x0F)
	if h.Ss > 63 || h.Se > 63 {
		return nil, fmt.Errorf("%w: band %d..%d", ErrInvalidScanHeader, h.Ss, h.Se)
	}
	if h.Ah > 13 || h.Al > 13 {
		return nil, fmt.Errorf("%w: bits %d/%d", ErrInvalidScanHeader, h.Ah, h.Al)
	}
	return h, nil
}

// PlanComponent binds one scan component to its frame plane and entropy
// table selectors.
type PlanComponent struct {
	Plane      int
	DCSelector int
	ACSelector int
}

// ScanPlan is a fully validated scan descriptor: the spectral band, the
// successive-approximation bit positions, and the resolved component
// bindings. It is what the downstream entropy decoder consumes.
type ScanPlan struct {
	Band       [2]int // Ss, Se
	Bits       [2]int // Ah, Al
	Components []PlanComponent
}

// Interleaved reports whether the scan carries more than one component.
func (p *ScanPlan) Interleaved() bool {
	return len(p.Components) > 1
}

// tableView is the slot state the composer checks selector references
// against. The decoder implements it.
type tableView interface {
	DCTableAt(slot int) *HuffmanTable
	ACTableAt(slot int) *HuffmanTable
	QuantTableAt(slot int) *QuantTable
}

// composer validates scan headers against the frame header and carries the
// per-coefficient progression state across the scans of a progressive
// frame. One composer serves one frame.
type composer struct {
	frame *FrameHeader

	// low[plane][z] is the bit position most recently written for
	// coefficient z of that plane, or untouched if no scan has covered
	// it yet.
	low [][64]int
}

const untouched = -1

func newComposer(frame *FrameHeader) *composer {
	c := &composer{
		frame: frame,
		low:   make([][64]int, len(frame.Components)),
	}
	for i := range c.low {
		for z := range c.low[i] {
			c.low[i][z] = untouched
		}
	}
	return c
}

// compose validates a scan header and produces its plan. The slot bindings
// a scan actually consumes from must be populated; selectors the scan never
// touches (the AC selector of a DC-only scan, the DC selector of a
// refinement scan) may dangle.
func (c *composer) compose(h *ScanHeader, tables tableView) (*ScanPlan, error) {
	plan := &ScanPlan{
		Band:       [2]int{h.Ss, h.Se},
		Bits:       [2]int{h.Ah, h.Al},
		Components: make([]PlanComponent, len(h.Components)),
	}

	volume := 0
	for i, sc := range h.Components {
		plane := c.frame.PlaneIndex(sc.Key)
		if plane < 0 {
			return nil, fmt.Errorf("%w: key %d", ErrUndefinedScanComponent, sc.Key)
		}
		fc := c.frame.Components[plane]
		volume += fc.H * fc.V
		plan.Components[i] = PlanComponent{Plane: plane, DCSelector: sc.DCSelector, ACSelector: sc.ACSelector}
	}
	if plan.Interleaved() && volume > 10 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSamplingVolume, volume)
	}

	switch c.frame.Process {
	case Baseline, Extended:
		if h.Ss != 0 || h.Se != 63 || h.Ah != 0 || h.Al != 0 {
			return nil, fmt.Errorf("%w: band %d..%d bits %d/%d in a sequential frame",
				ErrInvalidProgression, h.Ss, h.Se, h.Ah, h.Al)
		}
	case Progressive:
		if err := c.advance(h, plan); err != nil {
			return nil, err
		}
	}

	return plan, c.checkTables(plan, tables)
}

// advance applies the T.81 progression rules for one progressive scan and
// records the bit positions it writes.
func (c *composer) advance(h *ScanHeader, plan *ScanPlan) error {
	if h.Ah != 0 && h.Al != h.Ah-1 {
		return fmt.Errorf("%w: refinement %d/%d", ErrInvalidProgression, h.Ah, h.Al)
	}

	if h.Ss == 0 {
		// DC scan: the band is the single DC coefficient.
		if h.Se != 0 {
			return fmt.Errorf("%w: DC band %d..%d", ErrInvalidProgression, h.Ss, h.Se)
		}
		for _, pc := range plan.Components {
			prev := c.low[pc.Plane][0]
			switch {
			case h.Ah == 0 && prev == untouched:
			case h.Ah == 0:
				return fmt.Errorf("%w: duplicate initial DC scan", ErrInvalidProgression)
			case prev == untouched:
				return fmt.Errorf("%w: DC refinement before initial scan", ErrInvalidProgression)
			case h.Ah != prev:
				return fmt.Errorf("%w: DC refinement %d/%d after %d", ErrInvalidProgression, h.Ah, h.Al, prev)
			}
			c.low[pc.Plane][0] = h.Al
		}
		return nil
	}

	// AC scan: the initial DC scan for a component must precede any of
	// its AC coefficients.
	if h.Se < h.Ss {
		return fmt.Errorf("%w: band %d..%d", ErrInvalidProgression, h.Ss, h.Se)
	}
	for _, pc := range plan.Components {
		if c.low[pc.Plane][0] == untouched {
			return fmt.Errorf("%w: AC scan before initial DC scan", ErrInvalidProgression)
		}
		for z := h.Ss; z <= h.Se; z++ {
			prev := c.low[pc.Plane][z]
			switch {
			case h.Ah == 0 && prev == untouched:
			case h.Ah == 0:
				return fmt.Errorf("%w: duplicate initial scan for coefficient %d", ErrInvalidProgression, z)
			case prev == untouched:
				return fmt.Errorf("%w: refinement of unwritten coefficient %d", ErrInvalidProgression, z)
			case h.Ah != prev:
				return fmt.Errorf("%w: refinement %d/%d of coefficient %d after %d", ErrInvalidProgression, h.Ah, h.Al, z, prev)
			}
			c.low[pc.Plane][z] = h.Al
		}
	}
	return nil
}

// checkTables verifies that every table slot the scan consumes from is
// populated, and that quantization precision is legal for the frame.
func (c *composer) checkTables(plan *ScanPlan, tables tableView) error {
	needsDC := plan.Band[0] == 0 && plan.Bits[0] == 0
	needsAC := plan.Band[1] > 0

	for _, pc := range plan.Components {
		if needsDC && tables.DCTableAt(pc.DCSelector) == nil {
			return fmt.Errorf("%w: DC slot %d", ErrUndefinedHuffmanSlot, pc.DCSelector)
		}
		if needsAC && tables.ACTableAt(pc.ACSelector) == nil {
			return fmt.Errorf("%w: AC slot %d", ErrUndefinedHuffmanSlot, pc.ACSelector)
		}

		fc := c.frame.Components[pc.Plane]
		qt := tables.QuantTableAt(fc.QuantSelector)
		if qt == nil {
			return fmt.Errorf("%w: slot %d", ErrUndefinedQuantSlot, fc.QuantSelector)
		}
		if c.frame.Precision == 8 && qt.Precision == 16 {
			return fmt.Errorf("%w: 16-bit table in slot %d for an 8-bit frame", ErrQuantPrecisionMismatch, fc.QuantSelector)
		}
	}
	return nil
}
