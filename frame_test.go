package jpeg

import (
	"errors"
	"testing"
)

// framePayload builds a SOFn payload: precision, height, width, and one
// {key, H<<4|V, Tq} record per component.
func framePayload(precision int, height, width uint16, comps ...[3]byte) []byte {
	p := []byte{
		byte(precision),
		byte(height >> 8), byte(height),
		byte(width >> 8), byte(width),
		byte(len(comps)),
	}
	for _, c := range comps {
		p = append(p, c[0], c[1], c[2])
	}
	return p
}

func TestParseFrame(t *testing.T) {
	ycc := [][3]byte{{1, 0x22, 0}, {2, 0x11, 1}, {3, 0x11, 1}}

	tests := []struct {
		name    string
		code    byte
		payload []byte
		wantErr error
	}{
		{
			name:    "baseline YCbCr 4:2:0",
			code:    markerSOF0,
			payload: framePayload(8, 480, 640, ycc...),
		},
		{
			name:    "extended twelve bit",
			code:    markerSOF1,
			payload: framePayload(12, 480, 640, ycc...),
		},
		{
			name:    "progressive grayscale",
			code:    markerSOF2,
			payload: framePayload(8, 480, 640, [3]byte{1, 0x11, 0}),
		},
		{
			name:    "deferred height",
			code:    markerSOF0,
			payload: framePayload(8, 0, 640, ycc...),
		},
		{
			name:    "baseline twelve bit",
			code:    markerSOF0,
			payload: framePayload(12, 480, 640, ycc...),
			wantErr: ErrInvalidFrameHeader,
		},
		{
			name:    "bad precision",
			code:    markerSOF1,
			payload: framePayload(10, 480, 640, ycc...),
			wantErr: ErrInvalidFrameHeader,
		},
		{
			name:    "zero width",
			code:    markerSOF0,
			payload: framePayload(8, 480, 0, ycc...),
			wantErr: ErrInvalidFrameHeader,
		},
		{
			name:    "zero components",
			code:    markerSOF0,
			payload: framePayload(8, 480, 640),
			wantErr: ErrInvalidFrameHeader,
		},
		{
			name: "length component mismatch",
			code: markerSOF0,
			payload: append(framePayload(8, 480, 640, ycc...),
				0x00),
			wantErr: ErrInvalidFrameHeader,
		},
		{
			name:    "sampling factor zero",
			code:    markerSOF0,
			payload: framePayload(8, 480, 640, [3]byte{1, 0x01, 0}),
			wantErr: ErrInvalidFrameHeader,
		},
		{
			name:    "sampling factor five",
			code:    markerSOF0,
			payload: framePayload(8, 480, 640, [3]byte{1, 0x15, 0}),
			wantErr: ErrInvalidFrameHeader,
		},
		{
			name:    "bad quantization selector",
			code:    markerSOF0,
			payload: framePayload(8, 480, 640, [3]byte{1, 0x11, 4}),
			wantErr: ErrInvalidFrameHeader,
		},
		{
			name:    "duplicate component key",
			code:    markerSOF0,
			payload: framePayload(8, 480, 640, [3]byte{1, 0x11, 0}, [3]byte{1, 0x11, 0}),
			wantErr: ErrInvalidFrameHeader,
		},
		{
			name: "progressive with five components",
			code: markerSOF2,
			payload: framePayload(8, 480, 640,
				[3]byte{1, 0x11, 0}, [3]byte{2, 0x11, 0}, [3]byte{3, 0x11, 0},
				[3]byte{4, 0x11, 0}, [3]byte{5, 0x11, 0}),
			wantErr: ErrInvalidFrameHeader,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := parseFrame(tt.code, tt.payload)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("parseFrame() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseFrame() failed: %v", err)
			}
			if len(h.Components) != (len(tt.payload)-6)/3 {
				t.Errorf("components = %d, want %d", len(h.Components), (len(tt.payload)-6)/3)
			}
		})
	}
}

func TestFramePlaneIndex(t *testing.T) {
	h, err := parseFrame(markerSOF0, framePayload(8, 16, 16,
		[3]byte{0x10, 0x22, 0}, [3]byte{0x20, 0x11, 1}, [3]byte{0x30, 0x11, 1}))
	if err != nil {
		t.Fatalf("parseFrame() failed: %v", err)
	}

	for i, key := range []uint8{0x10, 0x20, 0x30} {
		if got := h.PlaneIndex(key); got != i {
			t.Errorf("PlaneIndex(%#02X) = %d, want %d", key, got, i)
		}
	}
	if got := h.PlaneIndex(0x40); got != -1 {
		t.Errorf("PlaneIndex(0x40) = %d, want -1", got)
	}

	c := h.Components[0]
	if c.H != 2 || c.V != 2 || c.QuantSelector != 0 {
		t.Errorf("component 0 = %+v, want H=2 V=2 Tq=0", c)
	}
}
