package jpeg

// Event is one item of the decode event stream. A well-formed stream
// produces metadata events as they appear, FrameReady once, ScanReady per
// scan, possibly HeightRedefined after the first scan, and finally End.
type Event interface {
	event()
}

// MetadataJFIF surfaces a parsed JFIF application header.
type MetadataJFIF struct {
	JFIF *JFIF
}

// MetadataEXIF surfaces a parsed EXIF blob.
type MetadataEXIF struct {
	EXIF *EXIF
}

// MetadataApp surfaces an application segment this package assigns no
// meaning to. N is the APPn index, Data the raw payload.
type MetadataApp struct {
	N    int
	Data []byte
}

// MetadataComment surfaces a COM segment payload.
type MetadataComment struct {
	Data []byte
}

// FrameReady announces the frame header. It is produced exactly once.
type FrameReady struct {
	Frame *FrameHeader
}

// ScanReady announces a validated scan. Segments holds one bitstream per
// entropy-coded segment: a single element when no restart interval is
// defined, otherwise one per restart interval plus the terminating run.
type ScanReady struct {
	Plan     *ScanPlan
	Segments []*Bitstream
}

// HeightRedefined reports the frame height a DNL segment supplied after
// the first scan of a frame declared with height zero.
type HeightRedefined struct {
	Height int
}

// End reports a complete decode. No further events follow.
type End struct{}

func (MetadataJFIF) event()    {}
func (MetadataEXIF) event()    {}
func (MetadataApp) event()     {}
func (MetadataComment) event() {}
func (FrameReady) event()      {}
func (ScanReady) event()       {}
func (HeightRedefined) event() {}
func (End) event()             {}
