package jpeg

import "errors"

// Lexing errors.
var (
	ErrInvalidMarkerPrefix = errors.New("jpeg: invalid marker prefix")
	ErrTruncatedMarker     = errors.New("jpeg: truncated marker type")
	ErrTruncatedSegment    = errors.New("jpeg: truncated segment")
	ErrTruncatedECS        = errors.New("jpeg: truncated entropy coded segment")
	ErrInvalidLength       = errors.New("jpeg: invalid segment length")
	ErrReservedMarker      = errors.New("jpeg: reserved marker type")
)

// Parsing errors.
var (
	ErrInvalidJFIF              = errors.New("jpeg: invalid JFIF segment")
	ErrInvalidEXIF              = errors.New("jpeg: invalid EXIF segment")
	ErrInvalidFrameHeader       = errors.New("jpeg: invalid frame header")
	ErrInvalidScanHeader        = errors.New("jpeg: invalid scan header")
	ErrInvalidScanComponents    = errors.New("jpeg: invalid scan component count")
	ErrInvalidQuantPrecision    = errors.New("jpeg: invalid quantization table precision")
	ErrInvalidQuantSlot         = errors.New("jpeg: invalid quantization table slot")
	ErrInvalidHuffmanClass      = errors.New("jpeg: invalid huffman table class")
	ErrInvalidHuffmanSlot       = errors.New("jpeg: invalid huffman table slot")
	ErrMalformedHuffmanTable    = errors.New("jpeg: malformed huffman table")
	ErrInvalidRestartDefinition = errors.New("jpeg: invalid restart interval segment")
	ErrInvalidHeightDefinition  = errors.New("jpeg: invalid height redefinition segment")
)

// Decoding errors (driver).
var (
	ErrMissingSOI               = errors.New("jpeg: missing start of image")
	ErrDuplicateSOI             = errors.New("jpeg: duplicate start of image")
	ErrDuplicateFrame           = errors.New("jpeg: duplicate frame header")
	ErrPrematureSOS             = errors.New("jpeg: scan before frame header")
	ErrPrematureEOI             = errors.New("jpeg: premature end of image")
	ErrUnexpectedDNL            = errors.New("jpeg: unexpected height redefinition")
	ErrMissingDNL               = errors.New("jpeg: missing height redefinition")
	ErrUnexpectedRestart        = errors.New("jpeg: unexpected restart marker")
	ErrInvalidRestartPhase      = errors.New("jpeg: invalid restart phase")
	ErrMissingRestartInterval   = errors.New("jpeg: missing restart interval segment")
	ErrUndefinedScanComponent   = errors.New("jpeg: undefined scan component reference")
	ErrInvalidSamplingVolume    = errors.New("jpeg: invalid sampling volume")
	ErrInvalidProgression       = errors.New("jpeg: invalid progressive band or bits")
	ErrUndefinedHuffmanSlot     = errors.New("jpeg: undefined huffman table slot reference")
	ErrUndefinedQuantSlot       = errors.New("jpeg: undefined quantization table slot reference")
	ErrQuantPrecisionMismatch   = errors.New("jpeg: quantization table precision mismatch")
	ErrUnsupportedCodingProcess = errors.New("jpeg: unsupported frame coding process")
)
