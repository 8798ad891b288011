package jpeg

import (
	"bufio"
	"io"
)

// byteSource is the minimal upstream interface the lexer consumes: forward
// single-byte reads with io.EOF at end of stream. Implementations over
// memory buffers, files, or sockets conform identically.
type byteSource interface {
	// Next returns the next byte, or io.EOF when the stream is exhausted.
	Next() (byte, error)
	// Count returns the number of bytes consumed so far. Used for error
	// detail only.
	Count() int
}

// memorySource reads from an in-memory byte slice.
type memorySource struct {
	data []byte
	pos  int
}

func newMemorySource(data []byte) *memorySource {
	return &memorySource{data: data}
}

func (s *memorySource) Next() (byte, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	b := s.data[s.pos]
	s.pos++
	return b, nil
}

func (s *memorySource) Count() int {
	return s.pos
}

// streamSource reads from an io.Reader through a buffer.
type streamSource struct {
	r   *bufio.Reader
	pos int
}

func newStreamSource(r io.Reader) *streamSource {
	return &streamSource{r: bufio.NewReader(r)}
}

func (s *streamSource) Next() (byte, error) {
	b, err := s.r.ReadByte()
	if err != nil {
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return 0, err
	}
	s.pos++
	return b, nil
}

func (s *streamSource) Count() int {
	return s.pos
}

// readExact reads exactly n bytes from src. It returns io.EOF if the source
// ends before n bytes arrive; the caller maps that to the right truncation
// error for its context.
func readExact(src byteSource, n int) ([]byte, error) {
	buf := make([]byte, n)
	for i := range buf {
		b, err := src.Next()
		if err != nil {
			return nil, err
		}
		buf[i] = b
	}
	return buf, nil
}
