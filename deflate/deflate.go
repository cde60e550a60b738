// Package deflate decodes the raw (headerless) DEFLATE blocks SqPack
// embeds in its payload records: no zlib wrapper, no gzip wrapper,
// output length known in advance from the block header.
package deflate

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// ErrCompression marks a raw-deflate stream that failed to decode to
// exactly the expected length.
type ErrCompression struct {
	Reason string
}

func (e *ErrCompression) Error() string {
	return fmt.Sprintf("deflate: %s", e.Reason)
}

// DecodeBlock inflates a single raw-deflate block to exactly
// wantSize bytes. It returns ErrCompression if the stream ends before
// wantSize bytes are produced or if trailing garbage remains once
// wantSize bytes have been read and the stream hasn't hit EOF cleanly.
func DecodeBlock(compressed []byte, wantSize int) ([]byte, error) {
	fr := flate.NewReader(&byteReader{compressed})
	defer fr.Close()

	out := make([]byte, wantSize)
	n, err := io.ReadFull(fr, out)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, &ErrCompression{Reason: err.Error()}
	}
	if n != wantSize {
		return nil, &ErrCompression{Reason: fmt.Sprintf("short inflate: got %d bytes, want %d", n, wantSize)}
	}
	var extra [1]byte
	if m, err := fr.Read(extra[:]); m != 0 || err != io.EOF {
		return nil, &ErrCompression{Reason: fmt.Sprintf("stream did not end after %d bytes", wantSize)}
	}
	return out, nil
}

type byteReader struct{ b []byte }

func (r *byteReader) Read(p []byte) (int, error) {
	if len(r.b) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.b)
	r.b = r.b[n:]
	return n, nil
}
