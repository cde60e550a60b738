package datafile

import (
	"fmt"
	"io"

	"github.com/rpcpool/sqpack-go/cursor"
)

// DecodeStandard assembles a Standard-type record: num_blocks
// BlockLocator entries describing payload blocks, concatenated in
// locator order.
func DecodeStandard(src io.ReaderAt, recordBase int64, hdr RecordHeader) ([]byte, error) {
	locatorTableLen := int(hdr.NumBlocks) * blockLocatorSize
	locatorBuf := make([]byte, locatorTableLen)
	if _, err := io.ReadFull(ioSectionAt(src, recordBase+recordHeaderFixedSize), locatorBuf); err != nil {
		return nil, fmt.Errorf("datafile: reading block locator table: %w", err)
	}
	r := cursor.NewReader(locatorBuf)

	payloadBase := recordBase + int64(hdr.Size)

	out := make([]byte, 0, hdr.RawFileSize)
	for i := uint32(0); i < hdr.NumBlocks; i++ {
		loc, err := ParseBlockLocator(r)
		if err != nil {
			return nil, fmt.Errorf("datafile: block locator %d: %w", i, err)
		}
		decoded, _, err := decodeBlockAt(src, payloadBase+int64(loc.Offset))
		if err != nil {
			return nil, fmt.Errorf("datafile: block %d: %w", i, err)
		}
		if len(decoded) != int(loc.UncompressedSize) {
			return nil, fmt.Errorf("datafile: block %d decompressed to %d bytes, locator declared %d", i, len(decoded), loc.UncompressedSize)
		}
		out = append(out, decoded...)
	}
	return out, nil
}
