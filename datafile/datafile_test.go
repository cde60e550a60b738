package datafile

import (
	"bytes"
	stdflate "compress/flate"
	"encoding/binary"
	"testing"

	"github.com/rpcpool/sqpack-go/cursor"
)

// memAt adapts a byte slice to io.ReaderAt for tests.
type memAt struct{ b []byte }

func (m memAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || int(off) > len(m.b) {
		return 0, bytes.ErrTooLarge
	}
	n := copy(p, m.b[off:])
	if n < len(p) {
		return n, bytes.ErrTooLarge
	}
	return n, nil
}

func compressRaw(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := stdflate.NewWriter(&buf, stdflate.BestSpeed)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func putU32(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}

func putU16(b []byte, v uint16) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return append(b, tmp[:]...)
}

func putI32(b []byte, v int32) []byte {
	return putU32(b, uint32(v))
}

func blockBytes(compressedLen, decompressedLen uint32, payload []byte) []byte {
	b := make([]byte, 0, blockHeaderSize+len(payload))
	b = putU32(b, 0)        // size (unused by decoder)
	b = putU32(b, 0)        // reserved
	b = putU32(b, compressedLen)
	b = putU32(b, decompressedLen)
	b = append(b, payload...)
	return b
}

// TestDecodeStandardConcatenatesBlocksInLocatorOrder builds one stored
// block (compressed_len >= storedThreshold) and one deflate block
// decoding to "hello, world\n", matching the two-block Standard
// scenario, and checks the assembled payload is their concatenation.
func TestDecodeStandardConcatenatesBlocksInLocatorOrder(t *testing.T) {
	stored := make([]byte, 16)
	for i := range stored {
		stored[i] = byte(i)
	}
	block1 := blockBytes(32001, uint32(len(stored)), stored)

	plain := []byte("hello, world\n")
	compressed := compressRaw(t, plain)
	block2 := blockBytes(uint32(len(compressed)), uint32(len(plain)), compressed)

	recordHeaderFixed := make([]byte, 0, recordHeaderFixedSize)
	numBlocks := uint32(2)
	locatorTableLen := int(numBlocks) * blockLocatorSize
	recordSize := uint32(recordHeaderFixedSize + locatorTableLen)

	recordHeaderFixed = putU32(recordHeaderFixed, recordSize)
	recordHeaderFixed = putU32(recordHeaderFixed, uint32(FileTypeStandard))
	recordHeaderFixed = putU32(recordHeaderFixed, uint32(len(stored)+len(plain)))
	recordHeaderFixed = putU32(recordHeaderFixed, 0) // reserved
	recordHeaderFixed = putU32(recordHeaderFixed, numBlocks)

	var locators []byte
	locators = putI32(locators, 0)
	locators = putU16(locators, uint16(len(stored)))
	locators = putU16(locators, uint16(len(block1)-blockHeaderSize))

	offset2 := int32(len(block1))
	locators = putI32(locators, offset2)
	locators = putU16(locators, uint16(len(plain)))
	locators = putU16(locators, uint16(len(compressed)))

	buf := append([]byte{}, recordHeaderFixed...)
	buf = append(buf, locators...)
	buf = append(buf, block1...)
	buf = append(buf, block2...)

	src := memAt{b: buf}
	var hdrBuf [recordHeaderFixedSize]byte
	copy(hdrBuf[:], recordHeaderFixed)
	hdr, err := ParseRecordHeader(cursor.NewReader(hdrBuf[:]))
	if err != nil {
		t.Fatal(err)
	}

	got, err := DecodeStandard(src, 0, hdr)
	if err != nil {
		t.Fatal(err)
	}
	want := append(append([]byte{}, stored...), plain...)
	if !bytes.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDecodeStandardRejectsSizeMismatch(t *testing.T) {
	plain := []byte("x")
	compressed := compressRaw(t, plain)
	block := blockBytes(uint32(len(compressed)), uint32(len(plain)), compressed)

	numBlocks := uint32(1)
	recordSize := uint32(recordHeaderFixedSize + int(numBlocks)*blockLocatorSize)

	var locators []byte
	locators = putI32(locators, 0)
	locators = putU16(locators, 99) // wrong declared uncompressed size
	locators = putU16(locators, uint16(len(compressed)))

	buf := append([]byte{}, locators...)
	buf = append(buf, block...)

	src := memAt{b: buf}
	hdr := RecordHeader{Size: recordSize, FileType: FileTypeStandard, RawFileSize: 1, NumBlocks: numBlocks}
	if _, err := DecodeStandard(src, -recordHeaderFixedSize, hdr); err == nil {
		t.Fatal("expected size mismatch error")
	}
}

// zeros appends n zero bytes.
func zeros(b []byte, n int) []byte {
	return append(b, make([]byte, n)...)
}

// buildModelFileInfo assembles the real on-disk ModelFileInfo layout
// (gamedata.cpp's struct, grouped sizes/compressed-sizes/offsets/
// block-indices/block-nums/trailing-scalars — not the per-LOD
// interleaving §4.7's prose summary might suggest), leaving every
// unused field (sizes, compressed sizes, block indices) zeroed since
// ParseModelRecordHeader skips them without reading.
func buildModelFileInfo(t *testing.T, version uint32, vertexDeclCount, materialNum uint16, numLods, streaming, edgeEnabled uint8,
	stackOffset, runtimeOffset uint32, vertexOffset, edgeOffset, indexOffset [3]uint32,
	stackBlockNum, runtimeBlockNum uint16, vertexBlockNum, edgeBlockNum, indexBlockNum [3]uint16) []byte {
	t.Helper()
	var b []byte
	b = putU32(b, version)
	b = zeros(b, 4+4+4*3+4*3+4*3) // sizes
	b = zeros(b, 4+4+4*3+4*3+4*3) // compressed sizes

	b = putU32(b, stackOffset)
	b = putU32(b, runtimeOffset)
	for i := 0; i < 3; i++ {
		b = putU32(b, vertexOffset[i])
	}
	for i := 0; i < 3; i++ {
		b = putU32(b, edgeOffset[i])
	}
	for i := 0; i < 3; i++ {
		b = putU32(b, indexOffset[i])
	}

	b = zeros(b, 2+2+2*3+2*3+2*3) // block indices

	b = putU16(b, stackBlockNum)
	b = putU16(b, runtimeBlockNum)
	for i := 0; i < 3; i++ {
		b = putU16(b, vertexBlockNum[i])
	}
	for i := 0; i < 3; i++ {
		b = putU16(b, edgeBlockNum[i])
	}
	for i := 0; i < 3; i++ {
		b = putU16(b, indexBlockNum[i])
	}

	b = putU16(b, vertexDeclCount)
	b = putU16(b, materialNum)
	b = append(b, numLods, streaming, edgeEnabled, 0)

	if len(b) != modelHeaderSize {
		t.Fatalf("fixture model header is %d bytes, want %d", len(b), modelHeaderSize)
	}
	return b
}

// TestDecodeModelSingleVertexBlock builds a minimal Model record with a
// single LOD-0 vertex block and everything else empty, checking the
// emitted body, the rewritten header's version and LOD-0 vertex
// offset, and the reserved prefix length.
func TestDecodeModelSingleVertexBlock(t *testing.T) {
	plain := []byte("abc")
	compressed := compressRaw(t, plain)
	block := blockBytes(uint32(len(compressed)), uint32(len(plain)), compressed)

	mhdr := buildModelFileInfo(t, 7, 5, 2, 1, 0, 1,
		0, 0,
		[3]uint32{0, 0, 0}, [3]uint32{0, 0, 0}, [3]uint32{0, 0, 0},
		0, 0,
		[3]uint16{1, 0, 0}, [3]uint16{0, 0, 0}, [3]uint16{0, 0, 0})

	sizeTable := putU16(nil, uint16(len(block)))

	recordSize := uint32(recordHeaderFixedSize + len(mhdr) + len(sizeTable))

	buf := append([]byte{}, mhdr...)
	buf = append(buf, sizeTable...)
	buf = append(buf, block...)

	src := memAt{b: buf}
	hdr := RecordHeader{Size: recordSize, FileType: FileTypeModel, RawFileSize: uint32(len(plain)), NumBlocks: 0}

	got, err := DecodeModel(src, -recordHeaderFixedSize, hdr)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) < modelOutputPrefixSize {
		t.Fatalf("output shorter than reserved prefix: %d bytes", len(got))
	}
	body := got[modelOutputPrefixSize:]
	if !bytes.Equal(body, plain) {
		t.Fatalf("got body %q, want %q", body, plain)
	}

	version := binary.LittleEndian.Uint32(got[0:4])
	if version != 7 {
		t.Fatalf("got version %d, want 7", version)
	}
	vertexOffset0 := binary.LittleEndian.Uint32(got[4+4+4+2+2:])
	if vertexOffset0 != modelOutputPrefixSize {
		t.Fatalf("got vertex offset %d, want %d", vertexOffset0, modelOutputPrefixSize)
	}
}
