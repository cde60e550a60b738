package datafile

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/rpcpool/sqpack-go/cursor"
	"github.com/rpcpool/sqpack-go/deflate"
)

// storedThreshold is the compressed_len value at and above which a
// block's payload is stored uncompressed (§4.7 payload block rule).
const storedThreshold = 32000

// BlockLocator is one entry of a Standard record's block table: the
// byte offset (relative to the record's payload base) and declared
// sizes of one payload block.
type BlockLocator struct {
	Offset           int32
	UncompressedSize uint16
	CompressedSize   uint16
}

const blockLocatorSize = 8

// ParseBlockLocator reads one BlockLocator.
func ParseBlockLocator(r *cursor.Reader) (BlockLocator, error) {
	offset, err := r.I32(binary.LittleEndian)
	if err != nil {
		return BlockLocator{}, fmt.Errorf("datafile: reading block locator offset: %w", err)
	}
	uncompressed, err := r.U16(binary.LittleEndian)
	if err != nil {
		return BlockLocator{}, fmt.Errorf("datafile: reading block locator uncompressed size: %w", err)
	}
	compressed, err := r.U16(binary.LittleEndian)
	if err != nil {
		return BlockLocator{}, fmt.Errorf("datafile: reading block locator compressed size: %w", err)
	}
	return BlockLocator{Offset: offset, UncompressedSize: uncompressed, CompressedSize: compressed}, nil
}

// BlockHeader precedes every payload block's bytes.
type BlockHeader struct {
	Size            uint32
	CompressedLen   uint32
	DecompressedLen uint32
}

const blockHeaderSize = 16

// ParseBlockHeader reads a BlockHeader.
func ParseBlockHeader(r *cursor.Reader) (BlockHeader, error) {
	size, err := r.U32(binary.LittleEndian)
	if err != nil {
		return BlockHeader{}, fmt.Errorf("datafile: reading block header size: %w", err)
	}
	if _, err := r.U32(binary.LittleEndian); err != nil { // reserved
		return BlockHeader{}, fmt.Errorf("datafile: reading block header reserved field: %w", err)
	}
	compressedLen, err := r.U32(binary.LittleEndian)
	if err != nil {
		return BlockHeader{}, fmt.Errorf("datafile: reading compressed_len: %w", err)
	}
	decompressedLen, err := r.U32(binary.LittleEndian)
	if err != nil {
		return BlockHeader{}, fmt.Errorf("datafile: reading decompressed_len: %w", err)
	}
	return BlockHeader{Size: size, CompressedLen: compressedLen, DecompressedLen: decompressedLen}, nil
}

// decodeBlockAt reads and decodes one payload block starting at byte
// offset pos in src, returning the decompressed bytes and the total
// number of bytes the block occupied on disk (header + payload,
// un-padded).
func decodeBlockAt(src io.ReaderAt, pos int64) ([]byte, int64, error) {
	var hdrBuf [blockHeaderSize]byte
	if _, err := io.ReadFull(ioSectionAt(src, pos), hdrBuf[:]); err != nil {
		return nil, 0, fmt.Errorf("datafile: reading block header at %d: %w", pos, err)
	}
	hdr, err := ParseBlockHeader(cursor.NewReader(hdrBuf[:]))
	if err != nil {
		return nil, 0, err
	}

	payloadPos := pos + blockHeaderSize
	if hdr.CompressedLen >= storedThreshold {
		out := make([]byte, hdr.DecompressedLen)
		if _, err := io.ReadFull(ioSectionAt(src, payloadPos), out); err != nil {
			return nil, 0, fmt.Errorf("datafile: reading stored block at %d: %w", payloadPos, err)
		}
		return out, blockHeaderSize + int64(hdr.DecompressedLen), nil
	}

	compressed := make([]byte, hdr.CompressedLen)
	if _, err := io.ReadFull(ioSectionAt(src, payloadPos), compressed); err != nil {
		return nil, 0, fmt.Errorf("datafile: reading compressed block at %d: %w", payloadPos, err)
	}
	out, err := deflate.DecodeBlock(compressed, int(hdr.DecompressedLen))
	if err != nil {
		return nil, 0, fmt.Errorf("datafile: decoding block at %d: %w", payloadPos, err)
	}
	return out, blockHeaderSize + int64(hdr.CompressedLen), nil
}

// ioSectionAt adapts an io.ReaderAt positioned read into a plain
// io.Reader starting at pos, for use with io.ReadFull.
func ioSectionAt(src io.ReaderAt, pos int64) io.Reader {
	return io.NewSectionReader(src, pos, 1<<62)
}
