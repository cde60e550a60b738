package index

import (
	"encoding/binary"
	"fmt"

	"github.com/rpcpool/sqpack-go/cursor"
)

// Magic is the fixed ASCII signature every SqPack file (.index,
// .index2, .datN) begins with, null-padded to the header's magic
// field width.
const Magic = "SqPack"

// SupportedVersion is the only SqPackHeader version this module
// understands.
const SupportedVersion = 1

// ErrBadMagic marks a header whose magic field didn't match "SqPack".
type ErrBadMagic struct {
	Got string
}

func (e *ErrBadMagic) Error() string {
	return fmt.Sprintf("index: bad magic %q, want %q", e.Got, Magic)
}

// ErrUnsupportedVersion marks a SqPackHeader whose version isn't 1.
type ErrUnsupportedVersion struct {
	Got uint32
}

func (e *ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("index: unsupported SqPack version %d, want %d", e.Got, SupportedVersion)
}

// ErrHeaderOutOfBounds marks an indexDataOffset that does not lie
// within the file.
type ErrHeaderOutOfBounds struct {
	Offset, FileSize uint32
}

func (e *ErrHeaderOutOfBounds) Error() string {
	return fmt.Sprintf("index: indexDataOffset %d lies outside file of size %d", e.Offset, e.FileSize)
}

// sqPackHeaderSize is the on-disk size of SqPackHeader, including its
// reserved padding. It is fixed regardless of the Size field's value,
// matching the real format's 1024-byte-aligned leading header block.
const sqPackHeaderSize = 1024

// SqPackHeader is the common header every SqPack container begins
// with.
type SqPackHeader struct {
	Magic   string
	Version uint32
	// Size is the byte offset at which the subsequent header block
	// (SqPackIndexHeader, for index files) begins.
	Size uint32
}

// ParseSqPackHeader reads a SqPackHeader from the start of r, validates
// the magic and version, and leaves the cursor at the end of the fixed
// 1024-byte header block.
func ParseSqPackHeader(r *cursor.Reader) (SqPackHeader, error) {
	if err := r.Seek(0, cursor.SeekSet); err != nil {
		return SqPackHeader{}, err
	}
	magic, err := r.FixedString(8)
	if err != nil {
		return SqPackHeader{}, fmt.Errorf("index: reading magic: %w", err)
	}
	if magic != Magic {
		return SqPackHeader{}, &ErrBadMagic{Got: magic}
	}
	// platformId + 3 bytes padding
	if _, err := r.Bytes(4); err != nil {
		return SqPackHeader{}, err
	}
	size, err := r.U32(binary.LittleEndian)
	if err != nil {
		return SqPackHeader{}, fmt.Errorf("index: reading header size: %w", err)
	}
	version, err := r.U32(binary.LittleEndian)
	if err != nil {
		return SqPackHeader{}, fmt.Errorf("index: reading version: %w", err)
	}
	if version != SupportedVersion {
		return SqPackHeader{}, &ErrUnsupportedVersion{Got: version}
	}
	if err := r.Seek(sqPackHeaderSize, cursor.SeekSet); err != nil {
		return SqPackHeader{}, fmt.Errorf("index: seeking past header: %w", err)
	}
	return SqPackHeader{Magic: magic, Version: version, Size: size}, nil
}

// IndexHeader follows the SqPackHeader in .index and .index2 files.
type IndexHeader struct {
	IndexDataOffset uint32
	IndexDataSize   uint32
}

// ParseIndexHeader reads the SqPackIndexHeader that follows the
// SqPackHeader block; fileSize is needed to validate indexDataOffset.
// The cursor must already be positioned at the start of this header
// (ParseSqPackHeader leaves it there).
func ParseIndexHeader(r *cursor.Reader, fileSize uint32) (IndexHeader, error) {
	// size of this header block, unused beyond skipping to its fields
	if _, err := r.U32(binary.LittleEndian); err != nil {
		return IndexHeader{}, fmt.Errorf("index: reading index header size: %w", err)
	}
	if _, err := r.U32(binary.LittleEndian); err != nil {
		return IndexHeader{}, fmt.Errorf("index: reading index header version: %w", err)
	}
	dataOffset, err := r.U32(binary.LittleEndian)
	if err != nil {
		return IndexHeader{}, fmt.Errorf("index: reading indexDataOffset: %w", err)
	}
	dataSize, err := r.U32(binary.LittleEndian)
	if err != nil {
		return IndexHeader{}, fmt.Errorf("index: reading indexDataSize: %w", err)
	}
	if dataOffset >= fileSize {
		return IndexHeader{}, &ErrHeaderOutOfBounds{Offset: dataOffset, FileSize: fileSize}
	}
	return IndexHeader{IndexDataOffset: dataOffset, IndexDataSize: dataSize}, nil
}
