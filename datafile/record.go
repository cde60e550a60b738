// Package datafile decodes SqPack .datN records: the fixed
// RecordHeader, the Standard and Model payload assemblers, and the
// lazily-opened per-(repository, category, fileID) handle cache (§4.7).
package datafile

import (
	"encoding/binary"
	"fmt"

	"github.com/rpcpool/sqpack-go/cursor"
)

// FileType is the record's payload kind, as declared by RecordHeader.
type FileType uint32

const (
	FileTypeEmpty    FileType = 1
	FileTypeStandard FileType = 2
	FileTypeModel    FileType = 3
	FileTypeTexture  FileType = 4
)

func (t FileType) String() string {
	switch t {
	case FileTypeEmpty:
		return "Empty"
	case FileTypeStandard:
		return "Standard"
	case FileTypeModel:
		return "Model"
	case FileTypeTexture:
		return "Texture"
	default:
		return fmt.Sprintf("FileType(%d)", uint32(t))
	}
}

// ErrUnsupportedFileType marks a record whose file_type this module
// does not decode (Texture, Empty, or anything unrecognized).
type ErrUnsupportedFileType struct {
	Type FileType
}

func (e *ErrUnsupportedFileType) Error() string {
	return fmt.Sprintf("datafile: unsupported file type %s", e.Type)
}

// RecordHeader is the fixed header at the start of every data-file
// record.
type RecordHeader struct {
	Size        uint32
	FileType    FileType
	RawFileSize uint32
	NumBlocks   uint32
}

// recordHeaderFixedSize is the portion of RecordHeader read directly;
// Size itself tells us where the payload actually begins, since some
// record kinds carry extra fields between NumBlocks and the payload.
const recordHeaderFixedSize = 20

// ParseRecordHeader reads a RecordHeader from r, which must be
// positioned at the record's start (entry.ByteOffset()).
func ParseRecordHeader(r *cursor.Reader) (RecordHeader, error) {
	size, err := r.U32(binary.LittleEndian)
	if err != nil {
		return RecordHeader{}, fmt.Errorf("datafile: reading record size: %w", err)
	}
	fileType, err := r.U32(binary.LittleEndian)
	if err != nil {
		return RecordHeader{}, fmt.Errorf("datafile: reading file type: %w", err)
	}
	rawSize, err := r.U32(binary.LittleEndian)
	if err != nil {
		return RecordHeader{}, fmt.Errorf("datafile: reading raw file size: %w", err)
	}
	if _, err := r.U32(binary.LittleEndian); err != nil { // reserved
		return RecordHeader{}, fmt.Errorf("datafile: reading reserved field: %w", err)
	}
	numBlocks, err := r.U32(binary.LittleEndian)
	if err != nil {
		return RecordHeader{}, fmt.Errorf("datafile: reading num blocks: %w", err)
	}
	return RecordHeader{
		Size:        size,
		FileType:    FileType(fileType),
		RawFileSize: rawSize,
		NumBlocks:   numBlocks,
	}, nil
}
