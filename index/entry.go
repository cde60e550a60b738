package index

// Entry is the unified index record shape that both .index (64-bit
// hash) and .index2 (32-bit, filename-only hash) records decode into.
type Entry struct {
	Hash         uint64
	DataFileID   uint8
	OffsetBlocks uint32
}

// blockSize is the SqPack block-alignment unit: the byte offset into a
// data file is always offset_blocks * blockSize.
const blockSize = 0x80

// ByteOffset returns the absolute byte offset of this entry's record
// within its data file.
func (e Entry) ByteOffset() int64 {
	return int64(e.OffsetBlocks) * blockSize
}

// unpackData splits the packed "data" word shared by both index
// variants: the low byte holds data_file_id<<1, the remaining bits
// hold offset_blocks.
func unpackData(data uint32) (dataFileID uint8, offsetBlocks uint32) {
	dataFileID = uint8((data & 0xFF) >> 1)
	offsetBlocks = data >> 8
	return
}

// PackData builds the packed "data" word for a given data-file ID and
// block offset; exported so tests and index-building tools can
// construct fixtures without reimplementing the bit layout.
func PackData(dataFileID uint8, offsetBlocks uint32) uint32 {
	return uint32(dataFileID<<1) | offsetBlocks<<8
}
