package index

import (
	"bytes"
	"encoding/binary"
)

// buildSqPackHeader returns a minimal, valid 1024-byte SqPackHeader
// block followed immediately by a caller-supplied index header region
// at offset 1024.
func buildSqPackHeader() []byte {
	buf := make([]byte, sqPackHeaderSize)
	copy(buf[0:8], Magic)
	// platformId + 3 bytes padding already zero
	binary.LittleEndian.PutUint32(buf[12:16], sqPackHeaderSize) // Size
	binary.LittleEndian.PutUint32(buf[16:20], SupportedVersion)
	return buf
}

// buildIndexFile assembles a full .index or .index2 file from raw
// pre-packed entry bytes.
func buildIndexFile(entryBytes []byte) []byte {
	var buf bytes.Buffer
	buf.Write(buildSqPackHeader())

	idxHdr := make([]byte, 16)
	dataOffset := uint32(sqPackHeaderSize + 16)
	binary.LittleEndian.PutUint32(idxHdr[0:4], 16) // header size field (unused)
	binary.LittleEndian.PutUint32(idxHdr[4:8], 1)  // header version field (unused)
	binary.LittleEndian.PutUint32(idxHdr[8:12], dataOffset)
	binary.LittleEndian.PutUint32(idxHdr[12:16], uint32(len(entryBytes)))
	buf.Write(idxHdr)
	buf.Write(entryBytes)
	return buf.Bytes()
}

func packIndex1Entry(hash uint64, dataFileID uint8, offsetBlocks uint32) []byte {
	b := make([]byte, index1EntrySize)
	binary.LittleEndian.PutUint64(b[0:8], hash)
	binary.LittleEndian.PutUint32(b[8:12], PackData(dataFileID, offsetBlocks))
	return b
}

func packIndex2Entry(hash32 uint32, dataFileID uint8, offsetBlocks uint32) []byte {
	b := make([]byte, index2EntrySize)
	binary.LittleEndian.PutUint32(b[0:4], hash32)
	binary.LittleEndian.PutUint32(b[4:8], PackData(dataFileID, offsetBlocks))
	return b
}
