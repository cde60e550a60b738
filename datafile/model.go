package datafile

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/rpcpool/sqpack-go/cursor"
)

// modelSection describes one of a Model record's block ranges: how
// many blocks it contains and the byte offset (relative to the payload
// base) its first block begins at.
type modelSection struct {
	BlockCount uint16
	Offset     uint32
}

// ModelRecordHeader is the Model-specific header following
// RecordHeader: section tables for stack, runtime, and per-LOD
// vertex/edge-geometry/index blocks, plus the fields needed to
// reconstruct the little-endian header downstream model decoders
// expect (§4.7 Model).
type ModelRecordHeader struct {
	Version                     uint32
	VertexDeclCount             uint16
	MaterialCount               uint16
	NumLODs                     uint8
	IndexBufferStreamingEnabled uint8
	EdgeGeometryEnabled         uint8

	// TotalBlocks is the sum of every section's block count. The real
	// on-disk header has no such field; it is derived here once all
	// sections are known, to size the compressed-block-size table.
	TotalBlocks uint16

	Stack   modelSection
	Runtime modelSection
	LODs    [3]struct {
		Vertex modelSection
		Edge   modelSection
		Index  modelSection
	}
}

// ParseModelRecordHeader reads a ModelRecordHeader. r must be
// positioned immediately after RecordHeader's fixed fields (i.e. at
// the "version" field of the real on-disk ModelFileInfo struct).
//
// The real layout (grounded on the canonical gamedata.cpp's
// ModelFileInfo, not the distilled spec's prose grouping) packs all
// *Size fields first, then all compressed *Size fields, then all
// *Offset fields, then all *BlockIndex groups, then all *BlockNum
// groups, and only then the trailing scalars —
// it does not interleave vertex/edge/index per LOD the way §4.7's
// prose summary suggests. Uncompressed and compressed size fields and
// the block-index fields are never consulted by DecodeModel (sizes
// are recomputed from the decoded bytes, and the block-size table
// alone is enough to walk the stream), so they are skipped with Seek
// rather than read into named fields.
func ParseModelRecordHeader(r *cursor.Reader) (ModelRecordHeader, error) {
	var h ModelRecordHeader
	var err error
	read32 := func() uint32 {
		if err != nil {
			return 0
		}
		var v uint32
		v, err = r.U32(binary.LittleEndian)
		return v
	}
	read16 := func() uint16 {
		if err != nil {
			return 0
		}
		var v uint16
		v, err = r.U16(binary.LittleEndian)
		return v
	}
	read8 := func() uint8 {
		if err != nil {
			return 0
		}
		var v uint8
		v, err = r.U8()
		return v
	}
	skip := func(n int64) {
		if err != nil {
			return
		}
		err = r.Seek(n, cursor.SeekCurrent)
	}

	h.Version = read32()

	// stackSize, runtimeSize, vertexBufferSize[3],
	// edgeGeometryVertexBufferSize[3], indexBufferSize[3] — recomputed
	// from decoded bytes instead.
	skip(4 + 4 + 4*3 + 4*3 + 4*3)
	// compressedStackMemorySize, compressedRuntimeMemorySize,
	// compressedVertexBufferSize[3], compressedEdgeGeometrySize[3],
	// compressedIndexBufferSize[3] — unused; the per-block size table
	// read separately is what DecodeModel actually walks with.
	skip(4 + 4 + 4*3 + 4*3 + 4*3)

	stackOffset := read32()
	runtimeOffset := read32()
	var vertexOffset, edgeOffset, indexOffset [3]uint32
	for i := range vertexOffset {
		vertexOffset[i] = read32()
	}
	for i := range edgeOffset {
		edgeOffset[i] = read32()
	}
	for i := range indexOffset {
		indexOffset[i] = read32()
	}

	// stackBlockIndex, runtimeBlockIndex, vertexBufferBlockIndex[3],
	// edgeGeometryVertexBufferBlockIndex[3], indexBufferBlockIndex[3]
	// — the block-size table plus sequential reads make these
	// redundant for reassembly.
	skip(2 + 2 + 2*3 + 2*3 + 2*3)

	stackBlockNum := read16()
	runtimeBlockNum := read16()
	var vertexBlockNum, edgeBlockNum, indexBlockNum [3]uint16
	for i := range vertexBlockNum {
		vertexBlockNum[i] = read16()
	}
	for i := range edgeBlockNum {
		edgeBlockNum[i] = read16()
	}
	for i := range indexBlockNum {
		indexBlockNum[i] = read16()
	}

	h.VertexDeclCount = read16()
	h.MaterialCount = read16()
	h.NumLODs = read8()
	h.IndexBufferStreamingEnabled = read8()
	h.EdgeGeometryEnabled = read8()
	read8() // padding
	if err != nil {
		return ModelRecordHeader{}, fmt.Errorf("datafile: reading model record header: %w", err)
	}

	h.Stack = modelSection{Offset: stackOffset, BlockCount: stackBlockNum}
	h.Runtime = modelSection{Offset: runtimeOffset, BlockCount: runtimeBlockNum}
	for i := range h.LODs {
		h.LODs[i].Vertex = modelSection{Offset: vertexOffset[i], BlockCount: vertexBlockNum[i]}
		h.LODs[i].Edge = modelSection{Offset: edgeOffset[i], BlockCount: edgeBlockNum[i]}
		h.LODs[i].Index = modelSection{Offset: indexOffset[i], BlockCount: indexBlockNum[i]}
		h.TotalBlocks += vertexBlockNum[i] + edgeBlockNum[i] + indexBlockNum[i]
	}
	h.TotalBlocks += stackBlockNum + runtimeBlockNum

	return h, nil
}

// modelHeaderSize is the fixed byte length ParseModelRecordHeader
// consumes (the real ModelFileInfo struct, minus the 20-byte common
// RecordHeader already read by the caller), used to locate the
// block-size table that follows it.
const modelHeaderSize = 4 /* version */ +
	(4 + 4 + 4*3 + 4*3 + 4*3) + // sizes
	(4 + 4 + 4*3 + 4*3 + 4*3) + // compressed sizes
	(4 + 4 + 4*3 + 4*3 + 4*3) + // offsets
	(2 + 2 + 2*3 + 2*3 + 2*3) + // block indices
	(2 + 2 + 2*3 + 2*3 + 2*3) + // block nums
	2 + 2 + 1 + 1 + 1 + 1 // vertexDeclCount, materialNum, numLods, flags, pad

// modelOutputPrefixSize is the reserved header prefix every emitted
// Model buffer begins with (§4.7: "A fixed 0x44-byte reserved prefix").
const modelOutputPrefixSize = 0x44

// DecodeModel assembles a Model-type record into the reordered layout
// downstream model decoders require: a reserved 0x44-byte prefix
// (written last, reserved first), then stack, runtime, and per-LOD
// vertex/index sections (edge geometry blocks are consumed from the
// source but never emitted).
func DecodeModel(src io.ReaderAt, recordBase int64, hdr RecordHeader) ([]byte, error) {
	mhdrBuf := make([]byte, modelHeaderSize)
	if _, err := io.ReadFull(ioSectionAt(src, recordBase+recordHeaderFixedSize), mhdrBuf); err != nil {
		return nil, fmt.Errorf("datafile: reading model record header: %w", err)
	}
	mhdr, err := ParseModelRecordHeader(cursor.NewReader(mhdrBuf))
	if err != nil {
		return nil, err
	}

	sizeTableBuf := make([]byte, int(mhdr.TotalBlocks)*2)
	if _, err := io.ReadFull(ioSectionAt(src, recordBase+recordHeaderFixedSize+modelHeaderSize), sizeTableBuf); err != nil {
		return nil, fmt.Errorf("datafile: reading model block size table: %w", err)
	}
	sizeTable := make([]uint16, mhdr.TotalBlocks)
	for i := range sizeTable {
		sizeTable[i] = binary.LittleEndian.Uint16(sizeTableBuf[i*2 : i*2+2])
	}

	payloadBase := recordBase + int64(hdr.Size)
	globalBlockIdx := 0

	readSection := func(sec modelSection) ([]byte, error) {
		pos := payloadBase + int64(sec.Offset)
		out := make([]byte, 0, 4096)
		for i := uint16(0); i < sec.BlockCount; i++ {
			decoded, _, err := decodeBlockAt(src, pos)
			if err != nil {
				return nil, err
			}
			out = append(out, decoded...)
			if globalBlockIdx >= len(sizeTable) {
				return nil, fmt.Errorf("datafile: model block size table exhausted at block %d", globalBlockIdx)
			}
			pos += int64(sizeTable[globalBlockIdx])
			globalBlockIdx++
		}
		return out, nil
	}

	stack, err := readSection(mhdr.Stack)
	if err != nil {
		return nil, fmt.Errorf("datafile: stack section: %w", err)
	}
	runtime, err := readSection(mhdr.Runtime)
	if err != nil {
		return nil, fmt.Errorf("datafile: runtime section: %w", err)
	}

	var vertex, index [3][]byte
	for i := 0; i < 3; i++ {
		v, err := readSection(mhdr.LODs[i].Vertex)
		if err != nil {
			return nil, fmt.Errorf("datafile: lod %d vertex section: %w", i, err)
		}
		vertex[i] = v
		// Edge-geometry blocks are consumed (to keep globalBlockIdx and
		// the source cursor aligned) but their bytes are never emitted.
		if _, err := readSection(mhdr.LODs[i].Edge); err != nil {
			return nil, fmt.Errorf("datafile: lod %d edge geometry section: %w", i, err)
		}
		ix, err := readSection(mhdr.LODs[i].Index)
		if err != nil {
			return nil, fmt.Errorf("datafile: lod %d index section: %w", i, err)
		}
		index[i] = ix
	}

	return assembleModelOutput(mhdr, stack, runtime, vertex, index), nil
}

// assembleModelOutput lays out the final buffer: reserved prefix,
// stack, runtime, then per-LOD vertex/index data, followed by a
// rewrite of the reserved prefix with the real header values. The
// prefix is zero-filled directly in the output buffer rather than
// written back through the source handle, fixing the known bug
// described in §9.
func assembleModelOutput(mhdr ModelRecordHeader, stack, runtime []byte, vertex, index [3][]byte) []byte {
	out := make([]byte, modelOutputPrefixSize)
	out = append(out, stack...)
	out = append(out, runtime...)

	var vertexOffsets, indexOffsets [3]uint32
	var vertexSizes, indexSizes [3]uint32

	prevVertexOffset := uint32(0)
	prevIndexOffset := uint32(0)
	for i := 0; i < 3; i++ {
		if len(vertex[i]) == 0 {
			vertexOffsets[i] = 0
		} else {
			vertexOffsets[i] = uint32(len(out))
			out = append(out, vertex[i]...)
		}
		vertexSizes[i] = uint32(len(vertex[i]))
		if vertexOffsets[i] == prevVertexOffset && i > 0 {
			vertexOffsets[i] = 0
		}
		prevVertexOffset = vertexOffsets[i]

		if len(index[i]) == 0 {
			indexOffsets[i] = 0
		} else {
			indexOffsets[i] = uint32(len(out))
			out = append(out, index[i]...)
		}
		indexSizes[i] = uint32(len(index[i]))
		if indexOffsets[i] == prevIndexOffset && i > 0 {
			indexOffsets[i] = 0
		}
		prevIndexOffset = indexOffsets[i]
	}

	header := make([]byte, modelOutputPrefixSize)
	w := 0
	putU32 := func(v uint32) {
		binary.LittleEndian.PutUint32(header[w:w+4], v)
		w += 4
	}
	putU16 := func(v uint16) {
		binary.LittleEndian.PutUint16(header[w:w+2], v)
		w += 2
	}
	putU8 := func(v uint8) {
		header[w] = v
		w++
	}

	putU32(mhdr.Version)
	putU32(uint32(len(stack)))
	putU32(uint32(len(runtime)))
	putU16(mhdr.VertexDeclCount)
	putU16(mhdr.MaterialCount)
	for i := 0; i < 3; i++ {
		putU32(vertexOffsets[i])
	}
	for i := 0; i < 3; i++ {
		putU32(indexOffsets[i])
	}
	for i := 0; i < 3; i++ {
		putU32(vertexSizes[i])
	}
	for i := 0; i < 3; i++ {
		putU32(indexSizes[i])
	}
	putU8(mhdr.NumLODs)
	putU8(mhdr.IndexBufferStreamingEnabled)
	putU8(mhdr.EdgeGeometryEnabled)
	putU8(0) // pad

	copy(out[:modelOutputPrefixSize], header)
	return out
}
