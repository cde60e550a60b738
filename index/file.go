package index

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/rpcpool/sqpack-go/cursor"
)

// Variant distinguishes the two on-disk index record shapes.
type Variant int

const (
	// VariantIndex carries the full 64-bit directory+filename hash.
	VariantIndex Variant = iota
	// VariantIndex2 carries only the 32-bit filename hash.
	VariantIndex2
)

const (
	index1EntrySize = 16 // hash(8) + data(4) + padding(4)
	index2EntrySize = 8  // hash(4) + data(4)
)

// File is a parsed .index or .index2 table: a sorted-by-hash entry
// list plus the count of hash collisions observed while sorting (see
// §9 — duplicate hashes keep their first occurrence; the count is
// exposed only for test/diagnostic instrumentation).
type File struct {
	Variant    Variant
	Entries    []Entry
	Duplicates int
}

// Parse reads a full .index or .index2 file already loaded into buf.
func Parse(buf []byte, variant Variant) (*File, error) {
	r := cursor.NewReader(buf)
	sqHdr, err := ParseSqPackHeader(r)
	if err != nil {
		return nil, err
	}
	if err := r.Seek(int64(sqHdr.Size), cursor.SeekSet); err != nil {
		return nil, fmt.Errorf("index: seeking to index header: %w", err)
	}
	idxHdr, err := ParseIndexHeader(r, uint32(len(buf)))
	if err != nil {
		return nil, err
	}

	if err := r.Seek(int64(idxHdr.IndexDataOffset), cursor.SeekSet); err != nil {
		return nil, fmt.Errorf("index: seeking to index data: %w", err)
	}

	entrySize := index1EntrySize
	if variant == VariantIndex2 {
		entrySize = index2EntrySize
	}
	count := int(idxHdr.IndexDataSize) / entrySize

	entries := make([]Entry, 0, count)
	for i := 0; i < count; i++ {
		var e Entry
		if variant == VariantIndex {
			hash, err := r.U64(binary.LittleEndian)
			if err != nil {
				return nil, fmt.Errorf("index: reading entry %d hash: %w", i, err)
			}
			data, err := r.U32(binary.LittleEndian)
			if err != nil {
				return nil, fmt.Errorf("index: reading entry %d data: %w", i, err)
			}
			if _, err := r.Bytes(4); err != nil { // reserved padding
				return nil, fmt.Errorf("index: reading entry %d padding: %w", i, err)
			}
			e.Hash = hash
			e.DataFileID, e.OffsetBlocks = unpackData(data)
		} else {
			hash, err := r.U32(binary.LittleEndian)
			if err != nil {
				return nil, fmt.Errorf("index2: reading entry %d hash: %w", i, err)
			}
			data, err := r.U32(binary.LittleEndian)
			if err != nil {
				return nil, fmt.Errorf("index2: reading entry %d data: %w", i, err)
			}
			e.Hash = uint64(hash)
			e.DataFileID, e.OffsetBlocks = unpackData(data)
		}
		entries = append(entries, e)
	}

	// Stable sort: when hashes collide, the first-seen entry in file
	// order must end up first within its run so dedupeFirst resolves
	// ties the way §9 requires ("the source takes the first match").
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Hash < entries[j].Hash })

	f := &File{Variant: variant, Entries: dedupeFirst(entries)}
	f.Duplicates = len(entries) - len(f.Entries)
	return f, nil
}

// dedupeFirst collapses runs of equal-hash entries down to their first
// occurrence (in original file order, preserved by the stable sort
// above), per the §9 rule that duplicate hashes are resolved by taking
// the first match.
func dedupeFirst(sorted []Entry) []Entry {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, e := range sorted[1:] {
		if e.Hash == out[len(out)-1].Hash {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Find performs a binary search for hash, returning the first-seen
// entry for that hash if present.
func (f *File) Find(hash uint64) (Entry, bool) {
	i := sort.Search(len(f.Entries), func(i int) bool { return f.Entries[i].Hash >= hash })
	if i < len(f.Entries) && f.Entries[i].Hash == hash {
		return f.Entries[i], true
	}
	return Entry{}, false
}

// List returns every entry in the file, in hash order.
func (f *File) List() []Entry {
	return f.Entries
}
