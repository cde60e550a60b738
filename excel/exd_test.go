package excel

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func putU32BE(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}

func putU16BE(buf *bytes.Buffer, v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	buf.Write(tmp[:])
}

func putI32BE(buf *bytes.Buffer, v int32) {
	putU32BE(buf, uint32(v))
}

// TestParseEXDDecodesStringIntAndPackedBool builds the exact fixture
// from the EXH/EXD round-trip scenario: one row, columns
// {String, Int32, PackedBoolBit(2)}, decoding to ["Ada", -42, true].
func TestParseEXDDecodesStringIntAndPackedBool(t *testing.T) {
	exh := &EXH{
		DataOffset: 12,
		RowCount:   1,
		Columns: []ColumnDef{
			{Type: ColumnString, Offset: 0},
			{Type: ColumnInt32, Offset: 4},
			{Type: ColumnPackedBool0 + 2, Offset: 8},
		},
	}

	var buf bytes.Buffer
	buf.WriteString(exdMagic)
	putU16BE(&buf, 1) // version
	putU16BE(&buf, 0) // unknown1
	putU32BE(&buf, 8) // index_size: one {row_id,byte_offset} entry
	for i := 0; i < 10; i++ {
		putU16BE(&buf, 0) // unknown2[10]
	}

	const rowByteOffset = 40
	putU32BE(&buf, 0)             // row_id
	putU32BE(&buf, rowByteOffset) // byte_offset
	if buf.Len() != rowByteOffset {
		t.Fatalf("fixture offset table ends at %d, want %d", buf.Len(), rowByteOffset)
	}

	putU32BE(&buf, 18) // data_size (unused by the decoder)
	putU16BE(&buf, 1)  // row_count (single row, not a subrow page)

	// Row data: string offset 0, int32 -42, packed-bool bit 2 set.
	putU32BE(&buf, 0)
	putI32BE(&buf, -42)
	putU32BE(&buf, 0b00000100)

	// String area at row_base + data_offset(12) + string_offset(0).
	buf.WriteString("Ada\x00")

	rows, err := ParseEXD(buf.Bytes(), exh)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]
	if len(row.Cells) != 3 {
		t.Fatalf("got %d cells, want 3", len(row.Cells))
	}
	if row.Cells[0].Kind != KindString || row.Cells[0].Str != "Ada" {
		t.Fatalf("cell 0: got %+v", row.Cells[0])
	}
	if row.Cells[1].Kind != KindInt || row.Cells[1].Int != -42 {
		t.Fatalf("cell 1: got %+v", row.Cells[1])
	}
	if row.Cells[2].Kind != KindBool || row.Cells[2].Bool != true {
		t.Fatalf("cell 2: got %+v", row.Cells[2])
	}
}

// TestParseEXDSubrowsUseStrideFormula builds a 2-subrow page and checks
// each subrow's fixed column is read from the documented stride
// base + i*(data_offset+2) + 2 (§4.11, §9).
func TestParseEXDSubrowsUseStrideFormula(t *testing.T) {
	exh := &EXH{
		DataOffset: 4,
		RowCount:   1,
		Columns: []ColumnDef{
			{Type: ColumnInt32, Offset: 0},
		},
	}

	var buf bytes.Buffer
	buf.WriteString(exdMagic)
	putU16BE(&buf, 1)
	putU16BE(&buf, 0)
	putU32BE(&buf, 8)
	for i := 0; i < 10; i++ {
		putU16BE(&buf, 0)
	}
	const rowByteOffset = 40
	putU32BE(&buf, 0)
	putU32BE(&buf, rowByteOffset)

	putU32BE(&buf, 99) // data_size
	putU16BE(&buf, 2)  // row_count: two subrows

	// headerOffset (base) is buf.Len() here; subrow 0 lives at
	// base + 0*(4+2) + 2 = base + 2, subrow 1 at base + 1*(4+2) + 2 = base + 8.
	full := make([]byte, 2+6+6)
	binary.BigEndian.PutUint32(full[2:], 111)
	binary.BigEndian.PutUint32(full[8:], 222)
	buf.Write(full)

	rows, err := ParseEXD(buf.Bytes(), exh)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Cells[0].Int != 111 {
		t.Fatalf("subrow 0: got %+v", rows[0].Cells[0])
	}
	if rows[1].Cells[0].Int != 222 {
		t.Fatalf("subrow 1: got %+v", rows[1].Cells[0])
	}
}
