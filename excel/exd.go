package excel

import (
	"encoding/binary"
	"fmt"

	"github.com/rpcpool/sqpack-go/cursor"
)

const exdMagic = "EXDF"

// Row is one decoded data row: its row ID and exactly
// len(exh.Columns) cells, in column order.
type Row struct {
	ID    uint32
	Cells []Column
}

// ParseEXD decodes one page file's rows against exh's column schema
// (§4.11). Rows absent from the page's offset table are skipped
// rather than treated as an error — a page only ever covers the slice
// of row IDs its pagination entry claims.
func ParseEXD(buf []byte, exh *EXH) ([]Row, error) {
	r := cursor.NewReader(buf)

	magic, err := r.FixedString(4)
	if err != nil {
		return nil, fmt.Errorf("excel: reading EXD magic: %w", err)
	}
	if magic != exdMagic {
		return nil, &ErrBadMagic{Want: exdMagic, Got: magic}
	}
	if _, err := r.U16(binary.BigEndian); err != nil { // version
		return nil, fmt.Errorf("excel: reading EXD version: %w", err)
	}
	if _, err := r.U16(binary.BigEndian); err != nil { // unknown1
		return nil, fmt.Errorf("excel: reading EXD reserved field: %w", err)
	}
	indexSize, err := r.U32(binary.BigEndian)
	if err != nil {
		return nil, fmt.Errorf("excel: reading index_size: %w", err)
	}
	for i := 0; i < 10; i++ { // unknown2[10]
		if _, err := r.U16(binary.BigEndian); err != nil {
			return nil, fmt.Errorf("excel: reading EXD reserved field: %w", err)
		}
	}

	offsetByRow := make(map[uint32]uint32, indexSize/8)
	for i := uint32(0); i < indexSize/8; i++ {
		rowID, err := r.U32(binary.BigEndian)
		if err != nil {
			return nil, fmt.Errorf("excel: reading offset entry %d row_id: %w", i, err)
		}
		offset, err := r.U32(binary.BigEndian)
		if err != nil {
			return nil, fmt.Errorf("excel: reading offset entry %d byte_offset: %w", i, err)
		}
		offsetByRow[rowID] = offset
	}

	var rows []Row
	for rowID := uint32(0); rowID < exh.RowCount; rowID++ {
		off, ok := offsetByRow[rowID]
		if !ok {
			continue
		}

		rh := cursor.NewReader(buf)
		if err := rh.Seek(int64(off), cursor.SeekSet); err != nil {
			return nil, fmt.Errorf("excel: seeking to row %d: %w", rowID, err)
		}
		if _, err := rh.U32(binary.BigEndian); err != nil { // data_size
			return nil, fmt.Errorf("excel: reading row %d data_size: %w", rowID, err)
		}
		rowCount, err := rh.U16(binary.BigEndian)
		if err != nil {
			return nil, fmt.Errorf("excel: reading row %d row_count: %w", rowID, err)
		}

		base := int64(off) + 6

		decodeAt := func(rowBase int64) (Row, error) {
			cells := make([]Column, len(exh.Columns))
			for i, col := range exh.Columns {
				c, err := decodeColumn(buf, rowBase, col, exh.DataOffset)
				if err != nil {
					return Row{}, fmt.Errorf("excel: row %d column %d: %w", rowID, i, err)
				}
				cells[i] = c
			}
			return Row{ID: rowID, Cells: cells}, nil
		}

		if rowCount > 1 {
			for i := uint16(0); i < rowCount; i++ {
				subrowOffset := base + int64(i)*(int64(exh.DataOffset)+2) + 2
				row, err := decodeAt(subrowOffset)
				if err != nil {
					return nil, err
				}
				rows = append(rows, row)
			}
		} else {
			row, err := decodeAt(base)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
	}

	return rows, nil
}

// decodeColumn decodes one cell at row_base + column.offset, per the
// dispatch table in §4.12.
func decodeColumn(buf []byte, rowBase int64, col ColumnDef, dataOffset uint16) (Column, error) {
	r := cursor.NewReader(buf)
	if err := r.Seek(rowBase+int64(col.Offset), cursor.SeekSet); err != nil {
		return Column{}, fmt.Errorf("seeking to column offset: %w", err)
	}

	switch {
	case col.Type == ColumnString:
		strOffset, err := r.U32(binary.BigEndian)
		if err != nil {
			return Column{}, fmt.Errorf("reading string offset: %w", err)
		}
		s, err := readCString(buf, rowBase+int64(dataOffset)+int64(strOffset))
		if err != nil {
			return Column{}, err
		}
		return Column{Kind: KindString, Str: s}, nil

	case col.Type == ColumnBool:
		v, err := r.U8()
		if err != nil {
			return Column{}, err
		}
		return Column{Kind: KindBool, Bool: v != 0}, nil

	case col.Type == ColumnInt8:
		v, err := r.I8()
		return Column{Kind: KindInt, Int: int64(v)}, err
	case col.Type == ColumnUInt8:
		v, err := r.U8()
		return Column{Kind: KindUInt, UInt: uint64(v)}, err
	case col.Type == ColumnInt16:
		v, err := r.I16(binary.BigEndian)
		return Column{Kind: KindInt, Int: int64(v)}, err
	case col.Type == ColumnUInt16:
		v, err := r.U16(binary.BigEndian)
		return Column{Kind: KindUInt, UInt: uint64(v)}, err
	case col.Type == ColumnInt32:
		v, err := r.I32(binary.BigEndian)
		return Column{Kind: KindInt, Int: int64(v)}, err
	case col.Type == ColumnUInt32:
		v, err := r.U32(binary.BigEndian)
		return Column{Kind: KindUInt, UInt: uint64(v)}, err
	case col.Type == ColumnInt64:
		v, err := r.I64(binary.BigEndian)
		return Column{Kind: KindInt, Int: v}, err
	case col.Type == ColumnUInt64:
		v, err := r.U64(binary.BigEndian)
		return Column{Kind: KindUInt, UInt: v}, err
	case col.Type == ColumnFloat32:
		v, err := r.F32(binary.BigEndian)
		return Column{Kind: KindFloat, Float: v}, err

	case col.Type.IsPackedBool():
		v, err := r.U32(binary.BigEndian)
		if err != nil {
			return Column{}, err
		}
		bit := uint32(1) << col.Type.PackedBoolBit()
		return Column{Kind: KindBool, Bool: v&bit != 0}, nil

	default:
		return Column{}, fmt.Errorf("unsupported column type %#x", uint16(col.Type))
	}
}

// readCString reads bytes from buf starting at pos up to (not
// including) the first NUL or end of buffer.
func readCString(buf []byte, pos int64) (string, error) {
	if pos < 0 || pos > int64(len(buf)) {
		return "", fmt.Errorf("string area offset %d out of bounds", pos)
	}
	end := pos
	for end < int64(len(buf)) && buf[end] != 0 {
		end++
	}
	return string(buf[pos:end]), nil
}
