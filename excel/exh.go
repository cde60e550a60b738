package excel

import (
	"encoding/binary"
	"fmt"

	"github.com/rpcpool/sqpack-go/cursor"
)

// ErrBadMagic marks an EXH/EXD header whose magic field did not match
// the expected signature.
type ErrBadMagic struct {
	Want, Got string
}

func (e *ErrBadMagic) Error() string {
	return fmt.Sprintf("excel: bad magic: want %q, got %q", e.Want, e.Got)
}

// exhMagic is the 4-byte signature every EXH file begins with.
const exhMagic = "EXHF"

// Page is one entry of an EXH's pagination table: the row ID a page
// file starts at and how many rows it holds.
type Page struct {
	StartID  uint32
	RowCount uint32
}

// EXH is a decoded sheet schema (§3, §4.9).
type EXH struct {
	DataOffset uint16
	RowCount   uint32
	Columns    []ColumnDef
	Pages      []Page
	Languages  []uint16
}

// ParseEXH reads a complete EXH buffer: the fixed header, then
// column_count column definitions, page_count pagination entries, and
// language_count language codes, all big-endian.
func ParseEXH(buf []byte) (*EXH, error) {
	r := cursor.NewReader(buf)

	magic, err := r.FixedString(4)
	if err != nil {
		return nil, fmt.Errorf("excel: reading EXH magic: %w", err)
	}
	if magic != exhMagic {
		return nil, &ErrBadMagic{Want: exhMagic, Got: magic}
	}

	if _, err := r.U16(binary.BigEndian); err != nil { // version
		return nil, fmt.Errorf("excel: reading EXH version: %w", err)
	}
	dataOffset, err := r.U16(binary.BigEndian)
	if err != nil {
		return nil, fmt.Errorf("excel: reading data_offset: %w", err)
	}
	columnCount, err := r.U16(binary.BigEndian)
	if err != nil {
		return nil, fmt.Errorf("excel: reading column_count: %w", err)
	}
	pageCount, err := r.U16(binary.BigEndian)
	if err != nil {
		return nil, fmt.Errorf("excel: reading page_count: %w", err)
	}
	languageCount, err := r.U16(binary.BigEndian)
	if err != nil {
		return nil, fmt.Errorf("excel: reading language_count: %w", err)
	}
	if _, err := r.U16(binary.BigEndian); err != nil { // unknown1
		return nil, fmt.Errorf("excel: reading EXH reserved field: %w", err)
	}
	if _, err := r.U8(); err != nil { // u2
		return nil, fmt.Errorf("excel: reading EXH reserved field: %w", err)
	}
	if _, err := r.U8(); err != nil { // variant
		return nil, fmt.Errorf("excel: reading EXH reserved field: %w", err)
	}
	if _, err := r.U16(binary.BigEndian); err != nil { // u3
		return nil, fmt.Errorf("excel: reading EXH reserved field: %w", err)
	}
	rowCount, err := r.U32(binary.BigEndian)
	if err != nil {
		return nil, fmt.Errorf("excel: reading row_count: %w", err)
	}
	for i := 0; i < 2; i++ { // u4[2]
		if _, err := r.U32(binary.BigEndian); err != nil {
			return nil, fmt.Errorf("excel: reading EXH reserved field: %w", err)
		}
	}

	columns := make([]ColumnDef, columnCount)
	for i := range columns {
		typ, err := r.U16(binary.BigEndian)
		if err != nil {
			return nil, fmt.Errorf("excel: reading column %d type: %w", i, err)
		}
		offset, err := r.U16(binary.BigEndian)
		if err != nil {
			return nil, fmt.Errorf("excel: reading column %d offset: %w", i, err)
		}
		columns[i] = ColumnDef{Type: ColumnType(typ), Offset: offset}
	}

	pages := make([]Page, pageCount)
	for i := range pages {
		startID, err := r.U32(binary.BigEndian)
		if err != nil {
			return nil, fmt.Errorf("excel: reading page %d start_id: %w", i, err)
		}
		rc, err := r.U32(binary.BigEndian)
		if err != nil {
			return nil, fmt.Errorf("excel: reading page %d row_count: %w", i, err)
		}
		pages[i] = Page{StartID: startID, RowCount: rc}
	}

	languages := make([]uint16, languageCount)
	for i := range languages {
		lang, err := r.U16(binary.BigEndian)
		if err != nil {
			return nil, fmt.Errorf("excel: reading language %d: %w", i, err)
		}
		languages[i] = lang
	}

	return &EXH{
		DataOffset: dataOffset,
		RowCount:   rowCount,
		Columns:    columns,
		Pages:      pages,
		Languages:  languages,
	}, nil
}

// PageFilename returns the page file name for sheet name's page
// starting at startID, qualified by lang when non-empty (§4.11).
func PageFilename(name string, startID uint32, lang string) string {
	if lang == "" {
		return fmt.Sprintf("%s_%d.exd", name, startID)
	}
	return fmt.Sprintf("%s_%d_%s.exd", name, startID, lang)
}
