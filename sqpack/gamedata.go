// Package sqpack assembles the repository, index, data-file, and
// Excel layers into a single read-only VFS facade (§4.8).
package sqpack

import (
	"fmt"
	"strings"

	"github.com/rpcpool/sqpack-go/datafile"
	"github.com/rpcpool/sqpack-go/excel"
	"github.com/rpcpool/sqpack-go/index"
	"github.com/rpcpool/sqpack-go/jamcrc"
	"github.com/rpcpool/sqpack-go/metrics"
	"github.com/rpcpool/sqpack-go/pathresolve"
	"github.com/rpcpool/sqpack-go/repository"
)

// GameData is the top-level read-only handle over a SqPack data
// directory: repository discovery plus lazily-opened index and data
// file stores (§5: the sole OS resources are index/data file
// descriptors, cached behind a GameData instance).
type GameData struct {
	dir   string
	repos repository.List

	index *index.Store
	data  *datafile.Store

	logger  Logger
	metrics *metrics.Metrics

	sheets []excel.Sheet
}

// New discovers repositories under dir, opens lazy index/data stores,
// and attempts to load exd/root.exl to populate the sheet directory.
// A missing root.exl is tolerated (sheet lookups simply fail later);
// any other bootstrap error is returned immediately.
func New(dir string, opts ...Option) (*GameData, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	repos, err := repository.Discover(dir)
	if err != nil {
		return nil, err
	}

	gd := &GameData{
		dir:     dir,
		repos:   repos,
		index:   index.NewStore(dir),
		data:    datafile.NewStore(dir),
		logger:  cfg.logger,
		metrics: cfg.metrics,
	}

	raw, err := gd.Read("exd/root.exl")
	if err != nil {
		return nil, fmt.Errorf("sqpack: loading root.exl: %w", err)
	}
	if raw != nil {
		sheets, err := excel.ParseEXL(strings.NewReader(string(raw)))
		if err != nil {
			return nil, fmt.Errorf("sqpack: parsing root.exl: %w", err)
		}
		gd.sheets = sheets
	} else {
		gd.logger.Infof("sqpack: no root.exl found under %q; sheet lookups will fail", dir)
	}

	return gd, nil
}

// Close releases every cached .datN file handle.
func (gd *GameData) Close() error {
	return gd.data.Close()
}

// Hash returns the 64-bit path hash used for .index lookups, exposed
// for tests and listing consumers (§4.8).
func (gd *GameData) Hash(path string) uint64 {
	return jamcrc.PathHash64(path)
}

// Exists reports whether path resolves to a known entry, per §4.8.
func (gd *GameData) Exists(path string) (bool, error) {
	repo, cat, err := pathresolve.Resolve(path, gd.repos)
	if err != nil {
		return false, err
	}
	_, ok, err := gd.index.Find(repo, cat, path)
	return ok, err
}

// Read resolves path, decodes its record, and returns the full
// payload. A result of (nil, nil) means the path was not found — per
// §7, NotFound is not an error (it is exposed as an absent result).
func (gd *GameData) Read(path string) ([]byte, error) {
	repo, cat, err := pathresolve.Resolve(path, gd.repos)
	if err != nil {
		gd.observeRead(cat.Name(), "error")
		return nil, err
	}

	entry, ok, err := gd.index.Find(repo, cat, path)
	if err != nil {
		gd.observeRead(cat.Name(), "error")
		return nil, err
	}
	if !ok {
		gd.observeRead(cat.Name(), "not_found")
		return nil, nil
	}

	out, err := gd.data.ReadRecord(repo, cat, entry)
	if err != nil {
		gd.observeRead(cat.Name(), "error")
		return nil, err
	}
	gd.observeRead(cat.Name(), "ok")
	gd.observeDecompressedBytes(len(out))
	return out, nil
}

// Stat resolves path and returns its record header without decoding
// payload blocks, alongside the index entry and owning repository/
// category — enough for inspection tooling to report size and file
// type cheaply. The bool result is false when path is not found.
func (gd *GameData) Stat(path string) (datafile.RecordHeader, index.Entry, bool, error) {
	repo, cat, err := pathresolve.Resolve(path, gd.repos)
	if err != nil {
		return datafile.RecordHeader{}, index.Entry{}, false, err
	}
	entry, ok, err := gd.index.Find(repo, cat, path)
	if err != nil || !ok {
		return datafile.RecordHeader{}, index.Entry{}, false, err
	}
	hdr, err := gd.data.StatRecord(repo, cat, entry)
	if err != nil {
		return datafile.RecordHeader{}, index.Entry{}, false, err
	}
	return hdr, entry, true, nil
}

// Repositories returns the discovered repository list, for tooling
// that wants to enumerate (repository, category) pairs (e.g. an
// index-warming command).
func (gd *GameData) Repositories() repository.List {
	return gd.repos
}

// List returns every entry known for folder's owning (repository,
// category). Entries are hash-addressed, as SqPack itself is: an
// index entry does not carry its original path back, so recovering a
// human-readable name from a listed entry is outside this facade's
// contract (§4.6).
func (gd *GameData) List(folder string) ([]index.Entry, error) {
	repo, cat, err := pathresolve.Resolve(folder, gd.repos)
	if err != nil {
		return nil, err
	}
	return gd.index.List(repo, cat)
}

// ReadSheet looks up name in the sheet directory (case-insensitively)
// and reads/parses its EXH schema (§4.8, §4.9). The sheet directory
// must have been populated from root.exl at New time, or ErrUnknownSheet
// is returned.
func (gd *GameData) ReadSheet(name string) (*excel.EXH, error) {
	if !gd.hasSheet(name) {
		gd.observeSheetLoad(name, "unknown")
		return nil, &ErrUnknownSheet{Name: name}
	}

	path := fmt.Sprintf("exd/%s.exh", strings.ToLower(name))
	raw, err := gd.Read(path)
	if err != nil {
		gd.observeSheetLoad(name, "error")
		return nil, err
	}
	if raw == nil {
		gd.observeSheetLoad(name, "not_found")
		return nil, &ErrUnknownSheet{Name: name}
	}

	exh, err := excel.ParseEXH(raw)
	if err != nil {
		gd.observeSheetLoad(name, "error")
		return nil, err
	}
	gd.observeSheetLoad(name, "ok")
	return exh, nil
}

// ReadPage reads and decodes one page of sheetName's row data, given
// its EXH schema and pagination entry. This goes beyond the minimal
// read_sheet contract in §4.8 but is necessary to actually decode row
// data end to end (§4.11).
func (gd *GameData) ReadPage(sheetName string, exh *excel.EXH, page excel.Page, lang string) ([]excel.Row, error) {
	filename := excel.PageFilename(strings.ToLower(sheetName), page.StartID, lang)
	path := "exd/" + filename
	raw, err := gd.Read(path)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, &ErrUnknownSheet{Name: sheetName}
	}
	return excel.ParseEXD(raw, exh)
}

func (gd *GameData) hasSheet(name string) bool {
	for _, s := range gd.sheets {
		if strings.EqualFold(s.Name, name) {
			return true
		}
	}
	return false
}

// ErrUnknownSheet marks a sheet name absent from the sheet directory
// loaded from root.exl, or whose page file could not be found.
type ErrUnknownSheet struct {
	Name string
}

func (e *ErrUnknownSheet) Error() string {
	return fmt.Sprintf("sqpack: unknown sheet %q", e.Name)
}
