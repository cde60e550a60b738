package datafile

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rpcpool/sqpack-go/category"
	"github.com/rpcpool/sqpack-go/cursor"
	"github.com/rpcpool/sqpack-go/index"
	"github.com/rpcpool/sqpack-go/repository"
)

// FileName returns the .datN filename for a (repository, category,
// fileID), e.g. "040000.win32.dat0" for the base repository's chara
// category, file 0.
func FileName(repo repository.Repository, cat category.ID, fileID uint8) string {
	return fmt.Sprintf("%02x%02x%02x.win32.dat%d", uint8(cat), repo.ExpansionByte(), 0x00, fileID)
}

type cacheKey struct {
	repo   string
	cat    category.ID
	fileID uint8
}

// Store lazily opens and caches *os.File handles for .datN files keyed
// by (repository, category, fileID), mirroring index.Store's lazy-open
// pattern (itself grounded on the teacher's OpenStore). It is safe for
// concurrent use; handles are never closed until the Store is.
type Store struct {
	dataDir string

	mu      sync.RWMutex
	handles map[cacheKey]*os.File
}

// NewStore returns a Store rooted at dataDir.
func NewStore(dataDir string) *Store {
	return &Store{
		dataDir: dataDir,
		handles: make(map[cacheKey]*os.File),
	}
}

func (s *Store) handle(repo repository.Repository, cat category.ID, fileID uint8) (*os.File, error) {
	key := cacheKey{repo: repo.Name, cat: cat, fileID: fileID}

	s.mu.RLock()
	if f, ok := s.handles[key]; ok {
		s.mu.RUnlock()
		return f, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.handles[key]; ok {
		return f, nil
	}

	path := filepath.Join(s.dataDir, repo.Name, FileName(repo, cat, fileID))
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("datafile: opening %q: %w", path, err)
	}
	s.handles[key] = f
	return f, nil
}

// Close releases every handle the Store has opened.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for k, f := range s.handles {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.handles, k)
	}
	return firstErr
}

// StatRecord reads and returns just the fixed RecordHeader entry
// points to, without decoding its payload blocks. Used by inspection
// tooling that wants to report size/type without paying for
// decompression.
func (s *Store) StatRecord(repo repository.Repository, cat category.ID, entry index.Entry) (RecordHeader, error) {
	f, err := s.handle(repo, cat, entry.DataFileID)
	if err != nil {
		return RecordHeader{}, err
	}

	recordBase := entry.ByteOffset()
	var hdrBuf [recordHeaderFixedSize]byte
	if _, err := f.ReadAt(hdrBuf[:], recordBase); err != nil {
		return RecordHeader{}, fmt.Errorf("datafile: reading record header at %d: %w", recordBase, err)
	}
	return ParseRecordHeader(cursor.NewReader(hdrBuf[:]))
}

// ReadRecord reads and decodes the record entry points to, dispatching
// on its declared file_type. Texture and Empty records are rejected
// with ErrUnsupportedFileType; Standard and Model are fully reassembled.
func (s *Store) ReadRecord(repo repository.Repository, cat category.ID, entry index.Entry) ([]byte, error) {
	f, err := s.handle(repo, cat, entry.DataFileID)
	if err != nil {
		return nil, err
	}

	recordBase := entry.ByteOffset()
	var hdrBuf [recordHeaderFixedSize]byte
	if _, err := f.ReadAt(hdrBuf[:], recordBase); err != nil {
		return nil, fmt.Errorf("datafile: reading record header at %d: %w", recordBase, err)
	}
	hdr, err := ParseRecordHeader(cursor.NewReader(hdrBuf[:]))
	if err != nil {
		return nil, err
	}

	switch hdr.FileType {
	case FileTypeStandard:
		return DecodeStandard(f, recordBase, hdr)
	case FileTypeModel:
		return DecodeModel(f, recordBase, hdr)
	default:
		return nil, &ErrUnsupportedFileType{Type: hdr.FileType}
	}
}
