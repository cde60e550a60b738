package index

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rpcpool/sqpack-go/category"
	"github.com/rpcpool/sqpack-go/jamcrc"
	"github.com/rpcpool/sqpack-go/repository"
)

// chunk is always 0 for every current category; kept as a named
// constant so the filename format stays self-documenting.
const chunk = 0x00

// FileName returns the .index or .index2 filename for a
// (repository, category), e.g. "040000.win32.index" for the base
// repository's chara category.
func FileName(repo repository.Repository, cat category.ID, variant Variant) string {
	ext := "index"
	if variant == VariantIndex2 {
		ext = "index2"
	}
	return fmt.Sprintf("%02x%02x%02x.win32.%s", uint8(cat), repo.ExpansionByte(), chunk, ext)
}

// cacheKey identifies one (repository, category) pair's pair of index
// handles.
type cacheKey struct {
	repo string
	cat  category.ID
}

// Store lazily opens and caches parsed .index/.index2 tables keyed by
// (repository, category), mirroring the teacher's lazy-open,
// path-keyed primary-storage pattern (store/store.go's OpenStore).
// It is safe for concurrent use.
type Store struct {
	dataDir string

	mu    sync.RWMutex
	index map[cacheKey]*File // .index, may be nil if absent
	idx2  map[cacheKey]*File // .index2, may be nil if absent
}

// NewStore returns a Store rooted at dataDir (the directory containing
// the repository subdirectories).
func NewStore(dataDir string) *Store {
	return &Store{
		dataDir: dataDir,
		index:   make(map[cacheKey]*File),
		idx2:    make(map[cacheKey]*File),
	}
}

func (s *Store) load(repo repository.Repository, cat category.ID, variant Variant) (*File, error) {
	key := cacheKey{repo: repo.Name, cat: cat}
	cache := s.index
	if variant == VariantIndex2 {
		cache = s.idx2
	}

	s.mu.RLock()
	if f, ok := cache[key]; ok {
		s.mu.RUnlock()
		return f, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := cache[key]; ok { // re-check under write lock
		return f, nil
	}

	path := filepath.Join(s.dataDir, repo.Name, FileName(repo, cat, variant))
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cache[key] = nil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("index: reading %q: %w", path, err)
	}
	f, err := Parse(raw, variant)
	if err != nil {
		return nil, fmt.Errorf("index: parsing %q: %w", path, err)
	}
	cache[key] = f
	return f, nil
}

// Find looks up path's entry for (repo, cat), trying the full 64-bit
// hash against .index first and falling back to the 32-bit
// filename-only hash against .index2, per §4.6.
func (s *Store) Find(repo repository.Repository, cat category.ID, path string) (Entry, bool, error) {
	if f, err := s.load(repo, cat, VariantIndex); err != nil {
		return Entry{}, false, err
	} else if f != nil {
		if e, ok := f.Find(jamcrc.PathHash64(path)); ok {
			return e, true, nil
		}
	}

	f, err := s.load(repo, cat, VariantIndex2)
	if err != nil {
		return Entry{}, false, err
	}
	if f == nil {
		return Entry{}, false, nil
	}
	e, ok := f.Find(uint64(jamcrc.FilenameHash32(path)))
	return e, ok, nil
}

// List returns every entry known for (repo, cat) via .index, falling
// back to .index2 if .index is absent.
func (s *Store) List(repo repository.Repository, cat category.ID) ([]Entry, error) {
	f, err := s.load(repo, cat, VariantIndex)
	if err != nil {
		return nil, err
	}
	if f != nil {
		return f.List(), nil
	}
	f, err = s.load(repo, cat, VariantIndex2)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, nil
	}
	return f.List(), nil
}
