package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rpcpool/sqpack-go/category"
	"github.com/rpcpool/sqpack-go/jamcrc"
	"github.com/rpcpool/sqpack-go/repository"
)

func TestStoreFindFallsBackToIndex2(t *testing.T) {
	dir := t.TempDir()
	repo := repository.Repository{Name: "ffxiv", Kind: repository.Base}
	repoDir := filepath.Join(dir, repo.Name)
	if err := os.Mkdir(repoDir, 0o755); err != nil {
		t.Fatal(err)
	}

	path := "exd/root.exl"
	filenameHash := jamcrc.FilenameHash32(path)

	// Only write .index2; .index is absent entirely.
	idx2 := buildIndexFile(packIndex2Entry(filenameHash, 0, 3))
	if err := os.WriteFile(filepath.Join(repoDir, FileName(repo, category.Exd, VariantIndex2)), idx2, 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(dir)
	e, ok, err := s.Find(repo, category.Exd, path)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected to find entry via .index2 fallback")
	}
	if e.OffsetBlocks != 3 {
		t.Fatalf("got %+v", e)
	}
}

func TestStoreFindMissingIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	repo := repository.Repository{Name: "ffxiv", Kind: repository.Base}
	if err := os.Mkdir(filepath.Join(dir, repo.Name), 0o755); err != nil {
		t.Fatal(err)
	}
	s := NewStore(dir)
	_, ok, err := s.Find(repo, category.Exd, "exd/root.exl")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected miss when no index files exist")
	}
}

func TestFileNameFormat(t *testing.T) {
	base := repository.Repository{Name: "ffxiv", Kind: repository.Base}
	ex1 := repository.Repository{Name: "ex1", Kind: repository.Expansion, N: 1}

	if got, want := FileName(base, category.Exd, VariantIndex), "0a0000.win32.index"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got, want := FileName(ex1, category.Bg, VariantIndex), "020100.win32.index"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
