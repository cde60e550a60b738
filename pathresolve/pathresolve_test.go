package pathresolve

import (
	"testing"

	"github.com/rpcpool/sqpack-go/category"
	"github.com/rpcpool/sqpack-go/repository"
)

func testRepos() repository.List {
	return repository.List{
		{Name: "ffxiv", Kind: repository.Base},
		{Name: "ex1", Kind: repository.Expansion, N: 1},
		{Name: "ex2", Kind: repository.Expansion, N: 2},
	}
}

func TestResolveCategoryDispatch(t *testing.T) {
	repo, cat, err := Resolve("chara/equipment/e0001/model/c0101e0001_met.mdl", testRepos())
	if err != nil {
		t.Fatal(err)
	}
	if repo.Name != "ffxiv" || cat != category.Chara {
		t.Fatalf("got (%v, %v), want (ffxiv, chara)", repo.Name, cat)
	}
}

func TestResolveExpansionDispatch(t *testing.T) {
	repo, cat, err := Resolve("bg/ex1/fld_f1f1/level/planevent.lgb", testRepos())
	if err != nil {
		t.Fatal(err)
	}
	if repo.Name != "ex1" || cat != category.Bg {
		t.Fatalf("got (%v, %v), want (ex1, bg)", repo.Name, cat)
	}
}

func TestResolveUnknownCategory(t *testing.T) {
	if _, _, err := Resolve("nope/foo.bar", testRepos()); err == nil {
		t.Fatal("expected UnknownCategory error")
	}
}

func TestResolveNonCanonicalRepoPrefixed(t *testing.T) {
	repo, cat, err := Resolve("ffxiv/exd/root.exl", testRepos())
	if err != nil {
		t.Fatal(err)
	}
	if repo.Name != "ffxiv" || cat != category.Exd {
		t.Fatalf("got (%v, %v), want (ffxiv, exd)", repo.Name, cat)
	}
}
