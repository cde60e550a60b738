// Package pathresolve implements §4.5: mapping a logical SqPack path
// to the repository and category it lives in.
package pathresolve

import (
	"fmt"
	"strings"

	"github.com/rpcpool/sqpack-go/category"
	"github.com/rpcpool/sqpack-go/repository"
)

// ErrMalformedPath marks a path with fewer than two tokens, or a
// repository-prefixed path with fewer than three.
type ErrMalformedPath struct {
	Path string
}

func (e *ErrMalformedPath) Error() string {
	return fmt.Sprintf("pathresolve: malformed path %q", e.Path)
}

// Resolve returns the repository and category ID that own path, per
// the rules in §4.5:
//
//  1. tokens[0] is the category, unless it happens to name a known
//     repository (tolerated but non-canonical), in which case the
//     category is tokens[1].
//  2. Otherwise, if tokens[1] names a known expansion repository, that
//     repository owns the path and the category stays tokens[0].
//  3. Otherwise the path lives in the base repository.
func Resolve(path string, repos repository.List) (repository.Repository, category.ID, error) {
	tokens := strings.Split(path, "/")
	if len(tokens) < 2 {
		return repository.Repository{}, 0, &ErrMalformedPath{Path: path}
	}

	if repo, ok := repos.ByName(tokens[0]); ok {
		if len(tokens) < 3 {
			return repository.Repository{}, 0, &ErrMalformedPath{Path: path}
		}
		id, err := category.Lookup(tokens[1])
		if err != nil {
			return repository.Repository{}, 0, err
		}
		return repo, id, nil
	}

	id, err := category.Lookup(tokens[0])
	if err != nil {
		return repository.Repository{}, 0, err
	}

	if repo, ok := repos.ByName(tokens[1]); ok && repo.Kind == repository.Expansion {
		return repo, id, nil
	}

	base, err := repos.Base()
	if err != nil {
		return repository.Repository{}, 0, err
	}
	return base, id, nil
}
