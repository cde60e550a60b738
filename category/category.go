// Package category holds the fixed SqPack category table (§3 Category
// ID).
package category

import "fmt"

// ID is a SqPack category identifier, 0..14.
type ID uint8

const (
	Common     ID = 0
	BgCommon   ID = 1
	Bg         ID = 2
	Cut        ID = 3
	Chara      ID = 4
	Shader     ID = 5
	UI         ID = 6
	Sound      ID = 7
	Vfx        ID = 8
	UIScript   ID = 9
	Exd        ID = 10
	GameScript ID = 11
	Music      ID = 12
	SqpackTest ID = 13
	Debug      ID = 14
)

var byName = map[string]ID{
	"common":      Common,
	"bgcommon":    BgCommon,
	"bg":          Bg,
	"cut":         Cut,
	"chara":       Chara,
	"shader":      Shader,
	"ui":          UI,
	"sound":       Sound,
	"vfx":         Vfx,
	"ui_script":   UIScript,
	"exd":         Exd,
	"game_script": GameScript,
	"music":       Music,
	"sqpack_test": SqpackTest,
	"debug":       Debug,
}

var names = func() map[ID]string {
	m := make(map[ID]string, len(byName))
	for name, id := range byName {
		m[id] = name
	}
	return m
}()

// ErrUnknownCategory marks a first path token that is not in the fixed
// category table.
type ErrUnknownCategory struct {
	Token string
}

func (e *ErrUnknownCategory) Error() string {
	return fmt.Sprintf("category: unknown category %q", e.Token)
}

// Lookup resolves a lowercase category token to its ID.
func Lookup(token string) (ID, error) {
	id, ok := byName[token]
	if !ok {
		return 0, &ErrUnknownCategory{Token: token}
	}
	return id, nil
}

// Name returns the canonical lowercase name for id, or "" if id is not
// one of the fixed fifteen categories.
func (id ID) Name() string {
	return names[id]
}

// Valid reports whether id is one of the fixed fifteen categories.
func (id ID) Valid() bool {
	_, ok := names[id]
	return ok
}
