package excel

import (
	"strings"
	"testing"
)

func TestParseEXLSkipsHeaderAndBlankLines(t *testing.T) {
	data := "EXLT,2\r\nAction,0\nItem,1\r\n\nWeapon,2\n"
	sheets, err := ParseEXL(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	want := []Sheet{{"Action", 0}, {"Item", 1}, {"Weapon", 2}}
	if len(sheets) != len(want) {
		t.Fatalf("got %+v", sheets)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Fatalf("entry %d: got %+v, want %+v", i, sheets[i], want[i])
		}
	}
}

func TestParseEXLRejectsMalformedLine(t *testing.T) {
	data := "EXLT,2\nmalformed-no-comma\n"
	if _, err := ParseEXL(strings.NewReader(data)); err == nil {
		t.Fatal("expected malformed line error")
	}
}
