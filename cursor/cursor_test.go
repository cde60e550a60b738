package cursor

import (
	"bufio"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypedReadsAdvanceCursor(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x00, 0x00, 0x00, 0x05}
	r := NewReader(buf)

	b, err := r.U8()
	require.NoError(t, err)
	require.EqualValues(t, 0x01, b)

	u32, err := r.U32(binary.BigEndian)
	require.NoError(t, err)
	require.EqualValues(t, 0x02030400, u32)

	require.EqualValues(t, 5, r.Pos())
}

func TestTruncatedRead(t *testing.T) {
	r := NewReader([]byte{0x01})
	_, err := r.U32(binary.BigEndian)
	require.Error(t, err)
}

func TestSeekEndInterpretedAsSizeMinusPos(t *testing.T) {
	r := NewReader(make([]byte, 16))
	require.NoError(t, r.Seek(4, SeekEnd))
	require.EqualValues(t, 12, r.Pos())
}

func TestFixedStringTrimsAtNUL(t *testing.T) {
	r := NewReader([]byte("SqPack\x00\x00"))
	s, err := r.FixedString(8)
	require.NoError(t, err)
	require.Equal(t, "SqPack", s)
}

func TestLineReaderSupportsAnyLineEnding(t *testing.T) {
	r := NewReader([]byte("EXLT,2\r\nAction,0\nItem,1\r\n"))
	sc := bufio.NewScanner(r.LineReader())
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.Equal(t, []string{"EXLT,2", "Action,0", "Item,1"}, lines)
}
