package memory

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type u32Codec struct{}

func (u32Codec) Size() int { return 4 }
func (u32Codec) Encode(v uint32, dst []byte) { binary.LittleEndian.PutUint32(dst, v) }
func (u32Codec) Decode(src []byte) uint32 { return binary.LittleEndian.Uint32(src) }

func TestRAMVecPushGet(t *testing.T) {
	v := NewRAM[uint32](4)
	for i := uint32(0); i < 4; i++ {
		require.NoError(t, v.Push(i*10))
	}
	assert.Equal(t, 4, v.Len())
	got, err := v.Get(2)
	require.NoError(t, err)
	assert.Equal(t, uint32(20), got)

	assert.ErrorIs(t, v.Push(99), ErrCapacityExceeded)
}

func TestRAMVecPopAndFreeze(t *testing.T) {
	v := NewRAM[uint32](4)
	require.NoError(t, v.Push(1))
	require.NoError(t, v.Push(2))

	last, ok, err := v.Pop()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint32(2), last)

	require.NoError(t, v.Freeze())
	assert.ErrorIs(t, v.Push(3), ErrReadOnly)
}

func TestRAMVecOutOfRange(t *testing.T) {
	v := NewRAM[uint32](2)
	_, err := v.Get(0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestDiskVecGrowthAndPersistence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vec.bin")

	v, err := NewDisk[uint32](path, u32Codec{}, 1, 0)
	require.NoError(t, err)
	for i := uint32(0); i < 200; i++ {
		require.NoError(t, v.Push(i))
	}
	assert.Equal(t, 200, v.Len())
	got, err := v.Get(150)
	require.NoError(t, err)
	assert.Equal(t, uint32(150), got)

	require.NoError(t, v.Freeze())
	assert.ErrorIs(t, v.Push(1), ErrReadOnly)

	v2, err := LoadDisk[uint32](path, u32Codec{}, 0, true)
	require.NoError(t, err)
	assert.Equal(t, 200, v2.Len())
	got2, err := v2.Get(199)
	require.NoError(t, err)
	assert.Equal(t, uint32(199), got2)
}

func TestDiskVecAlreadyExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vec.bin")
	require.NoError(t, os.WriteFile(path, []byte{}, 0o644))

	_, err := NewDisk[uint32](path, u32Codec{}, 1, 0)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}
