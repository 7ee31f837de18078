package fsutil

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFileSystemReadWrite(t *testing.T) {
	fs := NewMemoryFileSystem()

	require.NoError(t, fs.WriteFile("dir/file.csv", []byte("a,b\n1,2\n"), 0o644))

	data, err := fs.ReadFile("dir/file.csv")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))

	assert.True(t, fs.Exists("dir/file.csv"))
	assert.False(t, fs.Exists("dir/other.csv"))
}

func TestMemoryFileSystemOpen(t *testing.T) {
	fs := NewMemoryFileSystem()
	require.NoError(t, fs.WriteFile("f.txt", []byte("hello"), 0o644))

	f, err := fs.Open("f.txt")
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, err = fs.Open("missing.txt")
	assert.Error(t, err)
}

func TestMemoryFileSystemCreate(t *testing.T) {
	fs := NewMemoryFileSystem()

	w, err := fs.Create("out/report.png")
	require.NoError(t, err)

	_, err = w.Write([]byte("part1"))
	require.NoError(t, err)
	_, err = w.Write([]byte("part2"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := fs.ReadFile("out/report.png")
	require.NoError(t, err)
	assert.Equal(t, "part1part2", string(data))
}

func TestMemoryFileSystemStat(t *testing.T) {
	fs := NewMemoryFileSystem()
	require.NoError(t, fs.WriteFile("f.txt", []byte("12345"), 0o600))

	info, err := fs.Stat("f.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())
	assert.False(t, info.IsDir())

	require.NoError(t, fs.MkdirAll("a/b/c", 0o755))
	info, err = fs.Stat("a/b")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
