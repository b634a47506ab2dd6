package archive

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/chatkeeper/internal/common"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, contents map[string]string) []string {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for name, body := range contents {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		paths = append(paths, p)
	}
	return paths
}

func TestZipUnzip_RoundTrip(t *testing.T) {
	ctx := context.Background()
	contents := map[string]string{
		"messages.json": `{"id":"m1"}` + "\n",
		"likes.json":    "",
		"export.json":   `{"userId":"u1"}`,
	}
	files := writeFiles(t, contents)

	zipPath := filepath.Join(t.TempDir(), "backup.zip")
	got, err := Zip(ctx, zipPath, files)
	require.NoError(t, err)
	assert.Equal(t, zipPath, got)

	dest := filepath.Join(t.TempDir(), "out")
	extracted, err := Unzip(ctx, zipPath, dest)
	require.NoError(t, err)
	require.Len(t, extracted, len(contents))

	for _, p := range extracted {
		want, ok := contents[filepath.Base(p)]
		require.True(t, ok, "unexpected entry %s", p)
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Equal(t, want, string(data))
		assert.Equal(t, dest, filepath.Dir(p))
	}
}

func TestZip_MissingInputRemovesArchive(t *testing.T) {
	files := writeFiles(t, map[string]string{"a.json": "a"})
	files = append(files, filepath.Join(t.TempDir(), "missing.json"))

	zipPath := filepath.Join(t.TempDir(), "backup.zip")
	_, err := Zip(context.Background(), zipPath, files)
	require.ErrorIs(t, err, os.ErrNotExist)

	_, statErr := os.Stat(zipPath)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestZip_RejectsDuplicateNames(t *testing.T) {
	a := writeFiles(t, map[string]string{"same.json": "a"})
	b := writeFiles(t, map[string]string{"same.json": "b"})

	_, err := Zip(context.Background(), filepath.Join(t.TempDir(), "x.zip"), append(a, b...))
	require.Error(t, err)
}

func TestUnzip_CorruptArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.zip")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a zip"), 0o600))

	_, err := Unzip(context.Background(), path, t.TempDir())
	require.ErrorIs(t, err, common.ErrZipCorrupt)
}

func TestUnzip_MissingArchive(t *testing.T) {
	_, err := Unzip(context.Background(), filepath.Join(t.TempDir(), "none.zip"), t.TempDir())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestUnzip_RejectsPathTraversal(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("../evil.json")
	require.NoError(t, err)
	_, err = w.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "evil.zip")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	dest := filepath.Join(t.TempDir(), "out")
	_, err = Unzip(context.Background(), path, dest)
	require.ErrorIs(t, err, common.ErrZipCorrupt)

	_, statErr := os.Stat(filepath.Join(filepath.Dir(dest), "evil.json"))
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestUnzip_RejectsOversizedEntry(t *testing.T) {
	prev := MaxEntrySize
	MaxEntrySize = 8
	t.Cleanup(func() { MaxEntrySize = prev })

	files := writeFiles(t, map[string]string{
		"small.json": "12345678",
		"big.json":   "123456789",
	})
	zipPath, err := Zip(context.Background(), filepath.Join(t.TempDir(), "b.zip"), files)
	require.NoError(t, err)

	dest := t.TempDir()
	_, err = Unzip(context.Background(), zipPath, dest)
	require.ErrorIs(t, err, common.ErrZipCorrupt)
	assert.Contains(t, err.Error(), "big.json")

	_, statErr := os.Stat(filepath.Join(dest, "big.json"))
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}
