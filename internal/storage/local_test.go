package storage

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name, contentType, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, name))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["files"][0]
}

func TestLocalStoreSave(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, 0)

	fh := fileHeader(t, "spec.pdf", "application/pdf", "%PDF-1.4 content")
	f, err := store.Save(fh, "APP123456")
	require.NoError(t, err)

	require.Equal(t, "APP123456", f.ApplicationID)
	require.Equal(t, "spec.pdf", f.OriginalName)
	require.Equal(t, "application/pdf", f.FileType)
	require.EqualValues(t, len("%PDF-1.4 content"), f.FileSize)
	require.Regexp(t, `^APP123456_.+\.pdf$`, f.FileName)
	require.Equal(t, "/uploads/"+f.FileName, f.FilePath)

	data, err := os.ReadFile(filepath.Join(dir, f.FileName))
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.4 content", string(data))
}

func TestLocalStoreContentTypeParams(t *testing.T) {
	store := NewLocalStore(t.TempDir(), 0)

	fh := fileHeader(t, "photo.png", "image/png; charset=binary", "pngdata")
	f, err := store.Save(fh, "APP123456")
	require.NoError(t, err)
	require.Equal(t, "image/png", f.FileType)
}

func TestLocalStoreRejectsEmpty(t *testing.T) {
	store := NewLocalStore(t.TempDir(), 0)

	fh := fileHeader(t, "empty.pdf", "application/pdf", "")
	_, err := store.Save(fh, "APP123456")
	require.ErrorIs(t, err, ErrEmptyFile)
}

func TestLocalStoreRejectsOversize(t *testing.T) {
	store := NewLocalStore(t.TempDir(), 8)

	fh := fileHeader(t, "big.pdf", "application/pdf", "more than eight bytes")
	_, err := store.Save(fh, "APP123456")
	require.ErrorIs(t, err, ErrSizeExceeded)
}

func TestLocalStoreRejectsType(t *testing.T) {
	store := NewLocalStore(t.TempDir(), 0)

	fh := fileHeader(t, "notes.txt", "text/plain", "hello")
	_, err := store.Save(fh, "APP123456")
	require.ErrorIs(t, err, ErrTypeNotAllowed)
}

func TestLocalStoreDelete(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, 0)

	fh := fileHeader(t, "spec.pdf", "application/pdf", "%PDF-1.4")
	f, err := store.Save(fh, "APP123456")
	require.NoError(t, err)

	require.NoError(t, store.Delete(f.FilePath))
	_, err = os.Stat(filepath.Join(dir, f.FileName))
	require.True(t, os.IsNotExist(err))

	// A second delete of the same path is not an error.
	require.NoError(t, store.Delete(f.FilePath))
}
