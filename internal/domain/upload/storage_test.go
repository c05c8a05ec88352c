package upload

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0}

// makeFileHeader builds a real *multipart.FileHeader the way gin would see it.
func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	_, header, err := req.FormFile("image")
	require.NoError(t, err)
	return header
}

func jpegContent(size int) []byte {
	return append(append([]byte{}, jpegHeader...), make([]byte, size)...)
}

func TestFileStoreSave_ValidJPEG(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(dir)

	header := makeFileHeader(t, "worms.jpg", jpegContent(512))
	stored, err := fs.Save(header)
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", stored.MimeType)
	assert.Equal(t, header.Size, stored.Size)
	assert.True(t, strings.HasSuffix(stored.Name, ".jpg"))
	assert.NotContains(t, stored.Name, "worms", "stored name must not depend on the client filename")

	_, err = os.Stat(stored.Path)
	require.NoError(t, err, "file must exist on disk")
	assert.Equal(t, filepath.Join(dir, stored.Name), stored.Path)
}

func TestFileStoreSave_UniqueNames(t *testing.T) {
	fs := NewFileStore(t.TempDir())

	a, err := fs.Save(makeFileHeader(t, "same.jpg", jpegContent(64)))
	require.NoError(t, err)
	b, err := fs.Save(makeFileHeader(t, "same.jpg", jpegContent(64)))
	require.NoError(t, err)

	assert.NotEqual(t, a.Name, b.Name)
}

func TestFileStoreSave_RejectsNonImage(t *testing.T) {
	fs := NewFileStore(t.TempDir())

	header := makeFileHeader(t, "notes.txt", []byte("definitely not an image"))
	_, err := fs.Save(header)
	assert.ErrorIs(t, err, ErrNotImage)

	entries, readErr := os.ReadDir(fs.baseDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "no file may be persisted for a rejected upload")
}

func TestFileStoreSave_RejectsOversized(t *testing.T) {
	fs := NewFileStore(t.TempDir())

	header := makeFileHeader(t, "big.jpg", jpegContent(MaxFileSize+1))
	_, err := fs.Save(header)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestFileStoreSave_RejectsEmpty(t *testing.T) {
	fs := NewFileStore(t.TempDir())

	header := makeFileHeader(t, "empty.jpg", nil)
	_, err := fs.Save(header)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestFileStoreSave_NilHeader(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	_, err := fs.Save(nil)
	assert.ErrorIs(t, err, ErrNoFile)
}

func TestStoredFileRemove(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	stored, err := fs.Save(makeFileHeader(t, "gone.jpg", jpegContent(32)))
	require.NoError(t, err)

	require.NoError(t, stored.Remove())
	_, err = os.Stat(stored.Path)
	assert.True(t, os.IsNotExist(err))
}
