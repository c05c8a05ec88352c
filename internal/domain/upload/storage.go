package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxFileSize    = 10 * 1024 * 1024 // 10 MiB
	UploadsBaseDir = "./uploads"
)

// StoredFile is the durable copy of an accepted image. Its Remove method is
// the unit of cleanup when a downstream step fails.
type StoredFile struct {
	Name     string
	Path     string
	Size     int64
	MimeType string
}

func (f *StoredFile) Remove() error {
	return os.Remove(f.Path)
}

// FileStore validates incoming multipart images and writes them to disk
// under a collision-resistant name.
type FileStore struct {
	baseDir string
}

func NewFileStore(baseDir string) *FileStore {
	if baseDir == "" {
		baseDir = UploadsBaseDir
	}
	return &FileStore{baseDir: baseDir}
}

// Save validates the file (image MIME sniffed from content, size cap) and
// writes it under the upload directory.
func (fs *FileStore) Save(fileHeader *multipart.FileHeader) (*StoredFile, error) {
	if fileHeader == nil {
		return nil, ErrNoFile
	}
	if fileHeader.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fileHeader.Size > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// Detect MIME type from first 512 bytes; the client header is not trusted
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	mimeType := http.DetectContentType(buf[:n])
	mimeType = strings.Split(mimeType, ";")[0]

	if !strings.HasPrefix(mimeType, "image/") {
		return nil, ErrNotImage
	}

	if seeker, ok := file.(io.Seeker); ok {
		_, _ = seeker.Seek(0, io.SeekStart)
	}

	if err := os.MkdirAll(fs.baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	// time-based prefix + random suffix, original extension preserved
	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = mimeToExt(mimeType)
	}
	filename := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), uuid.New().String(), ext)

	absPath := filepath.Join(fs.baseDir, filename)
	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &StoredFile{
		Name:     filename,
		Path:     absPath,
		Size:     fileHeader.Size,
		MimeType: mimeType,
	}, nil
}

func mimeToExt(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	default:
		return ".img"
	}
}
