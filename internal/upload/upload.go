// Package upload validates multipart file uploads and persists them under a
// filesystem root.
package upload

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"slices"
	"time"

	"chatrooms/internal/domain"
)

// ErrInvalid wraps every validation failure, so handlers can map the whole
// family to a 400 response.
var ErrInvalid = errors.New("upload: invalid file")

// ImageTypes lists the content types accepted for avatar uploads.
var ImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/svg+xml",
	"image/webp",
}

// Policy constrains what an endpoint accepts. A zero MaxSize means unlimited,
// an empty AllowedTypes accepts anything.
type Policy struct {
	Folder       string
	MaxSize      int64
	AllowedTypes []string
}

// AvatarPolicy governs user avatar uploads.
var AvatarPolicy = Policy{Folder: "avatars", MaxSize: 1 << 20, AllowedTypes: ImageTypes}

// Accept reads and validates one uploaded part against the policy.
func (p Policy) Accept(fh *multipart.FileHeader) (data []byte, filename, contentType string, err error) {
	file, err := fh.Open()
	if err != nil {
		return nil, "", "", fmt.Errorf("upload: open part: %w", err)
	}
	defer file.Close()

	limit := int64(-1)
	if p.MaxSize > 0 {
		limit = p.MaxSize + 1
	}
	if limit >= 0 {
		data, err = io.ReadAll(io.LimitReader(file, limit))
	} else {
		data, err = io.ReadAll(file)
	}
	if err != nil {
		return nil, "", "", fmt.Errorf("upload: read part: %w", err)
	}
	if p.MaxSize > 0 && int64(len(data)) > p.MaxSize {
		return nil, "", "", fmt.Errorf("%w: size exceeds limit %s", ErrInvalid, FormatOctets(p.MaxSize))
	}

	contentType = fh.Header.Get("Content-Type")
	if contentType == "" {
		return nil, "", "", fmt.Errorf("%w: missing content type", ErrInvalid)
	}
	if fh.Filename == "" {
		return nil, "", "", fmt.Errorf("%w: missing file name", ErrInvalid)
	}
	if len(p.AllowedTypes) > 0 && !slices.Contains(p.AllowedTypes, contentType) {
		return nil, "", "", fmt.Errorf("%w: content type %s not allowed, expected one of %v",
			ErrInvalid, contentType, p.AllowedTypes)
	}
	return data, fh.Filename, contentType, nil
}

// Writer stores file contents under a filesystem root.
type Writer struct {
	root string
}

// NewWriter returns a writer rooted at root.
func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

// Write persists data under folder and returns the file metadata. The stored
// name combines the upload time, random bytes and a checksum prefix, so two
// uploads of the same content never collide.
func (w *Writer) Write(folder string, data []byte, filename, contentType string, uploadedAt time.Time) (domain.File, error) {
	sum := sha256.Sum256(data)
	checksum := hex.EncodeToString(sum[:])
	fsFilename := fmt.Sprintf("%s/%d_%s_%s", folder, uploadedAt.Unix(), randomHex(4), checksum[:16])

	fsPath := filepath.Join(w.root, filepath.FromSlash(fsFilename))
	if err := os.MkdirAll(filepath.Dir(fsPath), 0o755); err != nil {
		return domain.File{}, fmt.Errorf("upload: create folder: %w", err)
	}
	if err := os.WriteFile(fsPath, data, 0o644); err != nil {
		return domain.File{}, fmt.Errorf("upload: write file: %w", err)
	}

	return domain.File{
		FSFilename:  fsFilename,
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		Checksum:    checksum,
		UploadedAt:  uploadedAt,
	}, nil
}

// Path resolves a stored fs filename to its location on disk.
func (w *Writer) Path(fsFilename string) string {
	return filepath.Join(w.root, filepath.FromSlash(fsFilename))
}

// FormatOctets renders a byte count as a human readable string.
func FormatOctets(size int64) string {
	value := float64(size)
	for _, unit := range []string{"o", "ko", "Mo", "Go", "To"} {
		if value < 1024 {
			return fmt.Sprintf("%.0f %s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.0f Po", value)
}

func randomHex(n int) string {
	buf := make([]byte, n)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}
