package storage

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxExtLen = 16

// StoredFile is what callers persist against the owning record.
type StoredFile struct {
	Reference    string
	OriginalName string
	ContentType  string
	Size         int64
}

// Store writes r under <category>/<YYYY>/<MM>/<uuid><ext> and returns the
// category-relative reference. Nothing is left on disk when Store fails.
func (s *Storage) Store(ctx context.Context, c Category, r io.Reader, originalName string) (string, error) {
	ref, _, _, err := s.store(ctx, c, r, originalName)
	return ref, err
}

// StoreFile stores one multipart part.
func (s *Storage) StoreFile(ctx context.Context, c Category, fh *multipart.FileHeader) (*StoredFile, error) {
	if fh == nil || fh.Size == 0 {
		return nil, ErrInvalidInput
	}
	if s.maxSize > 0 && fh.Size > s.maxSize {
		return nil, ErrFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, &WriteError{Op: "open", Path: fh.Filename, Err: err}
	}
	defer f.Close()

	ref, full, n, err := s.store(ctx, c, f, fh.Filename)
	if err != nil {
		return nil, err
	}

	return &StoredFile{
		Reference:    ref,
		OriginalName: fh.Filename,
		ContentType:  DetectContentType(full),
		Size:         n,
	}, nil
}

// Discard removes files written for a record that was never committed.
func (s *Storage) Discard(refs ...string) {
	for _, ref := range refs {
		if err := s.Delete(ref); err != nil {
			s.log.Error("discard stored file", zap.String("reference", ref), zap.Error(err))
		}
	}
}

func (s *Storage) store(ctx context.Context, c Category, r io.Reader, originalName string) (string, string, int64, error) {
	if !c.Valid() {
		return "", "", 0, ErrInvalidCategory
	}
	if r == nil {
		return "", "", 0, ErrInvalidInput
	}

	partition := s.now().Format("2006/01")
	dir := filepath.Join(s.dirs[c], filepath.FromSlash(partition))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", 0, &WriteError{Op: "mkdir", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", "", 0, &WriteError{Op: "create", Path: dir, Err: err}
	}
	tmpName := tmp.Name()

	n, copyErr := io.Copy(tmp, &ctxReader{ctx: ctx, r: r})
	closeErr := tmp.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(tmpName)
		return "", "", 0, &WriteError{Op: "write", Path: tmpName, Err: err}
	}
	if n == 0 {
		_ = os.Remove(tmpName)
		return "", "", 0, ErrInvalidInput
	}

	name := uuid.NewString() + extensionOf(originalName)
	full := filepath.Join(dir, name)
	if err := os.Rename(tmpName, full); err != nil {
		_ = os.Remove(tmpName)
		return "", "", 0, &WriteError{Op: "rename", Path: full, Err: err}
	}

	ref := path.Join(string(c), partition, name)
	s.log.Debug("stored upload", zap.String("reference", ref), zap.Int64("size", n))
	return ref, full, n, nil
}

// extensionOf returns the lowercased dot-extension of a client supplied
// filename, or "" when it has none or it contains anything but [a-z0-9].
func extensionOf(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	ext := strings.ToLower(path.Ext(path.Base(name)))
	if len(ext) < 2 || len(ext) > maxExtLen {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

// DetectContentType sniffs a file on disk. It falls back to
// application/octet-stream when the file cannot be read.
func DetectContentType(p string) string {
	mt, err := mimetype.DetectFile(p)
	if err != nil {
		return "application/octet-stream"
	}
	return mt.String()
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
