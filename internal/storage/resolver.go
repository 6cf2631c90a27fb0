package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// File is a resolved upload on disk.
type File struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

func (f *File) Open() (*os.File, error) {
	return os.Open(f.Path)
}

// Resolve locates the file behind a stored reference in any of the three
// historical formats. It returns ErrNotFound when no interpretation matches
// and ErrInvalidReference for malformed or unsafe input.
func (s *Storage) Resolve(raw string) (*File, error) {
	ref, err := ParseReference(raw)
	if err != nil {
		s.rejected("resolve", raw, err)
		return nil, err
	}
	return s.lookup(ref)
}

// ResolveTyped resolves <category root>/<relPath> for the typed download
// endpoint. When the category root is relative, the same path under the
// absolute working directory is tried next, then the UploadDir/<category>
// alias.
func (s *Storage) ResolveTyped(c Category, relPath string) (*File, error) {
	if !c.Valid() {
		return nil, ErrNotFound
	}
	rel, err := cleanRelPath(relPath)
	if err != nil {
		s.rejected("resolve_typed", string(c)+"/"+relPath, err)
		return nil, err
	}

	dir := s.dirs[c]
	bases := []string{dir}
	if !filepath.IsAbs(dir) {
		// Names the same file as dir while the process keeps its working
		// directory; listed so the candidate order stays the documented one.
		if wd, err := os.Getwd(); err == nil {
			bases = append(bases, filepath.Join(wd, dir))
		}
	}
	bases = append(bases, s.bases(c)[1:]...)

	for _, base := range bases {
		if f := statFile(base, rel); f != nil {
			return f, nil
		}
	}
	return nil, ErrNotFound
}

// Delete removes the first file the reference resolves to. A reference that
// resolves to nothing is not an error.
func (s *Storage) Delete(raw string) error {
	f, err := s.Resolve(raw)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", f.Path, err)
	}
	s.log.Info("deleted stored file", zap.String("reference", raw), zap.String("path", f.Path))
	return nil
}

func (s *Storage) lookup(ref Reference) (*File, error) {
	cats := ScanOrder
	if ref.Category != "" {
		cats = []Category{ref.Category}
	}
	for _, c := range cats {
		for _, base := range s.bases(c) {
			if f := statFile(base, ref.Path); f != nil {
				return f, nil
			}
		}
	}
	return nil, ErrNotFound
}

func (s *Storage) rejected(op, input string, err error) {
	s.log.Warn("rejected unsafe file reference",
		zap.String("op", op),
		zap.String("input", input),
		zap.Error(err),
	)
}

// statFile returns the regular file at base/rel, or nil.
func statFile(base, rel string) *File {
	p, ok := within(base, rel)
	if !ok {
		return nil
	}
	info, err := os.Stat(p)
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}
	return &File{
		Path:    p,
		Name:    info.Name(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
}
