package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Config describes the upload directory layout.
//
// UploadDir is the parent of all category roots. Dirs overrides the root of
// individual categories; a missing entry defaults to UploadDir/<category>.
// The per-category directory is authoritative: writes go there and reads try
// it first. UploadDir/<category> stays readable as a compatibility alias when
// it differs from the configured directory.
type Config struct {
	UploadDir string
	Dirs      map[Category]string
	// MaxFileSize caps multipart uploads. Zero disables the check.
	MaxFileSize int64
}

// Storage writes uploads into the date partitioned layout and resolves stored
// references back to files. It holds no mutable state after construction and
// is safe for concurrent use.
type Storage struct {
	root    string
	dirs    map[Category]string
	maxSize int64
	log     *zap.Logger
	now     func() time.Time
}

type Option func(*Storage)

// WithClock replaces the clock used to compute partitions.
func WithClock(now func() time.Time) Option {
	return func(s *Storage) { s.now = now }
}

// New prepares the category roots and returns a ready Storage.
func New(cfg Config, log *zap.Logger, opts ...Option) (*Storage, error) {
	if cfg.UploadDir == "" {
		return nil, fmt.Errorf("storage: upload dir is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Storage{
		root:    filepath.Clean(cfg.UploadDir),
		dirs:    make(map[Category]string, len(ScanOrder)),
		maxSize: cfg.MaxFileSize,
		log:     log.Named("storage"),
		now:     time.Now,
	}
	for _, c := range ScanOrder {
		dir := cfg.Dirs[c]
		if dir == "" {
			dir = filepath.Join(s.root, string(c))
		}
		s.dirs[c] = filepath.Clean(dir)
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, c := range ScanOrder {
		if err := os.MkdirAll(s.dirs[c], 0755); err != nil {
			return nil, &WriteError{Op: "mkdir", Path: s.dirs[c], Err: err}
		}
	}

	s.log.Info("file storage ready",
		zap.String("upload_dir", s.root),
		zap.String(string(CategoryResources), s.dirs[CategoryResources]),
		zap.String(string(CategoryQuestionAttachments), s.dirs[CategoryQuestionAttachments]),
		zap.String(string(CategoryAnswerAttachments), s.dirs[CategoryAnswerAttachments]),
	)
	return s, nil
}

// Dir returns the authoritative root directory of a category.
func (s *Storage) Dir(c Category) string {
	return s.dirs[c]
}

// bases lists the directories a category is read from: the authoritative
// directory, then the UploadDir/<category> alias when it is different.
func (s *Storage) bases(c Category) []string {
	dir := s.dirs[c]
	alias := filepath.Join(s.root, string(c))
	if alias == dir {
		return []string{dir}
	}
	return []string{dir, alias}
}

// within joins rel onto base and reports whether the result stays inside base.
func within(base, rel string) (string, bool) {
	p := filepath.Join(base, filepath.FromSlash(rel))
	r, err := filepath.Rel(base, p)
	if err != nil || r == "." || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", false
	}
	return p, true
}
