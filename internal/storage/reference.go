package storage

import (
	"net/url"
	"strings"
)

// ReferenceKind tells which of the historical encodings a stored reference uses.
type ReferenceKind int

const (
	// KindCategoryRelative is `<category>/YYYY/MM/<name>`, the only shape
	// the writer produces.
	KindCategoryRelative ReferenceKind = iota + 1
	// KindLegacyURL is an absolute URL (or rooted `/uploads/...` path) that
	// embeds the partition path after an `/uploads/` segment.
	KindLegacyURL
	// KindLegacyBare is `YYYY/MM/<name>` with no category.
	KindLegacyBare
)

func (k ReferenceKind) String() string {
	switch k {
	case KindCategoryRelative:
		return "category-relative"
	case KindLegacyURL:
		return "legacy-url"
	case KindLegacyBare:
		return "legacy-bare"
	default:
		return "unknown"
	}
}

const uploadsSegment = "/uploads/"

// Reference is a parsed StoredFileReference.
type Reference struct {
	Kind ReferenceKind
	// Category is empty when the reference does not name one and the
	// resolver has to scan every category root.
	Category Category
	// Path is slash separated and relative to the category root,
	// normally `YYYY/MM/<name>`.
	Path string
}

// String renders the reference in its current-relative form when the
// category is known, or as the bare path otherwise.
func (r Reference) String() string {
	if r.Category == "" {
		return r.Path
	}
	return string(r.Category) + "/" + r.Path
}

// ParseReference classifies a stored reference and extracts the
// category-relative path. Paths with traversal segments are rejected.
func ParseReference(raw string) (Reference, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Reference{}, ErrInvalidReference
	}

	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(raw, "/") {
		u, err := url.Parse(raw)
		if err != nil {
			return Reference{}, ErrInvalidReference
		}
		return fromUploadsPath(u.Path)
	}

	if cat, rest, ok := splitCategory(raw); ok {
		p, err := cleanRelPath(rest)
		if err != nil {
			return Reference{}, err
		}
		return Reference{Kind: KindCategoryRelative, Category: cat, Path: p}, nil
	}

	p, err := cleanRelPath(raw)
	if err != nil {
		return Reference{}, err
	}
	return Reference{Kind: KindLegacyBare, Path: p}, nil
}

func fromUploadsPath(p string) (Reference, error) {
	for _, c := range ScanOrder {
		marker := uploadsSegment + string(c) + "/"
		if i := strings.Index(p, marker); i >= 0 {
			rel, err := cleanRelPath(p[i+len(marker):])
			if err != nil {
				return Reference{}, err
			}
			return Reference{Kind: KindLegacyURL, Category: c, Path: rel}, nil
		}
	}

	i := strings.Index(p, uploadsSegment)
	if i < 0 {
		return Reference{}, ErrInvalidReference
	}
	rel, err := cleanRelPath(p[i+len(uploadsSegment):])
	if err != nil {
		return Reference{}, err
	}
	return Reference{Kind: KindLegacyURL, Path: rel}, nil
}

func splitCategory(s string) (Category, string, bool) {
	for _, c := range ScanOrder {
		prefix := string(c) + "/"
		if strings.HasPrefix(s, prefix) {
			return c, s[len(prefix):], true
		}
	}
	return "", "", false
}

// cleanRelPath accepts only slash separated, non-empty segments that are
// neither "." nor "..". Backslashes and NUL bytes are refused outright.
func cleanRelPath(p string) (string, error) {
	if p == "" || strings.ContainsAny(p, "\\\x00") {
		return "", ErrInvalidReference
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", ErrInvalidReference
		}
	}
	return p, nil
}
