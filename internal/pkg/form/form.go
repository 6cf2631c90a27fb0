// Package form decodes the multipart upload requests shared by resources,
// questions and answers: a JSON `metadata` part plus file parts.
package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"edushareqa/internal/pkg/response"
	"edushareqa/internal/pkg/validator"
	"edushareqa/internal/storage"

	"github.com/gin-gonic/gin"
)

const maxMetadataSize = 64 << 10

var ErrMissingMetadata = errors.New("metadata part is required")

// BindMetadata decodes and validates the `metadata` part. Browsers may send
// it either as a plain field or as a JSON blob file part.
func BindMetadata(c *gin.Context, dst any) error {
	raw, err := metadata(c)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode metadata: %w", err)
	}
	if errs := validator.Validate(dst); errs != nil {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func metadata(c *gin.Context) ([]byte, error) {
	if v, ok := c.GetPostForm("metadata"); ok && v != "" {
		return []byte(v), nil
	}
	fh, err := c.FormFile("metadata")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, ErrMissingMetadata
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxMetadataSize))
}

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "invalid metadata"
}

// OptionalFile returns the single file part named field, or nil.
func OptionalFile(c *gin.Context, field string) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	return fh, err
}

// Files returns every file part named field. Parts with no content are
// skipped.
func Files(c *gin.Context, field string) ([]*multipart.FileHeader, error) {
	mf, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	var out []*multipart.FileHeader
	for _, fh := range mf.File[field] {
		if fh.Size > 0 {
			out = append(out, fh)
		}
	}
	return out, nil
}

// WriteBindError answers a metadata decoding failure.
func WriteBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.CustomError(c, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE", "Request body is too large")
		return
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid metadata", verr.Fields)
		c.Abort()
		return
	}
	if errors.Is(err, ErrMissingMetadata) {
		response.CustomError(c, http.StatusBadRequest, "METADATA_REQUIRED", "Multipart part 'metadata' is required")
		return
	}
	response.CustomError(c, http.StatusBadRequest, "INVALID_METADATA", "Metadata must be valid JSON")
}

// WriteStorageError maps storage failures to responses. It reports false
// when err is not a storage error.
func WriteStorageError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, storage.ErrInvalidInput):
		response.CustomError(c, http.StatusBadRequest, "EMPTY_FILE", "Uploaded file is empty")
	case errors.Is(err, storage.ErrFileTooLarge):
		response.CustomError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Uploaded file is too large")
	case errors.Is(err, storage.ErrStorageWrite):
		_ = c.Error(err)
		response.CustomError(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to store file")
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrInvalidReference):
		response.CustomError(c, http.StatusNotFound, "FILE_NOT_FOUND", "File not found")
	default:
		return false
	}
	return true
}
