package resource

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"edushareqa/internal/domain/course"
	"edushareqa/internal/pkg/logger"
	"edushareqa/internal/storage"

	"go.uber.org/zap"
)

// FileStore is the part of the upload storage resources rely on.
type FileStore interface {
	StoreFile(ctx context.Context, c storage.Category, fh *multipart.FileHeader) (*storage.StoredFile, error)
	Resolve(raw string) (*storage.File, error)
	Delete(raw string) error
	Discard(refs ...string)
}

// CourseLookup checks that a course exists.
type CourseLookup interface {
	Get(ctx context.Context, id int64) (*course.Course, error)
}

type Service struct {
	repo    Repository
	files   FileStore
	courses CourseLookup
	log     *zap.Logger
}

func NewService(repo Repository, files FileStore, courses CourseLookup, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, files: files, courses: courses, log: log.Named("resource")}
}

// Upload stores the optional file first and then inserts the record. When
// the insert fails the stored file is discarded.
func (s *Service) Upload(ctx context.Context, uploaderID int64, role string, req UploadRequest, fh *multipart.FileHeader) (*Resource, error) {
	if _, err := s.courses.Get(ctx, req.CourseID); err != nil {
		return nil, err
	}
	visibility := req.Visibility
	if visibility == "" {
		visibility = VisibilityPublic
	}

	res := &Resource{
		Title:        strings.TrimSpace(req.Title),
		Summary:      req.Summary,
		CourseID:     req.CourseID,
		UploaderID:   uploaderID,
		UploaderRole: role,
		Visibility:   visibility,
		Status:       StatusActive,
	}

	if fh != nil {
		stored, err := s.files.StoreFile(ctx, storage.CategoryResources, fh)
		if err != nil {
			return nil, err
		}
		res.FilePath = stored.Reference
		res.FileName = stored.OriginalName
		res.FileType = stored.ContentType
		res.FileSize = stored.Size
	}

	if err := s.repo.Create(ctx, res); err != nil {
		if res.FilePath != "" {
			s.files.Discard(res.FilePath)
		}
		return nil, fmt.Errorf("save resource: %w", err)
	}

	logger.FromContext(ctx, s.log).Info("resource uploaded",
		zap.Int64("id", res.ID),
		zap.Int64("course_id", res.CourseID),
		zap.String("reference", res.FilePath),
	)
	return res, nil
}

// List returns active resources only.
func (s *Service) List(ctx context.Context, f Filter) ([]Resource, int64, error) {
	f.Statuses = []Status{StatusActive}
	f.Params = f.Params.Normalize()
	f.Keyword = strings.TrimSpace(f.Keyword)
	return s.repo.List(ctx, f)
}

// AdminList returns everything that is not deleted.
func (s *Service) AdminList(ctx context.Context, f Filter) ([]Resource, int64, error) {
	f.Statuses = nil
	f.Params = f.Params.Normalize()
	f.Keyword = strings.TrimSpace(f.Keyword)
	return s.repo.List(ctx, f)
}

// Get returns an active resource.
func (s *Service) Get(ctx context.Context, id int64) (*Resource, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status != StatusActive {
		return nil, ErrResourceNotFound
	}
	return res, nil
}

// Download resolves the stored file of an active resource and counts the
// download. The counter is only bumped once the file is known to exist.
func (s *Service) Download(ctx context.Context, id int64) (*Resource, *storage.File, error) {
	res, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if res.FilePath == "" {
		return nil, nil, ErrFileNotFound
	}

	f, err := s.files.Resolve(res.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidReference) {
			logger.FromContext(ctx, s.log).Warn("resource file missing",
				zap.Int64("id", res.ID), zap.String("reference", res.FilePath), zap.Error(err))
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, err
	}

	if err := s.repo.IncrementDownloads(ctx, res.ID); err != nil {
		return nil, nil, fmt.Errorf("count download: %w", err)
	}
	res.DownloadCount++
	return res, f, nil
}

// DeleteOwn soft deletes a resource uploaded by userID.
func (s *Service) DeleteOwn(ctx context.Context, userID, id int64) error {
	res, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if res.UploaderID != userID {
		return ErrNotOwner
	}
	return s.remove(ctx, res)
}

func (s *Service) AdminUpdate(ctx context.Context, id int64, req UpdateRequest) (*Resource, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status == StatusDeleted {
		return nil, ErrResourceNotFound
	}
	if req.CourseID > 0 && req.CourseID != res.CourseID {
		if _, err := s.courses.Get(ctx, req.CourseID); err != nil {
			return nil, err
		}
		res.CourseID = req.CourseID
	}
	res.Title = strings.TrimSpace(req.Title)
	res.Summary = req.Summary
	if req.Visibility != "" {
		res.Visibility = req.Visibility
	}
	if err := s.repo.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) AdminDelete(ctx context.Context, id int64) error {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if res.Status == StatusDeleted {
		return ErrResourceNotFound
	}
	return s.remove(ctx, res)
}

// remove marks the record DELETED, then removes the file best-effort.
func (s *Service) remove(ctx context.Context, res *Resource) error {
	if err := s.repo.SetStatus(ctx, res.ID, StatusDeleted); err != nil {
		return err
	}
	if res.FilePath != "" {
		if err := s.files.Delete(res.FilePath); err != nil {
			logger.FromContext(ctx, s.log).Warn("remove resource file",
				zap.Int64("id", res.ID), zap.String("reference", res.FilePath), zap.Error(err))
		}
	}
	logger.FromContext(ctx, s.log).Info("resource deleted", zap.Int64("id", res.ID))
	return nil
}

func (s *Service) CountByUploader(ctx context.Context, uploaderID int64) (int64, error) {
	return s.repo.CountByUploader(ctx, uploaderID)
}
