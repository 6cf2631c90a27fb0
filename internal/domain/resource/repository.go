package resource

import (
	"context"
	"errors"

	"edushareqa/internal/pkg/pagination"

	"gorm.io/gorm"
)

type Filter struct {
	CourseID   int64
	UploaderID int64
	Keyword    string
	// Statuses restricts the listing; empty means every status but DELETED.
	Statuses []Status
	pagination.Params
}

type Repository interface {
	Create(ctx context.Context, r *Resource) error
	GetByID(ctx context.Context, id int64) (*Resource, error)
	List(ctx context.Context, f Filter) ([]Resource, int64, error)
	Update(ctx context.Context, r *Resource) error
	SetStatus(ctx context.Context, id int64, status Status) error
	IncrementDownloads(ctx context.Context, id int64) error
	CountByUploader(ctx context.Context, uploaderID int64) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, res *Resource) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Resource, error) {
	var res Resource
	err := r.db.WithContext(ctx).First(&res, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *repository) List(ctx context.Context, f Filter) ([]Resource, int64, error) {
	q := r.db.WithContext(ctx).Model(&Resource{})
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	} else {
		q = q.Where("status <> ?", StatusDeleted)
	}
	if f.CourseID > 0 {
		q = q.Where("course_id = ?", f.CourseID)
	}
	if f.UploaderID > 0 {
		q = q.Where("uploader_id = ?", f.UploaderID)
	}
	if f.Keyword != "" {
		kw := "%" + f.Keyword + "%"
		q = q.Where("title LIKE ? OR summary LIKE ?", kw, kw)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []Resource
	err := q.Order("created_at DESC, id DESC").Offset(f.Offset()).Limit(f.PageSize).Find(&out).Error
	return out, total, err
}

func (r *repository) Update(ctx context.Context, res *Resource) error {
	return r.db.WithContext(ctx).Save(res).Error
}

func (r *repository) SetStatus(ctx context.Context, id int64, status Status) error {
	res := r.db.WithContext(ctx).Model(&Resource{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrResourceNotFound
	}
	return nil
}

// IncrementDownloads bumps the counter in a single UPDATE.
func (r *repository) IncrementDownloads(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&Resource{}).
		Where("id = ?", id).
		UpdateColumn("download_count", gorm.Expr("download_count + ?", 1)).Error
}

// CountByUploader counts the uploader's resources that are not deleted.
func (r *repository) CountByUploader(ctx context.Context, uploaderID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&Resource{}).
		Where("uploader_id = ? AND status <> ?", uploaderID, StatusDeleted).
		Count(&n).Error
	return n, err
}
