package resource

import "time"

type Visibility string

const (
	VisibilityPublic     Visibility = "PUBLIC"
	VisibilityCourseOnly Visibility = "COURSE_ONLY"
)

type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusDeleted Status = "DELETED"
)

// Resource is a course material shared by a student or a teacher.
// FilePath holds the stored file reference; rows written before the
// category-relative layout may carry a legacy URL or a bare partition path.
type Resource struct {
	ID            int64      `gorm:"primaryKey"`
	Title         string     `gorm:"size:255;not null"`
	Summary       string     `gorm:"type:text"`
	CourseID      int64      `gorm:"not null;index"`
	UploaderID    int64      `gorm:"not null;index"`
	UploaderRole  string     `gorm:"size:16;not null"`
	FilePath      string     `gorm:"size:512"`
	FileName      string     `gorm:"size:255"`
	FileType      string     `gorm:"size:128"`
	FileSize      int64
	DownloadCount int64      `gorm:"not null;default:0"`
	Visibility    Visibility `gorm:"size:16;not null;default:PUBLIC"`
	Status        Status     `gorm:"size:16;not null;default:ACTIVE;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Resource) TableName() string { return "resources" }
