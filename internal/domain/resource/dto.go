package resource

import (
	"fmt"
	"time"
)

// UploadRequest is the JSON `metadata` part of an upload.
type UploadRequest struct {
	Title      string     `json:"title" validate:"required,max=255"`
	Summary    string     `json:"summary"`
	CourseID   int64      `json:"courseId" validate:"required,gt=0"`
	Visibility Visibility `json:"visibility" validate:"omitempty,oneof=PUBLIC COURSE_ONLY"`
}

type UpdateRequest struct {
	Title      string     `json:"title" validate:"required,max=255"`
	Summary    string     `json:"summary"`
	CourseID   int64      `json:"courseId" validate:"omitempty,gt=0"`
	Visibility Visibility `json:"visibility" validate:"omitempty,oneof=PUBLIC COURSE_ONLY"`
}

type Response struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Summary       string     `json:"summary"`
	CourseID      int64      `json:"courseId"`
	UploaderID    int64      `json:"uploaderId"`
	UploaderRole  string     `json:"uploaderRole"`
	FileName      string     `json:"fileName,omitempty"`
	FileType      string     `json:"fileType,omitempty"`
	FileSize      int64      `json:"fileSize"`
	FileURL       string     `json:"fileUrl,omitempty"`
	DownloadCount int64      `json:"downloadCount"`
	Visibility    Visibility `json:"visibility"`
	Status        Status     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func ToResponse(r *Resource) Response {
	out := Response{
		ID:            r.ID,
		Title:         r.Title,
		Summary:       r.Summary,
		CourseID:      r.CourseID,
		UploaderID:    r.UploaderID,
		UploaderRole:  r.UploaderRole,
		FileName:      r.FileName,
		FileType:      r.FileType,
		FileSize:      r.FileSize,
		DownloadCount: r.DownloadCount,
		Visibility:    r.Visibility,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.FilePath != "" {
		out.FileURL = fmt.Sprintf("/student/resources/%d/download", r.ID)
	}
	return out
}

func toResponses(items []Resource) []Response {
	out := make([]Response, 0, len(items))
	for i := range items {
		out = append(out, ToResponse(&items[i]))
	}
	return out
}
