package qa

import "time"

type QuestionRequest struct {
	CourseID int64  `json:"courseId" validate:"required,gt=0"`
	Title    string `json:"title" validate:"required,max=255"`
	Content  string `json:"content" validate:"required"`
}

// UpdateQuestionRequest changes only the fields that are set.
type UpdateQuestionRequest struct {
	CourseID int64  `json:"courseId" validate:"omitempty,gt=0"`
	Title    string `json:"title" validate:"max=255"`
	Content  string `json:"content"`
}

type AnswerRequest struct {
	QuestionID int64  `json:"questionId" validate:"required,gt=0"`
	Content    string `json:"content" validate:"required"`
}

// AttachmentResponse carries the raw stored reference; clients prefix it
// with /uploads/ to download.
type AttachmentResponse struct {
	ID       int64  `json:"id"`
	FilePath string `json:"filePath"`
	FileName string `json:"fileName,omitempty"`
	FileType string `json:"fileType,omitempty"`
	FileSize int64  `json:"fileSize"`
}

type QuestionResponse struct {
	ID          int64     `json:"id"`
	CourseID    int64     `json:"courseId"`
	StudentID   int64     `json:"studentId"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Status      Status    `json:"status"`
	AnswerCount int       `json:"answerCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type AnswerResponse struct {
	ID          int64                `json:"id"`
	QuestionID  int64                `json:"questionId"`
	TeacherID   int64                `json:"teacherId"`
	Content     string               `json:"content"`
	CreatedAt   time.Time            `json:"createdAt"`
	Attachments []AttachmentResponse `json:"attachments"`
}

type QuestionDetail struct {
	QuestionResponse
	Attachments []AttachmentResponse `json:"attachments"`
	Answers     []AnswerResponse     `json:"answers"`
}

func ToQuestionResponse(q *Question) QuestionResponse {
	return QuestionResponse{
		ID:          q.ID,
		CourseID:    q.CourseID,
		StudentID:   q.StudentID,
		Title:       q.Title,
		Content:     q.Content,
		Status:      q.Status,
		AnswerCount: q.AnswerCount,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

func toQuestionResponses(items []Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(items))
	for i := range items {
		out = append(out, ToQuestionResponse(&items[i]))
	}
	return out
}

func ToAnswerResponse(a *Answer) AnswerResponse {
	out := AnswerResponse{
		ID:          a.ID,
		QuestionID:  a.QuestionID,
		TeacherID:   a.TeacherID,
		Content:     a.Content,
		CreatedAt:   a.CreatedAt,
		Attachments: make([]AttachmentResponse, 0, len(a.Attachments)),
	}
	for _, att := range a.Attachments {
		out.Attachments = append(out.Attachments, AttachmentResponse{
			ID: att.ID, FilePath: att.FilePath, FileName: att.FileName, FileType: att.FileType, FileSize: att.FileSize,
		})
	}
	return out
}

func ToDetail(q *Question, answers []Answer) QuestionDetail {
	d := QuestionDetail{
		QuestionResponse: ToQuestionResponse(q),
		Attachments:      make([]AttachmentResponse, 0, len(q.Attachments)),
		Answers:          make([]AnswerResponse, 0, len(answers)),
	}
	for _, att := range q.Attachments {
		d.Attachments = append(d.Attachments, AttachmentResponse{
			ID: att.ID, FilePath: att.FilePath, FileName: att.FileName, FileType: att.FileType, FileSize: att.FileSize,
		})
	}
	for i := range answers {
		d.Answers = append(d.Answers, ToAnswerResponse(&answers[i]))
	}
	return d
}
