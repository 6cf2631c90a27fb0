package course

import "time"

type Course struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"size:32;uniqueIndex;not null" json:"code"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Faculty     string    `gorm:"size:128" json:"faculty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Course) TableName() string { return "courses" }

// CourseTeacher assigns a teacher to a course.
type CourseTeacher struct {
	CourseID  int64     `gorm:"primaryKey;autoIncrement:false"`
	TeacherID int64     `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time
}

func (CourseTeacher) TableName() string { return "course_teachers" }

// CourseStudent enrols a student in a course.
type CourseStudent struct {
	CourseID  int64     `gorm:"primaryKey;autoIncrement:false"`
	StudentID int64     `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time
}

func (CourseStudent) TableName() string { return "course_students" }

// Teacher is a teacher of one or more of a student's courses.
type Teacher struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	FullName    string   `json:"fullName"`
	CourseIDs   []int64  `json:"courseIds"`
	CourseNames []string `json:"courseNames"`
}

// Models lists the tables owned by this package.
func Models() []any {
	return []any{&Course{}, &CourseTeacher{}, &CourseStudent{}}
}
