package models

import "time"

type Course struct {
	CourseID     int        `gorm:"primaryKey;column:course_id" json:"course_id"`
	Title        string     `gorm:"column:title" json:"title"`
	Code         string     `gorm:"column:code;unique" json:"code"`
	Description  *string    `gorm:"column:description" json:"description,omitempty"`
	DepartmentID int        `gorm:"column:department_id" json:"department_id"`
	InstructorID *int       `gorm:"column:instructor_id" json:"instructor_id,omitempty"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Instructor *User       `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
}

// Enrollment statuses
const (
	EnrollmentActive  = "Active"
	EnrollmentDropped = "Dropped"
)

type Enrollment struct {
	EnrollmentID int       `gorm:"primaryKey;column:enrollment_id" json:"enrollment_id"`
	StudentID    int       `gorm:"column:student_id;uniqueIndex:uq_enrollment" json:"student_id"`
	CourseID     int       `gorm:"column:course_id;uniqueIndex:uq_enrollment" json:"course_id"`
	EnrolledOn   time.Time `gorm:"column:enrolled_on" json:"enrolled_on"`
	Status       string    `gorm:"column:status" json:"status"` // Active|Dropped

	// Relations
	Student *User   `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Course  *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

// Attendance statuses
const (
	AttendancePresent = "Present"
	AttendanceAbsent  = "Absent"
)

type Attendance struct {
	AttendanceID int       `gorm:"primaryKey;column:attendance_id" json:"attendance_id"`
	StudentID    int       `gorm:"column:student_id;uniqueIndex:uq_attendance" json:"student_id"`
	CourseID     int       `gorm:"column:course_id;uniqueIndex:uq_attendance" json:"course_id"`
	Date         time.Time `gorm:"column:date;uniqueIndex:uq_attendance" json:"date"`
	Status       string    `gorm:"column:status" json:"status"` // Present|Absent

	// Relations
	Student *User   `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Course  *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

type Grade struct {
	GradeID   int     `gorm:"primaryKey;column:grade_id" json:"grade_id"`
	StudentID int     `gorm:"column:student_id;uniqueIndex:uq_grade" json:"student_id"`
	CourseID  int     `gorm:"column:course_id;uniqueIndex:uq_grade" json:"course_id"`
	Score     float64 `gorm:"column:score" json:"score"`
	Grade     string  `gorm:"column:grade" json:"grade"`
	Remarks   *string `gorm:"column:remarks" json:"remarks,omitempty"`

	// Relations
	Student *User   `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Course  *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

// TableName overrides
func (Course) TableName() string {
	return "courses"
}

func (Enrollment) TableName() string {
	return "enrollments"
}

func (Attendance) TableName() string {
	return "attendance"
}

func (Grade) TableName() string {
	return "grades"
}
