package models

import "time"

type EnrollmentStatus string

const (
	EnrollmentPending  EnrollmentStatus = "pending"
	EnrollmentApproved EnrollmentStatus = "approved"
	EnrollmentRejected EnrollmentStatus = "rejected"
)

func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentPending, EnrollmentApproved, EnrollmentRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status machine allows moving from s to next.
// rejected is terminal.
func (s EnrollmentStatus) CanTransitionTo(next EnrollmentStatus) bool {
	switch s {
	case EnrollmentPending:
		return next == EnrollmentApproved || next == EnrollmentRejected
	case EnrollmentApproved:
		return next == EnrollmentRejected
	}
	return false
}

// Enrollment links a student to a course. At most one active row exists per pair; the
// unique index over live rows is created by database.Migrate for each dialect.
type Enrollment struct {
	Model
	StudentID          uint             `json:"student_id" gorm:"not null;index"`
	CourseID           uint             `json:"course_id" gorm:"not null;index"`
	Status             EnrollmentStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	Progress           int              `json:"progress" gorm:"default:0;not null"`
	LastWatchedVideoID *uint            `json:"last_watched_video_id,omitempty"`
	CompletedAt        *time.Time       `json:"completed_at"`

	Student          *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Course           *Course  `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	LastWatchedVideo *Video   `json:"last_watched_video,omitempty" gorm:"foreignKey:LastWatchedVideoID"`
}
