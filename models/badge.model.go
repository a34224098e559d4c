package models

import (
	"time"

	"gorm.io/datatypes"
)

type BadgeType string

const (
	BadgeTypeStudent BadgeType = "student"
	BadgeTypeMentor  BadgeType = "mentor"
)

func (t BadgeType) Valid() bool {
	return t == BadgeTypeStudent || t == BadgeTypeMentor
}

// Badge requirements are stored as-is and never evaluated; awarding is an admin action.
type Badge struct {
	Model
	Name         string            `json:"name" gorm:"not null"`
	ImagePath    string            `json:"image_path,omitempty"`
	Description  string            `json:"description,omitempty" gorm:"type:text"`
	Type         BadgeType         `json:"type" gorm:"type:varchar(20);not null;index"`
	Requirements datatypes.JSONMap `json:"requirements,omitempty"`

	EarnedAt *time.Time `json:"earned_at,omitempty" gorm:"-"`
}

type StudentBadge struct {
	StudentID uint      `json:"student_id" gorm:"primaryKey;autoIncrement:false"`
	BadgeID   uint      `json:"badge_id" gorm:"primaryKey;autoIncrement:false;index"`
	EarnedAt  time.Time `json:"earned_at" gorm:"not null"`
}

func (StudentBadge) TableName() string {
	return "student_badge"
}

type MentorBadge struct {
	MentorID uint      `json:"mentor_id" gorm:"primaryKey;autoIncrement:false"`
	BadgeID  uint      `json:"badge_id" gorm:"primaryKey;autoIncrement:false;index"`
	EarnedAt time.Time `json:"earned_at" gorm:"not null"`
}

func (MentorBadge) TableName() string {
	return "mentor_badge"
}
