package models

import "gorm.io/datatypes"

const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
	LevelExpert       = "expert"
)

// Mentor is the mentor-role extension of a User.
type Mentor struct {
	Model
	UserID          uint                        `json:"user_id" gorm:"uniqueIndex;not null"`
	Speciality      string                      `json:"speciality" gorm:"index"`
	Description     string                      `json:"description,omitempty" gorm:"type:text"`
	ExperienceLevel string                      `json:"experience_level" gorm:"type:varchar(20)"`
	Skills          datatypes.JSONSlice[string] `json:"skills,omitempty"`

	User         *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Courses      []Course `json:"courses,omitempty" gorm:"foreignKey:MentorID"`
	CoursesCount int64    `json:"courses_count,omitempty" gorm:"-"`
}

// Student is the student-role extension of a User. BadgeCount mirrors the number of
// active student_badge rows and is only written by the badge repository.
type Student struct {
	Model
	UserID      uint                        `json:"user_id" gorm:"uniqueIndex;not null"`
	Description string                      `json:"description,omitempty" gorm:"type:text"`
	Level       string                      `json:"level,omitempty" gorm:"type:varchar(20);index"`
	BadgeCount  int                         `json:"badge_count" gorm:"default:0;not null"`
	Interests   datatypes.JSONSlice[string] `json:"interests,omitempty"`

	User   *User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Badges []Badge `json:"badges,omitempty" gorm:"-"`
}
