package models

import "time"

type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "draft"
	CourseStatusPublished CourseStatus = "published"
	CourseStatusArchived  CourseStatus = "archived"
)

func (s CourseStatus) Valid() bool {
	switch s {
	case CourseStatusDraft, CourseStatusPublished, CourseStatusArchived:
		return true
	}
	return false
}

type Course struct {
	Model
	MentorID      uint         `json:"mentor_id" gorm:"index;not null"`
	CategoryID    uint         `json:"category_id" gorm:"index;not null"`
	SubCategoryID *uint        `json:"sub_category_id,omitempty" gorm:"index"`
	Title         string       `json:"title" gorm:"not null"`
	Slug          string       `json:"slug" gorm:"uniqueIndex;not null"`
	Description   string       `json:"description,omitempty" gorm:"type:text"`
	Thumbnail     string       `json:"thumbnail,omitempty"`
	Duration      int          `json:"duration" gorm:"default:0"` // minutes
	Difficulty    string       `json:"difficulty" gorm:"type:varchar(20);index"`
	Status        CourseStatus `json:"status" gorm:"type:varchar(20);index;not null"`
	IsFree        bool         `json:"is_free" gorm:"default:false;index"`
	Price         float64      `json:"price" gorm:"type:decimal(10,2);default:0"`
	DiscountPrice *float64     `json:"discount_price,omitempty" gorm:"type:decimal(10,2)"`
	PublishedAt   *time.Time   `json:"published_at,omitempty"`

	Mentor      *Mentor      `json:"mentor,omitempty" gorm:"foreignKey:MentorID"`
	Category    *Category    `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	SubCategory *SubCategory `json:"subcategory,omitempty" gorm:"foreignKey:SubCategoryID"`
	Tags        []Tag        `json:"tags,omitempty" gorm:"many2many:course_tag"`
	Videos      []Video      `json:"videos,omitempty" gorm:"foreignKey:CourseID"`
}

// ChargeAmount is what a student pays: the discount price when present, the list price otherwise.
func (c Course) ChargeAmount() float64 {
	if c.DiscountPrice != nil {
		return *c.DiscountPrice
	}
	return c.Price
}

type Video struct {
	Model
	CourseID      uint   `json:"course_id" gorm:"index;not null"`
	Title         string `json:"title" gorm:"not null"`
	Description   string `json:"description,omitempty" gorm:"type:text"`
	URL           string `json:"url" gorm:"not null"`
	Duration      int    `json:"duration" gorm:"default:0"` // seconds
	Order         int    `json:"order" gorm:"column:sort_order;default:0;index"`
	IsFreePreview bool   `json:"is_free_preview" gorm:"default:false"`

	Course *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
