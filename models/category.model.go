package models

type Category struct {
	Model
	Name        string `json:"name" gorm:"not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null"`
	Description string `json:"description,omitempty" gorm:"type:text"`

	SubCategories []SubCategory `json:"subcategories,omitempty" gorm:"foreignKey:CategoryID"`
}

type SubCategory struct {
	Model
	CategoryID  uint   `json:"category_id" gorm:"index;not null"`
	Name        string `json:"name" gorm:"not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null"`
	Description string `json:"description,omitempty" gorm:"type:text"`

	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

func (SubCategory) TableName() string {
	return "sub_categories"
}

type Tag struct {
	Model
	Name string `json:"name" gorm:"uniqueIndex;not null"`
	Slug string `json:"slug" gorm:"uniqueIndex;not null"`
}
