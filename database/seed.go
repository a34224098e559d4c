package database

import (
	"errors"
	"fmt"

	"coursehub/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	SaltRound     int
}

// Seed ensures the admin account exists and fills the catalog taxonomy and badge set on an
// empty database. Existing rows are never touched.
func Seed(db *gorm.DB, opts SeedOptions) error {
	if opts.AdminEmail != "" && opts.AdminPassword != "" {
		if err := seedAdmin(db, opts); err != nil {
			return err
		}
	}
	if err := seedCategories(db); err != nil {
		return err
	}
	return seedBadges(db)
}

func seedAdmin(db *gorm.DB, opts SeedOptions) error {
	var existing models.User
	err := db.Where("email = ?", opts.AdminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), opts.SaltRound)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.User{
		Name:     "Administrator",
		Email:    opts.AdminEmail,
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	return db.Create(&admin).Error
}

var defaultCategories = []struct {
	Name, Slug, Description string
	Subs                    [][3]string
}{
	{"Programming", "programming", "Learn programming languages and software development", [][3]string{
		{"Web Development", "web-development", "Learn front-end and back-end web development"},
		{"Mobile Development", "mobile-development", "Learn iOS and Android app development"},
	}},
	{"Design", "design", "Learn graphic design, UX/UI, and more", [][3]string{
		{"Graphic Design", "graphic-design", "Learn graphic design principles and tools"},
		{"UX/UI Design", "ux-ui-design", "Learn user experience and interface design"},
	}},
	{"Business", "business", "Learn business skills, marketing, and entrepreneurship", [][3]string{
		{"Marketing", "marketing", "Learn digital marketing strategies"},
		{"Entrepreneurship", "entrepreneurship", "Learn how to start and grow a business"},
	}},
}

func seedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, c := range defaultCategories {
			category := models.Category{Name: c.Name, Slug: c.Slug, Description: c.Description}
			if err := tx.Create(&category).Error; err != nil {
				return err
			}
			for _, s := range c.Subs {
				sub := models.SubCategory{CategoryID: category.ID, Name: s[0], Slug: s[1], Description: s[2]}
				if err := tx.Create(&sub).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

var defaultBadges = []models.Badge{
	{Name: "Course Completion", Type: models.BadgeTypeStudent,
		Description:  "Awarded to students who complete a course with 100% progress",
		Requirements: datatypes.JSONMap{"courses_completed": 1}},
	{Name: "Fast Learner", Type: models.BadgeTypeStudent,
		Description:  "Awarded to students who complete a course in less than a week",
		Requirements: datatypes.JSONMap{"days_to_complete": 7}},
	{Name: "Knowledge Explorer", Type: models.BadgeTypeStudent,
		Description:  "Awarded to students who enroll in courses from at least 3 different categories",
		Requirements: datatypes.JSONMap{"different_categories": 3}},
	{Name: "Course Creator", Type: models.BadgeTypeMentor,
		Description:  "Awarded to mentors who create at least 5 courses",
		Requirements: datatypes.JSONMap{"courses_created": 5}},
	{Name: "Popular Mentor", Type: models.BadgeTypeMentor,
		Description:  "Awarded to mentors who have at least 50 students enrolled in their courses",
		Requirements: datatypes.JSONMap{"students_enrolled": 50}},
}

func seedBadges(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Badge{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	badges := make([]models.Badge, len(defaultBadges))
	copy(badges, defaultBadges)
	return db.Create(&badges).Error
}
