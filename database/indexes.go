package database

import (
	"fmt"

	"coursehub/models"

	"gorm.io/gorm"
)

const activeEnrollmentIndex = "idx_enrollments_student_course"

// activeEnrollmentIndexSQL returns the statements that keep one live enrollment per student
// and course. MySQL has no partial indexes, so it indexes a generated column that is NULL on
// trashed rows; NULLs never collide in a unique index.
func activeEnrollmentIndexSQL(dialect string) []string {
	if dialect == "mysql" {
		return []string{
			"ALTER TABLE enrollments ADD COLUMN active_key TINYINT AS (IF(is_deleted, NULL, 1)) VIRTUAL",
			"CREATE UNIQUE INDEX " + activeEnrollmentIndex + " ON enrollments (student_id, course_id, active_key)",
		}
	}
	return []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS " + activeEnrollmentIndex + " ON enrollments (student_id, course_id) WHERE is_deleted = false",
	}
}

func ensureActiveEnrollmentIndex(db *gorm.DB) error {
	dialect := db.Dialector.Name()
	stmts := activeEnrollmentIndexSQL(dialect)
	if dialect != "mysql" {
		for _, stmt := range stmts {
			if err := db.Exec(stmt).Error; err != nil {
				return fmt.Errorf("create %s: %w", activeEnrollmentIndex, err)
			}
		}
		return nil
	}

	m := db.Migrator()
	if !m.HasColumn(&models.Enrollment{}, "active_key") {
		// An index from before active_key existed covers trashed rows too.
		if m.HasIndex(&models.Enrollment{}, activeEnrollmentIndex) {
			if err := m.DropIndex(&models.Enrollment{}, activeEnrollmentIndex); err != nil {
				return fmt.Errorf("drop %s: %w", activeEnrollmentIndex, err)
			}
		}
		if err := db.Exec(stmts[0]).Error; err != nil {
			return fmt.Errorf("add enrollments.active_key: %w", err)
		}
	}
	if !m.HasIndex(&models.Enrollment{}, activeEnrollmentIndex) {
		if err := db.Exec(stmts[1]).Error; err != nil {
			return fmt.Errorf("create %s: %w", activeEnrollmentIndex, err)
		}
	}
	return nil
}
