package database

import (
	"testing"

	"coursehub/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestActiveEnrollmentIndexSQL(t *testing.T) {
	mysqlStmts := activeEnrollmentIndexSQL("mysql")
	require.Len(t, mysqlStmts, 2)
	assert.Contains(t, mysqlStmts[0], "active_key")
	assert.Contains(t, mysqlStmts[0], "IF(is_deleted, NULL, 1)")
	assert.Contains(t, mysqlStmts[1], "(student_id, course_id, active_key)")
	for _, stmt := range mysqlStmts {
		assert.NotContains(t, stmt, "WHERE")
	}

	for _, dialect := range []string{"postgres", "sqlite"} {
		stmts := activeEnrollmentIndexSQL(dialect)
		require.Len(t, stmts, 1, dialect)
		assert.Contains(t, stmts[0], "WHERE is_deleted = false", dialect)
	}
}

func TestMigrateKeepsOneLiveEnrollmentPerPair(t *testing.T) {
	db, err := Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db), "migrations run on every start")
	// The rows below reference no real students or courses.
	require.NoError(t, db.Exec("PRAGMA foreign_keys = OFF").Error)

	first := &models.Enrollment{StudentID: 1, CourseID: 1, Status: models.EnrollmentApproved}
	require.NoError(t, db.Create(first).Error)

	err = db.Create(&models.Enrollment{StudentID: 1, CourseID: 1, Status: models.EnrollmentPending}).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	require.NoError(t, db.Model(first).Update("is_deleted", true).Error)
	assert.NoError(t, db.Create(&models.Enrollment{StudentID: 1, CourseID: 1, Status: models.EnrollmentPending}).Error)
}
