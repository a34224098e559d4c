package policy

import (
	"testing"

	"coursehub/apperr"
	"coursehub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	adminActor   = Actor{UserID: 1, Role: models.RoleAdmin}
	ownerMentor  = Actor{UserID: 2, Role: models.RoleMentor, MentorID: 10}
	otherMentor  = Actor{UserID: 3, Role: models.RoleMentor, MentorID: 11}
	student      = Actor{UserID: 4, Role: models.RoleStudent, StudentID: 20}
	otherStudent = Actor{UserID: 5, Role: models.RoleStudent, StudentID: 21}
	bareStudent  = Actor{UserID: 6, Role: models.RoleStudent}
)

func TestEnrollmentStatusOnlyAdminOrCourseMentor(t *testing.T) {
	res := Resource{MentorID: 10, StudentID: 20}

	assert.True(t, adminActor.Can(EnrollmentSetStatus, res))
	assert.True(t, ownerMentor.Can(EnrollmentSetStatus, res))
	assert.False(t, otherMentor.Can(EnrollmentSetStatus, res))
	assert.False(t, student.Can(EnrollmentSetStatus, res))

	err := otherMentor.Authorize(EnrollmentSetStatus, res)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestEnrollmentProgressOnlyAdminOrEnrolledStudent(t *testing.T) {
	res := Resource{MentorID: 10, StudentID: 20}

	assert.True(t, adminActor.Can(EnrollmentProgress, res))
	assert.True(t, student.Can(EnrollmentProgress, res))
	assert.False(t, otherStudent.Can(EnrollmentProgress, res))
	assert.False(t, ownerMentor.Can(EnrollmentProgress, res))
}

func TestEnrollmentDeleteAllowsAllThreeParties(t *testing.T) {
	res := Resource{MentorID: 10, StudentID: 20}

	for _, a := range []Actor{adminActor, ownerMentor, student} {
		assert.NoError(t, a.Authorize(EnrollmentDelete, res))
	}
	assert.Error(t, otherMentor.Authorize(EnrollmentDelete, res))
	assert.Error(t, otherStudent.Authorize(EnrollmentDelete, res))
}

func TestCreateActionsRequireProfile(t *testing.T) {
	assert.True(t, student.Can(EnrollmentCreate, Resource{}))
	assert.False(t, bareStudent.Can(EnrollmentCreate, Resource{}))
	assert.False(t, adminActor.Can(EnrollmentCreate, Resource{}))

	assert.True(t, ownerMentor.Can(CourseCreate, Resource{}))
	assert.False(t, Actor{Role: models.RoleMentor}.Can(CourseCreate, Resource{}))
	assert.True(t, adminActor.Can(CourseCreate, Resource{}))
}

func TestOwnerRuleComparesUserIDs(t *testing.T) {
	res := Resource{OwnerUserID: 4}
	assert.True(t, student.Can(PaymentView, res))
	assert.False(t, otherStudent.Can(PaymentView, res))
	assert.False(t, otherStudent.Can(PaymentView, Resource{}))
}

func TestUnknownActionDenied(t *testing.T) {
	err := adminActor.Authorize(Action("nope"), Resource{})
	require.Error(t, err)
	assert.Equal(t, "You do not have permission to access this resource!", err.Error())
}

func TestFromUserIgnoresTrashedProfiles(t *testing.T) {
	u := &models.User{
		Model:   models.Model{ID: 9},
		Role:    models.RoleStudent,
		Student: &models.Student{Model: models.Model{ID: 30, IsDeleted: true}},
	}
	a := FromUser(u)
	assert.Equal(t, uint(9), a.UserID)
	assert.Zero(t, a.StudentID)
}
