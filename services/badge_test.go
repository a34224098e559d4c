package services

import (
	"testing"

	"coursehub/apperr"
	"coursehub/events"
	"coursehub/models"
	"coursehub/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) badge(t *testing.T, admin policy.Actor, name string, typ models.BadgeType) *models.Badge {
	t.Helper()
	b, err := e.badges.Create(e.ctx, admin, BadgeInput{Name: ptr(name), Type: ptr(typ)})
	require.NoError(t, err)
	return b
}

func (e *testEnv) badgeCount(t *testing.T, studentID uint) int {
	t.Helper()
	s, err := e.students.FindByID(e.ctx, studentID)
	require.NoError(t, err)
	return s.BadgeCount
}

func TestAwardBadgeTypeMustMatchHolder(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	student := env.student(t, "Sam")
	mentor := env.mentor(t, "Mara")
	mentorBadge := env.badge(t, admin, "Top Mentor", models.BadgeTypeMentor)
	studentBadge := env.badge(t, admin, "Fast Learner", models.BadgeTypeStudent)

	_, err := env.badges.AwardToStudent(env.ctx, admin, mentorBadge.ID, student.StudentID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
	assert.Equal(t, 0, env.badgeCount(t, student.StudentID))

	_, err = env.badges.AwardToMentor(env.ctx, admin, studentBadge.ID, mentor.MentorID)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))

	has, err := env.badges.StudentHasBadge(env.ctx, student.StudentID, mentorBadge.ID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestAwardIsIdempotentAndAnnouncedOnce(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	student := env.student(t, "Sam")
	b := env.badge(t, admin, "Fast Learner", models.BadgeTypeStudent)
	mailsBefore := len(env.outbox.Messages)

	s, err := env.badges.AwardToStudent(env.ctx, admin, b.ID, student.StudentID)
	require.NoError(t, err)
	assert.Equal(t, 1, s.BadgeCount)

	s, err = env.badges.AwardToStudent(env.ctx, admin, b.ID, student.StudentID)
	require.NoError(t, err)
	assert.Equal(t, 1, s.BadgeCount)

	assert.Equal(t, []string{events.BadgeAwarded}, env.events.Types())
	require.Len(t, env.outbox.Messages, mailsBefore+1)
	assert.Equal(t, "New Badge: Fast Learner", env.outbox.Messages[mailsBefore].Subject)
}

func TestBadgeCountFollowsBadgeLifecycle(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	student := env.student(t, "Sam")
	b1 := env.badge(t, admin, "First Steps", models.BadgeTypeStudent)
	b2 := env.badge(t, admin, "Streak", models.BadgeTypeStudent)

	_, err := env.badges.AwardToStudent(env.ctx, admin, b1.ID, student.StudentID)
	require.NoError(t, err)
	_, err = env.badges.AwardToStudent(env.ctx, admin, b2.ID, student.StudentID)
	require.NoError(t, err)
	assert.Equal(t, 2, env.badgeCount(t, student.StudentID))

	require.NoError(t, env.badges.Delete(env.ctx, admin, b1.ID))
	assert.Equal(t, 1, env.badgeCount(t, student.StudentID))

	archive := NewArchiveService[models.Badge](env.badgeRepo, env.log())
	_, err = archive.Restore(env.ctx, admin, b1.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, env.badgeCount(t, student.StudentID))

	_, err = env.badges.RemoveFromStudent(env.ctx, admin, b2.ID, student.StudentID)
	require.NoError(t, err)
	assert.Equal(t, 1, env.badgeCount(t, student.StudentID))

	require.NoError(t, archive.Purge(env.ctx, admin, b1.ID))
	assert.Equal(t, 0, env.badgeCount(t, student.StudentID))

	_, err = env.badges.Get(env.ctx, b1.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestBadgeTypeLockedOnceAwarded(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	mentor := env.mentor(t, "Mara")
	b := env.badge(t, admin, "Top Mentor", models.BadgeTypeMentor)

	renamed, err := env.badges.Update(env.ctx, admin, b.ID, BadgeInput{Type: ptr(models.BadgeTypeStudent)})
	require.NoError(t, err)
	assert.Equal(t, models.BadgeTypeStudent, renamed.Type)

	_, err = env.badges.Update(env.ctx, admin, b.ID, BadgeInput{Type: ptr(models.BadgeTypeMentor)})
	require.NoError(t, err)
	_, err = env.badges.AwardToMentor(env.ctx, admin, b.ID, mentor.MentorID)
	require.NoError(t, err)

	_, err = env.badges.Update(env.ctx, admin, b.ID, BadgeInput{Type: ptr(models.BadgeTypeStudent)})
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))

	updated, err := env.badges.Update(env.ctx, admin, b.ID, BadgeInput{Description: ptr("Awarded yearly")})
	require.NoError(t, err)
	assert.Equal(t, "Awarded yearly", updated.Description)

	_, err = env.badges.RemoveFromMentor(env.ctx, admin, b.ID, mentor.MentorID)
	require.NoError(t, err)
	has, err := env.badges.MentorHasBadge(env.ctx, mentor.MentorID, b.ID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestBadgeManagementIsAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	mentor := env.mentor(t, "Mara")
	b := env.badge(t, admin, "Top Mentor", models.BadgeTypeMentor)

	_, err := env.badges.Create(env.ctx, mentor, BadgeInput{Name: ptr("Self"), Type: ptr(models.BadgeTypeMentor)})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	_, err = env.badges.AwardToMentor(env.ctx, mentor, b.ID, mentor.MentorID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = env.badges.Create(env.ctx, admin, BadgeInput{Name: ptr("No type")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = env.badges.ByType(env.ctx, "guild")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	mentorBadges, err := env.badges.ByType(env.ctx, models.BadgeTypeMentor)
	require.NoError(t, err)
	assert.Len(t, mentorBadges, 1)
}

func TestStudentProfileShowsBadges(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	student := env.student(t, "Sam")
	b := env.badge(t, admin, "First Steps", models.BadgeTypeStudent)

	_, err := env.badges.AwardToStudent(env.ctx, admin, b.ID, student.StudentID)
	require.NoError(t, err)

	profile, err := env.profiles.GetStudent(env.ctx, student.StudentID)
	require.NoError(t, err)
	require.Len(t, profile.Badges, 1)
	assert.Equal(t, "First Steps", profile.Badges[0].Name)
	require.NotNil(t, profile.Badges[0].EarnedAt)

	top, err := env.profiles.TopStudents(env.ctx)
	require.NoError(t, err)
	require.NotEmpty(t, top)
	assert.Equal(t, student.StudentID, top[0].ID)
}
