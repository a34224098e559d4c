package services

import (
	"testing"

	"coursehub/apperr"
	"coursehub/models"
	"coursehub/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countOf(counts []repositories.KeyCount, label string) int64 {
	for _, c := range counts {
		if c.Label == label {
			return c.Total
		}
	}
	return 0
}

func TestStatisticsScopesAndRevenue(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	m1 := env.mentor(t, "One")
	m2 := env.mentor(t, "Two")
	s1 := env.student(t, "Ann")
	s2 := env.student(t, "Ben")
	cat := env.category(t, admin, "Business")
	paid := env.course(t, m1, cat.ID, "Accounting", 25, nil)
	free := env.course(t, m2, cat.ID, "Budgeting", 0, nil)

	// One confirmed payment, one abandoned checkout.
	res, err := env.payments.Checkout(env.ctx, s1, paid.ID)
	require.NoError(t, err)
	env.provider.markPaid(res.SessionID)
	_, err = env.payments.HandleSuccess(env.ctx, res.SessionID)
	require.NoError(t, err)
	_, err = env.payments.Checkout(env.ctx, s2, paid.ID)
	require.NoError(t, err)

	e, err := env.enrollments.Enroll(env.ctx, s2, free.ID)
	require.NoError(t, err)
	_, err = env.enrollments.UpdateProgress(env.ctx, s2, e.ID, 100, nil)
	require.NoError(t, err)

	dash, err := env.stats.Dashboard(env.ctx, admin)
	require.NoError(t, err)
	require.NotNil(t, dash.Users)
	assert.EqualValues(t, 5, dash.Users.Total)
	assert.EqualValues(t, 2, countOf(dash.Users.ByRole, string(models.RoleMentor)))
	assert.EqualValues(t, 2, dash.Courses.Total)
	assert.EqualValues(t, 2, dash.Enrollments.Total)
	assert.EqualValues(t, 1, dash.Enrollments.Completed)
	assert.Equal(t, 50.0, dash.Enrollments.CompletionRate)
	assert.Equal(t, 25.0, dash.Revenue.Total)
	assert.EqualValues(t, 1, dash.Revenue.Transactions)
	assert.Equal(t, 25.0, dash.Revenue.ThisMonth)
	assert.Len(t, dash.RecentEnrollments, 2)
	require.Len(t, dash.PopularCourses, 2)

	mine, err := env.stats.Dashboard(env.ctx, m2)
	require.NoError(t, err)
	assert.Nil(t, mine.Users)
	assert.EqualValues(t, 1, mine.Courses.Total)
	assert.EqualValues(t, 1, mine.Enrollments.Total)
	assert.Equal(t, 100.0, mine.Enrollments.CompletionRate)
	assert.Zero(t, mine.Revenue.Total)

	revenue, err := env.stats.Revenue(env.ctx, m1)
	require.NoError(t, err)
	assert.Equal(t, 25.0, revenue.Total)
	require.Len(t, revenue.ByCourse, 1)
	assert.Equal(t, paid.ID, revenue.ByCourse[0].CourseID)
	assert.Equal(t, "Accounting", revenue.ByCourse[0].Title)

	_, err = env.stats.Dashboard(env.ctx, s1)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	_, err = env.stats.Users(env.ctx, m1)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestStatisticsAreCachedPerScope(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	mentor := env.mentor(t, "Mara")
	student := env.student(t, "Sam")
	cat := env.category(t, admin, "Business")
	c := env.course(t, mentor, cat.ID, "Accounting", 0, nil)

	before, err := env.stats.Enrollments(env.ctx, admin)
	require.NoError(t, err)
	assert.Zero(t, before.Total)

	_, err = env.enrollments.Enroll(env.ctx, student, c.ID)
	require.NoError(t, err)

	cached, err := env.stats.Enrollments(env.ctx, admin)
	require.NoError(t, err)
	assert.Zero(t, cached.Total)

	scoped, err := env.stats.Enrollments(env.ctx, mentor)
	require.NoError(t, err)
	assert.EqualValues(t, 1, scoped.Total)
}

func TestBadgeStatistics(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	student := env.student(t, "Sam")
	mentor := env.mentor(t, "Mara")
	sb := env.badge(t, admin, "Fast Learner", models.BadgeTypeStudent)
	mb := env.badge(t, admin, "Top Mentor", models.BadgeTypeMentor)
	env.badge(t, admin, "Unused", models.BadgeTypeStudent)

	_, err := env.badges.AwardToStudent(env.ctx, admin, sb.ID, student.StudentID)
	require.NoError(t, err)
	_, err = env.badges.AwardToMentor(env.ctx, admin, mb.ID, mentor.MentorID)
	require.NoError(t, err)

	stats, err := env.stats.Badges(env.ctx, admin)
	require.NoError(t, err)
	assert.EqualValues(t, 2, countOf(stats.ByType, string(models.BadgeTypeStudent)))
	assert.EqualValues(t, 1, countOf(stats.ByType, string(models.BadgeTypeMentor)))
	assert.EqualValues(t, 1, stats.StudentAwards)
	assert.EqualValues(t, 1, stats.MentorAwards)
	require.Len(t, stats.TopStudents, 1)
	assert.Equal(t, "Sam", stats.TopStudents[0].Name)
	assert.Equal(t, 1, stats.TopStudents[0].BadgeCount)
}

func TestArchiveRestoreAndPurge(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	mentor := env.mentor(t, "Mara")
	cat := env.category(t, admin, "Business")
	c := env.course(t, mentor, cat.ID, "Accounting", 10, nil)
	archive := NewArchiveService[models.Course](env.courseRepo, env.log())

	require.NoError(t, env.courses.Delete(env.ctx, mentor, c.ID))

	_, err := archive.Trashed(env.ctx, mentor)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	trashed, err := archive.Trashed(env.ctx, admin)
	require.NoError(t, err)
	require.Len(t, trashed, 1)
	assert.Equal(t, c.ID, trashed[0].ID)

	restored, err := archive.Restore(env.ctx, admin, c.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)
	_, err = env.courses.Get(env.ctx, c.ID)
	require.NoError(t, err)

	_, err = archive.Restore(env.ctx, admin, c.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, archive.Purge(env.ctx, admin, c.ID))
	_, err = env.courseRepo.FindTrashedByID(env.ctx, c.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = env.courses.Get(env.ctx, c.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
