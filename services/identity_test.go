package services

import (
	"testing"
	"time"

	"coursehub/apperr"
	"coursehub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.identity.Register(env.ctx, RegisterInput{
		Name: "Nadia", Email: "  Nadia@Example.com ", Password: "correct-horse", Role: models.RoleStudent,
	})
	require.NoError(t, err)
	assert.Equal(t, "nadia@example.com", res.User.Email)
	assert.NotEqual(t, "correct-horse", res.User.Password)
	assert.Equal(t, "bearer", res.TokenType)
	require.Len(t, env.outbox.Messages, 1)
	assert.Equal(t, "Welcome to CourseHub", env.outbox.Messages[0].Subject)

	_, err = env.identity.Register(env.ctx, RegisterInput{
		Name: "Other", Email: "nadia@example.com", Password: "whatever1", Role: models.RoleMentor,
	})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = env.identity.Register(env.ctx, RegisterInput{
		Name: "Root", Email: "root@example.com", Password: "whatever1", Role: models.RoleAdmin,
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = env.identity.Login(env.ctx, "nadia@example.com", "wrong")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	_, err = env.identity.Login(env.ctx, "nobody@example.com", "correct-horse")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	login, err := env.identity.Login(env.ctx, "nadia@example.com", "correct-horse")
	require.NoError(t, err)
	require.NotNil(t, login.User.LastActiveAt)

	actor, claims, err := env.identity.Authenticate(env.ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, actor.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.Zero(t, actor.StudentID)
}

func TestRefreshAndLogoutRevokeTokens(t *testing.T) {
	env := newTestEnv(t)
	res, err := env.identity.Register(env.ctx, RegisterInput{
		Name: "Omar", Email: "omar@example.com", Password: "secret-password", Role: models.RoleMentor,
	})
	require.NoError(t, err)

	_, claims, err := env.identity.Authenticate(env.ctx, res.Token)
	require.NoError(t, err)

	refreshed, err := env.identity.Refresh(env.ctx, claims)
	require.NoError(t, err)
	assert.NotEqual(t, res.Token, refreshed.Token)

	_, _, err = env.identity.Authenticate(env.ctx, res.Token)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	_, fresh, err := env.identity.Authenticate(env.ctx, refreshed.Token)
	require.NoError(t, err)
	require.NoError(t, env.identity.Logout(env.ctx, fresh))
	_, _, err = env.identity.Authenticate(env.ctx, refreshed.Token)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	// Revocations outlive their tokens only until the purge.
	env.identity.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	purged, err := env.identity.PurgeRevokedTokens(env.ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, purged)
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.identity.Authenticate(env.ctx, "not-a-token")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	other := NewIdentityService(env.users, nil, env.log(), IdentityConfig{JWTSecret: "other-secret"})
	user := &models.User{Name: "Eve", Email: "eve@example.com", Password: "x", Role: models.RoleStudent}
	require.NoError(t, env.users.Create(env.ctx, user))
	forged, err := other.issue(user)
	require.NoError(t, err)

	_, _, err = env.identity.Authenticate(env.ctx, forged.Token)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestActorCarriesLiveProfiles(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	mentor := env.mentor(t, "Mara")
	require.NotZero(t, mentor.MentorID)

	_, err := env.profiles.CreateMentor(env.ctx, mentor, MentorInput{Speciality: ptr("Rust")})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	student := env.student(t, "Sam")
	_, err = env.profiles.CreateMentor(env.ctx, student, MentorInput{})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = env.profiles.UpdateMentor(env.ctx, student, mentor.MentorID, MentorInput{Speciality: ptr("Hijacked")})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	updated, err := env.profiles.UpdateMentor(env.ctx, mentor, mentor.MentorID, MentorInput{Skills: &[]string{"go", "sql"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sql"}, []string(updated.Skills))

	require.NoError(t, env.profiles.DeleteMentor(env.ctx, admin, mentor.MentorID))
	after := env.actor(t, mentor.UserID)
	assert.Zero(t, after.MentorID)

	_, err = env.profiles.MentorByUser(env.ctx, mentor.UserID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
