package routers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"coursehub/cache"
	"coursehub/checkout"
	"coursehub/database"
	"coursehub/logger"
	"coursehub/mailer"
	"coursehub/middleware"
	"coursehub/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type stubProvider struct{ seq int }

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) CreateSession(_ context.Context, req checkout.SessionRequest) (*checkout.Session, error) {
	p.seq++
	id := fmt.Sprintf("cs_http_%d", p.seq)
	return &checkout.Session{ID: id, URL: "https://checkout.test/" + id, PaymentStatus: checkout.PaymentStatusUnpaid, Metadata: req.Metadata}, nil
}

func (p *stubProvider) RetrieveSession(_ context.Context, id string) (*checkout.Session, error) {
	return &checkout.Session{ID: id, PaymentStatus: checkout.PaymentStatusPaid, PaymentMethod: "card"}, nil
}

const (
	adminEmail    = "admin@coursehub.test"
	adminPassword = "admin-password"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := database.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.Seed(db, database.SeedOptions{
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
		SaltRound:     bcrypt.MinCost,
	}))

	log := logger.Nop()
	svc := services.NewContainer(services.Deps{
		DB:       db,
		Provider: &stubProvider{},
		Mail:     mailer.NewWithSender(&mailer.Outbox{}, "CourseHub", false, log),
		Cache:    cache.NewMemory(),
		Log:      log,
		Identity: services.IdentityConfig{JWTSecret: "http-secret", TokenTTL: time.Hour, SaltRound: bcrypt.MinCost},
		Payment: services.PaymentConfig{
			SuccessURL: "http://localhost/api/v1/payments/success?session_id={CHECKOUT_SESSION_ID}",
			CancelURL:  "http://localhost/api/v1/payments/cancel?session_id={CHECKOUT_SESSION_ID}",
			Currency:   "usd",
		},
	})

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(log)})
	Setup(app, svc)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func register(t *testing.T, app *fiber.App, name, role string) string {
	t.Helper()
	status, body := call(t, app, "POST", "/api/v1/auth/register", "", fiber.Map{
		"name":     name,
		"email":    name + "@coursehub.test",
		"password": "secret-password",
		"role":     role,
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	return body["access_token"].(string)
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	status, body := call(t, app, "POST", "/api/v1/auth/login", "", fiber.Map{"email": email, "password": password})
	require.Equal(t, fiber.StatusOK, status, body)
	return body["access_token"].(string)
}

func TestAuthEnvelopes(t *testing.T) {
	app := newTestApp(t)

	status, body := call(t, app, "POST", "/api/v1/auth/register", "", fiber.Map{
		"name": "Short", "email": "not-an-email", "password": "123", "role": "admin",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "Validation failed!", body["message"])
	errs := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
	assert.Contains(t, errs, "role")

	status, _ = call(t, app, "GET", "/api/v1/auth/user", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	token := register(t, app, "mara", "mentor")
	status, body = call(t, app, "GET", "/api/v1/auth/user", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "mara@coursehub.test", body["user"].(map[string]interface{})["email"])

	status, body = call(t, app, "POST", "/api/v1/auth/register", "", fiber.Map{
		"name": "mara", "email": "mara@coursehub.test", "password": "secret-password", "role": "mentor",
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.NotEmpty(t, body["message"])

	status, _ = call(t, app, "POST", "/api/v1/auth/login", "", fiber.Map{"email": "mara@coursehub.test", "password": "wrong-password"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = call(t, app, "POST", "/api/v1/auth/logout", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	status, _ = call(t, app, "GET", "/api/v1/auth/user", token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestCourseEnrollmentOverHTTP(t *testing.T) {
	app := newTestApp(t)
	mentorToken := register(t, app, "mentor", "mentor")
	studentToken := register(t, app, "student", "student")

	status, body := call(t, app, "POST", "/api/v1/mentors", mentorToken, fiber.Map{
		"speciality": "Go", "experience_level": "expert", "skills": []string{"go", "sql"},
	})
	require.Equal(t, fiber.StatusCreated, status, body)

	status, body = call(t, app, "POST", "/api/v1/students", studentToken, fiber.Map{"level": "beginner"})
	require.Equal(t, fiber.StatusCreated, status, body)

	// Profiles change the actor, so the tokens are reused as they are.
	status, body = call(t, app, "GET", "/api/v1/categories", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	categories := body["categories"].([]interface{})
	require.NotEmpty(t, categories)
	categoryID := categories[0].(map[string]interface{})["id"]

	status, body = call(t, app, "POST", "/api/v1/courses", mentorToken, fiber.Map{
		"category_id": categoryID, "title": "Go Basics", "difficulty": "beginner",
		"status": "published", "is_free": false,
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, body["errors"], "price")

	status, body = call(t, app, "POST", "/api/v1/courses", mentorToken, fiber.Map{
		"category_id": categoryID, "title": "Go Basics", "difficulty": "beginner",
		"status": "published", "is_free": true,
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	course := body["course"].(map[string]interface{})
	assert.Equal(t, "go-basics", course["slug"])
	courseID := course["id"]

	status, body = call(t, app, "GET", "/api/v1/courses/featured", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["courses"], 1)

	status, _ = call(t, app, "GET", "/api/v1/courses/abc", studentToken, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, body = call(t, app, "GET", "/api/v1/courses?is_free=true&per_page=5", studentToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	page := body["courses"].(map[string]interface{})
	assert.EqualValues(t, 1, page["total"])
	assert.EqualValues(t, 5, page["per_page"])

	status, body = call(t, app, "POST", "/api/v1/enrollments", studentToken, fiber.Map{"course_id": courseID})
	require.Equal(t, fiber.StatusCreated, status, body)
	enrollment := body["enrollment"].(map[string]interface{})
	assert.Equal(t, "approved", enrollment["status"])

	status, _ = call(t, app, "POST", "/api/v1/enrollments", studentToken, fiber.Map{"course_id": courseID})
	assert.Equal(t, fiber.StatusConflict, status)

	status, body = call(t, app, "PUT", fmt.Sprintf("/api/v1/enrollments/%v", enrollment["id"]), studentToken, fiber.Map{"progress": 150})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, body["errors"], "progress")

	status, body = call(t, app, "PUT", fmt.Sprintf("/api/v1/enrollments/%v", enrollment["id"]), studentToken, fiber.Map{"progress": 40})
	require.Equal(t, fiber.StatusOK, status, body)
	assert.EqualValues(t, 40, body["enrollment"].(map[string]interface{})["progress"])

	status, body = call(t, app, "POST", "/api/v1/payments/checkout", studentToken, fiber.Map{"course_id": courseID})
	assert.Equal(t, fiber.StatusBadRequest, status, body)
}

func TestArchiveAndPublicRoutes(t *testing.T) {
	app := newTestApp(t)
	adminToken := login(t, app, adminEmail, adminPassword)
	mentorToken := register(t, app, "mentor", "mentor")

	status, body := call(t, app, "POST", "/api/v1/tags", adminToken, fiber.Map{"name": "Concurrency"})
	require.Equal(t, fiber.StatusCreated, status, body)
	tagID := body["tag"].(map[string]interface{})["id"]

	status, _ = call(t, app, "DELETE", fmt.Sprintf("/api/v1/tags/%v", tagID), adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, _ = call(t, app, "GET", "/api/v1/tags/trashed", mentorToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = call(t, app, "GET", "/api/v1/tags/trashed", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["tags"], 1)

	status, body = call(t, app, "POST", fmt.Sprintf("/api/v1/tags/%v/restore", tagID), adminToken, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "Concurrency", body["tag"].(map[string]interface{})["name"])

	status, body = call(t, app, "GET", "/api/v1/tags/search?name=c", adminToken, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, body["errors"], "name")

	status, _ = call(t, app, "GET", "/api/v1/payments/success", "", nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, _ = call(t, app, "GET", "/api/v1/payments/success?session_id=cs_unknown", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = call(t, app, "GET", "/api/v1/nowhere", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Route not found!", body["message"])
}
