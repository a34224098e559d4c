package services

import (
	"errors"
	"testing"
	"time"

	"coursehub/apperr"
	"coursehub/checkout"
	"coursehub/events"
	"coursehub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCheckoutChargesDiscountInMinorUnits(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	mentor := env.mentor(t, "Mara")
	student := env.student(t, "Sam")
	course := env.course(t, mentor, env.category(t, admin, "Business").ID, "Marketing 101", 50, ptr(40.0))

	res, err := env.payments.Checkout(env.ctx, student, course.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, res.CheckoutURL)

	require.Len(t, env.provider.requests, 1)
	req := env.provider.requests[0]
	require.Len(t, req.Items, 1)
	assert.Equal(t, int64(4000), req.Items[0].UnitAmount)
	assert.Equal(t, int64(1), req.Items[0].Quantity)
	assert.Equal(t, "Marketing 101", req.Items[0].Name)
	assert.Equal(t, "usd", req.Currency)

	payment, err := env.paymentRepo.FindByPaymentID(env.ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 40.0, payment.Amount)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.Equal(t, "fake", payment.Provider)
	assert.Nil(t, payment.ConfirmedAt)
}

func TestCheckoutGuards(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	mentor := env.mentor(t, "Mara")
	student := env.student(t, "Sam")
	cat := env.category(t, admin, "Business")
	free := env.course(t, mentor, cat.ID, "Free Course", 0, nil)
	paid := env.course(t, mentor, cat.ID, "Paid Course", 20, nil)

	_, err := env.payments.Checkout(env.ctx, mentor, paid.ID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = env.payments.Checkout(env.ctx, student, 9999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = env.payments.Checkout(env.ctx, student, free.ID)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))

	_, err = env.enrollments.Enroll(env.ctx, student, paid.ID)
	require.NoError(t, err)
	_, err = env.payments.Checkout(env.ctx, student, paid.ID)
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	assert.Empty(t, env.provider.requests)
}

func TestCheckoutProviderFailureWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	mentor := env.mentor(t, "Mara")
	student := env.student(t, "Sam")
	course := env.course(t, mentor, env.category(t, admin, "Business").ID, "Finance", 25, nil)

	env.provider.createErr = &checkout.ProviderError{Provider: "fake", Status: 400, Message: "Invalid API Key provided"}

	_, err := env.payments.Checkout(env.ctx, student, course.ID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindExternal))
	assert.Contains(t, err.Error(), "Invalid API Key provided")

	payments, err := env.payments.List(env.ctx, admin)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestHandleSuccessPaidGrantsAccess(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	mentor := env.mentor(t, "Mara")
	student := env.student(t, "Sam")
	course := env.course(t, mentor, env.category(t, admin, "Business").ID, "Finance", 25, nil)

	res, err := env.payments.Checkout(env.ctx, student, course.ID)
	require.NoError(t, err)
	env.provider.markPaid(res.SessionID)

	payment, err := env.payments.HandleSuccess(env.ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	require.NotNil(t, payment.ConfirmedAt)
	assert.Equal(t, "card", payment.PaymentMethod)
	assert.Contains(t, payment.ReceiptURL, res.SessionID)

	enrollment, err := env.enrollRepo.FindActive(env.ctx, student.StudentID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentApproved, enrollment.Status)
	assert.Contains(t, env.events.Types(), events.PaymentCompleted)

	last := env.outbox.Messages[len(env.outbox.Messages)-1]
	assert.Equal(t, "Payment Confirmed: Finance", last.Subject)

	// A second redirect is harmless.
	again, err := env.payments.HandleSuccess(env.ctx, res.SessionID)
	require.NoError(t, err)
	assert.True(t, payment.ConfirmedAt.Equal(*again.ConfirmedAt))
}

func TestHandleSuccessApprovesPendingEnrollment(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	mentor := env.mentor(t, "Mara")
	student := env.student(t, "Sam")
	course := env.course(t, mentor, env.category(t, admin, "Business").ID, "Finance", 25, nil)

	// Payment created while no enrollment existed; the student enrolls before paying.
	res, err := env.payments.Checkout(env.ctx, student, course.ID)
	require.NoError(t, err)
	pending, err := env.enrollments.Enroll(env.ctx, student, course.ID)
	require.NoError(t, err)
	require.Equal(t, models.EnrollmentPending, pending.Status)

	env.provider.markPaid(res.SessionID)
	_, err = env.payments.HandleSuccess(env.ctx, res.SessionID)
	require.NoError(t, err)

	enrollment, err := env.enrollRepo.FindByID(env.ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentApproved, enrollment.Status)
}

func TestHandleSuccessUnpaidThenReconcile(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	mentor := env.mentor(t, "Mara")
	student := env.student(t, "Sam")
	course := env.course(t, mentor, env.category(t, admin, "Business").ID, "Finance", 25, nil)

	res, err := env.payments.Checkout(env.ctx, student, course.ID)
	require.NoError(t, err)

	payment, err := env.payments.HandleSuccess(env.ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	assert.Nil(t, payment.ConfirmedAt)

	enrolled, err := env.enrollRepo.IsEnrolled(env.ctx, student.StudentID, course.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)

	env.provider.markPaid(res.SessionID)
	env.payments.now = func() time.Time { return time.Now().Add(time.Hour) }

	confirmed, err := env.payments.Reconcile(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, confirmed)

	enrolled, err = env.enrollRepo.IsEnrolled(env.ctx, student.StudentID, course.ID)
	require.NoError(t, err)
	assert.True(t, enrolled)

	confirmed, err = env.payments.Reconcile(env.ctx)
	require.NoError(t, err)
	assert.Zero(t, confirmed)
}

func TestHandleSuccessGrantFailureLeavesPaymentUnconfirmed(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	mentor := env.mentor(t, "Mara")
	student := env.student(t, "Sam")
	course := env.course(t, mentor, env.category(t, admin, "Business").ID, "Finance", 25, nil)

	res, err := env.payments.Checkout(env.ctx, student, course.ID)
	require.NoError(t, err)
	env.provider.markPaid(res.SessionID)

	const failEnrollments = "test:fail_enrollments"
	require.NoError(t, env.db.Callback().Create().Before("gorm:create").Register(failEnrollments, func(tx *gorm.DB) {
		if tx.Statement.Table == "enrollments" {
			_ = tx.AddError(errors.New("transient db error"))
		}
	}))

	_, err = env.payments.HandleSuccess(env.ctx, res.SessionID)
	require.Error(t, err)

	payment, err := env.paymentRepo.FindByPaymentID(env.ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	assert.Nil(t, payment.ConfirmedAt)
	assert.NotContains(t, env.events.Types(), events.PaymentCompleted)

	require.NoError(t, env.db.Callback().Create().Remove(failEnrollments))

	env.payments.now = func() time.Time { return time.Now().Add(time.Hour) }
	confirmed, err := env.payments.Reconcile(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, confirmed)

	enrollment, err := env.enrollRepo.FindActive(env.ctx, student.StudentID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentApproved, enrollment.Status)

	payment, err = env.payments.HandleSuccess(env.ctx, res.SessionID)
	require.NoError(t, err)
	assert.NotNil(t, payment.ConfirmedAt)
}

func TestHandleSuccessRetryAfterGrantFailure(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	mentor := env.mentor(t, "Mara")
	student := env.student(t, "Sam")
	course := env.course(t, mentor, env.category(t, admin, "Business").ID, "Finance", 25, nil)

	res, err := env.payments.Checkout(env.ctx, student, course.ID)
	require.NoError(t, err)
	env.provider.markPaid(res.SessionID)

	const failEnrollments = "test:fail_enrollments_retry"
	require.NoError(t, env.db.Callback().Create().Before("gorm:create").Register(failEnrollments, func(tx *gorm.DB) {
		if tx.Statement.Table == "enrollments" {
			_ = tx.AddError(errors.New("transient db error"))
		}
	}))
	_, err = env.payments.HandleSuccess(env.ctx, res.SessionID)
	require.Error(t, err)
	require.NoError(t, env.db.Callback().Create().Remove(failEnrollments))

	payment, err := env.payments.HandleSuccess(env.ctx, res.SessionID)
	require.NoError(t, err)
	require.NotNil(t, payment.ConfirmedAt)

	enrolled, err := env.enrollRepo.IsEnrolled(env.ctx, student.StudentID, course.ID)
	require.NoError(t, err)
	assert.True(t, enrolled)
}

func TestHandleSuccessProviderErrorKeepsCompleted(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	mentor := env.mentor(t, "Mara")
	student := env.student(t, "Sam")
	course := env.course(t, mentor, env.category(t, admin, "Business").ID, "Finance", 25, nil)

	res, err := env.payments.Checkout(env.ctx, student, course.ID)
	require.NoError(t, err)

	env.provider.retrieveErr = &checkout.ProviderError{Provider: "fake", Status: 503, Message: "upstream unavailable"}
	_, err = env.payments.HandleSuccess(env.ctx, res.SessionID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindExternal))

	payment, err := env.paymentRepo.FindByPaymentID(env.ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	assert.Nil(t, payment.ConfirmedAt)
}

func TestHandleCancelAndUnknownSession(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	mentor := env.mentor(t, "Mara")
	student := env.student(t, "Sam")
	course := env.course(t, mentor, env.category(t, admin, "Business").ID, "Finance", 25, nil)

	_, err := env.payments.HandleSuccess(env.ctx, "cs_missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = env.payments.HandleCancel(env.ctx, "cs_missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	res, err := env.payments.Checkout(env.ctx, student, course.ID)
	require.NoError(t, err)
	payment, err := env.payments.HandleCancel(env.ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, payment.Status)
	assert.Contains(t, env.events.Types(), events.PaymentFailed)
}

func TestPaymentQueriesAreScoped(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	mentor := env.mentor(t, "Mara")
	other := env.mentor(t, "Other")
	s1 := env.student(t, "Ann")
	s2 := env.student(t, "Ben")
	course := env.course(t, mentor, env.category(t, admin, "Business").ID, "Finance", 25, nil)

	r1, err := env.payments.Checkout(env.ctx, s1, course.ID)
	require.NoError(t, err)
	_, err = env.payments.Checkout(env.ctx, s2, course.ID)
	require.NoError(t, err)

	all, err := env.payments.List(env.ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := env.payments.History(env.ctx, s1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, r1.SessionID, mine[0].PaymentID)

	_, err = env.payments.Get(env.ctx, s2, mine[0].ID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	byCourse, err := env.payments.ByCourse(env.ctx, mentor, course.ID)
	require.NoError(t, err)
	assert.Len(t, byCourse, 2)
	_, err = env.payments.ByCourse(env.ctx, other, course.ID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = env.payments.ByStatus(env.ctx, s1, models.PaymentStatusPending)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	_, err = env.payments.ByStatus(env.ctx, admin, "lost")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	pending, err := env.payments.ByStatus(env.ctx, admin, models.PaymentStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}
