package services

import (
	"context"
	"strconv"
	"time"

	"coursehub/apperr"
	"coursehub/checkout"
	"coursehub/events"
	"coursehub/logger"
	"coursehub/mailer"
	"coursehub/models"
	"coursehub/policy"
	"coursehub/repositories"
)

const reconcileBatchSize = 50

type PaymentConfig struct {
	SuccessURL     string
	CancelURL      string
	Currency       string
	ReconcileGrace time.Duration
}

// PaymentService drives the hosted checkout flow. The provider is injected so tests and
// deployments can swap it.
type PaymentService struct {
	payments    *repositories.PaymentRepository
	courses     *repositories.CourseRepository
	students    *repositories.StudentRepository
	enrollments *repositories.EnrollmentRepository
	access      *EnrollmentService
	provider    checkout.Provider
	events      events.Publisher
	mail        *mailer.Mailer
	log         *logger.Logger
	cfg         PaymentConfig
	now         func() time.Time
}

func NewPaymentService(
	payments *repositories.PaymentRepository,
	courses *repositories.CourseRepository,
	students *repositories.StudentRepository,
	enrollments *repositories.EnrollmentRepository,
	access *EnrollmentService,
	provider checkout.Provider,
	publisher events.Publisher,
	mail *mailer.Mailer,
	log *logger.Logger,
	cfg PaymentConfig,
) *PaymentService {
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	if cfg.ReconcileGrace <= 0 {
		cfg.ReconcileGrace = 5 * time.Minute
	}
	return &PaymentService{
		payments:    payments,
		courses:     courses,
		students:    students,
		enrollments: enrollments,
		access:      access,
		provider:    provider,
		events:      publisher,
		mail:        mail,
		log:         log.With("service", "PaymentService", "provider", provider.Name()),
		cfg:         cfg,
		now:         time.Now,
	}
}

type CheckoutResult struct {
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
}

func (s *PaymentService) Checkout(ctx context.Context, actor policy.Actor, courseID uint) (*CheckoutResult, error) {
	if err := actor.Authorize(policy.PaymentCheckout, policy.Resource{}); err != nil {
		return nil, err
	}
	course, err := s.courses.FindByID(ctx, courseID, "Mentor")
	if err != nil {
		return nil, err
	}
	if course.IsFree {
		return nil, apperr.InvalidState("This course is free. Enroll directly instead of paying.")
	}
	enrolled, err := s.enrollments.IsEnrolled(ctx, actor.StudentID, course.ID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, apperr.Conflict("You are already enrolled in this course")
	}

	amount := course.ChargeAmount()
	userID := strconv.FormatUint(uint64(actor.UserID), 10)
	courseRef := strconv.FormatUint(uint64(course.ID), 10)
	session, err := s.provider.CreateSession(ctx, checkout.SessionRequest{
		Currency: s.cfg.Currency,
		Items: []checkout.LineItem{{
			Name:        course.Title,
			Description: course.Description,
			UnitAmount:  checkout.MinorUnits(amount),
			Quantity:    1,
		}},
		SuccessURL:    s.cfg.SuccessURL,
		CancelURL:     s.cfg.CancelURL,
		CustomerName:  actor.Name,
		CustomerEmail: actor.Email,
		Metadata:      map[string]string{"user_id": userID, "course_id": courseRef},
	})
	if err != nil {
		s.log.Error("checkout session failed", "user_id", actor.UserID, "course_id", course.ID, "error", err)
		return nil, apperr.External("Failed to create checkout session", err)
	}

	payment := &models.Payment{
		UserID:    actor.UserID,
		CourseID:  &course.ID,
		PaymentID: session.ID,
		Provider:  s.provider.Name(),
		Amount:    amount,
		Currency:  s.cfg.Currency,
		Status:    models.PaymentStatusPending,
		Metadata:  map[string]interface{}{"user_id": userID, "course_id": courseRef},
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.log.Info("checkout session created", "payment_id", payment.ID, "session_id", session.ID, "amount", amount)
	return &CheckoutResult{CheckoutURL: session.URL, SessionID: session.ID}, nil
}

// HandleSuccess closes a payment after the provider redirect. The payment is marked completed
// before the provider is asked; access is granted only once the provider reports it paid.
func (s *PaymentService) HandleSuccess(ctx context.Context, sessionID string) (*models.Payment, error) {
	payment, err := s.payments.FindByPaymentID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if payment.ConfirmedAt != nil {
		return s.payments.FindByID(ctx, payment.ID)
	}
	if err := s.payments.Updates(ctx, payment.ID, map[string]interface{}{"status": models.PaymentStatusCompleted}); err != nil {
		return nil, err
	}

	session, err := s.provider.RetrieveSession(ctx, sessionID)
	if err != nil {
		s.log.Error("checkout session lookup failed", "payment_id", payment.ID, "session_id", sessionID, "error", err)
		return nil, apperr.External("Failed to verify payment", err)
	}
	if session.Paid() {
		if _, err := s.confirm(ctx, payment, session); err != nil {
			return nil, err
		}
	} else {
		s.log.Warn("payment not paid yet", "payment_id", payment.ID, "session_status", session.PaymentStatus)
	}
	return s.payments.FindByID(ctx, payment.ID)
}

func (s *PaymentService) HandleCancel(ctx context.Context, sessionID string) (*models.Payment, error) {
	payment, err := s.payments.FindByPaymentID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if payment.ConfirmedAt != nil {
		return nil, apperr.InvalidState("Payment has already been confirmed")
	}
	if err := s.payments.Updates(ctx, payment.ID, map[string]interface{}{"status": models.PaymentStatusFailed}); err != nil {
		return nil, err
	}
	payment.Status = models.PaymentStatusFailed

	s.log.Info("payment cancelled", "payment_id", payment.ID, "session_id", sessionID)
	s.publish(ctx, events.PaymentFailed, payment)
	return s.payments.FindByID(ctx, payment.ID)
}

// Reconcile re-checks payments that were closed but never confirmed and confirms the ones
// the provider now reports as paid.
func (s *PaymentService) Reconcile(ctx context.Context) (int, error) {
	pending, err := s.payments.Unconfirmed(ctx, s.now().Add(-s.cfg.ReconcileGrace), reconcileBatchSize)
	if err != nil {
		return 0, err
	}

	confirmed := 0
	for i := range pending {
		payment := &pending[i]
		session, err := s.provider.RetrieveSession(ctx, payment.PaymentID)
		if err != nil {
			s.log.Warn("reconcile lookup failed", "payment_id", payment.ID, "error", err)
			continue
		}
		if !session.Paid() {
			continue
		}
		ok, err := s.confirm(ctx, payment, session)
		if err != nil {
			s.log.Error("reconcile confirm failed", "payment_id", payment.ID, "error", err)
			continue
		}
		if ok {
			confirmed++
		}
	}
	if confirmed > 0 {
		s.log.Info("payments reconciled", "confirmed", confirmed, "checked", len(pending))
	}
	return confirmed, nil
}

// confirm grants access and then stamps confirmed_at. A failed grant leaves the payment
// unconfirmed so the next redirect or reconcile pass retries it; GrantAccess is idempotent.
func (s *PaymentService) confirm(ctx context.Context, payment *models.Payment, session *checkout.Session) (bool, error) {
	var courseTitle string
	if payment.CourseID != nil {
		student, err := s.students.FindByUserID(ctx, payment.UserID)
		switch {
		case err == nil:
			if _, err := s.access.GrantAccess(ctx, student.ID, *payment.CourseID); err != nil {
				return false, err
			}
		case apperr.Is(err, apperr.KindNotFound):
			s.log.Warn("paid by a user without student profile", "payment_id", payment.ID, "user_id", payment.UserID)
		default:
			return false, err
		}
		if course, err := s.courses.FindByID(ctx, *payment.CourseID, "Mentor"); err == nil {
			courseTitle = course.Title
		}
	}

	now := s.now()
	ok, err := s.payments.MarkConfirmed(ctx, payment.ID, session.PaymentMethod, session.ReceiptURL, now)
	if err != nil || !ok {
		return false, err
	}
	payment.Status = models.PaymentStatusCompleted
	payment.PaymentMethod = session.PaymentMethod
	payment.ReceiptURL = session.ReceiptURL
	payment.ConfirmedAt = &now

	s.log.Info("payment confirmed", "payment_id", payment.ID, "amount", payment.Amount)
	s.publish(ctx, events.PaymentCompleted, payment)
	if full, err := s.payments.FindByID(ctx, payment.ID, "User"); err == nil && full.User != nil {
		s.mail.SendPaymentReceipt(full.User.Email, full.User.Name, courseTitle, payment.Amount, payment.Currency, payment.ReceiptURL)
	}
	return true, nil
}

func (s *PaymentService) List(ctx context.Context, actor policy.Actor) ([]models.Payment, error) {
	if actor.IsAdmin() {
		return s.payments.Search(ctx, repositories.PaymentScope{})
	}
	return s.History(ctx, actor)
}

func (s *PaymentService) History(ctx context.Context, actor policy.Actor) ([]models.Payment, error) {
	return s.payments.Search(ctx, repositories.PaymentScope{UserID: actor.UserID})
}

func (s *PaymentService) Get(ctx context.Context, actor policy.Actor, id uint) (*models.Payment, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.Authorize(policy.PaymentView, policy.Resource{OwnerUserID: payment.UserID}); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) ByCourse(ctx context.Context, actor policy.Actor, courseID uint) ([]models.Payment, error) {
	course, err := s.courses.FindByID(ctx, courseID, "Mentor")
	if err != nil {
		return nil, err
	}
	if err := actor.Authorize(policy.PaymentListCourse, policy.Resource{MentorID: course.MentorID}); err != nil {
		return nil, err
	}
	return s.payments.Search(ctx, repositories.PaymentScope{CourseID: courseID})
}

func (s *PaymentService) ByStatus(ctx context.Context, actor policy.Actor, status models.PaymentStatus) ([]models.Payment, error) {
	if err := actor.Authorize(policy.PaymentListStatus, policy.Resource{}); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperr.Field("status", "The selected status is invalid.")
	}
	return s.payments.Search(ctx, repositories.PaymentScope{Status: status})
}

func (s *PaymentService) publish(ctx context.Context, eventType string, p *models.Payment) {
	data := map[string]interface{}{
		"payment_id": p.ID,
		"session_id": p.PaymentID,
		"user_id":    p.UserID,
		"amount":     p.Amount,
		"currency":   p.Currency,
		"status":     string(p.Status),
	}
	if p.CourseID != nil {
		data["course_id"] = *p.CourseID
	}
	_ = s.events.Publish(ctx, "payment-"+p.PaymentID, events.New(eventType, data))
}
