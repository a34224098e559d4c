// Package schedulers runs the periodic maintenance jobs: confirming payments whose redirect
// arrived before the provider settled them, and dropping expired token revocations.
package schedulers

import (
	"context"
	"time"

	"coursehub/logger"
	"coursehub/services"

	"github.com/robfig/cron/v3"
)

const (
	ReconcileSpec  = "@every 10m"
	TokenPurgeSpec = "0 3 * * *"

	jobTimeout = 2 * time.Minute
)

// PaymentReconciler is the part of services.PaymentService the reconcile job needs.
type PaymentReconciler interface {
	Reconcile(ctx context.Context) (int, error)
}

type TokenPurger interface {
	PurgeRevokedTokens(ctx context.Context) (int64, error)
}

// ReconcilePayments runs one reconcile pass.
func ReconcilePayments(ctx context.Context, payments PaymentReconciler, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	confirmed, err := payments.Reconcile(ctx)
	if err != nil {
		log.Error("payment reconcile failed", "error", err)
		return
	}
	if confirmed > 0 {
		log.Info("payments confirmed by reconcile", "count", confirmed)
	}
}

func PurgeRevokedTokens(ctx context.Context, identity TokenPurger, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	purged, err := identity.PurgeRevokedTokens(ctx)
	if err != nil {
		log.Error("revoked token purge failed", "error", err)
		return
	}
	log.Info("expired token revocations purged", "count", purged)
}

// Start registers every job on a new cron and starts it. The caller stops it on shutdown.
func Start(svc *services.Container, log *logger.Logger) (*cron.Cron, error) {
	log = log.With("component", "scheduler")
	c := cron.New(cron.WithLocation(time.UTC))

	if _, err := c.AddFunc(ReconcileSpec, func() {
		ReconcilePayments(context.Background(), svc.Payments, log)
	}); err != nil {
		return nil, err
	}
	if _, err := c.AddFunc(TokenPurgeSpec, func() {
		PurgeRevokedTokens(context.Background(), svc.Identity, log)
	}); err != nil {
		return nil, err
	}

	c.Start()
	log.Info("schedulers started", "reconcile", ReconcileSpec, "token_purge", TokenPurgeSpec)
	return c, nil
}
