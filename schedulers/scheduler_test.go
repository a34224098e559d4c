package schedulers

import (
	"context"
	"errors"
	"testing"

	"coursehub/logger"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReconciler struct {
	calls int
	err   error
}

func (r *countingReconciler) Reconcile(ctx context.Context) (int, error) {
	r.calls++
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("job ran without a deadline")
	}
	return 2, r.err
}

type countingPurger struct{ calls int }

func (p *countingPurger) PurgeRevokedTokens(context.Context) (int64, error) {
	p.calls++
	return 3, nil
}

func TestJobsRunWithDeadline(t *testing.T) {
	r := &countingReconciler{}
	ReconcilePayments(context.Background(), r, logger.Nop())
	assert.Equal(t, 1, r.calls)

	r.err = errors.New("provider down")
	ReconcilePayments(context.Background(), r, logger.Nop())
	assert.Equal(t, 2, r.calls)

	p := &countingPurger{}
	PurgeRevokedTokens(context.Background(), p, logger.Nop())
	assert.Equal(t, 1, p.calls)
}

func TestSpecsParse(t *testing.T) {
	for _, spec := range []string{ReconcileSpec, TokenPurgeSpec} {
		_, err := cron.ParseStandard(spec)
		require.NoError(t, err, spec)
	}
}
