package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/qalamhq/qalam/domain"
)

// reconcileViewsWorker periodically rewrites the denormalized view
// counters from the view-event table. The counter column is a cache; a
// crash between an event insert and its increment leaves it stale, and
// this worker is the recovery path.
type reconcileViewsWorker struct {
	repo     domain.EngagementRepository
	interval time.Duration
}

func NewReconcileViewsWorker(repo domain.EngagementRepository, interval time.Duration) *reconcileViewsWorker {
	return &reconcileViewsWorker{
		repo:     repo,
		interval: interval,
	}
}

func (w *reconcileViewsWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.reconcile(ctx)
		case <-ctx.Done():
			logrus.Info("shutting down ReconcileViewsWorker, running final pass...")
			w.reconcile(context.Background())
			return
		}
	}
}

func (w *reconcileViewsWorker) reconcile(ctx context.Context) {
	fixed, err := w.repo.ReconcileViewCounts(ctx)
	if err != nil {
		logrus.Errorf("failed to reconcile view counters: %v", err)
		return
	}
	if fixed > 0 {
		logrus.Infof("reconciled view counters for %d posts", fixed)
	}
}
