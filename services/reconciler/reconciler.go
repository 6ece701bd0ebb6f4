package reconciler

import (
	// Go Internal Packages
	"context"
	"sync"
	"sync/atomic"
	"time"

	// Local Packages
	metrics "daimapay/metrics"
	models "daimapay/models"

	// External Packages
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type StatusAPI interface {
	TransactionStatus(ctx context.Context, referenceID string) (*models.StatusResponse, error)
}

type StatusPublisher interface {
	Publish(ctx context.Context, event models.StatusEvent) error
}

type Config struct {
	Interval       time.Duration
	RequestTimeout time.Duration
	Concurrency    int
}

// Summary describes one reconciliation pass
type Summary struct {
	Checked   int `json:"checked"`
	Updated   int `json:"updated"`
	Failed    int `json:"failed"`
	Unchanged int `json:"unchanged"`
}

// Reconciler re-queries the payment API for every locally PENDING record and
// stores the final status once the API reports one.
type Reconciler struct {
	Logger    *zap.Logger
	API       StatusAPI
	Store     models.TransactionStore
	Publisher StatusPublisher
	Config    Config
	Metrics   *metrics.Metrics

	// Now is the fallback clock for UpdatedAt, defaults to time.Now
	Now func() time.Time

	running atomic.Bool
	wg      sync.WaitGroup
}

func NewReconciler(logger *zap.Logger, api StatusAPI, store models.TransactionStore, conf Config) *Reconciler {
	if conf.Concurrency <= 0 {
		conf.Concurrency = 1
	}
	return &Reconciler{Logger: logger, API: api, Store: store, Config: conf, Now: time.Now}
}

// Start runs a pass every Config.Interval until ctx is cancelled. A tick that
// fires while the previous pass is still running is skipped. Start returns
// once the in-flight pass, if any, has finished.
func (r *Reconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.Config.Interval)
	defer ticker.Stop()
	defer r.wg.Wait()

	r.Logger.Info("reconciler started", zap.Duration("interval", r.Config.Interval))
	for {
		select {
		case <-ctx.Done():
			r.Logger.Info("reconciler stopping")
			return
		case <-ticker.C:
			if !r.TryRun(ctx) {
				r.Logger.Warn("previous reconciliation still running, skipping tick")
			}
		}
	}
}

// TryRun starts a pass in the background unless one is already running.
func (r *Reconciler) TryRun(ctx context.Context) bool {
	if !r.running.CompareAndSwap(false, true) {
		return false
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.running.Store(false)
		r.RunOnce(ctx)
	}()
	return true
}

// Wait blocks until the background pass started by TryRun finishes
func (r *Reconciler) Wait() {
	r.wg.Wait()
}

// RunOnce performs a single reconciliation pass. Per-record failures are
// logged and left for the next pass.
func (r *Reconciler) RunOnce(ctx context.Context) Summary {
	var summary Summary

	records, err := r.Store.GetAll(ctx)
	if err != nil {
		r.Logger.Error("failed to read local transactions", zap.Error(err))
		return summary
	}

	var pending []models.TransactionRecord
	for _, rec := range records {
		if rec.Status.IsPending() {
			pending = append(pending, rec)
		}
	}
	if len(pending) == 0 {
		return summary
	}

	var updated, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Config.Concurrency)
	for _, rec := range pending {
		rec := rec // per-iteration copy (go directive < 1.22)
		g.Go(func() error {
			changed, err := r.reconcile(gctx, rec)
			switch {
			case err != nil:
				failed.Add(1)
				r.Logger.Error("failed to reconcile transaction",
					zap.String("reference_id", rec.ReferenceID), zap.Error(err))
			case changed:
				updated.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	summary.Checked = len(pending)
	summary.Updated = int(updated.Load())
	summary.Failed = int(failed.Load())
	summary.Unchanged = summary.Checked - summary.Updated - summary.Failed
	r.Metrics.ObserveLookups(summary.Updated, summary.Unchanged, summary.Failed)
	r.Logger.Info("reconciliation pass finished",
		zap.Int("checked", summary.Checked),
		zap.Int("updated", summary.Updated),
		zap.Int("failed", summary.Failed))
	return summary
}

func (r *Reconciler) reconcile(ctx context.Context, rec models.TransactionRecord) (bool, error) {
	if r.Config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Config.RequestTimeout)
		defer cancel()
	}

	resp, err := r.API.TransactionStatus(ctx, rec.ReferenceID)
	if err != nil {
		return false, err
	}

	status := models.ParseStatus(resp.Status)
	if !status.IsTerminal() {
		return false, nil
	}

	next, err := rec.Transition(status, r.updatedAt(rec, resp), resp.MpesaReceiptNumber)
	if err != nil {
		return false, err
	}
	if err := r.Store.Put(ctx, next); err != nil {
		return false, err
	}
	r.Logger.Info("transaction status updated",
		zap.String("reference_id", next.ReferenceID),
		zap.String("status", string(next.Status)))

	if r.Publisher != nil {
		event := models.StatusEvent{
			ReferenceID:   next.ReferenceID,
			Status:        next.Status,
			Amount:        next.Amount,
			ReceiptNumber: next.ReceiptNumber,
			UpdatedAt:     *next.UpdatedAt,
		}
		if err := r.Publisher.Publish(ctx, event); err != nil {
			r.Logger.Warn("failed to publish status event",
				zap.String("reference_id", next.ReferenceID), zap.Error(err))
		}
	}
	return true, nil
}

// updatedAt prefers the server's completion time, then whatever the record
// already carried, then the local clock.
func (r *Reconciler) updatedAt(rec models.TransactionRecord, resp *models.StatusResponse) time.Time {
	if !resp.CompletedAt.IsZero() {
		return resp.CompletedAt.Time
	}
	if rec.UpdatedAt != nil && !rec.UpdatedAt.IsZero() {
		return *rec.UpdatedAt
	}
	return r.Now()
}
