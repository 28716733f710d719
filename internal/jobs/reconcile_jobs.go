package jobs

import (
	"context"

	"rentout-backend/internal/logger"
)

// ReconcileResult summarises one reconciliation pass.
type ReconcileResult struct {
	Checked   int
	Corrected int
	Failed    int
}

// ReconcileRentOutStatuses replays every active rent-out and overwrites
// cached statuses that disagree with the replay.
func (jr *JobRunner) ReconcileRentOutStatuses() {
	jr.runWithRecovery("ReconcileRentOutStatuses", func() {
		if _, err := jr.reconcileRentOutStatuses(context.Background()); err != nil {
			logger.Error("Failed to reconcile rent-out statuses", "error", err)
		}
	})
}

func (jr *JobRunner) reconcileRentOutStatuses(ctx context.Context) (ReconcileResult, error) {
	log := logger.WithService("reconcile")

	var res ReconcileResult
	ids, err := jr.rentOuts.ListActiveRentOutIDs(ctx)
	if err != nil {
		return res, err
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Checked++

		// Each rent-out reconciles in its own transaction so one conflict
		// does not abort the pass.
		corrected, err := jr.rentOuts.ReconcileStatus(ctx, id)
		if err != nil {
			res.Failed++
			log.Error("Failed to reconcile rent-out", "rent_out_id", id, "error", err)
			continue
		}
		if corrected {
			res.Corrected++
			log.Warn("Corrected drifted rent-out status", "rent_out_id", id)
		}
	}

	log.Info("Reconciled rent-out statuses",
		"checked", res.Checked,
		"corrected", res.Corrected,
		"failed", res.Failed)
	return res, nil
}
