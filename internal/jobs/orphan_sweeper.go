package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/classmode-backend/internal/data/repos"
	"github.com/yungbote/classmode-backend/internal/platform/logger"
)

// OrphanSweeper periodically repairs leftovers of non-transactional paths:
// assignments whose group has since been soft-deleted, and tasks whose
// assignment no longer exists.
type OrphanSweeper struct {
	db       *gorm.DB
	log      *logger.Logger
	asgs     repos.AssignmentRepo
	tasks    repos.TaskRepo
	interval time.Duration
}

func NewOrphanSweeper(db *gorm.DB, baseLog *logger.Logger, asgs repos.AssignmentRepo, tasks repos.TaskRepo, interval time.Duration) *OrphanSweeper {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &OrphanSweeper{
		db:       db,
		log:      baseLog.With("component", "OrphanSweeper"),
		asgs:     asgs,
		tasks:    tasks,
		interval: interval,
	}
}

func (w *OrphanSweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := w.SweepOnce(ctx); err != nil {
					w.log.Warn("orphan sweep failed", "error", err)
				}
			}
		}
	}()
}

// SweepOnce deletes orphaned assignments first so their tasks qualify for the
// task sweep in the same pass.
func (w *OrphanSweeper) SweepOnce(ctx context.Context) error {
	orphaned, err := w.asgs.GetOrphanedByDeletedGroups(ctx, nil)
	if err != nil {
		return err
	}
	for _, assignment := range orphaned {
		if err := w.asgs.DeleteByIDs(ctx, nil, []uuid.UUID{assignment.ID}); err != nil {
			return err
		}
	}

	swept, err := w.tasks.DeleteWithoutAssignment(ctx, nil)
	if err != nil {
		return err
	}
	if len(orphaned) > 0 || swept > 0 {
		w.log.Info("orphan sweep completed", "assignments", len(orphaned), "tasks", swept)
	}
	return nil
}
