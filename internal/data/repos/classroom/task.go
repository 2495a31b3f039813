package classroom

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/classmode-backend/internal/domain"
	"github.com/yungbote/classmode-backend/internal/platform/logger"
)

type TaskRepo interface {
	CheckAndCreate(ctx context.Context, tx *gorm.DB, row *types.Task) (*types.Task, error)
	GetByStudentExerciseGroup(ctx context.Context, tx *gorm.DB, studentID, exerciseID, groupID uuid.UUID) ([]*types.Task, error)
	GetByGroupAndExerciseIDs(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID, exerciseID uuid.UUID) ([]*types.Task, error)
	DeleteByGroupsAndExercise(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID, exerciseID uuid.UUID) error
	DeleteByGroupIDs(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID) error
	DeleteWithoutAssignment(ctx context.Context, tx *gorm.DB) (int64, error)
}

type taskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo {
	repoLog := baseLog.With("repo", "TaskRepo")
	return &taskRepo{db: db, log: repoLog}
}

// CheckAndCreate ensures exactly one task exists for the row's (student,
// exercise, group) triple. An existing task is returned untouched — no
// duplicate, no overwrite; otherwise row is inserted as-is. Idempotent under
// repeated fan-out.
func (r *taskRepo) CheckAndCreate(ctx context.Context, tx *gorm.DB, row *types.Task) (*types.Task, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).
		Where("student_id = ? AND exercise_id = ? AND group_id = ?", row.StudentID, row.ExerciseID, row.GroupID).
		FirstOrCreate(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *taskRepo) GetByStudentExerciseGroup(ctx context.Context, tx *gorm.DB, studentID, exerciseID, groupID uuid.UUID) ([]*types.Task, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Task
	if studentID == uuid.Nil || exerciseID == uuid.Nil || groupID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("student_id = ? AND exercise_id = ? AND group_id = ?", studentID, exerciseID, groupID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *taskRepo) GetByGroupAndExerciseIDs(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID, exerciseID uuid.UUID) ([]*types.Task, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Task
	if len(groupIDs) == 0 || exerciseID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("group_id IN ? AND exercise_id = ?", groupIDs, exerciseID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *taskRepo) DeleteByGroupsAndExercise(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID, exerciseID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(groupIDs) == 0 || exerciseID == uuid.Nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("group_id IN ? AND exercise_id = ?", groupIDs, exerciseID).
		Delete(&types.Task{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *taskRepo) DeleteByGroupIDs(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(groupIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("group_id IN ?", groupIDs).
		Delete(&types.Task{}).Error; err != nil {
		return err
	}
	return nil
}

// DeleteWithoutAssignment removes tasks whose owning (group, exercise)
// assignment no longer exists. Used by the repair sweep.
func (r *taskRepo) DeleteWithoutAssignment(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM assignment WHERE assignment.group_id = task.group_id AND assignment.exercise_id = task.exercise_id)").
		Delete(&types.Task{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
