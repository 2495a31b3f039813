package classroom

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/classmode-backend/internal/domain"
	"github.com/yungbote/classmode-backend/internal/platform/logger"
)

type AssignmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, assignments []*types.Assignment) ([]*types.Assignment, error)
	GetByGroupAndExercise(ctx context.Context, tx *gorm.DB, groupID, exerciseID uuid.UUID) (*types.Assignment, error)
	GetByExerciseAndGroupIDs(ctx context.Context, tx *gorm.DB, exerciseID uuid.UUID, groupIDs []uuid.UUID) ([]*types.Assignment, error)
	GetByGroupIDs(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID) ([]*types.Assignment, error)
	GetByExerciseVisible(ctx context.Context, tx *gorm.DB, exerciseID, centerID, teacherID uuid.UUID) ([]*types.Assignment, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.Assignment) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, assignmentIDs []uuid.UUID) error
	GetOrphanedByDeletedGroups(ctx context.Context, tx *gorm.DB) ([]*types.Assignment, error)
}

type assignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) AssignmentRepo {
	repoLog := baseLog.With("repo", "AssignmentRepo")
	return &assignmentRepo{db: db, log: repoLog}
}

func (r *assignmentRepo) Create(ctx context.Context, tx *gorm.DB, assignments []*types.Assignment) ([]*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(assignments) == 0 {
		return []*types.Assignment{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// GetByGroupAndExercise returns the live assignment for the pair, or nil when
// none exists.
func (r *assignmentRepo) GetByGroupAndExercise(ctx context.Context, tx *gorm.DB, groupID, exerciseID uuid.UUID) (*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if groupID == uuid.Nil || exerciseID == uuid.Nil {
		return nil, nil
	}

	var row types.Assignment
	err := transaction.WithContext(ctx).
		Where("group_id = ? AND exercise_id = ?", groupID, exerciseID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *assignmentRepo) GetByExerciseAndGroupIDs(ctx context.Context, tx *gorm.DB, exerciseID uuid.UUID, groupIDs []uuid.UUID) ([]*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Assignment
	if exerciseID == uuid.Nil || len(groupIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("exercise_id = ? AND group_id IN ?", exerciseID, groupIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *assignmentRepo) GetByGroupIDs(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID) ([]*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Assignment
	if len(groupIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("group_id IN ?", groupIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByExerciseVisible returns the assignments of an exercise whose group is
// visible to the caller: the group belongs to the caller's center (headmaster
// path) or the caller teaches it. The authorization filter runs inside the
// query, not as a post-filter.
func (r *assignmentRepo) GetByExerciseVisible(ctx context.Context, tx *gorm.DB, exerciseID, centerID, teacherID uuid.UUID) ([]*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Assignment
	if exerciseID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Joins("JOIN classroom_group ON classroom_group.id = assignment.group_id AND classroom_group.deleted_at IS NULL").
		Where("assignment.exercise_id = ?", exerciseID).
		Where("classroom_group.center_id = ? OR classroom_group.teacher_id = ?", centerID, teacherID).
		Preload("Group").
		Preload("Group.Center").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Upsert creates the assignment for its (group, exercise) pair or overwrites
// creator and date window of the existing row. The conditional write rides on
// the pair's unique index, so two concurrent identical requests converge on
// one row instead of racing a find-then-insert.
func (r *assignmentRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.Assignment) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("group_id = ? AND exercise_id = ?", row.GroupID, row.ExerciseID).
		Assign(map[string]interface{}{
			"creator_id": row.CreatorID,
			"init_date":  row.InitDate,
			"end_date":   row.EndDate,
		}).
		FirstOrCreate(row).Error; err != nil {
		return err
	}
	return nil
}

// DeleteByIDs hard-deletes assignments. Callers delete per record rather than
// issuing one bulk statement so each removal can grow its own cascade later.
func (r *assignmentRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, assignmentIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(assignmentIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", assignmentIDs).
		Delete(&types.Assignment{}).Error; err != nil {
		return err
	}
	return nil
}

// GetOrphanedByDeletedGroups finds assignments still referencing a
// soft-deleted group, for the repair sweep.
func (r *assignmentRepo) GetOrphanedByDeletedGroups(ctx context.Context, tx *gorm.DB) ([]*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Assignment
	if err := transaction.WithContext(ctx).
		Joins("JOIN classroom_group ON classroom_group.id = assignment.group_id").
		Where("classroom_group.deleted_at IS NOT NULL").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
