package classroom

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/classmode-backend/internal/domain"
	"github.com/yungbote/classmode-backend/internal/platform/logger"
)

type ExerciseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, exercises []*types.Exercise) ([]*types.Exercise, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, exerciseIDs []uuid.UUID) ([]*types.Exercise, error)
	GetAssignedToGroup(ctx context.Context, tx *gorm.DB, groupID uuid.UUID, offset, limit int) ([]*types.Exercise, error)
}

type exerciseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExerciseRepo(db *gorm.DB, baseLog *logger.Logger) ExerciseRepo {
	repoLog := baseLog.With("repo", "ExerciseRepo")
	return &exerciseRepo{db: db, log: repoLog}
}

func (r *exerciseRepo) Create(ctx context.Context, tx *gorm.DB, exercises []*types.Exercise) ([]*types.Exercise, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(exercises) == 0 {
		return []*types.Exercise{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&exercises).Error; err != nil {
		return nil, err
	}
	return exercises, nil
}

func (r *exerciseRepo) GetByIDs(ctx context.Context, tx *gorm.DB, exerciseIDs []uuid.UUID) ([]*types.Exercise, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Exercise
	if len(exerciseIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", exerciseIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetAssignedToGroup returns the exercises assigned to a group, deduplicated
// by exercise before pagination: a group assigned the same exercise across
// several assignment rows still counts it once, and offset/limit slice the
// distinct exercise set, not raw assignment rows.
func (r *exerciseRepo) GetAssignedToGroup(ctx context.Context, tx *gorm.DB, groupID uuid.UUID, offset, limit int) ([]*types.Exercise, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Exercise
	if groupID == uuid.Nil {
		return results, nil
	}

	assigned := transaction.WithContext(ctx).
		Model(&types.Assignment{}).
		Select("DISTINCT exercise_id").
		Where("group_id = ?", groupID)

	q := transaction.WithContext(ctx).
		Where("id IN (?)", assigned).
		Order("created_at ASC")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
