package classroom

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/classmode-backend/internal/domain"
	"github.com/yungbote/classmode-backend/internal/platform/logger"
)

type GroupRepo interface {
	Create(ctx context.Context, tx *gorm.DB, groups []*types.Group) ([]*types.Group, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID) ([]*types.Group, error)
	GetByCenterIDs(ctx context.Context, tx *gorm.DB, centerIDs []uuid.UUID) ([]*types.Group, error)
	GetByAccessCode(ctx context.Context, tx *gorm.DB, accessCode string) (*types.Group, error)
	LastAccessCode(ctx context.Context, tx *gorm.DB) (string, error)
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID) error
}

type groupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGroupRepo(db *gorm.DB, baseLog *logger.Logger) GroupRepo {
	repoLog := baseLog.With("repo", "GroupRepo")
	return &groupRepo{db: db, log: repoLog}
}

func (r *groupRepo) Create(ctx context.Context, tx *gorm.DB, groups []*types.Group) ([]*types.Group, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(groups) == 0 {
		return []*types.Group{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *groupRepo) GetByIDs(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID) ([]*types.Group, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Group
	if len(groupIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", groupIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *groupRepo) GetByCenterIDs(ctx context.Context, tx *gorm.DB, centerIDs []uuid.UUID) ([]*types.Group, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Group
	if len(centerIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("center_id IN ?", centerIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByAccessCode resolves a live group by its enrollment code; soft-deleted
// groups are not joinable.
func (r *groupRepo) GetByAccessCode(ctx context.Context, tx *gorm.DB, accessCode string) (*types.Group, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if accessCode == "" {
		return nil, nil
	}

	var g types.Group
	err := transaction.WithContext(ctx).
		Where("access_code = ?", accessCode).
		First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// LastAccessCode reads the access code of the most recently created group.
// Soft-deleted groups count: their codes stay reserved forever, so the scan
// is Unscoped. Returns "" when no group has ever been created.
func (r *groupRepo) LastAccessCode(ctx context.Context, tx *gorm.DB) (string, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	// access_code breaks created_at ties: rows inserted in one transaction
	// share now(), and the highest code is the latest minted.
	var g types.Group
	err := transaction.WithContext(ctx).
		Unscoped().
		Order("created_at DESC").
		Order("access_code DESC").
		First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return g.AccessCode, nil
}

func (r *groupRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(groupIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", groupIDs).
		Delete(&types.Group{}).Error; err != nil {
		return err
	}
	return nil
}
