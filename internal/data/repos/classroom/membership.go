package classroom

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/classmode-backend/internal/domain"
	"github.com/yungbote/classmode-backend/internal/platform/logger"
)

type MembershipRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Membership) ([]*types.Membership, error)
	StudentIDsByGroup(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) ([]uuid.UUID, error)
	CenterIDByHeadmaster(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (uuid.UUID, error)
	IsHeadmaster(ctx context.Context, tx *gorm.DB, userID, centerID uuid.UUID) (bool, error)
}

type membershipRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMembershipRepo(db *gorm.DB, baseLog *logger.Logger) MembershipRepo {
	repoLog := baseLog.With("repo", "MembershipRepo")
	return &membershipRepo{db: db, log: repoLog}
}

func (r *membershipRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Membership) ([]*types.Membership, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.Membership{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *membershipRepo) StudentIDsByGroup(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []uuid.UUID
	if groupID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Membership{}).
		Where("group_id = ? AND role = ?", groupID, types.RoleStudent).
		Order("created_at ASC").
		Pluck("user_id", &results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// CenterIDByHeadmaster returns the center a user runs as headmaster, or
// uuid.Nil when the user is not a headmaster anywhere.
func (r *membershipRepo) CenterIDByHeadmaster(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if userID == uuid.Nil {
		return uuid.Nil, nil
	}

	var row types.Membership
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, types.RoleHeadmaster).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, err
	}
	return row.CenterID, nil
}

func (r *membershipRepo) IsHeadmaster(ctx context.Context, tx *gorm.DB, userID, centerID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if userID == uuid.Nil || centerID == uuid.Nil {
		return false, nil
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Membership{}).
		Where("user_id = ? AND center_id = ? AND role = ?", userID, centerID, types.RoleHeadmaster).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
