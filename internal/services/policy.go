package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/classmode-backend/internal/data/repos"
	types "github.com/yungbote/classmode-backend/internal/domain"
	"github.com/yungbote/classmode-backend/internal/platform/logger"
)

// PolicyService is the single authorization decision point for group and
// assignment mutations and for visibility-filtered queries. Ownership wins
// outright; everything else falls through to the headmaster relationship on
// the owning center.
type PolicyService interface {
	CanMutateGroup(ctx context.Context, tx *gorm.DB, userID uuid.UUID, group *types.Group) (bool, error)
	CanUnassign(ctx context.Context, tx *gorm.DB, userID uuid.UUID, assignment *types.Assignment) (bool, error)
	VisibleCenterID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (uuid.UUID, error)
}

type policyService struct {
	db     *gorm.DB
	log    *logger.Logger
	groups repos.GroupRepo
	roster RosterService
}

func NewPolicyService(db *gorm.DB, baseLog *logger.Logger, groups repos.GroupRepo, roster RosterService) PolicyService {
	serviceLog := baseLog.With("service", "PolicyService")
	return &policyService{db: db, log: serviceLog, groups: groups, roster: roster}
}

func (s *policyService) CanMutateGroup(ctx context.Context, tx *gorm.DB, userID uuid.UUID, group *types.Group) (bool, error) {
	if group == nil || userID == uuid.Nil {
		return false, nil
	}
	if group.CreatorID == userID || group.TeacherID == userID {
		return true, nil
	}
	return s.roster.UserIsHeadmaster(ctx, tx, userID, group.CenterID)
}

func (s *policyService) CanUnassign(ctx context.Context, tx *gorm.DB, userID uuid.UUID, assignment *types.Assignment) (bool, error) {
	if assignment == nil || userID == uuid.Nil {
		return false, nil
	}
	if assignment.CreatorID == userID {
		return true, nil
	}
	groups, err := s.groups.GetByIDs(ctx, tx, []uuid.UUID{assignment.GroupID})
	if err != nil {
		return false, fmt.Errorf("load assignment group: %w", err)
	}
	if len(groups) == 0 {
		// Group already soft-deleted; only the creator may touch the
		// orphaned assignment.
		return false, nil
	}
	return s.roster.UserIsHeadmaster(ctx, tx, userID, groups[0].CenterID)
}

// VisibleCenterID resolves the center whose groups a headmaster may see;
// uuid.Nil for everyone else.
func (s *policyService) VisibleCenterID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (uuid.UUID, error) {
	return s.roster.CenterIDByHeadmaster(ctx, tx, userID)
}
