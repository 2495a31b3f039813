package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/classmode-backend/internal/data/repos"
	"github.com/yungbote/classmode-backend/internal/platform/logger"
)

// RosterService resolves group enrollment and organizational roles.
type RosterService interface {
	StudentsByGroup(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) ([]uuid.UUID, error)
	CenterIDByHeadmaster(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (uuid.UUID, error)
	UserIsHeadmaster(ctx context.Context, tx *gorm.DB, userID, centerID uuid.UUID) (bool, error)
}

type rosterService struct {
	db          *gorm.DB
	log         *logger.Logger
	memberships repos.MembershipRepo
}

func NewRosterService(db *gorm.DB, baseLog *logger.Logger, memberships repos.MembershipRepo) RosterService {
	serviceLog := baseLog.With("service", "RosterService")
	return &rosterService{db: db, log: serviceLog, memberships: memberships}
}

func (s *rosterService) StudentsByGroup(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) ([]uuid.UUID, error) {
	return s.memberships.StudentIDsByGroup(ctx, tx, groupID)
}

func (s *rosterService) CenterIDByHeadmaster(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (uuid.UUID, error) {
	return s.memberships.CenterIDByHeadmaster(ctx, tx, userID)
}

func (s *rosterService) UserIsHeadmaster(ctx context.Context, tx *gorm.DB, userID, centerID uuid.UUID) (bool, error) {
	return s.memberships.IsHeadmaster(ctx, tx, userID, centerID)
}
