package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/classmode-backend/internal/data/repos"
	types "github.com/yungbote/classmode-backend/internal/domain"
	"github.com/yungbote/classmode-backend/internal/platform/apierr"
	"github.com/yungbote/classmode-backend/internal/platform/logger"
)

// accessCodeRetries bounds the duplicate-key retry loop in CreateGroup. Each
// retry re-reads the latest code, so losing a race costs one extra round trip.
const accessCodeRetries = 5

// CreateGroupSpec carries the caller-supplied fields of a new group.
type CreateGroupSpec struct {
	Name     string    `json:"name"`
	CenterID uuid.UUID `json:"center_id"`
	Color    string    `json:"color,omitempty"`
}

type GroupService interface {
	CreateGroup(ctx context.Context, spec CreateGroupSpec, actingUserID uuid.UUID) (*types.Group, error)
	DeleteGroup(ctx context.Context, groupID, actingUserID uuid.UUID) error
	EnrollByAccessCode(ctx context.Context, accessCode string, studentID uuid.UUID) (*types.Task, error)
}

type groupService struct {
	db          *gorm.DB
	log         *logger.Logger
	groups      repos.GroupRepo
	asgs        repos.AssignmentRepo
	tasks       repos.TaskRepo
	memberships repos.MembershipRepo
	fanout      TaskFanoutService
	policy      PolicyService
}

func NewGroupService(db *gorm.DB, baseLog *logger.Logger, groups repos.GroupRepo, asgs repos.AssignmentRepo, tasks repos.TaskRepo, memberships repos.MembershipRepo, fanout TaskFanoutService, policy PolicyService) GroupService {
	serviceLog := baseLog.With("service", "GroupService")
	return &groupService{
		db:          db,
		log:         serviceLog,
		groups:      groups,
		asgs:        asgs,
		tasks:       tasks,
		memberships: memberships,
		fanout:      fanout,
		policy:      policy,
	}
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "23505")
}

// CreateGroup mints the next access code and inserts the group. The code
// column's unique index arbitrates concurrent creates: the loser's insert
// fails with a duplicate-key error, and the loop re-reads the new latest code
// and tries again, a bounded number of times.
func (s *groupService) CreateGroup(ctx context.Context, spec CreateGroupSpec, actingUserID uuid.UUID) (*types.Group, error) {
	if spec.Name == "" {
		return nil, apierr.BadRequest("group_name_required", errors.New("group name is required"))
	}
	if spec.CenterID == uuid.Nil {
		return nil, apierr.BadRequest("center_required", errors.New("center id is required"))
	}
	if actingUserID == uuid.Nil {
		return nil, apierr.BadRequest("acting_user_required", errors.New("acting user is required"))
	}

	var lastErr error
	for attempt := 0; attempt < accessCodeRetries; attempt++ {
		prev, err := s.groups.LastAccessCode(ctx, nil)
		if err != nil {
			return nil, asAPIError(fmt.Errorf("read last access code: %w", err))
		}

		group := &types.Group{
			Name:       spec.Name,
			Status:     types.GroupStatusOpen,
			AccessCode: NextAccessCode(prev),
			CreatorID:  actingUserID,
			TeacherID:  actingUserID,
			CenterID:   spec.CenterID,
			Color:      spec.Color,
		}
		created, err := s.groups.Create(ctx, nil, []*types.Group{group})
		if err == nil {
			return created[0], nil
		}
		if !isDuplicateKeyError(err) {
			return nil, asAPIError(fmt.Errorf("create group: %w", err))
		}
		lastErr = err
		s.log.Warn("access code taken, retrying",
			"access_code", group.AccessCode,
			"attempt", attempt+1,
		)
	}
	return nil, asAPIError(fmt.Errorf("create group: access code contention after %d attempts: %w", accessCodeRetries, lastErr))
}

// DeleteGroup soft-deletes the group and hard-deletes its assignments and
// tasks in one transaction. A committed delete therefore never leaves the
// flag set with the cascade half-applied; the repair sweep only covers
// orphans from other paths.
func (s *groupService) DeleteGroup(ctx context.Context, groupID, actingUserID uuid.UUID) error {
	groups, err := s.groups.GetByIDs(ctx, nil, []uuid.UUID{groupID})
	if err != nil {
		return asAPIError(fmt.Errorf("load group %s: %w", groupID, err))
	}
	if len(groups) == 0 {
		return apierr.NotFound("group_not_found")
	}
	group := groups[0]

	allowed, err := s.policy.CanMutateGroup(ctx, nil, actingUserID, group)
	if err != nil {
		return asAPIError(fmt.Errorf("authorize delete: %w", err))
	}
	if !allowed {
		return apierr.Forbidden("group_delete_forbidden")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.groups.SoftDeleteByIDs(ctx, tx, []uuid.UUID{groupID}); err != nil {
			return fmt.Errorf("soft delete group: %w", err)
		}
		assignments, err := s.asgs.GetByGroupIDs(ctx, tx, []uuid.UUID{groupID})
		if err != nil {
			return fmt.Errorf("load assignments: %w", err)
		}
		for _, assignment := range assignments {
			if err := s.asgs.DeleteByIDs(ctx, tx, []uuid.UUID{assignment.ID}); err != nil {
				return fmt.Errorf("delete assignment %s: %w", assignment.ID, err)
			}
		}
		if err := s.tasks.DeleteByGroupIDs(ctx, tx, []uuid.UUID{groupID}); err != nil {
			return fmt.Errorf("delete tasks: %w", err)
		}
		return nil
	})
	if err != nil {
		return asAPIError(fmt.Errorf("delete group %s: %w", groupID, err))
	}
	return nil
}

// EnrollByAccessCode joins a student to the group behind the code and fans
// the group's existing assignments out to them. Returns the first task
// created, nil when the group has no assignments yet.
func (s *groupService) EnrollByAccessCode(ctx context.Context, accessCode string, studentID uuid.UUID) (*types.Task, error) {
	accessCode = strings.ToLower(strings.TrimSpace(accessCode))
	if accessCode == "" {
		return nil, apierr.BadRequest("access_code_required", errors.New("access code is required"))
	}
	if studentID == uuid.Nil {
		return nil, apierr.BadRequest("student_required", errors.New("student id is required"))
	}

	group, err := s.groups.GetByAccessCode(ctx, nil, accessCode)
	if err != nil {
		return nil, asAPIError(fmt.Errorf("resolve access code: %w", err))
	}
	if group == nil {
		return nil, apierr.NotFound("group_not_found")
	}

	groupID := group.ID
	membership := &types.Membership{
		UserID:   studentID,
		CenterID: group.CenterID,
		GroupID:  &groupID,
		Role:     types.RoleStudent,
	}
	if _, err := s.memberships.Create(ctx, nil, []*types.Membership{membership}); err != nil {
		return nil, asAPIError(fmt.Errorf("enroll student %s: %w", studentID, err))
	}

	task, err := s.fanout.CreateTasksForStudent(ctx, nil, group.ID, studentID)
	if err != nil {
		return nil, asAPIError(fmt.Errorf("fan out to student %s: %w", studentID, err))
	}
	return task, nil
}
