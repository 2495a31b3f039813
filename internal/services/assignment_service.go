package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/classmode-backend/internal/data/repos"
	types "github.com/yungbote/classmode-backend/internal/domain"
	"github.com/yungbote/classmode-backend/internal/platform/apierr"
	"github.com/yungbote/classmode-backend/internal/platform/logger"
)

const (
	defaultPageSize = 10
	maxPageSize     = 10
)

// AssignSpec is one requested (group, exercise) binding with its date window.
type AssignSpec struct {
	GroupID    uuid.UUID  `json:"group"`
	ExerciseID uuid.UUID  `json:"exercise"`
	InitDate   *time.Time `json:"initDate,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
}

// RemoveSpec names the assignments to drop: every (group, exercise) pair of
// the cross product GroupIDs x ExerciseID.
type RemoveSpec struct {
	GroupIDs   []uuid.UUID `json:"groups"`
	ExerciseID uuid.UUID   `json:"exercise"`
}

// GroupView is the flattened group row returned by GetByExercise.
type GroupView struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	AccessCode string     `json:"access_code"`
	CenterID   uuid.UUID  `json:"center_id"`
	CenterName string     `json:"center_name,omitempty"`
	TeacherID  uuid.UUID  `json:"teacher_id"`
	InitDate   *time.Time `json:"initDate,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
}

type AssignmentService interface {
	AssignAndRemove(ctx context.Context, assign []AssignSpec, remove RemoveSpec, actingUserID uuid.UUID) ([]*FanoutResult, error)
	Unassign(ctx context.Context, exerciseID, groupID, actingUserID uuid.UUID) error
	GetByGroup(ctx context.Context, groupID uuid.UUID, page, pageSize int) ([]*types.Exercise, error)
	GetByExercise(ctx context.Context, exerciseID, actingUserID uuid.UUID) ([]*GroupView, error)
}

// assignmentService reconciles a desired assignment state against the store.
// AssignAndRemove trades atomicity for forward progress: its four branches
// run concurrently and branches that succeed are never rolled back when a
// sibling fails, so a partial failure leaves the applied work in place and the
// caller retries.
type assignmentService struct {
	db     *gorm.DB
	log    *logger.Logger
	asgs   repos.AssignmentRepo
	tasks  repos.TaskRepo
	exs    repos.ExerciseRepo
	fanout TaskFanoutService
	policy PolicyService
}

func NewAssignmentService(db *gorm.DB, baseLog *logger.Logger, asgs repos.AssignmentRepo, tasks repos.TaskRepo, exs repos.ExerciseRepo, fanout TaskFanoutService, policy PolicyService) AssignmentService {
	serviceLog := baseLog.With("service", "AssignmentService")
	return &assignmentService{db: db, log: serviceLog, asgs: asgs, tasks: tasks, exs: exs, fanout: fanout, policy: policy}
}

func validateAssignAndRemove(assign []AssignSpec, remove RemoveSpec) error {
	for i, spec := range assign {
		if spec.GroupID == uuid.Nil || spec.ExerciseID == uuid.Nil {
			return apierr.BadRequest("assignment_invalid", fmt.Errorf("assign[%d]: group and exercise are required", i))
		}
	}
	if len(remove.GroupIDs) > 0 && remove.ExerciseID == uuid.Nil {
		return apierr.BadRequest("removal_invalid", errors.New("remove: exercise is required when groups are given"))
	}
	for i, groupID := range remove.GroupIDs {
		if groupID == uuid.Nil {
			return apierr.BadRequest("removal_invalid", fmt.Errorf("remove.groups[%d]: group is required", i))
		}
	}
	return nil
}

// asAPIError passes apierr values through and wraps everything else as a 500,
// so statuses leaving the reconciler are always well-formed.
func asAPIError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		apiErr.Status = apierr.NormalizeStatus(apiErr.Status)
		return apiErr
	}
	return apierr.New(http.StatusInternalServerError, "store_failure", err)
}

// AssignAndRemove applies the requested additions and removals in four
// concurrent branches behind one join barrier:
//  1. delete tasks for remove.GroupIDs x remove.ExerciseID
//  2. load the matching assignments and hard-delete each one
//  3. upsert one assignment per assign entry
//  4. fan each assign entry out into per-student tasks
//
// All branches are always awaited. When several fail, the error of the
// lowest-numbered branch wins, independent of completion order.
func (s *assignmentService) AssignAndRemove(ctx context.Context, assign []AssignSpec, remove RemoveSpec, actingUserID uuid.UUID) ([]*FanoutResult, error) {
	if err := validateAssignAndRemove(assign, remove); err != nil {
		return nil, err
	}

	var (
		wg         sync.WaitGroup
		branchErrs [4]error
		results    = make([]*FanoutResult, len(assign))
	)

	wg.Add(4)

	go func() {
		defer wg.Done()
		if err := s.tasks.DeleteByGroupsAndExercise(ctx, nil, remove.GroupIDs, remove.ExerciseID); err != nil {
			branchErrs[0] = fmt.Errorf("delete tasks: %w", err)
		}
	}()

	go func() {
		defer wg.Done()
		rows, err := s.asgs.GetByExerciseAndGroupIDs(ctx, nil, remove.ExerciseID, remove.GroupIDs)
		if err != nil {
			branchErrs[1] = fmt.Errorf("load assignments to remove: %w", err)
			return
		}
		for _, row := range rows {
			if err := s.asgs.DeleteByIDs(ctx, nil, []uuid.UUID{row.ID}); err != nil {
				branchErrs[1] = fmt.Errorf("delete assignment %s: %w", row.ID, err)
				return
			}
		}
	}()

	go func() {
		defer wg.Done()
		for _, spec := range assign {
			row := &types.Assignment{
				GroupID:    spec.GroupID,
				ExerciseID: spec.ExerciseID,
				CreatorID:  actingUserID,
				InitDate:   spec.InitDate,
				EndDate:    spec.EndDate,
			}
			if err := s.asgs.Upsert(ctx, nil, row); err != nil {
				branchErrs[2] = fmt.Errorf("upsert assignment (group %s, exercise %s): %w", spec.GroupID, spec.ExerciseID, err)
				return
			}
		}
	}()

	go func() {
		defer wg.Done()
		for i, spec := range assign {
			// The fan-out builds its own assignment view rather than
			// waiting on branch 3; the two branches converge on the
			// same (group, exercise) rows.
			assignment := &types.Assignment{
				GroupID:    spec.GroupID,
				ExerciseID: spec.ExerciseID,
				CreatorID:  actingUserID,
				InitDate:   spec.InitDate,
				EndDate:    spec.EndDate,
			}
			result, err := s.fanout.CreateTasks(ctx, nil, assignment, actingUserID)
			if err != nil {
				branchErrs[3] = fmt.Errorf("fan out (group %s, exercise %s): %w", spec.GroupID, spec.ExerciseID, err)
				return
			}
			results[i] = result
		}
	}()

	wg.Wait()

	for i, err := range branchErrs {
		if err != nil {
			s.log.Error("assignment reconciliation branch failed",
				"branch", i,
				"error", err,
			)
			return nil, asAPIError(err)
		}
	}
	return results, nil
}

// Unassign removes one live (group, exercise) assignment and its tasks. A
// missing assignment is a 404; an existing one the caller may not touch is a
// 403.
func (s *assignmentService) Unassign(ctx context.Context, exerciseID, groupID, actingUserID uuid.UUID) error {
	assignment, err := s.asgs.GetByGroupAndExercise(ctx, nil, groupID, exerciseID)
	if err != nil {
		return asAPIError(fmt.Errorf("load assignment: %w", err))
	}
	if assignment == nil {
		return apierr.NotFound("assignment_not_found")
	}

	allowed, err := s.policy.CanUnassign(ctx, nil, actingUserID, assignment)
	if err != nil {
		return asAPIError(fmt.Errorf("authorize unassign: %w", err))
	}
	if !allowed {
		return apierr.Forbidden("unassign_forbidden")
	}

	if err := s.asgs.DeleteByIDs(ctx, nil, []uuid.UUID{assignment.ID}); err != nil {
		return asAPIError(fmt.Errorf("delete assignment %s: %w", assignment.ID, err))
	}
	if err := s.tasks.DeleteByGroupsAndExercise(ctx, nil, []uuid.UUID{groupID}, exerciseID); err != nil {
		return asAPIError(fmt.Errorf("delete tasks for assignment %s: %w", assignment.ID, err))
	}
	return nil
}

// GetByGroup pages through the distinct exercises assigned to a group.
// Pages are 1-based; page size is capped at ten.
func (s *assignmentService) GetByGroup(ctx context.Context, groupID uuid.UUID, page, pageSize int) ([]*types.Exercise, error) {
	if groupID == uuid.Nil {
		return nil, apierr.BadRequest("group_required", errors.New("group id is required"))
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	exercises, err := s.exs.GetAssignedToGroup(ctx, nil, groupID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, asAPIError(fmt.Errorf("load exercises for group %s: %w", groupID, err))
	}
	return exercises, nil
}

// GetByExercise lists the groups an exercise is assigned to that the caller
// may see: groups in the caller's center when they are a headmaster, plus
// groups they teach. The visibility filter runs inside the query.
func (s *assignmentService) GetByExercise(ctx context.Context, exerciseID, actingUserID uuid.UUID) ([]*GroupView, error) {
	if exerciseID == uuid.Nil {
		return nil, apierr.BadRequest("exercise_required", errors.New("exercise id is required"))
	}

	centerID, err := s.policy.VisibleCenterID(ctx, nil, actingUserID)
	if err != nil {
		return nil, asAPIError(fmt.Errorf("resolve visible center: %w", err))
	}

	assignments, err := s.asgs.GetByExerciseVisible(ctx, nil, exerciseID, centerID, actingUserID)
	if err != nil {
		return nil, asAPIError(fmt.Errorf("load assignments for exercise %s: %w", exerciseID, err))
	}

	views := make([]*GroupView, 0, len(assignments))
	for _, row := range assignments {
		if row.Group == nil {
			continue
		}
		view := &GroupView{
			ID:         row.Group.ID,
			Name:       row.Group.Name,
			AccessCode: row.Group.AccessCode,
			CenterID:   row.Group.CenterID,
			TeacherID:  row.Group.TeacherID,
			InitDate:   row.InitDate,
			EndDate:    row.EndDate,
		}
		if row.Group.Center != nil {
			view.CenterName = row.Group.Center.Name
		}
		views = append(views, view)
	}
	return views, nil
}
