package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/classmode-backend/internal/data/repos"
	types "github.com/yungbote/classmode-backend/internal/domain"
	"github.com/yungbote/classmode-backend/internal/platform/logger"
)

// GroupPlaceholder stands in for a task when an assignment lands on a group
// with no enrolled students. It is a normal outcome, not an error: tasks get
// minted later, as students enroll.
type GroupPlaceholder struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	InitDate *time.Time `json:"initDate,omitempty"`
	EndDate  *time.Time `json:"endDate,omitempty"`
}

// FanoutResult is what one assignment's fan-out yields: the first task
// created (or already present), or a placeholder when the roster is empty.
// Exactly one of the two fields is set.
type FanoutResult struct {
	Task        *types.Task       `json:"task,omitempty"`
	Placeholder *GroupPlaceholder `json:"group,omitempty"`
}

// TaskFanoutService materializes assignments into per-student tasks.
type TaskFanoutService interface {
	CreateTasks(ctx context.Context, tx *gorm.DB, assignment *types.Assignment, actingUserID uuid.UUID) (*FanoutResult, error)
	CreateTasksForStudent(ctx context.Context, tx *gorm.DB, groupID, studentID uuid.UUID) (*types.Task, error)
}

type taskFanoutService struct {
	db     *gorm.DB
	log    *logger.Logger
	groups repos.GroupRepo
	tasks  repos.TaskRepo
	asgs   repos.AssignmentRepo
	roster RosterService
}

func NewTaskFanoutService(db *gorm.DB, baseLog *logger.Logger, groups repos.GroupRepo, tasks repos.TaskRepo, asgs repos.AssignmentRepo, roster RosterService) TaskFanoutService {
	serviceLog := baseLog.With("service", "TaskFanoutService")
	return &taskFanoutService{db: db, log: serviceLog, groups: groups, tasks: tasks, asgs: asgs, roster: roster}
}

// CreateTasks fans an assignment out across the group's current roster. Task
// creation is idempotent per (student, exercise, group): students who already
// hold a task keep it untouched. Only the first task is returned; the rest
// exist but are not part of the result shape.
func (s *taskFanoutService) CreateTasks(ctx context.Context, tx *gorm.DB, assignment *types.Assignment, actingUserID uuid.UUID) (*FanoutResult, error) {
	if assignment == nil {
		return nil, fmt.Errorf("create tasks: nil assignment")
	}

	groups, err := s.groups.GetByIDs(ctx, tx, []uuid.UUID{assignment.GroupID})
	if err != nil {
		return nil, fmt.Errorf("load group %s: %w", assignment.GroupID, err)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("group %s not found", assignment.GroupID)
	}
	group := groups[0]

	studentIDs, err := s.roster.StudentsByGroup(ctx, tx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve roster for group %s: %w", group.ID, err)
	}

	if len(studentIDs) == 0 {
		s.log.Info("fan-out on empty roster, returning placeholder", "group_id", group.ID)
		return &FanoutResult{Placeholder: &GroupPlaceholder{
			ID:       group.ID,
			Name:     group.Name,
			InitDate: assignment.InitDate,
			EndDate:  assignment.EndDate,
		}}, nil
	}

	creatorID := actingUserID
	if creatorID == uuid.Nil {
		creatorID = assignment.CreatorID
	}
	teacherID := actingUserID
	if teacherID == uuid.Nil {
		teacherID = group.TeacherID
	}
	if teacherID == uuid.Nil {
		teacherID = assignment.CreatorID
	}

	created := make([]*types.Task, len(studentIDs))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, studentID := range studentIDs {
		i, studentID := i, studentID
		eg.Go(func() error {
			row := &types.Task{
				ExerciseID: assignment.ExerciseID,
				GroupID:    group.ID,
				StudentID:  studentID,
				TeacherID:  teacherID,
				CreatorID:  creatorID,
				InitDate:   assignment.InitDate,
				EndDate:    assignment.EndDate,
			}
			task, err := s.tasks.CheckAndCreate(egCtx, tx, row)
			if err != nil {
				return fmt.Errorf("task for student %s: %w", studentID, err)
			}
			created[i] = task
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &FanoutResult{Task: created[0]}, nil
}

// CreateTasksForStudent catches a newly enrolled student up with the group's
// existing assignments. Returns the first task created, nil when the group
// has none.
func (s *taskFanoutService) CreateTasksForStudent(ctx context.Context, tx *gorm.DB, groupID, studentID uuid.UUID) (*types.Task, error) {
	groups, err := s.groups.GetByIDs(ctx, tx, []uuid.UUID{groupID})
	if err != nil {
		return nil, fmt.Errorf("load group %s: %w", groupID, err)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("group %s not found", groupID)
	}
	group := groups[0]

	assignments, err := s.asgs.GetByGroupIDs(ctx, tx, []uuid.UUID{groupID})
	if err != nil {
		return nil, fmt.Errorf("load assignments for group %s: %w", groupID, err)
	}
	if len(assignments) == 0 {
		return nil, nil
	}

	var (
		mu    sync.Mutex
		first *types.Task
	)
	eg, egCtx := errgroup.WithContext(ctx)
	for _, assignment := range assignments {
		assignment := assignment
		eg.Go(func() error {
			row := &types.Task{
				ExerciseID: assignment.ExerciseID,
				GroupID:    groupID,
				StudentID:  studentID,
				TeacherID:  group.TeacherID,
				CreatorID:  assignment.CreatorID,
				InitDate:   assignment.InitDate,
				EndDate:    assignment.EndDate,
			}
			task, err := s.tasks.CheckAndCreate(egCtx, tx, row)
			if err != nil {
				return fmt.Errorf("task for exercise %s: %w", assignment.ExerciseID, err)
			}
			mu.Lock()
			if first == nil {
				first = task
			}
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return first, nil
}
