package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/classmode-backend/internal/data/repos"
	"github.com/yungbote/classmode-backend/internal/data/repos/testutil"
	"github.com/yungbote/classmode-backend/internal/platform/apierr"
)

type svcEnv struct {
	fx          *testFixture
	groups      repos.GroupRepo
	tasks       repos.TaskRepo
	asgs        repos.AssignmentRepo
	exs         repos.ExerciseRepo
	memberships repos.MembershipRepo
	assignments AssignmentService
}

func newAssignmentEnv(t *testing.T, taskRepo func(repos.TaskRepo) repos.TaskRepo) *svcEnv {
	t.Helper()
	fx := newFixture(t)
	env := &svcEnv{
		fx:          fx,
		groups:      repos.NewGroupRepo(fx.tx, fx.log),
		tasks:       repos.NewTaskRepo(fx.tx, fx.log),
		asgs:        repos.NewAssignmentRepo(fx.tx, fx.log),
		exs:         repos.NewExerciseRepo(fx.tx, fx.log),
		memberships: repos.NewMembershipRepo(fx.tx, fx.log),
	}
	if taskRepo != nil {
		env.tasks = taskRepo(env.tasks)
	}
	roster := NewRosterService(fx.tx, fx.log, env.memberships)
	policy := NewPolicyService(fx.tx, fx.log, env.groups, roster)
	fanout := NewTaskFanoutService(fx.tx, fx.log, env.groups, env.tasks, env.asgs, roster)
	env.assignments = NewAssignmentService(fx.tx, fx.log, env.asgs, env.tasks, env.exs, fanout, policy)
	return env
}

func TestAssignAndRemoveCreatesAssignmentAndTasks(t *testing.T) {
	env := newAssignmentEnv(t, nil)
	ctx := context.Background()

	teacher := testutil.SeedUser(t, ctx, env.fx.tx, "teacher-asg@test.dev")
	center := testutil.SeedCenter(t, ctx, env.fx.tx, "center")
	group := testutil.SeedGroup(t, ctx, env.fx.tx, center.ID, teacher.ID, teacher.ID, "asg001")
	exercise := testutil.SeedExercise(t, ctx, env.fx.tx, teacher.ID, teacher.ID)
	s1 := testutil.SeedStudent(t, ctx, env.fx.tx, center.ID, group.ID, "s1-asg@test.dev")
	s2 := testutil.SeedStudent(t, ctx, env.fx.tx, center.ID, group.ID, "s2-asg@test.dev")

	end := testutil.PtrTime(time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC))
	results, err := env.assignments.AssignAndRemove(ctx,
		[]AssignSpec{{GroupID: group.ID, ExerciseID: exercise.ID, EndDate: end}},
		RemoveSpec{},
		teacher.ID,
	)
	if err != nil {
		t.Fatalf("AssignAndRemove: %v", err)
	}
	if len(results) != 1 || results[0].Task == nil {
		t.Fatalf("results = %+v, want one task result", results)
	}

	assignment, err := env.asgs.GetByGroupAndExercise(ctx, env.fx.tx, group.ID, exercise.ID)
	if err != nil {
		t.Fatalf("load assignment: %v", err)
	}
	if assignment == nil {
		t.Fatalf("assignment was not created")
	}
	if assignment.CreatorID != teacher.ID {
		t.Fatalf("assignment creator = %s, want %s", assignment.CreatorID, teacher.ID)
	}
	if assignment.EndDate == nil || !assignment.EndDate.Equal(*end) {
		t.Fatalf("assignment end date = %v, want %v", assignment.EndDate, *end)
	}

	for _, studentID := range []uuid.UUID{s1.ID, s2.ID} {
		rows, err := env.tasks.GetByStudentExerciseGroup(ctx, env.fx.tx, studentID, exercise.ID, group.ID)
		if err != nil {
			t.Fatalf("load tasks for %s: %v", studentID, err)
		}
		if len(rows) != 1 {
			t.Fatalf("student %s has %d tasks, want 1", studentID, len(rows))
		}
	}
}

func TestAssignAndRemoveReassignUpdatesInPlace(t *testing.T) {
	env := newAssignmentEnv(t, nil)
	ctx := context.Background()

	teacher := testutil.SeedUser(t, ctx, env.fx.tx, "teacher-re@test.dev")
	center := testutil.SeedCenter(t, ctx, env.fx.tx, "center")
	group := testutil.SeedGroup(t, ctx, env.fx.tx, center.ID, teacher.ID, teacher.ID, "asg002")
	exercise := testutil.SeedExercise(t, ctx, env.fx.tx, teacher.ID, teacher.ID)

	if _, err := env.assignments.AssignAndRemove(ctx,
		[]AssignSpec{{GroupID: group.ID, ExerciseID: exercise.ID}},
		RemoveSpec{}, teacher.ID,
	); err != nil {
		t.Fatalf("first assign: %v", err)
	}
	first, err := env.asgs.GetByGroupAndExercise(ctx, env.fx.tx, group.ID, exercise.ID)
	if err != nil || first == nil {
		t.Fatalf("load first assignment: %v (%+v)", err, first)
	}

	end := testutil.PtrTime(time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC))
	if _, err := env.assignments.AssignAndRemove(ctx,
		[]AssignSpec{{GroupID: group.ID, ExerciseID: exercise.ID, EndDate: end}},
		RemoveSpec{}, teacher.ID,
	); err != nil {
		t.Fatalf("second assign: %v", err)
	}

	second, err := env.asgs.GetByGroupAndExercise(ctx, env.fx.tx, group.ID, exercise.ID)
	if err != nil || second == nil {
		t.Fatalf("load second assignment: %v (%+v)", err, second)
	}
	if second.ID != first.ID {
		t.Fatalf("reassign created a new row %s, want update of %s", second.ID, first.ID)
	}
	if second.EndDate == nil || !second.EndDate.Equal(*end) {
		t.Fatalf("end date = %v, want %v", second.EndDate, *end)
	}
}

func TestAssignAndRemoveRemovesPairs(t *testing.T) {
	env := newAssignmentEnv(t, nil)
	ctx := context.Background()

	teacher := testutil.SeedUser(t, ctx, env.fx.tx, "teacher-rm@test.dev")
	center := testutil.SeedCenter(t, ctx, env.fx.tx, "center")
	g1 := testutil.SeedGroup(t, ctx, env.fx.tx, center.ID, teacher.ID, teacher.ID, "asg003")
	g2 := testutil.SeedGroup(t, ctx, env.fx.tx, center.ID, teacher.ID, teacher.ID, "asg004")
	exercise := testutil.SeedExercise(t, ctx, env.fx.tx, teacher.ID, teacher.ID)
	student := testutil.SeedStudent(t, ctx, env.fx.tx, center.ID, g1.ID, "s-rm@test.dev")

	testutil.SeedAssignment(t, ctx, env.fx.tx, g1.ID, exercise.ID, teacher.ID)
	testutil.SeedAssignment(t, ctx, env.fx.tx, g2.ID, exercise.ID, teacher.ID)
	testutil.SeedTask(t, ctx, env.fx.tx, g1.ID, exercise.ID, student.ID, teacher.ID)

	if _, err := env.assignments.AssignAndRemove(ctx, nil,
		RemoveSpec{GroupIDs: []uuid.UUID{g1.ID}, ExerciseID: exercise.ID},
		teacher.ID,
	); err != nil {
		t.Fatalf("AssignAndRemove: %v", err)
	}

	removed, err := env.asgs.GetByGroupAndExercise(ctx, env.fx.tx, g1.ID, exercise.ID)
	if err != nil {
		t.Fatalf("load removed assignment: %v", err)
	}
	if removed != nil {
		t.Fatalf("assignment for g1 still present: %+v", removed)
	}
	kept, err := env.asgs.GetByGroupAndExercise(ctx, env.fx.tx, g2.ID, exercise.ID)
	if err != nil || kept == nil {
		t.Fatalf("assignment for g2 should survive: %v (%+v)", err, kept)
	}
	rows, err := env.tasks.GetByStudentExerciseGroup(ctx, env.fx.tx, student.ID, exercise.ID, g1.ID)
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("tasks for removed assignment still present: %d", len(rows))
	}
}

func TestAssignAndRemoveValidation(t *testing.T) {
	env := newAssignmentEnv(t, nil)
	ctx := context.Background()

	_, err := env.assignments.AssignAndRemove(ctx,
		[]AssignSpec{{GroupID: uuid.Nil, ExerciseID: uuid.New()}},
		RemoveSpec{}, uuid.New(),
	)
	if apierr.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (err %v)", apierr.StatusOf(err), err)
	}

	_, err = env.assignments.AssignAndRemove(ctx, nil,
		RemoveSpec{GroupIDs: []uuid.UUID{uuid.New()}, ExerciseID: uuid.Nil},
		uuid.New(),
	)
	if apierr.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (err %v)", apierr.StatusOf(err), err)
	}
}

// failingTaskRepo makes the task-removal branch fail while leaving every
// other task operation intact.
type failingTaskRepo struct {
	repos.TaskRepo
}

func (f *failingTaskRepo) DeleteByGroupsAndExercise(ctx context.Context, tx *gorm.DB, groupIDs []uuid.UUID, exerciseID uuid.UUID) error {
	return errors.New("task store unavailable")
}

func TestAssignAndRemovePartialFailureKeepsAppliedBranches(t *testing.T) {
	env := newAssignmentEnv(t, func(real repos.TaskRepo) repos.TaskRepo {
		return &failingTaskRepo{TaskRepo: real}
	})
	ctx := context.Background()

	teacher := testutil.SeedUser(t, ctx, env.fx.tx, "teacher-partial@test.dev")
	center := testutil.SeedCenter(t, ctx, env.fx.tx, "center")
	gAdd := testutil.SeedGroup(t, ctx, env.fx.tx, center.ID, teacher.ID, teacher.ID, "asg005")
	gDel := testutil.SeedGroup(t, ctx, env.fx.tx, center.ID, teacher.ID, teacher.ID, "asg006")
	exercise := testutil.SeedExercise(t, ctx, env.fx.tx, teacher.ID, teacher.ID)
	testutil.SeedAssignment(t, ctx, env.fx.tx, gDel.ID, exercise.ID, teacher.ID)

	_, err := env.assignments.AssignAndRemove(ctx,
		[]AssignSpec{{GroupID: gAdd.ID, ExerciseID: exercise.ID}},
		RemoveSpec{GroupIDs: []uuid.UUID{gDel.ID}, ExerciseID: exercise.ID},
		teacher.ID,
	)
	if err == nil {
		t.Fatalf("expected the failing branch to surface an error")
	}
	if apierr.StatusOf(err) != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", apierr.StatusOf(err))
	}
	if !strings.Contains(err.Error(), "delete tasks") {
		t.Fatalf("error should come from the first failing branch, got %q", err.Error())
	}

	// The upsert branch succeeded and is not rolled back.
	applied, err := env.asgs.GetByGroupAndExercise(ctx, env.fx.tx, gAdd.ID, exercise.ID)
	if err != nil {
		t.Fatalf("load applied assignment: %v", err)
	}
	if applied == nil {
		t.Fatalf("succeeding branch was rolled back")
	}
}

func TestUnassign(t *testing.T) {
	env := newAssignmentEnv(t, nil)
	ctx := context.Background()

	creator := testutil.SeedUser(t, ctx, env.fx.tx, "creator-un@test.dev")
	stranger := testutil.SeedUser(t, ctx, env.fx.tx, "stranger-un@test.dev")
	center := testutil.SeedCenter(t, ctx, env.fx.tx, "center")
	headmaster := testutil.SeedHeadmaster(t, ctx, env.fx.tx, center.ID, "head-un@test.dev")
	group := testutil.SeedGroup(t, ctx, env.fx.tx, center.ID, creator.ID, creator.ID, "asg007")
	exercise := testutil.SeedExercise(t, ctx, env.fx.tx, creator.ID, creator.ID)
	student := testutil.SeedStudent(t, ctx, env.fx.tx, center.ID, group.ID, "s-un@test.dev")
	testutil.SeedAssignment(t, ctx, env.fx.tx, group.ID, exercise.ID, creator.ID)
	testutil.SeedTask(t, ctx, env.fx.tx, group.ID, exercise.ID, student.ID, creator.ID)

	err := env.assignments.Unassign(ctx, uuid.New(), group.ID, creator.ID)
	if apierr.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("missing assignment status = %d, want 404", apierr.StatusOf(err))
	}

	err = env.assignments.Unassign(ctx, exercise.ID, group.ID, stranger.ID)
	if apierr.StatusOf(err) != http.StatusForbidden {
		t.Fatalf("stranger status = %d, want 403", apierr.StatusOf(err))
	}

	if err := env.assignments.Unassign(ctx, exercise.ID, group.ID, headmaster.ID); err != nil {
		t.Fatalf("headmaster unassign: %v", err)
	}

	gone, err := env.asgs.GetByGroupAndExercise(ctx, env.fx.tx, group.ID, exercise.ID)
	if err != nil {
		t.Fatalf("load assignment: %v", err)
	}
	if gone != nil {
		t.Fatalf("assignment still present after unassign")
	}
	rows, err := env.tasks.GetByStudentExerciseGroup(ctx, env.fx.tx, student.ID, exercise.ID, group.ID)
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("tasks still present after unassign: %d", len(rows))
	}
}

func TestGetByGroupPagination(t *testing.T) {
	env := newAssignmentEnv(t, nil)
	ctx := context.Background()

	teacher := testutil.SeedUser(t, ctx, env.fx.tx, "teacher-page@test.dev")
	center := testutil.SeedCenter(t, ctx, env.fx.tx, "center")
	group := testutil.SeedGroup(t, ctx, env.fx.tx, center.ID, teacher.ID, teacher.ID, "asg008")
	for i := 0; i < 3; i++ {
		exercise := testutil.SeedExercise(t, ctx, env.fx.tx, teacher.ID, teacher.ID)
		testutil.SeedAssignment(t, ctx, env.fx.tx, group.ID, exercise.ID, teacher.ID)
	}

	page1, err := env.assignments.GetByGroup(ctx, group.ID, 1, 2)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if len(page1) != 2 {
		t.Fatalf("page 1 has %d exercises, want 2", len(page1))
	}
	page2, err := env.assignments.GetByGroup(ctx, group.ID, 2, 2)
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(page2) != 1 {
		t.Fatalf("page 2 has %d exercises, want 1", len(page2))
	}
	seen := map[uuid.UUID]bool{}
	for _, e := range append(page1, page2...) {
		if seen[e.ID] {
			t.Fatalf("exercise %s appears on both pages", e.ID)
		}
		seen[e.ID] = true
	}

	// Out-of-range page numbers and sizes fall back to sane defaults.
	all, err := env.assignments.GetByGroup(ctx, group.ID, 0, 99)
	if err != nil {
		t.Fatalf("defaulted page: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("defaulted page has %d exercises, want 3", len(all))
	}
}

func TestGetByExerciseVisibility(t *testing.T) {
	env := newAssignmentEnv(t, nil)
	ctx := context.Background()

	teacher := testutil.SeedUser(t, ctx, env.fx.tx, "teacher-vis@test.dev")
	other := testutil.SeedUser(t, ctx, env.fx.tx, "other-vis@test.dev")
	centerA := testutil.SeedCenter(t, ctx, env.fx.tx, "center-a")
	centerB := testutil.SeedCenter(t, ctx, env.fx.tx, "center-b")
	headmaster := testutil.SeedHeadmaster(t, ctx, env.fx.tx, centerA.ID, "head-vis@test.dev")
	gA := testutil.SeedGroup(t, ctx, env.fx.tx, centerA.ID, other.ID, other.ID, "asg009")
	gB := testutil.SeedGroup(t, ctx, env.fx.tx, centerB.ID, teacher.ID, teacher.ID, "asg010")
	exercise := testutil.SeedExercise(t, ctx, env.fx.tx, teacher.ID, teacher.ID)
	testutil.SeedAssignment(t, ctx, env.fx.tx, gA.ID, exercise.ID, other.ID)
	testutil.SeedAssignment(t, ctx, env.fx.tx, gB.ID, exercise.ID, teacher.ID)

	views, err := env.assignments.GetByExercise(ctx, exercise.ID, teacher.ID)
	if err != nil {
		t.Fatalf("teacher GetByExercise: %v", err)
	}
	if len(views) != 1 || views[0].ID != gB.ID {
		t.Fatalf("teacher sees %+v, want only group %s", views, gB.ID)
	}
	if views[0].CenterName != "center-b" {
		t.Fatalf("center name = %q, want center-b", views[0].CenterName)
	}

	views, err = env.assignments.GetByExercise(ctx, exercise.ID, headmaster.ID)
	if err != nil {
		t.Fatalf("headmaster GetByExercise: %v", err)
	}
	if len(views) != 1 || views[0].ID != gA.ID {
		t.Fatalf("headmaster sees %+v, want only group %s", views, gA.ID)
	}
}
