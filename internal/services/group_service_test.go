package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/classmode-backend/internal/data/repos"
	"github.com/yungbote/classmode-backend/internal/data/repos/testutil"
	types "github.com/yungbote/classmode-backend/internal/domain"
	"github.com/yungbote/classmode-backend/internal/platform/apierr"
)

type groupEnv struct {
	fx          *testFixture
	groups      repos.GroupRepo
	asgs        repos.AssignmentRepo
	tasks       repos.TaskRepo
	memberships repos.MembershipRepo
	service     GroupService
	assignments AssignmentService
}

func newGroupEnv(t *testing.T) *groupEnv {
	t.Helper()
	fx := newFixture(t)
	env := &groupEnv{
		fx:          fx,
		groups:      repos.NewGroupRepo(fx.tx, fx.log),
		asgs:        repos.NewAssignmentRepo(fx.tx, fx.log),
		tasks:       repos.NewTaskRepo(fx.tx, fx.log),
		memberships: repos.NewMembershipRepo(fx.tx, fx.log),
	}
	exs := repos.NewExerciseRepo(fx.tx, fx.log)
	roster := NewRosterService(fx.tx, fx.log, env.memberships)
	policy := NewPolicyService(fx.tx, fx.log, env.groups, roster)
	fanout := NewTaskFanoutService(fx.tx, fx.log, env.groups, env.tasks, env.asgs, roster)
	env.service = NewGroupService(fx.tx, fx.log, env.groups, env.asgs, env.tasks, env.memberships, fanout, policy)
	env.assignments = NewAssignmentService(fx.tx, fx.log, env.asgs, env.tasks, exs, fanout, policy)
	return env
}

func TestCreateGroupMintsSequentialCodes(t *testing.T) {
	env := newGroupEnv(t)
	ctx := context.Background()

	teacher := testutil.SeedUser(t, ctx, env.fx.tx, "teacher-mint@test.dev")
	center := testutil.SeedCenter(t, ctx, env.fx.tx, "center")

	prev, err := env.groups.LastAccessCode(ctx, env.fx.tx)
	if err != nil {
		t.Fatalf("read last code: %v", err)
	}

	g1, err := env.service.CreateGroup(ctx, CreateGroupSpec{Name: "first", CenterID: center.ID}, teacher.ID)
	if err != nil {
		t.Fatalf("create first group: %v", err)
	}
	if g1.AccessCode != NextAccessCode(prev) {
		t.Fatalf("first code = %q, want %q", g1.AccessCode, NextAccessCode(prev))
	}
	if g1.Status != types.GroupStatusOpen {
		t.Fatalf("status = %q, want %q", g1.Status, types.GroupStatusOpen)
	}
	if g1.CreatorID != teacher.ID || g1.TeacherID != teacher.ID {
		t.Fatalf("creator/teacher = %s/%s, want both %s", g1.CreatorID, g1.TeacherID, teacher.ID)
	}

	g2, err := env.service.CreateGroup(ctx, CreateGroupSpec{Name: "second", CenterID: center.ID}, teacher.ID)
	if err != nil {
		t.Fatalf("create second group: %v", err)
	}
	if g2.AccessCode != NextAccessCode(g1.AccessCode) {
		t.Fatalf("second code = %q, want %q", g2.AccessCode, NextAccessCode(g1.AccessCode))
	}
}

func TestCreateGroupCodeSurvivesDeletedGroups(t *testing.T) {
	env := newGroupEnv(t)
	ctx := context.Background()

	teacher := testutil.SeedUser(t, ctx, env.fx.tx, "teacher-surv@test.dev")
	center := testutil.SeedCenter(t, ctx, env.fx.tx, "center")

	g1, err := env.service.CreateGroup(ctx, CreateGroupSpec{Name: "doomed", CenterID: center.ID}, teacher.ID)
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if err := env.service.DeleteGroup(ctx, g1.ID, teacher.ID); err != nil {
		t.Fatalf("delete group: %v", err)
	}

	// The deleted group's code stays reserved; the next group moves past it.
	g2, err := env.service.CreateGroup(ctx, CreateGroupSpec{Name: "next", CenterID: center.ID}, teacher.ID)
	if err != nil {
		t.Fatalf("create next group: %v", err)
	}
	if g2.AccessCode != NextAccessCode(g1.AccessCode) {
		t.Fatalf("code after delete = %q, want %q", g2.AccessCode, NextAccessCode(g1.AccessCode))
	}
}

func TestCreateGroupValidation(t *testing.T) {
	env := newGroupEnv(t)
	ctx := context.Background()

	_, err := env.service.CreateGroup(ctx, CreateGroupSpec{Name: "", CenterID: uuid.New()}, uuid.New())
	if apierr.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("missing name status = %d, want 400", apierr.StatusOf(err))
	}
	_, err = env.service.CreateGroup(ctx, CreateGroupSpec{Name: "g", CenterID: uuid.Nil}, uuid.New())
	if apierr.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("missing center status = %d, want 400", apierr.StatusOf(err))
	}
}

func TestDeleteGroupCascades(t *testing.T) {
	env := newGroupEnv(t)
	ctx := context.Background()

	teacher := testutil.SeedUser(t, ctx, env.fx.tx, "teacher-del@test.dev")
	center := testutil.SeedCenter(t, ctx, env.fx.tx, "center")
	group := testutil.SeedGroup(t, ctx, env.fx.tx, center.ID, teacher.ID, teacher.ID, "grp001")
	exercise := testutil.SeedExercise(t, ctx, env.fx.tx, teacher.ID, teacher.ID)
	student := testutil.SeedStudent(t, ctx, env.fx.tx, center.ID, group.ID, "s-del@test.dev")
	testutil.SeedAssignment(t, ctx, env.fx.tx, group.ID, exercise.ID, teacher.ID)
	testutil.SeedTask(t, ctx, env.fx.tx, group.ID, exercise.ID, student.ID, teacher.ID)

	if err := env.service.DeleteGroup(ctx, group.ID, teacher.ID); err != nil {
		t.Fatalf("DeleteGroup: %v", err)
	}

	live, err := env.groups.GetByIDs(ctx, env.fx.tx, []uuid.UUID{group.ID})
	if err != nil {
		t.Fatalf("load group: %v", err)
	}
	if len(live) != 0 {
		t.Fatalf("group still visible after soft delete")
	}
	assignment, err := env.asgs.GetByGroupAndExercise(ctx, env.fx.tx, group.ID, exercise.ID)
	if err != nil {
		t.Fatalf("load assignment: %v", err)
	}
	if assignment != nil {
		t.Fatalf("assignment survived the cascade")
	}
	tasks, err := env.tasks.GetByStudentExerciseGroup(ctx, env.fx.tx, student.ID, exercise.ID, group.ID)
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("tasks survived the cascade: %d", len(tasks))
	}

	// The deleted group answers queries with nothing rather than an error.
	exercises, err := env.assignments.GetByGroup(ctx, group.ID, 1, 10)
	if err != nil {
		t.Fatalf("GetByGroup after delete: %v", err)
	}
	if len(exercises) != 0 {
		t.Fatalf("deleted group still lists %d exercises", len(exercises))
	}
}

func TestDeleteGroupAuthorization(t *testing.T) {
	env := newGroupEnv(t)
	ctx := context.Background()

	creator := testutil.SeedUser(t, ctx, env.fx.tx, "creator-auth@test.dev")
	stranger := testutil.SeedUser(t, ctx, env.fx.tx, "stranger-auth@test.dev")
	center := testutil.SeedCenter(t, ctx, env.fx.tx, "center")
	headmaster := testutil.SeedHeadmaster(t, ctx, env.fx.tx, center.ID, "head-auth@test.dev")
	group := testutil.SeedGroup(t, ctx, env.fx.tx, center.ID, creator.ID, creator.ID, "grp002")

	err := env.service.DeleteGroup(ctx, group.ID, stranger.ID)
	if apierr.StatusOf(err) != http.StatusForbidden {
		t.Fatalf("stranger status = %d, want 403", apierr.StatusOf(err))
	}
	live, err := env.groups.GetByIDs(ctx, env.fx.tx, []uuid.UUID{group.ID})
	if err != nil || len(live) != 1 {
		t.Fatalf("group should survive a forbidden delete: %v (%d rows)", err, len(live))
	}

	if err := env.service.DeleteGroup(ctx, group.ID, headmaster.ID); err != nil {
		t.Fatalf("headmaster delete: %v", err)
	}

	err = env.service.DeleteGroup(ctx, uuid.New(), creator.ID)
	if apierr.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("missing group status = %d, want 404", apierr.StatusOf(err))
	}
}

func TestEnrollByAccessCode(t *testing.T) {
	env := newGroupEnv(t)
	ctx := context.Background()

	teacher := testutil.SeedUser(t, ctx, env.fx.tx, "teacher-enroll@test.dev")
	center := testutil.SeedCenter(t, ctx, env.fx.tx, "center")
	group := testutil.SeedGroup(t, ctx, env.fx.tx, center.ID, teacher.ID, teacher.ID, "grp003")
	exercise := testutil.SeedExercise(t, ctx, env.fx.tx, teacher.ID, teacher.ID)
	testutil.SeedAssignment(t, ctx, env.fx.tx, group.ID, exercise.ID, teacher.ID)
	student := testutil.SeedUser(t, ctx, env.fx.tx, "s-enroll@test.dev")

	task, err := env.service.EnrollByAccessCode(ctx, " GRP003 ", student.ID)
	if err != nil {
		t.Fatalf("EnrollByAccessCode: %v", err)
	}
	if task == nil {
		t.Fatalf("expected a task for the newly enrolled student")
	}
	if task.StudentID != student.ID || task.ExerciseID != exercise.ID {
		t.Fatalf("task = %+v, want student %s exercise %s", task, student.ID, exercise.ID)
	}

	roster, err := env.memberships.StudentIDsByGroup(ctx, env.fx.tx, group.ID)
	if err != nil {
		t.Fatalf("load roster: %v", err)
	}
	found := false
	for _, id := range roster {
		if id == student.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("student %s missing from roster %v", student.ID, roster)
	}

	_, err = env.service.EnrollByAccessCode(ctx, "zzzzz9", student.ID)
	if apierr.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("unknown code status = %d, want 404", apierr.StatusOf(err))
	}
}
