package classroom

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/classmode-backend/internal/data/repos/testutil"
	types "github.com/yungbote/classmode-backend/internal/domain"
)

func TestAssignmentRepoUpsert(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewAssignmentRepo(db, testutil.Logger(t))

	teacher := testutil.SeedUser(t, ctx, tx, "assignrepo-teacher@example.com")
	other := testutil.SeedUser(t, ctx, tx, "assignrepo-other@example.com")
	center := testutil.SeedCenter(t, ctx, tx, "assignrepo-center")
	group := testutil.SeedGroup(t, ctx, tx, center.ID, teacher.ID, teacher.ID, "00b001")
	exercise := testutil.SeedExercise(t, ctx, tx, teacher.ID, teacher.ID)

	row := &types.Assignment{
		ID:         uuid.New(),
		GroupID:    group.ID,
		ExerciseID: exercise.ID,
		CreatorID:  teacher.ID,
	}
	if err := repo.Upsert(ctx, tx, row); err != nil {
		t.Fatalf("Upsert insert: %v", err)
	}

	// Re-assigning the same pair must update in place, never duplicate.
	end := time.Now().UTC().Add(48 * time.Hour)
	again := &types.Assignment{
		ID:         uuid.New(),
		GroupID:    group.ID,
		ExerciseID: exercise.ID,
		CreatorID:  other.ID,
		EndDate:    &end,
	}
	if err := repo.Upsert(ctx, tx, again); err != nil {
		t.Fatalf("Upsert update: %v", err)
	}

	rows, err := repo.GetByExerciseAndGroupIDs(ctx, tx, exercise.ID, []uuid.UUID{group.ID})
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByExerciseAndGroupIDs: err=%v len=%d", err, len(rows))
	}
	if rows[0].ID != row.ID {
		t.Fatalf("upsert replaced the row instead of updating it")
	}
	if rows[0].CreatorID != other.ID {
		t.Fatalf("upsert did not overwrite creator: got %s", rows[0].CreatorID)
	}
	if rows[0].EndDate == nil {
		t.Fatalf("upsert did not overwrite end date")
	}

	found, err := repo.GetByGroupAndExercise(ctx, tx, group.ID, exercise.ID)
	if err != nil || found == nil {
		t.Fatalf("GetByGroupAndExercise: err=%v found=%v", err, found)
	}
	if miss, err := repo.GetByGroupAndExercise(ctx, tx, group.ID, uuid.New()); err != nil || miss != nil {
		t.Fatalf("GetByGroupAndExercise miss: err=%v found=%v", err, miss)
	}

	if err := repo.DeleteByIDs(ctx, tx, []uuid.UUID{row.ID}); err != nil {
		t.Fatalf("DeleteByIDs: %v", err)
	}
	if rows, err := repo.GetByGroupIDs(ctx, tx, []uuid.UUID{group.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("after DeleteByIDs GetByGroupIDs: err=%v len=%d", err, len(rows))
	}
}

func TestAssignmentRepoVisibility(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewAssignmentRepo(db, testutil.Logger(t))

	teacher := testutil.SeedUser(t, ctx, tx, "assignvis-teacher@example.com")
	outsider := testutil.SeedUser(t, ctx, tx, "assignvis-outsider@example.com")
	center := testutil.SeedCenter(t, ctx, tx, "assignvis-center")
	otherCenter := testutil.SeedCenter(t, ctx, tx, "assignvis-other-center")
	group := testutil.SeedGroup(t, ctx, tx, center.ID, teacher.ID, teacher.ID, "00c001")
	foreign := testutil.SeedGroup(t, ctx, tx, otherCenter.ID, outsider.ID, outsider.ID, "00c002")
	exercise := testutil.SeedExercise(t, ctx, tx, teacher.ID, teacher.ID)
	testutil.SeedAssignment(t, ctx, tx, group.ID, exercise.ID, teacher.ID)
	testutil.SeedAssignment(t, ctx, tx, foreign.ID, exercise.ID, outsider.ID)

	// Headmaster of center sees only the group inside it.
	rows, err := repo.GetByExerciseVisible(ctx, tx, exercise.ID, center.ID, uuid.Nil)
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByExerciseVisible by center: err=%v len=%d", err, len(rows))
	}
	if rows[0].Group == nil || rows[0].Group.ID != group.ID {
		t.Fatalf("GetByExerciseVisible did not preload the expected group")
	}

	// A teacher outside the center still sees their own group.
	rows, err = repo.GetByExerciseVisible(ctx, tx, exercise.ID, uuid.Nil, outsider.ID)
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByExerciseVisible by teacher: err=%v len=%d", err, len(rows))
	}
	if rows[0].GroupID != foreign.ID {
		t.Fatalf("GetByExerciseVisible returned wrong group")
	}
}

func TestAssignmentRepoOrphans(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewAssignmentRepo(db, testutil.Logger(t))
	groups := NewGroupRepo(db, testutil.Logger(t))

	teacher := testutil.SeedUser(t, ctx, tx, "assignorph-teacher@example.com")
	center := testutil.SeedCenter(t, ctx, tx, "assignorph-center")
	group := testutil.SeedGroup(t, ctx, tx, center.ID, teacher.ID, teacher.ID, "00d001")
	exercise := testutil.SeedExercise(t, ctx, tx, teacher.ID, teacher.ID)
	a := testutil.SeedAssignment(t, ctx, tx, group.ID, exercise.ID, teacher.ID)

	if rows, err := repo.GetOrphanedByDeletedGroups(ctx, tx); err != nil || len(rows) != 0 {
		t.Fatalf("orphans before delete: err=%v len=%d", err, len(rows))
	}
	if err := groups.SoftDeleteByIDs(ctx, tx, []uuid.UUID{group.ID}); err != nil {
		t.Fatalf("SoftDeleteByIDs: %v", err)
	}
	rows, err := repo.GetOrphanedByDeletedGroups(ctx, tx)
	if err != nil || len(rows) != 1 || rows[0].ID != a.ID {
		t.Fatalf("orphans after delete: err=%v len=%d", err, len(rows))
	}
}
