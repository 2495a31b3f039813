package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/classmode-backend/internal/domain"
)

func PtrUUID(id uuid.UUID) *uuid.UUID { return &id }

func PtrTime(t time.Time) *time.Time { return &t }

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCenter(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Center {
	tb.Helper()
	c := &types.Center{
		ID:   uuid.New(),
		Name: name,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed center: %v", err)
	}
	return c
}

func SeedGroup(tb testing.TB, ctx context.Context, tx *gorm.DB, centerID, creatorID, teacherID uuid.UUID, accessCode string) *types.Group {
	tb.Helper()
	g := &types.Group{
		ID:         uuid.New(),
		Name:       "group",
		Status:     types.GroupStatusOpen,
		AccessCode: accessCode,
		CreatorID:  creatorID,
		TeacherID:  teacherID,
		CenterID:   centerID,
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed group: %v", err)
	}
	return g
}

func SeedExercise(tb testing.TB, ctx context.Context, tx *gorm.DB, creatorID, teacherID uuid.UUID) *types.Exercise {
	tb.Helper()
	e := &types.Exercise{
		ID:        uuid.New(),
		Name:      "exercise",
		CreatorID: creatorID,
		TeacherID: teacherID,
		Content:   datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed exercise: %v", err)
	}
	return e
}

func SeedAssignment(tb testing.TB, ctx context.Context, tx *gorm.DB, groupID, exerciseID, creatorID uuid.UUID) *types.Assignment {
	tb.Helper()
	a := &types.Assignment{
		ID:         uuid.New(),
		GroupID:    groupID,
		ExerciseID: exerciseID,
		CreatorID:  creatorID,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed assignment: %v", err)
	}
	return a
}

func SeedTask(tb testing.TB, ctx context.Context, tx *gorm.DB, groupID, exerciseID, studentID, teacherID uuid.UUID) *types.Task {
	tb.Helper()
	task := &types.Task{
		ID:         uuid.New(),
		ExerciseID: exerciseID,
		GroupID:    groupID,
		StudentID:  studentID,
		TeacherID:  teacherID,
		CreatorID:  teacherID,
		Status:     "pending",
		Progress:   datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(task).Error; err != nil {
		tb.Fatalf("seed task: %v", err)
	}
	return task
}

func SeedStudent(tb testing.TB, ctx context.Context, tx *gorm.DB, centerID, groupID uuid.UUID, email string) *types.User {
	tb.Helper()
	u := SeedUser(tb, ctx, tx, email)
	m := &types.Membership{
		ID:       uuid.New(),
		UserID:   u.ID,
		CenterID: centerID,
		GroupID:  PtrUUID(groupID),
		Role:     types.RoleStudent,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed student membership: %v", err)
	}
	return u
}

func SeedHeadmaster(tb testing.TB, ctx context.Context, tx *gorm.DB, centerID uuid.UUID, email string) *types.User {
	tb.Helper()
	u := SeedUser(tb, ctx, tx, email)
	m := &types.Membership{
		ID:       uuid.New(),
		UserID:   u.ID,
		CenterID: centerID,
		Role:     types.RoleHeadmaster,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed headmaster membership: %v", err)
	}
	return u
}
