package domain

import (
	"github.com/yungbote/classmode-backend/internal/domain/classroom"
	"github.com/yungbote/classmode-backend/internal/domain/user"
)

type User = user.User

type Center = classroom.Center
type Group = classroom.Group
type Exercise = classroom.Exercise
type Assignment = classroom.Assignment
type Task = classroom.Task
type Membership = classroom.Membership

const (
	GroupStatusOpen       = classroom.GroupStatusOpen
	GroupStatusInProgress = classroom.GroupStatusInProgress
	GroupStatusClosed     = classroom.GroupStatusClosed

	RoleStudent    = classroom.RoleStudent
	RoleTeacher    = classroom.RoleTeacher
	RoleHeadmaster = classroom.RoleHeadmaster
)
