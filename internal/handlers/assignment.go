package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/classmode-backend/internal/platform/logger"
	"github.com/yungbote/classmode-backend/internal/requestdata"
	"github.com/yungbote/classmode-backend/internal/services"
)

type AssignmentHandler struct {
	log               *logger.Logger
	assignmentService services.AssignmentService
}

func NewAssignmentHandler(log *logger.Logger, assignmentService services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{
		log:               log.With("handler", "AssignmentHandler"),
		assignmentService: assignmentService,
	}
}

type assignEntry struct {
	GroupID  uuid.UUID  `json:"group"`
	InitDate *time.Time `json:"initDate,omitempty"`
	EndDate  *time.Time `json:"endDate,omitempty"`
}

type assignRequest struct {
	Assign []assignEntry `json:"assign"`
	Remove struct {
		Groups []uuid.UUID `json:"groups"`
	} `json:"remove"`
}

// Assign reconciles which groups an exercise is assigned to: the body names
// the groups to add (with date windows) and the groups to drop, in one call.
func (h *AssignmentHandler) Assign(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	exerciseID, err := uuid.Parse(c.Param("exerciseId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_exercise_id", err)
		return
	}
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	assign := make([]services.AssignSpec, 0, len(req.Assign))
	for _, entry := range req.Assign {
		assign = append(assign, services.AssignSpec{
			GroupID:    entry.GroupID,
			ExerciseID: exerciseID,
			InitDate:   entry.InitDate,
			EndDate:    entry.EndDate,
		})
	}
	remove := services.RemoveSpec{GroupIDs: req.Remove.Groups, ExerciseID: exerciseID}

	results, err := h.assignmentService.AssignAndRemove(c.Request.Context(), assign, remove, rd.UserID)
	if err != nil {
		h.log.Error("Assign failed", "error", err, "exercise_id", exerciseID)
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"results": results})
}

func (h *AssignmentHandler) Unassign(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	exerciseID, err := uuid.Parse(c.Param("exerciseId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_exercise_id", err)
		return
	}
	groupID, err := uuid.Parse(c.Param("groupId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_group_id", err)
		return
	}

	if err := h.assignmentService.Unassign(c.Request.Context(), exerciseID, groupID, rd.UserID); err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"removed": true})
}

func (h *AssignmentHandler) GetGroups(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	exerciseID, err := uuid.Parse(c.Param("exerciseId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_exercise_id", err)
		return
	}

	groups, err := h.assignmentService.GetByExercise(c.Request.Context(), exerciseID, rd.UserID)
	if err != nil {
		h.log.Error("GetGroups failed", "error", err, "exercise_id", exerciseID)
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"groups": groups})
}

func (h *AssignmentHandler) GetExercises(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	groupID, err := uuid.Parse(c.Param("groupId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_group_id", err)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	exercises, err := h.assignmentService.GetByGroup(c.Request.Context(), groupID, page, pageSize)
	if err != nil {
		h.log.Error("GetExercises failed", "error", err, "group_id", groupID)
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"exercises": exercises})
}
