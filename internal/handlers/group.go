package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/classmode-backend/internal/platform/logger"
	"github.com/yungbote/classmode-backend/internal/requestdata"
	"github.com/yungbote/classmode-backend/internal/services"
)

type GroupHandler struct {
	log          *logger.Logger
	groupService services.GroupService
}

func NewGroupHandler(log *logger.Logger, groupService services.GroupService) *GroupHandler {
	return &GroupHandler{
		log:          log.With("handler", "GroupHandler"),
		groupService: groupService,
	}
}

type createGroupRequest struct {
	Name     string    `json:"name"`
	CenterID uuid.UUID `json:"center_id"`
	Color    string    `json:"color,omitempty"`
}

func (h *GroupHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), services.CreateGroupSpec{
		Name:     req.Name,
		CenterID: req.CenterID,
		Color:    req.Color,
	}, rd.UserID)
	if err != nil {
		h.log.Error("Create group failed", "error", err)
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"group": group})
}

func (h *GroupHandler) Delete(c *gin.Context) {
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

	if err := h.groupService.DeleteGroup(c.Request.Context(), groupID, rd.UserID); err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

type enrollRequest struct {
	AccessCode string `json:"access_code"`
}

func (h *GroupHandler) Enroll(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	task, err := h.groupService.EnrollByAccessCode(c.Request.Context(), req.AccessCode, rd.UserID)
	if err != nil {
		h.log.Warn("Enroll failed", "error", err)
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"task": task})
}
