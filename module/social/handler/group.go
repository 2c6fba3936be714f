package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"PPSocial/module/social/service"
	"PPSocial/tools/errs"
)

type GroupHandler struct {
	svc *service.GroupService
}

func NewGroupHandler(svc *service.GroupService) *GroupHandler {
	return &GroupHandler{svc: svc}
}

type createGroupReq struct {
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds"`
}

// CreateGroup POST /groups/create
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req createGroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.ErrArgs.WrapMsg("invalid request body"))
		return
	}

	g, err := h.svc.CreateGroup(c.Request.Context(), userID, req.Name, req.MemberIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

type addMembersReq struct {
	MemberIDs []string `json:"memberIds"`
}

// AddMembers POST /groups/:groupId/add-member
func (h *GroupHandler) AddMembers(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	var req addMembersReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.ErrArgs.WrapMsg("invalid request body"))
		return
	}

	g, err := h.svc.AddMembers(c.Request.Context(), c.Param("groupId"), req.MemberIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

type groupSendReq struct {
	Text string `json:"text"`
}

// SendMessage POST /groups/:groupId/send
func (h *GroupHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req groupSendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.ErrArgs.WrapMsg("invalid request body"))
		return
	}

	if err := h.svc.SendGroupMessage(c.Request.Context(), c.Param("groupId"), userID, req.Text); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message sent"})
}

// GetMessages GET /groups/:groupId/messages
func (h *GroupHandler) GetMessages(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	msgs, err := h.svc.GetMessages(c.Request.Context(), c.Param("groupId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// GetMembers GET /groups/:groupId/members
func (h *GroupHandler) GetMembers(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	members, err := h.svc.GetMembers(c.Request.Context(), c.Param("groupId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// ListGroups GET /groups
func (h *GroupHandler) ListGroups(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	groups, err := h.svc.ListGroups(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}
