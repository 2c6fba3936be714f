package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"PPSocial/module/social/service"
	"PPSocial/tools/errs"
)

type FriendHandler struct {
	svc *service.FriendService
}

func NewFriendHandler(svc *service.FriendService) *FriendHandler {
	return &FriendHandler{svc: svc}
}

type sendRequestReq struct {
	ReceiverID string `json:"receiverId"`
}

// SendRequest POST /friends/add
func (h *FriendHandler) SendRequest(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req sendRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.ErrArgs.WrapMsg("invalid request body"))
		return
	}

	result, err := h.svc.SendRequest(c.Request.Context(), userID, req.ReceiverID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Friend request sent",
		"requestId": result.RequestID,
		"token":     result.Token,
	})
}

type tokenReq struct {
	Token string `json:"token"`
}

// AcceptRequest POST /friends/accept
func (h *FriendHandler) AcceptRequest(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req tokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.ErrArgs.WrapMsg("invalid request body"))
		return
	}

	token, err := h.svc.AcceptRequest(c.Request.Context(), req.Token, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Friend request accepted",
		"token":   token,
	})
}

// RejectRequest POST /friends/reject
func (h *FriendHandler) RejectRequest(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	var req tokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.ErrArgs.WrapMsg("invalid request body"))
		return
	}

	token, err := h.svc.RejectRequest(c.Request.Context(), req.Token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Friend request rejected",
		"token":   token,
	})
}

// ListFriends GET /friends
func (h *FriendHandler) ListFriends(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	friends, err := h.svc.ListFriends(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, friends)
}

// ListPending GET /friends/pending
func (h *FriendHandler) ListPending(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	pending, err := h.svc.ListPending(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pending)
}
