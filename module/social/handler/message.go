package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"PPSocial/module/social/service"
	"PPSocial/tools/errs"
)

type MessageHandler struct {
	svc *service.ConversationService
}

func NewMessageHandler(svc *service.ConversationService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

type sendMessageReq struct {
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
	Initial    bool   `json:"initial"` // true 只建会话不发正文
}

// SendMessage POST /messages/send
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.ErrArgs.WrapMsg("invalid request body"))
		return
	}

	conv, err := h.svc.SendDirect(c.Request.Context(), userID, req.ReceiverID, req.Text, req.Initial)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "Message sent",
		"conversationId": conv.ConversationID,
	})
}

// History GET /messages
func (h *MessageHandler) History(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	convs, err := h.svc.History(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, convs)
}

// HistoryByID GET /messages/:conversationId
func (h *MessageHandler) HistoryByID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	conversationID := c.Param("conversationId")

	conv, err := h.svc.HistoryByID(c.Request.Context(), conversationID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !conv.HasParticipant(userID) {
		respondError(c, errs.ErrNoPermission.WrapMsg("not a participant", "conversationID", conversationID))
		return
	}
	c.JSON(http.StatusOK, conv)
}
