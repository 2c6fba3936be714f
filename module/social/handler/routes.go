package handler

import (
	"github.com/gin-gonic/gin"

	mid "PPSocial/middleware"
)

// RegisterRoutes 社交域全部路由；均要求会话鉴权
func RegisterRoutes(r *gin.Engine, f *FriendHandler, m *MessageHandler, g *GroupHandler) {
	auth := mid.RouteOpt{IsAuth: true}

	mid.POST(r, "/friends/add", f.SendRequest, auth)
	mid.POST(r, "/friends/accept", f.AcceptRequest, auth)
	mid.POST(r, "/friends/reject", f.RejectRequest, auth)
	mid.GET(r, "/friends", f.ListFriends, auth)
	mid.GET(r, "/friends/pending", f.ListPending, auth)

	mid.POST(r, "/messages/send", m.SendMessage, auth)
	mid.GET(r, "/messages", m.History, auth)
	mid.GET(r, "/messages/:conversationId", m.HistoryByID, auth)

	mid.POST(r, "/groups/create", g.CreateGroup, auth)
	mid.POST(r, "/groups/:groupId/add-member", g.AddMembers, auth)
	mid.POST(r, "/groups/:groupId/send", g.SendMessage, auth)
	mid.GET(r, "/groups", g.ListGroups, auth)
	mid.GET(r, "/groups/:groupId/messages", g.GetMessages, auth)
	mid.GET(r, "/groups/:groupId/members", g.GetMembers, auth)
}
