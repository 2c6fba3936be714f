package store

import (
	"context"
	"errors"

	"PPSocial/module/social/model"
)

// ErrNotFound 记录不存在（区别于存储访问失败）
var ErrNotFound = errors.New("record not found")

// UserStore 外部用户目录。用户主档不归本服务管，这里只按引用读写。
type UserStore interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Save(ctx context.Context, u *model.User) error
	FindAll(ctx context.Context) ([]*model.User, error)
}

// FriendRequestStore 好友申请存储
type FriendRequestStore interface {
	Save(ctx context.Context, r *model.FriendRequest) error
	FindByID(ctx context.Context, id string) (*model.FriendRequest, error)
	DeleteByID(ctx context.Context, id string) error
	FindBySenderAndReceiver(ctx context.Context, senderID, receiverID string) ([]*model.FriendRequest, error)
	FindByToken(ctx context.Context, token string) (*model.FriendRequest, error)
	// FindByStatusAndParty 返回 userID 作为任一方、状态匹配的申请
	FindByStatusAndParty(ctx context.Context, status, userID string) ([]*model.FriendRequest, error)
}

// ConversationStore 单聊会话存储
type ConversationStore interface {
	Save(ctx context.Context, c *model.Conversation) error
	FindByID(ctx context.Context, id string) (*model.Conversation, error)
	// FindByExactParticipants 按参与者集合精确匹配（入参须已规范化排序）
	FindByExactParticipants(ctx context.Context, participants []string) (*model.Conversation, error)
	FindByParticipant(ctx context.Context, userID string) ([]*model.Conversation, error)
}

// GroupStore 群存储
type GroupStore interface {
	Save(ctx context.Context, g *model.Group) error
	FindByID(ctx context.Context, id string) (*model.Group, error)
	FindByMember(ctx context.Context, userID string) ([]*model.Group, error)
}
