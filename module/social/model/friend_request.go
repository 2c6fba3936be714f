package model

import (
	"time"
)

// FriendRequest 好友申请状态
const (
	RequestStatusPending = "PENDING" // 唯一会落库的状态；接受/拒绝直接删除记录
)

// FriendRequest 表示一次好友申请（SenderID -> ReceiverID 单次）。
// 生命周期：创建即 PENDING；接受或拒绝时记录被删除，
// 终态只体现在好友集合（接受）或记录缺失（拒绝）上。
// 同一有序 (sender, receiver) 对至多存在一条有效申请，插入前做存在性检查。
type FriendRequest struct {
	ID         string    `bson:"_id"`         // 记录ID（雪花）
	SenderID   string    `bson:"sender_id"`   // 发起方用户ID
	ReceiverID string    `bson:"receiver_id"` // 接收方用户ID
	Status     string    `bson:"status"`      // PENDING
	Token      string    `bson:"token"`       // 申请令牌（HS256，可独立验签）
	CreateTime time.Time `bson:"create_time"` // 申请创建时间
}

// Direction 待处理列表里的方向标注
const (
	DirectionSent     = "sent"
	DirectionReceived = "received"
)

// PendingRequestView 待处理申请的展示投影：方向 + 对方公开资料
type PendingRequestView struct {
	Token       string        `json:"requestToken"`
	Type        string        `json:"type"` // sent / received
	OtherUser   PublicProfile `json:"otherUser"`
	RequestDate time.Time     `json:"requestDate"`
}
