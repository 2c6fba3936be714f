package model

import (
	"time"
)

// GroupMessage 群消息，结构与单聊消息一致；Text 同样密文落库
type GroupMessage struct {
	SenderID  string    `bson:"sender_id" json:"senderId"`
	Text      string    `bson:"text" json:"text"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Status    string    `bson:"status" json:"status"`
}

// Group 群：每次创建都是新群，不做参与者集合查重。
// 成员按加入顺序保存，创建者必在其中。
type Group struct {
	GroupID    string         `bson:"_id" json:"groupId"`
	Name       string         `bson:"name" json:"name"`
	CreatorID  string         `bson:"creator_id" json:"creatorId"`
	MemberIDs  []string       `bson:"member_ids" json:"memberIds"`
	Messages   []GroupMessage `bson:"messages" json:"-"`
	CreateTime time.Time      `bson:"create_time" json:"createdAt"`
}

// HasMember 判断 userID 是否是群成员
func (g *Group) HasMember(userID string) bool {
	for _, id := range g.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// AddMember 幂等加入成员，返回是否发生变化
func (g *Group) AddMember(userID string) bool {
	if g.HasMember(userID) {
		return false
	}
	g.MemberIDs = append(g.MemberIDs, userID)
	return true
}

// GroupMessageView 群消息读取投影：解密正文 + 发送者展示名。
// 发送者档案已不可解析时用占位名，不让单条坏引用拖垮整个列表。
const UnknownSenderName = "Unknown User"

type GroupMessageView struct {
	SenderID       string    `json:"senderId"`
	SenderUsername string    `json:"senderUsername"`
	Text           string    `json:"text"`
	Timestamp      time.Time `json:"timestamp"`
	Status         string    `json:"status"`
}
