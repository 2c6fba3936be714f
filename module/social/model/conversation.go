package model

import (
	"sort"
	"time"
)

// 消息投递状态（自由字符串，不做状态机约束）
const MessageStatusSent = "sent"

// Message 单聊消息。消息从属于所在会话，只追加，不单独修改/删除。
// Text 落库为密文，读取时解密。
type Message struct {
	SenderID  string    `bson:"sender_id" json:"senderId"`
	Text      string    `bson:"text" json:"text"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Status    string    `bson:"status" json:"status"`
}

// Conversation 单聊会话：参与者恰好两人，按字典序规范化后存储，
// 任意无序对 {A,B} 至多对应一个会话（创建前按参与者集合查重）。
type Conversation struct {
	ConversationID string    `bson:"_id" json:"conversationId"`
	Participants   []string  `bson:"participants" json:"participants"` // 规范化（排序）的参与者
	Messages       []Message `bson:"messages" json:"messages"`
	CreateTime     time.Time `bson:"create_time" json:"-"`
}

// HasParticipant 判断 userID 是否是会话参与者
func (c *Conversation) HasParticipant(userID string) bool {
	for _, id := range c.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// CanonicalPair 把无序对 {a,b} 规范化为排序后的参与者列表，
// 查重与锁语义都以它为键
func CanonicalPair(a, b string) []string {
	p := []string{a, b}
	sort.Strings(p)
	return p
}
