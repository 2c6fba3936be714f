package model

// User 用户主档（由外部用户目录持有，这里按引用消费）。
// 好友关系是对称的：A 的 FriendIDs 含 B 当且仅当 B 的含 A，
// 由好友服务在接受申请时维护，存储层不做保证。
type User struct {
	UserID    string   `bson:"_id" json:"id"`            // 全局唯一用户ID（主键）
	Username  string   `bson:"username" json:"username"` // 唯一用户名
	Email     string   `bson:"email" json:"email"`       // 唯一邮箱
	Password  string   `bson:"password" json:"-"`        // 凭证（登录走外部鉴权，这里不做校验）
	FirstName string   `bson:"first_name" json:"firstName"`
	LastName  string   `bson:"last_name" json:"lastName"`
	FriendIDs []string `bson:"friend_ids" json:"friendIds"` // 好友ID集合（顺序无关）
}

// HasFriend 判断 userID 是否在好友集合里
func (u *User) HasFriend(userID string) bool {
	for _, id := range u.FriendIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// AddFriend 幂等地加入好友集合，返回是否发生变化
func (u *User) AddFriend(userID string) bool {
	if u.HasFriend(userID) {
		return false
	}
	u.FriendIDs = append(u.FriendIDs, userID)
	return true
}

// PublicProfile 对外公开的用户视图（好友列表、待处理申请里用）
type PublicProfile struct {
	UserID    string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Public 从主档裁剪公开视图
func (u *User) Public() PublicProfile {
	return PublicProfile{
		UserID:    u.UserID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
