package store

import (
	"context"
	"strings"
	"sync"

	"PPSocial/module/social/model"
)

// MemoryStores 内存实现：测试与单机开发用，语义对齐 Mongo 实现。
// 所有读操作返回副本，避免调用方改动穿透到"库"里。
type MemoryStores struct {
	mu       sync.RWMutex
	users    map[string]*model.User
	requests map[string]*model.FriendRequest
	convs    map[string]*model.Conversation
	groups   map[string]*model.Group
}

func NewMemoryStores() *MemoryStores {
	return &MemoryStores{
		users:    make(map[string]*model.User),
		requests: make(map[string]*model.FriendRequest),
		convs:    make(map[string]*model.Conversation),
		groups:   make(map[string]*model.Group),
	}
}

func copyUser(u *model.User) *model.User {
	cp := *u
	cp.FriendIDs = append([]string(nil), u.FriendIDs...)
	return &cp
}

func copyConv(c *model.Conversation) *model.Conversation {
	cp := *c
	cp.Participants = append([]string(nil), c.Participants...)
	cp.Messages = append([]model.Message(nil), c.Messages...)
	return &cp
}

func copyGroup(g *model.Group) *model.Group {
	cp := *g
	cp.MemberIDs = append([]string(nil), g.MemberIDs...)
	cp.Messages = append([]model.GroupMessage(nil), g.Messages...)
	return &cp
}

// —— UserStore ——

func (m *MemoryStores) FindByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

func (m *MemoryStores) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStores) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStores) Save(ctx context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.UserID] = copyUser(u)
	return nil
}

func (m *MemoryStores) FindAll(ctx context.Context) ([]*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, copyUser(u))
	}
	return out, nil
}

// —— FriendRequestStore ——
// UserStore.Save 与这里的 Save 同名但接收者不同实体，
// 拆成独立子结构体避免接口冲突。

type MemoryRequestStore struct{ m *MemoryStores }

func (m *MemoryStores) RequestStore() *MemoryRequestStore { return &MemoryRequestStore{m: m} }

func (s *MemoryRequestStore) Save(ctx context.Context, r *model.FriendRequest) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	cp := *r
	s.m.requests[r.ID] = &cp
	return nil
}

func (s *MemoryRequestStore) FindByID(ctx context.Context, id string) (*model.FriendRequest, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	r, ok := s.m.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *MemoryRequestStore) DeleteByID(ctx context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.requests[id]; !ok {
		return ErrNotFound
	}
	delete(s.m.requests, id)
	return nil
}

func (s *MemoryRequestStore) FindBySenderAndReceiver(ctx context.Context, senderID, receiverID string) ([]*model.FriendRequest, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	var out []*model.FriendRequest
	for _, r := range s.m.requests {
		if r.SenderID == senderID && r.ReceiverID == receiverID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemoryRequestStore) FindByToken(ctx context.Context, token string) (*model.FriendRequest, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	for _, r := range s.m.requests {
		if r.Token == token {
			cp := *r
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryRequestStore) FindByStatusAndParty(ctx context.Context, status, userID string) ([]*model.FriendRequest, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	var out []*model.FriendRequest
	for _, r := range s.m.requests {
		if r.Status == status && (r.SenderID == userID || r.ReceiverID == userID) {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

// —— ConversationStore ——

type MemoryConversationStore struct{ m *MemoryStores }

func (m *MemoryStores) ConversationStore() *MemoryConversationStore {
	return &MemoryConversationStore{m: m}
}

func (s *MemoryConversationStore) Save(ctx context.Context, c *model.Conversation) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.convs[c.ConversationID] = copyConv(c)
	return nil
}

func (s *MemoryConversationStore) FindByID(ctx context.Context, id string) (*model.Conversation, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	c, ok := s.m.convs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyConv(c), nil
}

func (s *MemoryConversationStore) FindByExactParticipants(ctx context.Context, participants []string) (*model.Conversation, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	key := strings.Join(participants, "|")
	for _, c := range s.m.convs {
		if strings.Join(c.Participants, "|") == key {
			return copyConv(c), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryConversationStore) FindByParticipant(ctx context.Context, userID string) ([]*model.Conversation, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	var out []*model.Conversation
	for _, c := range s.m.convs {
		if c.HasParticipant(userID) {
			out = append(out, copyConv(c))
		}
	}
	return out, nil
}

// —— GroupStore ——

type MemoryGroupStore struct{ m *MemoryStores }

func (m *MemoryStores) GroupStore() *MemoryGroupStore { return &MemoryGroupStore{m: m} }

func (s *MemoryGroupStore) Save(ctx context.Context, g *model.Group) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.groups[g.GroupID] = copyGroup(g)
	return nil
}

func (s *MemoryGroupStore) FindByID(ctx context.Context, id string) (*model.Group, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	g, ok := s.m.groups[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyGroup(g), nil
}

func (s *MemoryGroupStore) FindByMember(ctx context.Context, userID string) ([]*model.Group, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	var out []*model.Group
	for _, g := range s.m.groups {
		if g.HasMember(userID) {
			out = append(out, copyGroup(g))
		}
	}
	return out, nil
}
