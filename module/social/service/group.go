package service

import (
	"context"
	"errors"
	"strings"

	"PPSocial/logger"
	"PPSocial/module/social/model"
	"PPSocial/module/social/store"
	errs "PPSocial/tools/errs"
	ids "PPSocial/tools/ids"
	security "PPSocial/tools/security"

	"go.uber.org/zap"
)

// GroupService 群账本：创建、加人、发消息、读投影。
// 群不做参与者集合查重，每次创建都是新群。
type GroupService struct {
	users  store.UserStore
	groups store.GroupStore
	cipher *security.MessageCipher
}

func NewGroupService(users store.UserStore, groups store.GroupStore, cipher *security.MessageCipher) *GroupService {
	return &GroupService{users: users, groups: groups, cipher: cipher}
}

// CreateGroup 创建群：创建者与所有成员必须可解析；
// 成员集合 = 去重后的 memberIDs + 创建者。
func (s *GroupService) CreateGroup(ctx context.Context, creatorID, name string, memberIDs []string) (*model.Group, error) {
	creatorID = strings.TrimSpace(creatorID)
	name = strings.TrimSpace(name)
	if creatorID == "" || name == "" {
		return nil, errs.ErrArgs.WrapMsg("creatorId and name are required")
	}

	if _, err := s.resolveUser(ctx, creatorID); err != nil {
		return nil, err
	}
	for _, mid := range memberIDs {
		if _, err := s.resolveUser(ctx, mid); err != nil {
			return nil, err
		}
	}

	g := &model.Group{
		GroupID:    ids.GenerateString(),
		Name:       name,
		CreatorID:  creatorID,
		MemberIDs:  []string{},
		Messages:   []model.GroupMessage{},
		CreateTime: timeNow(),
	}
	for _, mid := range memberIDs {
		g.AddMember(mid)
	}
	g.AddMember(creatorID)

	if err := s.groups.Save(ctx, g); err != nil {
		return nil, errs.WrapMsg(err, "save group")
	}
	logger.Info("group created",
		zap.String("groupId", g.GroupID),
		zap.String("creatorId", creatorID),
		zap.Int("members", len(g.MemberIDs)))
	return g, nil
}

// AddMembers 批量加人：不可解析的ID与已在群里的ID直接跳过；
// 净增量为空时报 NoChange。
func (s *GroupService) AddMembers(ctx context.Context, groupID string, newMemberIDs []string) (*model.Group, error) {
	if len(newMemberIDs) == 0 {
		return nil, errs.ErrArgs.WrapMsg("no member ids provided")
	}

	g, err := s.findGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	added := false
	for _, mid := range newMemberIDs {
		if _, err := s.users.FindByID(ctx, mid); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return nil, errs.WrapMsg(err, "find member", "userID", mid)
			}
			logger.Debug("skip unknown member id", zap.String("groupId", groupID), zap.String("userId", mid))
			continue
		}
		if g.AddMember(mid) {
			added = true
		}
	}
	if !added {
		return nil, errs.ErrNoChange.Wrap()
	}

	if err := s.groups.Save(ctx, g); err != nil {
		return nil, errs.WrapMsg(err, "save group", "groupID", groupID)
	}
	return g, nil
}

// SendGroupMessage 群发消息：发送者必须在成员集合里，正文加密落库
func (s *GroupService) SendGroupMessage(ctx context.Context, groupID, senderID, text string) error {
	g, err := s.findGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !g.HasMember(senderID) {
		return errs.ErrNotMember.WrapMsg("sender is not a member of this group", "senderID", senderID)
	}

	ct, err := s.cipher.Encrypt(text)
	if err != nil {
		return err
	}
	g.Messages = append(g.Messages, model.GroupMessage{
		SenderID:  senderID,
		Text:      ct,
		Timestamp: timeNow(),
		Status:    model.MessageStatusSent,
	})
	if err := s.groups.Save(ctx, g); err != nil {
		return errs.WrapMsg(err, "save group", "groupID", groupID)
	}
	return nil
}

// GetMessages 群消息读投影：解密正文并解析发送者展示名。
// 发送者档案已丢失时用占位名（软失败，区别于单聊的硬失败）。
func (s *GroupService) GetMessages(ctx context.Context, groupID string) ([]model.GroupMessageView, error) {
	g, err := s.findGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	views := make([]model.GroupMessageView, 0, len(g.Messages))
	for i, msg := range g.Messages {
		plain, err := s.cipher.Decrypt(msg.Text)
		if err != nil {
			return nil, errs.WrapMsg(err, "decrypt group message", "groupID", groupID, "index", i)
		}

		senderName := model.UnknownSenderName
		if sender, err := s.users.FindByID(ctx, msg.SenderID); err == nil {
			senderName = sender.Username
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, errs.WrapMsg(err, "find sender", "userID", msg.SenderID)
		}

		views = append(views, model.GroupMessageView{
			SenderID:       msg.SenderID,
			SenderUsername: senderName,
			Text:           plain,
			Timestamp:      msg.Timestamp,
			Status:         msg.Status,
		})
	}
	return views, nil
}

// GetMembers 群成员公开资料；悬挂的成员ID直接略过
func (s *GroupService) GetMembers(ctx context.Context, groupID string) ([]model.PublicProfile, error) {
	g, err := s.findGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	members := make([]model.PublicProfile, 0, len(g.MemberIDs))
	for _, mid := range g.MemberIDs {
		u, err := s.users.FindByID(ctx, mid)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return nil, errs.WrapMsg(err, "find member", "userID", mid)
			}
			logger.Debug("skip dangling member id", zap.String("groupId", groupID), zap.String("userId", mid))
			continue
		}
		members = append(members, u.Public())
	}
	return members, nil
}

// ListGroups userID 所在的全部群
func (s *GroupService) ListGroups(ctx context.Context, userID string) ([]*model.Group, error) {
	if _, err := s.resolveUser(ctx, userID); err != nil {
		return nil, err
	}
	groups, err := s.groups.FindByMember(ctx, userID)
	if err != nil {
		return nil, errs.WrapMsg(err, "find groups", "userID", userID)
	}
	return groups, nil
}

func (s *GroupService) findGroup(ctx context.Context, groupID string) (*model.Group, error) {
	g, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.ErrGroupNotFound.WrapMsg("lookup", "groupID", groupID)
		}
		return nil, errs.WrapMsg(err, "find group", "groupID", groupID)
	}
	return g, nil
}

func (s *GroupService) resolveUser(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.ErrUserNotFound.WrapMsg("invalid party", "userID", userID)
		}
		return nil, errs.WrapMsg(err, "find user", "userID", userID)
	}
	return u, nil
}
