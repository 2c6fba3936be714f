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

// ConversationService 单聊会话目录 + 消息追加。
// 会话身份 = 规范化（排序）参与者对；get-or-create 用对键锁串行化。
type ConversationService struct {
	users  store.UserStore
	convs  store.ConversationStore
	cipher *security.MessageCipher
	locks  PairLocker
}

func NewConversationService(users store.UserStore, convs store.ConversationStore, cipher *security.MessageCipher, locks PairLocker) *ConversationService {
	if locks == nil {
		locks = NewLocalPairLocker()
	}
	return &ConversationService{users: users, convs: convs, cipher: cipher, locks: locks}
}

// GetOrCreateDirect 把无序对 {idA, idB} 解析为唯一会话，没有就建
func (s *ConversationService) GetOrCreateDirect(ctx context.Context, idA, idB string) (*model.Conversation, error) {
	idA = strings.TrimSpace(idA)
	idB = strings.TrimSpace(idB)
	if idA == "" || idB == "" || idA == idB {
		return nil, errs.ErrArgs.WrapMsg("two distinct participant ids are required")
	}

	participants := model.CanonicalPair(idA, idB)

	unlock, err := s.locks.Lock(ctx, DirectPairKey(participants))
	if err != nil {
		return nil, errs.WrapMsg(err, "lock direct pair")
	}
	defer unlock()

	conv, err := s.convs.FindByExactParticipants(ctx, participants)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, errs.WrapMsg(err, "find conversation by participants")
	}

	conv = &model.Conversation{
		ConversationID: ids.GenerateString(),
		Participants:   participants,
		Messages:       []model.Message{},
		CreateTime:     timeNow(),
	}
	if err := s.convs.Save(ctx, conv); err != nil {
		return nil, errs.WrapMsg(err, "save conversation")
	}
	logger.Info("conversation created",
		zap.String("conversationId", conv.ConversationID),
		zap.Strings("participants", participants))
	return conv, nil
}

// AppendMessage 向指定会话追加一条消息。
// 发送者必须是参与者；正文加密后入库，状态 "sent"。
func (s *ConversationService) AppendMessage(ctx context.Context, conversationID, senderID, text string) (*model.Conversation, error) {
	conv, err := s.findConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(senderID) {
		return nil, errs.ErrNotMember.WrapMsg("sender is not a participant", "senderID", senderID)
	}

	ct, err := s.cipher.Encrypt(text)
	if err != nil {
		return nil, err
	}
	conv.Messages = append(conv.Messages, model.Message{
		SenderID:  senderID,
		Text:      ct,
		Timestamp: timeNow(),
		Status:    model.MessageStatusSent,
	})
	if err := s.convs.Save(ctx, conv); err != nil {
		return nil, errs.WrapMsg(err, "save conversation", "conversationID", conversationID)
	}
	return conv, nil
}

// SendDirect 发消息主流程（原样保留控制器语义）：
// 校验双方存在、双方是好友，get-or-create 会话；
// initial=true 表示只建会话不发正文。
func (s *ConversationService) SendDirect(ctx context.Context, senderID, receiverID, text string, initial bool) (*model.Conversation, error) {
	senderID = strings.TrimSpace(senderID)
	receiverID = strings.TrimSpace(receiverID)
	if senderID == "" || receiverID == "" {
		return nil, errs.ErrArgs.WrapMsg("senderId and receiverId are required")
	}

	sender, err := s.resolveUser(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolveUser(ctx, receiverID); err != nil {
		return nil, err
	}
	if !sender.HasFriend(receiverID) {
		return nil, errs.ErrNoPermission.WrapMsg("users must be friends to exchange messages")
	}

	conv, err := s.GetOrCreateDirect(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}

	if initial || strings.TrimSpace(text) == "" {
		return conv, nil
	}
	return s.AppendMessage(ctx, conv.ConversationID, senderID, text)
}

// History 用户的全部会话，消息在读取时解密。
// 任意一条解密失败都让整个读取失败，不做跳过。
func (s *ConversationService) History(ctx context.Context, userID string) ([]*model.Conversation, error) {
	if _, err := s.resolveUser(ctx, userID); err != nil {
		return nil, err
	}

	convs, err := s.convs.FindByParticipant(ctx, userID)
	if err != nil {
		return nil, errs.WrapMsg(err, "find conversations", "userID", userID)
	}
	for _, conv := range convs {
		if err := s.decryptAll(conv); err != nil {
			return nil, err
		}
	}
	return convs, nil
}

// HistoryByID 单个会话的解密视图
func (s *ConversationService) HistoryByID(ctx context.Context, conversationID string) (*model.Conversation, error) {
	conv, err := s.findConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if err := s.decryptAll(conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *ConversationService) decryptAll(conv *model.Conversation) error {
	for i := range conv.Messages {
		plain, err := s.cipher.Decrypt(conv.Messages[i].Text)
		if err != nil {
			return errs.WrapMsg(err, "decrypt message", "conversationID", conv.ConversationID, "index", i)
		}
		conv.Messages[i].Text = plain
	}
	return nil
}

func (s *ConversationService) findConversation(ctx context.Context, conversationID string) (*model.Conversation, error) {
	conv, err := s.convs.FindByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.ErrConversationNotFound.WrapMsg("lookup", "conversationID", conversationID)
		}
		return nil, errs.WrapMsg(err, "find conversation", "conversationID", conversationID)
	}
	return conv, nil
}

func (s *ConversationService) resolveUser(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.ErrUserNotFound.WrapMsg("invalid party", "userID", userID)
		}
		return nil, errs.WrapMsg(err, "find user", "userID", userID)
	}
	return u, nil
}
