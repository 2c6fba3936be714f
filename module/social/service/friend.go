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

// FriendService 好友申请状态机与好友图维护。
// 单个 (sender, receiver) 有序对的状态流转：NONE → PENDING → {FRIENDS | NONE}。
// PENDING 是唯一落库状态；接受/拒绝都删除申请记录。
type FriendService struct {
	users    store.UserStore
	requests store.FriendRequestStore
	tokens   security.RequestTokenOptions
	locks    PairLocker
}

func NewFriendService(users store.UserStore, requests store.FriendRequestStore, tokens security.RequestTokenOptions, locks PairLocker) *FriendService {
	if locks == nil {
		locks = NewLocalPairLocker()
	}
	return &FriendService{users: users, requests: requests, tokens: tokens, locks: locks}
}

// SendRequestResult 申请创建结果：记录ID + 申请令牌
type SendRequestResult struct {
	RequestID string `json:"requestId"`
	Token     string `json:"requestToken"`
}

// SendRequest 发起好友申请。
// 查重与插入之间用规范化键锁串行化，同一有序对不会并发落两条。
func (s *FriendService) SendRequest(ctx context.Context, senderID, receiverID string) (*SendRequestResult, error) {
	senderID = strings.TrimSpace(senderID)
	receiverID = strings.TrimSpace(receiverID)
	if senderID == "" || receiverID == "" {
		return nil, errs.ErrArgs.WrapMsg("senderId and receiverId are required")
	}
	if senderID == receiverID {
		return nil, errs.ErrArgs.WrapMsg("cannot send friend request to self")
	}

	sender, err := s.resolveUser(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.resolveUser(ctx, receiverID); err != nil {
		return nil, err
	}

	if sender.HasFriend(receiverID) {
		return nil, errs.ErrAlreadyFriends.Wrap()
	}

	unlock, err := s.locks.Lock(ctx, RequestPairKey(senderID, receiverID))
	if err != nil {
		return nil, errs.WrapMsg(err, "lock request pair")
	}
	defer unlock()

	existing, err := s.requests.FindBySenderAndReceiver(ctx, senderID, receiverID)
	if err != nil {
		return nil, errs.WrapMsg(err, "check existing request")
	}
	if len(existing) > 0 {
		return nil, errs.ErrDuplicateRequest.Wrap()
	}

	token, err := security.IssueRequestToken(s.tokens, senderID, receiverID)
	if err != nil {
		return nil, err
	}

	req := &model.FriendRequest{
		ID:         ids.GenerateString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     model.RequestStatusPending,
		Token:      token,
		CreateTime: timeNow(),
	}
	if err := s.requests.Save(ctx, req); err != nil {
		return nil, errs.WrapMsg(err, "save friend request")
	}

	logger.Info("friend request sent",
		zap.String("requestId", req.ID),
		zap.String("senderId", senderID),
		zap.String("receiverId", receiverID))
	return &SendRequestResult{RequestID: req.ID, Token: token}, nil
}

// AcceptRequest 接受申请：双向写入好友集合（幂等）后删除申请记录。
// 返回令牌原样回显，调用方用于对账是哪条申请被处理。
func (s *FriendService) AcceptRequest(ctx context.Context, token, acceptingUserID string) (string, error) {
	token = strings.TrimSpace(token)
	acceptingUserID = strings.TrimSpace(acceptingUserID)
	if token == "" || acceptingUserID == "" {
		return "", errs.ErrArgs.WrapMsg("requestToken and userId are required")
	}

	if _, _, err := security.VerifyRequestToken(s.tokens, token); err != nil {
		return "", err
	}

	req, err := s.findByToken(ctx, token)
	if err != nil {
		return "", err
	}
	if req.Status != model.RequestStatusPending {
		// 正常只会落库 PENDING；命中这里说明是重复/过期投递
		return "", errs.ErrAlreadyProcessed.Wrap()
	}

	receiver, err := s.resolveUser(ctx, acceptingUserID)
	if err != nil {
		return "", err
	}
	sender, err := s.resolveUser(ctx, req.SenderID)
	if err != nil {
		return "", err
	}

	// 对称写入：A 在 B 的集合里 当且仅当 B 在 A 的集合里
	receiver.AddFriend(sender.UserID)
	sender.AddFriend(receiver.UserID)

	if err := s.users.Save(ctx, receiver); err != nil {
		return "", errs.WrapMsg(err, "save receiver", "userID", receiver.UserID)
	}
	if err := s.users.Save(ctx, sender); err != nil {
		return "", errs.WrapMsg(err, "save sender", "userID", sender.UserID)
	}

	if err := s.requests.DeleteByID(ctx, req.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return "", errs.WrapMsg(err, "delete friend request", "id", req.ID)
	}

	logger.Info("friend request accepted",
		zap.String("requestId", req.ID),
		zap.String("senderId", sender.UserID),
		zap.String("receiverId", receiver.UserID))
	return token, nil
}

// RejectRequest 拒绝申请：校验同接受，但不动好友图，仅删除记录
func (s *FriendService) RejectRequest(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errs.ErrArgs.WrapMsg("requestToken is required")
	}

	if _, _, err := security.VerifyRequestToken(s.tokens, token); err != nil {
		return "", err
	}

	req, err := s.findByToken(ctx, token)
	if err != nil {
		return "", err
	}
	if req.Status != model.RequestStatusPending {
		return "", errs.ErrAlreadyProcessed.Wrap()
	}

	if err := s.requests.DeleteByID(ctx, req.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return "", errs.WrapMsg(err, "delete friend request", "id", req.ID)
	}

	logger.Info("friend request rejected", zap.String("requestId", req.ID))
	return token, nil
}

// ListFriends 好友列表公开视图。
// 好友ID解析失败不报错，直接略过（容忍悬挂引用）。
func (s *FriendService) ListFriends(ctx context.Context, userID string) ([]model.PublicProfile, error) {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	friends := make([]model.PublicProfile, 0, len(user.FriendIDs))
	for _, fid := range user.FriendIDs {
		f, err := s.users.FindByID(ctx, fid)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return nil, errs.WrapMsg(err, "find friend", "friendID", fid)
			}
			logger.Debug("skip dangling friend id", zap.String("userId", userID), zap.String("friendId", fid))
			continue
		}
		friends = append(friends, f.Public())
	}
	return friends, nil
}

// ListPending userID 作为任一方的全部 PENDING 申请，标注方向与对方公开资料。
// 对方已不可解析的条目记日志后丢弃，不让坏引用拖垮整个列表。
func (s *FriendService) ListPending(ctx context.Context, userID string) ([]model.PendingRequestView, error) {
	if _, err := s.resolveUser(ctx, userID); err != nil {
		return nil, err
	}

	pending, err := s.requests.FindByStatusAndParty(ctx, model.RequestStatusPending, userID)
	if err != nil {
		return nil, errs.WrapMsg(err, "find pending requests", "userID", userID)
	}

	views := make([]model.PendingRequestView, 0, len(pending))
	for _, req := range pending {
		direction := model.DirectionReceived
		otherID := req.SenderID
		if req.SenderID == userID {
			direction = model.DirectionSent
			otherID = req.ReceiverID
		}

		other, err := s.users.FindByID(ctx, otherID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return nil, errs.WrapMsg(err, "find other party", "userID", otherID)
			}
			logger.Warn("drop pending request with dangling party",
				zap.String("requestId", req.ID),
				zap.String("otherUserId", otherID))
			continue
		}

		views = append(views, model.PendingRequestView{
			Token:       req.Token,
			Type:        direction,
			OtherUser:   other.Public(),
			RequestDate: req.CreateTime,
		})
	}
	return views, nil
}

func (s *FriendService) resolveUser(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.ErrUserNotFound.WrapMsg("invalid party", "userID", userID)
		}
		return nil, errs.WrapMsg(err, "find user", "userID", userID)
	}
	return u, nil
}

func (s *FriendService) findByToken(ctx context.Context, token string) (*model.FriendRequest, error) {
	req, err := s.requests.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.ErrRequestNotFound.Wrap()
		}
		return nil, errs.WrapMsg(err, "find request by token")
	}
	return req, nil
}
