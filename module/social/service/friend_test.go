package service

import (
	"context"
	"errors"
	"testing"

	"PPSocial/module/social/model"
	"PPSocial/module/social/store"
	errs "PPSocial/tools/errs"
	security "PPSocial/tools/security"
)

var testTokenOpts = security.DefaultRequestTokenOptions([]byte("mN9b1f8zPq+W2xjX/45sKcVd0TfyoG+3"))

func newFriendFixture(t *testing.T, userIDs ...string) (*FriendService, *store.MemoryStores) {
	t.Helper()
	mem := store.NewMemoryStores()
	for _, id := range userIDs {
		u := &model.User{
			UserID:   id,
			Username: "name-" + id,
			Email:    id + "@example.com",
		}
		if err := mem.Save(context.Background(), u); err != nil {
			t.Fatalf("seed user %s: %v", id, err)
		}
	}
	svc := NewFriendService(mem, mem.RequestStore(), testTokenOpts, NewLocalPairLocker())
	return svc, mem
}

func TestSendRequestCreatesPending(t *testing.T) {
	svc, mem := newFriendFixture(t, "u1", "u2")
	ctx := context.Background()

	res, err := svc.SendRequest(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("SendRequest failed: %v", err)
	}
	if res.RequestID == "" || res.Token == "" {
		t.Fatalf("empty result: %+v", res)
	}

	req, err := mem.RequestStore().FindByToken(ctx, res.Token)
	if err != nil {
		t.Fatalf("request not persisted: %v", err)
	}
	if req.Status != model.RequestStatusPending {
		t.Fatalf("status = %q, want PENDING", req.Status)
	}
	if req.SenderID != "u1" || req.ReceiverID != "u2" {
		t.Fatalf("parties mismatch: %+v", req)
	}
}

func TestSendRequestInvalidParty(t *testing.T) {
	svc, _ := newFriendFixture(t, "u1")
	ctx := context.Background()

	if _, err := svc.SendRequest(ctx, "u1", "ghost"); !errors.Is(err, errs.ErrUserNotFound) {
		t.Fatalf("expected user not found, got: %v", err)
	}
	if _, err := svc.SendRequest(ctx, "ghost", "u1"); !errors.Is(err, errs.ErrUserNotFound) {
		t.Fatalf("expected user not found, got: %v", err)
	}
}

func TestSendRequestDuplicate(t *testing.T) {
	svc, _ := newFriendFixture(t, "u1", "u2")
	ctx := context.Background()

	if _, err := svc.SendRequest(ctx, "u1", "u2"); err != nil {
		t.Fatalf("first SendRequest failed: %v", err)
	}
	if _, err := svc.SendRequest(ctx, "u1", "u2"); !errors.Is(err, errs.ErrDuplicateRequest) {
		t.Fatalf("expected duplicate request, got: %v", err)
	}
}

func TestSendRequestAlreadyFriends(t *testing.T) {
	svc, _ := newFriendFixture(t, "u1", "u2")
	ctx := context.Background()

	res, err := svc.SendRequest(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("SendRequest failed: %v", err)
	}
	if _, err := svc.AcceptRequest(ctx, res.Token, "u2"); err != nil {
		t.Fatalf("AcceptRequest failed: %v", err)
	}

	if _, err := svc.SendRequest(ctx, "u1", "u2"); !errors.Is(err, errs.ErrAlreadyFriends) {
		t.Fatalf("expected already friends, got: %v", err)
	}
}

func TestAcceptSymmetry(t *testing.T) {
	svc, mem := newFriendFixture(t, "u1", "u2")
	ctx := context.Background()

	res, err := svc.SendRequest(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("SendRequest failed: %v", err)
	}
	echoed, err := svc.AcceptRequest(ctx, res.Token, "u2")
	if err != nil {
		t.Fatalf("AcceptRequest failed: %v", err)
	}
	if echoed != res.Token {
		t.Fatalf("token echo mismatch")
	}

	u1, _ := mem.FindByID(ctx, "u1")
	u2, _ := mem.FindByID(ctx, "u2")
	if !u1.HasFriend("u2") || !u2.HasFriend("u1") {
		t.Fatalf("friend relation not symmetric: u1=%v u2=%v", u1.FriendIDs, u2.FriendIDs)
	}
}

func TestAcceptSingleConsumption(t *testing.T) {
	svc, _ := newFriendFixture(t, "u1", "u2")
	ctx := context.Background()

	res, err := svc.SendRequest(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("SendRequest failed: %v", err)
	}
	if _, err := svc.AcceptRequest(ctx, res.Token, "u2"); err != nil {
		t.Fatalf("AcceptRequest failed: %v", err)
	}

	// 记录已删除，二次接受/拒绝都报 RequestNotFound
	if _, err := svc.AcceptRequest(ctx, res.Token, "u2"); !errors.Is(err, errs.ErrRequestNotFound) {
		t.Fatalf("expected request not found, got: %v", err)
	}
	if _, err := svc.RejectRequest(ctx, res.Token); !errors.Is(err, errs.ErrRequestNotFound) {
		t.Fatalf("expected request not found, got: %v", err)
	}
}

func TestAcceptIdempotentFriendListMutation(t *testing.T) {
	svc, mem := newFriendFixture(t, "u1", "u2")
	ctx := context.Background()

	// 预置半边关系，接受后不应出现重复ID
	u1, _ := mem.FindByID(ctx, "u1")
	u1.AddFriend("u2")
	if err := mem.Save(ctx, u1); err != nil {
		t.Fatalf("seed: %v", err)
	}

	res, err := svc.SendRequest(ctx, "u2", "u1")
	if err != nil {
		t.Fatalf("SendRequest failed: %v", err)
	}
	if _, err := svc.AcceptRequest(ctx, res.Token, "u1"); err != nil {
		t.Fatalf("AcceptRequest failed: %v", err)
	}

	u1, _ = mem.FindByID(ctx, "u1")
	count := 0
	for _, id := range u1.FriendIDs {
		if id == "u2" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("friend id duplicated: %v", u1.FriendIDs)
	}
}

func TestAcceptBadToken(t *testing.T) {
	svc, _ := newFriendFixture(t, "u1", "u2")
	ctx := context.Background()

	if _, err := svc.AcceptRequest(ctx, "garbage-token", "u2"); !errors.Is(err, errs.ErrTokenInvalid) {
		t.Fatalf("expected token invalid, got: %v", err)
	}
}

func TestAcceptValidTokenWithoutRecord(t *testing.T) {
	svc, _ := newFriendFixture(t, "u1", "u2")
	ctx := context.Background()

	// 合法签名但没有对应记录（令牌不可单独兑换，必须有在库申请）
	tok, err := security.IssueRequestToken(testTokenOpts, "u1", "u2")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.AcceptRequest(ctx, tok, "u2"); !errors.Is(err, errs.ErrRequestNotFound) {
		t.Fatalf("expected request not found, got: %v", err)
	}
}

func TestRejectDeletesWithoutGraphChange(t *testing.T) {
	svc, mem := newFriendFixture(t, "u1", "u2")
	ctx := context.Background()

	res, err := svc.SendRequest(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("SendRequest failed: %v", err)
	}
	if _, err := svc.RejectRequest(ctx, res.Token); err != nil {
		t.Fatalf("RejectRequest failed: %v", err)
	}

	u1, _ := mem.FindByID(ctx, "u1")
	u2, _ := mem.FindByID(ctx, "u2")
	if u1.HasFriend("u2") || u2.HasFriend("u1") {
		t.Fatalf("reject must not mutate friend graph")
	}

	// 拒绝后同一对可以重新发起
	if _, err := svc.SendRequest(ctx, "u1", "u2"); err != nil {
		t.Fatalf("re-send after reject failed: %v", err)
	}
}

func TestListFriendsSkipsDangling(t *testing.T) {
	svc, mem := newFriendFixture(t, "u1", "u2")
	ctx := context.Background()

	u1, _ := mem.FindByID(ctx, "u1")
	u1.AddFriend("u2")
	u1.AddFriend("deleted-user")
	if err := mem.Save(ctx, u1); err != nil {
		t.Fatalf("seed: %v", err)
	}

	friends, err := svc.ListFriends(ctx, "u1")
	if err != nil {
		t.Fatalf("ListFriends failed: %v", err)
	}
	if len(friends) != 1 || friends[0].UserID != "u2" {
		t.Fatalf("unexpected friends: %+v", friends)
	}
}

func TestListPendingDirections(t *testing.T) {
	svc, _ := newFriendFixture(t, "u1", "u2", "u3")
	ctx := context.Background()

	if _, err := svc.SendRequest(ctx, "u1", "u2"); err != nil {
		t.Fatalf("SendRequest failed: %v", err)
	}
	if _, err := svc.SendRequest(ctx, "u3", "u1"); err != nil {
		t.Fatalf("SendRequest failed: %v", err)
	}

	views, err := svc.ListPending(ctx, "u1")
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d pending, want 2", len(views))
	}
	byType := map[string]string{}
	for _, v := range views {
		byType[v.Type] = v.OtherUser.UserID
	}
	if byType[model.DirectionSent] != "u2" {
		t.Fatalf("sent direction other party = %q, want u2", byType[model.DirectionSent])
	}
	if byType[model.DirectionReceived] != "u3" {
		t.Fatalf("received direction other party = %q, want u3", byType[model.DirectionReceived])
	}
}

func TestListPendingDropsDanglingParty(t *testing.T) {
	svc, mem := newFriendFixture(t, "u1", "u2")
	ctx := context.Background()

	if _, err := svc.SendRequest(ctx, "u2", "u1"); err != nil {
		t.Fatalf("SendRequest failed: %v", err)
	}
	// 对方档案随后被删除
	req := &model.FriendRequest{
		ID:         "manual",
		SenderID:   "ghost",
		ReceiverID: "u1",
		Status:     model.RequestStatusPending,
		Token:      "tok-ghost",
	}
	if err := mem.RequestStore().Save(ctx, req); err != nil {
		t.Fatalf("seed request: %v", err)
	}

	views, err := svc.ListPending(ctx, "u1")
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(views) != 1 || views[0].OtherUser.UserID != "u2" {
		t.Fatalf("dangling request not dropped: %+v", views)
	}
}

func TestSendRequestSelf(t *testing.T) {
	svc, _ := newFriendFixture(t, "u1")
	if _, err := svc.SendRequest(context.Background(), "u1", "u1"); !errors.Is(err, errs.ErrArgs) {
		t.Fatalf("expected args error, got: %v", err)
	}
}
