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

func newConvFixture(t *testing.T, userIDs ...string) (*ConversationService, *store.MemoryStores) {
	t.Helper()
	mem := store.NewMemoryStores()
	for _, id := range userIDs {
		u := &model.User{UserID: id, Username: "name-" + id, Email: id + "@example.com"}
		if err := mem.Save(context.Background(), u); err != nil {
			t.Fatalf("seed user %s: %v", id, err)
		}
	}
	cipher, err := security.NewMessageCipher([]byte("0123456789abcdef"))
	if err != nil {
		t.Fatalf("cipher: %v", err)
	}
	svc := NewConversationService(mem, mem.ConversationStore(), cipher, NewLocalPairLocker())
	return svc, mem
}

func befriend(t *testing.T, mem *store.MemoryStores, a, b string) {
	t.Helper()
	ctx := context.Background()
	ua, _ := mem.FindByID(ctx, a)
	ub, _ := mem.FindByID(ctx, b)
	ua.AddFriend(b)
	ub.AddFriend(a)
	if err := mem.Save(ctx, ua); err != nil {
		t.Fatalf("save %s: %v", a, err)
	}
	if err := mem.Save(ctx, ub); err != nil {
		t.Fatalf("save %s: %v", b, err)
	}
}

func TestGetOrCreateDirectIdempotent(t *testing.T) {
	svc, _ := newConvFixture(t, "u1", "u2")
	ctx := context.Background()

	c1, err := svc.GetOrCreateDirect(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("GetOrCreateDirect failed: %v", err)
	}
	// 参数顺序颠倒也要落到同一个会话
	c2, err := svc.GetOrCreateDirect(ctx, "u2", "u1")
	if err != nil {
		t.Fatalf("GetOrCreateDirect failed: %v", err)
	}
	if c1.ConversationID != c2.ConversationID {
		t.Fatalf("conversation not deduplicated: %s vs %s", c1.ConversationID, c2.ConversationID)
	}
	if len(c1.Participants) != 2 {
		t.Fatalf("participants = %v", c1.Participants)
	}
}

func TestGetOrCreateDirectSeesInterveningMessages(t *testing.T) {
	svc, _ := newConvFixture(t, "u1", "u2")
	ctx := context.Background()

	c1, err := svc.GetOrCreateDirect(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("GetOrCreateDirect failed: %v", err)
	}
	if _, err := svc.AppendMessage(ctx, c1.ConversationID, "u1", "hello"); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}

	c2, err := svc.GetOrCreateDirect(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("GetOrCreateDirect failed: %v", err)
	}
	if len(c2.Messages) != 1 {
		t.Fatalf("messages lost across get-or-create: %d", len(c2.Messages))
	}
}

func TestAppendMessageMembershipGate(t *testing.T) {
	svc, _ := newConvFixture(t, "u1", "u2", "u3")
	ctx := context.Background()

	c, err := svc.GetOrCreateDirect(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("GetOrCreateDirect failed: %v", err)
	}
	// u3 是合法用户但不是参与者
	if _, err := svc.AppendMessage(ctx, c.ConversationID, "u3", "hi"); !errors.Is(err, errs.ErrNotMember) {
		t.Fatalf("expected not-a-member, got: %v", err)
	}
}

func TestAppendMessageStoredEncrypted(t *testing.T) {
	svc, mem := newConvFixture(t, "u1", "u2")
	ctx := context.Background()

	c, err := svc.GetOrCreateDirect(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("GetOrCreateDirect failed: %v", err)
	}
	if _, err := svc.AppendMessage(ctx, c.ConversationID, "u1", "hello"); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}

	raw, err := mem.ConversationStore().FindByID(ctx, c.ConversationID)
	if err != nil {
		t.Fatalf("load raw: %v", err)
	}
	if raw.Messages[0].Text == "hello" {
		t.Fatalf("message stored in plaintext")
	}
	if raw.Messages[0].Status != model.MessageStatusSent {
		t.Fatalf("status = %q", raw.Messages[0].Status)
	}
}

func TestHistoryDecrypts(t *testing.T) {
	svc, _ := newConvFixture(t, "u1", "u2")
	ctx := context.Background()

	c, err := svc.GetOrCreateDirect(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("GetOrCreateDirect failed: %v", err)
	}
	if _, err := svc.AppendMessage(ctx, c.ConversationID, "u1", "hello"); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}

	convs, err := svc.History(ctx, "u1")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(convs) != 1 || len(convs[0].Messages) != 1 {
		t.Fatalf("unexpected history: %+v", convs)
	}
	if convs[0].Messages[0].Text != "hello" {
		t.Fatalf("text = %q, want hello", convs[0].Messages[0].Text)
	}

	one, err := svc.HistoryByID(ctx, c.ConversationID)
	if err != nil {
		t.Fatalf("HistoryByID failed: %v", err)
	}
	if one.Messages[0].Text != "hello" {
		t.Fatalf("text = %q, want hello", one.Messages[0].Text)
	}
}

func TestHistoryDecryptFailureIsFatal(t *testing.T) {
	svc, mem := newConvFixture(t, "u1", "u2")
	ctx := context.Background()

	c, err := svc.GetOrCreateDirect(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("GetOrCreateDirect failed: %v", err)
	}
	c.Messages = append(c.Messages, model.Message{SenderID: "u1", Text: "not-ciphertext", Status: model.MessageStatusSent})
	if err := mem.ConversationStore().Save(ctx, c); err != nil {
		t.Fatalf("seed corrupt message: %v", err)
	}

	if _, err := svc.History(ctx, "u1"); !errors.Is(err, errs.ErrCrypto) {
		t.Fatalf("expected crypto error, got: %v", err)
	}
	if _, err := svc.HistoryByID(ctx, c.ConversationID); !errors.Is(err, errs.ErrCrypto) {
		t.Fatalf("expected crypto error, got: %v", err)
	}
}

func TestSendDirectRequiresFriendship(t *testing.T) {
	svc, mem := newConvFixture(t, "u1", "u2")
	ctx := context.Background()

	if _, err := svc.SendDirect(ctx, "u1", "u2", "hello", false); !errors.Is(err, errs.ErrNoPermission) {
		t.Fatalf("expected no-permission, got: %v", err)
	}

	befriend(t, mem, "u1", "u2")
	conv, err := svc.SendDirect(ctx, "u1", "u2", "hello", false)
	if err != nil {
		t.Fatalf("SendDirect failed: %v", err)
	}
	if len(conv.Messages) != 1 {
		t.Fatalf("message not appended: %+v", conv)
	}
}

func TestSendDirectInitialSkipsBody(t *testing.T) {
	svc, mem := newConvFixture(t, "u1", "u2")
	befriend(t, mem, "u1", "u2")
	ctx := context.Background()

	conv, err := svc.SendDirect(ctx, "u1", "u2", "ignored", true)
	if err != nil {
		t.Fatalf("SendDirect failed: %v", err)
	}
	if len(conv.Messages) != 0 {
		t.Fatalf("initial send must not append a message")
	}
}

func TestSendDirectInvalidParty(t *testing.T) {
	svc, _ := newConvFixture(t, "u1")
	if _, err := svc.SendDirect(context.Background(), "u1", "ghost", "hi", false); !errors.Is(err, errs.ErrUserNotFound) {
		t.Fatalf("expected user not found, got: %v", err)
	}
}

func TestAppendMessageUnknownConversation(t *testing.T) {
	svc, _ := newConvFixture(t, "u1")
	if _, err := svc.AppendMessage(context.Background(), "nope", "u1", "hi"); !errors.Is(err, errs.ErrConversationNotFound) {
		t.Fatalf("expected conversation not found, got: %v", err)
	}
}
