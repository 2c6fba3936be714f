package store

import (
	"context"
	"errors"

	"PPSocial/module/social/model"
	errs "PPSocial/tools/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// 集合名与原始文档结构保持一致
const (
	collUsers          = "users"
	collFriendRequests = "friend_requests"
	collConversations  = "conversations"
	collGroups         = "groups"
)

// MongoStores 一组 Mongo 实现，共享同一个 Database 句柄
type MongoStores struct {
	Users         *MongoUserStore
	Requests      *MongoFriendRequestStore
	Conversations *MongoConversationStore
	Groups        *MongoGroupStore
}

func NewMongoStores(db *mongo.Database) *MongoStores {
	return &MongoStores{
		Users:         &MongoUserStore{db: db},
		Requests:      &MongoFriendRequestStore{db: db},
		Conversations: &MongoConversationStore{db: db},
		Groups:        &MongoGroupStore{db: db},
	}
}

// —— users ——

type MongoUserStore struct {
	db *mongo.Database
}

func (s *MongoUserStore) coll() *mongo.Collection { return s.db.Collection(collUsers) }

func (s *MongoUserStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoUserStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.findOne(ctx, bson.M{"username": username})
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var u model.User
	if err := s.coll().FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errs.WrapMsg(err, "find user")
	}
	return &u, nil
}

func (s *MongoUserStore) Save(ctx context.Context, u *model.User) error {
	_, err := s.coll().ReplaceOne(ctx,
		bson.M{"_id": u.UserID},
		u,
		options.Replace().SetUpsert(true),
	)
	return errs.WrapMsg(err, "save user", "userID", u.UserID)
}

func (s *MongoUserStore) FindAll(ctx context.Context) ([]*model.User, error) {
	cur, err := s.coll().Find(ctx, bson.M{})
	if err != nil {
		return nil, errs.WrapMsg(err, "find all users")
	}
	defer func() { _ = cur.Close(ctx) }()

	var out []*model.User
	for cur.Next(ctx) {
		var u model.User
		if err := cur.Decode(&u); err != nil {
			return nil, errs.WrapMsg(err, "decode user")
		}
		out = append(out, &u)
	}
	return out, errs.WrapMsg(cur.Err(), "iterate users")
}

// —— friend_requests ——

type MongoFriendRequestStore struct {
	db *mongo.Database
}

func (s *MongoFriendRequestStore) coll() *mongo.Collection { return s.db.Collection(collFriendRequests) }

func (s *MongoFriendRequestStore) Save(ctx context.Context, r *model.FriendRequest) error {
	_, err := s.coll().ReplaceOne(ctx,
		bson.M{"_id": r.ID},
		r,
		options.Replace().SetUpsert(true),
	)
	return errs.WrapMsg(err, "save friend request", "id", r.ID)
}

func (s *MongoFriendRequestStore) FindByID(ctx context.Context, id string) (*model.FriendRequest, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoFriendRequestStore) FindByToken(ctx context.Context, token string) (*model.FriendRequest, error) {
	return s.findOne(ctx, bson.M{"token": token})
}

func (s *MongoFriendRequestStore) findOne(ctx context.Context, filter bson.M) (*model.FriendRequest, error) {
	var r model.FriendRequest
	if err := s.coll().FindOne(ctx, filter).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errs.WrapMsg(err, "find friend request")
	}
	return &r, nil
}

func (s *MongoFriendRequestStore) DeleteByID(ctx context.Context, id string) error {
	res, err := s.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errs.WrapMsg(err, "delete friend request", "id", id)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoFriendRequestStore) FindBySenderAndReceiver(ctx context.Context, senderID, receiverID string) ([]*model.FriendRequest, error) {
	return s.findMany(ctx, bson.M{"sender_id": senderID, "receiver_id": receiverID})
}

func (s *MongoFriendRequestStore) FindByStatusAndParty(ctx context.Context, status, userID string) ([]*model.FriendRequest, error) {
	return s.findMany(ctx, bson.M{
		"status": status,
		"$or": []bson.M{
			{"sender_id": userID},
			{"receiver_id": userID},
		},
	})
}

func (s *MongoFriendRequestStore) findMany(ctx context.Context, filter bson.M) ([]*model.FriendRequest, error) {
	cur, err := s.coll().Find(ctx, filter)
	if err != nil {
		return nil, errs.WrapMsg(err, "find friend requests")
	}
	defer func() { _ = cur.Close(ctx) }()

	var out []*model.FriendRequest
	for cur.Next(ctx) {
		var r model.FriendRequest
		if err := cur.Decode(&r); err != nil {
			return nil, errs.WrapMsg(err, "decode friend request")
		}
		out = append(out, &r)
	}
	return out, errs.WrapMsg(cur.Err(), "iterate friend requests")
}

// —— conversations ——

type MongoConversationStore struct {
	db *mongo.Database
}

func (s *MongoConversationStore) coll() *mongo.Collection { return s.db.Collection(collConversations) }

func (s *MongoConversationStore) Save(ctx context.Context, c *model.Conversation) error {
	_, err := s.coll().ReplaceOne(ctx,
		bson.M{"_id": c.ConversationID},
		c,
		options.Replace().SetUpsert(true),
	)
	return errs.WrapMsg(err, "save conversation", "conversationID", c.ConversationID)
}

func (s *MongoConversationStore) FindByID(ctx context.Context, id string) (*model.Conversation, error) {
	var c model.Conversation
	if err := s.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errs.WrapMsg(err, "find conversation", "conversationID", id)
	}
	return &c, nil
}

// FindByExactParticipants 参与者已规范化排序，直接按数组整体相等匹配
func (s *MongoConversationStore) FindByExactParticipants(ctx context.Context, participants []string) (*model.Conversation, error) {
	var c model.Conversation
	if err := s.coll().FindOne(ctx, bson.M{"participants": participants}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errs.WrapMsg(err, "find conversation by participants")
	}
	return &c, nil
}

func (s *MongoConversationStore) FindByParticipant(ctx context.Context, userID string) ([]*model.Conversation, error) {
	cur, err := s.coll().Find(ctx, bson.M{"participants": bson.M{"$elemMatch": bson.M{"$eq": userID}}})
	if err != nil {
		return nil, errs.WrapMsg(err, "find conversations by participant", "userID", userID)
	}
	defer func() { _ = cur.Close(ctx) }()

	var out []*model.Conversation
	for cur.Next(ctx) {
		var c model.Conversation
		if err := cur.Decode(&c); err != nil {
			return nil, errs.WrapMsg(err, "decode conversation")
		}
		out = append(out, &c)
	}
	return out, errs.WrapMsg(cur.Err(), "iterate conversations")
}

// —— groups ——

type MongoGroupStore struct {
	db *mongo.Database
}

func (s *MongoGroupStore) coll() *mongo.Collection { return s.db.Collection(collGroups) }

func (s *MongoGroupStore) Save(ctx context.Context, g *model.Group) error {
	_, err := s.coll().ReplaceOne(ctx,
		bson.M{"_id": g.GroupID},
		g,
		options.Replace().SetUpsert(true),
	)
	return errs.WrapMsg(err, "save group", "groupID", g.GroupID)
}

func (s *MongoGroupStore) FindByID(ctx context.Context, id string) (*model.Group, error) {
	var g model.Group
	if err := s.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errs.WrapMsg(err, "find group", "groupID", id)
	}
	return &g, nil
}

func (s *MongoGroupStore) FindByMember(ctx context.Context, userID string) ([]*model.Group, error) {
	cur, err := s.coll().Find(ctx, bson.M{"member_ids": userID})
	if err != nil {
		return nil, errs.WrapMsg(err, "find groups by member", "userID", userID)
	}
	defer func() { _ = cur.Close(ctx) }()

	var out []*model.Group
	for cur.Next(ctx) {
		var g model.Group
		if err := cur.Decode(&g); err != nil {
			return nil, errs.WrapMsg(err, "decode group")
		}
		out = append(out, &g)
	}
	return out, errs.WrapMsg(cur.Err(), "iterate groups")
}
