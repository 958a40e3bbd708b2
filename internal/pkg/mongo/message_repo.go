package mongo

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MessageRepo interface {
	SaveMessage(ctx context.Context, msg *Message) error
	GetThread(ctx context.Context, userID, peerID uint64) ([]*Message, error)
	GetByParticipant(ctx context.Context, userID uint64) ([]*Message, error)
	MarkThreadRead(ctx context.Context, senderID, receiverID uint64) (int64, error)
}

type messageRepoImpl struct {
	col *mongo.Collection
}

func NewMessageRepo(db *mongo.Database) MessageRepo {
	s := &messageRepoImpl{
		col: db.Collection("messages"),
	}
	s.ensureIndexes()
	return s
}

// ensureIndexes 按 (sender, receiver, created_at) 与 (receiver, read) 建立二级索引
func (s *messageRepoImpl) ensureIndexes() {
	_, _ = s.col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "receiver_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "receiver_id", Value: 1}, {Key: "read", Value: 1}}},
	})
}

// SaveMessage 将消息存入 MongoDB
func (s *messageRepoImpl) SaveMessage(ctx context.Context, msg *Message) error {
	if _, err := s.col.InsertOne(ctx, msg); err != nil {
		return errors.Wrap(err, "insert message")
	}
	return nil
}

// GetThread 查询两个用户之间的全部消息，双向，按 created_at 升序，同刻按 _id 升序
func (s *messageRepoImpl) GetThread(ctx context.Context, userID, peerID uint64) ([]*Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": userID, "receiver_id": peerID},
		bson.M{"sender_id": peerID, "receiver_id": userID},
	}}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := s.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, errors.Wrap(err, "find thread")
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var messages []*Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, errors.Wrap(err, "decode thread")
	}

	return messages, nil
}

// GetByParticipant 查询用户参与的全部消息，按 created_at 降序，同刻按 _id 降序
func (s *messageRepoImpl) GetByParticipant(ctx context.Context, userID uint64) ([]*Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": userID},
		bson.M{"receiver_id": userID},
	}}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := s.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, errors.Wrap(err, "find by participant")
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var messages []*Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, errors.Wrap(err, "decode messages")
	}

	return messages, nil
}

// MarkThreadRead 将 sender→receiver 方向的全部未读消息置为已读
func (s *messageRepoImpl) MarkThreadRead(ctx context.Context, senderID, receiverID uint64) (int64, error) {
	res, err := s.col.UpdateMany(ctx,
		bson.M{"sender_id": senderID, "receiver_id": receiverID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, errors.Wrap(err, "mark thread read")
	}
	return res.ModifiedCount, nil
}
