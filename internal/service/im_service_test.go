package service_test

import (
	"Ripple/internal/api/dto"
	"Ripple/internal/model"
	"Ripple/internal/pkg/mongo"
	"Ripple/internal/pkg/ws"
	"Ripple/internal/repository"
	"Ripple/internal/service"
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// FakeMessageRepo 内存版消息存储，行为与 MongoDB 实现保持一致
type FakeMessageRepo struct {
	msgs []*mongo.Message
}

func (s *FakeMessageRepo) SaveMessage(_ context.Context, msg *mongo.Message) error {
	stored := *msg
	s.msgs = append(s.msgs, &stored)
	return nil
}

func (s *FakeMessageRepo) GetThread(_ context.Context, userID, peerID uint64) ([]*mongo.Message, error) {
	res := make([]*mongo.Message, 0)
	for _, m := range s.msgs {
		if (m.SenderID == userID && m.ReceiverID == peerID) ||
			(m.SenderID == peerID && m.ReceiverID == userID) {
			copied := *m
			res = append(res, &copied)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.Before(res[j].CreatedAt)
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

func (s *FakeMessageRepo) GetByParticipant(_ context.Context, userID uint64) ([]*mongo.Message, error) {
	res := make([]*mongo.Message, 0)
	for _, m := range s.msgs {
		if m.SenderID == userID || m.ReceiverID == userID {
			copied := *m
			res = append(res, &copied)
		}
	}
	return res, nil
}

func (s *FakeMessageRepo) MarkThreadRead(_ context.Context, senderID, receiverID uint64) (int64, error) {
	var n int64
	for _, m := range s.msgs {
		if m.SenderID == senderID && m.ReceiverID == receiverID && !m.Read {
			m.Read = true
			n++
		}
	}
	return n, nil
}

// FakeUserRepo 内存版用户存储
type FakeUserRepo struct {
	users map[uint64]*model.User
}

func NewFakeUserRepo(users ...*model.User) *FakeUserRepo {
	s := &FakeUserRepo{users: make(map[uint64]*model.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *FakeUserRepo) GetUserById(_ context.Context, id uint64) (*model.User, error) {
	return s.users[id], nil
}

func (s *FakeUserRepo) GetUserByIds(_ context.Context, ids []uint64) ([]*model.User, error) {
	res := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			res = append(res, u)
		}
	}
	return res, nil
}

func (s *FakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *FakeUserRepo) GetAllUsers(_ context.Context) ([]*model.User, error) {
	res := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		res = append(res, u)
	}
	return res, nil
}

func (s *FakeUserRepo) CreateUser(_ context.Context, user *model.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *FakeUserRepo) UpdateUser(_ context.Context, user *model.User) error {
	s.users[user.ID] = user
	return nil
}

type RecordingChannel struct {
	events []*ws.Event
}

func (s *RecordingChannel) Push(evt *ws.Event) error {
	s.events = append(s.events, evt)
	return nil
}

func (s *RecordingChannel) Close() {}

func newIMFixture(users ...*model.User) (service.IMService, *FakeMessageRepo, *ws.Registry) {
	msgRepo := &FakeMessageRepo{}
	registry := ws.NewRegistry()
	svc := service.NewIMService(msgRepo, NewFakeUserRepo(users...), registry)
	return svc, msgRepo, registry
}

func testUser(id uint64, name string) *model.User {
	return &model.User{
		ID:        id,
		Email:     fmt.Sprintf("u%d@example.com", id),
		FullName:  name,
		AvatarURL: "default_avatar.png",
	}
}

func Test_SendMessage_persists_and_returns_unenriched_message(t *testing.T) {
	// Arrange
	svc, msgRepo, _ := newIMFixture(testUser(1, "Alice"), testUser(2, "Bob"))

	// Act
	got, err := svc.SendMessage(context.Background(), 1, &dto.SendMessageReq{
		ReceiverID: 2,
		Content:    "  hello bob  ",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "hello bob", got.Content)
	assert.Equal(t, uint64(1), got.SenderID)
	assert.Equal(t, uint64(2), got.ReceiverID)
	assert.False(t, got.Read)
	assert.NotEmpty(t, got.ID)
	// 同步返回不带用户摘要
	assert.Nil(t, got.Sender)
	assert.Nil(t, got.Receiver)

	require.Len(t, msgRepo.msgs, 1)
	assert.Equal(t, "hello bob", msgRepo.msgs[0].Content)
}

func Test_SendMessage_pushes_enriched_event_to_both_parties(t *testing.T) {
	// Arrange
	svc, _, registry := newIMFixture(testUser(1, "Alice"), testUser(2, "Bob"))
	alice := &RecordingChannel{}
	bob := &RecordingChannel{}
	registry.Register(1, alice)
	registry.Register(2, bob)

	// Act
	_, err := svc.SendMessage(context.Background(), 1, &dto.SendMessageReq{ReceiverID: 2, Content: "hi"})

	// Assert
	require.NoError(t, err)
	require.Len(t, alice.events, 1)
	require.Len(t, bob.events, 1)

	evt := bob.events[0]
	assert.Equal(t, "newMessage", evt.Type)

	payload, ok := evt.Data.(*dto.MessageDTO)
	require.True(t, ok, "event payload should be a message")
	require.NotNil(t, payload.Sender)
	require.NotNil(t, payload.Receiver)
	assert.Equal(t, "Alice", payload.Sender.FullName)
	assert.Equal(t, "Bob", payload.Receiver.FullName)
}

func Test_SendMessage_to_self_pushes_exactly_once(t *testing.T) {
	// Arrange
	svc, _, registry := newIMFixture(testUser(1, "Alice"))
	alice := &RecordingChannel{}
	registry.Register(1, alice)

	// Act
	_, err := svc.SendMessage(context.Background(), 1, &dto.SendMessageReq{ReceiverID: 1, Content: "note to self"})

	// Assert
	require.NoError(t, err)
	assert.Len(t, alice.events, 1)
}

func Test_SendMessage_succeeds_when_receiver_offline(t *testing.T) {
	// Arrange: 双方都不在线
	svc, msgRepo, _ := newIMFixture(testUser(1, "Alice"), testUser(2, "Bob"))

	// Act
	got, err := svc.SendMessage(context.Background(), 1, &dto.SendMessageReq{ReceiverID: 2, Content: "hi"})

	// Assert: 落库成功即发送成功
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Len(t, msgRepo.msgs, 1)
}

func Test_SendMessage_pushes_in_send_order(t *testing.T) {
	// Arrange
	svc, _, registry := newIMFixture(testUser(1, "Alice"), testUser(2, "Bob"))
	bob := &RecordingChannel{}
	registry.Register(2, bob)

	// Act: 连续发送两条
	_, err := svc.SendMessage(context.Background(), 1, &dto.SendMessageReq{ReceiverID: 2, Content: "a"})
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), 1, &dto.SendMessageReq{ReceiverID: 2, Content: "b"})
	require.NoError(t, err)

	// Assert: 收方按发送顺序收到，绝不乱序
	require.Len(t, bob.events, 2)

	first, ok := bob.events[0].Data.(*dto.MessageDTO)
	require.True(t, ok)
	second, ok := bob.events[1].Data.(*dto.MessageDTO)
	require.True(t, ok)
	assert.Equal(t, "a", first.Content)
	assert.Equal(t, "b", second.Content)
}

func Test_SendMessage_rejects_blank_content(t *testing.T) {
	svc, msgRepo, _ := newIMFixture(testUser(1, "Alice"), testUser(2, "Bob"))

	_, err := svc.SendMessage(context.Background(), 1, &dto.SendMessageReq{ReceiverID: 2, Content: "   "})

	assert.ErrorIs(t, err, service.ErrMessageEmpty)
	assert.Empty(t, msgRepo.msgs)
}

func Test_SendMessage_rejects_unknown_receiver(t *testing.T) {
	svc, msgRepo, _ := newIMFixture(testUser(1, "Alice"))

	_, err := svc.SendMessage(context.Background(), 1, &dto.SendMessageReq{ReceiverID: 99, Content: "hi"})

	assert.ErrorIs(t, err, service.ErrUserNotFound)
	assert.Empty(t, msgRepo.msgs)
}

func Test_ConversationList_groups_by_peer_with_unread_count(t *testing.T) {
	// Arrange: Bob 给 Alice 发了两条未读，Alice 回了一条
	svc, msgRepo, _ := newIMFixture(testUser(1, "Alice"), testUser(2, "Bob"), testUser(3, "Carol"))
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seed(msgRepo,
		msg("m1", 2, 1, "ping", false, base),
		msg("m2", 2, 1, "ping again", false, base.Add(time.Minute)),
		msg("m3", 1, 2, "pong", false, base.Add(2*time.Minute)),
		msg("m4", 3, 1, "hey", false, base.Add(3*time.Minute)),
	)

	// Act
	convs, err := svc.GetConversationList(context.Background(), 1)

	// Assert
	require.NoError(t, err)
	require.Len(t, convs, 2)

	// Carol 的会话更新，排在前面
	assert.Equal(t, uint64(3), convs[0].PeerID)
	assert.Equal(t, "Carol", convs[0].Peer.FullName)
	assert.Equal(t, int64(1), convs[0].UnreadCount)

	bobConv := convs[1]
	assert.Equal(t, uint64(2), bobConv.PeerID)
	assert.Equal(t, "pong", bobConv.LastMessage.Content)
	assert.True(t, bobConv.LastMessage.SentByMe)
	// 自己发出的消息不计入未读
	assert.Equal(t, int64(2), bobConv.UnreadCount)
}

func Test_ConversationList_breaks_timestamp_ties_by_message_id(t *testing.T) {
	// Arrange: 两个会话的最新消息时间完全相同
	svc, msgRepo, _ := newIMFixture(testUser(1, "Alice"), testUser(2, "Bob"), testUser(3, "Carol"))
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seed(msgRepo,
		msg("aaa", 2, 1, "from bob", false, at),
		msg("bbb", 3, 1, "from carol", false, at),
	)

	// Act
	convs, err := svc.GetConversationList(context.Background(), 1)

	// Assert: ID 更大的排前，重复调用顺序稳定
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, uint64(3), convs[0].PeerID)
	assert.Equal(t, uint64(2), convs[1].PeerID)

	again, err := svc.GetConversationList(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, convs[0].PeerID, again[0].PeerID)
	assert.Equal(t, convs[1].PeerID, again[1].PeerID)
}

func Test_ConversationList_skips_unresolvable_peer(t *testing.T) {
	// Arrange: 用户 99 的账号已不存在
	svc, msgRepo, _ := newIMFixture(testUser(1, "Alice"), testUser(2, "Bob"))
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seed(msgRepo,
		msg("m1", 99, 1, "ghost", false, base),
		msg("m2", 2, 1, "hi", false, base.Add(time.Minute)),
	)

	// Act
	convs, err := svc.GetConversationList(context.Background(), 1)

	// Assert: 坏引用被跳过，其余会话正常返回
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, uint64(2), convs[0].PeerID)
}

func Test_OpenThread_marks_peer_messages_read_and_returns_history_ascending(t *testing.T) {
	// Arrange
	svc, msgRepo, _ := newIMFixture(testUser(1, "Alice"), testUser(2, "Bob"))
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seed(msgRepo,
		msg("m1", 2, 1, "first", false, base),
		msg("m2", 1, 2, "second", false, base.Add(time.Minute)),
		msg("m3", 2, 1, "third", false, base.Add(2*time.Minute)),
	)

	// Act
	history, err := svc.OpenThread(context.Background(), 1, 2)

	// Assert
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, []string{"first", "second", "third"},
		[]string{history[0].Content, history[1].Content, history[2].Content})

	// 对方发来的都已置为已读，自己发出的不受影响
	assert.True(t, history[0].Read)
	assert.False(t, history[1].Read)
	assert.True(t, history[2].Read)

	// 历史消息附带双方摘要
	require.NotNil(t, history[0].Sender)
	assert.Equal(t, "Bob", history[0].Sender.FullName)
	assert.Equal(t, "Alice", history[0].Receiver.FullName)
}

func Test_OpenThread_is_idempotent(t *testing.T) {
	// Arrange
	svc, msgRepo, _ := newIMFixture(testUser(1, "Alice"), testUser(2, "Bob"))
	seed(msgRepo, msg("m1", 2, 1, "hi", false, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)))

	// Act
	first, err := svc.OpenThread(context.Background(), 1, 2)
	require.NoError(t, err)
	second, err := svc.OpenThread(context.Background(), 1, 2)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, first, second)

	// 会话列表随之清零未读
	convs, err := svc.GetConversationList(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, int64(0), convs[0].UnreadCount)
}

func Test_OpenThread_does_not_touch_viewer_own_unread(t *testing.T) {
	// Arrange: Alice 打开与 Bob 的会话，不应替 Bob 读掉 Alice 发的消息
	svc, msgRepo, _ := newIMFixture(testUser(1, "Alice"), testUser(2, "Bob"))
	seed(msgRepo, msg("m1", 1, 2, "hi bob", false, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)))

	// Act
	_, err := svc.OpenThread(context.Background(), 1, 2)
	require.NoError(t, err)

	// Assert: Bob 视角依然未读
	convs, err := svc.GetConversationList(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, int64(1), convs[0].UnreadCount)
}

func Test_NotifyTyping_pushes_only_to_peer(t *testing.T) {
	// Arrange
	svc, _, registry := newIMFixture(testUser(1, "Alice"), testUser(2, "Bob"))
	alice := &RecordingChannel{}
	bob := &RecordingChannel{}
	registry.Register(1, alice)
	registry.Register(2, bob)

	// Act
	svc.NotifyTyping(1, 2)

	// Assert
	assert.Empty(t, alice.events)
	require.Len(t, bob.events, 1)
	assert.Equal(t, "userTyping", bob.events[0].Type)

	payload, ok := bob.events[0].Data.(*dto.TypingDTO)
	require.True(t, ok)
	assert.Equal(t, uint64(1), payload.From)
}

func Test_NotifyTyping_to_offline_peer_is_noop(t *testing.T) {
	svc, _, _ := newIMFixture(testUser(1, "Alice"), testUser(2, "Bob"))

	// 不注册任何连接，调用不报错不阻塞
	svc.NotifyTyping(1, 2)
}

func msg(id string, sender, receiver uint64, content string, read bool, at time.Time) *mongo.Message {
	return &mongo.Message{
		ID: id, SenderID: sender, ReceiverID: receiver,
		Content: content, Read: read, CreatedAt: at,
	}
}

func seed(repo *FakeMessageRepo, msgs ...*mongo.Message) {
	repo.msgs = append(repo.msgs, msgs...)
}

var _ mongo.MessageRepo = (*FakeMessageRepo)(nil)
var _ repository.UserRepo = (*FakeUserRepo)(nil)
