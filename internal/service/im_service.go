package service

import (
	"Ripple/internal/api/dto"
	"Ripple/internal/model"
	"Ripple/internal/pkg/consts"
	"Ripple/internal/pkg/mongo"
	"Ripple/internal/pkg/ws"
	"Ripple/internal/repository"
	"context"
	log "log/slog"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IMService 私信服务接口定义
type IMService interface {
	SendMessage(ctx context.Context, senderID uint64, req *dto.SendMessageReq) (*dto.MessageDTO, error)
	GetConversationList(ctx context.Context, userID uint64) ([]*dto.ConversationDTO, error)
	OpenThread(ctx context.Context, viewerID, peerID uint64) ([]*dto.MessageDTO, error)
	NotifyTyping(fromID, toID uint64)
}

type imServiceImpl struct {
	messageRepo mongo.MessageRepo
	userRepo    repository.UserRepo
	registry    *ws.Registry
}

func NewIMService(messageRepo mongo.MessageRepo, userRepo repository.UserRepo, registry *ws.Registry) IMService {
	return &imServiceImpl{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		registry:    registry,
	}
}

// SendMessage 发送私信：校验 → 落库 → 双端推送。
// 推送是旁路信道，落库成功即视为发送成功，在线与否不影响返回值。
func (s *imServiceImpl) SendMessage(ctx context.Context, senderID uint64, req *dto.SendMessageReq) (*dto.MessageDTO, error) {
	if senderID == 0 || req.ReceiverID == 0 {
		return nil, ErrParamInvalid
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrMessageEmpty
	}

	// 校验收方存在，顺带取出双方摘要用于推送富化
	briefs, err := s.resolveBriefs(ctx, []uint64{senderID, req.ReceiverID})
	if err != nil {
		return nil, err
	}
	if briefs[req.ReceiverID] == nil {
		return nil, ErrUserNotFound
	}

	msg := &mongo.Message{
		ID:         primitive.NewObjectID().Hex(),
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Content:    content,
		Read:       false,
		CreatedAt:  time.Now(),
	}

	if err := s.messageRepo.SaveMessage(ctx, msg); err != nil {
		return nil, err
	}

	enriched := s.toMessageDTO(msg)
	enriched.Sender = briefs[msg.SenderID]
	enriched.Receiver = briefs[msg.ReceiverID]
	evt := ws.NewEvent(consts.EventNewMessage, enriched)

	// 自聊只推一次
	s.registry.Publish(senderID, evt)
	if req.ReceiverID != senderID {
		s.registry.Publish(req.ReceiverID, evt)
	}

	return s.toMessageDTO(msg), nil
}

// GetConversationList 聚合会话列表：按对手方分组，取每组最新消息与未读数。
// 每次调用都从消息存储全量重算，不做缓存。
func (s *imServiceImpl) GetConversationList(ctx context.Context, userID uint64) ([]*dto.ConversationDTO, error) {
	if userID == 0 {
		return nil, ErrParamInvalid
	}

	msgs, err := s.messageRepo.GetByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 保证时间降序、同刻按消息 ID 降序，使重复调用结果稳定
	sort.SliceStable(msgs, func(i, j int) bool {
		if !msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].CreatedAt.After(msgs[j].CreatedAt)
		}
		return msgs[i].ID > msgs[j].ID
	})

	type group struct {
		last   *mongo.Message
		unread int64
	}
	groups := make(map[uint64]*group)
	peerOrder := make([]uint64, 0)

	for _, m := range msgs {
		peerID := m.SenderID
		if m.SenderID == userID {
			peerID = m.ReceiverID
		}

		g, ok := groups[peerID]
		if !ok {
			g = &group{last: m}
			groups[peerID] = g
			peerOrder = append(peerOrder, peerID)
		}
		if m.ReceiverID == userID && !m.Read {
			g.unread++
		}
	}

	briefs, err := s.resolveBriefs(ctx, peerOrder)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ConversationDTO, 0, len(peerOrder))
	for _, peerID := range peerOrder {
		brief := briefs[peerID]
		if brief == nil {
			// 坏引用不应拖垮整个列表，跳过该会话
			log.WarnContext(ctx, "会话对手方无法解析，已跳过", "userID", userID, "peerID", peerID)
			continue
		}

		g := groups[peerID]
		res = append(res, &dto.ConversationDTO{
			PeerID: peerID,
			Peer:   brief,
			LastMessage: dto.LastMessageDTO{
				Content:   g.last.Content,
				Timestamp: g.last.CreatedAt,
				SentByMe:  g.last.SenderID == userID,
				Read:      g.last.Read,
			},
			UnreadCount: g.unread,
		})
	}
	return res, nil
}

// OpenThread 打开与某人的会话：先把对方发来的未读全部置为已读，
// 再返回双向完整历史（时间升序，附带双方摘要）。重复调用幂等。
func (s *imServiceImpl) OpenThread(ctx context.Context, viewerID, peerID uint64) ([]*dto.MessageDTO, error) {
	if viewerID == 0 || peerID == 0 {
		return nil, ErrParamInvalid
	}

	// 已读翻转必须先于读取，保证紧随其后的会话列表看到一致状态
	if _, err := s.messageRepo.MarkThreadRead(ctx, peerID, viewerID); err != nil {
		return nil, err
	}

	msgs, err := s.messageRepo.GetThread(ctx, viewerID, peerID)
	if err != nil {
		return nil, err
	}

	briefs, err := s.resolveBriefs(ctx, []uint64{viewerID, peerID})
	if err != nil {
		return nil, err
	}

	res := make([]*dto.MessageDTO, 0, len(msgs))
	for _, m := range msgs {
		d := s.toMessageDTO(m)
		d.Sender = briefs[m.SenderID]
		d.Receiver = briefs[m.ReceiverID]
		res = append(res, d)
	}
	return res, nil
}

// NotifyTyping 输入状态通知：对方离线直接丢弃，不产生错误
func (s *imServiceImpl) NotifyTyping(fromID, toID uint64) {
	if fromID == 0 || toID == 0 {
		return
	}
	s.registry.Publish(toID, ws.NewEvent(consts.EventUserTyping, &dto.TypingDTO{From: fromID}))
}

// resolveBriefs 批量解析用户摘要，缺失的 ID 在结果中为 nil
func (s *imServiceImpl) resolveBriefs(ctx context.Context, ids []uint64) (map[uint64]*dto.UserBriefDTO, error) {
	res := make(map[uint64]*dto.UserBriefDTO, len(ids))
	if len(ids) == 0 {
		return res, nil
	}

	users, err := s.userRepo.GetUserByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		res[u.ID] = toUserBrief(u)
	}
	return res, nil
}

func toUserBrief(u *model.User) *dto.UserBriefDTO {
	return &dto.UserBriefDTO{
		UserID:    u.ID,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
	}
}

func (s *imServiceImpl) toMessageDTO(m *mongo.Message) *dto.MessageDTO {
	return &dto.MessageDTO{
		ID: m.ID, SenderID: m.SenderID, ReceiverID: m.ReceiverID,
		Content: m.Content, Read: m.Read, CreatedAt: m.CreatedAt,
	}
}
