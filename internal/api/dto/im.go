package dto

import "time"

// SendMessageReq 发送私信请求体
type SendMessageReq struct {
	ReceiverID uint64 `json:"receiver_id" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

// TypingReq 输入状态通知请求体
type TypingReq struct {
	ReceiverID uint64 `json:"receiver_id" binding:"required"`
}

// UserBriefDTO 消息富化用的用户摘要
type UserBriefDTO struct {
	UserID    uint64 `json:"user_id"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// MessageDTO 消息明细响应。Sender/Receiver 仅在推送与会话历史中填充，
// 发送接口的同步返回不携带。
type MessageDTO struct {
	ID         string        `json:"id"`
	SenderID   uint64        `json:"sender_id"`
	ReceiverID uint64        `json:"receiver_id"`
	Content    string        `json:"content"`
	Read       bool          `json:"read"`
	CreatedAt  time.Time     `json:"createdAt"`
	Sender     *UserBriefDTO `json:"sender,omitempty"`
	Receiver   *UserBriefDTO `json:"receiver,omitempty"`
}

// LastMessageDTO 会话列表项中的最近一条消息
type LastMessageDTO struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	SentByMe  bool      `json:"sentByMe"`
	Read      bool      `json:"read"`
}

// ConversationDTO 会话列表项响应
type ConversationDTO struct {
	PeerID      uint64         `json:"peer_id"`
	Peer        *UserBriefDTO  `json:"user"`
	LastMessage LastMessageDTO `json:"lastMessage"`
	UnreadCount int64          `json:"unreadCount"`
}

// TypingDTO userTyping 事件推送体
type TypingDTO struct {
	From uint64 `json:"from"`
}
