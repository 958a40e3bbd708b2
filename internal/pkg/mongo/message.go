package mongo

import (
	"time"
)

// Message 私信明细模型
type Message struct {
	ID         string    `bson:"_id" json:"id"`                 // 由服务端生成的 ObjectID
	SenderID   uint64    `bson:"sender_id" json:"senderId"`     // 发送者 UID
	ReceiverID uint64    `bson:"receiver_id" json:"receiverId"` // 接收者 UID
	Content    string    `bson:"content" json:"content"`        // 文本内容，入库前已 Trim
	Read       bool      `bson:"read" json:"read"`              // 已读标记，只会从 false 翻转到 true
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`   // 消息发送时间
}
