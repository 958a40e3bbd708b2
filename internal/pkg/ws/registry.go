package ws

import (
	log "log/slog"
	"sync"
)

// Registry 进程内连接注册表：用户 ID → 当前会话 Channel。
// 单进程持有全部活跃连接，进程重启后由客户端重连重建。
type Registry struct {
	mu       sync.RWMutex
	channels map[uint64]Channel
}

func NewRegistry() *Registry {
	return &Registry{
		channels: make(map[uint64]Channel),
	}
}

// Register 绑定用户到 Channel。同一用户重复注册时直接覆盖旧绑定，
// 被替换的 Channel 不再收到推送（重连场景无需先显式注销）。
func (s *Registry) Register(userID uint64, ch Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels[userID] = ch
}

// Lookup 查找用户当前绑定的 Channel
func (s *Registry) Lookup(userID uint64) (Channel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ch, ok := s.channels[userID]
	return ch, ok
}

// Deregister 按 Channel 值扫描删除绑定。断连事件只携带连接本身，
// 不能信任连接侧自报的身份。
func (s *Registry) Deregister(ch Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, bound := range s.channels {
		if bound == ch {
			delete(s.channels, userID)
			return
		}
	}
}

// Publish 向用户当前连接推送事件，尽力而为：
// 离线或缓冲满都不是错误，返回 false 表示未送达。
func (s *Registry) Publish(userID uint64, evt *Event) bool {
	ch, ok := s.Lookup(userID)
	if !ok {
		return false
	}
	if err := ch.Push(evt); err != nil {
		log.Debug("推送未送达", "userID", userID, "event", evt.Type, "err", err)
		return false
	}
	return true
}

// Broadcast 向全部在线连接推送事件
func (s *Registry) Broadcast(evt *Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for userID, ch := range s.channels {
		if err := ch.Push(evt); err != nil {
			log.Debug("广播未送达", "userID", userID, "event", evt.Type, "err", err)
		}
	}
}
