package ws

import (
	"errors"
	log "log/slog"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// ErrChannelBusy 发送缓冲已满，本次推送被丢弃
var ErrChannelBusy = errors.New("channel send buffer full")

// Channel 一条到客户端会话的双向连接抽象
type Channel interface {
	// Push 非阻塞投递一个事件。同一 Channel 上的事件按入队顺序送达。
	Push(evt *Event) error
	Close()
}

const (
	sendBufferSize = 64
	writeTimeout   = 10 * time.Second
)

// wsChannel 基于 gorilla/websocket 的 Channel 实现。
// 单写协程消费 FIFO 缓冲，保证推送顺序与入队顺序一致。
type wsChannel struct {
	conn      *websocket.Conn
	sendBuf   chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func NewChannel(conn *websocket.Conn) Channel {
	ch := &wsChannel{
		conn:    conn,
		sendBuf: make(chan []byte, sendBufferSize),
		done:    make(chan struct{}),
	}
	go ch.writeLoop()
	return ch
}

func (s *wsChannel) Push(evt *Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	select {
	case s.sendBuf <- data:
		return nil
	case <-s.done:
		return websocket.ErrCloseSent
	default:
		// 慢客户端不允许拖住发送方，直接丢弃
		return ErrChannelBusy
	}
}

// Close 可并发调用：读循环的断连 defer 与 writeLoop 的写失败路径会同时触发
func (s *wsChannel) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// writeLoop 唯一的连接写入方
func (s *wsChannel) writeLoop() {
	for {
		select {
		case data := <-s.sendBuf:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn("WS 推送写入失败", "err", err)
				s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}
