package ws_test

import (
	"Ripple/internal/pkg/ws"
	"testing"

	"github.com/stretchr/testify/assert"
)

type RecordingChannel struct {
	events []*ws.Event
	pushed error
	closed bool
}

func (s *RecordingChannel) Push(evt *ws.Event) error {
	if s.pushed != nil {
		return s.pushed
	}
	s.events = append(s.events, evt)
	return nil
}

func (s *RecordingChannel) Close() {
	s.closed = true
}

func Test_Registry_register_then_lookup(t *testing.T) {
	// Arrange
	registry := ws.NewRegistry()
	ch := &RecordingChannel{}

	// Act
	registry.Register(7, ch)

	// Assert
	got, ok := registry.Lookup(7)
	assert.True(t, ok)
	assert.Same(t, ch, got.(*RecordingChannel))
}

func Test_Registry_reregister_overwrites_previous_binding(t *testing.T) {
	// Arrange
	registry := ws.NewRegistry()
	old := &RecordingChannel{}
	fresh := &RecordingChannel{}
	registry.Register(7, old)

	// Act
	registry.Register(7, fresh)
	registry.Publish(7, ws.NewEvent("newMessage", "hi"))

	// Assert: 只有新连接收到推送
	assert.Empty(t, old.events)
	assert.Len(t, fresh.events, 1)
}

func Test_Registry_deregister_removes_binding_by_channel_value(t *testing.T) {
	// Arrange
	registry := ws.NewRegistry()
	ch := &RecordingChannel{}
	registry.Register(7, ch)

	// Act
	registry.Deregister(ch)

	// Assert
	_, ok := registry.Lookup(7)
	assert.False(t, ok)
}

func Test_Registry_deregister_of_stale_channel_keeps_new_binding(t *testing.T) {
	// Arrange: 用户重连，旧连接的断连事件晚于新注册到达
	registry := ws.NewRegistry()
	stale := &RecordingChannel{}
	fresh := &RecordingChannel{}
	registry.Register(7, stale)
	registry.Register(7, fresh)

	// Act
	registry.Deregister(stale)

	// Assert: 新绑定不受影响
	got, ok := registry.Lookup(7)
	assert.True(t, ok)
	assert.Same(t, fresh, got.(*RecordingChannel))
}

func Test_Registry_publish_to_offline_user_returns_false(t *testing.T) {
	registry := ws.NewRegistry()

	delivered := registry.Publish(42, ws.NewEvent("newMessage", "hi"))

	assert.False(t, delivered)
}

func Test_Registry_publish_to_busy_channel_returns_false(t *testing.T) {
	// Arrange
	registry := ws.NewRegistry()
	ch := &RecordingChannel{pushed: ws.ErrChannelBusy}
	registry.Register(7, ch)

	// Act
	delivered := registry.Publish(7, ws.NewEvent("newMessage", "hi"))

	// Assert
	assert.False(t, delivered)
}

func Test_Registry_broadcast_reaches_all_online_users(t *testing.T) {
	// Arrange
	registry := ws.NewRegistry()
	a := &RecordingChannel{}
	b := &RecordingChannel{}
	registry.Register(1, a)
	registry.Register(2, b)

	// Act
	registry.Broadcast(ws.NewEvent("newPost", "hello"))

	// Assert
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}
