package ws_test

import (
	"Ripple/internal/pkg/ws"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Channel_close_is_safe_to_call_concurrently(t *testing.T) {
	// Arrange: 读循环的断连 defer 与写循环的失败路径会同时调用 Close
	for i := 0; i < 1000; i++ {
		ch := ws.NewChannel(nil)

		start := make(chan struct{})
		var wg sync.WaitGroup
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				ch.Close()
			}()
		}

		// Act: 同时触发全部 Close；重复关闭会 panic 则测试进程直接崩溃
		close(start)
		wg.Wait()
	}
}

func Test_Channel_delivers_events_in_enqueue_order(t *testing.T) {
	const total = 10

	// Arrange: 服务端把自己一侧的连接包成 Channel 并按序推送
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		ch := ws.NewChannel(conn)
		defer ch.Close()

		for i := 0; i < total; i++ {
			assert.NoError(t, ch.Push(ws.NewEvent("newMessage", fmt.Sprintf("m%d", i))))
		}

		// 等客户端确认收完再退出，避免连接提前关闭
		_, _, _ = conn.ReadMessage()
	}))
	defer srv.Close()

	wsURL := strings.Replace(srv.URL, "http", "ws", 1)
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	// Act: 读取全部推送
	got := make([]string, 0, total)
	for i := 0; i < total; i++ {
		_ = client.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, data, err := client.ReadMessage()
		require.NoError(t, err)

		var evt struct {
			Type string `json:"type"`
			Data string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(data, &evt))
		assert.Equal(t, "newMessage", evt.Type)
		got = append(got, evt.Data)
	}

	// Assert: 送达顺序与入队顺序一致
	want := make([]string, 0, total)
	for i := 0; i < total; i++ {
		want = append(want, fmt.Sprintf("m%d", i))
	}
	assert.Equal(t, want, got)

	_ = client.WriteMessage(websocket.TextMessage, []byte("done"))
}
