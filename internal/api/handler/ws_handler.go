package handler

import (
	"Ripple/internal/api/dto"
	"Ripple/internal/pkg/response"
	"Ripple/internal/pkg/security"
	"Ripple/internal/pkg/ws"
	"Ripple/internal/service"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientFrame 客户端经长连接上行的帧
type clientFrame struct {
	Type    string `json:"type"` // message / typing
	To      uint64 `json:"to"`
	Content string `json:"content"`
}

type WsHandler struct {
	imService service.IMService
	registry  *ws.Registry
}

func NewWsHandler(im service.IMService, registry *ws.Registry) *WsHandler {
	return &WsHandler{imService: im, registry: registry}
}

func (s *WsHandler) Connect(c *gin.Context) {
	// 鉴权：长连接无法带 Header，走 query token
	token := c.Query("token")
	if token == "" {
		response.Error(c, service.UnauthorizedError)
		return
	}
	claims, err := security.ValidateToken(token)
	if err != nil {
		log.Warn("WS 鉴权失败", "err", err)
		response.Error(c, service.UnauthorizedError)
		return
	}
	userID := claims.UserID

	// 升级 Websocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WS 协议升级失败", "err", err)
		return
	}

	channel := ws.NewChannel(conn)

	// 注册绑定；同一用户重连会直接顶掉旧绑定
	s.registry.Register(userID, channel)
	log.Info("用户 WS 连接已建立", "userID", userID)

	defer func() {
		s.registry.Deregister(channel)
		channel.Close()
		_ = conn.Close()
		log.Info("用户 WS 连接已断开", "userID", userID)
	}()

	// 读循环：处理上行帧并监听断开
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var frame clientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			log.Warn("WS 上行帧解析失败", "userID", userID, "err", err)
			continue
		}

		switch frame.Type {
		case "message":
			req := &dto.SendMessageReq{ReceiverID: frame.To, Content: frame.Content}
			if _, err := s.imService.SendMessage(c.Request.Context(), userID, req); err != nil {
				log.Warn("WS 消息发送失败", "userID", userID, "err", err)
			}
		case "typing":
			s.imService.NotifyTyping(userID, frame.To)
		}
	}
}
