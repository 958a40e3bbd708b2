package ws

// Event 推送给客户端的事件信封
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func NewEvent(eventType string, data interface{}) *Event {
	return &Event{Type: eventType, Data: data}
}
