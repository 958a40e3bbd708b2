package consts

const (
	DefaultAvatarURL = "default_avatar.png"
)

// 推送事件类型
const (
	EventNewMessage = "newMessage"
	EventUserTyping = "userTyping"
	EventNewPost    = "newPost"
)
