package consts

const (
	UserProfileKey = "user:profile:"
	PostDirtyKey   = "post:dirty"
)
