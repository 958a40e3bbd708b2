package redis_test

import (
	"Ripple/internal/pkg/redis"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_IsNoSuchKey_matches_rename_on_missing_key(t *testing.T) {
	// RENAME 源键不存在时 redis 服务端返回的错误
	assert.True(t, redis.IsNoSuchKey(errors.New("ERR no such key")))
}

func Test_IsNoSuchKey_rejects_other_errors(t *testing.T) {
	assert.False(t, redis.IsNoSuchKey(nil))
	assert.False(t, redis.IsNoSuchKey(errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")))
}
