package session

import (
	"context"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

var _ fiber.Storage = (*RedisStorage)(nil)

func TestNewRedisStorageUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewRedisStorage(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}

func TestEmptyKeysAreNoops(t *testing.T) {
	s := &RedisStorage{client: NewRedisClient(RedisConfig{Addr: "127.0.0.1:1"}), prefix: DefaultPrefix, timeout: time.Second}
	defer s.Close()

	got, err := s.Get("")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, s.Set("", []byte("x"), 0))
	assert.NoError(t, s.Set("k", nil, 0))
	assert.NoError(t, s.Delete(""))
}
