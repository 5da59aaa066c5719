package main

import (
	"testing"

	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/taskforge/task-manager-api/internal/config"
)

func TestNewSessionStore_UnreachableRedisFallsBackToCookies(t *testing.T) {
	cfg := &config.Config{
		Redis: config.RedisConfig{Addr: "127.0.0.1:1", DB: 3},
		Auth:  config.AuthConfig{SessionSecret: "secret"},
	}

	store := newSessionStore(cfg, true, zerolog.Nop())

	assert.NotNil(t, store)
	err, _ := redisStore.GetRedisStore(store)
	assert.Error(t, err)
}

func TestNewSessionStore_CookieOnly(t *testing.T) {
	cfg := &config.Config{Auth: config.AuthConfig{SessionSecret: "secret"}}

	store := newSessionStore(cfg, false, zerolog.Nop())

	err, _ := redisStore.GetRedisStore(store)
	assert.Error(t, err)
}
