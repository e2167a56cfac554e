package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionGuardKeyPrefix = "battle:session:"

// 仅当锁仍属于自己时删除
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// 仅当锁仍属于自己时续期
var refreshScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// SessionGuard 跨实例的探险会话对战占用标记
type SessionGuard struct {
	client *Client
	ttl    time.Duration
}

// NewSessionGuard 创建会话占用标记
func NewSessionGuard(client *Client, ttl time.Duration) *SessionGuard {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &SessionGuard{client: client, ttl: ttl}
}

func sessionGuardKey(sessionID string) string {
	return sessionGuardKeyPrefix + sessionID
}

// Acquire 占用会话，owner 一般为对战 ID。已被其他 owner 占用时返回 false
func (g *SessionGuard) Acquire(ctx context.Context, sessionID, owner string) (bool, error) {
	ok, err := g.client.SetNXWithTTL(ctx, sessionGuardKey(sessionID), owner, g.ttl)
	if err != nil {
		return false, fmt.Errorf("acquire session guard %s: %w", sessionID, err)
	}
	if ok {
		return true, nil
	}

	current, err := g.client.GetString(ctx, sessionGuardKey(sessionID))
	if err == redis.Nil {
		// 刚好过期，重试一次
		return g.client.SetNXWithTTL(ctx, sessionGuardKey(sessionID), owner, g.ttl)
	}
	if err != nil {
		return false, fmt.Errorf("read session guard %s: %w", sessionID, err)
	}
	return current == owner, nil
}

// Refresh 续期占用标记
func (g *SessionGuard) Refresh(ctx context.Context, sessionID, owner string) error {
	_, err := g.client.RunScript(ctx, "refresh", refreshScript,
		[]string{sessionGuardKey(sessionID)}, owner, g.ttl.Milliseconds())
	if err != nil {
		return fmt.Errorf("refresh session guard %s: %w", sessionID, err)
	}
	return nil
}

// Release 释放占用标记
func (g *SessionGuard) Release(ctx context.Context, sessionID, owner string) error {
	_, err := g.client.RunScript(ctx, "release", releaseScript,
		[]string{sessionGuardKey(sessionID)}, owner)
	if err != nil {
		return fmt.Errorf("release session guard %s: %w", sessionID, err)
	}
	return nil
}
