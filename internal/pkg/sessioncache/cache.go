package sessioncache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"sync"
	"time"

	"monster-battle/internal/pkg/log"
	"monster-battle/internal/pkg/metrics"
)

const cacheName = "identity_session"

// Session 描述缓存的身份会话信息
type Session struct {
	Token      string
	IdentityID string
	// ExpiresAt 为身份服务给出的会话过期时间，零值表示未知
	ExpiresAt time.Time
}

type entry struct {
	value     Session
	expiresAt time.Time
}

// Cache 线程安全的会话缓存，减少对身份服务的重复校验
type Cache struct {
	ttl        time.Duration
	maxEntries int
	metrics    *metrics.ResourceMetrics
	logger     log.Logger
	clock      func() time.Time
	mu         sync.Mutex
	store      map[string]*entry
}

// New 返回 Cache 实例
func New(ttl time.Duration, maxEntries int, m *metrics.ResourceMetrics, logger log.Logger) *Cache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	if m == nil {
		m = metrics.DefaultResourceMetrics
	}
	if logger == nil {
		logger = log.GetLogger()
	}
	return &Cache{
		ttl:        ttl,
		maxEntries: maxEntries,
		metrics:    m,
		logger:     logger.With("component", "session_cache"),
		clock:      time.Now,
		store:      make(map[string]*entry),
	}
}

// Get 返回缓存的 Session，不刷新 TTL
func (c *Cache) Get(ctx context.Context, token string) (Session, bool) {
	if token == "" {
		c.metrics.RecordCacheLookup(cacheName, "miss", "")
		return Session{}, false
	}

	c.mu.Lock()
	value, ok := c.store[token]
	if ok && c.clock().After(value.expiresAt) {
		delete(c.store, token)
		c.mu.Unlock()
		c.metrics.RecordCacheLookup(cacheName, "expired", "")
		c.logger.DebugContext(ctx, "session cache expired", log.String("token_hash", hashToken(token)))
		return Session{}, false
	}
	c.mu.Unlock()

	if !ok {
		c.metrics.RecordCacheLookup(cacheName, "miss", "")
		return Session{}, false
	}
	c.metrics.RecordCacheLookup(cacheName, "hit", "")
	return value.value, true
}

// Set 写入 Session，过期时间取 TTL 与会话本身过期时间的较早者
func (c *Cache) Set(ctx context.Context, session Session) {
	if session.Token == "" {
		return
	}
	now := c.clock()
	expiresAt := now.Add(c.ttl)
	if !session.ExpiresAt.IsZero() && session.ExpiresAt.Before(expiresAt) {
		expiresAt = session.ExpiresAt
	}

	c.mu.Lock()
	if _, exists := c.store[session.Token]; !exists && len(c.store) >= c.maxEntries {
		c.evictLocked(now)
	}
	c.store[session.Token] = &entry{value: session, expiresAt: expiresAt}
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "session cache updated",
		log.String("identity_id", session.IdentityID),
		log.String("token_hash", hashToken(session.Token)))
}

// Delete 主动剔除缓存
func (c *Cache) Delete(ctx context.Context, token, reason string) {
	if token == "" {
		return
	}
	c.mu.Lock()
	_, ok := c.store[token]
	delete(c.store, token)
	c.mu.Unlock()
	if ok {
		c.metrics.RecordCacheLookup(cacheName, "evicted", "")
		c.logger.InfoContext(ctx, "session cache evicted",
			log.String("reason", reason),
			log.String("token_hash", hashToken(token)))
	}
}

// Len 当前缓存条目数
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.store)
}

// evictLocked 先清理过期条目，仍然满时淘汰最早过期的一条
func (c *Cache) evictLocked(now time.Time) {
	var oldestToken string
	var oldest time.Time
	for token, e := range c.store {
		if now.After(e.expiresAt) {
			delete(c.store, token)
			continue
		}
		if oldestToken == "" || e.expiresAt.Before(oldest) {
			oldestToken, oldest = token, e.expiresAt
		}
	}
	if len(c.store) >= c.maxEntries && oldestToken != "" {
		delete(c.store, oldestToken)
		c.metrics.RecordCacheLookup(cacheName, "evicted", "")
	}
}

func hashToken(token string) string {
	if token == "" {
		return ""
	}
	h := sha1.Sum([]byte(token))
	return hex.EncodeToString(h[:])[:12]
}
