package redis

import (
	"context"
	"fmt"
	"time"

	"monster-battle/internal/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

// Config Redis 配置
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr 返回 host:port 形式的地址
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Client Redis 客户端封装
type Client struct {
	*redis.Client
	service string
}

// NewClient 创建 Redis 客户端
func NewClient(cfg Config, service string) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	if service == "" {
		service = metrics.GetServiceName()
	}

	return &Client{
		Client:  rdb,
		service: service,
	}, nil
}

func (c *Client) record(operation string, err error, start time.Time) {
	result := "success"
	switch {
	case err == redis.Nil:
		result = "miss"
	case err != nil:
		result = "error"
	}
	metrics.DefaultResourceMetrics.RecordRedisOperation(operation, result, time.Since(start), c.service)
}

// SetNXWithTTL 仅当键不存在时写入，返回是否写入成功
func (c *Client) SetNXWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	start := time.Now()
	ok, err := c.SetNX(ctx, key, value, ttl).Result()
	c.record("SETNX", err, start)
	return ok, err
}

// GetString 获取字符串值
func (c *Client) GetString(ctx context.Context, key string) (string, error) {
	start := time.Now()
	result, err := c.Get(ctx, key).Result()
	c.record("GET", err, start)
	return result, err
}

// DeleteKey 删除键
func (c *Client) DeleteKey(ctx context.Context, keys ...string) error {
	start := time.Now()
	err := c.Del(ctx, keys...).Err()
	c.record("DEL", err, start)
	return err
}

// RunScript 执行 Lua 脚本
func (c *Client) RunScript(ctx context.Context, name string, script *redis.Script, keys []string, args ...interface{}) (interface{}, error) {
	start := time.Now()
	result, err := script.Run(ctx, c.Client, keys, args...).Result()
	c.record("EVAL_"+name, err, start)
	return result, err
}
