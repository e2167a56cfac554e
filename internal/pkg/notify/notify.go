package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
)

var (
	ncMu sync.RWMutex
	nc   *nats.Conn
)

// SetNatsConn 设置全局 NATS 连接（由 main 提供）
func SetNatsConn(conn *nats.Conn) {
	ncMu.Lock()
	defer ncMu.Unlock()
	nc = conn
}

func currentConn() *nats.Conn {
	ncMu.RLock()
	defer ncMu.RUnlock()
	return nc
}

// Connected 当前是否持有可用的 NATS 连接
func Connected() bool {
	conn := currentConn()
	return conn != nil && conn.IsConnected()
}

// PublishBattleEvent 发布对战相关事件
func PublishBattleEvent(ctx context.Context, subject string, payload interface{}) error {
	conn := currentConn()
	if conn == nil {
		return nil // 没有连接时静默降级
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal battle event failed: %w", err)
	}
	return conn.Publish(subject, data)
}

// Publisher 以接口形式暴露全局发布函数，便于注入
type Publisher struct{}

// Publish 发布事件
func (Publisher) Publish(ctx context.Context, subject string, payload interface{}) error {
	return PublishBattleEvent(ctx, subject, payload)
}

// Default subjects
const (
	SubjectBattleStarted  = "battle.started"
	SubjectBattleTurn     = "battle.turn"
	SubjectBattleFinished = "battle.finished"
)
