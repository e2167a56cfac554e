package service

import (
	"sort"
	"sync"
	"sync/atomic"

	"monster-battle/internal/modules/battle/engine"
)

// battleEntry 单场对战的串行化点
type battleEntry struct {
	// mu 所有变更都在持有 mu 时进行
	mu       sync.Mutex
	snapshot atomic.Pointer[engine.Battle]
	// guardOwner 跨实例会话锁的持有者标识，为空表示未加锁
	guardOwner string
}

func (e *battleEntry) load() *engine.Battle {
	return e.snapshot.Load()
}

// BattleRegistry 按冒险会话索引进行中的对战
type BattleRegistry struct {
	mu      sync.Mutex
	entries map[string]*battleEntry
}

// NewBattleRegistry 创建对战注册表
func NewBattleRegistry() *BattleRegistry {
	return &BattleRegistry{entries: make(map[string]*battleEntry)}
}

// reserve 为新对战占位，会话已有条目时返回 false
func (r *BattleRegistry) reserve(sessionID string) (*battleEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[sessionID]; exists {
		return nil, false
	}
	e := &battleEntry{}
	r.entries[sessionID] = e
	return e, true
}

// adopt 收纳从存储中加载的对战，已有条目时返回已有条目
func (r *BattleRegistry) adopt(sessionID string, b *engine.Battle) *battleEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[sessionID]; ok {
		return e
	}
	e := &battleEntry{}
	e.snapshot.Store(b)
	r.entries[sessionID] = e
	return e
}

func (r *BattleRegistry) get(sessionID string) (*battleEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[sessionID]
	return e, ok
}

// remove 只有条目仍是 e 时才删除
func (r *BattleRegistry) remove(sessionID string, e *battleEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.entries[sessionID]; ok && cur == e {
		delete(r.entries, sessionID)
	}
}

// Snapshot 最近一次提交的快照，无锁读取
func (r *BattleRegistry) Snapshot(sessionID string) *engine.Battle {
	e, ok := r.get(sessionID)
	if !ok {
		return nil
	}
	return e.load()
}

// Sessions 当前登记的会话 ID
func (r *BattleRegistry) Sessions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for id := range r.entries {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len 当前登记的对战数
func (r *BattleRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
