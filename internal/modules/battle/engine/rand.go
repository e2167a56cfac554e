package engine

import (
	"math/rand/v2"
	"sync"
)

// RandSource 随机数来源，测试中注入确定性实现
type RandSource interface {
	// Float64 返回 [0, 1) 区间的随机数
	Float64() float64
	// IntN 返回 [0, n) 区间的随机整数
	IntN(n int) int
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandSource 基于种子创建并发安全的随机数来源
func NewRandSource(seed1, seed2 uint64) RandSource {
	return &lockedRand{r: rand.New(rand.NewPCG(seed1, seed2))}
}

// DefaultRandSource 进程级随机数来源
func DefaultRandSource() RandSource {
	return globalRand{}
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return rand.IntN(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

// chance 以概率 p 返回 true
func chance(r RandSource, p float64) bool {
	return r.Float64() < p
}
