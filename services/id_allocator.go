package services

import (
	"fmt"
)

const matchCounterKey = "match_counter"

// MatchIDAllocator 基于缓存计数器分配全局递增的比赛编号
// 编号渲染为 4 位零填充的十进制字符串，超过 9999 后自然增长
type MatchIDAllocator struct {
	cache CacheStore
}

// NewMatchIDAllocator 创建 MatchIDAllocator 实例
func NewMatchIDAllocator(cache CacheStore) *MatchIDAllocator {
	return &MatchIDAllocator{cache: cache}
}

// Next 分配下一个比赛编号
func (a *MatchIDAllocator) Next() (string, error) {
	counter, err := a.cache.Incr(matchCounterKey)
	if err != nil {
		return "", fmt.Errorf("failed to increment match counter: %w", err)
	}
	return fmt.Sprintf("%04d", counter), nil
}
