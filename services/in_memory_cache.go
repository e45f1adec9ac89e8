package services

import (
	"sync"
)

// InMemoryCache 是 CacheStore 接口的内存实现
// 区间参数遵循 redis 列表语义：stop 为闭区间，负数下标从尾部倒数
type InMemoryCache struct {
	lists    map[string][]string
	counters map[string]int64
	mu       sync.Mutex
}

// NewInMemoryCache 创建 InMemoryCache 实例
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		lists:    make(map[string][]string),
		counters: make(map[string]int64),
	}
}

// LPush 实现 CacheStore 接口
func (c *InMemoryCache) LPush(key, value string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	list := c.lists[key]
	c.lists[key] = append([]string{value}, list...)
	return len(c.lists[key]), nil
}

// LTrim 实现 CacheStore 接口
func (c *InMemoryCache) LTrim(key string, start, stop int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	list, ok := c.lists[key]
	if !ok {
		return nil
	}

	lo, hi, ok := normalizeRange(len(list), start, stop)
	if !ok {
		// 区间为空时删除整个列表
		delete(c.lists, key)
		return nil
	}

	c.lists[key] = list[lo : hi+1]
	return nil
}

// LRange 实现 CacheStore 接口
func (c *InMemoryCache) LRange(key string, start, stop int) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	list, ok := c.lists[key]
	if !ok {
		return []string{}, nil
	}

	lo, hi, ok := normalizeRange(len(list), start, stop)
	if !ok {
		return []string{}, nil
	}

	result := make([]string, hi+1-lo)
	copy(result, list[lo:hi+1])
	return result, nil
}

// Incr 实现 CacheStore 接口
func (c *InMemoryCache) Incr(key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counters[key]++
	return c.counters[key], nil
}

// Close 实现 CacheStore 接口
func (c *InMemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lists = make(map[string][]string)
	c.counters = make(map[string]int64)
	return nil
}

// normalizeRange 将 redis 风格的区间换算为切片下标，区间为空时 ok 为 false
func normalizeRange(length, start, stop int) (lo, hi int, ok bool) {
	if length == 0 {
		return 0, 0, false
	}

	lo = start
	if lo < 0 {
		lo += length
	}
	if lo < 0 {
		lo = 0
	}

	hi = stop
	if hi < 0 {
		hi += length
	}
	if hi >= length {
		hi = length - 1
	}

	if lo > hi || lo >= length || hi < 0 {
		return 0, 0, false
	}
	return lo, hi, true
}
