package services

// CacheStore 定义了缓存存储的抽象接口 (列表 + 计数器原语)
type CacheStore interface {
	// LPush 将值插入列表头部，返回插入后的列表长度
	LPush(key, value string) (int, error)
	// LTrim 裁剪列表，只保留 [start, stop] 区间内的元素
	LTrim(key string, start, stop int) error
	// LRange 返回 [start, stop] 区间内的元素
	LRange(key string, start, stop int) ([]string, error)
	// Incr 原子递增计数器，返回递增后的值
	Incr(key string) (int64, error)
	// Close 关闭缓存连接
	Close() error
}

// CommentaryCacheKey 返回比赛最近解说列表的缓存键
func CommentaryCacheKey(matchID string) string {
	return "commentary:" + matchID
}
