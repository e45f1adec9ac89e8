package services

import (
	"encoding/json"
	"sync"
	"time"

	"cricket-service/database"
	"cricket-service/logger"
)

// MessageBroadcaster 接口用于广播消息，避免循环依赖
type MessageBroadcaster interface {
	Broadcast(event string, payload interface{})
}

// MatchRepository 定义了比赛与解说记录的持久化接口
type MatchRepository interface {
	CreateMatch(m *database.Match) (*database.Match, error)
	GetMatch(matchID string) (*database.Match, error)
	GetAllMatches() ([]database.Match, error)
	AddCommentary(m *database.Match, c *database.Commentary) (*database.Commentary, error)
	UpdateMatchStatus(matchID, status string) (time.Time, error)
	GetCommentaries(matchID string) ([]database.Commentary, error)
}

// MatchWithCommentaries 比赛及其完整解说历史
type MatchWithCommentaries struct {
	database.Match
	Commentaries []database.Commentary `json:"commentaries"`
}

// MatchService 比赛状态引擎：校验事件、推导统计、写入存储与缓存、广播变更
type MatchService struct {
	repo        MatchRepository
	cache       CacheStore
	allocator   *MatchIDAllocator
	broadcaster MessageBroadcaster
	cacheSize   int

	// 每场比赛一把锁，串行化同一场比赛的读-改-写
	matchLocks sync.Map
}

// NewMatchService 创建 MatchService 实例
func NewMatchService(repo MatchRepository, cache CacheStore, broadcaster MessageBroadcaster, cacheSize int) *MatchService {
	if cacheSize <= 0 {
		cacheSize = 10
	}
	return &MatchService{
		repo:        repo,
		cache:       cache,
		allocator:   NewMatchIDAllocator(cache),
		broadcaster: broadcaster,
		cacheSize:   cacheSize,
	}
}

// lockFor 获取指定比赛的互斥锁
func (s *MatchService) lockFor(matchID string) *sync.Mutex {
	lock, _ := s.matchLocks.LoadOrStore(matchID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// StartMatch 分配比赛编号并创建比赛，team1 先击球
func (s *MatchService) StartMatch(team1, team2, venue string, date time.Time) (*database.Match, error) {
	matchID, err := s.allocator.Next()
	if err != nil {
		return nil, err
	}

	match := &database.Match{
		MatchID:     matchID,
		Team1:       team1,
		Team2:       team2,
		Venue:       venue,
		Date:        date,
		Status:      database.StatusActive,
		BattingTeam: database.BattingTeam1,
	}

	saved, err := s.repo.CreateMatch(match)
	if err != nil {
		return nil, err
	}

	s.broadcaster.Broadcast("matchStarted", saved)
	return saved, nil
}

// AddCommentary 摄入一条逐球事件：校验比赛状态、推导统计增量、
// 事务性落库，然后尽力更新缓存并广播
func (s *MatchService) AddCommentary(matchID string, c *database.Commentary) (*database.Commentary, error) {
	lock := s.lockFor(matchID)
	lock.Lock()
	defer lock.Unlock()

	match, err := s.repo.GetMatch(matchID)
	if err != nil {
		return nil, err
	}

	if match.Status == database.StatusCompleted {
		return nil, ErrMatchCompleted
	}

	applyCommentary(match, c)

	c.MatchID = matchID
	saved, err := s.repo.AddCommentary(match, c)
	if err != nil {
		return nil, err
	}

	// 缓存最近解说 (尽力而为，失败不影响已落库的结果)
	s.cacheCommentary(matchID, saved)

	s.broadcaster.Broadcast("commentaryAdded", map[string]interface{}{
		"matchId":    matchID,
		"commentary": saved,
	})

	return saved, nil
}

// applyCommentary 将一条事件的统计增量应用到比赛上
func applyCommentary(match *database.Match, c *database.Commentary) {
	totalRuns := c.Runs + c.ExtraRuns

	if match.BattingTeam == database.BattingTeam1 {
		match.Team1Score += totalRuns
		if c.IsWicket {
			match.Team1Wickets++
		}
	} else {
		match.Team2Score += totalRuns
		if c.IsWicket {
			match.Team2Wickets++
		}
	}

	// (over, ball) 指针按字典序单调推进，迟到的事件只计分不回拨指针
	if c.Over > match.CurrentOver {
		match.CurrentOver = c.Over
		match.CurrentBall = c.Ball
	} else if c.Over == match.CurrentOver && c.Ball > match.CurrentBall {
		match.CurrentBall = c.Ball
	}
}

// cacheCommentary 将解说记录推入最近解说缓存并裁剪长度
func (s *MatchService) cacheCommentary(matchID string, c *database.Commentary) {
	data, err := json.Marshal(c)
	if err != nil {
		logger.Errorf("[MatchService] Failed to marshal commentary for cache: %v", err)
		return
	}

	key := CommentaryCacheKey(matchID)
	if _, err := s.cache.LPush(key, string(data)); err != nil {
		logger.Errorf("[MatchService] Failed to cache commentary: %v", err)
		return
	}
	if err := s.cache.LTrim(key, 0, s.cacheSize-1); err != nil {
		logger.Errorf("[MatchService] Failed to trim commentary cache: %v", err)
	}
}

// GetMatch 查询比赛及其完整解说历史
func (s *MatchService) GetMatch(matchID string) (*MatchWithCommentaries, error) {
	match, err := s.repo.GetMatch(matchID)
	if err != nil {
		return nil, err
	}

	commentaries, err := s.repo.GetCommentaries(matchID)
	if err != nil {
		return nil, err
	}
	if commentaries == nil {
		commentaries = []database.Commentary{}
	}

	return &MatchWithCommentaries{Match: *match, Commentaries: commentaries}, nil
}

// GetAllMatches 查询全部比赛，最新创建的在前
func (s *MatchService) GetAllMatches() ([]database.Match, error) {
	return s.repo.GetAllMatches()
}

// GetRecentCommentaries 从缓存读取最近的解说记录，最新的在前
// 只读缓存，不访问数据库
func (s *MatchService) GetRecentCommentaries(matchID string) ([]database.Commentary, error) {
	cached, err := s.cache.LRange(CommentaryCacheKey(matchID), 0, s.cacheSize-1)
	if err != nil {
		return nil, err
	}

	commentaries := make([]database.Commentary, 0, len(cached))
	for _, entry := range cached {
		var c database.Commentary
		if err := json.Unmarshal([]byte(entry), &c); err != nil {
			logger.Errorf("[MatchService] Skipping corrupt cache entry: %v", err)
			continue
		}
		commentaries = append(commentaries, c)
	}
	return commentaries, nil
}

// PauseMatch 暂停比赛
func (s *MatchService) PauseMatch(matchID string) (*database.Match, error) {
	return s.setStatus(matchID, database.StatusPaused, "matchPaused")
}

// ResumeMatch 恢复比赛
func (s *MatchService) ResumeMatch(matchID string) (*database.Match, error) {
	return s.setStatus(matchID, database.StatusActive, "matchResumed")
}

// CompleteMatch 结束比赛，结束后不再接受解说
func (s *MatchService) CompleteMatch(matchID string) (*database.Match, error) {
	return s.setStatus(matchID, database.StatusCompleted, "matchCompleted")
}

func (s *MatchService) setStatus(matchID, status, event string) (*database.Match, error) {
	lock := s.lockFor(matchID)
	lock.Lock()
	defer lock.Unlock()

	match, err := s.repo.GetMatch(matchID)
	if err != nil {
		return nil, err
	}

	updatedAt, err := s.repo.UpdateMatchStatus(matchID, status)
	if err != nil {
		return nil, err
	}
	match.Status = status
	match.UpdatedAt = updatedAt

	s.broadcaster.Broadcast(event, map[string]interface{}{
		"matchId": matchID,
	})

	return match, nil
}
