package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cricket-service/database"
)

// MatchStore 比赛与解说记录的数据库存储
type MatchStore struct {
	db *sql.DB
}

// NewMatchStore 创建 MatchStore 实例
func NewMatchStore(db *sql.DB) *MatchStore {
	return &MatchStore{db: db}
}

// CreateMatch 保存新比赛，时间戳由数据库分配
func (s *MatchStore) CreateMatch(m *database.Match) (*database.Match, error) {
	query := `
		INSERT INTO matches (match_id, team1, team2, venue, date, status, batting_team)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRow(query, m.MatchID, m.Team1, m.Team2, m.Venue, m.Date, m.Status, m.BattingTeam).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return m, nil
}

// GetMatch 按比赛编号查询比赛
func (s *MatchStore) GetMatch(matchID string) (*database.Match, error) {
	query := `
		SELECT id, match_id, team1, team2, venue, date, status,
		       team1_score, team2_score, team1_wickets, team2_wickets,
		       current_over, current_ball, batting_team, created_at, updated_at
		FROM matches
		WHERE match_id = $1
	`

	var m database.Match
	err := s.db.QueryRow(query, matchID).Scan(
		&m.ID, &m.MatchID, &m.Team1, &m.Team2, &m.Venue, &m.Date, &m.Status,
		&m.Team1Score, &m.Team2Score, &m.Team1Wickets, &m.Team2Wickets,
		&m.CurrentOver, &m.CurrentBall, &m.BattingTeam, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return &m, nil
}

// GetAllMatches 查询全部比赛，按创建时间倒序
func (s *MatchStore) GetAllMatches() ([]database.Match, error) {
	query := `
		SELECT id, match_id, team1, team2, venue, date, status,
		       team1_score, team2_score, team1_wickets, team2_wickets,
		       current_over, current_ball, batting_team, created_at, updated_at
		FROM matches
		ORDER BY created_at DESC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []database.Match
	for rows.Next() {
		var m database.Match
		if err := rows.Scan(
			&m.ID, &m.MatchID, &m.Team1, &m.Team2, &m.Venue, &m.Date, &m.Status,
			&m.Team1Score, &m.Team2Score, &m.Team1Wickets, &m.Team2Wickets,
			&m.CurrentOver, &m.CurrentBall, &m.BattingTeam, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// AddCommentary 在一个事务内更新比赛统计并追加解说记录
func (s *MatchStore) AddCommentary(m *database.Match, c *database.Commentary) (*database.Commentary, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	updateQuery := `
		UPDATE matches
		SET team1_score = $2, team2_score = $3,
		    team1_wickets = $4, team2_wickets = $5,
		    current_over = $6, current_ball = $7,
		    updated_at = CURRENT_TIMESTAMP
		WHERE match_id = $1
	`

	if _, err := tx.Exec(updateQuery, m.MatchID,
		m.Team1Score, m.Team2Score, m.Team1Wickets, m.Team2Wickets,
		m.CurrentOver, m.CurrentBall); err != nil {
		return nil, fmt.Errorf("failed to update match stats: %w", err)
	}

	insertQuery := `
		INSERT INTO commentaries (match_id, over_number, ball_number, event_type, description,
		                          runs, extra_runs, is_wicket, is_extra, extra_type, batsman, bowler)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`

	if err := tx.QueryRow(insertQuery, c.MatchID, c.Over, c.Ball, c.EventType, c.Description,
		c.Runs, c.ExtraRuns, c.IsWicket, c.IsExtra, c.ExtraType, c.Batsman, c.Bowler).
		Scan(&c.ID, &c.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert commentary: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit commentary: %w", err)
	}
	return c, nil
}

// UpdateMatchStatus 更新比赛状态，返回数据库分配的更新时间
func (s *MatchStore) UpdateMatchStatus(matchID, status string) (time.Time, error) {
	query := `
		UPDATE matches
		SET status = $2, updated_at = CURRENT_TIMESTAMP
		WHERE match_id = $1
		RETURNING updated_at
	`

	var updatedAt time.Time
	err := s.db.QueryRow(query, matchID, status).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrMatchNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to update match status: %w", err)
	}
	return updatedAt, nil
}

// GetCommentaries 查询一场比赛的全部解说记录，按 (over, ball, created_at) 升序
func (s *MatchStore) GetCommentaries(matchID string) ([]database.Commentary, error) {
	query := `
		SELECT id, match_id, over_number, ball_number, event_type, description,
		       runs, extra_runs, is_wicket, is_extra, extra_type, batsman, bowler, created_at
		FROM commentaries
		WHERE match_id = $1
		ORDER BY over_number, ball_number, created_at
	`

	rows, err := s.db.Query(query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list commentaries: %w", err)
	}
	defer rows.Close()

	var commentaries []database.Commentary
	for rows.Next() {
		var c database.Commentary
		if err := rows.Scan(
			&c.ID, &c.MatchID, &c.Over, &c.Ball, &c.EventType, &c.Description,
			&c.Runs, &c.ExtraRuns, &c.IsWicket, &c.IsExtra, &c.ExtraType,
			&c.Batsman, &c.Bowler, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan commentary: %w", err)
		}
		commentaries = append(commentaries, c)
	}
	return commentaries, rows.Err()
}
