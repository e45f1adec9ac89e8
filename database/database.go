package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Connect 连接到数据库
func Connect(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 测试连接
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// 设置连接池
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

// Migrate 运行数据库迁移
func Migrate(db *sql.DB) error {
	migrations := []string{
		// 比赛表
		`CREATE TABLE IF NOT EXISTS matches (
			id BIGSERIAL PRIMARY KEY,
			match_id VARCHAR(20) UNIQUE NOT NULL,
			team1 VARCHAR(100) NOT NULL,
			team2 VARCHAR(100) NOT NULL,
			venue VARCHAR(200) NOT NULL,
			date TIMESTAMP NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			team1_score INTEGER NOT NULL DEFAULT 0,
			team2_score INTEGER NOT NULL DEFAULT 0,
			team1_wickets INTEGER NOT NULL DEFAULT 0,
			team2_wickets INTEGER NOT NULL DEFAULT 0,
			current_over INTEGER NOT NULL DEFAULT 0,
			current_ball INTEGER NOT NULL DEFAULT 0,
			batting_team VARCHAR(10) NOT NULL DEFAULT 'team1',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_match_id ON matches(match_id)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_created_at ON matches(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_status ON matches(status)`,

		// 解说记录表 (只追加，不更新不删除)
		`CREATE TABLE IF NOT EXISTS commentaries (
			id BIGSERIAL PRIMARY KEY,
			match_id VARCHAR(20) NOT NULL,
			over_number INTEGER NOT NULL,
			ball_number INTEGER NOT NULL,
			event_type VARCHAR(20) NOT NULL,
			description TEXT NOT NULL,
			runs INTEGER NOT NULL DEFAULT 0,
			extra_runs INTEGER NOT NULL DEFAULT 0,
			is_wicket BOOLEAN NOT NULL DEFAULT FALSE,
			is_extra BOOLEAN NOT NULL DEFAULT FALSE,
			extra_type VARCHAR(20) NOT NULL DEFAULT '',
			batsman VARCHAR(100) NOT NULL DEFAULT '',
			bowler VARCHAR(100) NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_commentaries_match_id ON commentaries(match_id)`,
		`CREATE INDEX IF NOT EXISTS idx_commentaries_order ON commentaries(match_id, over_number, ball_number, created_at)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
