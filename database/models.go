package database

import (
	"time"
)

// 比赛状态
const (
	StatusActive    = "active"
	StatusPaused    = "paused"
	StatusCompleted = "completed"
)

// 击球方
const (
	BattingTeam1 = "team1"
	BattingTeam2 = "team2"
)

// Match 一场比赛及其累计统计
type Match struct {
	ID           int64     `db:"id" json:"-"`
	MatchID      string    `db:"match_id" json:"matchId"`
	Team1        string    `db:"team1" json:"team1"`
	Team2        string    `db:"team2" json:"team2"`
	Venue        string    `db:"venue" json:"venue"`
	Date         time.Time `db:"date" json:"date"`
	Status       string    `db:"status" json:"status"`
	Team1Score   int       `db:"team1_score" json:"team1Score"`
	Team2Score   int       `db:"team2_score" json:"team2Score"`
	Team1Wickets int       `db:"team1_wickets" json:"team1Wickets"`
	Team2Wickets int       `db:"team2_wickets" json:"team2Wickets"`
	CurrentOver  int       `db:"current_over" json:"currentOver"`
	CurrentBall  int       `db:"current_ball" json:"currentBall"`
	BattingTeam  string    `db:"batting_team" json:"battingTeam"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Commentary 一条逐球解说记录，追加后不可变
type Commentary struct {
	ID          int64     `db:"id" json:"-"`
	MatchID     string    `db:"match_id" json:"matchId"`
	Over        int       `db:"over_number" json:"over"`
	Ball        int       `db:"ball_number" json:"ball"`
	EventType   string    `db:"event_type" json:"eventType"`
	Description string    `db:"description" json:"description"`
	Runs        int       `db:"runs" json:"runs"`
	ExtraRuns   int       `db:"extra_runs" json:"extraRuns"`
	IsWicket    bool      `db:"is_wicket" json:"isWicket"`
	IsExtra     bool      `db:"is_extra" json:"isExtra"`
	ExtraType   string    `db:"extra_type" json:"extraType"`
	Batsman     string    `db:"batsman" json:"batsman"`
	Bowler      string    `db:"bowler" json:"bowler"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
