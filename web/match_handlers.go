package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"cricket-service/database"
	"cricket-service/services"
)

// startMatchRequest 开始比赛请求体
type startMatchRequest struct {
	Team1 string `json:"team1"`
	Team2 string `json:"team2"`
	Venue string `json:"venue"`
	Date  string `json:"date"`
}

// addCommentaryRequest 追加解说请求体
type addCommentaryRequest struct {
	Over        int    `json:"over"`
	Ball        int    `json:"ball"`
	EventType   string `json:"eventType"`
	Description string `json:"description"`
	Runs        int    `json:"runs"`
	ExtraRuns   int    `json:"extraRuns"`
	IsWicket    bool   `json:"isWicket"`
	IsExtra     bool   `json:"isExtra"`
	ExtraType   string `json:"extraType"`
	Batsman     string `json:"batsman"`
	Bowler      string `json:"bowler"`
}

// validEventTypes 事件类型闭合枚举
var validEventTypes = map[string]bool{
	"run":     true,
	"wicket":  true,
	"wide":    true,
	"no-ball": true,
	"bye":     true,
	"leg-bye": true,
	"dot":     true,
	"four":    true,
	"six":     true,
}

// handleStartMatch 开始一场新比赛
func (s *Server) handleStartMatch(w http.ResponseWriter, r *http.Request) {
	var req startMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Team1 == "" || req.Team2 == "" || req.Venue == "" {
		http.Error(w, "team1, team2 and venue are required", http.StatusBadRequest)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		http.Error(w, "date must be in YYYY-MM-DD format", http.StatusBadRequest)
		return
	}

	match, err := s.matchService.StartMatch(req.Team1, req.Team2, req.Venue, date)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, match)
}

// handleGetAllMatches 获取全部比赛
func (s *Server) handleGetAllMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.matchService.GetAllMatches()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if matches == nil {
		matches = []database.Match{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
	})
}

// handleGetMatch 获取比赛及其完整解说历史
func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["match_id"]

	match, err := s.matchService.GetMatch(matchID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, match)
}

// handleAddCommentary 追加一条逐球解说
func (s *Server) handleAddCommentary(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["match_id"]

	var req addCommentaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Over < 1 || req.Ball < 1 {
		http.Error(w, "over and ball must be positive", http.StatusBadRequest)
		return
	}
	if !validEventTypes[req.EventType] {
		http.Error(w, "invalid eventType", http.StatusBadRequest)
		return
	}
	if req.Description == "" {
		http.Error(w, "description is required", http.StatusBadRequest)
		return
	}
	if req.Runs < 0 || req.ExtraRuns < 0 {
		http.Error(w, "runs and extraRuns must be non-negative", http.StatusBadRequest)
		return
	}

	commentary := &database.Commentary{
		Over:        req.Over,
		Ball:        req.Ball,
		EventType:   req.EventType,
		Description: req.Description,
		Runs:        req.Runs,
		ExtraRuns:   req.ExtraRuns,
		IsWicket:    req.IsWicket,
		IsExtra:     req.IsExtra,
		ExtraType:   req.ExtraType,
		Batsman:     req.Batsman,
		Bowler:      req.Bowler,
	}

	saved, err := s.matchService.AddCommentary(matchID, commentary)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, saved)
}

// handleGetRecentCommentaries 从缓存获取最近的解说
func (s *Server) handleGetRecentCommentaries(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["match_id"]

	commentaries, err := s.matchService.GetRecentCommentaries(matchID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"match_id":     matchID,
		"commentaries": commentaries,
	})
}

// handlePauseMatch 暂停比赛
func (s *Server) handlePauseMatch(w http.ResponseWriter, r *http.Request) {
	s.handleStatusChange(w, r, s.matchService.PauseMatch)
}

// handleResumeMatch 恢复比赛
func (s *Server) handleResumeMatch(w http.ResponseWriter, r *http.Request) {
	s.handleStatusChange(w, r, s.matchService.ResumeMatch)
}

// handleCompleteMatch 结束比赛
func (s *Server) handleCompleteMatch(w http.ResponseWriter, r *http.Request) {
	s.handleStatusChange(w, r, s.matchService.CompleteMatch)
}

func (s *Server) handleStatusChange(w http.ResponseWriter, r *http.Request, change func(string) (*database.Match, error)) {
	matchID := mux.Vars(r)["match_id"]

	match, err := change(matchID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, match)
}

// writeError 将服务层错误映射为HTTP状态码
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrMatchNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrMatchCompleted):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
