package web

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"cricket-service/config"
	"cricket-service/logger"
	"cricket-service/services"
)

type Server struct {
	config       *config.Config
	db           *sql.DB
	wsHub        *Hub
	matchService *services.MatchService
	httpServer   *http.Server
	upgrader     websocket.Upgrader
}

func NewServer(cfg *config.Config, db *sql.DB, hub *Hub, matchService *services.MatchService) *Server {
	return &Server{
		config:       cfg,
		db:           db,
		wsHub:        hub,
		matchService: matchService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有来源(生产环境需要限制)
			},
		},
	}
}

func (s *Server) Start() error {
	router := mux.NewRouter()

	// API路由
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/stats", s.handleGetStats).Methods("GET")
	api.HandleFunc("/matches", s.handleStartMatch).Methods("POST")
	api.HandleFunc("/matches", s.handleGetAllMatches).Methods("GET")
	api.HandleFunc("/matches/{match_id}", s.handleGetMatch).Methods("GET")
	api.HandleFunc("/matches/{match_id}/commentary", s.handleAddCommentary).Methods("POST")
	api.HandleFunc("/matches/{match_id}/commentary/recent", s.handleGetRecentCommentaries).Methods("GET")
	api.HandleFunc("/matches/{match_id}/pause", s.handlePauseMatch).Methods("POST")
	api.HandleFunc("/matches/{match_id}/resume", s.handleResumeMatch).Methods("POST")
	api.HandleFunc("/matches/{match_id}/complete", s.handleCompleteMatch).Methods("POST")

	// WebSocket路由
	router.HandleFunc("/ws", s.handleWebSocket)

	// CORS配置
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown error: %v", err)
	}
}

// handleHealth 健康检查
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

// handleGetStats 获取统计信息
func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	var stats struct {
		TotalMatches      int `json:"total_matches"`
		ActiveMatches     int `json:"active_matches"`
		TotalCommentaries int `json:"total_commentaries"`
	}

	s.db.QueryRow("SELECT COUNT(*) FROM matches").Scan(&stats.TotalMatches)
	s.db.QueryRow("SELECT COUNT(*) FROM matches WHERE status = 'active'").Scan(&stats.ActiveMatches)
	s.db.QueryRow("SELECT COUNT(*) FROM commentaries").Scan(&stats.TotalCommentaries)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// handleWebSocket WebSocket连接处理
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Errorf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		hub:      s.wsHub,
		conn:     conn,
		send:     make(chan []byte, 256),
		events:   make(map[string]bool),
		matchIDs: make(map[string]bool),
	}

	client.hub.register <- client

	// 发送欢迎消息
	welcomeMsg := &WSMessage{
		Event: "connected",
		Data: map[string]interface{}{
			"message": "Connected to cricket live feed",
			"time":    time.Now().Unix(),
		},
	}
	welcomeData, _ := json.Marshal(welcomeMsg)
	client.send <- welcomeData

	go client.writePump()
	go client.readPump()
}
