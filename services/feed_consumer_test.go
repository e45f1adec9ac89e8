package services

import (
	"fmt"
	"testing"

	"cricket-service/config"
)

func newTestConsumer(t *testing.T) (*FeedConsumer, *MatchService, *fakeRepo) {
	t.Helper()

	service, repo, _ := newTestService()
	cfg := &config.Config{AMQPQueue: "cricket.commentary"}
	return NewFeedConsumer(cfg, service), service, repo
}

func TestHandleMessageIngestsCommentary(t *testing.T) {
	consumer, service, repo := newTestConsumer(t)
	match := startTestMatch(t, service)

	body := fmt.Sprintf(`{
		"match_id": "%s",
		"commentary": {
			"over": 1, "ball": 1, "eventType": "four",
			"description": "Cut away for four", "runs": 4
		}
	}`, match.MatchID)

	consumer.handleMessage([]byte(body))

	updated, _ := repo.GetMatch(match.MatchID)
	if updated.Team1Score != 4 {
		t.Errorf("Expected team1Score 4 after feed message, got %d", updated.Team1Score)
	}
	if updated.CurrentOver != 1 || updated.CurrentBall != 1 {
		t.Errorf("Expected over/ball 1/1, got %d/%d", updated.CurrentOver, updated.CurrentBall)
	}
}

func TestHandleMessageDropsMalformed(t *testing.T) {
	consumer, service, repo := newTestConsumer(t)
	match := startTestMatch(t, service)

	consumer.handleMessage([]byte(`not json`))
	consumer.handleMessage([]byte(`{"commentary": {"over": 1, "ball": 1}}`))

	updated, _ := repo.GetMatch(match.MatchID)
	if updated.Team1Score != 0 {
		t.Errorf("Expected no state change, got team1Score %d", updated.Team1Score)
	}
}

func TestHandleMessageDropsUnknownMatch(t *testing.T) {
	consumer, _, repo := newTestConsumer(t)

	// 不存在的比赛：记录日志后丢弃，不panic
	consumer.handleMessage([]byte(`{
		"match_id": "9999",
		"commentary": {"over": 1, "ball": 1, "eventType": "dot", "description": "Dot"}
	}`))

	if len(repo.commentaries["9999"]) != 0 {
		t.Error("Expected no ledger entry for unknown match")
	}
}

func TestHandleMessageDropsCompletedMatch(t *testing.T) {
	consumer, service, repo := newTestConsumer(t)
	match := startTestMatch(t, service)
	service.CompleteMatch(match.MatchID)

	consumer.handleMessage([]byte(fmt.Sprintf(`{
		"match_id": "%s",
		"commentary": {"over": 1, "ball": 1, "eventType": "six", "description": "Six", "runs": 6}
	}`, match.MatchID)))

	updated, _ := repo.GetMatch(match.MatchID)
	if updated.Team1Score != 0 {
		t.Errorf("Expected no state change on completed match, got team1Score %d", updated.Team1Score)
	}
}
