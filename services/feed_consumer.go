package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/streadway/amqp"

	"cricket-service/config"
	"cricket-service/database"
	"cricket-service/logger"
)

// FeedMessage 解说消息队列中的消息体
type FeedMessage struct {
	MatchID    string              `json:"match_id"`
	Commentary database.Commentary `json:"commentary"`
}

// ReconnectConfig 重连配置
type ReconnectConfig struct {
	MaxRetries    int           // 最大重试次数 (0 = 无限重试)
	InitialDelay  time.Duration // 初始延迟
	MaxDelay      time.Duration // 最大延迟
	BackoffFactor float64       // 退避因子
}

// DefaultReconnectConfig 默认重连配置
func DefaultReconnectConfig() *ReconnectConfig {
	return &ReconnectConfig{
		MaxRetries:    0,
		InitialDelay:  1 * time.Second,
		MaxDelay:      60 * time.Second,
		BackoffFactor: 2.0,
	}
}

// FeedConsumer 从 AMQP 队列消费逐球解说事件并送入比赛状态引擎
type FeedConsumer struct {
	config  *config.Config
	service *MatchService
	conn    *amqp.Connection
	channel *amqp.Channel
	done    chan bool
}

// NewFeedConsumer 创建 FeedConsumer 实例
func NewFeedConsumer(cfg *config.Config, service *MatchService) *FeedConsumer {
	return &FeedConsumer{
		config:  cfg,
		service: service,
		done:    make(chan bool),
	}
}

// Start 连接 AMQP 并开始消费，支持自动重连
func (c *FeedConsumer) Start() error {
	logger.Println("[Feed] Starting commentary feed consumer with auto-reconnect enabled")

	msgs, err := c.connectAndConsume()
	if err != nil {
		return fmt.Errorf("initial connection failed: %w", err)
	}

	go c.handleDeliveries(msgs)
	go c.monitorConnection(DefaultReconnectConfig())

	return nil
}

// Stop 停止消费者
func (c *FeedConsumer) Stop() {
	close(c.done)

	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}

// connectAndConsume 连接并开始消费，返回消息通道
func (c *FeedConsumer) connectAndConsume() (<-chan amqp.Delivery, error) {
	logger.Printf("[Feed] Connecting to AMQP at %s...", c.config.AMQPURL)

	conn, err := amqp.Dial(c.config.AMQPURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP: %w", err)
	}
	c.conn = conn

	channel, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}
	c.channel = channel

	if err := channel.Qos(100, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	queue, err := channel.QueueDeclare(
		c.config.AMQPQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	msgs, err := channel.Consume(
		queue.Name,
		"",    // consumer
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to consume: %w", err)
	}

	logger.Printf("[Feed] ✅ Consuming from queue %s", queue.Name)
	return msgs, nil
}

// handleDeliveries 处理队列消息直到通道关闭
func (c *FeedConsumer) handleDeliveries(msgs <-chan amqp.Delivery) {
	for delivery := range msgs {
		c.handleMessage(delivery.Body)
	}
}

// handleMessage 解析并摄入一条队列消息
// 无效消息记录日志后丢弃，避免毒消息卡住队列
func (c *FeedConsumer) handleMessage(body []byte) {
	var msg FeedMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		logger.Errorf("[Feed] Dropping malformed message: %v", err)
		return
	}

	if msg.MatchID == "" {
		logger.Errorln("[Feed] Dropping message without match_id")
		return
	}

	commentary := msg.Commentary
	if _, err := c.service.AddCommentary(msg.MatchID, &commentary); err != nil {
		if errors.Is(err, ErrMatchNotFound) || errors.Is(err, ErrMatchCompleted) {
			logger.Printf("[Feed] Dropping message for match %s: %v", msg.MatchID, err)
			return
		}
		logger.Errorf("[Feed] Failed to ingest commentary for match %s: %v", msg.MatchID, err)
		return
	}

	logger.Printf("[Feed] Ingested commentary for match %s (over %d, ball %d)",
		msg.MatchID, commentary.Over, commentary.Ball)
}

// monitorConnection 监控连接状态并自动重连
func (c *FeedConsumer) monitorConnection(cfg *ReconnectConfig) {
	retryCount := 0
	currentDelay := cfg.InitialDelay

	for {
		closeErr := <-c.conn.NotifyClose(make(chan *amqp.Error))

		if closeErr == nil {
			// 正常关闭
			logger.Println("[Feed] Connection closed normally")
			return
		}

		select {
		case <-c.done:
			return
		default:
		}

		logger.Errorf("[Feed] ⚠️  Connection lost: %v", closeErr)

		// 重试直到连接成功
		for {
			if cfg.MaxRetries > 0 && retryCount >= cfg.MaxRetries {
				logger.Errorf("[Feed] ❌ Max retries (%d) reached, giving up", cfg.MaxRetries)
				return
			}

			retryCount++
			logger.Printf("[Feed] 🔄 Reconnecting in %v (attempt %d)...", currentDelay, retryCount)
			time.Sleep(currentDelay)

			msgs, err := c.reconnect()
			if err != nil {
				logger.Errorf("[Feed] ❌ Reconnect failed: %v", err)

				currentDelay = time.Duration(float64(currentDelay) * cfg.BackoffFactor)
				if currentDelay > cfg.MaxDelay {
					currentDelay = cfg.MaxDelay
				}
				continue
			}

			logger.Println("[Feed] ✅ Reconnected successfully")
			go c.handleDeliveries(msgs)

			retryCount = 0
			currentDelay = cfg.InitialDelay
			break
		}
	}
}

// reconnect 清理旧连接并重新连接
func (c *FeedConsumer) reconnect() (<-chan amqp.Delivery, error) {
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	return c.connectAndConsume()
}
