// Package mq 基于 segmentio/kafka-go 的消息生产者封装
package mq

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/wyfcoding/optionpricing/pkg/logger"
)

// Producer Kafka 消息生产者
type Producer struct {
	writer *kafka.Writer
}

// NewProducer 创建生产者，消息按 key 哈希分区
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
	}
}

// Send 发送单条消息
func (p *Producer) Send(ctx context.Context, key, value []byte) error {
	return p.SendMessages(ctx, kafka.Message{Key: key, Value: value})
}

// SendMessages 批量发送消息
func (p *Producer) SendMessages(ctx context.Context, msgs ...kafka.Message) error {
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		logger.WithContext(ctx).Error("kafka send failed",
			"topic", p.writer.Topic, "count", len(msgs), "error", err)
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

// Close 关闭生产者
func (p *Producer) Close() error {
	return p.writer.Close()
}
