// Package messaging 定价领域事件的 Kafka 发布实现
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wyfcoding/optionpricing/internal/pricing/domain"
	"github.com/wyfcoding/optionpricing/pkg/logger"
	"github.com/wyfcoding/optionpricing/pkg/mq"
)

// envelope 事件信封，type 字段供消费者路由
type envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// KafkaEventPublisher 通过 Kafka 发布定价事件，以 symbol 作为分区键
type KafkaEventPublisher struct {
	producer *mq.Producer
}

// NewKafkaEventPublisher 创建 Kafka 事件发布器
func NewKafkaEventPublisher(producer *mq.Producer) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer}
}

func (p *KafkaEventPublisher) publish(ctx context.Context, eventType, key string, payload interface{}) error {
	data, err := json.Marshal(envelope{Type: eventType, Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	if err := p.producer.Send(ctx, []byte(key), data); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}
	logger.WithContext(ctx).Debug("event published", "type", eventType, "key", key)
	return nil
}

// PublishOptionPriced 发布期权定价完成事件
func (p *KafkaEventPublisher) PublishOptionPriced(ctx context.Context, event domain.OptionPricedEvent) error {
	return p.publish(ctx, domain.OptionPricedEventType, event.Symbol, event)
}

// PublishGreeksCalculated 发布希腊字母计算完成事件
func (p *KafkaEventPublisher) PublishGreeksCalculated(ctx context.Context, event domain.GreeksCalculatedEvent) error {
	return p.publish(ctx, domain.GreeksCalculatedEventType, event.Symbol, event)
}

// PublishPricingError 发布定价错误事件
func (p *KafkaEventPublisher) PublishPricingError(ctx context.Context, event domain.PricingErrorEvent) error {
	return p.publish(ctx, domain.PricingErrorEventType, event.Symbol, event)
}
