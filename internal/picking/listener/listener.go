package listener

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/stocklane/warehouse-service/internal/broker"
	"github.com/stocklane/warehouse-service/internal/picking"
	"github.com/stocklane/warehouse-service/internal/picking/dto"
)

// OrderListener consumes order events and opens one picking wave per order.
type OrderListener struct {
	consumer *broker.KafkaConsumer
	uc       picking.UseCase
	logger   *zap.Logger
}

func NewOrderListener(consumer *broker.KafkaConsumer, uc picking.UseCase, logger *zap.Logger) *OrderListener {
	return &OrderListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *OrderListener) Start(ctx context.Context) {
	l.logger.Info("Starting order Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping order Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type OrderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID    string             `json:"id"`
	Items []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	SKU      string `json:"sku"`
	Quantity int64  `json:"quantity"`
}

func (l *OrderListener) processMessage(ctx context.Context, value []byte) {
	var event OrderCreatedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "OrderCreated" {
		return
	}

	l.logger.Info("Processing OrderCreated event", zap.String("order_id", event.Payload.ID))

	input := &dto.CreateWaveInput{
		OrderID:   event.Payload.ID,
		CreatedBy: "system",
	}
	for _, item := range event.Payload.Items {
		input.Items = append(input.Items, dto.WaveItemInput{
			SKU:      item.SKU,
			Quantity: item.Quantity,
		})
	}

	if _, err := l.uc.CreateWave(ctx, input); err != nil {
		l.logger.Error("Failed to create wave for order",
			zap.String("order_id", event.Payload.ID),
			zap.Error(err),
		)
	}
}
