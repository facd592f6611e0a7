package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-stocktake-service/internal/inventory"
	"github.com/fekuna/omnipos-stocktake-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-stocktake-service/internal/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const StockReceived = "StockReceived"

// MessageReader is satisfied by *broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type InventoryListener struct {
	consumer MessageReader
	uc       inventory.UseCase
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewInventoryListener(consumer MessageReader, uc inventory.UseCase, logger logger.ZapLogger) *InventoryListener {
	return &InventoryListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
		backoff:  time.Second,
	}
}

func (l *InventoryListener) Start(ctx context.Context) {
	l.logger.Info("Starting stock Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping stock Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(l.backoff)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type StockReceivedEvent struct {
	EventID   string               `json:"event_id"`
	EventType string               `json:"event_type"`
	Payload   StockReceivedPayload `json:"payload"`
	Timestamp time.Time            `json:"timestamp"`
}

type StockReceivedPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (l *InventoryListener) processMessage(ctx context.Context, value []byte) {
	var event StockReceivedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != StockReceived {
		return
	}

	l.logger.Info("Processing StockReceived event",
		zap.String("event_id", event.EventID),
		zap.String("product_id", event.Payload.ProductID),
	)

	_, err := l.uc.AddStock(ctx, &dto.AddStockInput{
		ProductID: event.Payload.ProductID,
		Quantity:  event.Payload.Quantity,
	})
	if err != nil {
		l.logger.Error("Failed to add stock from event",
			zap.String("event_id", event.EventID),
			zap.String("product_id", event.Payload.ProductID),
			zap.Error(err),
		)
	}
}
