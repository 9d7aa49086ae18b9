// Package kafka publishes executed trades to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	ledger "papertrade_backend/internal/feature/ledger/domain/entity"
	"papertrade_backend/internal/feature/ledger/usecase"
)

// MessageWriter abstracts *kafka.Writer for tests.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// TradePublisher は約定イベントをJSONでトピックへ送信します。
// キーはユーザーIDで、同一ユーザーの約定は同じパーティションに順序通り入ります。
type TradePublisher struct {
	w MessageWriter
}

var _ usecase.TradeEventPublisher = (*TradePublisher)(nil)

// NewTradePublisher wraps an existing writer.
func NewTradePublisher(w MessageWriter) *TradePublisher {
	return &TradePublisher{w: w}
}

// NewWriter は非同期の kafka.Writer を生成します。
// 送信失敗は約定を失敗させず、Completion でログに残します。
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		Async:                  true,
		AllowAutoTopicCreation: true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				slog.Warn("trade events not delivered", "topic", topic, "count", len(messages), "error", err)
			}
		},
	}
}

// PublishTrade encodes ev and hands it to the writer.
func (p *TradePublisher) PublishTrade(ctx context.Context, ev ledger.TradeEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode trade event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(ev.UserID),
		Value: b,
		Time:  ev.ExecutedAt,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte("trade.executed")},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish trade %s: %w", ev.ID, err)
	}
	return nil
}

// Close flushes pending messages.
func (p *TradePublisher) Close() error {
	return p.w.Close()
}
