package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ledger "papertrade_backend/internal/feature/ledger/domain/entity"
)

// mockWriter はMessageWriterのモック実装です。
type mockWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, msgs...)
	return nil
}

func (m *mockWriter) Close() error {
	m.closed = true
	return nil
}

// TestTradePublisher_PublishTrade は約定イベントがユーザーIDをキーとしたJSONメッセージになることを検証します。
func TestTradePublisher_PublishTrade(t *testing.T) {
	t.Parallel()

	executed := time.Date(2026, 3, 2, 15, 4, 5, 0, time.UTC)
	ev := ledger.TradeEvent{
		ID:         "ev-1",
		UserID:     "123456",
		Symbol:     "AAPL",
		Side:       ledger.SideBuy,
		Quantity:   3,
		Price:      150.5,
		Amount:     451.5,
		Balance:    99548.5,
		ExecutedAt: executed,
	}
	w := &mockWriter{}
	p := NewTradePublisher(w)

	require.NoError(t, p.PublishTrade(context.Background(), ev))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "123456", string(msg.Key))
	assert.Equal(t, executed, msg.Time)
	assert.Equal(t, []kafka.Header{{Key: "event", Value: []byte("trade.executed")}}, msg.Headers)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "AAPL", decoded["symbol"])
	assert.Equal(t, "buy", decoded["side"])
	assert.Equal(t, 99548.5, decoded["balance_after"])
}

// TestTradePublisher_WriteError は送信失敗がイベントIDを含めて返されることを検証します。
func TestTradePublisher_WriteError(t *testing.T) {
	t.Parallel()

	w := &mockWriter{err: errors.New("broker down")}
	p := NewTradePublisher(w)

	err := p.PublishTrade(context.Background(), ledger.TradeEvent{ID: "ev-9", UserID: "1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, w.err)
	assert.Contains(t, err.Error(), "ev-9")
}

func TestTradePublisher_Close(t *testing.T) {
	t.Parallel()

	w := &mockWriter{}
	require.NoError(t, NewTradePublisher(w).Close())
	assert.True(t, w.closed)
}

// TestNewWriter は非同期・ハッシュ分散の設定でWriterが生成されることを検証します。
func TestNewWriter(t *testing.T) {
	t.Parallel()

	w := NewWriter([]string{"localhost:9092"}, "papertrade.trades")
	assert.Equal(t, "papertrade.trades", w.Topic)
	assert.True(t, w.Async)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
	assert.Equal(t, "localhost:9092", w.Addr.String())
}
