package ingest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "cascade/internal/errors"
	"cascade/internal/models"
	"cascade/internal/services/trade"
	"cascade/internal/validation"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTradeService struct {
	mock.Mock
}

func (m *MockTradeService) Record(ctx context.Context, req trade.TradeRequest) (*trade.Result, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*trade.Result)
	return r, args.Error(1)
}

type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []kafka.Message
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		m := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) committedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

func tradeID(id string) interface{} {
	return mock.MatchedBy(func(req trade.TradeRequest) bool { return req.TradeID == id })
}

func TestParseMessage(t *testing.T) {
	t.Run("single event", func(t *testing.T) {
		reqs, err := ParseMessage(kafka.Message{Value: []byte(`{"tradeId":"t-1","userId":4,"fees":"1.25","volume":100}`)}, false)
		require.NoError(t, err)
		require.Len(t, reqs, 1)
		assert.Equal(t, "t-1", reqs[0].TradeID)
		assert.Equal(t, uint(4), reqs[0].UserID)
		assert.Equal(t, "1.25", reqs[0].Fees.String())
	})

	t.Run("shared key does not collapse trades", func(t *testing.T) {
		first, err := ParseMessage(kafka.Message{Topic: "trade_fees", Offset: 1, Key: []byte("user-7"), Value: []byte(`{"userId":7,"fees":1}`)}, false)
		require.NoError(t, err)
		second, err := ParseMessage(kafka.Message{Topic: "trade_fees", Offset: 2, Key: []byte("user-7"), Value: []byte(`{"userId":7,"fees":2}`)}, false)
		require.NoError(t, err)

		assert.NotEqual(t, "user-7", first[0].TradeID)
		assert.NotEqual(t, first[0].TradeID, second[0].TradeID)
		assert.Equal(t, EventID("trade_fees", 0, 1, 0), first[0].TradeID)
	})

	t.Run("key as trade id when enabled", func(t *testing.T) {
		reqs, err := ParseMessage(kafka.Message{Key: []byte("k-9"), Value: []byte(`{"userId":4,"fees":1}`)}, true)
		require.NoError(t, err)
		assert.Equal(t, "k-9", reqs[0].TradeID)

		long := []byte(strings.Repeat("k", 65))
		reqs, err = ParseMessage(kafka.Message{Topic: "t", Offset: 3, Key: long, Value: []byte(`{"userId":4,"fees":1}`)}, true)
		require.NoError(t, err)
		assert.Equal(t, EventID("t", 0, 3, 0), reqs[0].TradeID)
	})

	t.Run("batch gets positional ids", func(t *testing.T) {
		reqs, err := ParseMessage(kafka.Message{
			Topic: "trade_fees", Partition: 2, Offset: 17, Key: []byte("user-1"),
			Value: []byte(`[{"userId":1,"fees":1},{"tradeId":"keep","userId":2,"fees":2}]`),
		}, true)
		require.NoError(t, err)
		require.Len(t, reqs, 2)
		assert.Equal(t, EventID("trade_fees", 2, 17, 0), reqs[0].TradeID)
		assert.Equal(t, "keep", reqs[1].TradeID)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseMessage(kafka.Message{Value: []byte(`not json`)}, false)
		assert.Error(t, err)
	})
}

func TestEventIDFitsTradeID(t *testing.T) {
	topic := strings.Repeat("exchange.fees.", 5)
	id := EventID(topic, 11, 12345, 3)

	assert.Len(t, id, 36)
	assert.LessOrEqual(t, len(id), maxTradeIDLength)
	assert.Equal(t, id, EventID(topic, 11, 12345, 3))
	assert.NotEqual(t, id, EventID(topic, 11, 12345, 4))
	assert.NotEqual(t, id, EventID(topic, 11, 12346, 3))

	req := trade.TradeRequest{TradeID: id, UserID: 1}
	assert.NoError(t, validation.Struct(req))
}

func TestIngesterRecordsAndCommits(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{
		{Offset: 1, Value: []byte(`{"tradeId":"t-1","userId":1,"fees":10}`)},
		{Offset: 2, Value: []byte(`garbage`)},
		{Offset: 3, Value: []byte(`{"tradeId":"t-bad","userId":1,"fees":-1}`)},
		{Offset: 4, Value: []byte(`{"tradeId":"t-2","userId":2,"fees":5}`)},
	}}

	svc := new(MockTradeService)
	ok := &trade.Result{Trade: &models.Trade{}}
	svc.On("Record", mock.Anything, tradeID("t-1")).Return(ok, nil)
	svc.On("Record", mock.Anything, tradeID("t-bad")).Return(nil, apperrors.ErrInvalidTrade)
	svc.On("Record", mock.Anything, tradeID("t-2")).Return(nil, errors.New("connection reset")).Once()
	svc.On("Record", mock.Anything, tradeID("t-2")).Return(ok, nil).Once()

	ingester := NewTradeIngester(reader, svc, Config{BatchSize: 10, BatchTimeout: 50 * time.Millisecond, RetryDelay: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ingester.Start(ctx) }()

	assert.Eventually(t, func() bool { return reader.committedCount() == 4 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ingester did not stop")
	}

	svc.AssertNumberOfCalls(t, "Record", 4)
	svc.AssertExpectations(t)
}
