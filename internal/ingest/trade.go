// Package ingest consumes fee events from Kafka and records them through
// the trade service.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "cascade/internal/errors"
	"cascade/internal/logger"
	"cascade/internal/services/trade"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// maxTradeIDLength matches the trade ID limit enforced by the trade service.
const maxTradeIDLength = 64

var eventNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:cascade:trade-event"))

// MessageReader is the part of *kafka.Reader the ingester uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Config controls batching. KeyIsTradeID makes the message key the trade ID
// of single-event messages that carry none; only enable it for producers
// that key by trade.
type Config struct {
	BatchSize    int
	BatchTimeout time.Duration
	RetryDelay   time.Duration
	KeyIsTradeID bool
}

// DefaultConfig is used for zero fields of Config.
var DefaultConfig = Config{
	BatchSize:    100,
	BatchTimeout: 3 * time.Second,
	RetryDelay:   2 * time.Second,
}

// NewReader opens a consumer group reader with manual commits.
func NewReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: 0,    // offsets are committed after each flush
	})
}

// TradeIngester records fee events in batches and commits their offsets
// once every event of the batch is recorded or rejected.
type TradeIngester struct {
	reader MessageReader
	trades trade.Service
	log    *logrus.Entry
	cfg    Config
}

func NewTradeIngester(reader MessageReader, trades trade.Service, cfg Config) *TradeIngester {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig.BatchSize
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = DefaultConfig.BatchTimeout
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultConfig.RetryDelay
	}
	return &TradeIngester{
		reader: reader,
		trades: trades,
		log:    logger.WithFields(logrus.Fields{"component": "trade-ingester"}),
		cfg:    cfg,
	}
}

// Start runs the ingestion loop until ctx is cancelled.
func (ti *TradeIngester) Start(ctx context.Context) error {
	ti.log.Info("starting trade ingester")

	batch := make([]trade.TradeRequest, 0, ti.cfg.BatchSize)
	msgs := make([]kafka.Message, 0, ti.cfg.BatchSize)

	ticker := time.NewTicker(ti.cfg.BatchTimeout)
	defer ticker.Stop()

	flush := func(ctx context.Context) error {
		if len(msgs) == 0 {
			return nil
		}
		for _, req := range batch {
			if err := ti.record(ctx, req); err != nil {
				return err
			}
		}
		if err := ti.reader.CommitMessages(ctx, msgs...); err != nil {
			ti.log.Warnf("failed to commit offsets: %v", err)
		}

		batch = batch[:0]
		msgs = msgs[:0]
		ticker.Reset(ti.cfg.BatchTimeout)
		return nil
	}

	// drain gives the pending batch a last chance after shutdown starts
	drain := func() error {
		drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ti.cfg.BatchTimeout)
		defer cancel()
		if err := flush(drainCtx); err != nil {
			ti.log.Warnf("pending batch left uncommitted: %v", err)
		}
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return drain()

		case <-ticker.C:
			if err := flush(ctx); err != nil {
				return drain()
			}

		default:
			fetchCtx, cancel := context.WithTimeout(ctx, ti.cfg.BatchTimeout)
			m, err := ti.reader.FetchMessage(fetchCtx)
			cancel()

			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					continue
				}
				if errors.Is(err, context.Canceled) {
					return drain()
				}
				ti.log.Errorf("kafka fetch error: %v", err)
				select {
				case <-ctx.Done():
					return drain()
				case <-time.After(time.Second):
				}
				continue
			}

			reqs, err := ParseMessage(m, ti.cfg.KeyIsTradeID)
			if err != nil {
				ti.log.WithField("offset", m.Offset).Warnf("dropping unreadable message: %v", err)
			}
			batch = append(batch, reqs...)
			msgs = append(msgs, m)

			if len(msgs) >= ti.cfg.BatchSize {
				if err := flush(ctx); err != nil {
					return drain()
				}
			}
		}
	}
}

// record retries transient failures until ctx ends. Domain errors mean the
// event can never be recorded, so it is logged and skipped.
func (ti *TradeIngester) record(ctx context.Context, req trade.TradeRequest) error {
	for {
		res, err := ti.trades.Record(ctx, req)
		if err == nil {
			if res.Duplicate {
				ti.log.Debugf("trade %s already recorded", req.TradeID)
			}
			return nil
		}

		var domainErr *apperrors.DomainError
		if errors.As(err, &domainErr) {
			ti.log.WithFields(logrus.Fields{"trade": req.TradeID, "code": domainErr.Code}).
				Warnf("rejected trade event: %v", err)
			return nil
		}

		ti.log.WithField("trade", req.TradeID).Errorf("recording trade failed, retrying: %v", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(ti.cfg.RetryDelay):
		}
	}
}

// ParseMessage decodes one trade event or a JSON array of them. Events
// without a tradeId get EventID of their position, so redelivered messages
// stay idempotent. With keyIsTradeID a single event takes the message key
// instead, when it fits.
func ParseMessage(m kafka.Message, keyIsTradeID bool) ([]trade.TradeRequest, error) {
	var reqs []trade.TradeRequest

	var single trade.TradeRequest
	if err := json.Unmarshal(m.Value, &single); err == nil {
		reqs = []trade.TradeRequest{single}
	} else if err := json.Unmarshal(m.Value, &reqs); err != nil {
		return nil, fmt.Errorf("unknown message format: %w", err)
	}

	for i := range reqs {
		if reqs[i].TradeID != "" {
			continue
		}
		if keyIsTradeID && len(reqs) == 1 && len(m.Key) > 0 && len(m.Key) <= maxTradeIDLength {
			reqs[i].TradeID = string(m.Key)
			continue
		}
		reqs[i].TradeID = EventID(m.Topic, m.Partition, m.Offset, i)
	}
	return reqs, nil
}

// EventID is the stable name-based uuid of the index-th event in the message
// at topic/partition/offset. It is always 36 characters long.
func EventID(topic string, partition int, offset int64, index int) string {
	name := fmt.Sprintf("%s/%d/%d/%d", topic, partition, offset, index)
	return uuid.NewSHA1(eventNamespace, []byte(name)).String()
}
