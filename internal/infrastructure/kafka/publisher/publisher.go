// Package publisher emits relayer events to Kafka: match instructions for the
// settlement collaborator and UserOrder audit rows.
package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	"github.com/muhammadchandra19/relayer/pkg/config"
	"github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/muhammadchandra19/relayer/pkg/logger"
)

// NewWriter creates a writer for topic. Messages with the same key land on
// the same partition.
func NewWriter(cfg config.Kafka, topic string) *kafka.Writer {
	acks := kafka.RequireOne
	if cfg.RequiredAckAll {
		acks = kafka.RequireAll
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           acks,
		BatchTimeout:           time.Duration(cfg.BatchTimeoutMS) * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}

// MatchPublisher hands MatchRequests to settlement, keyed by pair.
type MatchPublisher struct {
	writer MessageWriter
	logger logger.Interface
}

var _ orderv1.MatchPublisher = (*MatchPublisher)(nil)

// NewMatchPublisher creates a new MatchPublisher.
func NewMatchPublisher(writer MessageWriter, log logger.Interface) *MatchPublisher {
	return &MatchPublisher{
		writer: writer,
		logger: log,
	}
}

// PublishMatch writes match to the match topic.
func (p *MatchPublisher) PublishMatch(ctx context.Context, match orderv1.MatchRequest) error {
	value, err := json.Marshal(match)
	if err != nil {
		return errors.TracerFromError(err)
	}

	msg := kafka.Message{
		Key:   []byte(match.Pair),
		Value: value,
		Headers: []kafka.Header{
			{Key: "match-id", Value: []byte(match.ID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, err, logger.Pair(match.Pair), logger.NewField("matchId", match.ID))
		return errors.Transient("kafka publish match", err)
	}
	return nil
}

// Close flushes pending messages.
func (p *MatchPublisher) Close() error {
	return p.writer.Close()
}

// UserOrderPublisher emits audit rows, keyed by account so one account's
// history stays ordered.
type UserOrderPublisher struct {
	writer MessageWriter
	logger logger.Interface
}

var _ orderv1.UserOrderPublisher = (*UserOrderPublisher)(nil)

// NewUserOrderPublisher creates a new UserOrderPublisher.
func NewUserOrderPublisher(writer MessageWriter, log logger.Interface) *UserOrderPublisher {
	return &UserOrderPublisher{
		writer: writer,
		logger: log,
	}
}

// PublishUserOrder writes order to the user order topic.
func (p *UserOrderPublisher) PublishUserOrder(ctx context.Context, order orderv1.UserOrder) error {
	value, err := json.Marshal(order)
	if err != nil {
		return errors.TracerFromError(err)
	}

	msg := kafka.Message{
		Key:   []byte(order.Account),
		Value: value,
		Headers: []kafka.Header{
			{Key: "pair", Value: []byte(order.Pair)},
			{Key: "status", Value: []byte(order.Status)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Transient("kafka publish user order", err)
	}
	return nil
}

// Close flushes pending messages.
func (p *UserOrderPublisher) Close() error {
	return p.writer.Close()
}
