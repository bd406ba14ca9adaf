package publisher

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the publishers use.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=publisher_mock
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}
