package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"gymclass/internal/logger"
	"gymclass/internal/metrics"

	"github.com/segmentio/kafka-go"
)

const (
	defaultQueueSize = 1024
	maxBatch         = 100
	writeTimeout     = 5 * time.Second
)

var (
	ErrQueueFull       = errors.New("event queue is full")
	ErrPublisherClosed = errors.New("event publisher is closed")
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher hands events to a background loop and returns immediately.
// The loop writes them to the broker in batches and records the outcome of
// each event in metrics.
type KafkaPublisher struct {
	writer  messageWriter
	queue   chan kafka.Message
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("at least one broker is required")
	}
	if topic == "" {
		return nil, errors.New("topic cannot be empty")
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		MaxAttempts:            3,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
		Logger:                 kafka.LoggerFunc(func(string, ...any) {}),
		ErrorLogger:            kafka.LoggerFunc(logger.Errorf),
	}

	return newKafkaPublisher(w, defaultQueueSize), nil
}

func newKafkaPublisher(w messageWriter, queueSize int) *KafkaPublisher {
	p := &KafkaPublisher{
		writer:  w,
		queue:   make(chan kafka.Message, queueSize),
		timeout: writeTimeout,
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish never waits for the broker. It fails only when the event cannot be
// encoded or the queue is full.
func (p *KafkaPublisher) Publish(_ context.Context, e Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(e.Key),
		Value: value,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(e.Type)},
			{Key: "event-id", Value: []byte(e.ID)},
		},
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	select {
	case p.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *KafkaPublisher) run() {
	defer close(p.done)

	for msg := range p.queue {
		batch := []kafka.Message{msg}
	fill:
		for len(batch) < maxBatch {
			select {
			case next, ok := <-p.queue:
				if !ok {
					break fill
				}
				batch = append(batch, next)
			default:
				break fill
			}
		}
		p.write(batch)
	}
}

func (p *KafkaPublisher) write(batch []kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	status := "success"
	if err := p.writer.WriteMessages(ctx, batch...); err != nil {
		status = "failed"
		logger.WithError(err).Warn("failed to publish events", "count", len(batch))
	}
	for _, m := range batch {
		metrics.RecordEvent(eventType(m), status)
	}
}

func eventType(m kafka.Message) string {
	for _, h := range m.Headers {
		if h.Key == "event-type" {
			return string(h.Value)
		}
	}
	return "unknown"
}

// Close stops accepting events, flushes what is queued and closes the writer.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	return p.writer.Close()
}
