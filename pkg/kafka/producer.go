package kafka

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Message is a broker-agnostic record handed to Publish.
type Message struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// Producer publishes to any number of topics, lazily creating one writer each.
type Producer struct {
	mu      sync.Mutex
	writers map[string]*kafkago.Writer
	cfg     Config
}

// NewProducer creates a Producer. No connection is made until the first Publish.
func NewProducer(cfg Config) *Producer {
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 10 * time.Millisecond
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	return &Producer{
		writers: make(map[string]*kafkago.Writer),
		cfg:     cfg,
	}
}

// Publish writes messages to topic.
func (p *Producer) Publish(ctx context.Context, topic string, messages ...Message) error {
	if len(messages) == 0 {
		return nil
	}

	w := p.writer(topic)
	if err := w.WriteMessages(ctx, toKafkaMessages(messages)...); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", topic, err)
	}
	return nil
}

// Close closes all writers, returning the first error.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing writer for topic %s: %w", topic, err)
		}
	}
	p.writers = make(map[string]*kafkago.Writer)
	return firstErr
}

func (p *Producer) writer(topic string) *kafkago.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w, ok := p.writers[topic]; ok {
		return w
	}

	w := &kafkago.Writer{
		Addr:         kafkago.TCP(p.cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: p.cfg.BatchTimeout,
		WriteTimeout: p.cfg.WriteTimeout,
		RequiredAcks: kafkago.RequireAll,

		AllowAutoTopicCreation: true,
	}
	p.writers[topic] = w
	return w
}

// toKafkaMessages converts messages, emitting headers in key order so
// consumers see a stable layout.
func toKafkaMessages(messages []Message) []kafkago.Message {
	out := make([]kafkago.Message, 0, len(messages))
	for _, msg := range messages {
		km := kafkago.Message{Key: msg.Key, Value: msg.Value}

		keys := make([]string, 0, len(msg.Headers))
		for k := range msg.Headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			km.Headers = append(km.Headers, kafkago.Header{Key: k, Value: []byte(msg.Headers[k])})
		}
		out = append(out, km)
	}
	return out
}
