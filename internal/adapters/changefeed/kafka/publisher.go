// Package kafka publica el change feed a Kafka con un writer por tópico creado on demand.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"pet-medical-records/internal/ports/changefeed"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	brokers []string
	topic   string

	mu      sync.Mutex
	writers map[string]messageWriter

	// newWriter se reemplaza en tests.
	newWriter func(brokers []string, topic string) messageWriter
}

func New(brokers []string, topic string) (*Publisher, error) {
	clean := make([]string, 0, len(brokers))
	for _, b := range brokers {
		if b = strings.TrimSpace(b); b != "" {
			clean = append(clean, b)
		}
	}
	if len(clean) == 0 {
		return nil, errors.New("kafka changefeed: no brokers")
	}
	if strings.TrimSpace(topic) == "" {
		return nil, errors.New("kafka changefeed: empty topic")
	}
	return &Publisher{
		brokers:   clean,
		topic:     topic,
		writers:   make(map[string]messageWriter),
		newWriter: defaultWriter,
	}, nil
}

func defaultWriter(brokers []string, topic string) messageWriter {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}
}

func (p *Publisher) Name() string { return "kafka" }

func (p *Publisher) Publish(ctx context.Context, m changefeed.Message) error {
	b, err := json.Marshal(m.Body)
	if err != nil {
		return fmt.Errorf("kafka changefeed: marshal: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(m.Key),
		Value: b,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(m.Type)},
			{Key: "content-type", Value: []byte("application/json")},
		},
	}
	return p.writerForTopic(p.topic).WriteMessages(ctx, msg)
}

func (p *Publisher) writerForTopic(topic string) messageWriter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w, ok := p.writers[topic]; ok {
		return w
	}
	w := p.newWriter(p.brokers, topic)
	p.writers[topic] = w
	return w
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.writers, topic)
	}
	return firstErr
}
