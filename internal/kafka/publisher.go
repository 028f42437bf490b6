package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/prairiegroup/storefront/internal/config"
	"github.com/prairiegroup/storefront/internal/models"
	"github.com/prairiegroup/storefront/pkg/logger"
	log "github.com/prairiegroup/storefront/pkg/logger/log"
	"github.com/prairiegroup/storefront/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

var errClosed = errors.New("publisher closed")

// Publisher emits customer account events. Publish only enqueues the event;
// delivery failures are logged and counted, never returned.
type Publisher interface {
	Publish(ctx context.Context, event models.CustomerEvent) error
	Close() error
}

// pending travels with a message through the producer as its metadata.
type pending struct {
	eventType models.CustomerEventType
	requestID string
	enqueued  time.Time
}

type saramaPublisher struct {
	producer sarama.AsyncProducer
	topic    string
	metrics  *prometheus.HistogramVec

	mu      sync.RWMutex
	closed  bool
	drained sync.WaitGroup
}

// NewPublisher returns a no-op publisher when Kafka is disabled. The
// producer is flushed and closed when the app stops.
func NewPublisher(lc fx.Lifecycle, conf *config.Config) (Publisher, error) {
	if !conf.Kafka.Enabled {
		log.Warnf(context.Background(), "Kafka publisher is disabled in configuration")
		return noopPublisher{}, nil
	}

	sc := sarama.NewConfig()
	sc.ClientID = "storefront"
	sc.Producer.RequiredAcks = sarama.WaitForLocal
	sc.Producer.Return.Successes = true
	sc.Producer.Return.Errors = true
	sc.Producer.Retry.Max = 3
	sc.Producer.Timeout = 5 * time.Second
	sc.Producer.Flush.Frequency = 100 * time.Millisecond

	producer, err := sarama.NewAsyncProducer(conf.Kafka.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("new async producer: %w", err)
	}

	p, err := newSaramaPublisher(producer, conf.Kafka.Topic)
	if err != nil {
		_ = producer.Close()
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return p.Close()
		},
	})
	return p, nil
}

func newSaramaPublisher(producer sarama.AsyncProducer, topic string) (*saramaPublisher, error) {
	metrics, err := util.GetHistogramVec("kafka_messages_published", "status", "topic")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}
	p := &saramaPublisher{producer: producer, topic: topic, metrics: metrics}
	p.drained.Add(1)
	go p.drain()
	return p, nil
}

func (p *saramaPublisher) Publish(ctx context.Context, event models.CustomerEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	key := event.CustomerID
	if key == "" {
		key = event.Email
	}
	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(key),
		Value:     sarama.ByteEncoder(value),
		Timestamp: event.CreatedAt,
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
		Metadata: pending{eventType: event.Type, requestID: event.RequestID, enqueued: time.Now()},
	}
	if event.RequestID != "" {
		msg.Headers = append(msg.Headers, sarama.RecordHeader{Key: []byte("request_id"), Value: []byte(event.RequestID)})
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return fmt.Errorf("enqueue %s event: %w", event.Type, errClosed)
	}
	select {
	case p.producer.Input() <- msg:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("enqueue %s event: %w", event.Type, ctx.Err())
	}
}

// drain records the outcome of every enqueued message until the producer
// shuts down.
func (p *saramaPublisher) drain() {
	defer p.drained.Done()
	successes, failures := p.producer.Successes(), p.producer.Errors()
	for successes != nil || failures != nil {
		select {
		case msg, ok := <-successes:
			if !ok {
				successes = nil
				continue
			}
			meta := p.observe(msg, "success")
			log.Debugw(logger.WithRequestID(context.Background(), meta.requestID),
				"Published customer event", "type", meta.eventType, "partition", msg.Partition, "offset", msg.Offset)
		case perr, ok := <-failures:
			if !ok {
				failures = nil
				continue
			}
			meta := p.observe(perr.Msg, "error")
			log.Errorw(logger.WithRequestID(context.Background(), meta.requestID),
				"Failed to publish customer event", "type", meta.eventType, "error", perr.Err)
		}
	}
}

func (p *saramaPublisher) observe(msg *sarama.ProducerMessage, status string) pending {
	var meta pending
	if msg != nil {
		meta, _ = msg.Metadata.(pending)
	}
	if !meta.enqueued.IsZero() {
		p.metrics.WithLabelValues(status, p.topic).Observe(time.Since(meta.enqueued).Seconds())
	}
	return meta
}

// Close flushes the messages in flight and waits for their outcome.
func (p *saramaPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.producer.AsyncClose()
	p.drained.Wait()
	return nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, models.CustomerEvent) error { return nil }
func (noopPublisher) Close() error                                        { return nil }
