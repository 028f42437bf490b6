package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/goccy/go-json"
	"github.com/prairiegroup/storefront/internal/config"
	"github.com/prairiegroup/storefront/internal/models"
	"github.com/prairiegroup/storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newMockProducer(t *testing.T) *mocks.AsyncProducer {
	sc := sarama.NewConfig()
	sc.Producer.Return.Successes = true
	return mocks.NewAsyncProducer(t, sc)
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	logger.Replace(zap.New(core))
	return logs
}

func TestPublishSendsKeyedEvent(t *testing.T) {
	logs := observeLogs(t)
	producer := newMockProducer(t)
	event := models.CustomerEvent{
		Type:       models.CustomerRegistered,
		CustomerID: "gid://shopify/Customer/1",
		Email:      "ada@example.com",
		RequestID:  "req-1",
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	producer.ExpectInputWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, err := msg.Key.Encode()
		require.NoError(t, err)
		assert.Equal(t, "gid://shopify/Customer/1", string(key))
		assert.Equal(t, "storefront.customer-events", msg.Topic)
		assert.Len(t, msg.Headers, 2)

		value, err := msg.Value.Encode()
		require.NoError(t, err)
		var got models.CustomerEvent
		require.NoError(t, json.Unmarshal(value, &got))
		assert.Equal(t, event, got)
		return nil
	})

	p, err := newSaramaPublisher(producer, "storefront.customer-events")
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), event))
	require.NoError(t, p.Close())

	published := logs.FilterMessage("Published customer event").All()
	require.Len(t, published, 1)
	assert.Equal(t, "req-1", published[0].ContextMap()["request_id"])
}

func TestPublishFallsBackToEmailKey(t *testing.T) {
	observeLogs(t)
	producer := newMockProducer(t)
	producer.ExpectInputWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, _ := msg.Key.Encode()
		if string(key) != "ada@example.com" {
			return errors.New("unexpected key " + string(key))
		}
		return nil
	})

	p, err := newSaramaPublisher(producer, "events")
	require.NoError(t, err)
	assert.NoError(t, p.Publish(context.Background(), models.CustomerEvent{Type: models.CustomerRecoverRequest, Email: "ada@example.com"}))
	require.NoError(t, p.Close())
}

func TestPublishLogsDeliveryFailure(t *testing.T) {
	logs := observeLogs(t)
	producer := newMockProducer(t)
	producer.ExpectInputAndFail(sarama.ErrOutOfBrokers)

	p, err := newSaramaPublisher(producer, "events")
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), models.CustomerEvent{Type: models.CustomerLoggedIn, RequestID: "req-9"}))
	require.NoError(t, p.Close())

	failed := logs.FilterMessage("Failed to publish customer event").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
	assert.Equal(t, "req-9", failed[0].ContextMap()["request_id"])
	assert.Equal(t, sarama.ErrOutOfBrokers.Error(), failed[0].ContextMap()["error"])
}

func TestPublishAfterClose(t *testing.T) {
	observeLogs(t)
	p, err := newSaramaPublisher(newMockProducer(t), "events")
	require.NoError(t, err)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	err = p.Publish(context.Background(), models.CustomerEvent{Type: models.CustomerLoggedOut})
	assert.ErrorIs(t, err, errClosed)
}

func TestPublishHonoursContext(t *testing.T) {
	observeLogs(t)
	producer := &stalledProducer{AsyncProducer: newMockProducer(t), input: make(chan *sarama.ProducerMessage)}
	p, err := newSaramaPublisher(producer, "events")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = p.Publish(ctx, models.CustomerEvent{Type: models.CustomerLoggedIn})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	require.NoError(t, p.Close())
}

// stalledProducer never accepts input, like a producer whose buffer is full.
type stalledProducer struct {
	*mocks.AsyncProducer
	input chan *sarama.ProducerMessage
}

func (s *stalledProducer) Input() chan<- *sarama.ProducerMessage {
	return s.input
}

func TestNewPublisherDisabled(t *testing.T) {
	p, err := NewPublisher(fxtest.NewLifecycle(t), &config.Config{Kafka: config.KafkaConfig{Enabled: false}})
	require.NoError(t, err)
	assert.IsType(t, noopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), models.CustomerEvent{}))
}
