//go:build integration

package consumer

import (
	"context"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkaContainer "github.com/testcontainers/testcontainers-go/modules/kafka"
	"go.uber.org/zap/zaptest"

	"example.com/activities/internal/domain"
	"example.com/activities/internal/events"
	"example.com/activities/internal/registry"
)

func TestSignupEventsRoundTripThroughKafka(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
	defer cancel()

	kafkaC, err := kafkaContainer.RunContainer(ctx, testcontainers.WithEnv(map[string]string{
		"KAFKA_AUTO_CREATE_TOPICS_ENABLE": "true",
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kafkaC.Terminate(context.Background()) })

	brokers, err := kafkaC.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	broker := brokers[0]

	topic := "activity_roster_events"

	conn, err := kafka.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))

	publisher := events.NewKafkaPublisher(events.KafkaConfig{
		Brokers:      []string{broker},
		Topic:        topic,
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
	})
	defer publisher.Close()

	repo, err := registry.NewInMemoryRepository([]domain.Activity{
		{Name: "Chess Club", Description: "Strategy", Schedule: "Fridays", MaxParticipants: 12},
	})
	require.NoError(t, err)
	service := domain.NewService(repo, publisher, domain.WithLogger(zaptest.NewLogger(t)))

	_, err = service.Signup(ctx, "Chess Club", "a@x.edu")
	require.NoError(t, err)
	_, err = service.Unregister(ctx, "Chess Club", "a@x.edu")
	require.NoError(t, err)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{broker},
		GroupID:     "roster-integration",
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
	defer reader.Close()

	consumerCtx, stop := context.WithCancel(ctx)
	defer stop()

	received := make(chan Message, 2)
	proc := NewProcessor(reader, channelHandler(received), WithLogger(zaptest.NewLogger(t)))
	go func() {
		_ = proc.Run(consumerCtx)
	}()

	var got []Message
	require.Eventually(t, func() bool {
		select {
		case msg := <-received:
			got = append(got, msg)
		default:
		}
		return len(got) == 2
	}, 60*time.Second, 200*time.Millisecond)

	require.Equal(t, events.TypeSignedUp, got[0].Event.EventType)
	require.Equal(t, 1, got[0].Event.ParticipantCount)
	require.Equal(t, events.TypeUnregistered, got[1].Event.EventType)
	require.Equal(t, 0, got[1].Event.ParticipantCount)
	for _, msg := range got {
		require.Equal(t, "Chess Club", msg.Event.Activity)
		require.Equal(t, "a@x.edu", msg.Event.Email)
		require.Equal(t, topic, msg.Topic)
	}
}

type channelHandler chan<- Message

func (h channelHandler) Handle(ctx context.Context, msg Message) error {
	select {
	case h <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
