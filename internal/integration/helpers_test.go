//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/spitfire-etl/internal/domain"
	"github.com/couchcryptid/spitfire-etl/internal/synthetic"
)

const kafkaImage = "confluentinc/confluent-local:7.5.0"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node broker for the test and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, kafkaImage, tckafka.WithClusterID("spitfire-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// dryThenWet builds days of messages for each patch: a hot dry spell followed
// by one soaking rain, interleaved by day.
func dryThenWet(t *testing.T, patches []string, dry int) []kafkago.Message {
	t.Helper()
	m, err := synthetic.Lookup(102)
	require.NoError(t, err)
	p := domain.DefaultFireParameters()
	tree, grass, bare := m.Cover()

	start := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	days := synthetic.DrySpell(start, dry, 32, 18, 200)
	days = append(days, synthetic.RainDay(start.AddDate(0, 0, dry), 20))

	msgs := make([]kafkago.Message, 0, len(days)*len(patches))
	for _, d := range days {
		for _, id := range patches {
			rh := d.RelativeHumidity
			payload, err := json.Marshal(domain.PatchMessage{
				PatchID:       id,
				Date:          d.Date,
				TempC:         d.Temperature,
				RH:            &rh,
				PrecipMM:      d.Precipitation,
				WindMMin:      d.Wind,
				TreeFraction:  tree,
				GrassFraction: grass,
				BareFraction:  bare,
				Ignitions:     1,
				Litter:        m.Litter(p),
			})
			require.NoError(t, err)
			msgs = append(msgs, kafkago.Message{Key: []byte(id), Value: payload})
		}
	}
	return msgs
}

type sinkMessage struct {
	Record  domain.BehaviorRecord
	Key     string
	Headers map[string]string
}

func readSink(ctx context.Context, t *testing.T, consumer *kafkago.Reader) sinkMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var rec domain.BehaviorRecord
	require.NoError(t, json.Unmarshal(msg.Value, &rec), "unmarshal sink message")
	return sinkMessage{Record: rec, Key: string(msg.Key), Headers: headers}
}

func sinkConsumer(t *testing.T, broker, topic string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       topic,
		GroupID:     "sink-" + strconv.FormatInt(time.Now().UnixNano(), 10),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}
