package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.Error(t, err)

	p, err := NewProducer(WithBrokers([]string{"localhost:9092"}), WithCompression("zstd"))
	require.NoError(t, err)
	assert.Equal(t, "zstd", p.comp)
}

func TestPublishEncodesValues(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, "gzip")
	ctx := context.Background()

	require.NoError(t, p.Publish(ctx, "events", []byte("k"), map[string]int{"n": 1}))
	require.NoError(t, p.PublishMessage(ctx, "logs", "plain"))
	require.NoError(t, p.PublishBatch(ctx, "raw", []Message{{Value: []byte("a")}, {Value: []byte("b")}}))
	require.NoError(t, p.PublishBatch(ctx, "raw", nil))

	require.Len(t, w.msgs, 4)
	assert.Equal(t, "events", w.msgs[0].Topic)
	assert.Equal(t, []byte("k"), w.msgs[0].Key)
	assert.JSONEq(t, `{"n":1}`, string(w.msgs[0].Value))
	assert.Equal(t, "logs", w.msgs[1].Topic)
	assert.Nil(t, w.msgs[1].Key)
	assert.Equal(t, "plain", string(w.msgs[1].Value))
	assert.Equal(t, "b", string(w.msgs[3].Value))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishErrors(t *testing.T) {
	w := &recordingWriter{err: errors.New("leader not available")}
	p := NewProducerWithWriter(w, "gzip")

	err := p.PublishMessage(context.Background(), "events", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leader not available")

	err = p.PublishMessage(context.Background(), "events", func() {})
	assert.ErrorContains(t, err, "marshal value")
}

func TestParseCompression(t *testing.T) {
	assert.Equal(t, kafka.Snappy, parseCompression("snappy"))
	assert.Equal(t, kafka.Lz4, parseCompression("lz4"))
	assert.Equal(t, kafka.Zstd, parseCompression("zstd"))
	assert.Equal(t, kafka.Gzip, parseCompression("unknown"))
}
