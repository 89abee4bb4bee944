package queue

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"postboard/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublishing(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	activity := Activity{
		Type:        ActivityLike,
		RecipientID: "author-1",
		ActorID:     "user-2",
		PostID:      "post-3",
		Priority:    3,
	}

	msg, err := newPublishing(activity, now)
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, uint8(3), msg.Priority)
	assert.Equal(t, uint8(amqp.Persistent), msg.DeliveryMode)
	assert.Equal(t, now, msg.Timestamp)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, "like", decoded["type"])
	assert.Equal(t, "author-1", decoded["user_id"])
	assert.Equal(t, "user-2", decoded["actor_id"])
	assert.NotContains(t, decoded, "comment_id")
}

func TestNewPublishing_ClampsPriority(t *testing.T) {
	high, err := newPublishing(Activity{Type: ActivityComment, Priority: 42}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, uint8(10), high.Priority)

	low, err := newPublishing(Activity{Type: ActivityComment, Priority: -1}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, uint8(0), low.Priority)
}

type recordingAcker struct {
	acked   int
	nacked  int
	requeue bool
}

func (a *recordingAcker) Ack(tag uint64, multiple bool) error {
	a.acked++
	return nil
}

func (a *recordingAcker) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}

func (a *recordingAcker) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func delivery(t *testing.T, acker amqp.Acknowledger, body interface{}, redelivered bool) amqp.Delivery {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: acker, Body: data, Redelivered: redelivered}
}

func TestHandleDelivery(t *testing.T) {
	log := logger.NewWithWriter(io.Discard, io.Discard)
	activity := Activity{Type: ActivityLike, RecipientID: "author-1", ActorID: "user-2", PostID: "post-3", Priority: 3}

	t.Run("acks on success", func(t *testing.T) {
		acker := &recordingAcker{}
		var got Activity
		handleDelivery(context.Background(), delivery(t, acker, activity, false), func(_ context.Context, a Activity) error {
			got = a
			return nil
		}, log)

		assert.Equal(t, 1, acker.acked)
		assert.Equal(t, activity, got)
	})

	t.Run("requeues first failure", func(t *testing.T) {
		acker := &recordingAcker{}
		handleDelivery(context.Background(), delivery(t, acker, activity, false), func(context.Context, Activity) error {
			return errors.New("boom")
		}, log)

		assert.Equal(t, 1, acker.nacked)
		assert.True(t, acker.requeue)
	})

	t.Run("drops redelivered failure", func(t *testing.T) {
		acker := &recordingAcker{}
		handleDelivery(context.Background(), delivery(t, acker, activity, true), func(context.Context, Activity) error {
			return errors.New("boom")
		}, log)

		assert.Equal(t, 1, acker.nacked)
		assert.False(t, acker.requeue)
	})

	t.Run("drops garbage", func(t *testing.T) {
		acker := &recordingAcker{}
		called := false
		msg := amqp.Delivery{Acknowledger: acker, Body: []byte("not json")}
		handleDelivery(context.Background(), msg, func(context.Context, Activity) error {
			called = true
			return nil
		}, log)

		assert.False(t, called)
		assert.Equal(t, 1, acker.nacked)
		assert.False(t, acker.requeue)
	})
}
