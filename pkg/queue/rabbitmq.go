package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"postboard/pkg/config"
	"postboard/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ActivityQueueName  = "activity_queue"
	ActivityExchange   = "activity"
	ActivityRoutingKey = "activity"
	maxPriority        = 10
)

type ActivityType string

const (
	ActivityLike    ActivityType = "like"
	ActivityComment ActivityType = "comment"
)

// Activity tells a post author that someone interacted with their post.
type Activity struct {
	Type        ActivityType `json:"type"`
	RecipientID string       `json:"user_id"`
	ActorID     string       `json:"actor_id"`
	PostID      string       `json:"post_id"`
	CommentID   string       `json:"comment_id,omitempty"`
	Priority    int          `json:"priority"`
}

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		ActivityExchange, // name
		"direct",         // type
		true,             // durable
		false,            // auto-deleted
		false,            // internal
		false,            // no-wait
		nil,              // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		ActivityQueueName, // name
		true,              // durable
		false,             // delete when unused
		false,             // exclusive
		false,             // no-wait
		amqp.Table{"x-max-priority": maxPriority},
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := channel.QueueBind(ActivityQueueName, ActivityRoutingKey, ActivityExchange, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// PublishActivity publishes a persistent, prioritised activity message.
func (c *Client) PublishActivity(ctx context.Context, activity Activity) error {
	msg, err := newPublishing(activity, time.Now())
	if err != nil {
		return err
	}

	if err := c.channel.PublishWithContext(ctx, ActivityExchange, ActivityRoutingKey, false, false, msg); err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish to exchange=%s: %v", ActivityExchange, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Info("[RABBITMQ] Published %s activity for user=%s post=%s", activity.Type, activity.RecipientID, activity.PostID)
	return nil
}

func newPublishing(activity Activity, now time.Time) (amqp.Publishing, error) {
	priority := activity.Priority
	if priority < 0 {
		priority = 0
	}
	if priority > maxPriority {
		priority = maxPriority
	}
	activity.Priority = priority

	body, err := json.Marshal(activity)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal activity: %w", err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		Priority:     uint8(priority),
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
	}, nil
}

// ActivityHandler processes one activity taken off the queue.
type ActivityHandler func(ctx context.Context, activity Activity) error

// ConsumeActivities delivers queued activities to handler until ctx is done
// or the channel closes. Messages are acked after handler succeeds.
func (c *Client) ConsumeActivities(ctx context.Context, handler ActivityHandler) error {
	msgs, err := c.channel.Consume(
		ActivityQueueName, // queue
		"",                // consumer
		false,             // auto-ack
		false,             // exclusive
		false,             // no-local
		false,             // no-wait
		nil,               // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from queue: %s", ActivityQueueName)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			handleDelivery(ctx, msg, handler, c.logger)
		}
	}
}

// handleDelivery acks processed messages. Undecodable messages are dropped;
// a failing handler gets one redelivery before the message is dropped.
func handleDelivery(ctx context.Context, msg amqp.Delivery, handler ActivityHandler, log *logger.Logger) {
	var activity Activity
	if err := json.Unmarshal(msg.Body, &activity); err != nil {
		log.Error("[RABBITMQ] Failed to unmarshal activity: %v, body=%s", err, string(msg.Body))
		_ = msg.Nack(false, false)
		return
	}

	if err := handler(ctx, activity); err != nil {
		log.Error("[RABBITMQ] Handler failed for %s activity post=%s: %v", activity.Type, activity.PostID, err)
		_ = msg.Nack(false, !msg.Redelivered)
		return
	}

	_ = msg.Ack(false)
}
