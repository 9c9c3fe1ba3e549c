// Package amqp feeds review lifecycle events from RabbitMQ into rating
// maintenance.
//
// Messages arrive on a durable queue bound to a topic exchange with the
// routing keys review.created, review.removed and review.recompute. The body
// is JSON:
//
//	{"restaurantId": "r-1", "itemId": "6f1c...", "rating": 4}
//
// rating is ignored for review.recompute. A delivery is acked once handled,
// including events for items that no longer exist. Malformed deliveries and
// validation failures are dropped without requeue, so a dead-letter exchange on
// the queue receives them. Other handler failures are requeued.
package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"backoffice/internal/core/application/usecases/commands"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	RoutingKeyReviewCreated   = "review.created"
	RoutingKeyReviewRemoved   = "review.removed"
	RoutingKeyReviewRecompute = "review.recompute"

	bindingKey      = "review.*"
	defaultPrefetch = 16
	consumerTag     = "backoffice-ratings"
)

// ErrMalformedEvent marks a delivery that can never be processed.
var ErrMalformedEvent = errors.New("malformed review event")

// ReviewEvent is the message body.
type ReviewEvent struct {
	RestaurantID string `json:"restaurantId"`
	ItemID       string `json:"itemId"`
	Rating       int    `json:"rating"`
}

type ReviewEventApplier interface {
	Handle(ctx context.Context, cmd commands.ApplyReviewEventCommand) (commands.ApplyReviewEventResult, error)
}

type ItemRatingRecomputer interface {
	Handle(ctx context.Context, cmd commands.RecomputeItemRatingCommand) (commands.RecomputeItemRatingResult, error)
}

type ConsumerConfig struct {
	URL      string
	Exchange string
	Queue    string
	Prefetch int
}

// ReviewConsumer declares its exchange, queue and binding on Run, so it can
// start against an empty broker.
type ReviewConsumer struct {
	cfg       ConsumerConfig
	apply     ReviewEventApplier
	recompute ItemRatingRecomputer
	logger    *slog.Logger
}

func NewReviewConsumer(
	cfg ConsumerConfig,
	apply ReviewEventApplier,
	recompute ItemRatingRecomputer,
	logger *slog.Logger,
) *ReviewConsumer {
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = defaultPrefetch
	}
	return &ReviewConsumer{
		cfg:       cfg,
		apply:     apply,
		recompute: recompute,
		logger:    logger.With("component", "review_consumer"),
	}
}

// Run consumes until ctx is cancelled or the broker closes the channel.
func (c *ReviewConsumer) Run(ctx context.Context) error {
	conn, err := amqp.Dial(c.cfg.URL)
	if err != nil {
		return fmt.Errorf("dial amqp: %w", err)
	}
	defer func() {
		_ = conn.Close()
	}()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() {
		_ = ch.Close()
	}()

	if err := c.declare(ch); err != nil {
		return err
	}

	msgs, err := ch.ConsumeWithContext(ctx, c.cfg.Queue, consumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.cfg.Queue, err)
	}

	c.logger.InfoContext(ctx, "consuming review events",
		"exchange", c.cfg.Exchange,
		"queue", c.cfg.Queue,
		"prefetch", c.cfg.Prefetch)

	for {
		select {
		case <-ctx.Done():
			_ = ch.Cancel(consumerTag, false)
			c.logger.Info("review consumer stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("review delivery channel closed")
			}
			c.handleDelivery(ctx, d)
		}
	}
}

func (c *ReviewConsumer) declare(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(c.cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", c.cfg.Exchange, err)
	}
	if _, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", c.cfg.Queue, err)
	}
	if err := ch.QueueBind(c.cfg.Queue, bindingKey, c.cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", c.cfg.Queue, err)
	}
	return ch.Qos(c.cfg.Prefetch, 0, false)
}

func (c *ReviewConsumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	err := c.process(ctx, d.RoutingKey, d.Body)
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, ErrMalformedEvent):
		c.logger.WarnContext(ctx, "dropping malformed review event",
			"routing_key", d.RoutingKey,
			"error", err)
		_ = d.Nack(false, false)
	case isPermanent(err):
		c.logger.ErrorContext(ctx, "review event can never succeed, dead-lettering",
			"routing_key", d.RoutingKey,
			"error", err)
		_ = d.Nack(false, false)
	default:
		c.logger.ErrorContext(ctx, "review event failed, requeueing",
			"routing_key", d.RoutingKey,
			"error", err)
		_ = d.Nack(false, true)
	}
}

// isPermanent reports failures that a redelivery cannot fix, such as an out of
// range rating or a corrupt stored aggregate.
func isPermanent(err error) bool {
	return errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsOutOfRange) ||
		errors.Is(err, errs.ErrValueIsRequired)
}

func (c *ReviewConsumer) process(ctx context.Context, routingKey string, body []byte) error {
	var event ReviewEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}

	restaurant, err := kernel.NewRestaurantID(event.RestaurantID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	itemID, err := kernel.UUIDFromString(event.ItemID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}

	switch routingKey {
	case RoutingKeyReviewCreated, RoutingKeyReviewRemoved:
		newCommand := commands.NewReviewCreatedCommand
		if routingKey == RoutingKeyReviewRemoved {
			newCommand = commands.NewReviewRemovedCommand
		}
		cmd, err := newCommand(restaurant, itemID, event.Rating)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedEvent, err)
		}
		result, err := c.apply.Handle(ctx, cmd)
		if err != nil {
			return err
		}
		if !result.Found {
			c.logger.DebugContext(ctx, "review event for missing item",
				"restaurant_id", restaurant.String(),
				"item_id", itemID.String())
		}
		return nil

	case RoutingKeyReviewRecompute:
		cmd, err := commands.NewRecomputeItemRatingCommand(restaurant, itemID)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedEvent, err)
		}
		_, err = c.recompute.Handle(ctx, cmd)
		return err

	default:
		return fmt.Errorf("%w: unknown routing key %q", ErrMalformedEvent, routingKey)
	}
}
