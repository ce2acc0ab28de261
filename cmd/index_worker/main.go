package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/agenda-api/config"
	"github.com/oksasatya/agenda-api/internal/domain/entity"
	"github.com/oksasatya/agenda-api/internal/domain/event"
	"github.com/oksasatya/agenda-api/internal/infrastructure/search"
	"github.com/oksasatya/agenda-api/pkg/helpers"
)

type indexer interface {
	Put(ctx context.Context, c *entity.Contact) error
	Remove(ctx context.Context, id int64) error
}

// errPoison marks messages that will never succeed and must not be requeued.
var errPoison = errors.New("unprocessable message")

func apply(ctx context.Context, idx indexer, body []byte) error {
	var ev event.ContactEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: %w", errPoison, err)
	}
	switch ev.Type {
	case event.ContactCreated, event.ContactUpdated:
		if ev.Contact == nil {
			return fmt.Errorf("%w: %s without contact", errPoison, ev.Type)
		}
		return idx.Put(ctx, ev.Contact.Entity())
	case event.ContactDeleted:
		return idx.Remove(ctx, ev.ContactID)
	default:
		return fmt.Errorf("%w: unknown type %q", errPoison, ev.Type)
	}
}

func handle(ctx context.Context, logger *logrus.Logger, idx indexer, msg amqp.Delivery) {
	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	err := apply(c, idx, msg.Body)
	switch {
	case err == nil:
		_ = msg.Ack(false)
	case errors.Is(err, errPoison):
		logger.WithError(err).WithField("message_id", msg.MessageId).Error("dropping contact event")
		_ = msg.Nack(false, false)
	default:
		logger.WithError(err).WithField("message_id", msg.MessageId).Warn("index update failed; requeueing")
		_ = msg.Nack(false, true)
	}
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-index-worker", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQContactsQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	addrs := cfg.ESAddrs()
	if len(addrs) == 0 {
		log.Fatal("Elasticsearch not configured")
	}

	es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		log.Fatalf("elasticsearch client: %v", err)
	}
	idx := search.NewContactIndex(es, cfg.ESContactsIndex, logger)
	if err := idx.EnsureIndex(context.Background()); err != nil {
		log.Fatalf("ensure index: %v", err)
	}

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQContactsQueue, 16)
	if err != nil {
		log.Fatalf("amqp consumer: %v", err)
	}
	defer consumer.Close()

	msgs, err := consumer.Deliveries(cfg.AppName + "-index-worker")
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx := context.Background()
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			handle(ctx, logger, idx, msg)
		}
		close(done)
	}()

	logger.WithField("queue", cfg.RabbitMQContactsQueue).Info("index worker listening")
	<-stop
	logger.Info("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
