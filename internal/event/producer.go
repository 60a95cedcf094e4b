package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"storefront/internal/domain"
)

// Kafka topics for storefront domain events.
const (
	TopicUserRegistered = "storefront.user.registered"
	TopicProductCreated = "storefront.product.created"
	TopicProductUpdated = "storefront.product.updated"
	TopicProductDeleted = "storefront.product.deleted"
	TopicReviewAdded    = "storefront.review.added"
)

// Envelope is the standard event envelope for all published messages.
type Envelope struct {
	EventID     string          `json:"event_id"`
	EventType   string          `json:"event_type"`
	AggregateID string          `json:"aggregate_id"`
	Timestamp   time.Time       `json:"timestamp"`
	Source      string          `json:"source"`
	Data        json.RawMessage `json:"data"`
}

// Producer publishes domain events to Kafka. Publishing is best-effort:
// callers log failures and never fail the domain operation over them.
type Producer struct {
	writer  *kafka.Writer
	brokers []string
	logger  *slog.Logger
}

// NewProducer creates a Kafka-backed event producer.
func NewProducer(brokers []string, logger *slog.Logger) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	}

	return &Producer{
		writer:  w,
		brokers: brokers,
		logger:  logger,
	}
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	env := Envelope{
		EventID:     uuid.New().String(),
		EventType:   topic,
		AggregateID: aggregateID,
		Timestamp:   time.Now().UTC(),
		Source:      "storefront",
		Data:        payload,
	}

	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(aggregateID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(topic)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish event to %s: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "event published",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	return p.publish(ctx, TopicUserRegistered, user.ID, UserRegisteredData{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	})
}

// ProductData is the payload for product lifecycle events.
type ProductData struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Brand    string  `json:"brand"`
	Category string  `json:"category"`
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductCreated, product.ID, productData(product))
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductUpdated, product.ID, productData(product))
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, productID string) error {
	return p.publish(ctx, TopicProductDeleted, productID, map[string]string{"id": productID})
}

// ReviewAddedData is the payload for a review.added event.
type ReviewAddedData struct {
	ProductID string `json:"product_id"`
	UserID    string `json:"user_id"`
	Rating    int    `json:"rating"`
}

// PublishReviewAdded publishes a review.added event.
func (p *Producer) PublishReviewAdded(ctx context.Context, review *domain.Review) error {
	return p.publish(ctx, TopicReviewAdded, review.ProductID, ReviewAddedData{
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    review.Rating,
	})
}

func productData(product *domain.Product) ProductData {
	return ProductData{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Brand:    product.Brand,
		Category: product.Category,
	}
}

// Ping dials the configured brokers and returns nil if at least one is
// reachable.
func (p *Producer) Ping(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return fmt.Errorf("kafka: no brokers configured")
	}

	var lastErr error
	for _, addr := range p.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", addr)
		if err != nil {
			lastErr = err
			continue
		}
		_, err = conn.Brokers()
		_ = conn.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("kafka: no reachable broker: %w", lastErr)
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
