package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/domain"
)

const EventOrderPlaced = "order.placed"

// OrderPlacedEvent is the message value published for every placed order.
type OrderPlacedEvent struct {
	EventType      string             `json:"event_type"`
	OrderID        string             `json:"order_id"`
	CustomerEmail  string             `json:"customer_email"`
	ShippingMethod string             `json:"shipping_method"`
	PaymentMethod  string             `json:"payment_method"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	Items          []domain.OrderItem `json:"items"`
	Status         domain.OrderStatus `json:"status"`
	PlacedAt       time.Time          `json:"placed_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderPublisher writes order events to Kafka keyed by order id.
type OrderPublisher struct {
	writer messageWriter
	log    *zap.Logger
	now    func() time.Time
}

func NewKafkaPublisher(brokers []string, topic string, log *zap.Logger) *OrderPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return newOrderPublisher(w, log)
}

func newOrderPublisher(w messageWriter, log *zap.Logger) *OrderPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderPublisher{writer: w, log: log, now: time.Now}
}

func (p *OrderPublisher) PublishOrderPlaced(ctx context.Context, order domain.Order) error {
	placedAt := order.OrderDate
	if placedAt.IsZero() {
		placedAt = p.now()
	}
	value, err := json.Marshal(OrderPlacedEvent{
		EventType:      EventOrderPlaced,
		OrderID:        order.OrderID,
		CustomerEmail:  order.Customer.Email,
		ShippingMethod: order.ShippingMethod,
		PaymentMethod:  order.PaymentMethod,
		TotalAmount:    order.TotalAmount,
		Items:          order.Items,
		Status:         order.Status,
		PlacedAt:       placedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.OrderID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventOrderPlaced)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s for order %s: %w", EventOrderPlaced, order.OrderID, err)
	}
	p.log.Debug("order event published", zap.String("order_id", order.OrderID))
	return nil
}

func (p *OrderPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event. It is used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(context.Context, domain.Order) error { return nil }

func (NopPublisher) Close() error { return nil }
