package events

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/twmb/franz-go/pkg/kgo"

	"shopfront/internal/domain"
)

const TypeOrderPlaced = "order.placed"

// OrderPlacedEvent is the record value published after a checkout commits.
type OrderPlacedEvent struct {
	Type        string          `json:"type"`
	OrderID     int64           `json:"order_id"`
	Reference   string          `json:"reference"`
	UserID      int64           `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []EventItem     `json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
}

type EventItem struct {
	ProductID *int64          `json:"product_id"`
	VariantID *int64          `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// NewOrderPlaced builds the event payload for a committed order.
func NewOrderPlaced(o domain.OrderDetail) OrderPlacedEvent {
	ev := OrderPlacedEvent{
		Type:        TypeOrderPlaced,
		OrderID:     o.Order.ID,
		Reference:   o.Order.Reference,
		UserID:      o.Order.UserID,
		TotalAmount: o.Order.TotalAmount,
		Items:       make([]EventItem, 0, len(o.Items)),
		CreatedAt:   time.Now().UTC(),
	}
	for _, it := range o.Items {
		ev.Items = append(ev.Items, EventItem{ProductID: it.ProductID, VariantID: it.VariantID, Quantity: it.Quantity, Price: it.Price})
	}
	return ev
}

// KafkaPublisher produces order events asynchronously. Delivery failures are
// logged only; checkout never waits on the broker.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerLinger(50*time.Millisecond),
		kgo.RecordDeliveryTimeout(10*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &KafkaPublisher{client: client, topic: topic}, nil
}

func (p *KafkaPublisher) OrderPlaced(ctx context.Context, o domain.OrderDetail) {
	value, err := json.Marshal(NewOrderPlaced(o))
	if err != nil {
		log.Printf("[events] marshal %s: %v", TypeOrderPlaced, err)
		return
	}
	rec := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(strconv.FormatInt(o.Order.ID, 10)),
		Value: value,
	}
	// detach from the request so the produce survives the response
	p.client.Produce(context.WithoutCancel(ctx), rec, func(r *kgo.Record, err error) {
		if err != nil {
			log.Printf("[events] produce %s order=%s: %v", TypeOrderPlaced, o.Order.Reference, err)
		}
	})
}

// Close flushes buffered records and closes the client.
func (p *KafkaPublisher) Close(ctx context.Context) {
	if err := p.client.Flush(ctx); err != nil {
		log.Printf("[events] flush: %v", err)
	}
	p.client.Close()
}
