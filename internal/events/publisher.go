package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"marketplace_api/internal/domain"
)

const TopicOrderStatusChanged = "order.status_changed"

type OrderStatusChanged struct {
	OrderID string             `json:"order_id"`
	UserID  string             `json:"user_id"`
	Status  domain.OrderStatus `json:"status"`
	At      time.Time          `json:"at"`
}

// Publisher pushes order lifecycle events through a buffered inbox so request
// handling never blocks on the broker. A nil *Publisher is a no-op, which is
// how the service runs when no brokers are configured.
type Publisher struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
	log     *logrus.Logger
}

func NewPublisher(brokers []string, topic string, buf int, logger *logrus.Logger) *Publisher {
	if len(brokers) == 0 {
		return nil
	}
	return &Publisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
		log:     logger,
	}
}

func (p *Publisher) Start() {
	if p == nil {
		return
	}
	go func() {
		for m := range p.inbox {
			p.write(m)
		}
		_ = p.w.Close()
		close(p.closeCh)
	}()
}

func (p *Publisher) write(m kafka.Message) {
	if err := p.w.WriteMessages(context.Background(), m); err != nil {
		p.log.Errorf("Events: failed to publish message to %s: %v", p.w.Topic, err)
	}
}

func (p *Publisher) PublishStatusChanged(event OrderStatusChanged) {
	if p == nil {
		return
	}
	value, err := json.Marshal(event)
	if err != nil {
		p.log.Errorf("Events: failed to marshal status event for order %s: %v", event.OrderID, err)
		return
	}
	select {
	case p.inbox <- kafka.Message{Key: []byte(event.OrderID), Value: value, Time: time.Now()}:
	default:
		p.log.Warnf("Events: inbox full, dropping status event for order %s", event.OrderID)
	}
}

// Close flushes the inbox and stops the writer goroutine.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	close(p.inbox)
	<-p.closeCh
}
