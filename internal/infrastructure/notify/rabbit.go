package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

var _ inventory.LowStockNotifier = (*RabbitNotifier)(nil)

// LowStockEvent mensaje publicado en la cola de stock bajo.
type LowStockEvent struct {
	Event string                 `json:"event"`
	At    time.Time              `json:"at"`
	Data  entity.LowStockWarning `json:"data"`
}

// Publisher lo mínimo de *amqp.Channel que usa el notificador.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitNotifier publica los avisos como JSON en una cola durable (exchange por defecto).
type RabbitNotifier struct {
	conn  *amqp.Connection
	mu    sync.Mutex
	ch    Publisher
	queue string
}

// DialRabbit conecta, abre un canal y declara la cola.
func DialRabbit(url, queue string) (*RabbitNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp queue declare: %w", err)
	}
	return &RabbitNotifier{conn: conn, ch: ch, queue: queue}, nil
}

// NewRabbitNotifier construye el notificador sobre un canal existente.
func NewRabbitNotifier(ch Publisher, queue string) *RabbitNotifier {
	return &RabbitNotifier{ch: ch, queue: queue}
}

// NotifyLowStock publica el aviso (persistente).
func (n *RabbitNotifier) NotifyLowStock(ctx context.Context, w entity.LowStockWarning) error {
	body, err := json.Marshal(LowStockEvent{Event: "stock.low", At: time.Now().UTC(), Data: w})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Un canal AMQP no admite publicaciones concurrentes
	n.mu.Lock()
	defer n.mu.Unlock()
	err = n.ch.PublishWithContext(ctx, "", n.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

// Close cierra canal y conexión si fueron abiertos por DialRabbit.
func (n *RabbitNotifier) Close() error {
	if n.conn == nil {
		return nil
	}
	if ch, ok := n.ch.(*amqp.Channel); ok {
		_ = ch.Close()
	}
	return n.conn.Close()
}
