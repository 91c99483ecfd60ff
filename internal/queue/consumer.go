package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartConsumer connects to RabbitMQ and consumes the back-office
// queues, appending one line per event to logs/backoffice.log.  It
// runs a reconnect loop with exponential backoff and never returns
// under normal operation; failing messages are rejected without
// requeue so a poison message cannot wedge the consumer.
func StartConsumer() error {
	url := BrokerURL()
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn); err != nil {
			log.Printf("consumer: consume loop ended: %v; reconnecting", err)
			_ = conn.Close()
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("consumer: set QoS failed: %v", err)
	}

	for _, name := range []string{ReservationQueuedQueue, OrderCreatedQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
	}

	reservations, err := ch.Consume(ReservationQueuedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", ReservationQueuedQueue, err)
	}
	orders, err := ch.Consume(OrderCreatedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", OrderCreatedQueue, err)
	}

	for {
		select {
		case d, ok := <-reservations:
			if !ok {
				return errors.New("reservation deliveries channel closed")
			}
			ackOrReject(d, handleReservationQueued(d.Body))
		case d, ok := <-orders:
			if !ok {
				return errors.New("order deliveries channel closed")
			}
			ackOrReject(d, handleOrderCreated(d.Body))
		}
	}
}

func ackOrReject(d amqp.Delivery, err error) {
	if err != nil {
		log.Printf("consumer: handle message failed: %v", err)
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

func handleReservationQueued(body []byte) error {
	var ev ReservationQueuedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%s] Reservation queued | number=%s | reservation_id=%d | client_id=%d | location_id=%d | plate=%q | position=%d\n",
		ev.QueuedAt, ev.ReservationNumber, ev.ReservationID, ev.ClientID, ev.LocationID, ev.VehiclePlate, ev.QueuePosition)
	return appendLog(line)
}

func handleOrderCreated(body []byte) error {
	var ev OrderCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%s] Order created | number=%s | order_id=%d | client_id=%d | items=%d | total=%.2f\n",
		ev.CreatedAt, ev.OrderNumber, ev.OrderID, ev.ClientID, ev.ItemCount, ev.TotalAmount)
	return appendLog(line)
}

func appendLog(line string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join("logs", "backoffice.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
