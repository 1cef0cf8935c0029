package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartNotificationConsumer connects to the broker, declares the
// notification queues (durable), and starts consuming them.  Each
// message is appended to logs/notifications.log in a single-line,
// human-friendly format.  The function runs a reconnect loop with
// exponential backoff; processing errors are logged and the offending
// message rejected so the server keeps operating.
func StartNotificationConsumer() error {
	url := brokerURL()

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("notification-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("notification-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
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
		log.Printf("notification-consumer: set QoS failed: %v", err)
	}

	queues := []string{BookingConfirmedQueue, BookingCancelledQueue, RegistrationExpiringQueue}
	var wg sync.WaitGroup
	for _, name := range queues {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
		msgs, err := ch.Consume(name, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", name, err)
		}
		wg.Add(1)
		go func(queueName string, msgs <-chan amqp.Delivery) {
			defer wg.Done()
			for d := range msgs {
				if err := handleMessage(queueName, d.Body); err != nil {
					log.Printf("notification-consumer: handle %s failed: %v", queueName, err)
					_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
					continue
				}
				_ = d.Ack(false)
			}
		}(name, msgs)
	}
	wg.Wait()
	return errors.New("deliveries channels closed")
}

func handleMessage(queueName string, body []byte) error {
	line, err := formatNotification(queueName, body)
	if err != nil {
		return err
	}
	return appendNotification(line)
}

// formatNotification renders one queue message as the log line a
// member-facing channel would send.
func formatNotification(queueName string, body []byte) (string, error) {
	switch queueName {
	case BookingConfirmedQueue:
		var ev BookingConfirmedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal: %w", err)
		}
		return fmt.Sprintf("[%s] Booking confirmed | booking_id=%d | member_id=%d | class=\"%s\" | date=%s | time=%s-%s\n",
			ev.ConfirmedAt, ev.BookingID, ev.MemberID, ev.ClassName, ev.Date, ev.StartTime, ev.EndTime), nil
	case BookingCancelledQueue:
		var ev BookingCancelledEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal: %w", err)
		}
		return fmt.Sprintf("[%s] Booking cancelled | booking_id=%d | member_id=%d | class=\"%s\" | date=%s\n",
			ev.CancelledAt, ev.BookingID, ev.MemberID, ev.ClassName, ev.Date), nil
	case RegistrationExpiringQueue:
		var ev RegistrationExpiringEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal: %w", err)
		}
		return fmt.Sprintf("Membership expiring | registration_id=%d | member_id=%d | end_date=%s | days_left=%d\n",
			ev.RegistrationID, ev.MemberID, ev.EndDate, ev.DaysLeft), nil
	}
	return "", fmt.Errorf("unknown queue %q", queueName)
}

func appendNotification(line string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "notifications.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
