package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/rahmatullahboss/hotel-sub006/internal/logger"
	"github.com/rahmatullahboss/hotel-sub006/internal/metrics"

	"github.com/redis/go-redis/v9"
)

// Domain event types emitted by the booking core.
const (
	EventBookingConfirmed = "booking-confirmed"
	EventBookingCancelled = "booking-cancelled"
	EventBookingExpired   = "booking-expired"
	EventRefundIssued     = "refund-issued"
)

const (
	eventsKey       = "events"
	failedEventsKey = "events:failed"
	maxTries        = 3
)

// Emitter is the capability the booking core calls. Delivery is
// fire-and-forget: a failed emit never rolls back a booking mutation.
type Emitter interface {
	Emit(ctx context.Context, eventType string, payload interface{}) error
}

type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	Tries   int             `json:"tries"`
	Created time.Time       `json:"created"`
}

type Service struct {
	redis    *redis.Client
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
	}
}

func (s *Service) Emit(ctx context.Context, eventType string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Errorf("Failed to marshal %s payload: %v", eventType, err)
		return err
	}

	event := Event{
		Type:    eventType,
		Payload: raw,
		Created: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := s.redis.LPush(ctx, eventsKey, string(data)).Err(); err != nil {
		logger.Errorf("Failed to queue %s event: %v", eventType, err)
		return err
	}

	metrics.RecordEvent(eventType)
	logger.Debug("Event queued", "type", eventType)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Notification worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, eventsKey).Result()
	if err != nil {
		return
	}

	var event Event
	if err := json.Unmarshal([]byte(result[1]), &event); err != nil {
		logger.Errorf("Bad event data: %v", err)
		return
	}

	event.Tries++
	if err := s.deliver(event); err != nil {
		logger.Errorf("Failed to deliver %s event: %v", event.Type, err)

		if event.Tries < maxTries {
			data, _ := json.Marshal(event)
			s.redis.LPush(context.Background(), eventsKey, data)
		} else {
			s.saveFailed(event, err)
		}
		return
	}
}

type bookingEventPayload struct {
	BookingID         int    `json:"booking_id"`
	Reference         string `json:"reference"`
	GuestEmail        string `json:"guest_email,omitempty"`
	GuestName         string `json:"guest_name,omitempty"`
	RefundAmountCents int64  `json:"refund_amount_cents,omitempty"`
	Reason            string `json:"reason,omitempty"`
}

func (s *Service) deliver(event Event) error {
	var p bookingEventPayload
	if err := json.Unmarshal(event.Payload, &p); err != nil {
		// Unparseable payloads are logged, not retried.
		logger.Errorf("Undeliverable %s event payload: %v", event.Type, err)
		return nil
	}

	if p.GuestEmail == "" {
		logger.Debug("Event has no recipient, delivery skipped", "type", event.Type)
		return nil
	}

	subject, body := renderEmail(event.Type, p)
	if subject == "" {
		return nil
	}

	return s.sendMail(p.GuestEmail, subject, body)
}

func renderEmail(eventType string, p bookingEventPayload) (string, string) {
	switch eventType {
	case EventBookingConfirmed:
		return "Booking confirmed - " + p.Reference,
			fmt.Sprintf("Hi %s,\n\nYour booking %s is confirmed. We look forward to hosting you.\n", p.GuestName, p.Reference)
	case EventBookingCancelled:
		body := fmt.Sprintf("Hi %s,\n\nYour booking %s has been cancelled.", p.GuestName, p.Reference)
		if p.RefundAmountCents > 0 {
			body += fmt.Sprintf(" A refund of %.2f has been credited to your wallet.", float64(p.RefundAmountCents)/100)
		}
		return "Booking cancelled - " + p.Reference, body + "\n"
	case EventBookingExpired:
		return "Booking expired - " + p.Reference,
			fmt.Sprintf("Hi %s,\n\nYour booking %s was cancelled because the payment window expired.\n", p.GuestName, p.Reference)
	default:
		return "", ""
	}
}

func (s *Service) sendMail(to, subject, body string) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", to)
	message += fmt.Sprintf("Subject: %s\r\n", subject)
	message += "\r\n" + body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{to}, []byte(message))
}

func (s *Service) saveFailed(event Event, err error) {
	failed := map[string]interface{}{
		"event": event,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedEventsKey, data)
	logger.Errorf("Event moved to failed queue: %s", event.Type)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, eventsKey).Result()
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}
