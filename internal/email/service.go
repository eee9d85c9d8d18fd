package email

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"gymclass/internal/logger"
	"gymclass/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey   = "emails"
	failedKey  = "emails:failed"
	maxTries   = 3
	popTimeout = 2 * time.Second
	whenLayout = "Jan 2, 2006 at 3:04 PM"
)

const (
	TypeBookingConfirmation = "booking_confirmation"
	TypeBookingCancellation = "booking_cancellation"
)

type Job struct {
	Type    string    `json:"type"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// Service queues emails in redis and delivers them over SMTP from a
// background worker.
type Service struct {
	redis      *redis.Client
	smtp       SMTPConfig
	send       func(Job) error
	retryDelay time.Duration
}

func New(rdb *redis.Client, cfg SMTPConfig) *Service {
	s := &Service{
		redis:      rdb,
		smtp:       cfg,
		retryDelay: 5 * time.Second,
	}
	s.send = s.sendSMTP
	return s
}

func (s *Service) enqueue(ctx context.Context, job Job) error {
	job.Created = time.Now()

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal email job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Errorf("Failed to queue email to %s: %v", job.To, err)
		return err
	}

	logger.Debugf("Email queued: %s to %s", job.Subject, job.To)
	return nil
}

func (s *Service) SendBookingConfirmation(ctx context.Context, to, name, className string, when time.Time) error {
	body := fmt.Sprintf(`Hi %s,

Your booking is confirmed!

Class: %s
Time: %s

See you at the gym!`, name, className, when.Format(whenLayout))

	return s.enqueue(ctx, Job{
		Type:    TypeBookingConfirmation,
		To:      to,
		Name:    name,
		Subject: "Booking Confirmed - " + className,
		Body:    body,
	})
}

func (s *Service) SendCancellation(ctx context.Context, to, name, className string, when time.Time) error {
	body := fmt.Sprintf(`Hi %s,

Your booking has been cancelled:

Class: %s
Time: %s`, name, className, when.Format(whenLayout))

	return s.enqueue(ctx, Job{
		Type:    TypeBookingCancellation,
		To:      to,
		Name:    name,
		Subject: "Booking Cancelled - " + className,
		Body:    body,
	})
}

// Start runs the delivery worker until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("Email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

// processNext delivers at most one job. A failed job goes back on the queue
// until it has been tried maxTries times, then moves to the failed list.
func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, popTimeout, queueKey).Result()
	if err != nil {
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad email data: %v", err)
		return
	}

	job.Tries++
	if err := s.send(job); err != nil {
		logger.Errorf("Failed to send email to %s (attempt %d): %v", job.To, job.Tries, err)

		if job.Tries < maxTries {
			s.retry(ctx, job)
			return
		}

		metrics.RecordEmail(job.Type, "failed")
		s.saveFailed(job, err)
		return
	}

	metrics.RecordEmail(job.Type, "sent")
	logger.Infof("Email sent to %s", job.To)
}

func (s *Service) retry(ctx context.Context, job Job) {
	select {
	case <-ctx.Done():
	case <-time.After(s.retryDelay):
	}

	data, _ := json.Marshal(job)
	// the worker context may already be done; the job must not be lost
	if err := s.redis.LPush(context.Background(), queueKey, string(data)).Err(); err != nil {
		logger.Errorf("Failed to requeue email to %s: %v", job.To, err)
	}
}

func (s *Service) sendSMTP(job Job) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.smtp.FromName, s.smtp.From)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtp.Username != "" && s.smtp.Password != "" {
		auth = smtp.PlainAuth("", s.smtp.Username, s.smtp.Password, s.smtp.Host)
	}

	addr := s.smtp.Host + ":" + s.smtp.Port
	return smtp.SendMail(addr, auth, s.smtp.From, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job Job, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	if err := s.redis.LPush(context.Background(), failedKey, string(data)).Err(); err != nil {
		logger.Errorf("Failed to store failed email to %s: %v", job.To, err)
		return
	}
	logger.Errorf("Email moved to failed queue: %s", job.To)
}

// QueueLength reports pending jobs and mirrors the value into the queue gauge.
func (s *Service) QueueLength(ctx context.Context) int64 {
	length, err := s.redis.LLen(ctx, queueKey).Result()
	if err != nil {
		return 0
	}
	metrics.EmailQueueLength.Set(float64(length))
	return length
}

// Ping checks the queue backend.
func (s *Service) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

func (s *Service) Close() error {
	return s.redis.Close()
}
