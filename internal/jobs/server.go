package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"marketingai-backend/internal/demo"

	"github.com/hibiken/asynq"
)

// Mailer is the transactional email surface the worker drives.
type Mailer interface {
	SendDemoConfirmation(ctx context.Context, rec demo.Record) (string, error)
	SendDemoReschedule(ctx context.Context, rec demo.Record) (string, error)
	SendDemoReminder(ctx context.Context, rec demo.Record) (string, error)
	SendOTPEmail(ctx context.Context, toEmail, toName, otp string) (string, error)
	SendContactReply(ctx context.Context, toEmail, toName string) (string, error)
}

type Server struct {
	server *asynq.Server
	demos  demo.Repository
	mailer Mailer
	log    *slog.Logger
}

func NewServer(redisAddr string, concurrency int, demos demo.Repository, mailer Mailer, log *slog.Logger) *Server {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				QueueCritical: 6,
				QueueDefault:  3,
				QueueLow:      1,
			},
		},
	)

	return &Server{
		server: srv,
		demos:  demos,
		mailer: mailer,
		log:    log,
	}
}

func (s *Server) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskDemoConfirmation, s.handleDemoConfirmation)
	mux.HandleFunc(TaskDemoReschedule, s.handleDemoReschedule)
	mux.HandleFunc(TaskDemoReminder, s.handleDemoReminder)
	mux.HandleFunc(TaskOTPEmail, s.handleOTPEmail)
	mux.HandleFunc(TaskContactReply, s.handleContactReply)
	return s.server.Start(mux)
}

func (s *Server) Stop() {
	s.server.Shutdown()
}

func (s *Server) handleDemoConfirmation(ctx context.Context, t *asynq.Task) error {
	var payload DemoEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	rec, err := s.demos.GetByID(ctx, payload.DemoID)
	if err != nil {
		return fmt.Errorf("load demo %s: %w", payload.DemoID, err)
	}

	messageID, err := s.mailer.SendDemoConfirmation(ctx, rec)
	if err != nil {
		return fmt.Errorf("send confirmation: %w", err)
	}

	if err := s.demos.SetNotificationFlag(ctx, rec.ID, "confirmationSent", time.Now()); err != nil {
		s.log.Warn("demo confirmation: flag update failed",
			slog.String("demo_id", rec.ID),
			slog.String("error", err.Error()),
		)
	}

	s.log.Info("demo confirmation: sent",
		slog.String("demo_id", rec.ID),
		slog.String("email", rec.Requester.ContactInfo.Email),
		slog.String("message_id", messageID),
	)
	return nil
}

func (s *Server) handleDemoReschedule(ctx context.Context, t *asynq.Task) error {
	var payload DemoEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	rec, err := s.demos.GetByID(ctx, payload.DemoID)
	if err != nil {
		return fmt.Errorf("load demo %s: %w", payload.DemoID, err)
	}

	messageID, err := s.mailer.SendDemoReschedule(ctx, rec)
	if err != nil {
		return fmt.Errorf("send reschedule: %w", err)
	}

	s.log.Info("demo reschedule: sent",
		slog.String("demo_id", rec.ID),
		slog.String("email", rec.Requester.ContactInfo.Email),
		slog.String("message_id", messageID),
	)
	return nil
}

func (s *Server) handleDemoReminder(ctx context.Context, t *asynq.Task) error {
	var payload DemoEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	rec, err := s.demos.GetByID(ctx, payload.DemoID)
	if err != nil {
		return fmt.Errorf("load demo %s: %w", payload.DemoID, err)
	}

	// The demo may have moved on since the reminder was scheduled.
	switch rec.Status.Current {
	case demo.StatusCanceled, demo.StatusCompleted, demo.StatusNoShow:
		return nil
	}
	if rec.Status.ReminderSent {
		return nil
	}

	messageID, err := s.mailer.SendDemoReminder(ctx, rec)
	if err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}

	if err := s.demos.SetNotificationFlag(ctx, rec.ID, "reminderSent", time.Now()); err != nil {
		s.log.Warn("demo reminder: flag update failed",
			slog.String("demo_id", rec.ID),
			slog.String("error", err.Error()),
		)
	}

	s.log.Info("demo reminder: sent",
		slog.String("demo_id", rec.ID),
		slog.String("message_id", messageID),
	)
	return nil
}

func (s *Server) handleOTPEmail(ctx context.Context, t *asynq.Task) error {
	var payload OTPEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	messageID, err := s.mailer.SendOTPEmail(ctx, payload.Email, payload.Name, payload.OTP)
	if err != nil {
		return fmt.Errorf("send otp: %w", err)
	}

	s.log.Info("otp email: sent",
		slog.String("email", payload.Email),
		slog.String("message_id", messageID),
	)
	return nil
}

func (s *Server) handleContactReply(ctx context.Context, t *asynq.Task) error {
	var payload ContactReplyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	messageID, err := s.mailer.SendContactReply(ctx, payload.Email, payload.Name)
	if err != nil {
		return fmt.Errorf("send contact reply: %w", err)
	}

	s.log.Info("contact reply: sent",
		slog.String("email", payload.Email),
		slog.String("message_id", messageID),
	)
	return nil
}
