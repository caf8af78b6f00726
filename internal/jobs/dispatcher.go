package jobs

import (
	"context"
	"time"

	"marketingai-backend/internal/demo"

	"github.com/hibiken/asynq"
)

// Dispatcher enqueues outbound notification work. It satisfies the Notifier
// interfaces of the feature services so none of them link against asynq.
type Dispatcher struct {
	client   *asynq.Client
	location *time.Location
}

func NewDispatcher(redisAddr string, location *time.Location) *Dispatcher {
	if redisAddr == "" {
		return nil
	}
	return &Dispatcher{
		client:   asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr}),
		location: location,
	}
}

func (d *Dispatcher) Close() error {
	if d == nil {
		return nil
	}
	return d.client.Close()
}

func (d *Dispatcher) EnqueueDemoConfirmation(ctx context.Context, rec demo.Record) error {
	task, err := newTask(TaskDemoConfirmation, DemoEmailPayload{DemoID: rec.ID})
	if err != nil {
		return err
	}
	_, err = d.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

func (d *Dispatcher) EnqueueDemoReschedule(ctx context.Context, rec demo.Record) error {
	task, err := newTask(TaskDemoReschedule, DemoEmailPayload{DemoID: rec.ID})
	if err != nil {
		return err
	}
	_, err = d.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

// ScheduleDemoReminder queues a reminder for 08:00 local time on the
// preferred date. Dates already past schedule nothing.
func (d *Dispatcher) ScheduleDemoReminder(ctx context.Context, rec demo.Record) error {
	date := rec.Details.PreferredDate.In(d.location)
	remindAt := time.Date(date.Year(), date.Month(), date.Day(), 8, 0, 0, 0, d.location)
	if remindAt.Before(time.Now()) {
		return nil
	}

	task, err := newTask(TaskDemoReminder, DemoEmailPayload{DemoID: rec.ID})
	if err != nil {
		return err
	}
	_, err = d.client.EnqueueContext(ctx, task, asynq.Queue(QueueLow), asynq.ProcessAt(remindAt))
	return err
}

func (d *Dispatcher) EnqueueOTPEmail(ctx context.Context, email, name, otp string) error {
	task, err := newTask(TaskOTPEmail, OTPEmailPayload{Email: email, Name: name, OTP: otp})
	if err != nil {
		return err
	}
	_, err = d.client.EnqueueContext(ctx, task, asynq.Queue(QueueCritical))
	return err
}

func (d *Dispatcher) EnqueueContactReply(ctx context.Context, email, name string) error {
	task, err := newTask(TaskContactReply, ContactReplyPayload{Email: email, Name: name})
	if err != nil {
		return err
	}
	_, err = d.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}
