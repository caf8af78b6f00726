package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TaskDemoConfirmation = "email:demo_confirmation"
	TaskDemoReschedule   = "email:demo_reschedule"
	TaskDemoReminder     = "email:demo_reminder"
	TaskOTPEmail         = "email:otp"
	TaskContactReply     = "email:contact_reply"

	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

type DemoEmailPayload struct {
	DemoID string `json:"demoId"`
}

type OTPEmailPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	OTP   string `json:"otp"`
}

type ContactReplyPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func newTask(kind string, payload interface{}) (*asynq.Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(kind, raw), nil
}
