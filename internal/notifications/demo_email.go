package notifications

import (
	"bytes"
	"html/template"
	"strings"

	"marketingai-backend/internal/demo"
)

const demoConfirmationTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Hi {{.Name}},</p>
  <p>Your demo has been scheduled. Here are the details:</p>
  <ul>
    <li>Demo type: {{.TypeLabel}}</li>
    <li>Date: {{.Date}}</li>
    <li>Time: {{.Time}}</li>
    <li>Duration: {{.DurationLabel}}</li>
    <li>Timezone: {{.Timezone}}</li>
    {{if .CustomTopics}}<li>Topics: {{.CustomTopics}}</li>{{end}}
    <li>Reference: {{.DemoID}}</li>
  </ul>
  {{if .MeetingLink}}<p>Join link: <a href="{{.MeetingLink}}">{{.MeetingLink}}</a></p>{{end}}
  <p>If you need to change the time, reply to this email and we will reschedule.</p>
  <p>Talk soon.</p>
</body>
</html>`

var demoConfirmationTmpl = template.Must(template.New("demo_confirmation").Parse(demoConfirmationTemplate))

const demoRescheduleTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Hi {{.Name}},</p>
  <p>Your demo has been rescheduled. Here are the new details:</p>
  <ul>
    <li>Demo type: {{.TypeLabel}}</li>
    <li>New date: {{.Date}}</li>
    <li>New time: {{.Time}}</li>
    <li>Duration: {{.DurationLabel}}</li>
    <li>Timezone: {{.Timezone}}</li>
    <li>Reference: {{.DemoID}}</li>
  </ul>
  {{if .MeetingLink}}<p>Join link: <a href="{{.MeetingLink}}">{{.MeetingLink}}</a></p>{{end}}
  <p>Sorry for any inconvenience, and see you then.</p>
</body>
</html>`

var demoRescheduleTmpl = template.Must(template.New("demo_reschedule").Parse(demoRescheduleTemplate))

const demoReminderTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Hi {{.Name}},</p>
  <p>A quick reminder that your demo is today:</p>
  <ul>
    <li>Demo type: {{.TypeLabel}}</li>
    <li>Time: {{.Time}}</li>
    <li>Duration: {{.DurationLabel}}</li>
    <li>Timezone: {{.Timezone}}</li>
  </ul>
  {{if .MeetingLink}}<p>Join link: <a href="{{.MeetingLink}}">{{.MeetingLink}}</a></p>{{end}}
  <p>See you soon.</p>
</body>
</html>`

var demoReminderTmpl = template.Must(template.New("demo_reminder").Parse(demoReminderTemplate))

type demoEmailData struct {
	Name          string
	TypeLabel     string
	Date          string
	Time          string
	DurationLabel string
	Timezone      string
	CustomTopics  string
	MeetingLink   string
	DemoID        string
}

func newDemoEmailData(rec demo.Record) demoEmailData {
	return demoEmailData{
		Name:          rec.Requester.PersonalInfo.FirstName,
		TypeLabel:     demoTypeLabel(rec.Details.DemoType),
		Date:          rec.Details.PreferredDate.Format("Monday, January 2, 2006"),
		Time:          rec.Details.PreferredTime,
		DurationLabel: durationLabel(rec.Details.Duration),
		Timezone:      rec.Requester.PersonalInfo.Timezone,
		CustomTopics:  strings.Join(rec.Details.CustomTopics, ", "),
		MeetingLink:   rec.Status.VideoConferenceLink,
		DemoID:        rec.ID,
	}
}

func buildDemoConfirmationHTML(rec demo.Record) (string, error) {
	var buf bytes.Buffer
	if err := demoConfirmationTmpl.Execute(&buf, newDemoEmailData(rec)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildDemoRescheduleHTML(rec demo.Record) (string, error) {
	var buf bytes.Buffer
	if err := demoRescheduleTmpl.Execute(&buf, newDemoEmailData(rec)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildDemoReminderHTML(rec demo.Record) (string, error) {
	var buf bytes.Buffer
	if err := demoReminderTmpl.Execute(&buf, newDemoEmailData(rec)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func demoTypeLabel(value string) string {
	switch value {
	case demo.TypePlatformOverview:
		return "Platform overview"
	case demo.TypeAIContentCreation:
		return "AI content creation"
	case demo.TypeCampaignAuto:
		return "Campaign automation"
	case demo.TypeAnalytics:
		return "Analytics dashboard"
	case demo.TypeIntegrations:
		return "Integrations"
	case demo.TypeCustom:
		return "Custom demo"
	default:
		return value
	}
}

func durationLabel(value string) string {
	switch value {
	case demo.Duration30:
		return "30 minutes"
	case demo.Duration45:
		return "45 minutes"
	case demo.Duration60:
		return "60 minutes"
	default:
		return value
	}
}
