package notifications

import (
	"bytes"
	"html/template"
)

const otpTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Hi {{.Name}},</p>
  <p>Use this code to verify your Marketing AI account:</p>
  <p style="font-size:24px;letter-spacing:4px;font-weight:bold;">{{.OTP}}</p>
  <p>The code expires in {{.TTLHours}} hours. If you did not create an account, ignore this email.</p>
</body>
</html>`

var otpTmpl = template.Must(template.New("otp_email").Parse(otpTemplate))

type otpEmailData struct {
	Name     string
	OTP      string
	TTLHours int
}

func buildOTPHTML(name, otp string) (string, error) {
	data := otpEmailData{
		Name:     name,
		OTP:      otp,
		TTLHours: 24,
	}
	var buf bytes.Buffer
	if err := otpTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
