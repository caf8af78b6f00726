package notifications

import (
	"bytes"
	"html/template"
)

const contactReplyTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Hi {{.Name}},</p>
  <p>Thanks for reaching out. We received your message and a member of our team will get back to you within one business day.</p>
  <p>In the meantime, feel free to book a live demo of the platform from our website.</p>
  <p>The Marketing AI team</p>
</body>
</html>`

var contactReplyTmpl = template.Must(template.New("contact_reply").Parse(contactReplyTemplate))

type contactReplyData struct {
	Name string
}

func buildContactReplyHTML(name string) (string, error) {
	var buf bytes.Buffer
	if err := contactReplyTmpl.Execute(&buf, contactReplyData{Name: name}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
