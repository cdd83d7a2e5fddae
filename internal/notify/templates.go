package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/Shreytangani17/Task-Mangement-System/internal/domain"
)

var defaultSubjects = map[domain.NotificationKind]string{
	domain.NotificationAssignment:   "New task assigned",
	domain.NotificationDeadline:     "Task deadline approaching",
	domain.NotificationOverdue:      "Task overdue",
	domain.NotificationStatusChange: "Task status updated",
}

const bodyTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>{{.Subject}}</h2>
  <p>Hello {{.Name}},</p>
  <p>{{.Message}}</p>
  {{- if .Details}}
  <p>{{.Details}}</p>
  {{- end}}
  <p style="color: #888; font-size: 12px;">You can review this notification in the Task Management System.</p>
</body>
</html>
`

var emailBody = template.Must(template.New("notification").Parse(bodyTemplate))

type emailData struct {
	Subject string
	Name    string
	Message string
	Details string
}

// render builds the e-mail for n addressed to recipient. Caller-supplied
// text is HTML-escaped by the template.
func render(recipient *domain.User, n *domain.Notification, subject, details string) (Message, error) {
	if subject == "" {
		subject = defaultSubjects[n.Kind]
	}

	var buf bytes.Buffer
	err := emailBody.Execute(&buf, emailData{
		Subject: subject,
		Name:    recipient.Name,
		Message: n.Message,
		Details: details,
	})
	if err != nil {
		return Message{}, fmt.Errorf("failed to render notification e-mail: %w", err)
	}

	return Message{
		To:       recipient.Email,
		Subject:  subject,
		HTMLBody: buf.String(),
	}, nil
}
