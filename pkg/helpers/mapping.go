package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/cornucopia-api/pkg/mailer"
	mailtpl "github.com/oksasatya/cornucopia-api/pkg/mailer/templates"
)

// SubjectFor is the fallback subject when a job carries none and its template
// cannot be rendered.
func SubjectFor(template string) string {
	switch strings.ToLower(template) {
	case mailtpl.Welcome:
		return "Welcome to Cornucopia"
	case mailtpl.AccountClosed:
		return "Your account was closed"
	default:
		return "Notification"
	}
}

// EnsureRecipientAndEmail copies job.To into Data.Email when absent.
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
}
