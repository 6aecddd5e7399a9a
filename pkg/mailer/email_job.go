package mailer

import "errors"

// EmailJob is the queue payload for one account email. The API enqueues
// Template plus Data; the worker renders Subject, Text and HTML from them.
// Jobs without a template are sent with the bodies they carry.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// Validate rejects jobs that can never be delivered.
func (j EmailJob) Validate() error {
	switch {
	case j.To == "":
		return errors.New("email job has no recipient")
	case j.Template == "" && j.Text == "" && j.HTML == "":
		return errors.New("email job has no template and no body")
	}
	return nil
}
