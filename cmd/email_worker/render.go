package main

import (
	"fmt"

	"github.com/oksasatya/cornucopia-api/pkg/helpers"
	"github.com/oksasatya/cornucopia-api/pkg/mailer"
	mailtpl "github.com/oksasatya/cornucopia-api/pkg/mailer/templates"
)

// renderJob fills subject and bodies from the job's template. Jobs without a
// known template are sent as given.
func renderJob(job mailer.EmailJob) (mailer.EmailJob, error) {
	if err := job.Validate(); err != nil {
		return job, err
	}
	helpers.EnsureRecipientAndEmail(&job)

	if mailtpl.Known(job.Template) {
		s, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			return job, fmt.Errorf("render %s: %w", job.Template, err)
		}
		if job.Subject == "" {
			job.Subject = s
		}
		job.Text, job.HTML = t, h
	}
	if job.Subject == "" {
		job.Subject = helpers.SubjectFor(job.Template)
	}
	return job, nil
}
