package templates

import (
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithSupportURL(url string) Option { return func(d *EmailData) { d.SupportURL = url } }

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
		d.Year = utc.Year()
	}
}

// NewData fills the common fields and applies opts.
func NewData(typ, appName, username, email string, opts ...Option) map[string]any {
	d := EmailData{
		Username: username,
		Email:    email,
		Type:     typ,
		AppName:  appName,
	}
	WithTime(time.Now())(&d)
	for _, opt := range opts {
		opt(&d)
	}
	return ToMap(d)
}
