package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/cornucopia-api/pkg/mailer"
	mailtpl "github.com/oksasatya/cornucopia-api/pkg/mailer/templates"
)

func TestRenderJobWelcome(t *testing.T) {
	job := mailer.EmailJob{
		To:       "alice@example.com",
		Template: mailtpl.Welcome,
		Data:     mailtpl.NewData(mailtpl.Welcome, "Cornucopia", "alice", "", mailtpl.WithSupportURL("https://help.example.com")),
	}
	out, err := renderJob(job)
	require.NoError(t, err)

	assert.Equal(t, "Cornucopia: welcome, alice", out.Subject)
	assert.Contains(t, out.Text, "Hi alice,")
	assert.Contains(t, out.Text, "https://help.example.com")
	assert.Contains(t, out.HTML, "<h2>Hi alice,</h2>")
	assert.Equal(t, "alice@example.com", out.Data["Email"])
}

func TestRenderJobKeepsExplicitSubject(t *testing.T) {
	out, err := renderJob(mailer.EmailJob{
		To:       "bob@example.com",
		Subject:  "custom",
		Template: mailtpl.AccountClosed,
		Data:     mailtpl.NewData(mailtpl.AccountClosed, "Cornucopia", "bob", "bob@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "custom", out.Subject)
	assert.NotEmpty(t, out.HTML)
}

func TestRenderJobPlain(t *testing.T) {
	out, err := renderJob(mailer.EmailJob{To: "carol@example.com", Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "Notification", out.Subject)
	assert.Equal(t, "hello", out.Text)
	assert.Empty(t, out.HTML)
}

func TestRenderJobNeedsRecipient(t *testing.T) {
	_, err := renderJob(mailer.EmailJob{Template: mailtpl.Welcome})
	assert.Error(t, err)

	_, err = renderJob(mailer.EmailJob{To: "dave@example.com"})
	assert.Error(t, err, "no template and no body")
}
