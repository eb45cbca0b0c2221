package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/pokedex-api/pkg/mailer"
)

func TestEnsureRecipient(t *testing.T) {
	job := mailer.EmailJob{To: "ash@x.com", Template: mailer.TemplateWelcome}
	EnsureRecipient(&job)
	assert.Equal(t, "ash@x.com", job.Data["Email"])
	assert.Equal(t, "ash@x.com", job.Data["RecipientEmail"])

	job = mailer.EmailJob{To: "ash@x.com", Data: map[string]any{"Email": "old@x.com"}}
	EnsureRecipient(&job)
	assert.Equal(t, "old@x.com", job.Data["Email"])
	assert.Equal(t, "ash@x.com", job.Data["RecipientEmail"])
}
