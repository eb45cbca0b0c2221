package helpers

import (
	"github.com/oksasatya/pokedex-api/pkg/mailer"
)

// EnsureRecipient fills the template's recipient fields from the job address
// when the publisher left them empty.
func EnsureRecipient(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	for _, k := range []string{"Email", "RecipientEmail"} {
		if v, ok := job.Data[k].(string); !ok || v == "" {
			job.Data[k] = job.To
		}
	}
}
