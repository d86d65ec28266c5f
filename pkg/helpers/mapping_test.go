package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/course-marketplace/pkg/mailer"
)

func TestEnsureRecipientAndEmail(t *testing.T) {
	job := &mailer.EmailJob{To: "sam@example.com"}
	EnsureRecipientAndEmail(job)
	assert.Equal(t, "sam@example.com", job.Data["Email"])
	assert.Equal(t, "sam@example.com", job.Data["RecipientEmail"])

	job = &mailer.EmailJob{To: "sam@example.com", Data: map[string]any{"Email": "kept@example.com", "RecipientEmail": ""}}
	EnsureRecipientAndEmail(job)
	assert.Equal(t, "kept@example.com", job.Data["Email"])
	assert.Equal(t, "sam@example.com", job.Data["RecipientEmail"])
}

func TestNormalizeTemplate(t *testing.T) {
	job := &mailer.EmailJob{Template: "  Enrollment_Receipt "}
	NormalizeTemplate(job)
	assert.Equal(t, "enrollment_receipt", job.Template)
	assert.Equal(t, "enrollment_receipt", job.Data["Type"])

	job = &mailer.EmailJob{Subject: "raw"}
	NormalizeTemplate(job)
	assert.Empty(t, job.Template)
	assert.Nil(t, job.Data)
}
