package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/course-marketplace/pkg/mailer"
)

// EnsureRecipientAndEmail fills Email and RecipientEmail from job.To when a
// producer left them out.
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// NormalizeTemplate lowercases the template name and mirrors it into
// Data["Type"] so templates can branch on it.
func NormalizeTemplate(job *mailer.EmailJob) {
	job.Template = strings.ToLower(strings.TrimSpace(job.Template))
	if job.Template == "" {
		return
	}
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Type"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Type"] = job.Template
	}
}
