package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/recipe-share-api/pkg/mailer"
	mailtpl "github.com/oksasatya/recipe-share-api/pkg/mailer/templates"
)

// SubjectFor picks a fallback subject when a job arrives without one.
func SubjectFor(job *mailer.EmailJob) string {
	if job.Subject != "" {
		return job.Subject
	}
	switch strings.ToLower(job.Template) {
	case mailtpl.Welcome:
		return "Welcome aboard"
	case mailtpl.AccountRemoved:
		return "Your account was removed"
	default:
		return "Notification"
	}
}

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
