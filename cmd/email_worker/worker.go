package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipe-share-api/pkg/helpers"
	"github.com/oksasatya/recipe-share-api/pkg/mailer"
	mailtpl "github.com/oksasatya/recipe-share-api/pkg/mailer/templates"
)

type outcome int

const (
	outcomeAck outcome = iota
	outcomeDrop
	outcomeRetry
)

// worker turns queued EmailJobs into delivered mail.
type worker struct {
	Sender  mailer.Sender
	Logger  *logrus.Logger
	Timeout time.Duration
}

// Handle renders and sends one job. Malformed or unrenderable jobs are
// dropped; delivery failures are retried.
func (w *worker) Handle(ctx context.Context, body []byte) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		helpers.LogError(w.Logger, "bad email job", err, nil)
		return outcomeDrop
	}
	if job.To == "" {
		helpers.LogError(w.Logger, "email job without recipient", nil, logrus.Fields{"template": job.Template})
		return outcomeDrop
	}
	helpers.EnsureRecipientAndEmail(&job)

	subject, text, html := job.Subject, job.Text, job.HTML
	if mailtpl.Known(job.Template) {
		s, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			helpers.LogError(w.Logger, "render email failed", err, logrus.Fields{"template": job.Template})
			return outcomeDrop
		}
		subject, text, html = s, t, h
	}
	if subject == "" {
		subject = helpers.SubjectFor(&job)
	}

	timeout := w.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		helpers.LogError(w.Logger, "send email failed", err, logrus.Fields{"to": job.To, "template": job.Template})
		return outcomeRetry
	}
	helpers.LogInfo(w.Logger, "email sent", logrus.Fields{"to": job.To, "template": job.Template})
	return outcomeAck
}
