package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	mailtpl "github.com/oksasatya/social-feed/pkg/mailer/templates"
)

// Sender delivers one rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Outcome tells the consumer what to do with a delivery.
type Outcome int

const (
	Ack Outcome = iota
	// Drop rejects a message that can never succeed.
	Drop
	// Retry requeues a message after a transient failure.
	Retry
)

// Worker turns queued EmailJobs into sent emails.
type Worker struct {
	Sender  Sender
	AppName string
	Logger  *logrus.Logger
	Timeout time.Duration
}

func NewWorker(sender Sender, appName string, logger *logrus.Logger) *Worker {
	return &Worker{Sender: sender, AppName: appName, Logger: logger, Timeout: 15 * time.Second}
}

var errNoRecipient = errors.New("job has no recipient")

// Handle decodes, renders and sends one message body.
func (w *Worker) Handle(ctx context.Context, body []byte) Outcome {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.Logger.WithError(err).Warn("bad email job")
		return Drop
	}
	subject, text, html, err := w.render(&job)
	if err != nil {
		w.Logger.WithError(err).WithField("template", job.Template).Warn("render email failed")
		return Drop
	}

	c, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		w.Logger.WithError(err).WithField("template", job.Template).Error("send email failed")
		return Retry
	}
	return Ack
}

func (w *Worker) render(job *EmailJob) (subject, text, html string, err error) {
	if job.To == "" {
		return "", "", "", errNoRecipient
	}
	if job.Template == "" {
		return job.Subject, job.Text, job.HTML, nil
	}
	data := map[string]any{"AppName": w.AppName, "Email": job.To}
	for k, v := range job.Data {
		data[k] = v
	}
	return mailtpl.Render(job.Template, data)
}
