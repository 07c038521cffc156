package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipe-share-api/internal/domain/entity"
	"github.com/oksasatya/recipe-share-api/pkg/mailer"
	mailtpl "github.com/oksasatya/recipe-share-api/pkg/mailer/templates"
)

// Publisher puts a JSON job on the email queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Notifier enqueues account lifecycle emails. Failures are logged, never
// returned, so a broker outage cannot fail a signup or a removal.
type Notifier struct {
	Pub     Publisher
	Brand   mailtpl.Brand
	Enabled bool
	Logger  *logrus.Logger
}

func NewNotifier(pub Publisher, brand mailtpl.Brand, enabled bool, logger *logrus.Logger) *Notifier {
	return &Notifier{Pub: pub, Brand: brand, Enabled: enabled, Logger: logger}
}

func (n *Notifier) active() bool { return n != nil && n.Enabled && n.Pub != nil }

func (n *Notifier) Welcome(ctx context.Context, u *entity.User) {
	if !n.active() {
		return
	}
	n.enqueue(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.Welcome,
		Data:     mailtpl.NewWelcomeData(n.Brand, u.DisplayName(), u.Email),
	})
}

func (n *Notifier) AccountRemoved(ctx context.Context, u *entity.User) {
	if !n.active() {
		return
	}
	n.enqueue(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.AccountRemoved,
		Data:     mailtpl.NewAccountRemovedData(n.Brand, u.DisplayName(), u.Email, mailtpl.WithTime(time.Now())),
	})
}

func (n *Notifier) enqueue(ctx context.Context, job mailer.EmailJob) {
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := n.Pub.PublishJSON(c, job); err != nil && n.Logger != nil {
		n.Logger.WithError(err).WithField("template", job.Template).Warn("failed to publish email job")
	}
}
