package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pokedex-api/internal/domain/entity"
	repo "github.com/oksasatya/pokedex-api/internal/domain/repository"
	"github.com/oksasatya/pokedex-api/pkg/mailer"
	tpl "github.com/oksasatya/pokedex-api/pkg/mailer/templates"
)

// Notifier enqueues notification jobs. helpers.RabbitPublisher satisfies it.
type Notifier interface {
	PublishJSON(ctx context.Context, body any) error
}

// AvatarMirror copies a verified avatar to object storage and returns its URL.
type AvatarMirror interface {
	Mirror(ctx context.Context, accountID string, avatar entity.Avatar) (string, error)
}

// RequestMeta is client information attached to security notifications.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// notify publishes a templated job. Failures are logged and never surface
// to the caller.
func notify(ctx context.Context, n Notifier, logger *logrus.Logger, b tpl.Branding, template string, acc *entity.Account, meta RequestMeta, opts ...tpl.Option) {
	if n == nil || acc == nil {
		return
	}
	opts = append(opts, tpl.WithTime(time.Now()), tpl.WithIP(meta.IP), tpl.WithUserAgent(meta.UserAgent))
	job := mailer.EmailJob{
		To:       acc.Email,
		Template: template,
		Data:     tpl.NewData(b, acc.Handle, acc.Email, opts...),
	}
	if err := n.PublishJSON(ctx, job); err != nil && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{"user_id": acc.ID, "template": template}).Warn("publish notification failed")
	}
}

// mirrorAvatar uploads the avatar when a mirror is configured and records
// the resulting URL on the profile. Best effort.
func mirrorAvatar(ctx context.Context, m AvatarMirror, profiles repo.ProfileRepository, logger *logrus.Logger, accountID string, avatar entity.Avatar) {
	if m == nil {
		return
	}
	url, err := m.Mirror(ctx, accountID, avatar)
	if err != nil {
		if logger != nil {
			logger.WithError(err).WithField("user_id", accountID).Warn("avatar mirror failed")
		}
		return
	}
	_, err = profiles.Mutate(ctx, accountID, func(p *entity.Profile) error {
		p.Avatar.URL = url
		return nil
	})
	if err != nil && logger != nil {
		logger.WithError(err).WithField("user_id", accountID).Warn("record avatar url failed")
	}
}
