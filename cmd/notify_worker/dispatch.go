package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pokedex-api/pkg/helpers"
	"github.com/oksasatya/pokedex-api/pkg/mailer"
	mailtpl "github.com/oksasatya/pokedex-api/pkg/mailer/templates"
)

// Sender delivers one rendered message. *mailer.Mailgun satisfies it.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// dispatcher turns queued notification jobs into sent mail.
type dispatcher struct {
	sender      Sender
	geo         mailtpl.GeoResolver
	logger      *logrus.Logger
	sendTimeout time.Duration
}

func (d *dispatcher) handle(ctx context.Context, body []byte) helpers.Outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		d.logger.WithError(err).Warn("bad message")
		return helpers.Drop
	}
	if job.To == "" {
		d.logger.Warn("message without recipient")
		return helpers.Drop
	}
	helpers.EnsureRecipient(&job)
	d.locate(ctx, job.Data)

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		s, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			d.logger.WithError(err).WithField("template", job.Template).Error("render failed")
			return helpers.Drop
		}
		subject, text, html = s, t, h
	}

	c, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()
	if err := d.sender.Send(c, job.To, subject, text, html); err != nil {
		d.logger.WithError(err).WithField("template", job.Template).Warn("send failed; requeueing")
		return helpers.Requeue
	}
	d.logger.WithField("template", job.Template).Debug("notification sent")
	return helpers.Ack
}

// locate fills Location from IP when the publisher did not.
func (d *dispatcher) locate(ctx context.Context, data map[string]any) {
	if d.geo == nil {
		return
	}
	if loc, ok := data["Location"].(string); ok && loc != "" {
		return
	}
	ip, _ := data["IP"].(string)
	if ip == "" {
		return
	}
	g, err := d.geo.Lookup(ctx, ip)
	if err != nil {
		d.logger.WithError(err).WithField("ip", ip).Debug("geo lookup failed")
		return
	}
	data["Location"] = mailtpl.FormatGeo(g)
}
