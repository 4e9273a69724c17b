// Package email sends transactional email through Resend, rendering
// bodies from embedded HTML templates.
package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/raffihq/recipe-api/internal/config"
)

//go:embed templates/*.html
var templates embed.FS

// Client wraps the Resend client. When no API key is configured the
// client is disabled and sends become logged no-ops.
type Client struct {
	client *resend.Client
	from   string
	logger *zerolog.Logger
}

// NewClient creates an email Client from integration config.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	c := &Client{
		from:   cfg.Integration.EmailFrom,
		logger: logger,
	}
	if cfg.Integration.ResendAPIKey != "" {
		c.client = resend.NewClient(cfg.Integration.ResendAPIKey)
	}
	return c
}

// Enabled reports whether a provider API key is configured.
func (c *Client) Enabled() bool {
	return c.client != nil
}

// SendEmail renders the named template with data and sends it to the
// recipient.
func (c *Client) SendEmail(to, subject string, templateName Template, data map[string]string) error {
	if c.client == nil {
		c.logger.Debug().
			Str("to", to).
			Str("template", string(templateName)).
			Msg("email delivery disabled, skipping send")
		return nil
	}

	tmpl, err := template.ParseFS(templates, fmt.Sprintf("templates/%s.html", templateName))
	if err != nil {
		return errors.Wrapf(err, "failed to parse email template %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return errors.Wrapf(err, "failed to execute email template %s", templateName)
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    body.String(),
	}

	if _, err := c.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
