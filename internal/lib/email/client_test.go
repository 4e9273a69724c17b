package email

import (
	"bytes"
	"html/template"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raffihq/recipe-api/internal/config"
)

func TestClientDisabledWithoutAPIKey(t *testing.T) {
	log := zerolog.Nop()
	c := NewClient(&config.Config{}, &log)

	assert.False(t, c.Enabled())
	assert.NoError(t, c.SendWelcomeEmail("someone@example.com", "Someone"))
}

func TestClientEnabledWithAPIKey(t *testing.T) {
	log := zerolog.Nop()
	cfg := &config.Config{}
	cfg.Integration.ResendAPIKey = "re_test_key"

	assert.True(t, NewClient(cfg, &log).Enabled())
}

func TestWelcomeTemplateRenders(t *testing.T) {
	tmpl, err := template.ParseFS(templates, "templates/welcome.html")
	require.NoError(t, err)

	var body bytes.Buffer
	require.NoError(t, tmpl.Execute(&body, map[string]string{"Name": "Alice"}))
	assert.Contains(t, body.String(), "Welcome, Alice!")
}
