package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "blogicum@ya.ru", cfg.Mail.From)
	assert.Equal(t, 72*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.False(t, cfg.Mail.Enabled())
	assert.False(t, cfg.Twilio.Enabled())
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownLogFormat(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("LOG_FORMAT", "xml")

	_, err := Load()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	d := Database{Host: "db", Port: "5433", User: "u", Password: "p", Name: "blog", SSLMode: "require"}
	assert.Equal(t, "host=db user=u password=p dbname=blog port=5433 sslmode=require TimeZone=UTC", d.DSN())
}

func TestTwilioRecipients(t *testing.T) {
	tw := Twilio{AccountSID: "AC1", AuthToken: "t", From: "+100", AlertTo: " +200, ,+300"}
	assert.True(t, tw.Enabled())
	assert.Equal(t, []string{"+200", "+300"}, tw.Recipients())
}
