package emailsvc

import (
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/observa/core"
	appfs "github.com/trezcool/observa/fs"
	"github.com/trezcool/observa/tests"
)

var testConf = &core.Config{AppName: "Observa", TestMode: true, FrontendBaseURL: "http://localhost:3000"}

func TestConsoleServiceMock_SendMessages(t *testing.T) {
	require.NoError(t, core.LoadEmailTemplates(appfs.FS, appfs.TemplatesDir, testConf))
	ResetSentMessages()
	t.Cleanup(ResetSentMessages)

	logger := new(testutil.Logger)
	svc := NewConsoleServiceMock(testConf, logger)
	to := []mail.Address{{Name: "Laura", Address: "laura@school.mx"}}

	svc.SendMessages(
		&core.EmailMessage{To: to, Subject: "plain", BodyStr: "hola"},
		&core.EmailMessage{Subject: "no recipients", BodyStr: "hola"},
		&core.EmailMessage{To: to, Subject: "unknown", TemplateName: "nope"},
	)

	require.Len(t, SentMessages, 1)
	assert.Equal(t, "plain", SentMessages[0].Subject)
	assert.Equal(t, "hola", SentMessages[0].TextContent)
	assert.Len(t, logger.Errors, 1)
}

func TestSendgridService_prepare(t *testing.T) {
	conf := &core.Config{AppName: "Observa"}
	svc := NewSendgridService(conf, new(testutil.Logger)).(*sendgridService)

	m := svc.prepare(core.EmailMessage{
		To:          []mail.Address{{Name: "Laura", Address: "laura@school.mx"}},
		Subject:     "Observaciones pendientes",
		TextContent: "text",
	})
	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "[Observa] Observaciones pendientes", m.Personalizations[0].Subject)
	assert.Equal(t, "laura@school.mx", m.Personalizations[0].To[0].Address)
	assert.Len(t, m.Content, 1)
	assert.Equal(t, "Observa", m.From.Name)
}
