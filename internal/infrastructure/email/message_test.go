package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/orris-inc/rbnotify/internal/infrastructure/template"
	"github.com/orris-inc/rbnotify/internal/shared/config"
	"github.com/orris-inc/rbnotify/internal/shared/logger"
	"github.com/orris-inc/rbnotify/internal/shared/services/markdown"
)

func testModule() *template.Module {
	return &template.Module{
		Path:    "rb/emails/blockings/state_email_to_user.txt",
		Locale:  language.French,
		Subject: "Blocage de salle accepté",
		Body:    "Bonjour Ada,\n",
	}
}

func TestMakeEmail(t *testing.T) {
	m, err := MakeEmail(" ada@example.org ", testModule(),
		WithCC("cc@example.org", " "),
		WithBCC("audit@example.org"),
		WithReplyTo("rooms@example.org"),
		WithSubjectPrefix("Rooms"),
	)

	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, []string{"ada@example.org"}, m.To)
	assert.Equal(t, []string{"cc@example.org"}, m.CC)
	assert.Equal(t, []string{"audit@example.org"}, m.BCC)
	assert.Equal(t, "rooms@example.org", m.ReplyTo)
	assert.Equal(t, "[Rooms] Blocage de salle accepté", m.Subject)
	assert.Equal(t, "Bonjour Ada,\n", m.Body)
	assert.Equal(t, "fr", m.Locale)
	assert.Equal(t, "rb/emails/blockings/state_email_to_user.txt", m.Template)
	assert.Equal(t, []string{"ada@example.org", "cc@example.org", "audit@example.org"}, m.Recipients())
}

func TestMakeEmail_Errors(t *testing.T) {
	_, err := MakeEmail("  ", testModule())
	assert.ErrorIs(t, err, ErrNoRecipient)

	_, err = MakeEmail("ada@example.org", nil)
	assert.ErrorIs(t, err, ErrNoTemplate)
}

func TestMakeEmail_UniqueIDs(t *testing.T) {
	a, err := MakeEmail("a@example.org", testModule())
	require.NoError(t, err)
	b, err := MakeEmail("a@example.org", testModule())
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "<"+a.ID+"@rooms.example.org>", a.MessageIDHeader("rooms.example.org"))
}

func TestComposer_Compose(t *testing.T) {
	cfg := config.EmailConfig{
		FromAddress:     "noreply@rooms.example.org",
		FromName:        "Room Booking",
		ReplyTo:         "support@rooms.example.org",
		SubjectPrefix:   "RB",
		HTMLAlternative: true,
	}
	c := NewComposer(cfg, markdown.NewMarkdownService(), logger.NewNop())

	m, err := c.Compose("ada@example.org", testModule())

	require.NoError(t, err)
	assert.Equal(t, "noreply@rooms.example.org", m.From)
	assert.Equal(t, "Room Booking", m.FromName)
	assert.Equal(t, "support@rooms.example.org", m.ReplyTo)
	assert.Equal(t, "[RB] Blocage de salle accepté", m.Subject)
	assert.Contains(t, m.HTML, "<p>Bonjour Ada,</p>")
}

func TestComposer_NoHTMLWhenDisabled(t *testing.T) {
	c := NewComposer(config.EmailConfig{FromAddress: "noreply@example.org"}, markdown.NewMarkdownService(), logger.NewNop())

	m, err := c.Compose("ada@example.org", testModule())

	require.NoError(t, err)
	assert.Empty(t, m.HTML)
	assert.Empty(t, m.ReplyTo)
	assert.Equal(t, "Blocage de salle accepté", m.Subject)
}
