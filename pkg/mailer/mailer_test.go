package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMIME(t *testing.T) {
	msg := Message{
		To:      []string{"a@example.com", "b@example.com"},
		Subject: "New post: Hello",
		HTML:    "<h2>Hello</h2>",
	}

	body := string(buildMIME("CodeShareForum", "noreply@codeshareforum.dev", msg))

	assert.True(t, strings.Contains(body, "From: CodeShareForum <noreply@codeshareforum.dev>"))
	assert.True(t, strings.Contains(body, "To: a@example.com, b@example.com"))
	assert.True(t, strings.Contains(body, "Subject: New post: Hello"))
	assert.True(t, strings.Contains(body, "Content-Type: text/html"))
	assert.True(t, strings.HasSuffix(body, "<h2>Hello</h2>"))
}

func TestSend_NoRecipients(t *testing.T) {
	s := &SMTPSender{addr: "localhost:587", from: "noreply@codeshareforum.dev"}

	err := s.Send(Message{Subject: "x", HTML: "y"})
	assert.Error(t, err)
}
