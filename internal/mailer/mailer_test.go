package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockSender struct {
	calls []string
}

func (m *mockSender) SendStatusChanged(toEmail, listingTitle, status string) error {
	m.calls = append(m.calls, toEmail+"|"+listingTitle+"|"+status)
	return nil
}

func TestSenderInterface(t *testing.T) {
	var s Sender = &mockSender{}
	err := s.SendStatusChanged("owner@example.com", "2BHK in Koramangala", "ACTIVE")

	assert.NoError(t, err)
	assert.Equal(t, []string{"owner@example.com|2BHK in Koramangala|ACTIVE"}, s.(*mockSender).calls)
}

func TestMailerImplementsSender(t *testing.T) {
	var _ Sender = New("smtp.example.com", 587, "noreply@example.com", "secret")
}
