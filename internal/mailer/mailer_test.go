package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// MockMailer stands in for real SMTP delivery.
type MockMailer struct {
	ApprovedCalled bool
	RejectedCalled bool
	EnquiryCalled  bool
	LastRecipient  string
}

func (m *MockMailer) SendListingApproved(toEmail, brand, model string) error {
	m.ApprovedCalled = true
	m.LastRecipient = toEmail
	return nil
}

func (m *MockMailer) SendListingRejected(toEmail, brand, model, reason string) error {
	m.RejectedCalled = true
	m.LastRecipient = toEmail
	return nil
}

func (m *MockMailer) SendEnquiryReceived(toEmail, brand, model, message string) error {
	m.EnquiryCalled = true
	m.LastRecipient = toEmail
	return nil
}

func TestMockMailerSatisfiesInterface(t *testing.T) {
	var m Mailer = &MockMailer{}

	assert.NoError(t, m.SendListingApproved("seller@example.com", "Peugeot", "308"))
	assert.NoError(t, m.SendListingRejected("seller@example.com", "Peugeot", "308", "photos manquantes"))
	assert.NoError(t, m.SendEnquiryReceived("seller@example.com", "Peugeot", "308", "Bonjour"))

	mock := m.(*MockMailer)
	assert.True(t, mock.ApprovedCalled)
	assert.True(t, mock.RejectedCalled)
	assert.True(t, mock.EnquiryCalled)
	assert.Equal(t, "seller@example.com", mock.LastRecipient)
}
