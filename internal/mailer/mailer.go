package mailer

import (
	"fmt"

	"github.com/carmarket/listing-service/internal/platform/logger"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer sends transactional seller notifications.
type Mailer interface {
	SendListingApproved(toEmail, brand, model string) error
	SendListingRejected(toEmail, brand, model, reason string) error
	SendEnquiryReceived(toEmail, brand, model, message string) error
}

// SMTPMailer implements Mailer over SMTP with gomail.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	sender   string
	logger   *logger.Logger
}

// NewSMTPMailer builds a mailer; it does not dial until the first send.
func NewSMTPMailer(host string, port int, username, password, sender string, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		sender:   sender,
		logger:   log.Named("Mailer"),
	}
}

func (m *SMTPMailer) send(toEmail, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.host, m.port, m.username, m.password)
	if err := d.DialAndSend(msg); err != nil {
		m.logger.Error("Failed to send email",
			zap.String("to", toEmail),
			zap.String("subject", subject),
			zap.Error(err))
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}
	m.logger.Info("Email sent", zap.String("to", toEmail), zap.String("subject", subject))
	return nil
}

// SendListingApproved notifies the seller that the listing went live.
func (m *SMTPMailer) SendListingApproved(toEmail, brand, model string) error {
	subject := "Votre annonce est en ligne"
	body := fmt.Sprintf("Votre annonce %s %s a été approuvée et est maintenant visible par les acheteurs.", brand, model)
	return m.send(toEmail, subject, body)
}

// SendListingRejected notifies the seller of a rejected listing.
func (m *SMTPMailer) SendListingRejected(toEmail, brand, model, reason string) error {
	subject := "Votre annonce a été refusée"
	body := fmt.Sprintf("Votre annonce %s %s a été refusée. Motif : %s", brand, model, reason)
	return m.send(toEmail, subject, body)
}

// SendEnquiryReceived forwards a buyer's message to the seller.
func (m *SMTPMailer) SendEnquiryReceived(toEmail, brand, model, message string) error {
	subject := fmt.Sprintf("Nouveau message concernant votre %s %s", brand, model)
	body := fmt.Sprintf("Un acheteur vous a envoyé le message suivant :\n\n%s", message)
	return m.send(toEmail, subject, body)
}
