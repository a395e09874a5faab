package mailer

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	dialer   *gomail.Dialer
	appName  string
	fromAddr string
	log      *logrus.Logger
}

func NewSMTPMailer(host string, port int, email, password, appName, fromAddr string, logger *logrus.Logger) Mailer {
	return &smtpMailer{
		dialer:   gomail.NewDialer(host, port, email, password),
		appName:  appName,
		fromAddr: fromAddr,
		log:      logger,
	}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.fromAddr, m.appName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.log.Errorf("Mailer: failed to send %q to %s: %v", subject, to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.log.Infof("Mailer: sent %q to %s", subject, to)
	return nil
}
