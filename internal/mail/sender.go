// Package mail sends the HTML report emails over SMTP.
package mail

import (
	"fmt"
	"net/smtp"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Sender delivers one HTML email. Implementations are synchronous: a nil
// return means the transport accepted the message.
type Sender interface {
	Send(recipients []string, subject, htmlBody string) error
}

// SMTPConfig holds the SMTP transport settings and credentials.
type SMTPConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	From     string `yaml:"from" mapstructure:"from"`
}

// Validate rejects incomplete credentials before any connection is made.
func (c SMTPConfig) Validate() error {
	if c.Host == "" || c.Username == "" || c.Password == "" || c.From == "" {
		return eris.New("mail: smtp host, username, password, and from are all required")
	}
	return nil
}

// SMTPSender sends via a plain-auth SMTP server, one connection per
// send, no retry. A rejected send is returned to the caller as-is.
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender validates the config and returns a sender.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPSender{cfg: cfg}, nil
}

// Send delivers the message to every recipient in one SMTP transaction.
func (s *SMTPSender) Send(recipients []string, subject, htmlBody string) error {
	if len(recipients) == 0 {
		return eris.New("mail: at least one recipient is required")
	}

	msg := buildMessage(s.cfg.From, recipients, subject, htmlBody)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	if err := smtp.SendMail(addr, auth, s.cfg.From, recipients, msg); err != nil {
		return eris.Wrapf(err, "mail: send via %s", addr)
	}
	zap.L().Info("report email sent",
		zap.String("subject", subject),
		zap.Int("recipients", len(recipients)))
	return nil
}

func buildMessage(from string, to []string, subject, htmlBody string) []byte {
	header := map[string]string{
		"From":         from,
		"To":           strings.Join(to, ", "),
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": `text/html; charset="UTF-8"`,
	}
	keys := make([]string, 0, len(header))
	for k := range header {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s: %s\r\n", k, header[k])
	}
	sb.WriteString("\r\n")
	sb.WriteString(htmlBody)
	return []byte(sb.String())
}

// MockSender records sends instead of delivering them; used in tests and
// when no SMTP credentials are configured.
type MockSender struct {
	Sent []MockMessage
}

// MockMessage is one recorded send.
type MockMessage struct {
	Recipients []string
	Subject    string
	HTMLBody   string
}

// Send records the message and succeeds.
func (m *MockSender) Send(recipients []string, subject, htmlBody string) error {
	if len(recipients) == 0 {
		return eris.New("mail: at least one recipient is required")
	}
	m.Sent = append(m.Sent, MockMessage{Recipients: recipients, Subject: subject, HTMLBody: htmlBody})
	return nil
}
