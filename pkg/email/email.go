package email

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/pkg/errors"
)

type Config struct {
	Host     string `envconfig:"SMTP_HOST" default:"smtp.yandex.ru"`
	Port     string `envconfig:"SMTP_PORT" default:"465"`
	From     string `envconfig:"SMTP_FROM"`
	Password string `envconfig:"SMTP_PASSWORD" json:"-"`
}

type Sender interface {
	Send(to, subject, body string) error
}

type sender struct {
	cfg Config
}

func NewSender(cfg Config) Sender {
	return &sender{cfg: cfg}
}

// Send delivers a plain-text message over implicit-TLS SMTP.
func (s *sender) Send(to, subject, body string) error {
	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.Host})
	if err != nil {
		return errors.Wrap(err, "smtp dial")
	}
	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return errors.Wrap(err, "smtp client")
	}
	defer client.Close()

	auth := smtp.PlainAuth("", s.cfg.From, s.cfg.Password, s.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return errors.Wrap(err, "smtp auth")
	}
	if err := client.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	msg := buildMessage(s.cfg.From, to, subject, body)
	if _, err := w.Write([]byte(msg)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func buildMessage(from, to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(body)
	return b.String()
}
