package mail

import (
	"crypto/tls"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool
	Timeout  time.Duration
}

// Mailer delivers multipart/alternative messages over SMTP. Send reports
// the number of messages delivered, zero on any failure, matching the
// dispatcher contract the reminder scheduler relies on.
type Mailer struct {
	config Config
}

func NewMailer(config Config) *Mailer {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &Mailer{config: config}
}

func (mailer *Mailer) Send(subject string, plainBody string, htmlBody string, recipient string) (int, error) {
	if strings.TrimSpace(recipient) == "" {
		return 0, fmt.Errorf("empty recipient")
	}

	message, err := buildMessage(mailer.config.From, recipient, subject, plainBody, htmlBody)
	if err != nil {
		return 0, fmt.Errorf("build message: %w", err)
	}

	if err := mailer.deliver(recipient, message); err != nil {
		return 0, err
	}
	return 1, nil
}

func (mailer *Mailer) deliver(recipient string, message []byte) error {
	addr := net.JoinHostPort(mailer.config.Host, fmt.Sprintf("%d", mailer.config.Port))

	conn, err := net.DialTimeout("tcp", addr, mailer.config.Timeout)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	_ = conn.SetDeadline(time.Now().Add(mailer.config.Timeout))

	client, err := smtp.NewClient(conn, mailer.config.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if mailer.config.UseTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: mailer.config.Host}); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}

	if mailer.config.Username != "" {
		auth := smtp.PlainAuth("", mailer.config.Username, mailer.config.Password, mailer.config.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(mailer.config.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(recipient); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := writer.Write(message); err != nil {
		writer.Close()
		return fmt.Errorf("write message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finish message: %w", err)
	}

	return client.Quit()
}

func buildMessage(from string, to string, subject string, plainBody string, htmlBody string) ([]byte, error) {
	var body strings.Builder
	alternative := multipart.NewWriter(&body)

	headers := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMessage-ID: <%s@%s>\r\nMIME-Version: 1.0\r\nContent-Type: multipart/alternative; boundary=%q\r\n\r\n",
		from,
		to,
		mime.QEncoding.Encode("utf-8", subject),
		uuid.NewString(),
		messageIDDomain(from),
		alternative.Boundary(),
	)

	plainPart, err := alternative.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := plainPart.Write([]byte(plainBody)); err != nil {
		return nil, err
	}

	htmlPart, err := alternative.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=utf-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := htmlPart.Write([]byte(htmlBody)); err != nil {
		return nil, err
	}

	if err := alternative.Close(); err != nil {
		return nil, err
	}

	return []byte(headers + body.String()), nil
}

func messageIDDomain(from string) string {
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		return from[at+1:]
	}
	return "localhost"
}
