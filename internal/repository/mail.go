package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/cbrief/chain-daily/internal/model"
)

// AmbiguousDeliveryError wraps a transport error reported after the
// message body was already accepted, where the mail most likely went
// out anyway. Callers must surface it as its own outcome, not success
// or failure.
type AmbiguousDeliveryError struct {
	Err error
}

func (e *AmbiguousDeliveryError) Error() string {
	return "mail transport ambiguous (likely delivered): " + e.Err.Error()
}

func (e *AmbiguousDeliveryError) Unwrap() error { return e.Err }

// IsAmbiguousDelivery reports whether err is an ambiguous-delivery signal.
func IsAmbiguousDelivery(err error) bool {
	var ade *AmbiguousDeliveryError
	return errors.As(err, &ade)
}

// Mailer is the mail transport boundary.
type Mailer interface {
	SendReport(ctx context.Context, record *model.RunRecord, artifact model.Artifact) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
	to     []string
}

// NewSMTPMailer creates a Mailer over SMTP with STARTTLS.
func NewSMTPMailer(host string, port int, username, password, from string, to []string) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		to:     to,
	}
}

// SendReport mails the assembled document (and image bundle, when one
// exists) to the configured recipients.
func (m *smtpMailer) SendReport(ctx context.Context, record *model.RunRecord, artifact model.Artifact) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to...)
	msg.SetHeader("Subject", fmt.Sprintf("Chain Daily - %s", record.Date.Format("2006-01-02")))
	msg.SetBody("text/html", formatReportBody(record))

	msg.Attach(artifact.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(artifact.Document))
		return err
	}))
	if artifact.HasBundle() {
		msg.Attach(artifact.BundleFilename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := io.Copy(w, bytes.NewReader(artifact.Bundle))
			return err
		}))
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return classifySendError(err)
	}
	return nil
}

// classifySendError separates ordinary transport failures from
// ambiguous ones reported after the message was likely accepted.
func classifySendError(err error) error {
	text := strings.ToLower(err.Error())
	for _, marker := range []string{
		"short response",
		"connection reset by peer",
		"use of closed network connection",
		"unexpected eof",
	} {
		if strings.Contains(text, marker) {
			return &AmbiguousDeliveryError{Err: err}
		}
	}
	return fmt.Errorf("sending mail: %w", err)
}

// formatReportBody creates the HTML email body with run statistics.
func formatReportBody(record *model.RunRecord) string {
	title := ""
	description := ""
	if record.Article != nil {
		title = record.Article.Title
		description = record.Article.Description
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
    <h1 style="margin: 0; font-size: 24px;">Chain Daily</h1>
    <div style="margin-top: 10px; font-size: 14px;">%s</div>
  </div>
  <div style="background: white; padding: 30px; border: 1px solid #ddd;">
    <h2 style="color: #667eea; margin-top: 0;">%s</h2>
    <p style="padding: 15px; background: #f8f9fa; border-left: 4px solid #667eea;">%s</p>
    <table style="width: 100%%; text-align: center; margin: 30px 0;">
      <tr>
        <td><div style="font-size: 36px; font-weight: bold; color: #667eea;">%d</div><div style="font-size: 14px; color: #666;">news items</div></td>
        <td><div style="font-size: 36px; font-weight: bold; color: #667eea;">%d</div><div style="font-size: 14px; color: #666;">illustrations</div></td>
      </tr>
    </table>
    <p style="color: #666; font-size: 14px; text-align: center;">The full report is attached as a PDF.</p>
  </div>
  <div style="background: #f8f9fa; padding: 20px; text-align: center; font-size: 12px; color: #666; border-radius: 0 0 10px 10px;">
    Generated at %s
  </div>
</body>
</html>`,
		record.Date.Format("2006-01-02"),
		title,
		description,
		record.FilteredItems,
		record.Illustrations,
		time.Now().UTC().Format("2006-01-02 15:04:05 MST"))
}
