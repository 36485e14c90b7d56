package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strings"
	"time"

	"redbutton/pkg/config"
)

type IMailService interface {
	SendInviteMail(to, webLink, desktopLink string) error
}

type smtpMailService struct {
	cfg     config.SMTPSettings
	htmlTpl *template.Template
	textTpl *template.Template
}

func NewSMTPMailService(cfg config.SMTPSettings) (IMailService, error) {
	htmlTpl := template.Must(template.New("inviteHTML").Parse(inviteHTMLTemplate))
	textTpl := template.Must(template.New("inviteText").Parse(inviteTextTemplate))

	return &smtpMailService{
		cfg:     cfg,
		htmlTpl: htmlTpl,
		textTpl: textTpl,
	}, nil
}

type inviteMailData struct {
	WebLink     string
	DesktopLink string
	Year        int
}

const inviteHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>You're invited to RedButton</title>
  <style>
    body { margin: 0; padding: 0; background: #0f172a; color: #f1f5f9; font-family: -apple-system, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; }
    .container { max-width: 600px; margin: 40px auto; background: #1e293b; border-radius: 16px; overflow: hidden; }
    .hero { padding: 40px 32px; }
    h1 { margin: 0 0 16px; font-size: 26px; color: #f1f5f9; }
    p { margin: 0 0 20px; line-height: 1.7; color: #cbd5e1; font-size: 16px; }
    .btn { display: inline-block; padding: 16px 32px; background: #dc2626; color: #ffffff !important; text-decoration: none; border-radius: 12px; font-weight: 600; }
    .muted { color: #94a3b8; font-size: 13px; }
    .link-text { color: #f87171; word-break: break-all; font-size: 13px; }
    .footer { padding: 24px 32px; color: #64748b; font-size: 13px; text-align: center; }
  </style>
</head>
<body>
  <div class="container">
    <div class="hero">
      <h1>You're invited to RedButton</h1>
      <p>You've been invited to join RedButton, your personal wellbeing companion. This invitation expires in 7 days.</p>
      <p><a class="btn" href="{{.WebLink}}">Accept Invitation</a></p>
      <p class="muted">Already have the desktop app installed? Open it directly:</p>
      <p><a href="{{.DesktopLink}}" class="link-text">{{.DesktopLink}}</a></p>
      <p class="muted">If the button doesn't work, copy and paste this link into your browser:</p>
      <p><a href="{{.WebLink}}" class="link-text">{{.WebLink}}</a></p>
    </div>
    <div class="footer">© {{.Year}} RedButton. All rights reserved.</div>
  </div>
</body>
</html>`

const inviteTextTemplate = `You're invited to RedButton

You've been invited to join RedButton, your personal wellbeing companion.
This invitation expires in 7 days.

Open this link to accept:
{{.WebLink}}

Or open it in the desktop app:
{{.DesktopLink}}

— RedButton (c) {{.Year}}
`

func (s *smtpMailService) SendInviteMail(to, webLink, desktopLink string) error {
	data := inviteMailData{
		WebLink:     webLink,
		DesktopLink: desktopLink,
		Year:        time.Now().Year(),
	}

	var hb, tb bytes.Buffer
	if err := s.htmlTpl.Execute(&hb, data); err != nil {
		return err
	}
	if err := s.textTpl.Execute(&tb, data); err != nil {
		return err
	}

	return s.send(to, "You're invited to RedButton", hb.String(), tb.String())
}

func (s *smtpMailService) send(to, subject, htmlBody, textBody string) error {
	fromHeader := s.formatFromHeader()
	date := time.Now().Format(time.RFC1123Z)
	boundary := fmt.Sprintf("mixed_%d", time.Now().UnixNano())

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = msg.WriteString(fmt.Sprintf(format, a...)) }

	write("From: %s\r\n", fromHeader)
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", subject)
	write("Date: %s\r\n", date)
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	write("\r\n")

	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 7bit\r\n\r\n")
	write("%s\r\n\r\n", textBody)

	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 7bit\r\n\r\n")
	write("%s\r\n\r\n", htmlBody)

	write("--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if s.cfg.UseSSL {
		// SMTPS (implicit TLS, usually port 465)
		tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
		conn, err := tls.Dial("tcp", addr, tlsCfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		c, err := smtp.NewClient(conn, s.cfg.Host)
		if err != nil {
			return err
		}
		defer c.Quit()

		if err = c.Auth(auth); err != nil {
			return err
		}
		return s.writeMessage(c, to, msg.Bytes())
	}

	// STARTTLS path (typically port 587)
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if ok, _ := c.Extension("STARTTLS"); ok {
		tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
		if err = c.StartTLS(tlsCfg); err != nil {
			return err
		}
	}

	if err = c.Auth(auth); err != nil {
		return err
	}
	return s.writeMessage(c, to, msg.Bytes())
}

func (s *smtpMailService) writeMessage(c *smtp.Client, to string, body []byte) error {
	if err := c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(body); err != nil {
		return err
	}
	return w.Close()
}

func (s *smtpMailService) formatFromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", name, s.cfg.From)
}
