package mail

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/Musallamjaw/CTRL/config"
	"github.com/Musallamjaw/CTRL/internal/models"
)

// SMTPSender delivers ticket confirmations and contact-form messages.
// AttachmentDir is where the QR generator writes its images; ticket records
// only carry the file name.
type SMTPSender struct {
	cfg           config.SMTPConfig
	dialer        *gomail.Dialer
	AttachmentDir string
}

func NewSMTPSender(cfg *config.SMTPConfig, attachmentDir string) *SMTPSender {
	return &SMTPSender{
		cfg:           *cfg,
		dialer:        gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		AttachmentDir: attachmentDir,
	}
}

func (s *SMTPSender) SendTickets(to string, tickets []models.Ticket) error {
	if to == "" {
		return fmt.Errorf("recipient email is not defined")
	}

	var cards strings.Builder
	for _, ticket := range tickets {
		fmt.Fprintf(&cards, `
			<div style="border:1px solid #000; color:white; padding:10px; margin-bottom:10px; max-width:300px; border-radius:1rem; text-align:center; background-color:rgb(20, 16, 44);">
				<h2>%s</h2>
				<p>Date: %s</p>
				<p>Location: %s</p>
				<img src="cid:%s" alt="QR Code" style="width:100%%; border-radius:1rem;"/>
			</div>`,
			ticket.EventData.Title,
			ticket.EventData.Date.Format("Jan 2, 2006 at 3:04 PM"),
			ticket.EventData.Location,
			ticket.QRCode,
		)
	}

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h1>Your Event Tickets</h1>
			<p>Thank you for your purchase! Here are your tickets:</p>
			%s
			<p>Please present these tickets at the event entrance.</p>
		</body>
		</html>`, cards.String())

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.FromAddress)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your Event Tickets")
	m.SetBody("text/html", htmlBody)
	for _, ticket := range tickets {
		m.Embed(filepath.Join(s.AttachmentDir, ticket.QRCode))
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send ticket email: %w", err)
	}
	return nil
}

func (s *SMTPSender) SendContactMessage(name, email, phone, subject, message string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.FromAddress)
	m.SetHeader("To", s.cfg.ClubAddress)
	m.SetHeader("Subject", fmt.Sprintf("New Message from %s - %s", name, subject))
	m.SetBody("text/plain", fmt.Sprintf(
		"You have received a new message from %s (%s):\n\n%s\n\nPhone: %s",
		name, email, message, phone,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send contact message: %w", err)
	}
	return nil
}
