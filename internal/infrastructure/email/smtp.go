package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	// OpsAddress receives the billing notices; collections are worked
	// from a shared back-office mailbox, not sent to subscribers.
	OpsAddress string
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPEmailService{
		config: config,
		dialer: dialer,
	}
}

func (s *SMTPEmailService) SendExpiringSoonNotice(subscriberSID, planSID string, expiryDate string, daysRemaining int) error {
	subject := fmt.Sprintf("Plan expiring in %d day(s): %s", daysRemaining, subscriberSID)
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Plan Expiring Soon</h2>
			<p>Subscriber <b>%s</b> on plan <b>%s</b> expires on <b>%s</b> (%d day(s) remaining).</p>
			<p>Collect the renewal payment before the expiry date to avoid a service lapse.</p>
		</body>
		</html>
	`, subscriberSID, planSID, expiryDate, daysRemaining)

	plainBody := fmt.Sprintf(`
Plan Expiring Soon

Subscriber %s on plan %s expires on %s (%d day(s) remaining).

Collect the renewal payment before the expiry date to avoid a service lapse.
	`, subscriberSID, planSID, expiryDate, daysRemaining)

	return s.sendEmail(s.config.OpsAddress, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) SendPaymentDueNotice(subscriberSID, dueDate string) error {
	subject := "Payment due: " + subscriberSID

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Payment Due</h2>
			<p>Subscriber <b>%s</b> has an unpaid balance due on <b>%s</b>.</p>
		</body>
		</html>
	`, subscriberSID, dueDate)

	plainBody := fmt.Sprintf(`
Payment Due

Subscriber %s has an unpaid balance due on %s.
	`, subscriberSID, dueDate)

	return s.sendEmail(s.config.OpsAddress, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) SendExpiredNotice(subscriberSID, planSID, expiredOn string) error {
	subject := "Plan expired: " + subscriberSID

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Plan Expired</h2>
			<p>Subscriber <b>%s</b> on plan <b>%s</b> expired on <b>%s</b> and has been marked expired.</p>
			<p>Record a renewal to reactivate the connection.</p>
		</body>
		</html>
	`, subscriberSID, planSID, expiredOn)

	plainBody := fmt.Sprintf(`
Plan Expired

Subscriber %s on plan %s expired on %s and has been marked expired.

Record a renewal to reactivate the connection.
	`, subscriberSID, planSID, expiredOn)

	return s.sendEmail(s.config.OpsAddress, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) SendRenewalReceipt(subscriberSID, planSID, newExpiryDate string, reactivated bool) error {
	subject := "Renewal recorded: " + subscriberSID
	note := ""
	if reactivated {
		note = " The connection was reactivated."
	}

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Renewal Recorded</h2>
			<p>Subscriber <b>%s</b> on plan <b>%s</b> is now paid through <b>%s</b>.%s</p>
		</body>
		</html>
	`, subscriberSID, planSID, newExpiryDate, note)

	plainBody := fmt.Sprintf(`
Renewal Recorded

Subscriber %s on plan %s is now paid through %s.%s
	`, subscriberSID, planSID, newExpiryDate, note)

	return s.sendEmail(s.config.OpsAddress, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) sendEmail(to, subject, htmlBody, plainBody string) error {
	if to == "" {
		return fmt.Errorf("no recipient configured")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
